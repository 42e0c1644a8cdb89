package menu

import "time"

type MenuItem struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	IsAvailable bool      `json:"isAvailable"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	IsAvailable *bool   `json:"isAvailable"`
	Image       *string `json:"image"`
}

type UpdateInput struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	IsAvailable *bool    `json:"isAvailable"`
	Image       *string  `json:"image"`
}

// ChangePayload is the menu.changed event body. Type is one of
// "add", "edit", "delete"; Item is nil for deletes.
type ChangePayload struct {
	Type string    `json:"type"`
	Item *MenuItem `json:"item,omitempty"`
	ID   uint      `json:"id,omitempty"`
}
