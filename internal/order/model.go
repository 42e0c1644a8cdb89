package order

import (
	"math"
	"time"
)

type Status string

// Customer self-service transitions start and end at Received; staff
// overrides may set any of these values at any time.
const (
	StatusReceived  Status = "Received"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusPickedUp  Status = "Picked up"
	StatusCanceled  Status = "Canceled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusReceived, StatusPreparing, StatusReady, StatusPickedUp, StatusCanceled:
		return true
	}
	return false
}

// SelfEditable reports whether the owner may still cancel or edit the
// order. Once the kitchen starts, only staff can touch it.
func (s Status) SelfEditable() bool {
	return s == StatusReceived
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentOnline:
		return true
	}
	return false
}

// ServiceChargeRate is the fixed service charge applied to every order.
const ServiceChargeRate = 0.10

// Line is a snapshot of a menu item at order time. Name and unit price
// are copied so historical orders keep the price as charged, even after
// later menu edits.
type Line struct {
	MenuItemID uint    `json:"menuItemId"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unitPrice"`
	Qty        int     `json:"qty"`
	LineTotal  float64 `json:"lineTotal"`
}

type Order struct {
	ID            uint          `json:"id"`
	UserID        uint          `json:"userId"`
	Items         []Line        `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	ServiceCharge float64       `json:"serviceCharge"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PickupTime    *string       `json:"pickupTime"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type NewLine struct {
	MenuItemID uint `json:"menuItemId"`
	Qty        int  `json:"qty"`
}

type CreateInput struct {
	Items         []NewLine     `json:"items"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PickupTime    *string       `json:"pickupTime"`
}

// SelfPatch is the slice of an order its owner may still edit.
type SelfPatch struct {
	PaymentMethod *PaymentMethod `json:"paymentMethod"`
}

// Round2 rounds money values to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
