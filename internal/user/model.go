package user

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleWorker   Role = "worker"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleWorker:
		return true
	}
	return false
}

// CanManage reports whether the role may manage menu items and
// override order fulfillment. Used as the single staff-policy check
// everywhere instead of inline role comparisons.
func CanManage(r Role) bool {
	return r == RoleAdmin || r == RoleWorker
}

type User struct {
	ID           uint
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}
