package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a registered shopper or an admin-lite operator.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
