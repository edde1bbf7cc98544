package user

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognised by the platform.
const (
	RoleSuperAdmin = "super_admin"
	RoleSeller     = "seller"
	RoleCustomer   = "customer"
)

// User represents an account in the system. Sellers additionally have a
// row in the sellers table keyed by UserID.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
