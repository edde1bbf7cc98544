package seller

import (
	"time"

	"github.com/google/uuid"
)

// Seller statuses. Only active sellers pass the request gate; the other
// two are set by platform admins.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusBanned    = "banned"
)

// Seller wraps a user account with a storefront and the platform's
// commission ledger. CommissionOwed only grows through order placement
// and is reset when an admin records a payment.
type Seller struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	StoreName        string     `json:"store_name"`
	StoreDescription string     `json:"store_description,omitempty"`
	Status           string     `json:"status"`
	CommissionOwed   float64    `json:"commission_owed"`
	LastPaymentDate  *time.Time `json:"last_payment_date,omitempty"`
	Email            string     `json:"email,omitempty"`
	IsVerified       bool       `json:"is_verified,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Stats summarises a seller's activity for the dashboard.
type Stats struct {
	Products       int     `json:"products"`
	Orders         int     `json:"orders"`
	Revenue        float64 `json:"revenue"`
	CommissionOwed float64 `json:"commission_owed"`
}

// UpdateProfileRequest is the payload for editing the storefront.
type UpdateProfileRequest struct {
	StoreName        *string `json:"store_name" validate:"omitempty,min=1"`
	StoreDescription *string `json:"store_description"`
}
