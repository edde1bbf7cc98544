package bargain

import (
	"time"

	"github.com/google/uuid"
)

// Offer statuses. A pending offer moves to exactly one of the other
// three states; accepted, rejected and countered are all terminal for
// the seller (a countered offer waits for the customer to place an
// order at the counter price or walk away).
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCountered = "countered"
)

// Offer is a customer's price proposal on a single product.
type Offer struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	SellerID     uuid.UUID `json:"seller_id"`
	OfferPrice   float64   `json:"offer_price"`
	Status       string    `json:"status"`
	CounterPrice *float64  `json:"counter_price,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Display fields joined from products and users.
	ProductName   string  `json:"product_name,omitempty"`
	ProductPrice  float64 `json:"product_price,omitempty"`
	CustomerEmail string  `json:"customer_email,omitempty"`
}

// CreateOfferRequest is the payload for a new offer.
type CreateOfferRequest struct {
	ProductID  string  `json:"product_id" validate:"required,uuid"`
	OfferPrice float64 `json:"offer_price" validate:"required,gt=0"`
}

// CounterRequest is the seller's counter payload.
type CounterRequest struct {
	CounterPrice float64 `json:"counter_price" validate:"required,gt=0"`
}
