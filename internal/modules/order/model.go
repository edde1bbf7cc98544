package order

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Transitions are forward-only; a delivered or
// cancelled order never moves again.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var validTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Payment methods.
const (
	PaymentCOD    = "cod"
	PaymentOnline = "online"
)

// OrderItem is one line of an order. Price is the unit price locked in
// at placement time; an accepted bargain offer overrides the list price.
type OrderItem struct {
	ProductID      uuid.UUID  `json:"product_id"`
	Name           string     `json:"name"`
	Quantity       int        `json:"quantity"`
	Price          float64    `json:"price"`
	BargainOfferID *uuid.UUID `json:"bargain_offer_id,omitempty"`
}

// Order groups a customer's purchase from a single seller.
type Order struct {
	ID              uuid.UUID   `json:"id"`
	CustomerID      uuid.UUID   `json:"customer_id"`
	SellerID        uuid.UUID   `json:"seller_id"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	ShippingAddress string      `json:"shipping_address"`
	IdempotencyKey  string      `json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// Display fields joined from users and sellers.
	CustomerEmail string `json:"customer_email,omitempty"`
	StoreName     string `json:"store_name,omitempty"`
}

// PlaceOrderItem is one requested line of a new order.
type PlaceOrderItem struct {
	ProductID      string `json:"product_id" validate:"required,uuid"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	BargainOfferID string `json:"bargain_offer_id" validate:"omitempty,uuid"`
}

// PlaceOrderRequest is the payload for placing an order.
type PlaceOrderRequest struct {
	Items           []PlaceOrderItem `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   string           `json:"payment_method" validate:"required,oneof=cod online"`
	ShippingAddress string           `json:"shipping_address" validate:"required,min=1"`
	IdempotencyKey  string           `json:"idempotency_key" validate:"omitempty,max=128"`
}

// UpdateStatusRequest is the seller's status-change payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed shipped delivered cancelled"`
}
