package order

import (
	"context"

	"github.com/google/uuid"
)

// ProductInfo is the slice of a product order placement needs.
type ProductInfo struct {
	ID       uuid.UUID
	SellerID uuid.UUID
	Name     string
	Price    float64
	Stock    int
}

// OfferInfo is the slice of a bargain offer order placement needs.
type OfferInfo struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	CustomerID   uuid.UUID
	Status       string
	OfferPrice   float64
	CounterPrice *float64
}

// Repository defines data access for orders.
type Repository interface {
	// GetActiveProduct returns the product only if it is active and
	// belongs to an active seller.
	GetActiveProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error)

	GetBargainOffer(ctx context.Context, offerID uuid.UUID) (*OfferInfo, error)

	// GetByIdempotencyKey returns a customer's earlier order placed with
	// the same key, or not-found.
	GetByIdempotencyKey(ctx context.Context, customerID uuid.UUID, key string) (*Order, error)

	// CreateOrder inserts the order, decrements each product's stock and
	// adds the commission to the seller's balance in one transaction.
	// Insufficient stock on any line rolls the whole order back.
	CreateOrder(ctx context.Context, o *Order, commission float64) error

	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error)

	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Order, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
