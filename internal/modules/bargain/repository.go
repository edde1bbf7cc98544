package bargain

import (
	"context"

	"github.com/google/uuid"
)

// ProductInfo is the slice of a product an offer decision needs.
type ProductInfo struct {
	ID              uuid.UUID
	SellerID        uuid.UUID
	Price           float64
	MinBargainPrice *float64
	AllowBargain    bool
}

// Repository defines data access for bargain offers.
type Repository interface {
	// GetBargainProduct returns the product only if it is active and
	// belongs to an active seller.
	GetBargainProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error)

	CreateOffer(ctx context.Context, o *Offer) error

	GetOffer(ctx context.Context, id uuid.UUID) (*Offer, error)

	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Offer, error)

	ListPendingBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Offer, error)

	// Transition moves the offer out of pending. It returns false when
	// the offer was no longer pending, which means another request won.
	Transition(ctx context.Context, offerID uuid.UUID, to string, counterPrice *float64) (bool, error)

	// ProductPrice returns the current price of the offer's product.
	ProductPrice(ctx context.Context, productID uuid.UUID) (float64, error)
}
