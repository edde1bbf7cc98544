package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for product listings.
type Repository interface {
	Create(ctx context.Context, p *Product) error

	// GetActive returns the product only when it is active and its
	// seller is active; used by the public storefront.
	GetActive(ctx context.Context, id uuid.UUID) (*Product, error)

	// Get returns the product regardless of status; used for owner
	// mutations.
	Get(ctx context.Context, id uuid.UUID) (*Product, error)

	// ListActive returns active products of active sellers, filtered.
	ListActive(ctx context.Context, filter Filter) ([]*Product, error)

	// ListBySeller returns all of a seller's products, any status.
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Product, error)

	Update(ctx context.Context, p *Product) error
}
