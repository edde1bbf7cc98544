package seller

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for sellers.
type Repository interface {
	// CreateForUser creates an active seller row for a newly registered
	// seller account.
	CreateForUser(ctx context.Context, userID uuid.UUID, storeName string) error

	// StatusByUserID returns the seller's current status. Read fresh on
	// every gated request.
	StatusByUserID(ctx context.Context, userID uuid.UUID) (string, error)

	// IDByUserID resolves the seller row behind a user account.
	IDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)

	// GetByUserID returns the seller joined with its user account.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Seller, error)

	// UpdateProfile applies the non-nil fields and returns the result.
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Seller, error)

	// Stats aggregates product count, order count, non-cancelled revenue
	// and the commission owed.
	Stats(ctx context.Context, sellerID uuid.UUID) (*Stats, error)
}
