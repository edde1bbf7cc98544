package admin

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/modules/seller"
)

// Repository defines the admin module's data access.
type Repository interface {
	PlatformStats(ctx context.Context) (*Stats, error)

	ListSellers(ctx context.Context) ([]*seller.Seller, error)

	GetSeller(ctx context.Context, id uuid.UUID) (*seller.Seller, error)

	UpdateSellerStatus(ctx context.Context, id uuid.UUID, status string) error

	// RecordPayment zeroes the seller's commission balance and stamps
	// the payment date.
	RecordPayment(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListOverdueSellers returns active sellers owing commission whose
	// last payment (or signup, if they never paid) is before the cutoff.
	ListOverdueSellers(ctx context.Context, cutoff time.Time) ([]*seller.Seller, error)
}
