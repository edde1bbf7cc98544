package admin

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/seller"
	"github.com/markethub/markethub-backend/internal/modules/settings"
)

// Sellers owing commission get this long after their last payment (or
// signup) before SuspendUnpaid will act on them.
const paymentGracePeriod = 30 * 24 * time.Hour

// Service defines super-admin business logic.
type Service interface {
	PlatformStats(ctx context.Context) (*Stats, error)

	ListSellers(ctx context.Context) ([]*seller.Seller, error)

	// SetSellerStatus moderates a seller account.
	SetSellerStatus(ctx context.Context, id uuid.UUID, status string) (*seller.Seller, error)

	// SuspendUnpaid suspends one seller, but only when their commission
	// debt is past the grace period.
	SuspendUnpaid(ctx context.Context, id uuid.UUID) (*seller.Seller, error)

	// RecordPayment clears a seller's commission debt.
	RecordPayment(ctx context.Context, id uuid.UUID) (*seller.Seller, error)

	// SweepUnpaid suspends every seller past the grace period. Returns
	// how many were suspended; used by the scheduled sweep.
	SweepUnpaid(ctx context.Context) (int, error)

	Settings(ctx context.Context) (map[string]json.RawMessage, error)

	UpdateSettings(ctx context.Context, values map[string]json.RawMessage) (map[string]json.RawMessage, error)
}

type service struct {
	repo     Repository
	settings settings.Service
}

// NewService creates a new admin service.
func NewService(repo Repository, settings settings.Service) Service {
	return &service{repo: repo, settings: settings}
}

func (s *service) PlatformStats(ctx context.Context) (*Stats, error) {
	return s.repo.PlatformStats(ctx)
}

func (s *service) ListSellers(ctx context.Context) ([]*seller.Seller, error) {
	return s.repo.ListSellers(ctx)
}

func (s *service) SetSellerStatus(ctx context.Context, id uuid.UUID, status string) (*seller.Seller, error) {
	switch status {
	case seller.StatusActive, seller.StatusSuspended, seller.StatusBanned:
	default:
		return nil, apperr.E(apperr.ErrInvalid, "status must be one of active, suspended, banned")
	}
	if err := s.repo.UpdateSellerStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetSeller(ctx, id)
}

func (s *service) SuspendUnpaid(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	sl, err := s.repo.GetSeller(ctx, id)
	if err != nil {
		return nil, err
	}
	if !overdue(sl, time.Now()) {
		return nil, apperr.E(apperr.ErrInvalid, "seller has no overdue commission")
	}
	if err := s.repo.UpdateSellerStatus(ctx, id, seller.StatusSuspended); err != nil {
		return nil, err
	}
	return s.repo.GetSeller(ctx, id)
}

func (s *service) RecordPayment(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	if _, err := s.repo.GetSeller(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.RecordPayment(ctx, id, time.Now()); err != nil {
		return nil, err
	}
	return s.repo.GetSeller(ctx, id)
}

func (s *service) SweepUnpaid(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-paymentGracePeriod)
	overdueSellers, err := s.repo.ListOverdueSellers(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	suspended := 0
	for _, sl := range overdueSellers {
		if err := s.repo.UpdateSellerStatus(ctx, sl.ID, seller.StatusSuspended); err != nil {
			log.Printf("suspend overdue seller %s: %v", sl.ID, err)
			continue
		}
		suspended++
	}
	return suspended, nil
}

func (s *service) Settings(ctx context.Context) (map[string]json.RawMessage, error) {
	return s.settings.All(ctx)
}

func (s *service) UpdateSettings(ctx context.Context, values map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	return s.settings.Update(ctx, values)
}

// overdue reports whether the seller owes commission past the grace
// period, measured from their last payment or their signup.
func overdue(sl *seller.Seller, now time.Time) bool {
	if sl.Status != seller.StatusActive || sl.CommissionOwed <= 0 {
		return false
	}
	since := sl.CreatedAt
	if sl.LastPaymentDate != nil {
		since = *sl.LastPaymentDate
	}
	return now.Sub(since) > paymentGracePeriod
}
