package admin

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/seller"
)

type fakeRepo struct {
	sellers map[uuid.UUID]*seller.Seller
}

func newFakeRepo() *fakeRepo { return &fakeRepo{sellers: map[uuid.UUID]*seller.Seller{}} }

func (r *fakeRepo) PlatformStats(context.Context) (*Stats, error) { return &Stats{}, nil }

func (r *fakeRepo) ListSellers(context.Context) ([]*seller.Seller, error) {
	var out []*seller.Seller
	for _, s := range r.sellers {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeRepo) GetSeller(_ context.Context, id uuid.UUID) (*seller.Seller, error) {
	s, ok := r.sellers[id]
	if !ok {
		return nil, apperr.E(apperr.ErrNotFound, "seller not found")
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) UpdateSellerStatus(_ context.Context, id uuid.UUID, status string) error {
	s, ok := r.sellers[id]
	if !ok {
		return apperr.E(apperr.ErrNotFound, "seller not found")
	}
	s.Status = status
	return nil
}

func (r *fakeRepo) RecordPayment(_ context.Context, id uuid.UUID, at time.Time) error {
	s, ok := r.sellers[id]
	if !ok {
		return apperr.E(apperr.ErrNotFound, "seller not found")
	}
	s.CommissionOwed = 0
	s.LastPaymentDate = &at
	return nil
}

func (r *fakeRepo) ListOverdueSellers(_ context.Context, cutoff time.Time) ([]*seller.Seller, error) {
	var out []*seller.Seller
	for _, s := range r.sellers {
		since := s.CreatedAt
		if s.LastPaymentDate != nil {
			since = *s.LastPaymentDate
		}
		if s.Status == seller.StatusActive && s.CommissionOwed > 0 && since.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSettings struct{}

func (fakeSettings) CommissionRate(context.Context) (float64, error) { return 10, nil }
func (fakeSettings) AllowBargain(context.Context) (bool, error)      { return true, nil }
func (fakeSettings) All(context.Context) (map[string]json.RawMessage, error) {
	return map[string]json.RawMessage{}, nil
}
func (fakeSettings) Update(_ context.Context, v map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	return v, nil
}

func seedSeller(repo *fakeRepo, status string, owed float64, lastPayment *time.Time, createdAt time.Time) *seller.Seller {
	s := &seller.Seller{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		StoreName:       "Store",
		Status:          status,
		CommissionOwed:  owed,
		LastPaymentDate: lastPayment,
		CreatedAt:       createdAt,
	}
	repo.sellers[s.ID] = s
	return s
}

func TestSetSellerStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeSettings{})
	s := seedSeller(repo, seller.StatusActive, 0, nil, time.Now())

	got, err := svc.SetSellerStatus(context.Background(), s.ID, seller.StatusBanned)
	if err != nil {
		t.Fatalf("SetSellerStatus: %v", err)
	}
	if got.Status != seller.StatusBanned {
		t.Errorf("status = %q, want banned", got.Status)
	}

	if _, err := svc.SetSellerStatus(context.Background(), s.ID, "archived"); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("bad status err = %v, want invalid", err)
	}
	if _, err := svc.SetSellerStatus(context.Background(), uuid.New(), seller.StatusActive); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown seller err = %v, want not found", err)
	}
}

func TestSuspendUnpaid(t *testing.T) {
	now := time.Now()
	old := now.Add(-45 * 24 * time.Hour)
	recent := now.Add(-5 * 24 * time.Hour)

	tests := []struct {
		name        string
		owed        float64
		lastPayment *time.Time
		createdAt   time.Time
		wantErr     bool
	}{
		{"overdue since signup", 120, nil, old, false},
		{"overdue since last payment", 120, &old, recent, false},
		{"paid recently", 120, &recent, old, true},
		{"new seller in grace period", 120, nil, recent, true},
		{"nothing owed", 0, nil, old, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := NewService(repo, fakeSettings{})
			s := seedSeller(repo, seller.StatusActive, tt.owed, tt.lastPayment, tt.createdAt)

			got, err := svc.SuspendUnpaid(context.Background(), s.ID)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrInvalid) {
					t.Fatalf("err = %v, want invalid", err)
				}
				if repo.sellers[s.ID].Status != seller.StatusActive {
					t.Error("seller was suspended despite grace period")
				}
				return
			}
			if err != nil {
				t.Fatalf("SuspendUnpaid: %v", err)
			}
			if got.Status != seller.StatusSuspended {
				t.Errorf("status = %q, want suspended", got.Status)
			}
		})
	}
}

func TestRecordPaymentResetsDebt(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeSettings{})
	old := time.Now().Add(-60 * 24 * time.Hour)
	s := seedSeller(repo, seller.StatusActive, 250, nil, old)

	got, err := svc.RecordPayment(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if got.CommissionOwed != 0 {
		t.Errorf("commission owed = %v, want 0", got.CommissionOwed)
	}
	if got.LastPaymentDate == nil {
		t.Fatal("last payment date not set")
	}

	// A seller who just paid is no longer suspendable.
	if _, err := svc.SuspendUnpaid(context.Background(), s.ID); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("post-payment suspend err = %v, want invalid", err)
	}
}

func TestSweepUnpaid(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeSettings{})
	now := time.Now()
	old := now.Add(-45 * 24 * time.Hour)

	overdueA := seedSeller(repo, seller.StatusActive, 80, nil, old)
	overdueB := seedSeller(repo, seller.StatusActive, 40, &old, now)
	fresh := seedSeller(repo, seller.StatusActive, 40, nil, now)
	clean := seedSeller(repo, seller.StatusActive, 0, nil, old)

	n, err := svc.SweepUnpaid(context.Background())
	if err != nil {
		t.Fatalf("SweepUnpaid: %v", err)
	}
	if n != 2 {
		t.Errorf("suspended = %d, want 2", n)
	}
	for _, s := range []*seller.Seller{overdueA, overdueB} {
		if repo.sellers[s.ID].Status != seller.StatusSuspended {
			t.Errorf("seller %s status = %q, want suspended", s.ID, repo.sellers[s.ID].Status)
		}
	}
	for _, s := range []*seller.Seller{fresh, clean} {
		if repo.sellers[s.ID].Status != seller.StatusActive {
			t.Errorf("seller %s status = %q, want active", s.ID, repo.sellers[s.ID].Status)
		}
	}
}
