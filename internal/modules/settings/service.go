package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/markethub/markethub-backend/internal/apperr"
)

// Service exposes typed platform settings. Every read goes to storage;
// admin updates must be visible to the very next operation, so values
// are never cached in-process.
type Service interface {
	// CommissionRate returns the platform commission percentage, 10 when unset.
	CommissionRate(ctx context.Context) (float64, error)

	// AllowBargain returns the platform-wide bargain toggle, true when unset.
	AllowBargain(ctx context.Context) (bool, error)

	// All returns every setting keyed by name.
	All(ctx context.Context) (map[string]json.RawMessage, error)

	// Update upserts the given values and returns the full settings map.
	Update(ctx context.Context, values map[string]json.RawMessage) (map[string]json.RawMessage, error)
}

type service struct{ repo Repository }

// NewService creates a new settings service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CommissionRate(ctx context.Context) (float64, error) {
	var rate float64
	found, err := s.getInto(ctx, KeyCommissionRate, &rate)
	if err != nil {
		return 0, err
	}
	if !found {
		return DefaultCommissionRate, nil
	}
	return rate, nil
}

func (s *service) AllowBargain(ctx context.Context) (bool, error) {
	var allowed bool
	found, err := s.getInto(ctx, KeyAllowBargain, &allowed)
	if err != nil {
		return false, err
	}
	if !found {
		return DefaultAllowBargain, nil
	}
	return allowed, nil
}

func (s *service) All(ctx context.Context) (map[string]json.RawMessage, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, values map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	for key, value := range values {
		if !json.Valid(value) {
			return nil, apperr.E(apperr.ErrInvalid, "setting %s is not valid JSON", key)
		}
		if err := s.repo.Upsert(ctx, key, value); err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx)
}

// getInto reads one key into dest. Returns false for a missing key; a
// stored value of the wrong shape is treated as missing so a bad write
// cannot take order placement down.
func (s *service) getInto(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Printf("setting %s has unexpected shape %s: %v", key, raw, err)
		return false, nil
	}
	return true, nil
}
