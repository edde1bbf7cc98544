package seller

import (
	"context"

	"github.com/google/uuid"
)

// Service defines seller-facing business logic. Moderation (status
// changes, commission payments) lives in the admin module.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*Seller, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Seller, error)
	Stats(ctx context.Context, userID uuid.UUID) (*Stats, error)
}

type service struct{ repo Repository }

// NewService creates a new seller service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*Seller, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Seller, error) {
	return s.repo.UpdateProfile(ctx, userID, req)
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	id, err := s.repo.IDByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, id)
}
