package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user data storage.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
}
