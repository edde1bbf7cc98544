package auth

import (
	"context"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/user"
)

// Principal is the authenticated identity attached to every request.
// Identity is verified once here; downstream modules trust ID and Role
// as given.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// Claims is the JWT payload issued on login and OTP verification.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// LoginResult is returned by every successful authentication flow.
type LoginResult struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    *user.User `json:"user"`
}

// SellerDirectory is the view of the seller module auth needs: creating
// the seller row for a first-time seller login and reading the status
// for the gate. Satisfied by seller.Repository.
type SellerDirectory interface {
	CreateForUser(ctx context.Context, userID uuid.UUID, storeName string) error
	StatusByUserID(ctx context.Context, userID uuid.UUID) (string, error)
}

// SellerStatusError reports a seller blocked by the status gate. The
// status is echoed to the caller as "reason".
type SellerStatusError struct {
	Status string
}

func (e *SellerStatusError) Error() string {
	return "your seller account is " + e.Status
}

func (e *SellerStatusError) Unwrap() error { return apperr.ErrForbidden }
