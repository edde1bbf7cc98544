package auth

import (
	"context"
	"time"
)

const (
	otpTTL = 10 * time.Minute

	otpRequestLimit   = 5
	loginAttemptLimit = 10
	rateLimitWindow   = 15 * time.Minute
)

// OTPStore holds at most one outstanding code hash per email. Saving a
// new code invalidates any previous one.
type OTPStore interface {
	Save(ctx context.Context, email, codeHash string) error
	// Get returns the stored hash, or apperr.ErrNotFound when no live
	// code exists (never issued, expired, or already consumed).
	Get(ctx context.Context, email string) (string, error)
	Consume(ctx context.Context, email string) error
}

// RateLimiter counts events per key inside a rolling window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
