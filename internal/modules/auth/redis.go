package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/markethub/markethub-backend/internal/apperr"
)

type redisOTPStore struct {
	rdb *redis.Client
}

// NewRedisOTPStore creates an OTPStore backed by Redis. The TTL on the
// key doubles as the code expiry.
func NewRedisOTPStore(rdb *redis.Client) OTPStore {
	return &redisOTPStore{rdb: rdb}
}

func (s *redisOTPStore) Save(ctx context.Context, email, codeHash string) error {
	return s.rdb.Set(ctx, "otp:"+email, codeHash, otpTTL).Err()
}

func (s *redisOTPStore) Get(ctx context.Context, email string) (string, error) {
	hash, err := s.rdb.Get(ctx, "otp:"+email).Result()
	if err == redis.Nil {
		return "", apperr.E(apperr.ErrNotFound, "no outstanding code for %s", email)
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (s *redisOTPStore) Consume(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, "otp:"+email).Err()
}

type redisRateLimiter struct {
	rdb *redis.Client
}

// NewRedisRateLimiter creates a fixed-window counter limiter.
func NewRedisRateLimiter(rdb *redis.Client) RateLimiter {
	return &redisRateLimiter{rdb: rdb}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := l.rdb.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, "ratelimit:"+key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}
