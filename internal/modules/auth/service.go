package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/notify"
	"github.com/markethub/markethub-backend/internal/modules/user"
)

const tokenLifetime = 7 * 24 * time.Hour

// Service defines the authentication business logic.
type Service interface {
	// SendOTP issues a one-time login code for the email and delivers it
	// best-effort. Blocked for suspended or banned sellers.
	SendOTP(ctx context.Context, email string) error

	// VerifyOTP checks and consumes the outstanding code. First-time
	// emails create an account with the requested role (customer when
	// empty); sellers also get an active store.
	VerifyOTP(ctx context.Context, email, code, role string) (*LoginResult, error)

	// Login authenticates with email and password.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// CurrentUser loads the account behind a principal.
	CurrentUser(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type service struct {
	users     user.Repository
	sellers   SellerDirectory
	otps      OTPStore
	limiter   RateLimiter
	mailer    notify.Mailer
	jwtSecret []byte
}

// NewService creates a new auth service.
func NewService(users user.Repository, sellers SellerDirectory, otps OTPStore, limiter RateLimiter, mailer notify.Mailer, jwtSecret string) Service {
	return &service{
		users:     users,
		sellers:   sellers,
		otps:      otps,
		limiter:   limiter,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *service) SendOTP(ctx context.Context, email string) error {
	ok, err := s.limiter.Allow(ctx, "otp:"+email, otpRequestLimit, rateLimitWindow)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.E(apperr.ErrTooManyRequests, "too many OTP requests, please try again later")
	}

	// Suspended and banned sellers cannot request a login at all.
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if u != nil && u.Role == user.RoleSeller {
		if err := s.checkSellerStatus(ctx, u.ID); err != nil {
			return err
		}
	}

	code := generateCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.otps.Save(ctx, email, string(hash)); err != nil {
		return fmt.Errorf("store otp for %s: %w", email, err)
	}

	// Delivery is best-effort and must never block the flow.
	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		log.Printf("otp email to %s failed: %v", email, err)
	}
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, email, code, role string) (*LoginResult, error) {
	ok, err := s.limiter.Allow(ctx, "login:"+email, loginAttemptLimit, rateLimitWindow)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.E(apperr.ErrTooManyRequests, "too many login attempts, please try again later")
	}

	hash, err := s.otps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.E(apperr.ErrInvalid, "OTP verification failed")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return nil, apperr.E(apperr.ErrInvalid, "OTP verification failed")
	}
	if err := s.otps.Consume(ctx, email); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		u, err = s.registerVerified(ctx, email, role)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if u.Role == user.RoleSeller {
			if err := s.checkSellerStatus(ctx, u.ID); err != nil {
				return nil, err
			}
		}
		if !u.IsVerified {
			if err := s.users.MarkVerified(ctx, u.ID); err != nil {
				return nil, err
			}
			u.IsVerified = true
		}
	}

	return s.loginResult(u)
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ok, err := s.limiter.Allow(ctx, "login:"+email, loginAttemptLimit, rateLimitWindow)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.E(apperr.ErrTooManyRequests, "too many login attempts, please try again later")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.E(apperr.ErrUnauthorized, "invalid email or password")
		}
		return nil, err
	}
	if u.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.E(apperr.ErrUnauthorized, "invalid email or password")
	}
	if u.Role == user.RoleSeller {
		if err := s.checkSellerStatus(ctx, u.ID); err != nil {
			return nil, err
		}
	}

	return s.loginResult(u)
}

func (s *service) CurrentUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

// registerVerified creates the account a successful first-time OTP
// login implies. Only customer and seller roles can self-register.
func (s *service) registerVerified(ctx context.Context, email, role string) (*user.User, error) {
	if role == "" {
		role = user.RoleCustomer
	}
	if role != user.RoleCustomer && role != user.RoleSeller {
		return nil, apperr.E(apperr.ErrInvalid, "invalid role %q", role)
	}

	u := &user.User{
		ID:         uuid.New(),
		Email:      email,
		Role:       role,
		IsVerified: true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if role == user.RoleSeller {
		storeName := "Store " + strings.SplitN(email, "@", 2)[0]
		if err := s.sellers.CreateForUser(ctx, u.ID, storeName); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (s *service) checkSellerStatus(ctx context.Context, userID uuid.UUID) error {
	status, err := s.sellers.StatusByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	if status != "active" {
		return &SellerStatusError{Status: status}
	}
	return nil
}

func (s *service) loginResult(u *user.User) (*LoginResult, error) {
	token, err := s.generateToken(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Success: true, Token: token, User: u}, nil
}

func (s *service) generateToken(u *user.User) (string, error) {
	claims := &Claims{
		ID:    u.ID.String(),
		Email: u.Email,
		Role:  u.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			ExpiresAt: time.Now().Add(tokenLifetime).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// generateCode returns a 6-digit one-time code.
func generateCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}
