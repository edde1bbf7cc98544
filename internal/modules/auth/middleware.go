package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/user"
)

type contextKey int

const principalKey contextKey = iota

// Middleware provides request authentication and role gating.
type Middleware struct {
	jwtSecret []byte
	sellers   SellerDirectory
}

// NewMiddleware creates the auth middleware. The seller directory is
// consulted fresh on every seller request; admin actions can change a
// seller's status between two of their requests, so no caching.
func NewMiddleware(jwtSecret string, sellers SellerDirectory) *Middleware {
	return &Middleware{jwtSecret: []byte(jwtSecret), sellers: sellers}
}

// FromContext returns the authenticated principal, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// Authenticate verifies the Bearer token and attaches the principal.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no token provided"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return m.jwtSecret, nil
			})
		if err != nil || !token.Valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			return
		}

		id, err := uuid.Parse(claims.ID)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			return
		}

		p := Principal{ID: id, Email: claims.Email, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
	})
}

// RequireRole allows only the listed roles through. Sellers are
// additionally checked against the status gate on every request.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromContext(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			allowed := false
			for _, role := range roles {
				if p.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
				return
			}

			if p.Role == user.RoleSeller {
				status, err := m.sellers.StatusByUserID(r.Context(), p.ID)
				switch {
				case errors.Is(err, apperr.ErrNotFound):
					// Seller account without a seller row; nothing to gate on.
				case err != nil:
					log.Printf("seller status gate for %s: %v", p.ID, err)
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
					return
				case status != "active":
					writeJSON(w, http.StatusForbidden, map[string]string{
						"error":  "your seller account is suspended or banned",
						"reason": status,
					})
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
