package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/user"
)

const testSecret = "test-secret"

type fakeDirectory struct {
	statuses map[uuid.UUID]string
}

func (d *fakeDirectory) CreateForUser(_ context.Context, userID uuid.UUID, _ string) error {
	d.statuses[userID] = "active"
	return nil
}

func (d *fakeDirectory) StatusByUserID(_ context.Context, userID uuid.UUID) (string, error) {
	status, ok := d.statuses[userID]
	if !ok {
		return "", apperr.E(apperr.ErrNotFound, "seller not found")
	}
	return status, nil
}

func signToken(t *testing.T, id uuid.UUID, role string) string {
	t.Helper()
	claims := &Claims{
		ID:    id.String(),
		Email: "someone@example.com",
		Role:  role,
		StandardClaims: jwt.StandardClaims{
			Subject:   id.String(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func gateRequest(t *testing.T, mw *Middleware, token string, roles ...string) *httptest.ResponseRecorder {
	t.Helper()
	handler := mw.Authenticate(mw.RequireRole(roles...)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateMissingToken(t *testing.T) {
	mw := NewMiddleware(testSecret, &fakeDirectory{statuses: map[uuid.UUID]string{}})
	rec := gateRequest(t, mw, "", user.RoleCustomer)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateBadSignature(t *testing.T) {
	mw := NewMiddleware(testSecret, &fakeDirectory{statuses: map[uuid.UUID]string{}})
	id := uuid.New()
	claims := &Claims{ID: id.String(), Role: user.RoleCustomer,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := gateRequest(t, mw, forged, user.RoleCustomer)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	mw := NewMiddleware(testSecret, &fakeDirectory{statuses: map[uuid.UUID]string{}})
	token := signToken(t, uuid.New(), user.RoleCustomer)

	rec := gateRequest(t, mw, token, user.RoleSuperAdmin)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestSellerGate(t *testing.T) {
	activeID := uuid.New()
	suspendedID := uuid.New()
	bannedID := uuid.New()
	dir := &fakeDirectory{statuses: map[uuid.UUID]string{
		activeID:    "active",
		suspendedID: "suspended",
		bannedID:    "banned",
	}}
	mw := NewMiddleware(testSecret, dir)

	t.Run("active passes", func(t *testing.T) {
		rec := gateRequest(t, mw, signToken(t, activeID, user.RoleSeller), user.RoleSeller)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	for name, id := range map[string]uuid.UUID{"suspended": suspendedID, "banned": bannedID} {
		t.Run(name+" blocked with reason", func(t *testing.T) {
			rec := gateRequest(t, mw, signToken(t, id, user.RoleSeller), user.RoleSeller)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["reason"] != name {
				t.Errorf("reason = %q, want %q", body["reason"], name)
			}
		})
	}
}

type failingDirectory struct{ err error }

func (d *failingDirectory) CreateForUser(context.Context, uuid.UUID, string) error { return d.err }
func (d *failingDirectory) StatusByUserID(context.Context, uuid.UUID) (string, error) {
	return "", d.err
}

func TestSellerGateStorageFailure(t *testing.T) {
	mw := NewMiddleware(testSecret, &failingDirectory{err: errors.New("pq: connection refused")})
	token := signToken(t, uuid.New(), user.RoleSeller)

	rec := gateRequest(t, mw, token, user.RoleSeller)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("error = %q, want generic server error", body["error"])
	}
	if _, ok := body["reason"]; ok {
		t.Error("storage failure must not carry a moderation reason")
	}
}

func TestSellerGateMissingSellerRowPasses(t *testing.T) {
	mw := NewMiddleware(testSecret, &fakeDirectory{statuses: map[uuid.UUID]string{}})
	token := signToken(t, uuid.New(), user.RoleSeller)

	if rec := gateRequest(t, mw, token, user.RoleSeller); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSellerGateRechecksEveryRequest(t *testing.T) {
	id := uuid.New()
	dir := &fakeDirectory{statuses: map[uuid.UUID]string{id: "active"}}
	mw := NewMiddleware(testSecret, dir)
	token := signToken(t, id, user.RoleSeller)

	if rec := gateRequest(t, mw, token, user.RoleSeller); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	// Same still-valid token stops working the moment the status flips.
	dir.statuses[id] = "suspended"
	if rec := gateRequest(t, mw, token, user.RoleSeller); rec.Code != http.StatusForbidden {
		t.Fatalf("post-suspension status = %d, want 403", rec.Code)
	}
}
