package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/markethub/markethub-backend/internal/apperr"
)

// Handler exposes authentication HTTP endpoints.
type Handler struct {
	service  Service
	mw       *Middleware
	validate *validator.Validate
}

func NewHandler(service Service, mw *Middleware) *Handler {
	return &Handler{service: service, mw: mw, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/send-otp", h.sendOTP)     // POST /api/auth/send-otp
		r.Post("/verify-otp", h.verifyOTP) // POST /api/auth/verify-otp
		r.Post("/login", h.login)          // POST /api/auth/login
		r.With(h.mw.Authenticate).Get("/me", h.me)
	})
	// The profile endpoint returns the same shape as /me.
	r.With(h.mw.Authenticate).Get("/api/users/profile", h.me)
}

type sendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "a valid email is required"})
		return
	}

	if err := h.service.SendOTP(r.Context(), req.Email); err != nil {
		respondError(w, "send otp", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "message": "OTP sent"})
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
	Role  string `json:"role" validate:"omitempty,oneof=customer seller"`
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "email and a 6-digit OTP are required"})
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP, req.Role)
	if err != nil {
		respondError(w, "verify otp", err)
		return
	}
	respond(w, http.StatusOK, result)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "email and a password of at least 8 characters are required"})
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, "login", err)
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, _ := FromContext(r.Context())
	u, err := h.service.CurrentUser(r.Context(), p.ID)
	if err != nil {
		respondError(w, "current user", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"user": u})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, op string, err error) {
	var statusErr *SellerStatusError
	if errors.As(err, &statusErr) {
		respond(w, http.StatusForbidden, map[string]string{
			"error":  "your seller account is suspended or banned",
			"reason": statusErr.Status,
		})
		return
	}

	status := apperr.Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", op, err)
		msg = "internal server error"
	}
	respond(w, status, map[string]string{"error": msg})
}
