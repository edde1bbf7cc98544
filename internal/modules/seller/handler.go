package seller

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/auth"
	"github.com/markethub/markethub-backend/internal/modules/user"
)

// Handler exposes seller HTTP endpoints.
type Handler struct {
	service  Service
	mw       *auth.Middleware
	validate *validator.Validate
}

func NewHandler(service Service, mw *auth.Middleware) *Handler {
	return &Handler{service: service, mw: mw, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/sellers", func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Use(h.mw.RequireRole(user.RoleSeller))
		r.Get("/profile", h.profile)    // GET /api/sellers/profile
		r.Put("/profile", h.updateProfile) // PUT /api/sellers/profile
		r.Get("/stats", h.stats)        // GET /api/sellers/stats
	})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	s, err := h.service.Profile(r.Context(), p.ID)
	if err != nil {
		respondError(w, "seller profile", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"seller": s})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.StoreName == nil && req.StoreDescription == nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "no fields to update"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "store name cannot be empty"})
		return
	}

	p, _ := auth.FromContext(r.Context())
	s, err := h.service.UpdateProfile(r.Context(), p.ID, req)
	if err != nil {
		respondError(w, "update seller profile", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"seller": s})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	stats, err := h.service.Stats(r.Context(), p.ID)
	if err != nil {
		respondError(w, "seller stats", err)
		return
	}
	respond(w, http.StatusOK, stats)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, op string, err error) {
	status := apperr.Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", op, err)
		msg = "internal server error"
	}
	respond(w, status, map[string]string{"error": msg})
}
