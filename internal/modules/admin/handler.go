package admin

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/auth"
	"github.com/markethub/markethub-backend/internal/modules/user"
)

// Handler exposes the super-admin HTTP endpoints.
type Handler struct {
	service  Service
	mw       *auth.Middleware
	validate *validator.Validate
}

func NewHandler(service Service, mw *auth.Middleware) *Handler {
	return &Handler{service: service, mw: mw, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(h.mw.Authenticate, h.mw.RequireRole(user.RoleSuperAdmin))

		r.Get("/stats", h.stats)       // GET /api/admin/stats
		r.Get("/sellers", h.sellers)   // GET /api/admin/sellers
		r.Get("/settings", h.settings) // GET /api/admin/settings
		r.Put("/settings", h.updateSettings)

		r.Put("/sellers/{id}/status", h.setSellerStatus)
		r.Post("/sellers/{id}/suspend-unpaid", h.suspendUnpaid)
		r.Post("/sellers/{id}/record-payment", h.recordPayment)
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.PlatformStats(r.Context())
	if err != nil {
		respondError(w, "platform stats", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

func (h *Handler) sellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.service.ListSellers(r.Context())
	if err != nil {
		respondError(w, "list sellers", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"sellers": sellers})
}

func (h *Handler) setSellerStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "seller not found"})
		return
	}

	var req UpdateSellerStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "status must be one of active, suspended, banned"})
		return
	}

	sl, err := h.service.SetSellerStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, "set seller status", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"seller": sl})
}

func (h *Handler) suspendUnpaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "seller not found"})
		return
	}
	sl, err := h.service.SuspendUnpaid(r.Context(), id)
	if err != nil {
		respondError(w, "suspend unpaid seller", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"seller": sl})
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "seller not found"})
		return
	}
	sl, err := h.service.RecordPayment(r.Context(), id)
	if err != nil {
		respondError(w, "record payment", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"seller": sl})
}

func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.Settings(r.Context())
	if err != nil {
		respondError(w, "admin settings", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"settings": all})
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if len(values) == 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "no settings provided"})
		return
	}

	all, err := h.service.UpdateSettings(r.Context(), values)
	if err != nil {
		respondError(w, "update settings", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"settings": all})
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
