package settings

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the public settings endpoint used by the storefront.
// Admin reads and writes live under /api/admin/settings.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/settings", h.list) // GET /api/settings
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.All(r.Context())
	if err != nil {
		log.Printf("list settings: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch platform settings"})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"settings": all})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
