package bargain

import (
	"context"
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

// Handler exposes bargain HTTP endpoints.
type Handler struct {
	service  Service
	mw       *auth.Middleware
	validate *validator.Validate
}

func NewHandler(service Service, mw *auth.Middleware) *Handler {
	return &Handler{service: service, mw: mw, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/bargains", func(r chi.Router) {
		r.Use(h.mw.Authenticate)

		customer := r.With(h.mw.RequireRole(user.RoleCustomer))
		customer.Post("/offer", h.createOffer)  // POST /api/bargains/offer
		customer.Get("/my-offers", h.myOffers)  // GET /api/bargains/my-offers

		seller := r.With(h.mw.RequireRole(user.RoleSeller))
		seller.Get("/seller/requests", h.pendingRequests) // GET /api/bargains/seller/requests
		seller.Post("/{id}/accept", h.accept)             // POST /api/bargains/{id}/accept
		seller.Post("/{id}/reject", h.reject)             // POST /api/bargains/{id}/reject
		seller.Post("/{id}/counter", h.counter)           // POST /api/bargains/{id}/counter
	})
}

func (h *Handler) createOffer(w http.ResponseWriter, r *http.Request) {
	var req CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "a product id and a positive offer price are required"})
		return
	}

	p, _ := auth.FromContext(r.Context())
	offer, err := h.service.CreateOffer(r.Context(), p.ID, req)
	if err != nil {
		respondError(w, "create offer", err)
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{"offer": offer})
}

func (h *Handler) myOffers(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	offers, err := h.service.MyOffers(r.Context(), p.ID)
	if err != nil {
		respondError(w, "my offers", err)
		return
	}
	if offers == nil {
		offers = []*Offer{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"offers": offers})
}

func (h *Handler) pendingRequests(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	offers, err := h.service.PendingRequests(r.Context(), p.ID)
	if err != nil {
		respondError(w, "pending requests", err)
		return
	}
	if offers == nil {
		offers = []*Offer{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"offers": offers})
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	h.respondToOffer(w, r, h.service.Accept)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.respondToOffer(w, r, h.service.Reject)
}

func (h *Handler) respondToOffer(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, userID uuid.UUID, offerID uuid.UUID) (*Offer, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "offer not found"})
		return
	}
	p, _ := auth.FromContext(r.Context())
	offer, err := fn(r.Context(), p.ID, id)
	if err != nil {
		respondError(w, "respond to offer", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"offer": offer})
}

func (h *Handler) counter(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "offer not found"})
		return
	}

	var req CounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "a positive counter price is required"})
		return
	}

	p, _ := auth.FromContext(r.Context())
	offer, err := h.service.Counter(r.Context(), p.ID, id, req.CounterPrice)
	if err != nil {
		respondError(w, "counter offer", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"offer": offer})
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
