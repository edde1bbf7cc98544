package order

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

// Handler exposes order HTTP endpoints.
type Handler struct {
	service  Service
	mw       *auth.Middleware
	validate *validator.Validate
}

func NewHandler(service Service, mw *auth.Middleware) *Handler {
	return &Handler{service: service, mw: mw, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(h.mw.Authenticate)

		customer := r.With(h.mw.RequireRole(user.RoleCustomer))
		customer.Post("/", h.place)           // POST /api/orders
		customer.Get("/my-orders", h.myOrders) // GET /api/orders/my-orders

		seller := r.With(h.mw.RequireRole(user.RoleSeller))
		seller.Get("/seller/orders", h.sellerOrders) // GET /api/orders/seller/orders
		seller.Put("/{id}/status", h.updateStatus)   // PUT /api/orders/{id}/status
	})
}

func (h *Handler) place(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "items, a payment method and a shipping address are required"})
		return
	}

	p, _ := auth.FromContext(r.Context())
	o, created, err := h.service.PlaceOrder(r.Context(), p.ID, req)
	if err != nil {
		respondError(w, "place order", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond(w, status, map[string]interface{}{"order": o})
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	orders, err := h.service.MyOrders(r.Context(), p.ID)
	if err != nil {
		respondError(w, "my orders", err)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *Handler) sellerOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	orders, err := h.service.SellerOrders(r.Context(), p.ID)
	if err != nil {
		respondError(w, "seller orders", err)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "status must be one of confirmed, shipped, delivered, cancelled"})
		return
	}

	p, _ := auth.FromContext(r.Context())
	o, err := h.service.UpdateStatus(r.Context(), p.ID, id, req.Status)
	if err != nil {
		respondError(w, "update order status", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"order": o})
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
