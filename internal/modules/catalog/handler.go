package catalog

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

// Handler exposes product HTTP endpoints.
type Handler struct {
	service  Service
	mw       *auth.Middleware
	validate *validator.Validate
}

func NewHandler(service Service, mw *auth.Middleware) *Handler {
	return &Handler{service: service, mw: mw, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.list) // GET /api/products

		sellerOnly := r.With(h.mw.Authenticate, h.mw.RequireRole(user.RoleSeller))
		sellerOnly.Post("/", h.create)                     // POST /api/products
		sellerOnly.Get("/seller/my-products", h.myList)    // GET /api/products/seller/my-products
		sellerOnly.Put("/{id}", h.update)                  // PUT /api/products/{id}

		r.Get("/{id}", h.get) // GET /api/products/{id}
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := Filter{
		Category: r.URL.Query().Get("category"),
		SellerID: r.URL.Query().Get("seller_id"),
		Search:   r.URL.Query().Get("search"),
	}
	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, "list products", err)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, "get product", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"product": p})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "name, description, category and a positive price are required"})
		return
	}

	p, _ := auth.FromContext(r.Context())
	product, err := h.service.CreateProduct(r.Context(), p.ID, req)
	if err != nil {
		respondError(w, "create product", err)
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{"product": product})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid product fields"})
		return
	}

	p, _ := auth.FromContext(r.Context())
	product, err := h.service.UpdateProduct(r.Context(), p.ID, id, req)
	if err != nil {
		respondError(w, "update product", err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"product": product})
}

func (h *Handler) myList(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	products, err := h.service.MyProducts(r.Context(), p.ID)
	if err != nil {
		respondError(w, "my products", err)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"products": products})
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
