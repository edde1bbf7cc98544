package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
)

// SellerLookup resolves the seller row behind an authenticated user.
// Satisfied by seller.Repository.
type SellerLookup interface {
	IDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// Service defines catalog business logic.
type Service interface {
	// ListProducts returns active products of active sellers (public).
	ListProducts(ctx context.Context, filter Filter) ([]*Product, error)

	// GetProduct returns one active product of an active seller (public).
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)

	// CreateProduct adds a listing for the seller behind userID.
	CreateProduct(ctx context.Context, userID uuid.UUID, req CreateProductRequest) (*Product, error)

	// UpdateProduct applies a partial update to an owned listing.
	UpdateProduct(ctx context.Context, userID uuid.UUID, productID uuid.UUID, req UpdateProductRequest) (*Product, error)

	// MyProducts returns all of the seller's own listings.
	MyProducts(ctx context.Context, userID uuid.UUID) ([]*Product, error)
}

type service struct {
	repo    Repository
	sellers SellerLookup
}

// NewService creates a new catalog service.
func NewService(repo Repository, sellers SellerLookup) Service {
	return &service{repo: repo, sellers: sellers}
}

func (s *service) ListProducts(ctx context.Context, filter Filter) ([]*Product, error) {
	return s.repo.ListActive(ctx, filter)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetActive(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, userID uuid.UUID, req CreateProductRequest) (*Product, error) {
	sellerID, err := s.sellers.IDByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.MinBargainPrice != nil && *req.MinBargainPrice >= req.Price {
		return nil, apperr.E(apperr.ErrInvalid, "minimum bargain price must be less than product price")
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}
	p := &Product{
		ID:              uuid.New(),
		SellerID:        sellerID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DiscountPrice:   req.DiscountPrice,
		Images:          images,
		Category:        req.Category,
		Stock:           req.Stock,
		AllowBargain:    req.AllowBargain,
		MinBargainPrice: req.MinBargainPrice,
		IsActive:        true,
		Customization:   req.Customization,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, p.ID)
}

func (s *service) UpdateProduct(ctx context.Context, userID uuid.UUID, productID uuid.UUID, req UpdateProductRequest) (*Product, error) {
	sellerID, err := s.sellers.IDByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, apperr.E(apperr.ErrForbidden, "not authorized")
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		p.DiscountPrice = req.DiscountPrice
	}
	if req.Images != nil {
		p.Images = *req.Images
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.AllowBargain != nil {
		p.AllowBargain = *req.AllowBargain
	}
	if req.MinBargainPrice != nil {
		p.MinBargainPrice = req.MinBargainPrice
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.Customization != nil {
		p.Customization = *req.Customization
	}

	if p.MinBargainPrice != nil && *p.MinBargainPrice >= p.Price {
		return nil, apperr.E(apperr.ErrInvalid, "minimum bargain price must be less than product price")
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, productID)
}

func (s *service) MyProducts(ctx context.Context, userID uuid.UUID) ([]*Product, error) {
	sellerID, err := s.sellers.IDByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListBySeller(ctx, sellerID)
}
