package bargain

import (
	"context"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
)

// PlatformToggles exposes the platform-wide bargain switch.
// Satisfied by settings.Service.
type PlatformToggles interface {
	AllowBargain(ctx context.Context) (bool, error)
}

// SellerLookup resolves the seller row behind an authenticated user.
// Satisfied by seller.Repository.
type SellerLookup interface {
	IDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// Service defines bargain negotiation business logic.
type Service interface {
	// CreateOffer opens a negotiation on a product for a customer.
	CreateOffer(ctx context.Context, customerID uuid.UUID, req CreateOfferRequest) (*Offer, error)

	// MyOffers returns a customer's offers, newest first.
	MyOffers(ctx context.Context, customerID uuid.UUID) ([]*Offer, error)

	// PendingRequests returns the pending offers awaiting the seller
	// behind userID.
	PendingRequests(ctx context.Context, userID uuid.UUID) ([]*Offer, error)

	// Accept, Reject and Counter respond to a pending offer. At most one
	// response ever lands on an offer.
	Accept(ctx context.Context, userID uuid.UUID, offerID uuid.UUID) (*Offer, error)
	Reject(ctx context.Context, userID uuid.UUID, offerID uuid.UUID) (*Offer, error)
	Counter(ctx context.Context, userID uuid.UUID, offerID uuid.UUID, counterPrice float64) (*Offer, error)
}

type service struct {
	repo     Repository
	sellers  SellerLookup
	settings PlatformToggles
}

// NewService creates a new bargain service.
func NewService(repo Repository, sellers SellerLookup, settings PlatformToggles) Service {
	return &service{repo: repo, sellers: sellers, settings: settings}
}

func (s *service) CreateOffer(ctx context.Context, customerID uuid.UUID, req CreateOfferRequest) (*Offer, error) {
	allowed, err := s.settings.AllowBargain(ctx)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.E(apperr.ErrForbidden, "bargaining is disabled on this platform")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.E(apperr.ErrNotFound, "product not found")
	}
	p, err := s.repo.GetBargainProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.AllowBargain {
		return nil, apperr.E(apperr.ErrInvalid, "bargaining not allowed for this product")
	}
	if req.OfferPrice >= p.Price {
		return nil, apperr.E(apperr.ErrInvalid, "offer price must be less than product price")
	}
	if p.MinBargainPrice != nil && req.OfferPrice < *p.MinBargainPrice {
		return nil, apperr.E(apperr.ErrInvalid, "offer price must be at least $%.2f", *p.MinBargainPrice)
	}

	o := &Offer{
		ID:         uuid.New(),
		ProductID:  p.ID,
		CustomerID: customerID,
		SellerID:   p.SellerID,
		OfferPrice: req.OfferPrice,
		Status:     StatusPending,
	}
	if err := s.repo.CreateOffer(ctx, o); err != nil {
		return nil, err
	}
	return s.repo.GetOffer(ctx, o.ID)
}

func (s *service) MyOffers(ctx context.Context, customerID uuid.UUID) ([]*Offer, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) PendingRequests(ctx context.Context, userID uuid.UUID) ([]*Offer, error) {
	sellerID, err := s.sellers.IDByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPendingBySeller(ctx, sellerID)
}

func (s *service) Accept(ctx context.Context, userID uuid.UUID, offerID uuid.UUID) (*Offer, error) {
	return s.respond(ctx, userID, offerID, StatusAccepted, nil)
}

func (s *service) Reject(ctx context.Context, userID uuid.UUID, offerID uuid.UUID) (*Offer, error) {
	return s.respond(ctx, userID, offerID, StatusRejected, nil)
}

func (s *service) Counter(ctx context.Context, userID uuid.UUID, offerID uuid.UUID, counterPrice float64) (*Offer, error) {
	return s.respond(ctx, userID, offerID, StatusCountered, &counterPrice)
}

// respond validates ownership and counter bounds, then attempts the
// conditional transition. Ownership failures read as not-found so
// other sellers cannot probe offer IDs.
func (s *service) respond(ctx context.Context, userID uuid.UUID, offerID uuid.UUID, to string, counterPrice *float64) (*Offer, error) {
	sellerID, err := s.sellers.IDByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if o.SellerID != sellerID {
		return nil, apperr.E(apperr.ErrNotFound, "offer not found")
	}

	if counterPrice != nil {
		price, err := s.repo.ProductPrice(ctx, o.ProductID)
		if err != nil {
			return nil, err
		}
		if *counterPrice >= price {
			return nil, apperr.E(apperr.ErrInvalid, "counter price must be less than product price")
		}
		if *counterPrice <= o.OfferPrice {
			return nil, apperr.E(apperr.ErrInvalid, "counter price must be higher than offer price")
		}
	}

	won, err := s.repo.Transition(ctx, offerID, to, counterPrice)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperr.E(apperr.ErrConflict, "offer already processed")
	}
	return s.repo.GetOffer(ctx, offerID)
}
