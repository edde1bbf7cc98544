package order

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/bargain"
)

// SettingsReader exposes the platform commission rate.
// Satisfied by settings.Service.
type SettingsReader interface {
	CommissionRate(ctx context.Context) (float64, error)
}

// SellerLookup resolves the seller row behind an authenticated user.
// Satisfied by seller.Repository.
type SellerLookup interface {
	IDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// Service defines order business logic.
type Service interface {
	// PlaceOrder creates an order for the customer. When the request
	// carries an idempotency key already used by this customer, the
	// original order is returned and created is false.
	PlaceOrder(ctx context.Context, customerID uuid.UUID, req PlaceOrderRequest) (o *Order, created bool, err error)

	// MyOrders returns a customer's orders, newest first.
	MyOrders(ctx context.Context, customerID uuid.UUID) ([]*Order, error)

	// SellerOrders returns the orders of the seller behind userID.
	SellerOrders(ctx context.Context, userID uuid.UUID) ([]*Order, error)

	// UpdateStatus moves an order along the fulfilment path. Only the
	// owning seller may do this, and only forward.
	UpdateStatus(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, status string) (*Order, error)
}

type service struct {
	repo     Repository
	sellers  SellerLookup
	settings SettingsReader
}

// NewService creates a new order service.
func NewService(repo Repository, sellers SellerLookup, settings SettingsReader) Service {
	return &service{repo: repo, sellers: sellers, settings: settings}
}

func (s *service) PlaceOrder(ctx context.Context, customerID uuid.UUID, req PlaceOrderRequest) (*Order, bool, error) {
	if req.IdempotencyKey != "" {
		existing, err := s.repo.GetByIdempotencyKey(ctx, customerID, req.IdempotencyKey)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, false, err
		}
	}

	var sellerID uuid.UUID
	var total float64
	items := make([]OrderItem, 0, len(req.Items))

	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, false, apperr.E(apperr.ErrNotFound, "product %s not found", line.ProductID)
		}
		p, err := s.repo.GetActiveProduct(ctx, productID)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, false, apperr.E(apperr.ErrNotFound, "product %s not found", line.ProductID)
		}
		if err != nil {
			return nil, false, err
		}

		if sellerID == uuid.Nil {
			sellerID = p.SellerID
		} else if sellerID != p.SellerID {
			return nil, false, apperr.E(apperr.ErrInvalid, "multi-seller orders not yet supported")
		}

		if p.Stock < line.Quantity {
			return nil, false, apperr.E(apperr.ErrInvalid, "insufficient stock for product %s", p.Name)
		}

		price := p.Price
		item := OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
		}
		if line.BargainOfferID != "" {
			offerPrice, offerID, err := s.resolveOffer(ctx, customerID, p.ID, line.BargainOfferID)
			if err != nil {
				return nil, false, err
			}
			price = offerPrice
			item.BargainOfferID = &offerID
		}
		item.Price = price

		items = append(items, item)
		total += price * float64(line.Quantity)
	}

	total = round2(total)
	rate, err := s.settings.CommissionRate(ctx)
	if err != nil {
		return nil, false, err
	}
	commission := round2(total * rate / 100)

	o := &Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		SellerID:        sellerID,
		Items:           items,
		TotalAmount:     total,
		Status:          StatusPending,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		IdempotencyKey:  req.IdempotencyKey,
	}
	err = s.repo.CreateOrder(ctx, o, commission)
	if errors.Is(err, apperr.ErrConflict) && req.IdempotencyKey != "" {
		// Lost the race to a concurrent retry with the same key.
		existing, lookupErr := s.repo.GetByIdempotencyKey(ctx, customerID, req.IdempotencyKey)
		if lookupErr != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	placed, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return nil, false, err
	}
	return placed, true, nil
}

// resolveOffer validates that the offer belongs to this customer and to
// this product, then yields a usable price: the offer price when
// accepted, the counter price when countered.
func (s *service) resolveOffer(ctx context.Context, customerID uuid.UUID, productID uuid.UUID, rawID string) (float64, uuid.UUID, error) {
	offerID, err := uuid.Parse(rawID)
	if err != nil {
		return 0, uuid.Nil, apperr.E(apperr.ErrInvalid, "invalid bargain offer")
	}
	offer, err := s.repo.GetBargainOffer(ctx, offerID)
	if errors.Is(err, apperr.ErrNotFound) {
		return 0, uuid.Nil, apperr.E(apperr.ErrInvalid, "invalid bargain offer")
	}
	if err != nil {
		return 0, uuid.Nil, err
	}
	if offer.CustomerID != customerID || offer.ProductID != productID {
		return 0, uuid.Nil, apperr.E(apperr.ErrInvalid, "invalid bargain offer")
	}
	switch offer.Status {
	case bargain.StatusAccepted:
		return offer.OfferPrice, offer.ID, nil
	case bargain.StatusCountered:
		if offer.CounterPrice != nil {
			return *offer.CounterPrice, offer.ID, nil
		}
	}
	return 0, uuid.Nil, apperr.E(apperr.ErrInvalid, "invalid bargain offer")
}

func (s *service) MyOrders(ctx context.Context, customerID uuid.UUID) ([]*Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) SellerOrders(ctx context.Context, userID uuid.UUID) ([]*Order, error) {
	sellerID, err := s.sellers.IDByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListBySeller(ctx, sellerID)
}

func (s *service) UpdateStatus(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, status string) (*Order, error) {
	sellerID, err := s.sellers.IDByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.SellerID != sellerID {
		return nil, apperr.E(apperr.ErrNotFound, "order not found")
	}
	if !CanTransition(o.Status, status) {
		return nil, apperr.E(apperr.ErrInvalid, "cannot transition order from %s to %s", o.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, orderID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
