package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/bargain"
)

type fakeRepo struct {
	products    map[uuid.UUID]*ProductInfo
	offers      map[uuid.UUID]*OfferInfo
	orders      map[uuid.UUID]*Order
	commissions map[uuid.UUID]float64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products:    map[uuid.UUID]*ProductInfo{},
		offers:      map[uuid.UUID]*OfferInfo{},
		orders:      map[uuid.UUID]*Order{},
		commissions: map[uuid.UUID]float64{},
	}
}

func (r *fakeRepo) GetActiveProduct(_ context.Context, productID uuid.UUID) (*ProductInfo, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperr.E(apperr.ErrNotFound, "product not found")
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) GetBargainOffer(_ context.Context, offerID uuid.UUID) (*OfferInfo, error) {
	o, ok := r.offers[offerID]
	if !ok {
		return nil, apperr.E(apperr.ErrNotFound, "offer not found")
	}
	return o, nil
}

func (r *fakeRepo) GetByIdempotencyKey(_ context.Context, customerID uuid.UUID, key string) (*Order, error) {
	for _, o := range r.orders {
		if o.CustomerID == customerID && o.IdempotencyKey == key {
			return o, nil
		}
	}
	return nil, apperr.E(apperr.ErrNotFound, "order not found")
}

// CreateOrder mirrors the transactional semantics of the Postgres
// implementation: all stock decrements succeed or nothing is written.
func (r *fakeRepo) CreateOrder(_ context.Context, o *Order, commission float64) error {
	if o.IdempotencyKey != "" {
		for _, existing := range r.orders {
			if existing.CustomerID == o.CustomerID && existing.IdempotencyKey == o.IdempotencyKey {
				return apperr.E(apperr.ErrConflict, "order already placed")
			}
		}
	}
	for _, item := range o.Items {
		if r.products[item.ProductID].Stock < item.Quantity {
			return apperr.E(apperr.ErrInvalid, "insufficient stock for product %s", item.Name)
		}
	}
	for _, item := range o.Items {
		r.products[item.ProductID].Stock -= item.Quantity
	}
	r.commissions[o.SellerID] += commission
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, apperr.E(apperr.ErrNotFound, "order not found")
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*Order, error) {
	var out []*Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBySeller(_ context.Context, sellerID uuid.UUID) ([]*Order, error) {
	var out []*Order
	for _, o := range r.orders {
		if o.SellerID == sellerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return apperr.E(apperr.ErrNotFound, "order not found")
	}
	o.Status = status
	return nil
}

type fakeSellers struct{ byUser map[uuid.UUID]uuid.UUID }

func (f *fakeSellers) IDByUserID(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	id, ok := f.byUser[userID]
	if !ok {
		return uuid.Nil, apperr.E(apperr.ErrNotFound, "seller not found")
	}
	return id, nil
}

type fakeSettings struct{ rate float64 }

func (f *fakeSettings) CommissionRate(context.Context) (float64, error) { return f.rate, nil }

func setup(rate float64) (Service, *fakeRepo, *fakeSellers) {
	repo := newFakeRepo()
	sellers := &fakeSellers{byUser: map[uuid.UUID]uuid.UUID{}}
	return NewService(repo, sellers, &fakeSettings{rate: rate}), repo, sellers
}

func seedProduct(repo *fakeRepo, sellerID uuid.UUID, name string, price float64, stock int) *ProductInfo {
	p := &ProductInfo{ID: uuid.New(), SellerID: sellerID, Name: name, Price: price, Stock: stock}
	repo.products[p.ID] = p
	return p
}

func ptr(v float64) *float64 { return &v }

func TestPlaceOrderTotalsAndCommission(t *testing.T) {
	svc, repo, _ := setup(15)
	sellerID := uuid.New()
	customerID := uuid.New()

	mug := seedProduct(repo, sellerID, "Mug", 12.50, 10)
	lamp := seedProduct(repo, sellerID, "Lamp", 80, 3)
	offer := &OfferInfo{
		ID:         uuid.New(),
		ProductID:  lamp.ID,
		CustomerID: customerID,
		Status:     bargain.StatusAccepted,
		OfferPrice: 65,
	}
	repo.offers[offer.ID] = offer

	o, created, err := svc.PlaceOrder(context.Background(), customerID, PlaceOrderRequest{
		Items: []PlaceOrderItem{
			{ProductID: mug.ID.String(), Quantity: 3},
			{ProductID: lamp.ID.String(), Quantity: 1, BargainOfferID: offer.ID.String()},
		},
		PaymentMethod:   PaymentCOD,
		ShippingAddress: "12 Harbor Lane",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if !created {
		t.Fatal("created = false, want true")
	}

	// 3*12.50 + 1*65 = 102.50; commission 15% = 15.375 -> 15.38
	if o.TotalAmount != 102.50 {
		t.Errorf("total = %v, want 102.50", o.TotalAmount)
	}
	if got := repo.commissions[sellerID]; got != 15.38 {
		t.Errorf("commission = %v, want 15.38", got)
	}
	if o.Status != StatusPending {
		t.Errorf("status = %q, want pending", o.Status)
	}
	if repo.products[mug.ID].Stock != 7 {
		t.Errorf("mug stock = %d, want 7", repo.products[mug.ID].Stock)
	}
	if repo.products[lamp.ID].Stock != 2 {
		t.Errorf("lamp stock = %d, want 2", repo.products[lamp.ID].Stock)
	}
	if len(o.Items) != 2 || o.Items[1].Price != 65 {
		t.Errorf("items = %+v", o.Items)
	}
}

func TestPlaceOrderCounteredOfferUsesCounterPrice(t *testing.T) {
	svc, repo, _ := setup(10)
	sellerID := uuid.New()
	customerID := uuid.New()
	lamp := seedProduct(repo, sellerID, "Lamp", 80, 3)

	offer := &OfferInfo{
		ID:           uuid.New(),
		ProductID:    lamp.ID,
		CustomerID:   customerID,
		Status:       bargain.StatusCountered,
		OfferPrice:   60,
		CounterPrice: ptr(70),
	}
	repo.offers[offer.ID] = offer

	o, _, err := svc.PlaceOrder(context.Background(), customerID, PlaceOrderRequest{
		Items:           []PlaceOrderItem{{ProductID: lamp.ID.String(), Quantity: 1, BargainOfferID: offer.ID.String()}},
		PaymentMethod:   PaymentOnline,
		ShippingAddress: "12 Harbor Lane",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if o.TotalAmount != 70 {
		t.Errorf("total = %v, want 70", o.TotalAmount)
	}
}

func TestPlaceOrderInvalidOffer(t *testing.T) {
	svc, repo, _ := setup(10)
	sellerID := uuid.New()
	customerID := uuid.New()
	lamp := seedProduct(repo, sellerID, "Lamp", 80, 3)
	rug := seedProduct(repo, sellerID, "Rug", 200, 3)

	pending := &OfferInfo{ID: uuid.New(), ProductID: lamp.ID, CustomerID: customerID, Status: bargain.StatusPending, OfferPrice: 60}
	foreign := &OfferInfo{ID: uuid.New(), ProductID: lamp.ID, CustomerID: uuid.New(), Status: bargain.StatusAccepted, OfferPrice: 60}
	otherProduct := &OfferInfo{ID: uuid.New(), ProductID: rug.ID, CustomerID: customerID, Status: bargain.StatusAccepted, OfferPrice: 60}
	repo.offers[pending.ID] = pending
	repo.offers[foreign.ID] = foreign
	repo.offers[otherProduct.ID] = otherProduct

	for name, offerID := range map[string]string{
		"pending offer":         pending.ID.String(),
		"foreign offer":         foreign.ID.String(),
		"other product's offer": otherProduct.ID.String(),
		"unknown offer":         uuid.New().String(),
		"malformed offer":       "not-a-uuid",
	} {
		_, _, err := svc.PlaceOrder(context.Background(), customerID, PlaceOrderRequest{
			Items:           []PlaceOrderItem{{ProductID: lamp.ID.String(), Quantity: 1, BargainOfferID: offerID}},
			PaymentMethod:   PaymentCOD,
			ShippingAddress: "12 Harbor Lane",
		})
		if !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("%s: err = %v, want invalid", name, err)
		}
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	svc, repo, _ := setup(10)
	sellerID := uuid.New()
	mug := seedProduct(repo, sellerID, "Mug", 12.50, 2)

	_, _, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderRequest{
		Items:           []PlaceOrderItem{{ProductID: mug.ID.String(), Quantity: 3}},
		PaymentMethod:   PaymentCOD,
		ShippingAddress: "12 Harbor Lane",
	})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("err = %v, want invalid", err)
	}
	if repo.products[mug.ID].Stock != 2 {
		t.Errorf("stock = %d, want untouched 2", repo.products[mug.ID].Stock)
	}
	if len(repo.orders) != 0 {
		t.Errorf("orders written = %d, want 0", len(repo.orders))
	}
}

func TestPlaceOrderMultiSellerRejected(t *testing.T) {
	svc, repo, _ := setup(10)
	a := seedProduct(repo, uuid.New(), "A", 10, 5)
	b := seedProduct(repo, uuid.New(), "B", 10, 5)

	_, _, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderRequest{
		Items: []PlaceOrderItem{
			{ProductID: a.ID.String(), Quantity: 1},
			{ProductID: b.ID.String(), Quantity: 1},
		},
		PaymentMethod:   PaymentCOD,
		ShippingAddress: "12 Harbor Lane",
	})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("err = %v, want invalid", err)
	}
	if len(repo.orders) != 0 {
		t.Errorf("orders written = %d, want 0", len(repo.orders))
	}
	if repo.products[a.ID].Stock != 5 || repo.products[b.ID].Stock != 5 {
		t.Error("stock changed on rejected order")
	}
}

func TestPlaceOrderIdempotentReplay(t *testing.T) {
	svc, repo, _ := setup(10)
	sellerID := uuid.New()
	customerID := uuid.New()
	mug := seedProduct(repo, sellerID, "Mug", 10, 10)

	req := PlaceOrderRequest{
		Items:           []PlaceOrderItem{{ProductID: mug.ID.String(), Quantity: 2}},
		PaymentMethod:   PaymentCOD,
		ShippingAddress: "12 Harbor Lane",
		IdempotencyKey:  "checkout-abc",
	}

	first, created, err := svc.PlaceOrder(context.Background(), customerID, req)
	if err != nil || !created {
		t.Fatalf("first placement: created=%v err=%v", created, err)
	}
	second, created, err := svc.PlaceOrder(context.Background(), customerID, req)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if created {
		t.Error("replay created = true, want false")
	}
	if second.ID != first.ID {
		t.Errorf("replay order = %s, want %s", second.ID, first.ID)
	}
	if repo.products[mug.ID].Stock != 8 {
		t.Errorf("stock = %d, want 8 (decremented once)", repo.products[mug.ID].Stock)
	}

	// A different customer may reuse the key.
	other, created, err := svc.PlaceOrder(context.Background(), uuid.New(), req)
	if err != nil || !created {
		t.Fatalf("other customer: created=%v err=%v", created, err)
	}
	if other.ID == first.ID {
		t.Error("other customer's order collided with the first")
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, repo, sellers := setup(10)
	sellerID := uuid.New()
	sellerUser := uuid.New()
	sellers.byUser[sellerUser] = sellerID
	customerID := uuid.New()
	mug := seedProduct(repo, sellerID, "Mug", 10, 10)

	o, _, err := svc.PlaceOrder(context.Background(), customerID, PlaceOrderRequest{
		Items:           []PlaceOrderItem{{ProductID: mug.ID.String(), Quantity: 1}},
		PaymentMethod:   PaymentCOD,
		ShippingAddress: "12 Harbor Lane",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	// pending -> delivered skips a step.
	if _, err := svc.UpdateStatus(context.Background(), sellerUser, o.ID, StatusDelivered); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("skip err = %v, want invalid", err)
	}

	for _, status := range []string{StatusConfirmed, StatusShipped, StatusDelivered} {
		got, err := svc.UpdateStatus(context.Background(), sellerUser, o.ID, status)
		if err != nil {
			t.Fatalf("to %s: %v", status, err)
		}
		if got.Status != status {
			t.Fatalf("status = %q, want %q", got.Status, status)
		}
	}

	// Delivered is terminal.
	if _, err := svc.UpdateStatus(context.Background(), sellerUser, o.ID, StatusCancelled); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("post-delivery err = %v, want invalid", err)
	}
}

func TestUpdateStatusNotOwner(t *testing.T) {
	svc, repo, sellers := setup(10)
	sellerID := uuid.New()
	sellerUser := uuid.New()
	sellers.byUser[sellerUser] = sellerID
	mug := seedProduct(repo, sellerID, "Mug", 10, 10)

	o, _, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderRequest{
		Items:           []PlaceOrderItem{{ProductID: mug.ID.String(), Quantity: 1}},
		PaymentMethod:   PaymentCOD,
		ShippingAddress: "12 Harbor Lane",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	otherUser := uuid.New()
	sellers.byUser[otherUser] = uuid.New()
	if _, err := svc.UpdateStatus(context.Background(), otherUser, o.ID, StatusConfirmed); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("foreign update err = %v, want not found", err)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusShipped}:   true,
		{StatusConfirmed, StatusCancelled}: true,
		{StatusShipped, StatusDelivered}:   true,
	}
	statuses := []string{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}
