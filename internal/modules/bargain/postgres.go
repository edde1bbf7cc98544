package bargain

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL bargain repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetBargainProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error) {
	p := &ProductInfo{}
	var minPrice sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.seller_id, p.price, p.min_bargain_price, p.allow_bargain
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		WHERE p.id = $1 AND p.is_active AND s.status = 'active'`,
		productID).Scan(&p.ID, &p.SellerID, &p.Price, &minPrice, &p.AllowBargain)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.ErrNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	if minPrice.Valid {
		p.MinBargainPrice = &minPrice.Float64
	}
	return p, nil
}

func (r *postgresRepo) CreateOffer(ctx context.Context, o *Offer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bargain_offers (id, product_id, customer_id, seller_id, offer_price, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		o.ID, o.ProductID, o.CustomerID, o.SellerID, o.OfferPrice, o.Status)
	return err
}

const offerColumns = `o.id, o.product_id, o.customer_id, o.seller_id, o.offer_price,
	o.status, o.counter_price, o.created_at, o.updated_at,
	p.name, p.price, u.email`

func (r *postgresRepo) GetOffer(ctx context.Context, id uuid.UUID) (*Offer, error) {
	return scanOffer(r.db.QueryRowContext(ctx, `
		SELECT `+offerColumns+`
		FROM bargain_offers o
		JOIN products p ON p.id = o.product_id
		JOIN users u ON u.id = o.customer_id
		WHERE o.id = $1`, id))
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Offer, error) {
	return r.queryOffers(ctx, `
		SELECT `+offerColumns+`
		FROM bargain_offers o
		JOIN products p ON p.id = o.product_id
		JOIN users u ON u.id = o.customer_id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC`, customerID)
}

func (r *postgresRepo) ListPendingBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Offer, error) {
	return r.queryOffers(ctx, `
		SELECT `+offerColumns+`
		FROM bargain_offers o
		JOIN products p ON p.id = o.product_id
		JOIN users u ON u.id = o.customer_id
		WHERE o.seller_id = $1 AND o.status = 'pending'
		ORDER BY o.created_at DESC`, sellerID)
}

// Transition is the single writer for offer status. The WHERE clause
// only matches a pending row, so of two concurrent responses exactly
// one observes an affected row.
func (r *postgresRepo) Transition(ctx context.Context, offerID uuid.UUID, to string, counterPrice *float64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bargain_offers
		SET status = $1, counter_price = $2, updated_at = $3
		WHERE id = $4 AND status = 'pending'`,
		to, counterPrice, time.Now(), offerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *postgresRepo) ProductPrice(ctx context.Context, productID uuid.UUID) (float64, error) {
	var price float64
	err := r.db.QueryRowContext(ctx,
		`SELECT price FROM products WHERE id = $1`, productID).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, apperr.E(apperr.ErrNotFound, "product not found")
	}
	return price, err
}

func (r *postgresRepo) queryOffers(ctx context.Context, query string, args ...interface{}) ([]*Offer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func scanOffer(row interface {
	Scan(dest ...interface{}) error
}) (*Offer, error) {
	o := &Offer{}
	var counterPrice sql.NullFloat64
	err := row.Scan(&o.ID, &o.ProductID, &o.CustomerID, &o.SellerID, &o.OfferPrice,
		&o.Status, &counterPrice, &o.CreatedAt, &o.UpdatedAt,
		&o.ProductName, &o.ProductPrice, &o.CustomerEmail)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.ErrNotFound, "offer not found")
	}
	if err != nil {
		return nil, err
	}
	if counterPrice.Valid {
		o.CounterPrice = &counterPrice.Float64
	}
	return o, nil
}
