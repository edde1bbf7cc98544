package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/markethub/markethub-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetActiveProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error) {
	p := &ProductInfo{}
	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.seller_id, p.name, p.price, p.stock
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		WHERE p.id = $1 AND p.is_active AND s.status = 'active'`,
		productID).Scan(&p.ID, &p.SellerID, &p.Name, &p.Price, &p.Stock)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.ErrNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetBargainOffer(ctx context.Context, offerID uuid.UUID) (*OfferInfo, error) {
	o := &OfferInfo{}
	var counterPrice sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_id, customer_id, status, offer_price, counter_price
		FROM bargain_offers
		WHERE id = $1`,
		offerID).Scan(&o.ID, &o.ProductID, &o.CustomerID, &o.Status, &o.OfferPrice, &counterPrice)
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

const orderColumns = `o.id, o.customer_id, o.seller_id, o.total_amount, o.status,
	o.payment_method, o.shipping_address, o.items, o.idempotency_key,
	o.created_at, o.updated_at, u.email, s.store_name`

func (r *postgresRepo) GetByIdempotencyKey(ctx context.Context, customerID uuid.UUID, key string) (*Order, error) {
	return scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		JOIN sellers s ON s.id = o.seller_id
		WHERE o.customer_id = $1 AND o.idempotency_key = $2`, customerID, key))
}

// CreateOrder holds the order insert, the stock decrements and the
// commission increment in one transaction. Stock is decremented with a
// conditional UPDATE so a concurrent order for the last unit cannot
// oversell; zero affected rows aborts the transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order, commission float64) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var key interface{}
	if o.IdempotencyKey != "" {
		key = o.IdempotencyKey
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, customer_id, seller_id, total_amount, status, payment_method,
		   shipping_address, items, idempotency_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		o.ID, o.CustomerID, o.SellerID, o.TotalAmount, o.Status,
		o.PaymentMethod, o.ShippingAddress, items, key)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperr.E(apperr.ErrConflict, "order already placed")
		}
		return err
	}

	for _, item := range o.Items {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = $2
			WHERE id = $3 AND stock >= $1`,
			item.Quantity, time.Now(), item.ProductID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.E(apperr.ErrInvalid, "insufficient stock for product %s", item.Name)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sellers
		SET commission_owed = commission_owed + $1, updated_at = $2
		WHERE id = $3`,
		commission, time.Now(), o.SellerID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		JOIN sellers s ON s.id = o.seller_id
		WHERE o.id = $1`, id))
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		JOIN sellers s ON s.id = o.seller_id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC`, customerID)
}

func (r *postgresRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		JOIN sellers s ON s.id = o.seller_id
		WHERE o.seller_id = $1
		ORDER BY o.created_at DESC`, sellerID)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	return err
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*Order, error) {
	o := &Order{}
	var items []byte
	var key sql.NullString
	err := row.Scan(&o.ID, &o.CustomerID, &o.SellerID, &o.TotalAmount, &o.Status,
		&o.PaymentMethod, &o.ShippingAddress, &items, &key,
		&o.CreatedAt, &o.UpdatedAt, &o.CustomerEmail, &o.StoreName)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.ErrNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	o.IdempotencyKey = key.String
	return o, nil
}
