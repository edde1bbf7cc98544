package seller

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL seller repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateForUser(ctx context.Context, userID uuid.UUID, storeName string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sellers (id, user_id, store_name, status)
		VALUES ($1, $2, $3, 'active')`,
		uuid.New(), userID, storeName)
	return err
}

func (r *postgresRepo) StatusByUserID(ctx context.Context, userID uuid.UUID) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM sellers WHERE user_id = $1`, userID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", apperr.E(apperr.ErrNotFound, "seller not found")
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

func (r *postgresRepo) IDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM sellers WHERE user_id = $1`, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return uuid.Nil, apperr.E(apperr.ErrNotFound, "seller not found")
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *postgresRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*Seller, error) {
	return scanSeller(r.db.QueryRowContext(ctx, `
		SELECT s.id, s.user_id, s.store_name, s.store_description, s.status,
		       s.commission_owed, s.last_payment_date, u.email, u.is_verified,
		       s.created_at, s.updated_at
		FROM sellers s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1`, userID))
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Seller, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sellers
		SET store_name = COALESCE($1, store_name),
		    store_description = COALESCE($2, store_description),
		    updated_at = $3
		WHERE user_id = $4`,
		req.StoreName, req.StoreDescription, time.Now(), userID)
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

func (r *postgresRepo) Stats(ctx context.Context, sellerID uuid.UUID) (*Stats, error) {
	stats := &Stats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM products WHERE seller_id = $1),
		  (SELECT COUNT(*) FROM orders WHERE seller_id = $1),
		  (SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE seller_id = $1 AND status <> 'cancelled'),
		  (SELECT commission_owed FROM sellers WHERE id = $1)`,
		sellerID).Scan(&stats.Products, &stats.Orders, &stats.Revenue, &stats.CommissionOwed)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.ErrNotFound, "seller not found")
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// scanSeller reads one joined seller row from either *sql.Row or *sql.Rows.
func scanSeller(row interface {
	Scan(dest ...interface{}) error
}) (*Seller, error) {
	s := &Seller{}
	var lastPayment sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.StoreName, &s.StoreDescription, &s.Status,
		&s.CommissionOwed, &lastPayment, &s.Email, &s.IsVerified,
		&s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.ErrNotFound, "seller not found")
	}
	if err != nil {
		return nil, err
	}
	if lastPayment.Valid {
		s.LastPaymentDate = &lastPayment.Time
	}
	return s, nil
}
