package admin

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
	"github.com/markethub/markethub-backend/internal/modules/seller"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL admin repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) PlatformStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
		  (SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> 'cancelled'),
		  (SELECT COUNT(*) FROM sellers WHERE status = 'active'),
		  (SELECT COUNT(*) FROM sellers WHERE status = 'suspended'),
		  (SELECT COUNT(*) FROM products WHERE is_active),
		  (SELECT COUNT(*) FROM users WHERE role = 'customer'),
		  (SELECT COALESCE(SUM(commission_owed), 0) FROM sellers)`).
		Scan(&stats.TotalRevenue, &stats.ActiveSellers, &stats.SuspendedSellers,
			&stats.TotalProducts, &stats.TotalCustomers, &stats.CommissionOwed)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

const sellerColumns = `s.id, s.user_id, s.store_name, s.store_description, s.status,
	s.commission_owed, s.last_payment_date, u.email, u.is_verified,
	s.created_at, s.updated_at`

func (r *postgresRepo) ListSellers(ctx context.Context) ([]*seller.Seller, error) {
	return r.querySellers(ctx, `
		SELECT `+sellerColumns+`
		FROM sellers s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.created_at DESC`)
}

func (r *postgresRepo) GetSeller(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	return scanSeller(r.db.QueryRowContext(ctx, `
		SELECT `+sellerColumns+`
		FROM sellers s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1`, id))
}

func (r *postgresRepo) UpdateSellerStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sellers SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.E(apperr.ErrNotFound, "seller not found")
	}
	return nil
}

func (r *postgresRepo) RecordPayment(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sellers
		SET commission_owed = 0, last_payment_date = $1, updated_at = $2
		WHERE id = $3`,
		at, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.E(apperr.ErrNotFound, "seller not found")
	}
	return nil
}

func (r *postgresRepo) ListOverdueSellers(ctx context.Context, cutoff time.Time) ([]*seller.Seller, error) {
	return r.querySellers(ctx, `
		SELECT `+sellerColumns+`
		FROM sellers s
		JOIN users u ON u.id = s.user_id
		WHERE s.status = 'active'
		  AND s.commission_owed > 0
		  AND COALESCE(s.last_payment_date, s.created_at) < $1
		ORDER BY s.commission_owed DESC`, cutoff)
}

func (r *postgresRepo) querySellers(ctx context.Context, query string, args ...interface{}) ([]*seller.Seller, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sellers []*seller.Seller
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, s)
	}
	return sellers, rows.Err()
}

func scanSeller(row interface {
	Scan(dest ...interface{}) error
}) (*seller.Seller, error) {
	s := &seller.Seller{}
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
