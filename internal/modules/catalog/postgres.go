package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `p.id, p.seller_id, p.name, p.description, p.price, p.discount_price,
	p.images, p.category, p.stock, p.allow_bargain, p.min_bargain_price,
	p.is_active, p.customization, s.store_name, p.created_at, p.updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, seller_id, name, description, price, discount_price,
		   images, category, stock, allow_bargain, min_bargain_price, is_active, customization)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.SellerID, p.Name, p.Description, p.Price, p.DiscountPrice,
		images, p.Category, p.Stock, p.AllowBargain, p.MinBargainPrice,
		p.IsActive, nullableJSON(p.Customization))
	return err
}

func (r *postgresRepo) GetActive(ctx context.Context, id uuid.UUID) (*Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		WHERE p.id = $1 AND p.is_active AND s.status = 'active'`, id))
}

func (r *postgresRepo) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		WHERE p.id = $1`, id))
}

func (r *postgresRepo) ListActive(ctx context.Context, filter Filter) ([]*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		WHERE p.is_active AND s.status = 'active'`
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND p.category = $` + strconv.Itoa(len(args))
	}
	if filter.SellerID != "" {
		args = append(args, filter.SellerID)
		query += ` AND p.seller_id = $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (p.name ILIKE $` + n + ` OR p.description ILIKE $` + n + `)`
	}
	query += ` ORDER BY p.created_at DESC`

	return r.queryProducts(ctx, query, args...)
}

func (r *postgresRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Product, error) {
	return r.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		WHERE p.seller_id = $1
		ORDER BY p.created_at DESC`, sellerID)
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, price=$3, discount_price=$4, images=$5,
		    category=$6, stock=$7, allow_bargain=$8, min_bargain_price=$9,
		    is_active=$10, customization=$11, updated_at=$12
		WHERE id=$13`,
		p.Name, p.Description, p.Price, p.DiscountPrice, images,
		p.Category, p.Stock, p.AllowBargain, p.MinBargainPrice,
		p.IsActive, nullableJSON(p.Customization), time.Now(), p.ID)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(row interface {
	Scan(dest ...interface{}) error
}) (*Product, error) {
	p := &Product{}
	var discountPrice, minBargainPrice sql.NullFloat64
	var images, customization []byte
	err := row.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Price, &discountPrice,
		&images, &p.Category, &p.Stock, &p.AllowBargain, &minBargainPrice,
		&p.IsActive, &customization, &p.StoreName, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.ErrNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	if discountPrice.Valid {
		p.DiscountPrice = &discountPrice.Float64
	}
	if minBargainPrice.Valid {
		p.MinBargainPrice = &minBargainPrice.Float64
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, err
		}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.Customization = customization
	return p, nil
}

func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

