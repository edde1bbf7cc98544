package database

import "database/sql"

// Migrate creates the schema if it does not exist yet. Products, offers
// and orders cascade from their owning rows; they are soft-disabled in
// the application, never hard-deleted while referenced.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL CHECK (role IN ('super_admin', 'seller', 'customer')),
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS sellers (
			id UUID PRIMARY KEY,
			user_id UUID UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			store_name TEXT NOT NULL,
			store_description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'suspended', 'banned')),
			commission_owed NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (commission_owed >= 0),
			last_payment_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			seller_id UUID NOT NULL REFERENCES sellers(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL CHECK (price > 0),
			discount_price NUMERIC(12,2),
			images JSONB NOT NULL DEFAULT '[]',
			category TEXT NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			allow_bargain BOOLEAN NOT NULL DEFAULT FALSE,
			min_bargain_price NUMERIC(12,2),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			customization JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS bargain_offers (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			customer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			seller_id UUID NOT NULL REFERENCES sellers(id) ON DELETE CASCADE,
			offer_price NUMERIC(12,2) NOT NULL CHECK (offer_price > 0),
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected', 'countered')),
			counter_price NUMERIC(12,2),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			customer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			seller_id UUID NOT NULL REFERENCES sellers(id) ON DELETE CASCADE,
			total_amount NUMERIC(12,2) NOT NULL CHECK (total_amount > 0),
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'shipped', 'delivered', 'cancelled')),
			payment_method TEXT NOT NULL CHECK (payment_method IN ('cod', 'online')),
			shipping_address TEXT NOT NULL DEFAULT '',
			items JSONB NOT NULL,
			idempotency_key TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS platform_settings (
			key TEXT PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_seller ON products(seller_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
		`CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_bargain_offers_product ON bargain_offers(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bargain_offers_seller ON bargain_offers(seller_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bargain_offers_customer ON bargain_offers(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_idempotency
			ON orders(customer_id, idempotency_key) WHERE idempotency_key IS NOT NULL`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
