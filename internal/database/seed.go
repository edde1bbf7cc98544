package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// defaultSettings is the initial platform configuration. Existing keys
// are never overwritten so admin changes survive restarts.
var defaultSettings = map[string]interface{}{
	"siteName":        "MarketHub",
	"logo":            "",
	"favicon":         "",
	"primaryColor":    "32 95% 44%",
	"secondaryColor":  "35 20% 94%",
	"accentColor":     "15 75% 55%",
	"fontDisplay":     "Playfair Display",
	"fontBody":        "DM Sans",
	"commissionRate":  10,
	"subscriptionFee": 0,
	"allowBargain":    true,
	"allowCOD":        true,
	"heroTitle":       "Discover Unique Products from Trusted Sellers",
	"heroSubtitle":    "A curated marketplace where quality meets authenticity. Shop directly from verified vendors worldwide.",
	"heroImage":       "",
	"metaDescription": "A fully dynamic, multi-vendor e-commerce platform",
	"ogImage":         "",
	"twitterHandle":   "",
}

// SeedSettings inserts any missing default platform settings.
func SeedSettings(db *sql.DB) error {
	for key, value := range defaultSettings {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal setting %s: %w", key, err)
		}
		_, err = db.Exec(`
			INSERT INTO platform_settings (key, value)
			VALUES ($1, $2)
			ON CONFLICT (key) DO NOTHING`, key, raw)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}
	return nil
}

// BootstrapSuperAdmin ensures a super_admin account exists for the given
// credentials. A no-op when the email is empty or the user already exists.
func BootstrapSuperAdmin(db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check super admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users (id, email, password_hash, role, is_verified)
		VALUES ($1, $2, $3, 'super_admin', TRUE)`,
		uuid.New(), email, string(hash))
	if err != nil {
		return fmt.Errorf("bootstrap super admin: %w", err)
	}
	return nil
}
