package user

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/markethub/markethub-backend/internal/apperr"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, is_verified)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash, u.Role, u.IsVerified)
	return err
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scan(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, is_verified, created_at, updated_at
		FROM users WHERE email = $1`, email))
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scan(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, is_verified, created_at, updated_at
		FROM users WHERE id = $1`, id))
}

func (r *postgresRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = $1 WHERE id = $2`,
		time.Now(), id)
	return err
}

func (r *postgresRepository) scan(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
