// internal/auth/repository.go
// Read access to member credentials

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Repository defines credential lookups
type Repository interface {
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByID(ctx context.Context, id int64) (*Account, error)
}

type sqlRepository struct {
	db *sqlx.DB
}

// NewRepository creates a repository over either supported SQL dialect
func NewRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db}
}

const accountColumns = `id, email, display_name, password_hash, created_at`

func (r *sqlRepository) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	query := r.db.Rebind(`SELECT ` + accountColumns + ` FROM users WHERE email = ?`)
	if err := r.db.GetContext(ctx, &account, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *sqlRepository) GetAccountByID(ctx context.Context, id int64) (*Account, error) {
	var account Account
	query := r.db.Rebind(`SELECT ` + accountColumns + ` FROM users WHERE id = ?`)
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
