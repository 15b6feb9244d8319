// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mommatch/mommatch-backend/internal/common/database"
)

// Repository defines the user directory
type Repository interface {
	UserExists(ctx context.Context, id int64) (bool, error)
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	ListCandidates(ctx context.Context, actorID int64, filter *CandidateFilter) ([]*Profile, error)
	CreateUser(ctx context.Context, user *User) error
}

type sqlRepository struct {
	db *sqlx.DB
}

// NewRepository creates a repository over either supported SQL dialect
func NewRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db}
}

const profileColumns = `u.id, u.display_name, u.bio, u.city, u.avatar_url, u.created_at`

// UserExists reports whether a member with id exists
func (r *sqlRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	var found int
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`SELECT 1 FROM users WHERE id = ?`), id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return true, nil
}

// GetProfile retrieves a public profile by user ID
func (r *sqlRepository) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	var profile Profile
	query := r.db.Rebind(`SELECT ` + profileColumns + ` FROM users u WHERE u.id = ?`)
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// ListCandidates returns members the actor has not acted on yet.
// Any outgoing edge, whatever its status, hides the member.
func (r *sqlRepository) ListCandidates(ctx context.Context, actorID int64, filter *CandidateFilter) ([]*Profile, error) {
	query := r.db.Rebind(`
		SELECT ` + profileColumns + `
		FROM users u
		WHERE u.id <> ?
		  AND NOT EXISTS (
			SELECT 1 FROM interests i
			WHERE i.actor_id = ? AND i.target_id = u.id
		  )
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT ? OFFSET ?`)

	profiles := []*Profile{}
	if err := r.db.SelectContext(ctx, &profiles, query, actorID, actorID, filter.Limit, filter.Offset); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return profiles, nil
}

// CreateUser inserts user and sets its ID and timestamps
func (r *sqlRepository) CreateUser(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO users (email, display_name, password_hash, bio, city, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.db.QueryRowxContext(ctx, query,
		user.Email, user.DisplayName, user.PasswordHash, user.Bio, user.City, user.AvatarURL,
		user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
