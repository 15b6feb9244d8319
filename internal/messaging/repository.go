// internal/messaging/repository.go

package messaging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mommatch/mommatch-backend/internal/profile"
)

type Repository interface {
	// EnsureConversation returns the conversation for the unordered pair,
	// creating it if needed. q may be a transaction.
	EnsureConversation(ctx context.Context, q sqlx.ExtContext, userA, userB int64) (*Conversation, bool, error)
	GetConversation(ctx context.Context, id int64) (*Conversation, error)
	GetConversationByPair(ctx context.Context, q sqlx.ExtContext, userA, userB int64) (*Conversation, error)
	ListUserConversations(ctx context.Context, userID int64) ([]*ConversationView, error)
}

type sqlRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db}
}

// canonicalPair orders the pair so (a,b) and (b,a) map to one row
func canonicalPair(userA, userB int64) (int64, int64) {
	if userA < userB {
		return userA, userB
	}
	return userB, userA
}

func (r *sqlRepository) EnsureConversation(ctx context.Context, q sqlx.ExtContext, userA, userB int64) (*Conversation, bool, error) {
	if userA <= 0 || userB <= 0 || userA == userB {
		return nil, false, ErrInvalidPair
	}
	low, high := canonicalPair(userA, userB)

	res, err := q.ExecContext(ctx, q.Rebind(`
		INSERT INTO conversations (user_a_id, user_b_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_a_id, user_b_id) DO NOTHING`),
		low, high, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("failed to create conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to create conversation: %w", err)
	}

	conv, err := r.GetConversationByPair(ctx, q, low, high)
	if err != nil {
		return nil, false, err
	}
	return conv, affected > 0, nil
}

func (r *sqlRepository) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	var conv Conversation
	query := r.db.Rebind(`SELECT id, user_a_id, user_b_id, created_at FROM conversations WHERE id = ?`)
	if err := r.db.GetContext(ctx, &conv, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

func (r *sqlRepository) GetConversationByPair(ctx context.Context, q sqlx.ExtContext, userA, userB int64) (*Conversation, error) {
	low, high := canonicalPair(userA, userB)

	var conv Conversation
	query := q.Rebind(`SELECT id, user_a_id, user_b_id, created_at FROM conversations WHERE user_a_id = ? AND user_b_id = ?`)
	if err := sqlx.GetContext(ctx, q, &conv, query, low, high); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

type conversationRow struct {
	ID             int64     `db:"id"`
	CreatedAt      time.Time `db:"created_at"`
	OtherID        int64     `db:"other_id"`
	OtherName      string    `db:"other_display_name"`
	OtherBio       string    `db:"other_bio"`
	OtherCity      string    `db:"other_city"`
	OtherAvatarURL string    `db:"other_avatar_url"`
	OtherCreatedAt time.Time `db:"other_created_at"`
}

// ListUserConversations returns the user's conversations, newest first
func (r *sqlRepository) ListUserConversations(ctx context.Context, userID int64) ([]*ConversationView, error) {
	query := r.db.Rebind(`
		SELECT c.id, c.created_at,
			u.id AS other_id, u.display_name AS other_display_name, u.bio AS other_bio,
			u.city AS other_city, u.avatar_url AS other_avatar_url, u.created_at AS other_created_at
		FROM conversations c
		JOIN users u ON u.id = CASE WHEN c.user_a_id = ? THEN c.user_b_id ELSE c.user_a_id END
		WHERE c.user_a_id = ? OR c.user_b_id = ?
		ORDER BY c.created_at DESC, c.id DESC`)

	var rows []conversationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, userID, userID); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	views := make([]*ConversationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, &ConversationView{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			OtherUser: &profile.Profile{
				ID:          row.OtherID,
				DisplayName: row.OtherName,
				Bio:         row.OtherBio,
				City:        row.OtherCity,
				AvatarURL:   row.OtherAvatarURL,
				CreatedAt:   row.OtherCreatedAt,
			},
		})
	}
	return views, nil
}
