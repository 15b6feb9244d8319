package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mommatch/mommatch-backend/internal/profile"
)

var (
	errInterestNotFound = errors.New("interest not found")
	errPromotionRace    = errors.New("reciprocal edges changed during promotion")
)

// Repository stores directed interest edges. Methods taking q run on whatever
// they are given, normally the match transaction.
type Repository interface {
	LockPair(ctx context.Context, q sqlx.ExtContext, userA, userB int64, now time.Time) error
	GetInterest(ctx context.Context, q sqlx.ExtContext, actorID, targetID int64) (*Interest, error)
	UpsertInterest(ctx context.Context, q sqlx.ExtContext, actorID, targetID int64, status Status, now time.Time) error
	PromoteToMatched(ctx context.Context, q sqlx.ExtContext, userA, userB int64, now time.Time) error
	DeleteInterest(ctx context.Context, q sqlx.ExtContext, actorID, targetID int64, status Status) (bool, error)

	ListMatches(ctx context.Context, userID int64) ([]*Match, error)
	ListByStatus(ctx context.Context, userID int64, status Status) ([]*InterestView, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

type sqlRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db}
}

func orderedPair(userA, userB int64) (int64, int64) {
	if userA < userB {
		return userA, userB
	}
	return userB, userA
}

// LockPair upserts the pair row. In PostgreSQL the upsert holds a row lock
// until commit, so concurrent actions on the same two members run one at a time.
func (r *sqlRepository) LockPair(ctx context.Context, q sqlx.ExtContext, userA, userB int64, now time.Time) error {
	low, high := orderedPair(userA, userB)
	query := q.Rebind(`
		INSERT INTO interest_pairs (user_low_id, user_high_id, touched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_low_id, user_high_id)
		DO UPDATE SET touched_at = excluded.touched_at`)

	if _, err := q.ExecContext(ctx, query, low, high, now); err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}
	return nil
}

func (r *sqlRepository) GetInterest(ctx context.Context, q sqlx.ExtContext, actorID, targetID int64) (*Interest, error) {
	var interest Interest
	query := q.Rebind(`
		SELECT actor_id, target_id, status, created_at, updated_at
		FROM interests
		WHERE actor_id = ? AND target_id = ?`)

	if err := sqlx.GetContext(ctx, q, &interest, query, actorID, targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errInterestNotFound
		}
		return nil, fmt.Errorf("get interest: %w", err)
	}
	return &interest, nil
}

// UpsertInterest writes the edge keyed by (actor, target), overwriting status
func (r *sqlRepository) UpsertInterest(ctx context.Context, q sqlx.ExtContext, actorID, targetID int64, status Status, now time.Time) error {
	query := q.Rebind(`
		INSERT INTO interests (actor_id, target_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (actor_id, target_id)
		DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at`)

	if _, err := q.ExecContext(ctx, query, actorID, targetID, string(status), now, now); err != nil {
		return fmt.Errorf("upsert interest: %w", err)
	}
	return nil
}

// PromoteToMatched flips both pending edges of the pair to matched
func (r *sqlRepository) PromoteToMatched(ctx context.Context, q sqlx.ExtContext, userA, userB int64, now time.Time) error {
	query := q.Rebind(`
		UPDATE interests
		SET status = ?, updated_at = ?
		WHERE status = ?
		  AND ((actor_id = ? AND target_id = ?) OR (actor_id = ? AND target_id = ?))`)

	res, err := q.ExecContext(ctx, query,
		string(StatusMatched), now, string(StatusPending),
		userA, userB, userB, userA,
	)
	if err != nil {
		return fmt.Errorf("promote match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("promote match: %w", err)
	}
	if affected != 2 {
		return fmt.Errorf("promote match: %w (updated %d rows)", errPromotionRace, affected)
	}
	return nil
}

// DeleteInterest removes the edge only while it has the given status
func (r *sqlRepository) DeleteInterest(ctx context.Context, q sqlx.ExtContext, actorID, targetID int64, status Status) (bool, error) {
	query := q.Rebind(`DELETE FROM interests WHERE actor_id = ? AND target_id = ? AND status = ?`)

	res, err := q.ExecContext(ctx, query, actorID, targetID, string(status))
	if err != nil {
		return false, fmt.Errorf("delete interest: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete interest: %w", err)
	}
	return affected > 0, nil
}

type matchRow struct {
	UserID         int64     `db:"user_id"`
	MatchedAt      time.Time `db:"matched_at"`
	ConversationID *int64    `db:"conversation_id"`
	DisplayName    string    `db:"display_name"`
	Bio            string    `db:"bio"`
	City           string    `db:"city"`
	AvatarURL      string    `db:"avatar_url"`
	JoinedAt       time.Time `db:"joined_at"`
}

func (row matchRow) profile() *profile.Profile {
	return &profile.Profile{
		ID:          row.UserID,
		DisplayName: row.DisplayName,
		Bio:         row.Bio,
		City:        row.City,
		AvatarURL:   row.AvatarURL,
		CreatedAt:   row.JoinedAt,
	}
}

func (r *sqlRepository) ListMatches(ctx context.Context, userID int64) ([]*Match, error) {
	query := r.db.Rebind(`
		SELECT i.target_id AS user_id, i.updated_at AS matched_at, c.id AS conversation_id,
			u.display_name, u.bio, u.city, u.avatar_url, u.created_at AS joined_at
		FROM interests i
		JOIN users u ON u.id = i.target_id
		LEFT JOIN conversations c
			ON c.user_a_id = CASE WHEN i.actor_id < i.target_id THEN i.actor_id ELSE i.target_id END
			AND c.user_b_id = CASE WHEN i.actor_id < i.target_id THEN i.target_id ELSE i.actor_id END
		WHERE i.actor_id = ? AND i.status = ?
		ORDER BY i.updated_at DESC, i.target_id DESC`)

	var rows []matchRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, string(StatusMatched)); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	matches := make([]*Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, &Match{
			UserID:         row.UserID,
			Profile:        row.profile(),
			ConversationID: row.ConversationID,
			MatchedAt:      row.MatchedAt,
		})
	}
	return matches, nil
}

func (r *sqlRepository) ListByStatus(ctx context.Context, userID int64, status Status) ([]*InterestView, error) {
	query := r.db.Rebind(`
		SELECT i.target_id AS user_id, i.updated_at AS matched_at,
			u.display_name, u.bio, u.city, u.avatar_url, u.created_at AS joined_at
		FROM interests i
		JOIN users u ON u.id = i.target_id
		WHERE i.actor_id = ? AND i.status = ?
		ORDER BY i.updated_at DESC, i.target_id DESC`)

	var rows []matchRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, string(status)); err != nil {
		return nil, fmt.Errorf("list %s interests: %w", status, err)
	}

	views := make([]*InterestView, 0, len(rows))
	for _, row := range rows {
		views = append(views, &InterestView{
			TargetID:  row.UserID,
			Status:    status,
			Profile:   row.profile(),
			UpdatedAt: row.MatchedAt,
		})
	}
	return views, nil
}

// CountByStatus tallies every edge in the store
func (r *sqlRepository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status `db:"status"`
		Total  int64  `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS total FROM interests GROUP BY status`); err != nil {
		return nil, fmt.Errorf("count interests: %w", err)
	}

	counts := map[Status]int64{
		StatusPending:  0,
		StatusRejected: 0,
		StatusMatched:  0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
