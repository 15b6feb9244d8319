// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mommatch/mommatch-backend/internal/common/database"
	"github.com/mommatch/mommatch-backend/internal/messaging"
	"github.com/mommatch/mommatch-backend/internal/profile"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidTarget    = errors.New("target_user_id must reference another member")
	ErrTargetNotFound   = errors.New("target user not found")
	ErrInvalidAction    = errors.New("action must be one of: like reject")
	ErrInvalidStatus    = errors.New("status must be pending or rejected")
	ErrTransaction      = errors.New("could not process action")
)

// UserDirectory answers who exists and what their card looks like
type UserDirectory interface {
	UserExists(ctx context.Context, id int64) (bool, error)
	GetProfile(ctx context.Context, id int64) (*profile.Profile, error)
}

// ConversationInitiator opens the conversation for a matched pair inside the
// caller's transaction
type ConversationInitiator interface {
	EnsureConversation(ctx context.Context, q sqlx.ExtContext, userA, userB int64) (*messaging.Conversation, bool, error)
}

// MatchNotifier pushes match events to connected members
type MatchNotifier interface {
	NotifyMatch(user1ID, user2ID int64, data interface{})
}

type Service interface {
	RecordInterest(ctx context.Context, actorID, targetID int64, action Action) (*InterestResult, error)
	RetractLike(ctx context.Context, actorID, targetID int64) (bool, error)
	ReinsertProfile(ctx context.Context, actorID, targetID int64) (*profile.Profile, bool, error)
	ListMatches(ctx context.Context, userID int64) ([]*Match, error)
	ListByStatus(ctx context.Context, userID int64, status Status) ([]*InterestView, error)
}

type service struct {
	db            *sqlx.DB
	repo          Repository
	users         UserDirectory
	conversations ConversationInitiator
	notifier      MatchNotifier
}

// NewService wires the match engine. notifier may be nil.
func NewService(db *sqlx.DB, repo Repository, users UserDirectory, conversations ConversationInitiator, notifier MatchNotifier) Service {
	return &service{
		db:            db,
		repo:          repo,
		users:         users,
		conversations: conversations,
		notifier:      notifier,
	}
}

func validatePair(actorID, targetID int64) error {
	if actorID <= 0 {
		return ErrNotAuthenticated
	}
	if targetID <= 0 || targetID == actorID {
		return ErrInvalidTarget
	}
	return nil
}

// RecordInterest writes the actor's edge and, for a like answering a pending
// like, promotes both edges to matched and opens the conversation. All writes
// share one transaction.
func (s *service) RecordInterest(ctx context.Context, actorID, targetID int64, action Action) (*InterestResult, error) {
	if err := validatePair(actorID, targetID); err != nil {
		return nil, err
	}
	status, err := action.Status()
	if err != nil {
		return nil, err
	}

	exists, err := s.users.UserExists(ctx, targetID)
	if err != nil {
		return nil, s.engineError("check target", err)
	}
	if !exists {
		return nil, ErrTargetNotFound
	}

	defer observeDuration("record_interest", time.Now())

	var (
		result   *InterestResult
		promoted *messaging.Conversation
	)
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		if err := s.repo.LockPair(ctx, tx, actorID, targetID, now); err != nil {
			return err
		}

		current, err := s.repo.GetInterest(ctx, tx, actorID, targetID)
		if err != nil && !errors.Is(err, errInterestNotFound) {
			return err
		}
		if current != nil && current.Status == StatusMatched {
			conv, _, err := s.conversations.EnsureConversation(ctx, tx, actorID, targetID)
			if err != nil {
				return err
			}
			result = matchedResult(conv, "Already matched")
			return nil
		}

		if err := s.repo.UpsertInterest(ctx, tx, actorID, targetID, status, now); err != nil {
			return err
		}

		if action != ActionLike {
			result = &InterestResult{Status: status, Message: "Profile rejected"}
			return nil
		}

		reverse, err := s.repo.GetInterest(ctx, tx, targetID, actorID)
		if err != nil && !errors.Is(err, errInterestNotFound) {
			return err
		}
		if reverse == nil || reverse.Status != StatusPending {
			result = &InterestResult{Status: status, Message: "Like recorded"}
			return nil
		}

		if err := s.repo.PromoteToMatched(ctx, tx, actorID, targetID, now); err != nil {
			return err
		}
		conv, _, err := s.conversations.EnsureConversation(ctx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		promoted = conv
		result = matchedResult(conv, "It's a match!")
		return nil
	})
	if err != nil {
		return nil, s.engineError("record interest", err)
	}

	interestActionsTotal.WithLabelValues(string(action)).Inc()
	if promoted != nil {
		matchesTotal.Inc()
		log.Printf("Match created between users %d and %d (conversation %d)", actorID, targetID, promoted.ID)
		if s.notifier != nil {
			s.notifier.NotifyMatch(actorID, targetID, &MatchEvent{
				UserIDs:        [2]int64{promoted.UserAID, promoted.UserBID},
				ConversationID: promoted.ID,
				MatchedAt:      promoted.CreatedAt,
			})
		}
	}

	return result, nil
}

func matchedResult(conv *messaging.Conversation, message string) *InterestResult {
	id := conv.ID
	return &InterestResult{
		Status:         StatusMatched,
		Matched:        true,
		ConversationID: &id,
		Message:        message,
	}
}

// RetractLike deletes the actor's edge only while it is pending
func (s *service) RetractLike(ctx context.Context, actorID, targetID int64) (bool, error) {
	found, err := s.deleteScoped(ctx, actorID, targetID, StatusPending)
	if err != nil {
		return false, err
	}
	recordUndo("retract", found)
	return found, nil
}

// ReinsertProfile deletes the actor's edge only while it is rejected, putting
// the target back in the actor's browsing pool
func (s *service) ReinsertProfile(ctx context.Context, actorID, targetID int64) (*profile.Profile, bool, error) {
	found, err := s.deleteScoped(ctx, actorID, targetID, StatusRejected)
	if err != nil {
		return nil, false, err
	}
	recordUndo("reinsert", found)
	if !found {
		return nil, false, nil
	}

	card, err := s.users.GetProfile(ctx, targetID)
	if err != nil {
		// The edge is gone either way; the card is a convenience.
		log.Printf("reinserted profile %d for user %d but could not load it: %v", targetID, actorID, err)
		return nil, true, nil
	}
	return card, true, nil
}

func (s *service) deleteScoped(ctx context.Context, actorID, targetID int64, status Status) (bool, error) {
	if err := validatePair(actorID, targetID); err != nil {
		return false, err
	}

	exists, err := s.users.UserExists(ctx, targetID)
	if err != nil {
		return false, s.engineError("check target", err)
	}
	if !exists {
		return false, nil
	}

	var found bool
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.repo.LockPair(ctx, tx, actorID, targetID, time.Now().UTC()); err != nil {
			return err
		}
		var err error
		found, err = s.repo.DeleteInterest(ctx, tx, actorID, targetID, status)
		return err
	})
	if err != nil {
		return false, s.engineError("delete "+string(status)+" interest", err)
	}
	return found, nil
}

func (s *service) ListMatches(ctx context.Context, userID int64) ([]*Match, error) {
	if userID <= 0 {
		return nil, ErrNotAuthenticated
	}
	return s.repo.ListMatches(ctx, userID)
}

// ListByStatus lists outgoing edges that are still pending or rejected
func (s *service) ListByStatus(ctx context.Context, userID int64, status Status) ([]*InterestView, error) {
	if userID <= 0 {
		return nil, ErrNotAuthenticated
	}
	if status != StatusPending && status != StatusRejected {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListByStatus(ctx, userID, status)
}

// engineError logs the cause and hides it behind ErrTransaction
func (s *service) engineError(op string, err error) error {
	engineErrorsTotal.Inc()
	log.Printf("match engine: %s failed: %v", op, err)
	return fmt.Errorf("%w: %s: %w", ErrTransaction, op, err)
}
