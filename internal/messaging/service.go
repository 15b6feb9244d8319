// internal/messaging/service.go

package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mommatch/mommatch-backend/internal/profile"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a participant in this conversation")
	ErrInvalidPair          = errors.New("a conversation needs two distinct members")
)

type Service interface {
	ListConversations(ctx context.Context, userID int64) ([]*ConversationView, error)
	GetConversation(ctx context.Context, userID, conversationID int64) (*ConversationView, error)
	CanMessage(ctx context.Context, userA, userB int64) (bool, error)
}

type service struct {
	repo     Repository
	profiles profile.Repository
	db       sqlx.ExtContext
}

func NewService(repo Repository, profiles profile.Repository, db sqlx.ExtContext) Service {
	return &service{
		repo:     repo,
		profiles: profiles,
		db:       db,
	}
}

func (s *service) ListConversations(ctx context.Context, userID int64) ([]*ConversationView, error) {
	return s.repo.ListUserConversations(ctx, userID)
}

// GetConversation loads a conversation the caller takes part in
func (s *service) GetConversation(ctx context.Context, userID, conversationID int64) (*ConversationView, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasUser(userID) {
		return nil, ErrNotParticipant
	}

	other, err := s.profiles.GetProfile(ctx, conv.OtherUserID(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	return &ConversationView{
		ID:        conv.ID,
		OtherUser: other,
		CreatedAt: conv.CreatedAt,
	}, nil
}

// CanMessage reports whether the pair has an open conversation
func (s *service) CanMessage(ctx context.Context, userA, userB int64) (bool, error) {
	if userA == userB {
		return false, nil
	}
	_, err := s.repo.GetConversationByPair(ctx, s.db, userA, userB)
	if errors.Is(err, ErrConversationNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
