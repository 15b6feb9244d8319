// internal/auth/service.go
// Session issuing, validation and revocation

package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mommatch/mommatch-backend/internal/common/utils"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Service interface
type Service interface {
	Login(ctx context.Context, req *LoginRequest) (*Session, *Account, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*utils.SessionClaims, error)
	GetAccount(ctx context.Context, userID int64) (*Account, error)
}

// Config holds service configuration
type Config struct {
	SessionSecret string
	SessionTTL    time.Duration
}

type service struct {
	repo    Repository
	revoked RevocationStore
	config  *Config
}

// NewService creates a new auth service. revoked may be nil, in which case
// logout cannot invalidate tokens server side.
func NewService(repo Repository, revoked RevocationStore, config *Config) Service {
	return &service{
		repo:    repo,
		revoked: revoked,
		config:  config,
	}
}

// Login checks the password and issues a session token
func (s *service) Login(ctx context.Context, req *LoginRequest) (*Session, *Account, error) {
	account, err := s.repo.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	token, claims, err := utils.GenerateSessionToken(account.ID, s.config.SessionTTL, s.config.SessionSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &Session{
		Token:     token,
		TokenID:   claims.TokenID,
		UserID:    account.ID,
		ExpiresAt: claims.ExpiresAt,
	}, account, nil
}

// Logout revokes the token for the rest of its lifetime
func (s *service) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseSessionToken(token, s.config.SessionSecret)
	if err != nil {
		// Nothing to revoke.
		return nil
	}
	if s.revoked == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt))
}

// ValidateSession verifies the token and that it was not logged out
func (s *service) ValidateSession(ctx context.Context, token string) (*utils.SessionClaims, error) {
	claims, err := utils.ParseSessionToken(token, s.config.SessionSecret)
	if err != nil {
		return nil, ErrInvalidSession
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			// Redis outage should not lock every member out.
			log.Printf("session revocation check failed: %v", err)
		} else if revoked {
			return nil, ErrInvalidSession
		}
	}

	return claims, nil
}

func (s *service) GetAccount(ctx context.Context, userID int64) (*Account, error) {
	return s.repo.GetAccountByID(ctx, userID)
}
