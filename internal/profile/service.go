// internal/profile/service.go

package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mommatch/mommatch-backend/internal/common/utils"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailTaken      = errors.New("email already registered")
)

const (
	defaultCandidateLimit = 20
	maxCandidateLimit     = 100
)

// Service defines the profile service interface
type Service interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	ListCandidates(ctx context.Context, actorID int64, filter *CandidateFilter) ([]*Profile, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*Profile, error)
}

type service struct {
	repo       Repository
	bcryptCost int
}

// NewService creates a new profile service
func NewService(repo Repository, bcryptCost int) Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &service{
		repo:       repo,
		bcryptCost: bcryptCost,
	}
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	if userID <= 0 {
		return nil, ErrProfileNotFound
	}
	return s.repo.GetProfile(ctx, userID)
}

// ListCandidates clamps paging before hitting the directory
func (s *service) ListCandidates(ctx context.Context, actorID int64, filter *CandidateFilter) ([]*Profile, error) {
	f := CandidateFilter{Limit: defaultCandidateLimit}
	if filter != nil {
		f = *filter
	}
	if f.Limit <= 0 {
		f.Limit = defaultCandidateLimit
	}
	if f.Limit > maxCandidateLimit {
		f.Limit = maxCandidateLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.ListCandidates(ctx, actorID, &f)
}

// CreateUser validates the request, hashes the password and stores the member
func (s *service) CreateUser(ctx context.Context, req *CreateUserRequest) (*Profile, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Bio:          req.Bio,
		City:         req.City,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return &Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		City:        user.City,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
	}, nil
}
