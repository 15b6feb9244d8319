// internal/profile/models.go

package profile

import "time"

// Profile is the public card of a member shown in the browsing deck
type Profile struct {
	ID          int64     `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Bio         string    `json:"bio" db:"bio"`
	City        string    `json:"city" db:"city"`
	AvatarURL   string    `json:"avatar_url" db:"avatar_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// User is a full member row, used when registering members
type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	PasswordHash string    `db:"password_hash"`
	Bio          string    `db:"bio"`
	City         string    `db:"city"`
	AvatarURL    string    `db:"avatar_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// CreateUserRequest carries the fields needed to register a member
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=100"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Bio         string `json:"bio" validate:"max=500"`
	City        string `json:"city" validate:"max=100"`
}

// CandidateFilter pages through the browsing pool
type CandidateFilter struct {
	Limit  int
	Offset int
}
