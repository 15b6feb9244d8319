// internal/auth/models.go

package auth

import "time"

// Account is the credential view of a member row
type Account struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// LoginRequest is the body of POST /api/v1/session
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is an issued session token
type Session struct {
	Token     string    `json:"-"`
	TokenID   string    `json:"-"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse is returned after a successful login
type SessionResponse struct {
	Account   *Account  `json:"account"`
	ExpiresAt time.Time `json:"expires_at"`
}
