// internal/common/utils/jwt.go
// Session token generation and validation

package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const sessionIssuer = "mommatch"

var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims identifies the member a session token was issued to
type SessionClaims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

// GenerateSessionToken signs an HS256 token for userID valid for ttl
func GenerateSessionToken(userID int64, ttl time.Duration, secret string) (string, *SessionClaims, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   strconv.FormatInt(userID, 10),
		ID:        claims.TokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// ParseSessionToken validates signature and expiry and returns the claims
func ParseSessionToken(tokenString, secret string) (*SessionClaims, error) {
	registered := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, registered, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(registered.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}
	if registered.ID == "" || registered.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	return &SessionClaims{
		UserID:    userID,
		TokenID:   registered.ID,
		ExpiresAt: registered.ExpiresAt.Time,
	}, nil
}
