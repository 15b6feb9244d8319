// internal/auth/middleware.go

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/mommatch/mommatch-backend/internal/common/utils"
)

type contextKey int

const actorIDKey contextKey = iota

// Middleware provides authentication middleware
type Middleware struct {
	service    Service
	cookieName string
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(service Service, cookieName string) *Middleware {
	return &Middleware{
		service:    service,
		cookieName: cookieName,
	}
}

// Authenticate resolves the session cookie or bearer token and stores the
// acting member id in the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			utils.ErrorResponse(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		claims, err := m.service.ValidateSession(r.Context(), token)
		if err != nil {
			utils.ErrorResponse(w, "Invalid or expired session", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActorID(r.Context(), claims.UserID)))
	})
}

// extractToken prefers the session cookie and falls back to "Bearer <token>"
func (m *Middleware) extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// WithActorID returns a context carrying the acting member id
func WithActorID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorIDKey, userID)
}

// ActorIDFromContext extracts the acting member id set by Authenticate
func ActorIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(actorIDKey).(int64)
	return userID, ok && userID > 0
}
