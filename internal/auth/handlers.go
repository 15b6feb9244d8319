// internal/auth/handlers.go

package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mommatch/mommatch-backend/internal/common/utils"
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// Handler holds dependencies for session endpoints
type Handler struct {
	service Service
	cookie  CookieConfig
}

// NewHandler creates a new auth handler
func NewHandler(service Service, cookie CookieConfig) *Handler {
	return &Handler{
		service: service,
		cookie:  cookie,
	}
}

// RegisterRoutes registers the session routes with the router
func (h *Handler) RegisterRoutes(router *mux.Router, middleware *Middleware) {
	router.HandleFunc("/api/v1/session", h.Login).Methods("POST")
	router.Handle("/api/v1/session", middleware.Authenticate(http.HandlerFunc(h.Logout))).Methods("DELETE")
	router.Handle("/api/v1/session", middleware.Authenticate(http.HandlerFunc(h.Me))).Methods("GET")
}

// Login handles POST /api/v1/session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, account, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			utils.ErrorResponse(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		log.Printf("login failed: %v", err)
		utils.ErrorResponse(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	utils.SuccessResponse(w, SessionResponse{
		Account:   account,
		ExpiresAt: session.ExpiresAt,
	}, http.StatusOK)
}

// Logout handles DELETE /api/v1/session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			log.Printf("logout failed: %v", err)
			utils.ErrorResponse(w, "Failed to logout", http.StatusInternalServerError)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	utils.MessageResponse(w, "Logged out successfully", http.StatusOK)
}

// Me handles GET /api/v1/session
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := ActorIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	account, err := h.service.GetAccount(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.ErrorResponse(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		log.Printf("failed to load account %d: %v", userID, err)
		utils.ErrorResponse(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, account, http.StatusOK)
}
