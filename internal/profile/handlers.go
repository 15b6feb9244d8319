//internal/profile/handlers.go

package profile

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mommatch/mommatch-backend/internal/auth"
	"github.com/mommatch/mommatch-backend/internal/common/utils"
)

// Handler handles profile-related HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new profile handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetProfile handles GET /api/v1/profiles/{id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || userID <= 0 {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		log.Printf("failed to get profile %d: %v", userID, err)
		utils.ErrorResponse(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

// ListCandidates handles GET /api/v1/profiles/candidates
func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.ActorIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	filter := &CandidateFilter{}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil {
			utils.ErrorResponse(w, "limit must be a number", http.StatusBadRequest)
			return
		}
		filter.Limit = l
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		o, err := strconv.Atoi(offset)
		if err != nil {
			utils.ErrorResponse(w, "offset must be a number", http.StatusBadRequest)
			return
		}
		filter.Offset = o
	}

	profiles, err := h.service.ListCandidates(r.Context(), actorID, filter)
	if err != nil {
		log.Printf("failed to list candidates for %d: %v", actorID, err)
		utils.ErrorResponse(w, "Failed to list profiles", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{
		"profiles": profiles,
		"count":    len(profiles),
	}, http.StatusOK)
}
