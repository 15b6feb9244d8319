// internal/messaging/handlers.go

package messaging

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mommatch/mommatch-backend/internal/auth"
	"github.com/mommatch/mommatch-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetConversations handles GET /api/v1/conversations
func (h *Handler) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.ActorIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	conversations, err := h.service.ListConversations(r.Context(), userID)
	if err != nil {
		log.Printf("failed to list conversations for %d: %v", userID, err)
		utils.ErrorResponse(w, "Failed to get conversations", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, conversations, http.StatusOK)
}

// GetConversation handles GET /api/v1/conversations/{id}
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.ActorIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	convID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	conversation, err := h.service.GetConversation(r.Context(), userID, convID)
	if err != nil {
		switch {
		case errors.Is(err, ErrConversationNotFound):
			utils.ErrorResponse(w, "Conversation not found", http.StatusNotFound)
		case errors.Is(err, ErrNotParticipant):
			utils.ErrorResponse(w, "You are not part of this conversation", http.StatusForbidden)
		default:
			log.Printf("failed to get conversation %d: %v", convID, err)
			utils.ErrorResponse(w, "Failed to get conversation", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, conversation, http.StatusOK)
}

// CanMessage handles GET /api/v1/conversations/with/{userId}. A conversation
// exists only for matched pairs, so it gates messaging between the two.
func (h *Handler) CanMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.ActorIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	otherID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || otherID <= 0 {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	allowed, err := h.service.CanMessage(r.Context(), userID, otherID)
	if err != nil {
		log.Printf("failed to check conversation between %d and %d: %v", userID, otherID, err)
		utils.ErrorResponse(w, "Failed to check conversation", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]bool{"can_message": allowed}, http.StatusOK)
}
