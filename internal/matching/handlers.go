package matching

import (
	"errors"
	"net/http"

	"github.com/mommatch/mommatch-backend/internal/auth"
	"github.com/mommatch/mommatch-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// errorStatus maps engine errors to an HTTP status and a client-safe message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, ErrInvalidTarget), errors.Is(err, ErrInvalidAction), errors.Is(err, ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrTargetNotFound):
		return http.StatusNotFound, "Target user not found"
	default:
		return http.StatusInternalServerError, ErrTransaction.Error()
	}
}

// RecordInterest handles POST /api/v1/matches/interest
func (h *Handler) RecordInterest(w http.ResponseWriter, r *http.Request) {
	fail := func(code int, message string) {
		utils.RespondWithJSON(w, code, InterestResponse{Success: false, Error: message})
	}

	actorID, ok := auth.ActorIDFromContext(r.Context())
	if !ok {
		fail(http.StatusUnauthorized, "Not authenticated")
		return
	}

	var dto RecordInterestDTO
	if err := utils.DecodeJSON(r, &dto); err != nil {
		fail(http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		fail(http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.RecordInterest(r.Context(), actorID, dto.TargetUserID, Action(dto.Action))
	if err != nil {
		fail(errorStatus(err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, InterestResponse{
		Success:        true,
		Matched:        result.Matched,
		Message:        result.Message,
		ConversationID: result.ConversationID,
	})
}

// RetractLike handles POST /api/v1/matches/retract
func (h *Handler) RetractLike(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.ActorIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var dto RetractLikeDTO
	if err := utils.DecodeJSON(r, &dto); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	found, err := h.service.RetractLike(r.Context(), actorID, dto.TargetUserID)
	if err != nil {
		code, message := errorStatus(err)
		utils.ErrorResponse(w, message, code)
		return
	}

	if !found {
		utils.RespondWithJSON(w, http.StatusOK, utils.Response{
			Success: false,
			Message: "Like not found in pending state",
		})
		return
	}
	utils.MessageResponse(w, "Like removed", http.StatusOK)
}

// ReinsertProfile handles POST /api/v1/matches/reinsert
func (h *Handler) ReinsertProfile(w http.ResponseWriter, r *http.Request) {
	fail := func(code int, message string) {
		utils.RespondWithJSON(w, code, ReinsertResponse{Success: false, Error: message})
	}

	actorID, ok := auth.ActorIDFromContext(r.Context())
	if !ok {
		fail(http.StatusUnauthorized, "Not authenticated")
		return
	}

	var dto ReinsertProfileDTO
	if err := utils.DecodeJSON(r, &dto); err != nil {
		fail(http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		fail(http.StatusBadRequest, err.Error())
		return
	}

	card, found, err := h.service.ReinsertProfile(r.Context(), actorID, dto.ProfileID)
	if err != nil {
		fail(errorStatus(err))
		return
	}

	if !found {
		utils.RespondWithJSON(w, http.StatusOK, ReinsertResponse{
			Success: false,
			Message: "Profile not found in rejected state",
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ReinsertResponse{
		Success: true,
		Profile: card,
		Message: "Profile reinserted",
	})
}

// GetMatches handles GET /api/v1/matches
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.ActorIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	matches, err := h.service.ListMatches(r.Context(), userID)
	if err != nil {
		code, message := errorStatus(err)
		utils.ErrorResponse(w, message, code)
		return
	}

	utils.SuccessResponse(w, matches, http.StatusOK)
}

// GetLikes handles GET /api/v1/matches/likes
func (h *Handler) GetLikes(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, StatusPending)
}

// GetRejected handles GET /api/v1/matches/rejected
func (h *Handler) GetRejected(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, StatusRejected)
}

func (h *Handler) listByStatus(w http.ResponseWriter, r *http.Request, status Status) {
	userID, ok := auth.ActorIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	views, err := h.service.ListByStatus(r.Context(), userID, status)
	if err != nil {
		code, message := errorStatus(err)
		utils.ErrorResponse(w, message, code)
		return
	}

	utils.SuccessResponse(w, views, http.StatusOK)
}
