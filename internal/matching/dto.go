// internal/matching/dto.go
package matching

import "github.com/mommatch/mommatch-backend/internal/profile"

// DTOs for API requests/responses

type RecordInterestDTO struct {
	TargetUserID int64  `json:"target_user_id" validate:"required,gt=0"`
	Action       string `json:"action" validate:"required,oneof=like reject"`
}

type RetractLikeDTO struct {
	TargetUserID int64 `json:"target_user_id" validate:"required,gt=0"`
}

type ReinsertProfileDTO struct {
	ProfileID int64 `json:"profile_id" validate:"required,gt=0"`
}

// InterestResponse always carries "matched", including on errors
type InterestResponse struct {
	Success        bool   `json:"success"`
	Matched        bool   `json:"matched"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}

type ReinsertResponse struct {
	Success bool             `json:"success"`
	Profile *profile.Profile `json:"profile,omitempty"`
	Message string           `json:"message,omitempty"`
	Error   string           `json:"error,omitempty"`
}
