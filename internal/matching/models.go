package matching

import (
	"time"

	"github.com/mommatch/mommatch-backend/internal/profile"
)

// Status is the state of one directed interest edge
type Status string

const (
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
	StatusMatched  Status = "matched"
)

// Action is what a member does to a profile card
type Action string

const (
	ActionLike   Action = "like"
	ActionReject Action = "reject"
)

// Status maps an action to the edge status it writes
func (a Action) Status() (Status, error) {
	switch a {
	case ActionLike:
		return StatusPending, nil
	case ActionReject:
		return StatusRejected, nil
	default:
		return "", ErrInvalidAction
	}
}

// Interest is the directed edge actor -> target
type Interest struct {
	ActorID   int64     `json:"actor_id" db:"actor_id"`
	TargetID  int64     `json:"target_id" db:"target_id"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InterestResult is the outcome of RecordInterest
type InterestResult struct {
	Status         Status `json:"status"`
	Matched        bool   `json:"matched"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Match is a mutual match seen from one member
type Match struct {
	UserID         int64            `json:"user_id"`
	Profile        *profile.Profile `json:"profile"`
	ConversationID *int64           `json:"conversation_id,omitempty"`
	MatchedAt      time.Time        `json:"matched_at"`
}

// InterestView is an outgoing edge with the target's card
type InterestView struct {
	TargetID  int64            `json:"target_id"`
	Status    Status           `json:"status"`
	Profile   *profile.Profile `json:"profile"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// MatchEvent is pushed to both members when they match
type MatchEvent struct {
	UserIDs        [2]int64  `json:"user_ids"`
	ConversationID int64     `json:"conversation_id"`
	MatchedAt      time.Time `json:"matched_at"`
}
