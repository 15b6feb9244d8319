// internal/messaging/models.go

package messaging

import (
	"time"

	"github.com/mommatch/mommatch-backend/internal/profile"
)

// Conversation is the channel opened for a matched pair.
// UserAID is always the smaller member id.
type Conversation struct {
	ID        int64     `json:"id" db:"id"`
	UserAID   int64     `json:"user_a_id" db:"user_a_id"`
	UserBID   int64     `json:"user_b_id" db:"user_b_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasUser reports whether userID is one of the pair
func (c *Conversation) HasUser(userID int64) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// OtherUserID returns the counterpart of userID
func (c *Conversation) OtherUserID(userID int64) int64 {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// ConversationView is a conversation as seen by one participant
type ConversationView struct {
	ID        int64            `json:"id"`
	OtherUser *profile.Profile `json:"other_user"`
	CreatedAt time.Time        `json:"created_at"`
}

// WSMessageType identifies a server push event
type WSMessageType string

const (
	WSTypeNewMatch WSMessageType = "new_match"
)

// WSMessage is the envelope pushed over the websocket
type WSMessage struct {
	Type   WSMessageType `json:"type"`
	UserID int64         `json:"user_id"`
	Data   interface{}   `json:"data"`
}
