package domain

import (
	"sort"
	"time"
)

// Conversation is a persisted exchange between exactly two users. The
// last-message fields are a denormalized copy of the most recent append;
// LastMessageContent stays nil and LastMessageAt holds the creation time
// until the first message arrives.
type Conversation struct {
	ID                 string    `bson:"_id" json:"id"`
	Participants       []int64   `bson:"participants" json:"participants"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	LastMessageAt      time.Time `bson:"last_message_at" json:"last_message_at"`
	LastMessageContent *string   `bson:"last_message_content" json:"last_message_content"`
}

// Normalize sorts the participant pair ascending so reads report the same
// pair regardless of which user started the conversation.
func (c *Conversation) Normalize() {
	sort.Slice(c.Participants, func(i, j int) bool {
		return c.Participants[i] < c.Participants[j]
	})
}

func (c *Conversation) HasParticipant(userID int64) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// ConversationPage is the paginated envelope for conversation listings.
// Total is the full matching count, independent of the requested window.
type ConversationPage struct {
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Data  []*Conversation `json:"data"`
}
