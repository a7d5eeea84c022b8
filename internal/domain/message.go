package domain

import "time"

// Message is a single immutable unit of content within a conversation.
// CreatedAt is the ordering key for all reads.
type Message struct {
	ID             string    `bson:"_id" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	SenderID       int64     `bson:"sender_id" json:"sender_id"`
	ReceiverID     int64     `bson:"receiver_id" json:"receiver_id"`
	Content        string    `bson:"content" json:"content"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// MessagePage is the paginated envelope for message listings.
type MessagePage struct {
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Data  []*Message `json:"data"`
}
