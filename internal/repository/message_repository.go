package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/messaging-service/internal/domain"
)

// summaryRecorder is the slice of the conversation store an append needs.
type summaryRecorder interface {
	RecordLastMessage(ctx context.Context, conversationID, content string, at time.Time) error
}

// MessageRepository is the append-only message log for a conversation,
// clustered by send time through the (conversation_id, created_at) index.
type MessageRepository struct {
	coll  *mongo.Collection
	convs summaryRecorder
}

func NewMessageRepository(db *mongo.Database, convs summaryRecorder) *MessageRepository {
	coll := db.Collection(messagesCollection)
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("conversation_created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &MessageRepository{coll: coll, convs: convs}
}

// Append inserts the message, then refreshes the conversation summary. The
// message is durable once the insert returns; a summary failure after that
// surfaces as an error while the message stays readable.
func (r *MessageRepository) Append(ctx context.Context, conversationID string, senderID, receiverID int64, content string) (*domain.Message, error) {
	m := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return nil, storageErr(err)
	}
	if err := r.convs.RecordLastMessage(ctx, conversationID, content, m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string, page, limit int) ([]*domain.Message, int, error) {
	return r.list(ctx, bson.M{"conversation_id": conversationID}, page, limit)
}

// ListBefore is strictly exclusive: a message stamped exactly at the cutoff
// is not returned.
func (r *MessageRepository) ListBefore(ctx context.Context, conversationID string, before time.Time, page, limit int) ([]*domain.Message, int, error) {
	filter := bson.M{
		"conversation_id": conversationID,
		"created_at":      bson.M{"$lt": before},
	}
	return r.list(ctx, filter, page, limit)
}

func (r *MessageRepository) list(ctx context.Context, filter bson.M, page, limit int) ([]*domain.Message, int, error) {
	if err := domain.ValidatePage(page, limit); err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	defer cur.Close(ctx)

	out := []*domain.Message{}
	for cur.Next(ctx) {
		var m domain.Message
		if err := cur.Decode(&m); err != nil {
			return nil, 0, storageErr(err)
		}
		out = append(out, &m)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, storageErr(err)
	}

	total := len(out)
	lo, hi := domain.Window(page, limit, total)
	return out[lo:hi], total, nil
}
