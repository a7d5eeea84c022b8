package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/messaging-service/internal/domain"
)

// ConversationRepository persists conversations in the conversations
// collection, keyed by conversation id with an index on the participants
// array for contains lookups.
type ConversationRepository struct {
	coll *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	coll := db.Collection(conversationsCollection)
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "participants", Value: 1}},
		Options: options.Index().SetName("participants_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &ConversationRepository{coll: coll}
}

// FindOrCreate returns the conversation holding exactly this pair, creating
// it when absent. Check-then-act without a uniqueness constraint on the
// pair: two concurrent calls that both miss can each insert a conversation
// for the same two users.
func (r *ConversationRepository) FindOrCreate(ctx context.Context, userA, userB int64) (*domain.Conversation, error) {
	cur, err := r.coll.Find(ctx, bson.M{"participants": userA})
	if err != nil {
		return nil, storageErr(err)
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var c domain.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, storageErr(err)
		}
		if c.HasParticipant(userB) {
			c.Normalize()
			return &c, nil
		}
	}
	if err := cur.Err(); err != nil {
		return nil, storageErr(err)
	}

	now := time.Now().UTC()
	conv := &domain.Conversation{
		ID:            uuid.NewString(),
		Participants:  []int64{userA, userB},
		CreatedAt:     now,
		LastMessageAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, conv); err != nil {
		return nil, storageErr(err)
	}
	conv.Normalize()
	return conv, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, id)
		}
		return nil, storageErr(err)
	}
	c.Normalize()
	return &c, nil
}

// ListForUser fetches every conversation containing the user and windows
// the sorted result in memory, so total always reflects the full match.
func (r *ConversationRepository) ListForUser(ctx context.Context, userID int64, page, limit int) ([]*domain.Conversation, int, error) {
	if err := domain.ValidatePage(page, limit); err != nil {
		return nil, 0, err
	}
	cur, err := r.coll.Find(ctx, bson.M{"participants": userID})
	if err != nil {
		return nil, 0, storageErr(err)
	}
	defer cur.Close(ctx)

	out := []*domain.Conversation{}
	for cur.Next(ctx) {
		var c domain.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, 0, storageErr(err)
		}
		out = append(out, &c)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, storageErr(err)
	}

	sortConversations(out)
	total := len(out)
	lo, hi := domain.Window(page, limit, total)
	window := out[lo:hi]
	for _, c := range window {
		c.Normalize()
	}
	return window, total, nil
}

// RecordLastMessage overwrites the summary unconditionally, last write
// wins even for out-of-order concurrent appends. An unknown id is a no-op.
func (r *ConversationRepository) RecordLastMessage(ctx context.Context, conversationID, content string, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"last_message_content": content,
		"last_message_at":      at,
	}}
	if _, err := r.coll.UpdateByID(ctx, conversationID, update); err != nil {
		return storageErr(err)
	}
	return nil
}
