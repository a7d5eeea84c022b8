package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fathima-sithara/messaging-service/internal/domain"
)

// MemoryStore keeps conversations and messages in process. It implements
// the same contracts as the Mongo repositories and backs unit tests and the
// storage-free local mode. The mutex is held per call, never across calls.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
	messages      map[string][]*domain.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: map[string]*domain.Conversation{},
		messages:      map[string][]*domain.Message{},
	}
}

// FindOrCreate mirrors the Mongo behavior, including the open
// check-then-act race between concurrent creators of the same pair.
func (s *MemoryStore) FindOrCreate(ctx context.Context, userA, userB int64) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.conversations {
		if c.HasParticipant(userA) && c.HasParticipant(userB) {
			return cloneConversation(c), nil
		}
	}

	now := time.Now().UTC()
	conv := &domain.Conversation{
		ID:            uuid.NewString(),
		Participants:  []int64{userA, userB},
		CreatedAt:     now,
		LastMessageAt: now,
	}
	s.conversations[conv.ID] = conv
	return cloneConversation(conv), nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, id)
	}
	return cloneConversation(c), nil
}

func (s *MemoryStore) ListForUser(ctx context.Context, userID int64, page, limit int) ([]*domain.Conversation, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, storageErr(err)
	}
	if err := domain.ValidatePage(page, limit); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Conversation{}
	for _, c := range s.conversations {
		if c.HasParticipant(userID) {
			out = append(out, cloneConversation(c))
		}
	}
	sortConversations(out)
	total := len(out)
	lo, hi := domain.Window(page, limit, total)
	return out[lo:hi], total, nil
}

func (s *MemoryStore) RecordLastMessage(ctx context.Context, conversationID, content string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return storageErr(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Unknown ids are a no-op, like the Mongo update that matches nothing.
	if c, ok := s.conversations[conversationID]; ok {
		c.LastMessageContent = &content
		c.LastMessageAt = at
	}
	return nil
}

func (s *MemoryStore) Append(ctx context.Context, conversationID string, senderID, receiverID int64, content string) (*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	m := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	s.mu.Lock()
	s.messages[conversationID] = append(s.messages[conversationID], m)
	s.mu.Unlock()

	if err := s.RecordLastMessage(ctx, conversationID, content, m.CreatedAt); err != nil {
		return nil, err
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) ListByConversation(ctx context.Context, conversationID string, page, limit int) ([]*domain.Message, int, error) {
	return s.list(ctx, conversationID, nil, page, limit)
}

func (s *MemoryStore) ListBefore(ctx context.Context, conversationID string, before time.Time, page, limit int) ([]*domain.Message, int, error) {
	return s.list(ctx, conversationID, &before, page, limit)
}

func (s *MemoryStore) list(ctx context.Context, conversationID string, before *time.Time, page, limit int) ([]*domain.Message, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, storageErr(err)
	}
	if err := domain.ValidatePage(page, limit); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Message{}
	for _, m := range s.messages[conversationID] {
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sortMessages(out)
	total := len(out)
	lo, hi := domain.Window(page, limit, total)
	return out[lo:hi], total, nil
}

func cloneConversation(c *domain.Conversation) *domain.Conversation {
	cp := *c
	cp.Participants = append([]int64(nil), c.Participants...)
	if c.LastMessageContent != nil {
		v := *c.LastMessageContent
		cp.LastMessageContent = &v
	}
	cp.Normalize()
	return &cp
}
