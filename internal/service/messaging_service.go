package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fathima-sithara/messaging-service/internal/domain"
)

// ConversationStore resolves and lists conversations and maintains the
// denormalized last-message summary.
type ConversationStore interface {
	FindOrCreate(ctx context.Context, userA, userB int64) (*domain.Conversation, error)
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	ListForUser(ctx context.Context, userID int64, page, limit int) ([]*domain.Conversation, int, error)
	RecordLastMessage(ctx context.Context, conversationID, content string, at time.Time) error
}

// MessageStore is the append-only ordered message log per conversation.
type MessageStore interface {
	Append(ctx context.Context, conversationID string, senderID, receiverID int64, content string) (*domain.Message, error)
	ListByConversation(ctx context.Context, conversationID string, page, limit int) ([]*domain.Message, int, error)
	ListBefore(ctx context.Context, conversationID string, before time.Time, page, limit int) ([]*domain.Message, int, error)
}

// Publisher emits events for persisted messages.
type Publisher interface {
	MessageCreated(ctx context.Context, m *domain.Message)
}

type MessagingService struct {
	convs ConversationStore
	msgs  MessageStore
	pub   Publisher // optional
	log   *zap.SugaredLogger
}

func NewMessagingService(convs ConversationStore, msgs MessageStore, pub Publisher, log *zap.SugaredLogger) *MessagingService {
	return &MessagingService{convs: convs, msgs: msgs, pub: pub, log: log}
}

// SendMessage resolves or creates the conversation for the pair, appends
// the message and refreshes the conversation summary.
func (s *MessagingService) SendMessage(ctx context.Context, senderID, receiverID int64, content string) (*domain.Message, error) {
	if senderID <= 0 || receiverID <= 0 {
		return nil, fmt.Errorf("%w: sender_id and receiver_id must be positive", domain.ErrInvalidArgument)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content required", domain.ErrInvalidArgument)
	}

	conv, err := s.convs.FindOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	msg, err := s.msgs.Append(ctx, conv.ID, senderID, receiverID, content)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("message appended",
		"conversation_id", conv.ID, "message_id", msg.ID, "sender_id", senderID)
	if s.pub != nil {
		s.pub.MessageCreated(ctx, msg)
	}
	return msg, nil
}

func (s *MessagingService) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	if err := validateConversationID(id); err != nil {
		return nil, err
	}
	return s.convs.GetByID(ctx, id)
}

func (s *MessagingService) ListConversations(ctx context.Context, userID int64, page, limit int) (*domain.ConversationPage, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", domain.ErrInvalidArgument)
	}
	items, total, err := s.convs.ListForUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &domain.ConversationPage{Total: total, Page: page, Limit: limit, Data: items}, nil
}

// ListMessages pages through a conversation, optionally restricted to
// messages sent strictly before the given timestamp.
func (s *MessagingService) ListMessages(ctx context.Context, conversationID string, before *time.Time, page, limit int) (*domain.MessagePage, error) {
	if err := validateConversationID(conversationID); err != nil {
		return nil, err
	}
	var (
		items []*domain.Message
		total int
		err   error
	)
	if before != nil {
		items, total, err = s.msgs.ListBefore(ctx, conversationID, *before, page, limit)
	} else {
		items, total, err = s.msgs.ListByConversation(ctx, conversationID, page, limit)
	}
	if err != nil {
		return nil, err
	}
	return &domain.MessagePage{Total: total, Page: page, Limit: limit, Data: items}, nil
}

func validateConversationID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: conversation id %q", domain.ErrInvalidArgument, id)
	}
	return nil
}
