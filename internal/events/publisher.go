package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fathima-sithara/messaging-service/internal/domain"
)

// Publisher emits message.created events for downstream consumers
// (notification fan-out, unread counters). Publishing is fire-and-forget:
// failures are logged, never surfaced to the sender.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

func NewPublisher(brokers []string, topic string, log *zap.SugaredLogger) *Publisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: w, log: log}
}

func (p *Publisher) MessageCreated(ctx context.Context, m *domain.Message) {
	b, err := json.Marshal(m)
	if err != nil {
		p.log.Errorw("marshal message.created", "err", err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(m.ConversationID),
		Value: b,
		Time:  m.CreatedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Errorw("publish message.created", "message_id", m.ID, "err", err)
	}
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
