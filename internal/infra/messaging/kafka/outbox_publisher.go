package kafka

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// ErrPublisherNotInitialized возвращается, если producer не создан
var ErrPublisherNotInitialized = errors.New("kafka: outbox publisher is not initialized")

// Envelope формат сообщения в топике
type Envelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}

// OutboxPublisher публикует outbox-сообщения в один топик.
// Ключ сообщения: aggregate_id, поэтому события одного бронирования попадают в одну партицию.
type OutboxPublisher struct {
	producer *Producer
	topic    string
}

// NewOutboxPublisher создает publisher для outbox-воркера
func NewOutboxPublisher(producer *Producer, topic string) *OutboxPublisher {
	if topic == "" {
		topic = TopicBookingEvents
	}
	return &OutboxPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *OutboxPublisher) Publish(msg domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return ErrPublisherNotInitialized
	}

	key := msg.AggregateID
	if key == "" {
		key = msg.ID
	}

	return p.producer.PublishEvent(p.topic, key, Envelope{
		ID:            msg.ID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       json.RawMessage(msg.Payload),
		PublishedAt:   time.Now().UTC(),
	})
}
