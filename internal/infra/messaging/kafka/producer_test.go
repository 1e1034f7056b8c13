package kafka

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var decoded map[string]string
		if err := json.Unmarshal(val, &decoded); err != nil {
			return err
		}
		assert.Equal(t, "ok", decoded["status"])
		return nil
	})

	producer := newProducer(mockProducer, nil)
	err := producer.PublishEvent(TopicBookingEvents, "42", map[string]string{"status": "ok"})
	require.NoError(t, err)

	require.NoError(t, producer.Close())
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := newProducer(mockProducer, nil)
	err := producer.PublishEvent(TopicBookingEvents, "42", map[string]string{"status": "ok"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, producer.Close())
}

func TestOutboxPublisher_Publish(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var env Envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		assert.Equal(t, "outbox-1", env.ID)
		assert.Equal(t, domain.EventBookingStatusChanged, env.EventType)
		assert.JSONEq(t, `{"status":"CONFIRMED"}`, string(env.Payload))
		assert.False(t, env.PublishedAt.IsZero())
		return nil
	})

	publisher := NewOutboxPublisher(newProducer(mockProducer, nil), "")
	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: domain.AggregateBooking,
		AggregateID:   "15",
		EventType:     domain.EventBookingStatusChanged,
		Payload:       []byte(`{"status":"CONFIRMED"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, TopicBookingEvents, publisher.topic)

	require.NoError(t, mockProducer.Close())
}

func TestOutboxPublisher_Publish_ProducerError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewOutboxPublisher(newProducer(mockProducer, nil), "custom-topic")
	err := publisher.Publish(domain.OutboxMessage{
		ID:          "outbox-2",
		AggregateID: "16",
		EventType:   domain.EventBookingCreated,
		Payload:     []byte(`{}`),
	})
	require.Error(t, err)

	require.NoError(t, mockProducer.Close())
}

func TestOutboxPublisher_NotInitialized(t *testing.T) {
	var publisher *OutboxPublisher
	assert.ErrorIs(t, publisher.Publish(domain.OutboxMessage{ID: "x"}), ErrPublisherNotInitialized)

	publisher = NewOutboxPublisher(nil, "")
	assert.ErrorIs(t, publisher.Publish(domain.OutboxMessage{ID: "x"}), ErrPublisherNotInitialized)
}
