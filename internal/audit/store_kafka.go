package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"studiogate/internal/platform/kafka/producer"
	"studiogate/internal/sentinel"
)

// KafkaStore appends audit events to a Kafka topic. Write-only: reads go to a
// downstream consumer, not back through this sink.
type KafkaStore struct {
	producer *producer.Producer
	topic    string
}

// NewKafka constructs a Kafka-backed audit sink.
func NewKafka(p *producer.Producer, topic string) *KafkaStore {
	return &KafkaStore{producer: p, topic: topic}
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	msg := &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.UserID),
		Value: value,
		Headers: map[string]string{
			"action": event.Action,
		},
	}
	if err := s.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("append audit event: %v: %w", err, sentinel.ErrUnavailable)
	}
	return nil
}

func (s *KafkaStore) ListByUser(_ context.Context, _ string) ([]Event, error) {
	return nil, fmt.Errorf("kafka audit sink is write-only: %w", sentinel.ErrUnavailable)
}
