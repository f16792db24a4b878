package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	audit "orglink/pkg/platform/audit"
)

// Producer is the slice of the platform Kafka producer this store needs.
type Producer interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Store appends audit events to a Kafka topic as JSON, keyed by subject so
// events about the same reference land in the same partition.
type Store struct {
	producer Producer
}

// New wraps producer.
func New(producer Producer) *Store {
	return &Store{producer: producer}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	if err := s.producer.Publish(ctx, []byte(event.Subject), payload); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}
