// Package kafka streams audit events to a topic for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "vaxtrack/pkg/platform/audit"
)

// Producer is the part of *kgo.Client the sink uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Store is an append-only audit.Store writing JSON records keyed by facility,
// so per-facility ordering holds within a partition.
type Store struct {
	producer Producer
	topic    string
}

func New(producer Producer, topic string) *Store {
	return &Store{producer: producer, topic: topic}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	record, err := s.record(event)
	if err != nil {
		return err
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (s *Store) record(event audit.Event) (*kgo.Record, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal audit event: %w", err)
	}
	return &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Facility),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
		},
		Timestamp: event.Timestamp,
	}, nil
}
