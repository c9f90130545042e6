package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink publishes status-change events to a Kafka topic, keyed by
// request ID so one aggregate's events stay ordered within a partition.
type KafkaSink struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewKafkaSink connects to the brokers and returns a sink producing to topic.
func NewKafkaSink(brokers []string, topic string, logger *slog.Logger) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{client: client, logger: logger}, nil
}

func (s *KafkaSink) Publish(ctx context.Context, event StatusChanged) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode status event: %w", err)
	}
	record := &kgo.Record{
		Key:   []byte(event.RequestID.String()),
		Value: value,
	}
	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil && s.logger != nil {
			s.logger.Warn("status event publish failed",
				"request_id", event.RequestID.String(),
				"error", err.Error(),
			)
		}
	})
	return nil
}

// Close flushes outstanding records and releases the client.
func (s *KafkaSink) Close(ctx context.Context) error {
	if err := s.client.Flush(ctx); err != nil {
		return err
	}
	s.client.Close()
	return nil
}
