// Package kafka publishes lifecycle events to the event bus. Integration
// effects (publish_load_event and friends) fan out through here so external
// systems can follow loads without polling.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	skafka "github.com/segmentio/kafka-go"
)

// Writer defines the subset of the segmentio kafka.Writer the producer
// needs, so tests can inject a fake.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Publisher is the interface the effect dispatcher publishes through.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
	Close() error
}

// Producer is a thin wrapper around a kafka writer implementing Publisher.
type Producer struct {
	writer Writer
	logger *slog.Logger
}

// NewProducer creates a Producer writing to the given broker and topic.
func NewProducer(brokerURL, topic string, logger *slog.Logger) *Producer {
	w := &skafka.Writer{
		Addr:     skafka.TCP(brokerURL),
		Topic:    topic,
		Balancer: &skafka.LeastBytes{},
	}
	return NewProducerWithWriter(w, logger)
}

// NewProducerWithWriter allows injecting a test writer.
func NewProducerWithWriter(w Writer, logger *slog.Logger) *Producer {
	return &Producer{
		writer: w,
		logger: logger.With("component", "kafka_producer"),
	}
}

// Publish marshals the value to JSON and writes one message keyed for
// per-entity ordering.
func (p *Producer) Publish(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		p.logger.Error("event marshal failed", "key", key, "error", err)
		return err
	}

	msg := skafka.Message{Key: []byte(key), Value: b}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("event write failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Close closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
