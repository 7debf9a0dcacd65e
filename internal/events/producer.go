package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes CloudEvents to Kafka, keyed by subject so that events
// for the same booking land on the same partition in order.
type Producer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewProducer creates a Kafka producer for the given brokers.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
	}
	return &Producer{writer: writer, logger: logger}
}

// PublishEvent wraps the payload in a CloudEvent and writes it to the topic.
func (p *Producer) PublishEvent(ctx context.Context, topic, eventType, subject string, data interface{}) error {
	event, err := NewCloudEvent(eventType, EventSource, subject, data)
	if err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}

	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(subject),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", eventType, topic, err)
	}

	p.logger.Debug("event published",
		zap.String("topic", topic),
		zap.String("type", eventType),
		zap.String("subject", subject),
	)
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
