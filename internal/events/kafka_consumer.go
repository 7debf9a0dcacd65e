package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shravastee-thakur/stayease/internal/domain"
)

// BookingConfirmer confirms a booking once its payment settles.
type BookingConfirmer interface {
	ConfirmBookingPayment(ctx context.Context, bookingID uuid.UUID) error
}

// PaymentEventConsumer listens to payment events and confirms bookings whose
// payment succeeded.
type PaymentEventConsumer struct {
	consumer *Consumer
	service  BookingConfirmer
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer subscribed to
// the given payment topic.
func NewPaymentEventConsumer(
	brokers []string,
	groupID, topic string,
	service BookingConfirmer,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := NewConsumer(brokers, groupID, topic, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentSucceeded:
		return c.handlePaymentSucceeded(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentSucceeded(ctx context.Context, cloudEvent CloudEvent) error {
	var evt PaymentEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse payment event data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment succeeded event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	if err := c.service.ConfirmBookingPayment(ctx, evt.BookingID); err != nil {
		// Duplicate delivery, a payment for a cancelled booking, or an
		// unknown booking can never succeed on redelivery. Commit those and
		// only leave the offset uncommitted for retryable failures.
		switch domain.KindOf(err) {
		case domain.KindInvalidState, domain.KindAlreadyCancelled, domain.KindNotFound:
			c.logger.Warn("dropping unconfirmable payment event",
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to confirm booking after payment",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("booking confirmed after payment",
		zap.String("booking_id", evt.BookingID.String()),
	)
	return nil
}
