package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shravastee-thakur/stayease/internal/domain"
)

type fakeConfirmer struct {
	err   error
	calls []uuid.UUID
}

func (f *fakeConfirmer) ConfirmBookingPayment(_ context.Context, bookingID uuid.UUID) error {
	f.calls = append(f.calls, bookingID)
	return f.err
}

func paymentMessage(t *testing.T, eventType string, bookingID uuid.UUID) kafkago.Message {
	t.Helper()
	event, err := NewCloudEvent(eventType, "stayease/payment-service", bookingID.String(), PaymentEvent{
		PaymentID: uuid.New(),
		BookingID: bookingID,
		UserID:    uuid.New(),
		Amount:    48000,
	})
	require.NoError(t, err)
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	return kafkago.Message{Key: []byte(bookingID.String()), Value: raw}
}

func TestPaymentEventConsumer_HandleMessage(t *testing.T) {
	ctx := context.Background()

	newConsumer := func(confirmErr error) (*PaymentEventConsumer, *fakeConfirmer) {
		confirmer := &fakeConfirmer{err: confirmErr}
		return &PaymentEventConsumer{service: confirmer, logger: zap.NewNop()}, confirmer
	}

	t.Run("payment succeeded confirms the booking", func(t *testing.T) {
		c, confirmer := newConsumer(nil)
		bookingID := uuid.New()

		err := c.handleMessage(ctx, paymentMessage(t, PaymentSucceeded, bookingID))
		require.NoError(t, err)
		require.Len(t, confirmer.calls, 1)
		assert.Equal(t, bookingID, confirmer.calls[0])
	})

	t.Run("unhandled event type is committed without confirming", func(t *testing.T) {
		c, confirmer := newConsumer(nil)

		err := c.handleMessage(ctx, paymentMessage(t, PaymentFailed, uuid.New()))
		require.NoError(t, err)
		assert.Empty(t, confirmer.calls)
	})

	t.Run("malformed message is committed", func(t *testing.T) {
		c, confirmer := newConsumer(nil)

		err := c.handleMessage(ctx, kafkago.Message{Value: []byte("not json")})
		require.NoError(t, err)
		assert.Empty(t, confirmer.calls)
	})

	// A confirmation that can never succeed on redelivery must not leave the
	// offset uncommitted, or the event poisons the partition after a restart.
	t.Run("unconfirmable outcomes are dropped", func(t *testing.T) {
		for name, confirmErr := range map[string]error{
			"invalid state":     domain.NewInvalidStateError("cancelled", "confirmed"),
			"already cancelled": domain.NewAlreadyCancelledError("booking is already cancelled"),
			"not found":         domain.NewNotFoundError("Booking", uuid.New().String()),
		} {
			t.Run(name, func(t *testing.T) {
				c, _ := newConsumer(confirmErr)
				err := c.handleMessage(ctx, paymentMessage(t, PaymentSucceeded, uuid.New()))
				assert.NoError(t, err)
			})
		}
	})

	t.Run("storage failure is retried", func(t *testing.T) {
		c, _ := newConsumer(domain.NewStorageError("db down", assert.AnError))

		err := c.handleMessage(ctx, paymentMessage(t, PaymentSucceeded, uuid.New()))
		assert.Error(t, err)
	})
}
