package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/domain"
	bookingDomain "github.com/shravastee-thakur/stayease/internal/domain/booking"
	"github.com/shravastee-thakur/stayease/internal/payment"
)

// CheckoutDTO is the response for a payment initiation.
type CheckoutDTO struct {
	BookingID   uuid.UUID `json:"booking_id"`
	SessionID   string    `json:"session_id"`
	CheckoutURL string    `json:"checkout_url"`
	ExpiresAt   string    `json:"expires_at,omitempty"`
}

// PaymentService opens checkout sessions for pending bookings.
type PaymentService struct {
	bookings bookingDomain.BookingRepository
	provider payment.Provider
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	bookings bookingDomain.BookingRepository,
	provider payment.Provider,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{bookings: bookings, provider: provider, logger: logger}
}

// InitiatePayment opens a checkout session for a pending booking. Only the
// booking owner or an admin may pay for it.
func (s *PaymentService) InitiatePayment(ctx context.Context, bookingID, actorID uuid.UUID, role auth.Role) (*CheckoutDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.CanBeMutatedBy(actorID, role) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	if bk.Status() != bookingDomain.StatusPending {
		return nil, domain.NewInvalidStateError(string(bk.Status()), string(bookingDomain.StatusConfirmed))
	}

	session, err := s.provider.CreateCheckoutSession(ctx, bk.ID(), bk.UserID(), bk.TotalAmountCents())
	if err != nil {
		s.logger.Error("failed to open checkout session",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
		return nil, domain.NewStorageError("payment gateway unavailable", err)
	}

	s.logger.Info("checkout session opened",
		zap.String("booking_id", bookingID.String()),
		zap.String("session_id", session.SessionID),
	)

	return &CheckoutDTO{
		BookingID:   bk.ID(),
		SessionID:   session.SessionID,
		CheckoutURL: session.CheckoutURL,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}
