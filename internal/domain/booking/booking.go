package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/domain"
)

// Booking is the aggregate root for a room reservation.
// userID, roomID, hotelID and the stay interval are immutable after
// creation; only the status changes over the booking's lifetime.
type Booking struct {
	id               uuid.UUID
	userID           uuid.UUID
	roomID           uuid.UUID
	hotelID          uuid.UUID
	stay             DateRange
	totalAmountCents int64
	status           BookingStatus
	createdAt        time.Time
	updatedAt        time.Time
}

// NewBooking creates a new Booking with status=pending. The total amount is
// computed by the caller (room price x nights) and only validated positive
// here. Overlap with existing bookings is the repository's concern.
func NewBooking(userID, roomID, hotelID uuid.UUID, stay DateRange, totalAmountCents int64) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if roomID == uuid.Nil {
		return nil, domain.NewValidationError("room ID is required")
	}
	if hotelID == uuid.Nil {
		return nil, domain.NewValidationError("hotel ID is required")
	}
	if totalAmountCents <= 0 {
		return nil, domain.NewValidationError("total amount must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		id:               uuid.New(),
		userID:           userID,
		roomID:           roomID,
		hotelID:          hotelID,
		stay:             stay,
		totalAmountCents: totalAmountCents,
		status:           StatusPending,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, userID, roomID, hotelID uuid.UUID,
	stay DateRange,
	totalAmountCents int64,
	status BookingStatus,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:               id,
		userID:           userID,
		roomID:           roomID,
		hotelID:          hotelID,
		stay:             stay,
		totalAmountCents: totalAmountCents,
		status:           status,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// UserID returns the booking owner's user ID.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// RoomID returns the reserved room's ID.
func (b *Booking) RoomID() uuid.UUID { return b.roomID }

// HotelID returns the owning hotel's ID.
func (b *Booking) HotelID() uuid.UUID { return b.hotelID }

// Stay returns the half-open stay interval.
func (b *Booking) Stay() DateRange { return b.stay }

// TotalAmountCents returns the booking total in cents.
func (b *Booking) TotalAmountCents() int64 { return b.totalAmountCents }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Authorization ---

// CanBeMutatedBy reports whether the principal may cancel or otherwise
// mutate this booking: the owner or an admin, nobody else.
func (b *Booking) CanBeMutatedBy(userID uuid.UUID, role auth.Role) bool {
	switch role {
	case auth.RoleAdmin:
		return true
	case auth.RoleUser:
		return b.userID == userID
	default:
		return false
	}
}

// --- Behavior ---

// Cancel transitions the booking to cancelled. Cancelling an already
// cancelled booking is rejected; every active status can be cancelled.
func (b *Booking) Cancel() error {
	if b.status == StatusCancelled {
		return domain.NewAlreadyCancelledError("booking is already cancelled")
	}
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// ConfirmPayment transitions the booking from pending to confirmed.
// Confirming a cancelled (or already confirmed) booking is rejected so a
// stale payment callback cannot resurrect a cancelled stay.
func (b *Booking) ConfirmPayment() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}
