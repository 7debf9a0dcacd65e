package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows admin booking listings. Zero-value fields are ignored.
// The date window matches bookings whose check-in falls inside it; it has
// no overlap semantics.
type ListFilter struct {
	Status    *BookingStatus
	UserID    *uuid.UUID
	HotelID   *uuid.UUID
	StartFrom *time.Time
	StartTo   *time.Time
	Page      int
	Limit     int
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// Create persists a new booking after verifying no active booking on the
	// same room overlaps the stay. The check and the insert are atomic: under
	// concurrent creation attempts at most one overlapping booking can ever
	// be persisted. A conflict is reported with the overlapping bookings
	// attached.
	Create(ctx context.Context, booking *Booking) error

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByUserID retrieves a user's bookings, newest first.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Booking, error)

	// FindOverlapping returns bookings for the room whose stored interval
	// overlaps the given stay and whose status is in the given set.
	FindOverlapping(ctx context.Context, roomID uuid.UUID, stay DateRange, statuses []BookingStatus) ([]*Booking, error)

	// UpdateStatus conditionally moves a booking from one of the allowed
	// source statuses to the target status. The update is a compare-and-swap:
	// if the stored status is not in fromStatuses, no row changes and an
	// error describing the actual state is returned.
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatuses []BookingStatus, to BookingStatus) (*Booking, error)

	// DeleteByID hard-deletes a booking regardless of status (admin only).
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// List retrieves bookings matching the filter with pagination (admin).
	List(ctx context.Context, filter ListFilter) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
