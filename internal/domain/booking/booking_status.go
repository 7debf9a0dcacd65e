package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// validTransitions defines the state machine for booking status transitions.
// Confirmation is reachable only from pending; cancellation is reachable
// from pending or confirmed; cancelled is terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

// ActiveStatuses are the statuses that count toward room availability
// conflicts. Cancelled bookings free their interval for re-booking.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsActive returns true if the booking occupies its room interval.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
