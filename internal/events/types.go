package events

import (
	"github.com/google/uuid"
)

// Kafka topics.
const (
	TopicBookingEvents      = "booking.events"
	TopicPaymentEvents      = "payment.events"
	TopicNotificationEvents = "notification.events"
)

// Event types carried in the CloudEvent envelope.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	PaymentSucceeded = "payment.succeeded"
	PaymentFailed    = "payment.failed"
	NotificationSend = "notification.send"
)

// EventSource identifies this service as the event producer.
const EventSource = "stayease/booking-service"

// BookingEvent is the payload for booking lifecycle events.
type BookingEvent struct {
	BookingID        uuid.UUID `json:"bookingId"`
	UserID           uuid.UUID `json:"userId"`
	RoomID           uuid.UUID `json:"roomId"`
	HotelID          uuid.UUID `json:"hotelId"`
	StartDate        string    `json:"startDate"`
	EndDate          string    `json:"endDate"`
	TotalAmountCents int64     `json:"totalAmountCents"`
	Status           string    `json:"status"`
}

// PaymentEvent is the payload for payment outcome events consumed from the
// payment provider gateway.
type PaymentEvent struct {
	PaymentID uuid.UUID `json:"paymentId"`
	BookingID uuid.UUID `json:"bookingId"`
	UserID    uuid.UUID `json:"userId"`
	Amount    int64     `json:"amountCents"`
	Reason    string    `json:"reason,omitempty"`
}

// NotificationEvent is the payload for user-facing notifications.
type NotificationEvent struct {
	UserID    uuid.UUID `json:"userId"`
	BookingID uuid.UUID `json:"bookingId"`
	Channel   string    `json:"channel"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}
