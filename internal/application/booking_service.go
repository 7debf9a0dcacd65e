package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/domain"
	bookingDomain "github.com/shravastee-thakur/stayease/internal/domain/booking"
	"github.com/shravastee-thakur/stayease/internal/domain/catalog"
	"github.com/shravastee-thakur/stayease/internal/events"
)

// EventPublisher publishes CloudEvents to Kafka.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, eventType, subject string, data interface{}) error
}

// CreateBookingRequest holds the data needed to create a new booking. The
// total is quoted by the client from the room's nightly price; the server
// validates it is positive but does not reprice the stay.
type CreateBookingRequest struct {
	RoomID           string `json:"room_id" binding:"required"`
	HotelID          string `json:"hotel_id" binding:"required"`
	StartDate        string `json:"start_date" binding:"required"`
	EndDate          string `json:"end_date" binding:"required"`
	TotalAmountCents int64  `json:"total_amount_cents" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	RoomID           uuid.UUID `json:"room_id"`
	HotelID          uuid.UUID `json:"hotel_id"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	Nights           int       `json:"nights"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ConflictWindowDTO describes an existing booking blocking a requested stay.
type ConflictWindowDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

// AvailabilityDTO is the response for a room availability query.
type AvailabilityDTO struct {
	RoomID      uuid.UUID           `json:"room_id"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	IsAvailable bool                `json:"is_available"`
	Conflicts   []ConflictWindowDTO `json:"conflicts"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo     bookingDomain.BookingRepository
	hotels   catalog.HotelRepository
	rooms    catalog.RoomRepository
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	hotels catalog.HotelRepository,
	rooms catalog.RoomRepository,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		hotels:   hotels,
		rooms:    rooms,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking reserves a room for the user over the requested stay.
// Persisting the booking fails with a conflict error when an active booking
// on the same room overlaps the stay.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, domain.NewValidationError("room_id must be a valid UUID")
	}
	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		return nil, domain.NewValidationError("hotel_id must be a valid UUID")
	}

	stay, err := bookingDomain.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		return nil, err
	}
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.HotelID() != hotelID {
		return nil, domain.NewNotFoundError("room", roomID.String())
	}

	bk, err := bookingDomain.NewBooking(userID, room.ID(), hotelID, stay, req.TotalAmountCents)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCreated, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking on behalf of its owner or an admin.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, role auth.Role) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.CanBeMutatedBy(actorID, role) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	cancelled, err := s.repo.UpdateStatus(ctx, bookingID, bookingDomain.ActiveStatuses, bookingDomain.StatusCancelled)
	if err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCancelled, cancelled)
	s.publishNotification(ctx, cancelled, "Booking cancelled",
		fmt.Sprintf("Your booking %s for %s has been cancelled.", cancelled.ID(), cancelled.Stay()))

	result := toBookingDTO(cancelled)
	return &result, nil
}

// ConfirmBookingPayment moves a pending booking to confirmed after its
// payment settles. Called from the payment webhook and the payment event
// consumer; both converge here.
func (s *BookingService) ConfirmBookingPayment(ctx context.Context, bookingID uuid.UUID) error {
	confirmed, err := s.repo.UpdateStatus(ctx, bookingID,
		[]bookingDomain.BookingStatus{bookingDomain.StatusPending}, bookingDomain.StatusConfirmed)
	if err != nil {
		return err
	}

	s.publishBookingEvent(ctx, events.BookingConfirmed, confirmed)
	s.publishNotification(ctx, confirmed, "Booking confirmed",
		fmt.Sprintf("Your booking %s for %s is confirmed.", confirmed.ID(), confirmed.Stay()))

	return nil
}

// CheckAvailability reports whether the room is free over the requested stay
// and returns the blocking bookings when it is not. Only pending and
// confirmed bookings count; a stay ending the day another begins does not
// conflict.
func (s *BookingService) CheckAvailability(ctx context.Context, roomID uuid.UUID, startStr, endStr string) (*AvailabilityDTO, error) {
	stay, err := bookingDomain.ParseDateRange(startStr, endStr)
	if err != nil {
		return nil, err
	}

	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		return nil, err
	}

	overlapping, err := s.repo.FindOverlapping(ctx, roomID, stay, bookingDomain.ActiveStatuses)
	if err != nil {
		return nil, err
	}

	conflicts := make([]ConflictWindowDTO, len(overlapping))
	for i, bk := range overlapping {
		conflicts[i] = ConflictWindowDTO{
			StartDate: bk.Stay().Start().Format(bookingDomain.DateLayout),
			EndDate:   bk.Stay().End().Format(bookingDomain.DateLayout),
			Status:    string(bk.Status()),
		}
	}

	return &AvailabilityDTO{
		RoomID:      roomID,
		StartDate:   stay.Start().Format(bookingDomain.DateLayout),
		EndDate:     stay.End().Format(bookingDomain.DateLayout),
		IsAvailable: len(conflicts) == 0,
		Conflicts:   conflicts,
	}, nil
}

// GetBooking retrieves a single booking, visible to its owner or an admin.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID uuid.UUID, role auth.Role) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.CanBeMutatedBy(actorID, role) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetMyBookings retrieves the user's bookings, newest first.
func (s *BookingService) GetMyBookings(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error) {
	bookings, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// --- Admin methods ---

// ListAllBookings returns a filtered, paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, filter bookingDomain.ListFilter) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, filter.Page, filter.Limit)
	return &result, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// DeleteBooking hard-deletes a booking regardless of status (admin).
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	return s.repo.DeleteByID(ctx, bookingID)
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:               bk.ID(),
		UserID:           bk.UserID(),
		RoomID:           bk.RoomID(),
		HotelID:          bk.HotelID(),
		StartDate:        bk.Stay().Start().Format(bookingDomain.DateLayout),
		EndDate:          bk.Stay().End().Format(bookingDomain.DateLayout),
		Nights:           bk.Stay().Nights(),
		TotalAmountCents: bk.TotalAmountCents(),
		Status:           string(bk.Status()),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}
}

// publishBookingEvent publishes a booking lifecycle event. Publish failures
// are logged and never fail the request that triggered them.
func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	evt := events.BookingEvent{
		BookingID:        bk.ID(),
		UserID:           bk.UserID(),
		RoomID:           bk.RoomID(),
		HotelID:          bk.HotelID(),
		StartDate:        bk.Stay().Start().Format(bookingDomain.DateLayout),
		EndDate:          bk.Stay().End().Format(bookingDomain.DateLayout),
		TotalAmountCents: bk.TotalAmountCents(),
		Status:           string(bk.Status()),
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, eventType, bk.ID().String(), evt); err != nil {
		s.logger.Error("failed to publish booking event",
			zap.String("event_type", eventType),
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) publishNotification(ctx context.Context, bk *bookingDomain.Booking, subject, body string) {
	evt := events.NotificationEvent{
		UserID:    bk.UserID(),
		BookingID: bk.ID(),
		Channel:   "email",
		Subject:   subject,
		Body:      body,
	}
	if err := s.producer.PublishEvent(ctx, events.TopicNotificationEvents, events.NotificationSend, bk.UserID().String(), evt); err != nil {
		s.logger.Error("failed to publish notification event",
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
	}
}
