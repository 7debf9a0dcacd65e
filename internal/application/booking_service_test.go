package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/domain"
	bookingDomain "github.com/shravastee-thakur/stayease/internal/domain/booking"
	"github.com/shravastee-thakur/stayease/internal/domain/catalog"
	"github.com/shravastee-thakur/stayease/internal/events"
)

// fakeBookingRepo is an in-memory BookingRepository with the same
// check-then-insert atomicity the real repository provides, guarded by a
// mutex instead of row locks.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

// snapshot returns a detached copy, the way the real repository rehydrates an
// aggregate from a row. Callers mutating the result must not reach the store.
func snapshot(bk *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		bk.ID(), bk.UserID(), bk.RoomID(), bk.HotelID(),
		bk.Stay(), bk.TotalAmountCents(), bk.Status(),
		bk.CreatedAt(), bk.UpdatedAt(),
	)
}

func (r *fakeBookingRepo) Create(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.RoomID() == bk.RoomID() &&
			existing.Status().IsActive() &&
			existing.Stay().Overlaps(bk.Stay()) {
			return domain.NewConflictError("room is already booked for the requested dates")
		}
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return snapshot(bk), nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.UserID() == userID {
			out = append(out, snapshot(bk))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, roomID uuid.UUID, stay bookingDomain.DateRange, statuses []bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.RoomID() != roomID || !bk.Stay().Overlaps(stay) {
			continue
		}
		for _, s := range statuses {
			if bk.Status() == s {
				out = append(out, snapshot(bk))
				break
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, fromStatuses []bookingDomain.BookingStatus, to bookingDomain.BookingStatus) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	allowed := false
	for _, s := range fromStatuses {
		if bk.Status() == s {
			allowed = true
			break
		}
	}
	if !allowed {
		if bk.Status() == bookingDomain.StatusCancelled && to == bookingDomain.StatusCancelled {
			return nil, domain.NewAlreadyCancelledError("booking is already cancelled")
		}
		return nil, domain.NewInvalidStateError(string(bk.Status()), string(to))
	}

	updated := bookingDomain.Reconstruct(
		bk.ID(), bk.UserID(), bk.RoomID(), bk.HotelID(),
		bk.Stay(), bk.TotalAmountCents(), to,
		bk.CreatedAt(), time.Now().UTC(),
	)
	r.bookings[id] = updated
	return snapshot(updated), nil
}

func (r *fakeBookingRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domain.NewNotFoundError("Booking", id.String())
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) List(_ context.Context, filter bookingDomain.ListFilter) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if filter.Status != nil && bk.Status() != *filter.Status {
			continue
		}
		if filter.UserID != nil && bk.UserID() != *filter.UserID {
			continue
		}
		if filter.HotelID != nil && bk.HotelID() != *filter.HotelID {
			continue
		}
		out = append(out, snapshot(bk))
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

// fakeHotelRepo serves a fixed set of hotels.
type fakeHotelRepo struct {
	hotels map[uuid.UUID]*catalog.Hotel
}

func newFakeHotelRepo(hotels ...*catalog.Hotel) *fakeHotelRepo {
	m := make(map[uuid.UUID]*catalog.Hotel, len(hotels))
	for _, h := range hotels {
		m[h.ID()] = h
	}
	return &fakeHotelRepo{hotels: m}
}

func (r *fakeHotelRepo) Create(_ context.Context, hotel *catalog.Hotel) error {
	r.hotels[hotel.ID()] = hotel
	return nil
}

func (r *fakeHotelRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Hotel, error) {
	hotel, ok := r.hotels[id]
	if !ok {
		return nil, domain.NewNotFoundError("Hotel", id.String())
	}
	return hotel, nil
}

func (r *fakeHotelRepo) List(_ context.Context, _ catalog.HotelFilter) ([]*catalog.Hotel, int64, error) {
	var out []*catalog.Hotel
	for _, h := range r.hotels {
		out = append(out, h)
	}
	return out, int64(len(out)), nil
}

func (r *fakeHotelRepo) Update(_ context.Context, hotel *catalog.Hotel) error {
	r.hotels[hotel.ID()] = hotel
	return nil
}

func (r *fakeHotelRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	delete(r.hotels, id)
	return nil
}

// fakeRoomRepo serves a fixed set of rooms.
type fakeRoomRepo struct {
	rooms map[uuid.UUID]*catalog.Room
}

func newFakeRoomRepo(rooms ...*catalog.Room) *fakeRoomRepo {
	m := make(map[uuid.UUID]*catalog.Room, len(rooms))
	for _, room := range rooms {
		m[room.ID()] = room
	}
	return &fakeRoomRepo{rooms: m}
}

func (r *fakeRoomRepo) Create(_ context.Context, room *catalog.Room) error {
	r.rooms[room.ID()] = room
	return nil
}

func (r *fakeRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, domain.NewNotFoundError("Room", id.String())
	}
	return room, nil
}

func (r *fakeRoomRepo) FindByHotelID(_ context.Context, hotelID uuid.UUID) ([]*catalog.Room, error) {
	var out []*catalog.Room
	for _, room := range r.rooms {
		if room.HotelID() == hotelID {
			out = append(out, room)
		}
	}
	return out, nil
}

func (r *fakeRoomRepo) Update(_ context.Context, room *catalog.Room) error {
	r.rooms[room.ID()] = room
	return nil
}

func (r *fakeRoomRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	delete(r.rooms, id)
	return nil
}

// capturingPublisher records published events; it can be told to fail.
type capturingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	fail   bool
}

type publishedEvent struct {
	Topic     string
	EventType string
	Subject   string
}

func (p *capturingPublisher) PublishEvent(_ context.Context, topic, eventType, subject string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, publishedEvent{Topic: topic, EventType: eventType, Subject: subject})
	return nil
}

func (p *capturingPublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestService(t *testing.T) (*BookingService, *fakeBookingRepo, *capturingPublisher, *catalog.Room) {
	t.Helper()
	now := time.Now().UTC()
	hotel := catalog.ReconstructHotel(uuid.New(), "Grand Plaza", "Pune", "12 MG Road",
		"500m from center", "city hotel", 4.2, true, now, now)
	room, err := catalog.NewRoom(hotel.ID(), "double", "garden view", 12000, 2)
	require.NoError(t, err)

	repo := newFakeBookingRepo()
	publisher := &capturingPublisher{}
	svc := NewBookingService(repo, newFakeHotelRepo(hotel), newFakeRoomRepo(room), publisher, zap.NewNop())
	return svc, repo, publisher, room
}

// bookingReq builds a create request quoted from the room's nightly price.
func bookingReq(t *testing.T, room *catalog.Room, start, end string) CreateBookingRequest {
	t.Helper()
	stay, err := bookingDomain.ParseDateRange(start, end)
	require.NoError(t, err)
	return CreateBookingRequest{
		RoomID:           room.ID().String(),
		HotelID:          room.HotelID().String(),
		StartDate:        start,
		EndDate:          end,
		TotalAmountCents: room.TotalAmountCents(stay.Nights()),
	}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending booking", func(t *testing.T) {
		svc, _, publisher, room := newTestService(t)

		dto, err := svc.CreateBooking(ctx, uuid.New(), bookingReq(t, room, "2026-10-01", "2026-10-05"))
		require.NoError(t, err)
		assert.Equal(t, "pending", dto.Status)
		assert.Equal(t, 4, dto.Nights)
		assert.Equal(t, int64(48000), dto.TotalAmountCents)
		assert.Equal(t, room.HotelID(), dto.HotelID)
		assert.Len(t, publisher.byType(events.BookingCreated), 1)
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		svc, _, _, room := newTestService(t)

		req := bookingReq(t, room, "2026-10-01", "2026-10-05")
		req.RoomID = uuid.New().String()
		_, err := svc.CreateBooking(ctx, uuid.New(), req)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("unknown hotel is not found", func(t *testing.T) {
		svc, _, _, room := newTestService(t)

		req := bookingReq(t, room, "2026-10-01", "2026-10-05")
		req.HotelID = uuid.New().String()
		_, err := svc.CreateBooking(ctx, uuid.New(), req)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("inverted dates rejected", func(t *testing.T) {
		svc, _, _, room := newTestService(t)

		_, err := svc.CreateBooking(ctx, uuid.New(), CreateBookingRequest{
			RoomID:           room.ID().String(),
			HotelID:          room.HotelID().String(),
			StartDate:        "2026-10-05",
			EndDate:          "2026-10-01",
			TotalAmountCents: 48000,
		})
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidRange, domain.KindOf(err))
	})

	t.Run("non-positive total rejected", func(t *testing.T) {
		svc, _, _, room := newTestService(t)

		req := bookingReq(t, room, "2026-10-01", "2026-10-05")
		req.TotalAmountCents = -100
		_, err := svc.CreateBooking(ctx, uuid.New(), req)
		require.Error(t, err)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("overlapping active booking conflicts", func(t *testing.T) {
		svc, _, _, room := newTestService(t)

		_, err := svc.CreateBooking(ctx, uuid.New(), bookingReq(t, room, "2026-10-01", "2026-10-05"))
		require.NoError(t, err)

		_, err = svc.CreateBooking(ctx, uuid.New(), bookingReq(t, room, "2026-10-03", "2026-10-07"))
		assert.True(t, domain.IsConflict(err))
	})

	t.Run("back-to-back stays do not conflict", func(t *testing.T) {
		svc, _, _, room := newTestService(t)

		_, err := svc.CreateBooking(ctx, uuid.New(), bookingReq(t, room, "2026-10-01", "2026-10-05"))
		require.NoError(t, err)

		_, err = svc.CreateBooking(ctx, uuid.New(), bookingReq(t, room, "2026-10-05", "2026-10-08"))
		assert.NoError(t, err)
	})

	t.Run("cancelled booking frees its dates", func(t *testing.T) {
		svc, _, _, room := newTestService(t)
		userID := uuid.New()

		first, err := svc.CreateBooking(ctx, userID, bookingReq(t, room, "2026-10-01", "2026-10-05"))
		require.NoError(t, err)
		_, err = svc.CancelBooking(ctx, first.ID, userID, auth.RoleUser)
		require.NoError(t, err)

		_, err = svc.CreateBooking(ctx, uuid.New(), bookingReq(t, room, "2026-10-01", "2026-10-05"))
		assert.NoError(t, err)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		svc, _, publisher, room := newTestService(t)
		publisher.fail = true

		dto, err := svc.CreateBooking(ctx, uuid.New(), bookingReq(t, room, "2026-10-01", "2026-10-05"))
		require.NoError(t, err)
		assert.Equal(t, "pending", dto.Status)
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc *BookingService, room *catalog.Room, userID uuid.UUID) *BookingDTO {
		t.Helper()
		dto, err := svc.CreateBooking(ctx, userID, bookingReq(t, room, "2026-10-01", "2026-10-05"))
		require.NoError(t, err)
		return dto
	}

	t.Run("owner cancels own booking", func(t *testing.T) {
		svc, _, publisher, room := newTestService(t)
		userID := uuid.New()
		dto := seed(t, svc, room, userID)

		cancelled, err := svc.CancelBooking(ctx, dto.ID, userID, auth.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)
		assert.Len(t, publisher.byType(events.BookingCancelled), 1)
	})

	t.Run("cancelling a previously read booking sees its stored status", func(t *testing.T) {
		svc, repo, _, room := newTestService(t)
		userID := uuid.New()
		dto := seed(t, svc, room, userID)

		// Reads hand back detached aggregates; cancelling the copy must not
		// flip the stored status ahead of the conditional update.
		read, err := repo.FindByID(ctx, dto.ID)
		require.NoError(t, err)
		require.NoError(t, read.Cancel())

		cancelled, err := svc.CancelBooking(ctx, dto.ID, userID, auth.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)
	})

	t.Run("admin cancels any booking", func(t *testing.T) {
		svc, _, _, room := newTestService(t)
		dto := seed(t, svc, room, uuid.New())

		cancelled, err := svc.CancelBooking(ctx, dto.ID, uuid.New(), auth.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		svc, _, _, room := newTestService(t)
		dto := seed(t, svc, room, uuid.New())

		_, err := svc.CancelBooking(ctx, dto.ID, uuid.New(), auth.RoleUser)
		assert.True(t, domain.IsForbidden(err))
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		svc, _, _, room := newTestService(t)
		userID := uuid.New()
		dto := seed(t, svc, room, userID)

		_, err := svc.CancelBooking(ctx, dto.ID, userID, auth.RoleUser)
		require.NoError(t, err)
		_, err = svc.CancelBooking(ctx, dto.ID, userID, auth.RoleUser)
		require.Error(t, err)
		assert.Equal(t, domain.KindAlreadyCancelled, domain.KindOf(err))
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		_, err := svc.CancelBooking(ctx, uuid.New(), uuid.New(), auth.RoleAdmin)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestConfirmBookingPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("pending booking confirms and notifies", func(t *testing.T) {
		svc, _, publisher, room := newTestService(t)
		dto, err := svc.CreateBooking(ctx, uuid.New(), bookingReq(t, room, "2026-10-01", "2026-10-05"))
		require.NoError(t, err)

		require.NoError(t, svc.ConfirmBookingPayment(ctx, dto.ID))
		assert.Len(t, publisher.byType(events.BookingConfirmed), 1)
		assert.Len(t, publisher.byType(events.NotificationSend), 1)
	})

	t.Run("cancelled booking cannot be confirmed", func(t *testing.T) {
		svc, _, _, room := newTestService(t)
		userID := uuid.New()
		dto, err := svc.CreateBooking(ctx, userID, bookingReq(t, room, "2026-10-01", "2026-10-05"))
		require.NoError(t, err)
		_, err = svc.CancelBooking(ctx, dto.ID, userID, auth.RoleUser)
		require.NoError(t, err)

		err = svc.ConfirmBookingPayment(ctx, dto.ID)
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		err := svc.ConfirmBookingPayment(ctx, uuid.New())
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("free room is available", func(t *testing.T) {
		svc, _, _, room := newTestService(t)

		avail, err := svc.CheckAvailability(ctx, room.ID(), "2026-10-01", "2026-10-05")
		require.NoError(t, err)
		assert.True(t, avail.IsAvailable)
		assert.Empty(t, avail.Conflicts)
	})

	t.Run("active booking reported as conflict", func(t *testing.T) {
		svc, _, _, room := newTestService(t)
		_, err := svc.CreateBooking(ctx, uuid.New(), bookingReq(t, room, "2026-10-01", "2026-10-05"))
		require.NoError(t, err)

		avail, err := svc.CheckAvailability(ctx, room.ID(), "2026-10-03", "2026-10-07")
		require.NoError(t, err)
		assert.False(t, avail.IsAvailable)
		require.Len(t, avail.Conflicts, 1)
		assert.Equal(t, "2026-10-01", avail.Conflicts[0].StartDate)
		assert.Equal(t, "2026-10-05", avail.Conflicts[0].EndDate)
		assert.Equal(t, "pending", avail.Conflicts[0].Status)
	})

	t.Run("cancelled booking does not block", func(t *testing.T) {
		svc, _, _, room := newTestService(t)
		userID := uuid.New()
		dto, err := svc.CreateBooking(ctx, userID, bookingReq(t, room, "2026-10-01", "2026-10-05"))
		require.NoError(t, err)
		_, err = svc.CancelBooking(ctx, dto.ID, userID, auth.RoleUser)
		require.NoError(t, err)

		avail, err := svc.CheckAvailability(ctx, room.ID(), "2026-10-01", "2026-10-05")
		require.NoError(t, err)
		assert.True(t, avail.IsAvailable)
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		_, err := svc.CheckAvailability(ctx, uuid.New(), "2026-10-01", "2026-10-05")
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestGetBooking_Authorization(t *testing.T) {
	ctx := context.Background()
	svc, _, _, room := newTestService(t)
	userID := uuid.New()

	dto, err := svc.CreateBooking(ctx, userID, bookingReq(t, room, "2026-10-01", "2026-10-05"))
	require.NoError(t, err)

	_, err = svc.GetBooking(ctx, dto.ID, userID, auth.RoleUser)
	assert.NoError(t, err)

	_, err = svc.GetBooking(ctx, dto.ID, uuid.New(), auth.RoleAdmin)
	assert.NoError(t, err)

	_, err = svc.GetBooking(ctx, dto.ID, uuid.New(), auth.RoleUser)
	assert.True(t, domain.IsForbidden(err))
}

func TestGetBookingStats(t *testing.T) {
	ctx := context.Background()
	svc, _, _, room := newTestService(t)
	userID := uuid.New()

	first, err := svc.CreateBooking(ctx, userID, bookingReq(t, room, "2026-10-01", "2026-10-05"))
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, uuid.New(), bookingReq(t, room, "2026-11-01", "2026-11-05"))
	require.NoError(t, err)
	_, err = svc.CancelBooking(ctx, first.ID, userID, auth.RoleUser)
	require.NoError(t, err)

	stats, err := svc.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus["pending"])
	assert.Equal(t, int64(1), stats.ByStatus["cancelled"])
}
