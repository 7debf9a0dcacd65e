package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shravastee-thakur/stayease/internal/domain"
	bookingDomain "github.com/shravastee-thakur/stayease/internal/domain/booking"
)

// pgExclusionViolation is the SQLSTATE raised by the room_no_overlap
// exclusion constraint.
const pgExclusionViolation = "23P01"

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null"`
	RoomID           uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_room_window,priority:1"`
	HotelID          uuid.UUID `gorm:"type:uuid;index;not null"`
	StartDate        time.Time `gorm:"type:date;not null;index:idx_bookings_room_window,priority:3"`
	EndDate          time.Time `gorm:"type:date;not null"`
	TotalAmountCents int64     `gorm:"not null"`
	Status           string    `gorm:"not null;size:20;index:idx_bookings_room_window,priority:2"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Create persists a new booking inside a transaction that first takes row
// locks on every active booking of the room whose dates overlap the candidate
// stay. Concurrent attempts on the same room serialize on those locks, so at
// most one of two overlapping candidates can commit. The exclusion constraint
// on the table catches anything the lock misses and surfaces as SQLSTATE
// 23P01, which is mapped to the same conflict error.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conflicts []BookingModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ? AND status IN ?", model.RoomID, activeStatusStrings()).
			Where("start_date < ? AND end_date > ?", model.EndDate, model.StartDate).
			Find(&conflicts).Error; err != nil {
			return fmt.Errorf("failed to check overlapping bookings: %w", err)
		}

		if len(conflicts) > 0 {
			return conflictError(conflicts)
		}

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
			return domain.NewConflictError("room is already booked for the requested dates")
		}
		return err
	}
	return nil
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByUserID retrieves a user's bookings, newest first.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find user bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindOverlapping returns bookings for the room whose dates overlap the given
// stay and whose status is in the given set. Back-to-back stays sharing a
// boundary date do not overlap.
func (r *GormBookingRepository) FindOverlapping(ctx context.Context, roomID uuid.UUID, stay bookingDomain.DateRange, statuses []bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("room_id = ? AND status IN ?", roomID, statusStrings).
		Where("start_date < ? AND end_date > ?", stay.End(), stay.Start()).
		Order("start_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	return toDomainBookings(models)
}

// UpdateStatus conditionally moves a booking from one of the allowed source
// statuses to the target status, as a single compare-and-swap UPDATE. When no
// row matched, the booking is re-read to tell a missing booking apart from a
// booking in a disallowed state.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatuses []bookingDomain.BookingStatus, to bookingDomain.BookingStatus) (*bookingDomain.Booking, error) {
	fromStrings := make([]string, len(fromStatuses))
	for i, s := range fromStatuses {
		fromStrings[i] = string(s)
	}

	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND status IN ?", id, fromStrings).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status() == bookingDomain.StatusCancelled && to == bookingDomain.StatusCancelled {
			return nil, domain.NewAlreadyCancelledError("booking is already cancelled")
		}
		return nil, domain.NewInvalidStateError(string(current.Status()), string(to))
	}

	return r.FindByID(ctx, id)
}

// DeleteByID hard-deletes a booking regardless of status.
func (r *GormBookingRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", id.String())
	}
	return nil
}

// List retrieves bookings matching the filter with pagination.
func (r *GormBookingRepository) List(ctx context.Context, filter bookingDomain.ListFilter) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.HotelID != nil {
		query = query.Where("hotel_id = ?", *filter.HotelID)
	}
	if filter.StartFrom != nil {
		query = query.Where("start_date >= ?", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		query = query.Where("start_date <= ?", *filter.StartTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Helpers ---

func activeStatusStrings() []string {
	out := make([]string, len(bookingDomain.ActiveStatuses))
	for i, s := range bookingDomain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

func conflictError(conflicts []BookingModel) error {
	type window struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		Status    string `json:"status"`
	}
	windows := make([]window, len(conflicts))
	for i, c := range conflicts {
		windows[i] = window{
			StartDate: c.StartDate.Format(bookingDomain.DateLayout),
			EndDate:   c.EndDate.Format(bookingDomain.DateLayout),
			Status:    c.Status,
		}
	}
	return domain.NewConflictError("room is already booked for the requested dates").WithDetails(windows)
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:               bk.ID(),
		UserID:           bk.UserID(),
		RoomID:           bk.RoomID(),
		HotelID:          bk.HotelID(),
		StartDate:        bk.Stay().Start(),
		EndDate:          bk.Stay().End(),
		TotalAmountCents: bk.TotalAmountCents(),
		Status:           string(bk.Status()),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	stay, err := bookingDomain.NewDateRange(m.StartDate, m.EndDate)
	if err != nil {
		return nil, fmt.Errorf("stored booking %s has invalid dates: %w", m.ID, err)
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.UserID,
		m.RoomID,
		m.HotelID,
		stay,
		m.TotalAmountCents,
		status,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
