package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shravastee-thakur/stayease/internal/domain"
	"github.com/shravastee-thakur/stayease/internal/domain/catalog"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	HotelID            uuid.UUID `gorm:"type:uuid;not null;index"`
	RoomType           string    `gorm:"type:varchar(100);not null"`
	Description        string    `gorm:"type:text"`
	PricePerNightCents int64     `gorm:"not null"`
	MaxPeople          int       `gorm:"not null"`
	CreatedAt          time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt          time.Time `gorm:"type:timestamptz;not null"`
}

func (RoomModel) TableName() string { return "rooms" }

// GormRoomRepository implements RoomRepository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Create(ctx context.Context, room *catalog.Room) error {
	model := toRoomModel(room)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, fmt.Errorf("failed to find room by ID: %w", err)
	}
	return toRoomDomain(&model), nil
}

func (r *GormRoomRepository) FindByHotelID(ctx context.Context, hotelID uuid.UUID) ([]*catalog.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("price_per_night_cents ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find rooms by hotel: %w", err)
	}
	rooms := make([]*catalog.Room, len(models))
	for i, m := range models {
		rooms[i] = toRoomDomain(&m)
	}
	return rooms, nil
}

func (r *GormRoomRepository) Update(ctx context.Context, room *catalog.Room) error {
	model := toRoomModel(room)
	result := r.db.WithContext(ctx).
		Model(&RoomModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"room_type":             model.RoomType,
			"description":           model.Description,
			"price_per_night_cents": model.PricePerNightCents,
			"max_people":            model.MaxPeople,
			"updated_at":            model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Room", model.ID.String())
	}
	return nil
}

func (r *GormRoomRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&RoomModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Room", id.String())
	}
	return nil
}

// --- Conversions ---

func toRoomModel(room *catalog.Room) *RoomModel {
	return &RoomModel{
		ID:                 room.ID(),
		HotelID:            room.HotelID(),
		RoomType:           room.RoomType(),
		Description:        room.Description(),
		PricePerNightCents: room.PricePerNightCents(),
		MaxPeople:          room.MaxPeople(),
		CreatedAt:          room.CreatedAt(),
		UpdatedAt:          room.UpdatedAt(),
	}
}

func toRoomDomain(m *RoomModel) *catalog.Room {
	return catalog.ReconstructRoom(
		m.ID, m.HotelID,
		m.RoomType, m.Description,
		m.PricePerNightCents, m.MaxPeople,
		m.CreatedAt, m.UpdatedAt,
	)
}
