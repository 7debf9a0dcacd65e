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

// HotelModel is the GORM model for the hotels table.
type HotelModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(200);not null"`
	City        string    `gorm:"type:varchar(100);not null;index"`
	Address     string    `gorm:"type:varchar(300);not null"`
	Distance    string    `gorm:"type:varchar(100)"`
	Description string    `gorm:"type:text"`
	Rating      float64   `gorm:"type:decimal(2,1);not null;default:0"`
	Featured    bool      `gorm:"not null;default:false;index"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;not null"`
}

func (HotelModel) TableName() string { return "hotels" }

// GormHotelRepository implements HotelRepository using GORM.
type GormHotelRepository struct {
	db *gorm.DB
}

func NewGormHotelRepository(db *gorm.DB) *GormHotelRepository {
	return &GormHotelRepository{db: db}
}

func (r *GormHotelRepository) Create(ctx context.Context, hotel *catalog.Hotel) error {
	model := toHotelModel(hotel)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save hotel: %w", err)
	}
	return nil
}

func (r *GormHotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Hotel, error) {
	var model HotelModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Hotel", id.String())
		}
		return nil, fmt.Errorf("failed to find hotel by ID: %w", err)
	}
	return toHotelDomain(&model), nil
}

func (r *GormHotelRepository) List(ctx context.Context, filter catalog.HotelFilter) ([]*catalog.Hotel, int64, error) {
	query := r.db.WithContext(ctx).Model(&HotelModel{})
	if filter.City != nil {
		query = query.Where("city ILIKE ?", *filter.City)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count hotels: %w", err)
	}

	var models []HotelModel
	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Order("rating DESC, created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list hotels: %w", err)
	}

	hotels := make([]*catalog.Hotel, len(models))
	for i, m := range models {
		hotels[i] = toHotelDomain(&m)
	}
	return hotels, total, nil
}

func (r *GormHotelRepository) Update(ctx context.Context, hotel *catalog.Hotel) error {
	model := toHotelModel(hotel)
	result := r.db.WithContext(ctx).
		Model(&HotelModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"city":        model.City,
			"address":     model.Address,
			"distance":    model.Distance,
			"description": model.Description,
			"rating":      model.Rating,
			"featured":    model.Featured,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update hotel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Hotel", model.ID.String())
	}
	return nil
}

func (r *GormHotelRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&HotelModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete hotel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Hotel", id.String())
	}
	return nil
}

// --- Conversions ---

func toHotelModel(h *catalog.Hotel) *HotelModel {
	return &HotelModel{
		ID:          h.ID(),
		Name:        h.Name(),
		City:        h.City(),
		Address:     h.Address(),
		Distance:    h.Distance(),
		Description: h.Description(),
		Rating:      h.Rating(),
		Featured:    h.Featured(),
		CreatedAt:   h.CreatedAt(),
		UpdatedAt:   h.UpdatedAt(),
	}
}

func toHotelDomain(m *HotelModel) *catalog.Hotel {
	return catalog.ReconstructHotel(
		m.ID,
		m.Name, m.City, m.Address, m.Distance, m.Description,
		m.Rating, m.Featured,
		m.CreatedAt, m.UpdatedAt,
	)
}
