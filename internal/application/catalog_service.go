package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shravastee-thakur/stayease/internal/cache"
	"github.com/shravastee-thakur/stayease/internal/domain"
	"github.com/shravastee-thakur/stayease/internal/domain/catalog"
)

// CreateHotelRequest is the request DTO for creating a hotel listing.
type CreateHotelRequest struct {
	Name        string  `json:"name" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Address     string  `json:"address" binding:"required"`
	Distance    string  `json:"distance"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Featured    bool    `json:"featured"`
}

// UpdateHotelRequest is the request DTO for updating a hotel listing.
type UpdateHotelRequest struct {
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Address     string  `json:"address"`
	Distance    string  `json:"distance"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Featured    *bool   `json:"featured"`
}

// CreateRoomRequest is the request DTO for adding a room to a hotel.
type CreateRoomRequest struct {
	RoomType           string `json:"room_type" binding:"required"`
	Description        string `json:"description"`
	PricePerNightCents int64  `json:"price_per_night_cents" binding:"required"`
	MaxPeople          int    `json:"max_people" binding:"required"`
}

// UpdateRoomRequest is the request DTO for updating a room.
type UpdateRoomRequest struct {
	RoomType           string `json:"room_type"`
	Description        string `json:"description"`
	PricePerNightCents int64  `json:"price_per_night_cents"`
	MaxPeople          int    `json:"max_people"`
}

// HotelDTO is the API response representation of a hotel listing.
type HotelDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	Distance    string    `json:"distance,omitempty"`
	Description string    `json:"description,omitempty"`
	Rating      float64   `json:"rating"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoomDTO is the API response representation of a room.
type RoomDTO struct {
	ID                 uuid.UUID `json:"id"`
	HotelID            uuid.UUID `json:"hotel_id"`
	RoomType           string    `json:"room_type"`
	Description        string    `json:"description,omitempty"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	MaxPeople          int       `json:"max_people"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CatalogService implements use cases for hotel and room management. Reads
// go through a Redis cache keyed per hotel; writes invalidate the affected
// keys.
type CatalogService struct {
	hotels catalog.HotelRepository
	rooms  catalog.RoomRepository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService. The cache may be nil, in
// which case all reads go to the database.
func NewCatalogService(
	hotels catalog.HotelRepository,
	rooms catalog.RoomRepository,
	c *cache.Cache,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{hotels: hotels, rooms: rooms, cache: c, logger: logger}
}

func hotelCacheKey(id uuid.UUID) string      { return "hotel:" + id.String() }
func hotelRoomsCacheKey(id uuid.UUID) string { return "hotel:" + id.String() + ":rooms" }

// --- Hotels ---

// CreateHotel creates a new hotel listing (admin).
func (s *CatalogService) CreateHotel(ctx context.Context, req CreateHotelRequest) (*HotelDTO, error) {
	hotel, err := catalog.NewHotel(req.Name, req.City, req.Address, req.Distance, req.Description, req.Rating, req.Featured)
	if err != nil {
		return nil, err
	}

	if err := s.hotels.Create(ctx, hotel); err != nil {
		s.logger.Error("failed to create hotel", zap.Error(err))
		return nil, fmt.Errorf("failed to create hotel: %w", err)
	}

	s.logger.Info("hotel created",
		zap.String("hotel_id", hotel.ID().String()),
		zap.String("city", hotel.City()),
	)
	result := toHotelDTO(hotel)
	return &result, nil
}

// GetHotel returns a hotel by ID, served from cache when possible.
func (s *CatalogService) GetHotel(ctx context.Context, hotelID uuid.UUID) (*HotelDTO, error) {
	if s.cache != nil {
		var cached HotelDTO
		err := s.cache.GetJSON(ctx, hotelCacheKey(hotelID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("hotel cache read failed", zap.Error(err))
		}
	}

	hotel, err := s.hotels.FindByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	result := toHotelDTO(hotel)
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, hotelCacheKey(hotelID), result); err != nil {
			s.logger.Warn("hotel cache write failed", zap.Error(err))
		}
	}
	return &result, nil
}

// ListHotels returns hotels matching the filter with pagination.
func (s *CatalogService) ListHotels(ctx context.Context, filter catalog.HotelFilter) (*domain.PaginatedResult[HotelDTO], error) {
	hotels, total, err := s.hotels.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}

	dtos := make([]HotelDTO, len(hotels))
	for i, h := range hotels {
		dtos[i] = toHotelDTO(h)
	}

	result := domain.NewPaginatedResult(dtos, total, filter.Page, filter.Limit)
	return &result, nil
}

// UpdateHotel applies partial updates to a hotel listing (admin).
func (s *CatalogService) UpdateHotel(ctx context.Context, hotelID uuid.UUID, req UpdateHotelRequest) (*HotelDTO, error) {
	hotel, err := s.hotels.FindByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	if err := hotel.Update(req.Name, req.City, req.Address, req.Distance, req.Description, req.Rating, req.Featured); err != nil {
		return nil, err
	}

	if err := s.hotels.Update(ctx, hotel); err != nil {
		s.logger.Error("failed to update hotel", zap.Error(err))
		return nil, fmt.Errorf("failed to update hotel: %w", err)
	}

	s.invalidate(ctx, hotelCacheKey(hotelID))
	s.logger.Info("hotel updated", zap.String("hotel_id", hotelID.String()))
	result := toHotelDTO(hotel)
	return &result, nil
}

// DeleteHotel removes a hotel listing (admin).
func (s *CatalogService) DeleteHotel(ctx context.Context, hotelID uuid.UUID) error {
	if err := s.hotels.DeleteByID(ctx, hotelID); err != nil {
		return err
	}
	s.invalidate(ctx, hotelCacheKey(hotelID), hotelRoomsCacheKey(hotelID))
	s.logger.Info("hotel deleted", zap.String("hotel_id", hotelID.String()))
	return nil
}

// --- Rooms ---

// CreateRoom adds a room to a hotel (admin).
func (s *CatalogService) CreateRoom(ctx context.Context, hotelID uuid.UUID, req CreateRoomRequest) (*RoomDTO, error) {
	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		return nil, err
	}

	room, err := catalog.NewRoom(hotelID, req.RoomType, req.Description, req.PricePerNightCents, req.MaxPeople)
	if err != nil {
		return nil, err
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		s.logger.Error("failed to create room", zap.Error(err))
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx, hotelRoomsCacheKey(hotelID))
	s.logger.Info("room created",
		zap.String("room_id", room.ID().String()),
		zap.String("hotel_id", hotelID.String()),
	)
	result := toRoomDTO(room)
	return &result, nil
}

// GetRoom returns a room by ID.
func (s *CatalogService) GetRoom(ctx context.Context, roomID uuid.UUID) (*RoomDTO, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	result := toRoomDTO(room)
	return &result, nil
}

// GetHotelRooms returns all rooms of a hotel, served from cache when possible.
func (s *CatalogService) GetHotelRooms(ctx context.Context, hotelID uuid.UUID) ([]RoomDTO, error) {
	if s.cache != nil {
		var cached []RoomDTO
		err := s.cache.GetJSON(ctx, hotelRoomsCacheKey(hotelID), &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("rooms cache read failed", zap.Error(err))
		}
	}

	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		return nil, err
	}

	rooms, err := s.rooms.FindByHotelID(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel rooms: %w", err)
	}

	dtos := make([]RoomDTO, len(rooms))
	for i, r := range rooms {
		dtos[i] = toRoomDTO(r)
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, hotelRoomsCacheKey(hotelID), dtos); err != nil {
			s.logger.Warn("rooms cache write failed", zap.Error(err))
		}
	}
	return dtos, nil
}

// UpdateRoom applies partial updates to a room (admin).
func (s *CatalogService) UpdateRoom(ctx context.Context, roomID uuid.UUID, req UpdateRoomRequest) (*RoomDTO, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := room.Update(req.RoomType, req.Description, req.PricePerNightCents, req.MaxPeople); err != nil {
		return nil, err
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		s.logger.Error("failed to update room", zap.Error(err))
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidate(ctx, hotelRoomsCacheKey(room.HotelID()))
	s.logger.Info("room updated", zap.String("room_id", roomID.String()))
	result := toRoomDTO(room)
	return &result, nil
}

// DeleteRoom removes a room (admin).
func (s *CatalogService) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if err := s.rooms.DeleteByID(ctx, roomID); err != nil {
		return err
	}
	s.invalidate(ctx, hotelRoomsCacheKey(room.HotelID()))
	s.logger.Info("room deleted", zap.String("room_id", roomID.String()))
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, keys...)
	}
}

func toHotelDTO(h *catalog.Hotel) HotelDTO {
	return HotelDTO{
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

func toRoomDTO(r *catalog.Room) RoomDTO {
	return RoomDTO{
		ID:                 r.ID(),
		HotelID:            r.HotelID(),
		RoomType:           r.RoomType(),
		Description:        r.Description(),
		PricePerNightCents: r.PricePerNightCents(),
		MaxPeople:          r.MaxPeople(),
		CreatedAt:          r.CreatedAt(),
		UpdatedAt:          r.UpdatedAt(),
	}
}
