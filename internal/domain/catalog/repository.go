package catalog

import (
	"context"

	"github.com/google/uuid"
)

// HotelFilter narrows hotel listings.
type HotelFilter struct {
	City     *string
	Featured *bool
	Page     int
	Limit    int
}

// HotelRepository persists hotel listings.
type HotelRepository interface {
	Create(ctx context.Context, hotel *Hotel) error
	FindByID(ctx context.Context, id uuid.UUID) (*Hotel, error)
	List(ctx context.Context, filter HotelFilter) ([]*Hotel, int64, error)
	Update(ctx context.Context, hotel *Hotel) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// RoomRepository persists rooms.
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	FindByHotelID(ctx context.Context, hotelID uuid.UUID) ([]*Room, error)
	Update(ctx context.Context, room *Room) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
