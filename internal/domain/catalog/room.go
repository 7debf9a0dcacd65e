package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/shravastee-thakur/stayease/internal/domain"
)

// Room is a bookable room type belonging to a hotel.
type Room struct {
	id                 uuid.UUID
	hotelID            uuid.UUID
	roomType           string
	description        string
	pricePerNightCents int64
	maxPeople          int
	createdAt          time.Time
	updatedAt          time.Time
}

// NewRoom creates a new room with validated fields.
func NewRoom(hotelID uuid.UUID, roomType, description string, pricePerNightCents int64, maxPeople int) (*Room, error) {
	if hotelID == uuid.Nil {
		return nil, domain.NewValidationError("hotel id is required")
	}
	if roomType == "" {
		return nil, domain.NewValidationError("room type is required")
	}
	if pricePerNightCents <= 0 {
		return nil, domain.NewValidationError("price per night must be positive")
	}
	if maxPeople <= 0 {
		return nil, domain.NewValidationError("max people must be positive")
	}

	now := time.Now().UTC()
	return &Room{
		id:                 uuid.New(),
		hotelID:            hotelID,
		roomType:           roomType,
		description:        description,
		pricePerNightCents: pricePerNightCents,
		maxPeople:          maxPeople,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// ReconstructRoom rebuilds a Room from persistence data (no validation).
func ReconstructRoom(
	id, hotelID uuid.UUID,
	roomType, description string,
	pricePerNightCents int64,
	maxPeople int,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:                 id,
		hotelID:            hotelID,
		roomType:           roomType,
		description:        description,
		pricePerNightCents: pricePerNightCents,
		maxPeople:          maxPeople,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// --- Getters ---

func (r *Room) ID() uuid.UUID              { return r.id }
func (r *Room) HotelID() uuid.UUID         { return r.hotelID }
func (r *Room) RoomType() string           { return r.roomType }
func (r *Room) Description() string        { return r.description }
func (r *Room) PricePerNightCents() int64  { return r.pricePerNightCents }
func (r *Room) MaxPeople() int             { return r.maxPeople }
func (r *Room) CreatedAt() time.Time       { return r.createdAt }
func (r *Room) UpdatedAt() time.Time       { return r.updatedAt }

// Update applies partial updates to the room.
func (r *Room) Update(roomType, description string, pricePerNightCents int64, maxPeople int) error {
	if pricePerNightCents < 0 {
		return domain.NewValidationError("price per night must be positive")
	}
	if maxPeople < 0 {
		return domain.NewValidationError("max people must be positive")
	}
	if roomType != "" {
		r.roomType = roomType
	}
	if description != "" {
		r.description = description
	}
	if pricePerNightCents > 0 {
		r.pricePerNightCents = pricePerNightCents
	}
	if maxPeople > 0 {
		r.maxPeople = maxPeople
	}
	r.updatedAt = time.Now().UTC()
	return nil
}

// TotalAmountCents computes the stay cost for the given number of nights.
func (r *Room) TotalAmountCents(nights int) int64 {
	return r.pricePerNightCents * int64(nights)
}
