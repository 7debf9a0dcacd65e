package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/shravastee-thakur/stayease/internal/domain"
)

// Hotel is the aggregate root for a hotel listing.
type Hotel struct {
	id          uuid.UUID
	name        string
	city        string
	address     string
	distance    string
	description string
	rating      float64
	featured    bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewHotel creates a new hotel listing with validated fields.
func NewHotel(name, city, address, distance, description string, rating float64, featured bool) (*Hotel, error) {
	if name == "" {
		return nil, domain.NewValidationError("hotel name is required")
	}
	if city == "" {
		return nil, domain.NewValidationError("hotel city is required")
	}
	if address == "" {
		return nil, domain.NewValidationError("hotel address is required")
	}
	if rating < 0 || rating > 5 {
		return nil, domain.NewValidationError("hotel rating must be between 0 and 5")
	}

	now := time.Now().UTC()
	return &Hotel{
		id:          uuid.New(),
		name:        name,
		city:        city,
		address:     address,
		distance:    distance,
		description: description,
		rating:      rating,
		featured:    featured,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructHotel rebuilds a Hotel from persistence data (no validation).
func ReconstructHotel(
	id uuid.UUID,
	name, city, address, distance, description string,
	rating float64,
	featured bool,
	createdAt, updatedAt time.Time,
) *Hotel {
	return &Hotel{
		id:          id,
		name:        name,
		city:        city,
		address:     address,
		distance:    distance,
		description: description,
		rating:      rating,
		featured:    featured,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (h *Hotel) ID() uuid.UUID        { return h.id }
func (h *Hotel) Name() string         { return h.name }
func (h *Hotel) City() string         { return h.city }
func (h *Hotel) Address() string      { return h.address }
func (h *Hotel) Distance() string     { return h.distance }
func (h *Hotel) Description() string  { return h.description }
func (h *Hotel) Rating() float64      { return h.rating }
func (h *Hotel) Featured() bool       { return h.featured }
func (h *Hotel) CreatedAt() time.Time { return h.createdAt }
func (h *Hotel) UpdatedAt() time.Time { return h.updatedAt }

// Update applies partial updates to the hotel listing.
// Empty strings and negative ratings leave the current value unchanged.
func (h *Hotel) Update(name, city, address, distance, description string, rating float64, featured *bool) error {
	if rating > 5 {
		return domain.NewValidationError("hotel rating must be between 0 and 5")
	}
	if name != "" {
		h.name = name
	}
	if city != "" {
		h.city = city
	}
	if address != "" {
		h.address = address
	}
	if distance != "" {
		h.distance = distance
	}
	if description != "" {
		h.description = description
	}
	if rating >= 0 {
		h.rating = rating
	}
	if featured != nil {
		h.featured = *featured
	}
	h.updatedAt = time.Now().UTC()
	return nil
}
