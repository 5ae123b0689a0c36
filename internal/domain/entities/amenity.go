package entities

import (
	"strings"

	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// Amenity is a named feature a Place can offer
type Amenity struct {
	Base
	Name string `json:"name" db:"name"`
}

func (a *Amenity) Kind() Kind { return KindAmenity }

func (a *Amenity) Clone() Entity {
	cp := *a
	return &cp
}

// Validate checks field-level constraints
func (a *Amenity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return apperrors.NewValidationError("missing field: name")
	}
	return nil
}

// PlaceAmenity links a Place to an Amenity. Links are never updated.
type PlaceAmenity struct {
	Base
	PlaceID   string `json:"place_id" db:"place_id"`
	AmenityID string `json:"amenity_id" db:"amenity_id"`
}

func (pa *PlaceAmenity) Kind() Kind { return KindPlaceAmenity }

func (pa *PlaceAmenity) Clone() Entity {
	cp := *pa
	return &cp
}
