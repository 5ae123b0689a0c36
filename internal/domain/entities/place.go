package entities

import (
	"strings"

	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// Place is a listing hosted by a User in a City
type Place struct {
	Base
	Name              string  `json:"name" db:"name"`
	Description       string  `json:"description" db:"description"`
	Address           string  `json:"address" db:"address"`
	Latitude          float64 `json:"latitude" db:"latitude"`
	Longitude         float64 `json:"longitude" db:"longitude"`
	HostID            string  `json:"host_id" db:"host_id"`
	CityID            string  `json:"city_id" db:"city_id"`
	PricePerNight     int     `json:"price_per_night" db:"price_per_night"`
	NumberOfRooms     int     `json:"number_of_rooms" db:"number_of_rooms"`
	NumberOfBathrooms int     `json:"number_of_bathrooms" db:"number_of_bathrooms"`
	MaxGuests         int     `json:"max_guests" db:"max_guests"`
}

func (p *Place) Kind() Kind { return KindPlace }

func (p *Place) Clone() Entity {
	cp := *p
	return &cp
}

// Validate checks field-level constraints
func (p *Place) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return apperrors.NewValidationError("missing field: name")
	case strings.TrimSpace(p.Address) == "":
		return apperrors.NewValidationError("missing field: address")
	case p.HostID == "":
		return apperrors.NewValidationError("missing field: host_id")
	case p.CityID == "":
		return apperrors.NewValidationError("missing field: city_id")
	case p.Latitude < -90 || p.Latitude > 90:
		return apperrors.NewValidationError("latitude must be between -90 and 90")
	case p.Longitude < -180 || p.Longitude > 180:
		return apperrors.NewValidationError("longitude must be between -180 and 180")
	case p.PricePerNight < 0:
		return apperrors.NewValidationError("price_per_night must not be negative")
	case p.NumberOfRooms < 0, p.NumberOfBathrooms < 0, p.MaxGuests < 0:
		return apperrors.NewValidationError("room, bathroom and guest counts must not be negative")
	}
	return nil
}
