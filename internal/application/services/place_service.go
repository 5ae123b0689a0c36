package services

import (
	"context"
	"strings"
	"time"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
)

// PlaceInput carries the fields needed to create a place
type PlaceInput struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Address           string  `json:"address"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	HostID            string  `json:"host_id"`
	CityID            string  `json:"city_id"`
	PricePerNight     int     `json:"price_per_night"`
	NumberOfRooms     int     `json:"number_of_rooms"`
	NumberOfBathrooms int     `json:"number_of_bathrooms"`
	MaxGuests         int     `json:"max_guests"`
}

// PlacePatch lists the place fields an update may change. Nil fields are kept.
type PlacePatch struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	Address           *string  `json:"address"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	HostID            *string  `json:"host_id"`
	CityID            *string  `json:"city_id"`
	PricePerNight     *int     `json:"price_per_night"`
	NumberOfRooms     *int     `json:"number_of_rooms"`
	NumberOfBathrooms *int     `json:"number_of_bathrooms"`
	MaxGuests         *int     `json:"max_guests"`
}

// PlaceService manages places
type PlaceService struct {
	repo repositories.Repository
	now  func() time.Time
}

// NewPlaceService creates a new place service
func NewPlaceService(repo repositories.Repository) *PlaceService {
	return &PlaceService{repo: repo, now: time.Now}
}

// Create stores a new place hosted by an existing user in an existing city
func (s *PlaceService) Create(ctx context.Context, input PlaceInput) (*entities.Place, error) {
	place := &entities.Place{
		Base:              entities.NewBase(s.now()),
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		Address:           strings.TrimSpace(input.Address),
		Latitude:          input.Latitude,
		Longitude:         input.Longitude,
		HostID:            input.HostID,
		CityID:            input.CityID,
		PricePerNight:     input.PricePerNight,
		NumberOfRooms:     input.NumberOfRooms,
		NumberOfBathrooms: input.NumberOfBathrooms,
		MaxGuests:         input.MaxGuests,
	}
	if err := s.check(ctx, place); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// Get returns a place by id
func (s *PlaceService) Get(ctx context.Context, id string) (*entities.Place, error) {
	return fetch[*entities.Place](ctx, s.repo, entities.KindPlace, id)
}

// GetAll lists every place
func (s *PlaceService) GetAll(ctx context.Context) ([]*entities.Place, error) {
	return repositories.All[*entities.Place](ctx, s.repo, entities.KindPlace)
}

// Update applies patch to the place with the given id
func (s *PlaceService) Update(ctx context.Context, id string, patch PlacePatch) (*entities.Place, error) {
	place, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		place.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		place.Description = *patch.Description
	}
	if patch.Address != nil {
		place.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.Latitude != nil {
		place.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		place.Longitude = *patch.Longitude
	}
	if patch.HostID != nil {
		place.HostID = *patch.HostID
	}
	if patch.CityID != nil {
		place.CityID = *patch.CityID
	}
	if patch.PricePerNight != nil {
		place.PricePerNight = *patch.PricePerNight
	}
	if patch.NumberOfRooms != nil {
		place.NumberOfRooms = *patch.NumberOfRooms
	}
	if patch.NumberOfBathrooms != nil {
		place.NumberOfBathrooms = *patch.NumberOfBathrooms
	}
	if patch.MaxGuests != nil {
		place.MaxGuests = *patch.MaxGuests
	}
	if err := s.check(ctx, place); err != nil {
		return nil, err
	}

	place.Touch(s.now())
	if err := s.repo.Update(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// Delete removes a place together with its reviews and amenity links
func (s *PlaceService) Delete(ctx context.Context, id string) (bool, error) {
	place, found, err := repositories.One[*entities.Place](ctx, s.repo, entities.KindPlace, id)
	if err != nil || !found {
		return false, err
	}

	reviews, err := filter(ctx, s.repo, entities.KindReview, func(r *entities.Review) bool {
		return r.PlaceID == id
	})
	if err != nil {
		return false, err
	}
	if err := removeAll(ctx, s.repo, reviews); err != nil {
		return false, err
	}

	links, err := filter(ctx, s.repo, entities.KindPlaceAmenity, func(pa *entities.PlaceAmenity) bool {
		return pa.PlaceID == id
	})
	if err != nil {
		return false, err
	}
	if err := removeAll(ctx, s.repo, links); err != nil {
		return false, err
	}

	return s.repo.Delete(ctx, place)
}

func (s *PlaceService) check(ctx context.Context, place *entities.Place) error {
	if err := place.Validate(); err != nil {
		return err
	}
	if err := requireExisting(ctx, s.repo, entities.KindUser, place.HostID); err != nil {
		return err
	}
	return requireExisting(ctx, s.repo, entities.KindCity, place.CityID)
}
