package services

import (
	"context"
	"time"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// PlaceAmenityInput carries the two ends of a link
type PlaceAmenityInput struct {
	PlaceID   string `json:"place_id"`
	AmenityID string `json:"amenity_id"`
}

// PlaceAmenityService manages the links between places and amenities. Links
// are created and deleted, never updated.
type PlaceAmenityService struct {
	repo repositories.Repository
	now  func() time.Time
}

// NewPlaceAmenityService creates a new place amenity service
func NewPlaceAmenityService(repo repositories.Repository) *PlaceAmenityService {
	return &PlaceAmenityService{repo: repo, now: time.Now}
}

// Create links an existing place to an existing amenity
func (s *PlaceAmenityService) Create(ctx context.Context, input PlaceAmenityInput) (*entities.PlaceAmenity, error) {
	if err := requireExisting(ctx, s.repo, entities.KindPlace, input.PlaceID); err != nil {
		return nil, err
	}
	if err := requireExisting(ctx, s.repo, entities.KindAmenity, input.AmenityID); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, input.PlaceID, input.AmenityID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("amenity is already linked to this place")
	}

	link := &entities.PlaceAmenity{
		Base:      entities.NewBase(s.now()),
		PlaceID:   input.PlaceID,
		AmenityID: input.AmenityID,
	}
	if err := s.repo.Save(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// Get returns a link by id
func (s *PlaceAmenityService) Get(ctx context.Context, id string) (*entities.PlaceAmenity, error) {
	return fetch[*entities.PlaceAmenity](ctx, s.repo, entities.KindPlaceAmenity, id)
}

// GetAll lists every link
func (s *PlaceAmenityService) GetAll(ctx context.Context) ([]*entities.PlaceAmenity, error) {
	return repositories.All[*entities.PlaceAmenity](ctx, s.repo, entities.KindPlaceAmenity)
}

// Delete removes a link by id
func (s *PlaceAmenityService) Delete(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s.repo, entities.KindPlaceAmenity, id)
}

// Link is Create addressed by the two ends
func (s *PlaceAmenityService) Link(ctx context.Context, placeID, amenityID string) (*entities.PlaceAmenity, error) {
	return s.Create(ctx, PlaceAmenityInput{PlaceID: placeID, AmenityID: amenityID})
}

// Unlink removes the link between a place and an amenity, reporting whether
// one existed
func (s *PlaceAmenityService) Unlink(ctx context.Context, placeID, amenityID string) (bool, error) {
	link, err := s.find(ctx, placeID, amenityID)
	if err != nil || link == nil {
		return false, err
	}
	return s.repo.Delete(ctx, link)
}

// ListAmenities returns the amenities linked to a place, in link order
func (s *PlaceAmenityService) ListAmenities(ctx context.Context, placeID string) ([]*entities.Amenity, error) {
	if _, err := fetch[*entities.Place](ctx, s.repo, entities.KindPlace, placeID); err != nil {
		return nil, err
	}

	links, err := filter(ctx, s.repo, entities.KindPlaceAmenity, func(pa *entities.PlaceAmenity) bool {
		return pa.PlaceID == placeID
	})
	if err != nil {
		return nil, err
	}

	amenities := make([]*entities.Amenity, 0, len(links))
	for _, link := range links {
		amenity, found, err := repositories.One[*entities.Amenity](ctx, s.repo, entities.KindAmenity, link.AmenityID)
		if err != nil {
			return nil, err
		}
		if found {
			amenities = append(amenities, amenity)
		}
	}
	return amenities, nil
}

func (s *PlaceAmenityService) find(ctx context.Context, placeID, amenityID string) (*entities.PlaceAmenity, error) {
	matches, err := filter(ctx, s.repo, entities.KindPlaceAmenity, func(pa *entities.PlaceAmenity) bool {
		return pa.PlaceID == placeID && pa.AmenityID == amenityID
	})
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}
