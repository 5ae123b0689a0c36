package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// AmenityInput carries the fields needed to create an amenity
type AmenityInput struct {
	Name string `json:"name"`
}

// AmenityPatch lists the amenity fields an update may change
type AmenityPatch struct {
	Name *string `json:"name"`
}

// AmenityService manages amenities
type AmenityService struct {
	repo repositories.Repository
	now  func() time.Time
}

// NewAmenityService creates a new amenity service
func NewAmenityService(repo repositories.Repository) *AmenityService {
	return &AmenityService{repo: repo, now: time.Now}
}

// Create stores a new amenity with a unique name
func (s *AmenityService) Create(ctx context.Context, input AmenityInput) (*entities.Amenity, error) {
	amenity := &entities.Amenity{
		Base: entities.NewBase(s.now()),
		Name: strings.TrimSpace(input.Name),
	}
	if err := s.check(ctx, amenity); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, amenity); err != nil {
		return nil, err
	}
	return amenity, nil
}

// Get returns an amenity by id
func (s *AmenityService) Get(ctx context.Context, id string) (*entities.Amenity, error) {
	return fetch[*entities.Amenity](ctx, s.repo, entities.KindAmenity, id)
}

// GetAll lists every amenity
func (s *AmenityService) GetAll(ctx context.Context) ([]*entities.Amenity, error) {
	return repositories.All[*entities.Amenity](ctx, s.repo, entities.KindAmenity)
}

// Update applies patch to the amenity with the given id
func (s *AmenityService) Update(ctx context.Context, id string, patch AmenityPatch) (*entities.Amenity, error) {
	amenity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		amenity.Name = strings.TrimSpace(*patch.Name)
	}
	if err := s.check(ctx, amenity); err != nil {
		return nil, err
	}

	amenity.Touch(s.now())
	if err := s.repo.Update(ctx, amenity); err != nil {
		return nil, err
	}
	return amenity, nil
}

// Delete removes an amenity and unlinks it from every place
func (s *AmenityService) Delete(ctx context.Context, id string) (bool, error) {
	amenity, found, err := repositories.One[*entities.Amenity](ctx, s.repo, entities.KindAmenity, id)
	if err != nil || !found {
		return false, err
	}

	links, err := filter(ctx, s.repo, entities.KindPlaceAmenity, func(pa *entities.PlaceAmenity) bool {
		return pa.AmenityID == id
	})
	if err != nil {
		return false, err
	}
	if err := removeAll(ctx, s.repo, links); err != nil {
		return false, err
	}

	return s.repo.Delete(ctx, amenity)
}

func (s *AmenityService) check(ctx context.Context, amenity *entities.Amenity) error {
	if err := amenity.Validate(); err != nil {
		return err
	}

	taken, err := filter(ctx, s.repo, entities.KindAmenity, func(a *entities.Amenity) bool {
		return a.ID != amenity.ID && strings.EqualFold(a.Name, amenity.Name)
	})
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return apperrors.NewConflictError(fmt.Sprintf("amenity %s already exists", amenity.Name))
	}
	return nil
}
