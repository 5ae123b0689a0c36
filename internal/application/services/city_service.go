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

// CityInput carries the fields needed to create a city
type CityInput struct {
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

// CityPatch lists the city fields an update may change. Nil fields are kept.
type CityPatch struct {
	Name        *string `json:"name"`
	CountryCode *string `json:"country_code"`
}

// CityService manages cities
type CityService struct {
	repo      repositories.Repository
	countries *CountryService
	now       func() time.Time
}

// NewCityService creates a new city service
func NewCityService(repo repositories.Repository) *CityService {
	return &CityService{
		repo:      repo,
		countries: NewCountryService(repo),
		now:       time.Now,
	}
}

// Create stores a new city in an existing country
func (s *CityService) Create(ctx context.Context, input CityInput) (*entities.City, error) {
	city := &entities.City{
		Base:        entities.NewBase(s.now()),
		Name:        strings.TrimSpace(input.Name),
		CountryCode: entities.NormalizeCountryCode(input.CountryCode),
	}
	if err := s.check(ctx, city); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, city); err != nil {
		return nil, err
	}
	return city, nil
}

// Get returns a city by id
func (s *CityService) Get(ctx context.Context, id string) (*entities.City, error) {
	return fetch[*entities.City](ctx, s.repo, entities.KindCity, id)
}

// GetAll lists every city
func (s *CityService) GetAll(ctx context.Context) ([]*entities.City, error) {
	return repositories.All[*entities.City](ctx, s.repo, entities.KindCity)
}

// Update applies patch to the city with the given id
func (s *CityService) Update(ctx context.Context, id string, patch CityPatch) (*entities.City, error) {
	city, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		city.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.CountryCode != nil {
		city.CountryCode = entities.NormalizeCountryCode(*patch.CountryCode)
	}
	if err := s.check(ctx, city); err != nil {
		return nil, err
	}

	city.Touch(s.now())
	if err := s.repo.Update(ctx, city); err != nil {
		return nil, err
	}
	return city, nil
}

// Delete removes a city. Cities that still have places cannot be deleted.
func (s *CityService) Delete(ctx context.Context, id string) (bool, error) {
	places, err := filter(ctx, s.repo, entities.KindPlace, func(p *entities.Place) bool {
		return p.CityID == id
	})
	if err != nil {
		return false, err
	}
	if len(places) > 0 {
		return false, apperrors.NewConflictError(fmt.Sprintf("City with ID %s still has %d places", id, len(places)))
	}

	return remove(ctx, s.repo, entities.KindCity, id)
}

// check validates fields, the country reference and name uniqueness within the country
func (s *CityService) check(ctx context.Context, city *entities.City) error {
	if err := city.Validate(); err != nil {
		return err
	}

	if _, err := s.countries.GetByCode(ctx, city.CountryCode); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return apperrors.NewValidationError(fmt.Sprintf("Country with code %s does not exist", city.CountryCode))
		}
		return err
	}

	siblings, err := filter(ctx, s.repo, entities.KindCity, func(c *entities.City) bool {
		return c.ID != city.ID && c.CountryCode == city.CountryCode && strings.EqualFold(c.Name, city.Name)
	})
	if err != nil {
		return err
	}
	if len(siblings) > 0 {
		return apperrors.NewConflictError(fmt.Sprintf("city %s already exists in %s", city.Name, city.CountryCode))
	}
	return nil
}
