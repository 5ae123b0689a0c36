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

// CountryInput carries the fields needed to create a country
type CountryInput struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CountryService manages countries. Countries are never updated or deleted.
type CountryService struct {
	repo repositories.Repository
	now  func() time.Time
}

// NewCountryService creates a new country service
func NewCountryService(repo repositories.Repository) *CountryService {
	return &CountryService{repo: repo, now: time.Now}
}

// Create stores a new country. Name and code must both be unused.
func (s *CountryService) Create(ctx context.Context, input CountryInput) (*entities.Country, error) {
	country := &entities.Country{
		Base: entities.NewBase(s.now()),
		Name: strings.TrimSpace(input.Name),
		Code: entities.NormalizeCountryCode(input.Code),
	}
	if err := country.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.Code == country.Code {
			return nil, apperrors.NewConflictError(fmt.Sprintf("country with code %s already exists", country.Code))
		}
		if strings.EqualFold(c.Name, country.Name) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("country %s already exists", country.Name))
		}
	}

	if err := s.repo.Save(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}

// Get returns a country by id
func (s *CountryService) Get(ctx context.Context, id string) (*entities.Country, error) {
	return fetch[*entities.Country](ctx, s.repo, entities.KindCountry, id)
}

// GetAll lists every country
func (s *CountryService) GetAll(ctx context.Context) ([]*entities.Country, error) {
	return repositories.All[*entities.Country](ctx, s.repo, entities.KindCountry)
}

// GetByCode returns the country with the given code, case-insensitively
func (s *CountryService) GetByCode(ctx context.Context, code string) (*entities.Country, error) {
	code = entities.NormalizeCountryCode(code)

	matches, err := filter(ctx, s.repo, entities.KindCountry, func(c *entities.Country) bool {
		return c.Code == code
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Country with code %s not found", code))
	}
	return matches[0], nil
}

// Cities lists the cities of the country with the given code
func (s *CountryService) Cities(ctx context.Context, code string) ([]*entities.City, error) {
	country, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return filter(ctx, s.repo, entities.KindCity, func(c *entities.City) bool {
		return c.CountryCode == country.Code
	})
}
