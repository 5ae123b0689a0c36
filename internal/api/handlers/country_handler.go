package handlers

import (
	"context"
	"net/http"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
)

// CountryService defines the country operations used by the handler
type CountryService interface {
	GetAll(ctx context.Context) ([]*entities.Country, error)
	GetByCode(ctx context.Context, code string) (*entities.Country, error)
	Cities(ctx context.Context, code string) ([]*entities.City, error)
}

// CountryHandler handles the read-only country endpoints
type CountryHandler struct {
	service CountryService
}

// NewCountryHandler creates a new country handler
func NewCountryHandler(service CountryService) *CountryHandler {
	return &CountryHandler{service: service}
}

// ListCountries handles GET /countries
func (h *CountryHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(countries))
}

// GetCountry handles GET /countries/{code}
func (h *CountryHandler) GetCountry(w http.ResponseWriter, r *http.Request) {
	country, err := h.service.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, country)
}

// ListCountryCities handles GET /countries/{code}/cities
func (h *CountryHandler) ListCountryCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.Cities(r.Context(), r.PathValue("code"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(cities))
}
