package handlers

import (
	"context"
	"net/http"

	"github.com/hbnb/hbnb-api/internal/application/services"
	"github.com/hbnb/hbnb-api/internal/domain/entities"
)

// CityService defines the city operations used by the handler
type CityService interface {
	Create(ctx context.Context, input services.CityInput) (*entities.City, error)
	Get(ctx context.Context, id string) (*entities.City, error)
	GetAll(ctx context.Context) ([]*entities.City, error)
	Update(ctx context.Context, id string, patch services.CityPatch) (*entities.City, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CityHandler handles city endpoints. Writes are routed behind the admin check.
type CityHandler struct {
	service CityService
}

// NewCityHandler creates a new city handler
func NewCityHandler(service CityService) *CityHandler {
	return &CityHandler{service: service}
}

// ListCities handles GET /cities
func (h *CityHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(cities))
}

// CreateCity handles POST /cities
func (h *CityHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var input services.CityInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	city, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, city)
}

// GetCity handles GET /cities/{id}
func (h *CityHandler) GetCity(w http.ResponseWriter, r *http.Request) {
	city, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, city)
}

// UpdateCity handles PUT /cities/{id}
func (h *CityHandler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	var patch services.CityPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	city, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, city)
}

// DeleteCity handles DELETE /cities/{id}
func (h *CityHandler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !removed {
		respondWithError(w, http.StatusNotFound, "City with ID "+id+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
