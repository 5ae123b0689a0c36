package handlers

import (
	"context"
	"net/http"

	"github.com/hbnb/hbnb-api/internal/application/services"
	"github.com/hbnb/hbnb-api/internal/domain/entities"
)

// AmenityService defines the amenity operations used by the handler
type AmenityService interface {
	Create(ctx context.Context, input services.AmenityInput) (*entities.Amenity, error)
	Get(ctx context.Context, id string) (*entities.Amenity, error)
	GetAll(ctx context.Context) ([]*entities.Amenity, error)
	Update(ctx context.Context, id string, patch services.AmenityPatch) (*entities.Amenity, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AmenityHandler handles amenity endpoints. Writes are routed behind the admin check.
type AmenityHandler struct {
	service AmenityService
}

// NewAmenityHandler creates a new amenity handler
func NewAmenityHandler(service AmenityService) *AmenityHandler {
	return &AmenityHandler{service: service}
}

// ListAmenities handles GET /amenities
func (h *AmenityHandler) ListAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(amenities))
}

// CreateAmenity handles POST /amenities
func (h *AmenityHandler) CreateAmenity(w http.ResponseWriter, r *http.Request) {
	var input services.AmenityInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	amenity, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, amenity)
}

// GetAmenity handles GET /amenities/{id}
func (h *AmenityHandler) GetAmenity(w http.ResponseWriter, r *http.Request) {
	amenity, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, amenity)
}

// UpdateAmenity handles PUT /amenities/{id}
func (h *AmenityHandler) UpdateAmenity(w http.ResponseWriter, r *http.Request) {
	var patch services.AmenityPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	amenity, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, amenity)
}

// DeleteAmenity handles DELETE /amenities/{id}
func (h *AmenityHandler) DeleteAmenity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !removed {
		respondWithError(w, http.StatusNotFound, "Amenity with ID "+id+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
