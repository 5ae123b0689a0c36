package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/hbnb/hbnb-api/internal/application/services"
	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/infrastructure/auth"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// PlaceService defines the place operations used by the handler
type PlaceService interface {
	Create(ctx context.Context, input services.PlaceInput) (*entities.Place, error)
	Get(ctx context.Context, id string) (*entities.Place, error)
	GetAll(ctx context.Context) ([]*entities.Place, error)
	Update(ctx context.Context, id string, patch services.PlacePatch) (*entities.Place, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PlaceReviewService defines the review operations nested under a place
type PlaceReviewService interface {
	Create(ctx context.Context, input services.ReviewInput) (*entities.Review, error)
	ListByPlace(ctx context.Context, placeID string) ([]*entities.Review, error)
}

// PlaceAmenityService defines the amenity link operations nested under a place
type PlaceAmenityService interface {
	ListAmenities(ctx context.Context, placeID string) ([]*entities.Amenity, error)
	Link(ctx context.Context, placeID, amenityID string) (*entities.PlaceAmenity, error)
	Unlink(ctx context.Context, placeID, amenityID string) (bool, error)
}

// PlaceHandler handles place endpoints and the reviews and amenities nested
// under them
type PlaceHandler struct {
	service   PlaceService
	reviews   PlaceReviewService
	amenities PlaceAmenityService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(service PlaceService, reviews PlaceReviewService, amenities PlaceAmenityService) *PlaceHandler {
	return &PlaceHandler{service: service, reviews: reviews, amenities: amenities}
}

// ListPlaces handles GET /places
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(places))
}

// CreatePlace handles POST /places. The host defaults to the caller; only
// admins may create places for someone else.
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var input services.PlaceInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if strings.TrimSpace(input.HostID) == "" {
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			input.HostID = claims.Subject
		}
	}
	if err := authorize(r, input.HostID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	place, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, place)
}

// GetPlace handles GET /places/{id}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	place, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, place)
}

// UpdatePlace handles PUT /places/{id}. Only the host or an admin may update.
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	place, ok := h.ownedPlace(w, r)
	if !ok {
		return
	}

	var patch services.PlacePatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if patch.HostID != nil && *patch.HostID != place.HostID {
		if err := authorize(r, *patch.HostID); err != nil {
			respondWithAppError(w, r, err)
			return
		}
	}

	updated, err := h.service.Update(r.Context(), place.ID, patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// DeletePlace handles DELETE /places/{id}. Only the host or an admin may delete.
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	place, ok := h.ownedPlace(w, r)
	if !ok {
		return
	}

	removed, err := h.service.Delete(r.Context(), place.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !removed {
		respondWithError(w, http.StatusNotFound, "Place with ID "+place.ID+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPlaceReviews handles GET /places/{id}/reviews
func (h *PlaceHandler) ListPlaceReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByPlace(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(reviews))
}

// CreatePlaceReview handles POST /places/{id}/reviews. The claimed author must
// be the caller unless the caller is an admin.
func (h *PlaceHandler) CreatePlaceReview(w http.ResponseWriter, r *http.Request) {
	place, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var input services.ReviewInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if strings.TrimSpace(input.UserID) == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("missing field: user_id"))
		return
	}
	if err := authorize(r, input.UserID); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	input.PlaceID = place.ID

	review, err := h.reviews.Create(r.Context(), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

// ListPlaceAmenities handles GET /places/{id}/amenities
func (h *PlaceHandler) ListPlaceAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.amenities.ListAmenities(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(amenities))
}

// LinkPlaceAmenity handles POST /places/{id}/amenities/{amenity_id}
func (h *PlaceHandler) LinkPlaceAmenity(w http.ResponseWriter, r *http.Request) {
	place, ok := h.ownedPlace(w, r)
	if !ok {
		return
	}

	link, err := h.amenities.Link(r.Context(), place.ID, r.PathValue("amenity_id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, link)
}

// UnlinkPlaceAmenity handles DELETE /places/{id}/amenities/{amenity_id}
func (h *PlaceHandler) UnlinkPlaceAmenity(w http.ResponseWriter, r *http.Request) {
	place, ok := h.ownedPlace(w, r)
	if !ok {
		return
	}

	amenityID := r.PathValue("amenity_id")
	removed, err := h.amenities.Unlink(r.Context(), place.ID, amenityID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !removed {
		respondWithError(w, http.StatusNotFound, "Amenity with ID "+amenityID+" is not linked to this place")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedPlace loads the place named in the path and checks the caller hosts it.
// It writes the error response itself and reports false on failure.
func (h *PlaceHandler) ownedPlace(w http.ResponseWriter, r *http.Request) (*entities.Place, bool) {
	place, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}
	if err := authorize(r, place.HostID); err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}
	return place, true
}
