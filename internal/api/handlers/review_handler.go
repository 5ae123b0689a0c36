package handlers

import (
	"context"
	"net/http"

	"github.com/hbnb/hbnb-api/internal/application/services"
	"github.com/hbnb/hbnb-api/internal/domain/entities"
)

// ReviewService defines the review operations used by the handler
type ReviewService interface {
	Get(ctx context.Context, id string) (*entities.Review, error)
	GetAll(ctx context.Context) ([]*entities.Review, error)
	Update(ctx context.Context, id string, patch services.ReviewPatch) (*entities.Review, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ReviewHandler handles review endpoints. Reviews are created under a place.
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListReviews handles GET /reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(reviews))
}

// GetReview handles GET /reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, review)
}

// UpdateReview handles PUT /reviews/{id}. Only the author or an admin may update.
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	review, ok := h.ownedReview(w, r)
	if !ok {
		return
	}

	var patch services.ReviewPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	updated, err := h.service.Update(r.Context(), review.ID, patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteReview handles DELETE /reviews/{id}. Only the author or an admin may delete.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	review, ok := h.ownedReview(w, r)
	if !ok {
		return
	}

	removed, err := h.service.Delete(r.Context(), review.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !removed {
		respondWithError(w, http.StatusNotFound, "Review with ID "+review.ID+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) ownedReview(w http.ResponseWriter, r *http.Request) (*entities.Review, bool) {
	review, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}
	if err := authorize(r, review.UserID); err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}
	return review, true
}
