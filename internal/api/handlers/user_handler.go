package handlers

import (
	"context"
	"net/http"

	"github.com/hbnb/hbnb-api/internal/application/services"
	"github.com/hbnb/hbnb-api/internal/domain/entities"
)

// UserService defines the user operations used by the handler
type UserService interface {
	Create(ctx context.Context, input services.UserInput) (*entities.User, error)
	Get(ctx context.Context, id string) (*entities.User, error)
	GetAll(ctx context.Context) ([]*entities.User, error)
	Update(ctx context.Context, id string, patch services.UserPatch) (*entities.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UserReviewLister lists the reviews written by a user
type UserReviewLister interface {
	ListByUser(ctx context.Context, userID string) ([]*entities.Review, error)
}

// UserHandler handles user endpoints
type UserHandler struct {
	service UserService
	reviews UserReviewLister
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService, reviews UserReviewLister) *UserHandler {
	return &UserHandler{service: service, reviews: reviews}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newUserResponses(users))
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input services.UserInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newUserResponse(user))
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newUserResponse(user))
}

// UpdateUser handles PUT /users/{id}. Only the user or an admin may update.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := authorize(r, id); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var patch services.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newUserResponse(user))
}

// DeleteUser handles DELETE /users/{id}. Only the user or an admin may delete.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := authorize(r, id); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	removed, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !removed {
		respondWithError(w, http.StatusNotFound, "User with ID "+id+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUserReviews handles GET /users/{id}/reviews
func (h *UserHandler) ListUserReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByUser(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(reviews))
}
