package services

import (
	"context"
	"strings"
	"time"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
)

// ReviewInput carries the fields needed to create a review
type ReviewInput struct {
	PlaceID string  `json:"place_id"`
	UserID  string  `json:"user_id"`
	Comment string  `json:"comment"`
	Rating  float64 `json:"rating"`
}

// ReviewPatch lists the review fields an update may change. The reviewed
// place and the author are fixed.
type ReviewPatch struct {
	Comment *string  `json:"comment"`
	Rating  *float64 `json:"rating"`
}

// ReviewService manages reviews
type ReviewService struct {
	repo repositories.Repository
	now  func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(repo repositories.Repository) *ReviewService {
	return &ReviewService{repo: repo, now: time.Now}
}

// Create stores a review of an existing place by an existing user
func (s *ReviewService) Create(ctx context.Context, input ReviewInput) (*entities.Review, error) {
	review := &entities.Review{
		Base:    entities.NewBase(s.now()),
		PlaceID: input.PlaceID,
		UserID:  input.UserID,
		Comment: strings.TrimSpace(input.Comment),
		Rating:  input.Rating,
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if err := requireExisting(ctx, s.repo, entities.KindPlace, review.PlaceID); err != nil {
		return nil, err
	}
	if err := requireExisting(ctx, s.repo, entities.KindUser, review.UserID); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Get returns a review by id
func (s *ReviewService) Get(ctx context.Context, id string) (*entities.Review, error) {
	return fetch[*entities.Review](ctx, s.repo, entities.KindReview, id)
}

// GetAll lists every review
func (s *ReviewService) GetAll(ctx context.Context) ([]*entities.Review, error) {
	return repositories.All[*entities.Review](ctx, s.repo, entities.KindReview)
}

// Update applies patch to the review with the given id
func (s *ReviewService) Update(ctx context.Context, id string, patch ReviewPatch) (*entities.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Comment != nil {
		review.Comment = strings.TrimSpace(*patch.Comment)
	}
	if patch.Rating != nil {
		review.Rating = *patch.Rating
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	review.Touch(s.now())
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review
func (s *ReviewService) Delete(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s.repo, entities.KindReview, id)
}

// ListByPlace returns the reviews of an existing place
func (s *ReviewService) ListByPlace(ctx context.Context, placeID string) ([]*entities.Review, error) {
	if _, err := fetch[*entities.Place](ctx, s.repo, entities.KindPlace, placeID); err != nil {
		return nil, err
	}
	return filter(ctx, s.repo, entities.KindReview, func(r *entities.Review) bool {
		return r.PlaceID == placeID
	})
}

// ListByUser returns the reviews written by an existing user
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	if _, err := fetch[*entities.User](ctx, s.repo, entities.KindUser, userID); err != nil {
		return nil, err
	}
	return filter(ctx, s.repo, entities.KindReview, func(r *entities.Review) bool {
		return r.UserID == userID
	})
}
