package entities

import (
	"strings"

	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Review is a rating left by a User on a Place
type Review struct {
	Base
	PlaceID string  `json:"place_id" db:"place_id"`
	UserID  string  `json:"user_id" db:"user_id"`
	Comment string  `json:"comment" db:"comment"`
	Rating  float64 `json:"rating" db:"rating"`
}

func (r *Review) Kind() Kind { return KindReview }

func (r *Review) Clone() Entity {
	cp := *r
	return &cp
}

// Validate checks field-level constraints
func (r *Review) Validate() error {
	switch {
	case r.PlaceID == "":
		return apperrors.NewValidationError("missing field: place_id")
	case r.UserID == "":
		return apperrors.NewValidationError("missing field: user_id")
	case strings.TrimSpace(r.Comment) == "":
		return apperrors.NewValidationError("missing field: comment")
	case r.Rating < MinRating || r.Rating > MaxRating:
		return apperrors.NewValidationError("rating must be between 1 and 5")
	}
	return nil
}
