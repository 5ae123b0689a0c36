package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

var labels = map[entities.Kind]string{
	entities.KindCountry:      "Country",
	entities.KindCity:         "City",
	entities.KindUser:         "User",
	entities.KindPlace:        "Place",
	entities.KindAmenity:      "Amenity",
	entities.KindPlaceAmenity: "Place amenity",
	entities.KindReview:       "Review",
}

func notFound(kind entities.Kind, id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s with ID %s not found", labels[kind], id))
}

func missingReference(kind entities.Kind, id string) error {
	return apperrors.NewValidationError(fmt.Sprintf("%s with ID %s does not exist", labels[kind], id))
}

// fetch loads a record and turns absence into a NotFound error
func fetch[T entities.Entity](ctx context.Context, repo repositories.Repository, kind entities.Kind, id string) (T, error) {
	record, found, err := repositories.One[T](ctx, repo, kind, id)
	if err != nil {
		return record, err
	}
	if !found {
		return record, notFound(kind, id)
	}
	return record, nil
}

// requireExisting turns absence of a referenced record into a Validation error
func requireExisting(ctx context.Context, repo repositories.Repository, kind entities.Kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError(fmt.Sprintf("missing field: %s_id", kind))
	}
	e, err := repo.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	if e == nil {
		return missingReference(kind, id)
	}
	return nil
}

// filter returns the records of kind for which keep is true
func filter[T entities.Entity](ctx context.Context, repo repositories.Repository, kind entities.Kind, keep func(T) bool) ([]T, error) {
	all, err := repositories.All[T](ctx, repo, kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, record := range all {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out, nil
}

// remove deletes a record by id and reports whether it existed
func remove(ctx context.Context, repo repositories.Repository, kind entities.Kind, id string) (bool, error) {
	e, err := repo.Get(ctx, kind, id)
	if err != nil || e == nil {
		return false, err
	}
	return repo.Delete(ctx, e)
}

// removeAll deletes every record in records
func removeAll[T entities.Entity](ctx context.Context, repo repositories.Repository, records []T) error {
	for _, record := range records {
		if _, err := repo.Delete(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
