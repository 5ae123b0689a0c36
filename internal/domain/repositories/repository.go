package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
)

// Repository is the storage contract shared by the memory and SQL backends.
// Implementations must behave identically; referential checks live in the
// services, never here.
type Repository interface {
	// GetAll returns every record of a kind in an order that is stable for the
	// lifetime of the process
	GetAll(ctx context.Context, kind entities.Kind) ([]entities.Entity, error)

	// Get returns the record with the given identity, or (nil, nil) when absent
	Get(ctx context.Context, kind entities.Kind, id string) (entities.Entity, error)

	// Save inserts a new record; a conflict error is returned if the identity
	// is already stored
	Save(ctx context.Context, entity entities.Entity) error

	// Update persists the current state of an already stored record
	Update(ctx context.Context, entity entities.Entity) error

	// Delete removes a record and reports whether anything was removed
	Delete(ctx context.Context, entity entities.Entity) (bool, error)

	// Reload (re)initializes the backing storage and seeds bootstrap data
	Reload(ctx context.Context) error
}

// All fetches every record of kind and converts it to T.
func All[T entities.Entity](ctx context.Context, repo Repository, kind entities.Kind) ([]T, error) {
	records, err := repo.GetAll(ctx, kind)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for _, record := range records {
		typed, ok := record.(T)
		if !ok {
			return nil, fmt.Errorf("repository returned %T for kind %s", record, kind)
		}
		out = append(out, typed)
	}
	return out, nil
}

// One fetches a single record and converts it to T. found is false when the
// record does not exist.
func One[T entities.Entity](ctx context.Context, repo Repository, kind entities.Kind, id string) (record T, found bool, err error) {
	e, err := repo.Get(ctx, kind, id)
	if err != nil || e == nil {
		return record, false, err
	}

	typed, ok := e.(T)
	if !ok {
		return record, false, fmt.Errorf("repository returned %T for kind %s", e, kind)
	}
	return typed, true, nil
}

// BootstrapCountries returns the countries every fresh store is seeded with.
func BootstrapCountries(now time.Time) []*entities.Country {
	return []*entities.Country{
		{Base: entities.NewBase(now), Name: "Uruguay", Code: "UY"},
		{Base: entities.NewBase(now), Name: "United States", Code: "US"},
	}
}

// SeedCountries saves each bootstrap country whose code is not stored yet.
func SeedCountries(ctx context.Context, repo Repository, now time.Time) error {
	existing, err := All[*entities.Country](ctx, repo, entities.KindCountry)
	if err != nil {
		return err
	}

	codes := make(map[string]bool, len(existing))
	for _, c := range existing {
		codes[c.Code] = true
	}

	for _, country := range BootstrapCountries(now) {
		if codes[country.Code] {
			continue
		}
		if err := repo.Save(ctx, country); err != nil {
			return fmt.Errorf("seeding country %s: %w", country.Code, err)
		}
	}
	return nil
}
