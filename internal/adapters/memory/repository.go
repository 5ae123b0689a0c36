package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// Repository keeps one insertion-ordered slice per entity kind. Records are
// cloned on the way in and out so the slices only change through the
// repository methods. Nothing survives a restart.
type Repository struct {
	mu      sync.RWMutex
	records map[entities.Kind][]entities.Entity
	now     func() time.Time
}

// NewRepository creates an empty memory repository. Call Reload to seed it.
func NewRepository() *Repository {
	return &Repository{
		records: make(map[entities.Kind][]entities.Entity),
		now:     time.Now,
	}
}

var _ repositories.Repository = (*Repository)(nil)

// GetAll returns clones of every record of kind in insertion order
func (r *Repository) GetAll(_ context.Context, kind entities.Kind) ([]entities.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.records[kind]
	out := make([]entities.Entity, 0, len(stored))
	for _, e := range stored {
		out = append(out, e.Clone())
	}
	return out, nil
}

// Get scans the kind's slice for id
func (r *Repository) Get(_ context.Context, kind entities.Kind, id string) (entities.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(kind, id); i >= 0 {
		return r.records[kind][i].Clone(), nil
	}
	return nil, nil
}

// Save appends a new record
func (r *Repository) Save(_ context.Context, entity entities.Entity) error {
	if entity == nil {
		return apperrors.NewInternalError("cannot save nil entity", fmt.Errorf("nil entity"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind := entity.Kind()
	if r.indexOf(kind, entity.GetID()) >= 0 {
		return apperrors.NewConflictError(fmt.Sprintf("%s with id %s already exists", kind, entity.GetID()))
	}

	r.records[kind] = append(r.records[kind], entity.Clone())
	return nil
}

// Update replaces the stored record that has the same identity
func (r *Repository) Update(_ context.Context, entity entities.Entity) error {
	if entity == nil {
		return apperrors.NewInternalError("cannot update nil entity", fmt.Errorf("nil entity"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind := entity.Kind()
	i := r.indexOf(kind, entity.GetID())
	if i < 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", kind, entity.GetID()))
	}

	r.records[kind][i] = entity.Clone()
	return nil
}

// Delete removes the record with the entity's identity
func (r *Repository) Delete(_ context.Context, entity entities.Entity) (bool, error) {
	if entity == nil {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind := entity.Kind()
	i := r.indexOf(kind, entity.GetID())
	if i < 0 {
		return false, nil
	}

	stored := r.records[kind]
	r.records[kind] = append(stored[:i:i], stored[i+1:]...)
	return true, nil
}

// Reload drops every record and seeds the bootstrap countries
func (r *Repository) Reload(ctx context.Context) error {
	r.mu.Lock()
	r.records = make(map[entities.Kind][]entities.Entity)
	r.mu.Unlock()

	return repositories.SeedCountries(ctx, r, r.now())
}

// caller must hold r.mu
func (r *Repository) indexOf(kind entities.Kind, id string) int {
	for i, e := range r.records[kind] {
		if e.GetID() == id {
			return i
		}
	}
	return -1
}
