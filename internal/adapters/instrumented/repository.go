package instrumented

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	"github.com/hbnb/hbnb-api/internal/infrastructure/observability"
)

// Repository traces and times every call to the wrapped repository
type Repository struct {
	next    repositories.Repository
	backend string
	metrics *observability.Metrics
}

// NewRepository wraps next. backend names the storage in span attributes.
func NewRepository(next repositories.Repository, backend string, metrics *observability.Metrics) *Repository {
	return &Repository{next: next, backend: backend, metrics: metrics}
}

var _ repositories.Repository = (*Repository)(nil)

func (r *Repository) observe(ctx context.Context, operation string, kind entities.Kind, fn func(ctx context.Context) error) {
	ctx, span := observability.StartSpan(ctx, "repository."+operation,
		attribute.String("repository.backend", r.backend),
		attribute.String("entity.kind", string(kind)),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	observability.RecordError(span, err)
	observability.RecordRepositoryMetric(ctx, r.metrics, operation, string(kind), elapsed)

	event := observability.LoggerFromContext(ctx).Debug()
	if err != nil {
		event = observability.LoggerFromContext(ctx).Warn().Err(err)
	}
	event.Str("operation", operation).
		Str("kind", string(kind)).
		Dur("elapsed", elapsed).
		Msg("repository call")
}

func (r *Repository) GetAll(ctx context.Context, kind entities.Kind) (out []entities.Entity, err error) {
	r.observe(ctx, "get_all", kind, func(ctx context.Context) error {
		out, err = r.next.GetAll(ctx, kind)
		return err
	})
	return out, err
}

func (r *Repository) Get(ctx context.Context, kind entities.Kind, id string) (out entities.Entity, err error) {
	r.observe(ctx, "get", kind, func(ctx context.Context) error {
		out, err = r.next.Get(ctx, kind, id)
		return err
	})
	return out, err
}

func (r *Repository) Save(ctx context.Context, entity entities.Entity) (err error) {
	r.observe(ctx, "save", kindOf(entity), func(ctx context.Context) error {
		err = r.next.Save(ctx, entity)
		return err
	})
	return err
}

func (r *Repository) Update(ctx context.Context, entity entities.Entity) (err error) {
	r.observe(ctx, "update", kindOf(entity), func(ctx context.Context) error {
		err = r.next.Update(ctx, entity)
		return err
	})
	return err
}

func (r *Repository) Delete(ctx context.Context, entity entities.Entity) (removed bool, err error) {
	r.observe(ctx, "delete", kindOf(entity), func(ctx context.Context) error {
		removed, err = r.next.Delete(ctx, entity)
		return err
	})
	return removed, err
}

func (r *Repository) Reload(ctx context.Context) (err error) {
	r.observe(ctx, "reload", "", func(ctx context.Context) error {
		err = r.next.Reload(ctx)
		return err
	})
	return err
}

func kindOf(e entities.Entity) entities.Kind {
	if e == nil {
		return ""
	}
	return e.Kind()
}
