package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/providers"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	"github.com/hbnb/hbnb-api/internal/infrastructure/observability"
)

// KeyPrefix namespaces every key written by CachedRepository
const KeyPrefix = "hbnb:"

const defaultTTL = 5 * time.Minute

// CachedRepository wraps a Repository with a read-through cache of single
// records. Lists always go to the underlying repository. Writes go to the
// repository first and then drop the cached copy before returning, so a
// successful write is never followed by a stale read.
type CachedRepository struct {
	repo    repositories.Repository
	cache   providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics

	// events, when set, tells other instances which cached records to drop
	events providers.EventBus
	origin string
}

// NewCachedRepository creates a new cached repository
func NewCachedRepository(repo repositories.Repository, cache providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) *CachedRepository {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &CachedRepository{
		repo:    repo,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

var _ repositories.Repository = (*CachedRepository)(nil)

// WithEvents publishes every write on bus, tagged with origin, so instances
// holding their own in-process cache can invalidate it
func (r *CachedRepository) WithEvents(bus providers.EventBus, origin string) *CachedRepository {
	r.events = bus
	r.origin = origin
	return r
}

func recordCacheKey(kind entities.Kind, id string) string {
	return fmt.Sprintf("%s%s:%s", KeyPrefix, kind, id)
}

// GetAll is not cached
func (r *CachedRepository) GetAll(ctx context.Context, kind entities.Kind) ([]entities.Entity, error) {
	return r.repo.GetAll(ctx, kind)
}

// Get serves a record from cache, falling back to the repository on a miss
func (r *CachedRepository) Get(ctx context.Context, kind entities.Kind, id string) (entities.Entity, error) {
	key := recordCacheKey(kind, id)
	logger := observability.LoggerFromContext(ctx)

	cached, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		e, decodeErr := decode(kind, cached)
		if decodeErr == nil {
			observability.RecordCacheHit(ctx, r.metrics, string(kind))
			return e, nil
		}
		logger.Warn().Err(decodeErr).Str("key", key).Msg("Discarding undecodable cache entry")
	case !errors.Is(err, providers.ErrCacheMiss):
		logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}
	observability.RecordCacheMiss(ctx, r.metrics, string(kind))

	e, err := r.repo.Get(ctx, kind, id)
	if err != nil || e == nil {
		return e, err
	}

	if data, err := json.Marshal(e); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to cache record")
		}
	}

	return e, nil
}

// Save inserts through to the repository
func (r *CachedRepository) Save(ctx context.Context, entity entities.Entity) error {
	if err := r.repo.Save(ctx, entity); err != nil {
		return err
	}
	r.changed(ctx, entities.RecordEventSaved, entity)
	return nil
}

// Update writes through and drops the cached copy
func (r *CachedRepository) Update(ctx context.Context, entity entities.Entity) error {
	if err := r.repo.Update(ctx, entity); err != nil {
		return err
	}
	r.changed(ctx, entities.RecordEventUpdated, entity)
	return nil
}

// Delete removes the record and its cached copy
func (r *CachedRepository) Delete(ctx context.Context, entity entities.Entity) (bool, error) {
	removed, err := r.repo.Delete(ctx, entity)
	if err != nil {
		return false, err
	}
	r.changed(ctx, entities.RecordEventDeleted, entity)
	return removed, nil
}

// Reload reinitializes the repository and empties the cache namespace
func (r *CachedRepository) Reload(ctx context.Context) error {
	if err := r.repo.Reload(ctx); err != nil {
		return err
	}
	if err := r.Flush(ctx); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to flush cache after reload")
	}
	r.publish(ctx, entities.NewRecordEvent(r.origin, entities.RecordEventReloaded, "", ""))
	return nil
}

// Invalidate drops the cached copy of one record
func (r *CachedRepository) Invalidate(ctx context.Context, kind entities.Kind, id string) error {
	return r.cache.Delete(ctx, recordCacheKey(kind, id))
}

// Flush drops every cached record
func (r *CachedRepository) Flush(ctx context.Context) error {
	return r.cache.DeletePrefix(ctx, KeyPrefix)
}

func (r *CachedRepository) changed(ctx context.Context, eventType entities.RecordEventType, entity entities.Entity) {
	if entity == nil {
		return
	}
	if err := r.Invalidate(ctx, entity.Kind(), entity.GetID()); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("key", recordCacheKey(entity.Kind(), entity.GetID())).
			Msg("Failed to invalidate cache entry")
	}
	r.publish(ctx, entities.NewRecordEvent(r.origin, eventType, entity.Kind(), entity.GetID()))
}

// publish is best effort; peers fall back to TTL expiry when it fails
func (r *CachedRepository) publish(ctx context.Context, event *entities.RecordEvent) {
	if r.events == nil {
		return
	}
	if err := r.events.Publish(ctx, providers.EventChannelRecords, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("event_type", string(event.EventType)).
			Msg("Failed to publish record event")
	}
}

func decode(kind entities.Kind, data []byte) (entities.Entity, error) {
	e, err := entities.New(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, err
	}
	return e, nil
}
