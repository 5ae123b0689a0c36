package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hbnb/hbnb-api/internal/adapters/cache"
	"github.com/hbnb/hbnb-api/internal/adapters/database"
	"github.com/hbnb/hbnb-api/internal/adapters/events"
	"github.com/hbnb/hbnb-api/internal/adapters/instrumented"
	"github.com/hbnb/hbnb-api/internal/adapters/memory"
	"github.com/hbnb/hbnb-api/internal/application/services"
	"github.com/hbnb/hbnb-api/internal/domain/providers"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	redisclient "github.com/hbnb/hbnb-api/internal/infrastructure/clients/redis"
	"github.com/hbnb/hbnb-api/internal/infrastructure/clients/sqldb"
	"github.com/hbnb/hbnb-api/internal/infrastructure/observability"
	"github.com/hbnb/hbnb-api/pkg/config"
)

// Backend is the repository selected by configuration together with the
// clients it holds open
type Backend struct {
	Repo repositories.Repository

	// SQL is nil for the in-memory backend
	SQL *sqldb.Client

	closers []func() error
}

// OpenBackend builds the repository stack: the configured store, an optional
// read-through cache, and tracing around both. The store is not reloaded.
func OpenBackend(cfg *config.Config, metrics *observability.Metrics) (*Backend, error) {
	b := &Backend{}

	var repo repositories.Repository
	switch cfg.Repository.Type {
	case "database":
		client, err := sqldb.NewClient(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database client: %w", err)
		}
		b.SQL = client
		b.closers = append(b.closers, client.Close)
		repo = database.NewAdapter(client)
	default:
		repo = memory.NewRepository()
	}

	cacheProvider, err := b.openCache(cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	if cacheProvider != nil {
		cached := cache.NewCachedRepository(repo, cacheProvider, cfg.Cache.TTL, metrics)
		if cfg.Cache.Provider == "memory" && cfg.Cache.Broadcast {
			b.startBroadcast(cfg, cached)
		}
		repo = cached
	}

	b.Repo = instrumented.NewRepository(repo, cfg.Repository.Type, metrics)
	return b, nil
}

func (b *Backend) openCache(cfg *config.Config) (providers.CacheProvider, error) {
	switch cfg.Cache.Provider {
	case "memory":
		adapter := cache.NewMemoryAdapter(cfg.Cache.MaxSize)
		b.closers = append(b.closers, func() error {
			adapter.Stop()
			return nil
		})
		return adapter, nil
	case "redis":
		client, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			// The store stays authoritative, so serve uncached rather than fail
			log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
			return nil, nil
		}
		b.closers = append(b.closers, client.Close)
		return cache.NewRedisAdapter(client), nil
	default:
		return nil, nil
	}
}

// startBroadcast connects the in-process cache to its peers. Without Redis the
// instance still works and peers converge on TTL expiry.
func (b *Backend) startBroadcast(cfg *config.Config, cached *cache.CachedRepository) {
	client, err := redisclient.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, cache invalidations stay local")
		return
	}

	origin := uuid.NewString()
	bus := events.NewRedisEventBus(client)
	invalidation := services.NewCacheInvalidationService(cached, bus, origin)
	if err := invalidation.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start cache invalidation service")
		bus.Close()
		client.Close()
		return
	}

	cached.WithEvents(bus, origin)
	b.closers = append(b.closers, client.Close, bus.Close, func() error {
		invalidation.Stop()
		return nil
	})
}

// Reload prepares the store: migrations for SQL, bootstrap countries for both
func (b *Backend) Reload(ctx context.Context) error {
	return b.Repo.Reload(ctx)
}

// Close releases every client in reverse opening order
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
