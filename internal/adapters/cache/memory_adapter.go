package cache

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/hbnb/hbnb-api/internal/domain/providers"
)

// MemoryAdapter implements the CacheProvider interface with an in-process LRU
type MemoryAdapter struct {
	cache *ccache.Cache[[]byte]
}

// NewMemoryAdapter creates an LRU cache holding at most maxSize entries
func NewMemoryAdapter(maxSize int64) *MemoryAdapter {
	if maxSize <= 0 {
		maxSize = 5000
	}
	return &MemoryAdapter{
		cache: ccache.New(ccache.Configure[[]byte]().MaxSize(maxSize)),
	}
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	item := a.cache.Get(key)
	if item == nil || item.Expired() {
		return nil, providers.ErrCacheMiss
	}
	return item.Value(), nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	a.cache.Set(key, value, ttl)
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.cache.Delete(key)
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(_ context.Context, key string) (bool, error) {
	item := a.cache.Get(key)
	return item != nil && !item.Expired(), nil
}

// DeletePrefix removes every key starting with prefix
func (a *MemoryAdapter) DeletePrefix(_ context.Context, prefix string) error {
	a.cache.DeletePrefix(prefix)
	return nil
}

// Stop releases the cache's background worker
func (a *MemoryAdapter) Stop() {
	a.cache.Stop()
}
