package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/providers"
)

// CacheInvalidator drops cached records
type CacheInvalidator interface {
	Invalidate(ctx context.Context, kind entities.Kind, id string) error
	Flush(ctx context.Context) error
}

// CacheInvalidationService applies record events published by other instances
// to the local cache. Events from this instance are ignored because the
// writer has already invalidated its own cache.
type CacheInvalidationService struct {
	cache    CacheInvalidator
	eventBus providers.EventBus
	origin   string
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache CacheInvalidator, eventBus providers.EventBus, origin string) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		origin:   origin,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelRecords)
	if err != nil {
		close(s.done)
		return fmt.Errorf("failed to subscribe to record events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Str("origin", s.origin).Msg("Cache invalidation service started")
	return nil
}

// Stop stops the service and waits for the event loop to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	<-s.done
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.RecordEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil || event.Origin == s.origin {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.RecordEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	if event.EventType == entities.RecordEventReloaded || event.RecordID == "" {
		err = s.cache.Flush(ctx)
	} else {
		err = s.cache.Invalidate(ctx, event.Kind, event.RecordID)
	}

	if err != nil {
		log.Warn().Err(err).
			Str("event_id", event.ID).
			Str("kind", string(event.Kind)).
			Str("record_id", event.RecordID).
			Msg("Failed to apply cache invalidation")
		return
	}
	log.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.EventType)).
		Str("kind", string(event.Kind)).
		Str("record_id", event.RecordID).
		Msg("Applied cache invalidation")
}
