package providers

import (
	"context"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.RecordEvent) error

	// Subscribe subscribes to events on a channel until ctx is cancelled
	Subscribe(ctx context.Context, channel string) (<-chan *entities.RecordEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelRecords carries every repository write
const EventChannelRecords = "hbnb.records"
