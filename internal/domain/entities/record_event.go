package entities

import (
	"time"

	"github.com/google/uuid"
)

// RecordEventType represents what happened to a stored record
type RecordEventType string

const (
	RecordEventSaved    RecordEventType = "saved"
	RecordEventUpdated  RecordEventType = "updated"
	RecordEventDeleted  RecordEventType = "deleted"
	RecordEventReloaded RecordEventType = "reloaded"
)

// RecordEvent announces a repository write to other API instances.
// Origin identifies the publishing instance so it can ignore its own events.
// RecordID is empty for RecordEventReloaded.
type RecordEvent struct {
	ID        string          `json:"id"`
	Origin    string          `json:"origin"`
	EventType RecordEventType `json:"event_type"`
	Kind      Kind            `json:"kind,omitempty"`
	RecordID  string          `json:"record_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewRecordEvent creates a new record event
func NewRecordEvent(origin string, eventType RecordEventType, kind Kind, recordID string) *RecordEvent {
	return &RecordEvent{
		ID:        uuid.NewString(),
		Origin:    origin,
		EventType: eventType,
		Kind:      kind,
		RecordID:  recordID,
		Timestamp: time.Now().UTC(),
	}
}
