package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind names an entity type. It doubles as the table name of the SQL backend.
type Kind string

const (
	KindCountry      Kind = "country"
	KindCity         Kind = "city"
	KindUser         Kind = "user"
	KindPlace        Kind = "place"
	KindAmenity      Kind = "amenity"
	KindPlaceAmenity Kind = "placeamenity"
	KindReview       Kind = "review"
)

// Kinds lists every entity kind, parents before children.
func Kinds() []Kind {
	return []Kind{
		KindCountry,
		KindUser,
		KindAmenity,
		KindCity,
		KindPlace,
		KindPlaceAmenity,
		KindReview,
	}
}

// Entity is implemented by every record a repository stores.
type Entity interface {
	GetID() string
	GetBase() *Base
	Kind() Kind
	Clone() Entity
}

// Base carries identity and timestamps shared by all entities
type Base struct {
	ID        string    `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewBase assigns a fresh identity and sets both timestamps to now.
func NewBase(now time.Time) Base {
	now = normalize(now)
	return Base{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the entity identity
func (b *Base) GetID() string {
	return b.ID
}

// GetBase exposes the shared fields to repositories
func (b *Base) GetBase() *Base {
	return b
}

// Touch refreshes UpdatedAt. The new value is always strictly later than the
// previous one, even when the clock has not advanced at storage precision.
func (b *Base) Touch(now time.Time) {
	now = normalize(now)
	if !now.After(b.UpdatedAt) {
		now = b.UpdatedAt.Add(time.Microsecond)
	}
	b.UpdatedAt = now
}

// timestamps are stored at microsecond precision in UTC so records compare
// equal after a round trip through either backend
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// New returns an empty entity of the given kind.
func New(kind Kind) (Entity, error) {
	switch kind {
	case KindCountry:
		return &Country{}, nil
	case KindCity:
		return &City{}, nil
	case KindUser:
		return &User{}, nil
	case KindPlace:
		return &Place{}, nil
	case KindAmenity:
		return &Amenity{}, nil
	case KindPlaceAmenity:
		return &PlaceAmenity{}, nil
	case KindReview:
		return &Review{}, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}
