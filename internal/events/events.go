package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the kind of change an event describes.
type Type string

// Supported event types.
const (
	TypeCreate Type = "CREATE"
	TypeDelete Type = "DELETE"
)

var (
	// ErrUnsupportedEventType is returned when an envelope names a type other
	// than CREATE or DELETE.
	ErrUnsupportedEventType = errors.New("unsupported event type")

	// ErrMalformedEvent is returned when an envelope cannot be decoded or is
	// missing a required part.
	ErrMalformedEvent = errors.New("malformed event")
)

// Event is the envelope for a change to an entity of type T. Key is the
// natural key prefix the event applies to. Data is set for CREATE and nil for
// DELETE.
type Event[T any] struct {
	ID        uuid.UUID `json:"eventId"`
	Type      Type      `json:"eventType"`
	Key       int       `json:"key"`
	Data      *T        `json:"data"`
	CreatedAt time.Time `json:"eventCreatedAt"`
}

// NewCreateEvent creates a CREATE event for data under key.
func NewCreateEvent[T any](key int, data T) Event[T] {
	return Event[T]{
		ID:        uuid.New(),
		Type:      TypeCreate,
		Key:       key,
		Data:      &data,
		CreatedAt: time.Now().UTC(),
	}
}

// NewDeleteEvent creates a DELETE event for every entity under key.
func NewDeleteEvent[T any](key int) Event[T] {
	return Event[T]{
		ID:        uuid.New(),
		Type:      TypeDelete,
		Key:       key,
		CreatedAt: time.Now().UTC(),
	}
}

// Encode serializes the event to its JSON wire form.
func (e Event[T]) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses a JSON envelope. Unknown types fail with
// ErrUnsupportedEventType; undecodable payloads and CREATE events without
// data fail with ErrMalformedEvent.
func Decode[T any](payload []byte) (Event[T], error) {
	var e Event[T]
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event[T]{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch e.Type {
	case TypeCreate:
		if e.Data == nil {
			return Event[T]{}, fmt.Errorf("%w: %s event %s has no data", ErrMalformedEvent, e.Type, e.ID)
		}
	case TypeDelete:
	default:
		return Event[T]{}, fmt.Errorf("%w: %q", ErrUnsupportedEventType, e.Type)
	}

	return e, nil
}
