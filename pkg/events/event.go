package events

import "time"

const (
	ChatCreated   = "CHAT_CREATED"
	ChatDeleted   = "CHAT_DELETED"
	DocumentSaved = "DOCUMENT_SAVED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

// Payload returns the event data with the occurrence time added.
func (e BaseEvent) Payload() map[string]interface{} {
	out := make(map[string]interface{}, len(e.Data)+1)
	for k, v := range e.Data {
		out[k] = v
	}
	out["occurred_at"] = e.OccurredAt.UTC().Format(time.RFC3339Nano)
	return out
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewEvent stamps an event of the given type with the current time.
func NewEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}
