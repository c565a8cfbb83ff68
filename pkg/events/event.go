// Package events defines the envelope every domain event shares. Producers
// publish onto the NATS subject tree (events.<TYPE>); the notification
// service resolves <TYPE> against the notification type registry to decide
// who gets told and how the message reads.
package events

import "time"

type Event interface {
	// EventType returns the registry code for this event (e.g. "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event, keyed by the
	// placeholder names the registry templates use.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the concrete envelope all producers use.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// StringField reads a payload value as a string, "" when absent or some
// other type. Payloads cross the bus as JSON, so ids arrive as strings
// even when the producer set a uuid.UUID.
func StringField(e Event, key string) string {
	v, _ := e.Payload()[key].(string)
	return v
}
