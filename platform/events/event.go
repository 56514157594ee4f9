// Package events is the in-process bus that carries call outcomes from the
// voice flow to the modules acting on them: captured leads to the delivery
// dispatcher and summary requests to the WhatsApp notifier.
package events

import (
	"context"
	"time"
)

// Event is anything published on the bus. EventName is the subscription key,
// namespaced by the publishing module (e.g. "voice.lead.captured").
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events to stamp them at creation.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current UTC time, matching lead timestamps.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to one event. Errors are logged by the bus on Publish and
// joined on PublishSync; they never reach the caller-facing webhook.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets tests and small subscribers register a plain function.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus is what modules depend on; InMemoryBus is the only implementation.
type Bus interface {
	// Publish hands the event to every subscriber in the background, detached
	// from ctx cancellation so a finished webhook does not abort delivery.
	Publish(ctx context.Context, event Event)
	// PublishSync runs subscribers inline and returns their joined errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
