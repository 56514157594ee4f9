package leads

import (
	"context"

	"marmurfit_voicebot/internal/events"
	"marmurfit_voicebot/internal/leads/domain"
)

// Publisher hands a captured lead off for delivery without waiting for sinks.
type Publisher interface {
	Publish(ctx context.Context, lead domain.Lead) error
}

// BusPublisher delivers through the in-process event bus.
type BusPublisher struct {
	bus events.Bus
}

// NewBusPublisher creates a publisher over bus.
func NewBusPublisher(bus events.Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// Publish emits LeadCaptured. Handlers run asynchronously.
func (p *BusPublisher) Publish(ctx context.Context, lead domain.Lead) error {
	p.bus.Publish(ctx, events.LeadCaptured{
		BaseEvent: events.NewBaseEvent(),
		Lead:      lead,
	})
	return nil
}
