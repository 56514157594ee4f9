// Package notification reacts to voice events by messaging the caller.
package notification

import (
	"context"

	"marmurfit_voicebot/internal/events"
	"marmurfit_voicebot/platform/logger"
	"marmurfit_voicebot/platform/phone"
)

// WhatsAppSender sends WhatsApp messages.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phoneNumber string, message string) error
}

// Module sends call summaries. A nil sender only logs.
type Module struct {
	whatsapp WhatsAppSender
	log      *logger.Logger
}

// New creates the notification module.
func New(sender WhatsAppSender, log *logger.Logger) *Module {
	return &Module{whatsapp: sender, log: log}
}

// RegisterHandlers subscribes to voice events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SummaryRequested{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.SummaryRequested)
	if !ok {
		return nil
	}
	log := m.log.WithCallID(e.CallID)

	if m.whatsapp == nil {
		log.Info("whatsapp not configured; summary not sent", "phone", phone.Mask(e.CallerPhone))
		return nil
	}
	if e.CallerPhone == "" {
		log.Warn("summary requested without caller number")
		return nil
	}
	if err := m.whatsapp.SendMessage(ctx, e.CallerPhone, e.Summary); err != nil {
		log.Error("failed to send whatsapp summary", "error", err, "phone", phone.Mask(e.CallerPhone))
		return err
	}
	return nil
}
