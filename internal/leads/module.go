// Package leads delivers leads captured by the call flow to the configured
// sinks (sales sheet webhook, email, Postgres journal).
package leads

import (
	"context"

	"marmurfit_voicebot/internal/events"
	"marmurfit_voicebot/internal/leads/dedupe"
	"marmurfit_voicebot/internal/leads/journal"
	"marmurfit_voicebot/internal/leads/mailer"
	"marmurfit_voicebot/internal/leads/sheets"
	"marmurfit_voicebot/platform/config"
	"marmurfit_voicebot/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ModuleConfig combines the config interfaces the sinks need.
type ModuleConfig interface {
	config.LeadsConfig
	config.SMTPConfig
}

// Module owns the dispatcher and its sinks. It is not HTTP-facing.
type Module struct {
	dispatcher *Dispatcher
	log        *logger.Logger
}

// NewModule wires every sink that is configured. pool and rdb may be nil.
func NewModule(cfg ModuleConfig, pool *pgxpool.Pool, rdb redis.Cmdable, log *logger.Logger) *Module {
	var sinks []Sink
	if c := sheets.NewClient(cfg, log); c != nil {
		sinks = append(sinks, c)
	}
	if s := mailer.NewSender(cfg, cfg, log); s != nil {
		sinks = append(sinks, s)
	}
	if r := journal.NewRepository(pool); r != nil {
		sinks = append(sinks, r)
	}

	var dd Deduper
	if rdb != nil {
		dd = dedupe.New(rdb, cfg.GetLeadDedupeTTL())
	}

	d := NewDispatcher(sinks, dd, cfg.GetLeadsWebhookTimeout(), log)
	if len(sinks) == 0 {
		log.Warn("LEADS_WEBHOOK_URL, LEADS_EMAIL_TO and DATABASE_URL are all unset; leads will only be logged")
	} else {
		log.Info("lead sinks configured", "sinks", d.SinkNames())
	}

	return &Module{dispatcher: d, log: log}
}

// Dispatcher returns the shared dispatcher for the asynq worker.
func (m *Module) Dispatcher() *Dispatcher {
	return m.dispatcher
}

// RegisterHandlers subscribes to lead events on the in-process bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCaptured:
		return m.dispatcher.Deliver(ctx, e.Lead)
	default:
		m.log.Warn("leads module received unexpected event", "event", event.EventName())
		return nil
	}
}
