package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Sink accepts a lead. Implementations must honour ctx cancellation.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, lead domain.Lead) error
}

// Deduper claims a per-call key so duplicate webhooks do not re-post a lead.
type Deduper interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// ErrAllSinksFailed is returned when no sink accepted the lead.
var ErrAllSinksFailed = errors.New("no lead sink accepted the lead")

// Dispatcher fans a lead out to every configured sink.
type Dispatcher struct {
	sinks   []Sink
	dedupe  Deduper
	timeout time.Duration
	log     *logger.Logger
}

// NewDispatcher creates a dispatcher. dedupe may be nil.
func NewDispatcher(sinks []Sink, dedupe Deduper, timeout time.Duration, log *logger.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{sinks: sinks, dedupe: dedupe, timeout: timeout, log: log}
}

// SinkNames lists configured sinks in delivery order.
func (d *Dispatcher) SinkNames() []string {
	names := make([]string, len(d.sinks))
	for i, s := range d.sinks {
		names[i] = s.Name()
	}
	return names
}

// Deliver sends lead to every sink concurrently, each under its own timeout.
// Individual failures are logged. An error is returned only when every sink
// failed, and in that case the dedupe claim is released so a retry can run.
func (d *Dispatcher) Deliver(ctx context.Context, lead domain.Lead) error {
	log := d.log.WithContext(ctx)
	if len(d.sinks) == 0 {
		log.Warn("no lead sinks configured; lead dropped", "lead_id", lead.ID.String(), "material", lead.Material)
		return nil
	}

	key := lead.DedupeKey()
	claimed := false
	if d.dedupe != nil && key != "" {
		first, err := d.dedupe.Claim(ctx, key)
		switch {
		case err != nil:
			log.Warn("lead dedupe unavailable; delivering anyway", "lead_id", lead.ID.String(), "error", err)
		case !first:
			log.Info("duplicate lead skipped", "lead_id", lead.ID.String(), "key", key)
			return nil
		default:
			claimed = true
		}
	}

	errs := make([]error, len(d.sinks))
	var g errgroup.Group
	for i, sink := range d.sinks {
		i, sink := i, sink
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			if err := sink.Deliver(sctx, lead); err != nil {
				log.LeadDeliveryFailed(sink.Name(), lead.ID.String(), err)
				errs[i] = fmt.Errorf("%s: %w", sink.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed < len(d.sinks) {
		log.Info("lead delivered", "lead_id", lead.ID.String(), "sinks", len(d.sinks)-failed, "failed", failed)
		return nil
	}

	if claimed {
		if err := d.dedupe.Release(context.WithoutCancel(ctx), key); err != nil {
			log.Warn("failed to release lead dedupe key", "key", key, "error", err)
		}
	}
	return fmt.Errorf("%w: %w", ErrAllSinksFailed, errors.Join(errs...))
}
