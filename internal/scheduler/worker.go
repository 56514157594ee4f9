package scheduler

import (
	"context"
	"fmt"

	"marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/platform/config"
	"marmurfit_voicebot/platform/logger"

	"github.com/hibiken/asynq"
)

// LeadDeliverer is satisfied by leads.Dispatcher.
type LeadDeliverer interface {
	Deliver(ctx context.Context, lead domain.Lead) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	deliverer LeadDeliverer
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, deliverer LeadDeliverer, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			log.Error("lead delivery task failed", "task", task.Type(), "retry", retried, "max_retry", maxRetry, "error", err)
		}),
	})

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		deliverer: deliverer,
		log:       log,
	}
	w.mux.HandleFunc(TaskLeadDeliver, w.handleLeadDeliver)

	return w, nil
}

// Run processes tasks until ctx is cancelled, then drains in-flight work.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	if err := w.server.Start(w.mux); err != nil {
		w.log.Error("lead worker failed to start", "error", err)
		return err
	}
	w.log.Info("lead worker started")

	<-ctx.Done()
	w.server.Shutdown()
	w.log.Info("lead worker stopped")
	return nil
}

func (w *Worker) handleLeadDeliver(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadDeliverPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return w.deliverer.Deliver(ctx, payload.Lead)
}
