package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marmurfit_voicebot/internal/catalog"
	"marmurfit_voicebot/internal/estimate"
	"marmurfit_voicebot/internal/events"
	apphttp "marmurfit_voicebot/internal/http"
	"marmurfit_voicebot/internal/http/router"
	"marmurfit_voicebot/internal/leads"
	"marmurfit_voicebot/internal/notification"
	"marmurfit_voicebot/internal/scheduler"
	"marmurfit_voicebot/internal/voice"
	"marmurfit_voicebot/internal/voice/handler"
	"marmurfit_voicebot/internal/whatsapp"
	"marmurfit_voicebot/platform/config"
	"marmurfit_voicebot/platform/db"
	"marmurfit_voicebot/platform/logger"
	"marmurfit_voicebot/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	pool := initDatabase(ctx, cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule, err := catalog.NewModule(cfg, val, log)
	if err != nil {
		log.Error("failed to load catalog", "path", cfg.GetCatalogPath(), "error", err)
		panic("failed to load catalog: " + err.Error())
	}
	estimateModule := estimate.NewModule(catalogModule.Catalog(), val)

	// Notification module subscribes to domain events (not HTTP-facing)
	var sender notification.WhatsAppSender
	if client := whatsapp.NewClient(cfg, log); client != nil {
		sender = client
	} else {
		log.Warn("WHATSAPP_URL not configured; call summaries will only be logged")
	}
	notificationModule := notification.New(sender, log)
	notificationModule.RegisterHandlers(eventBus)

	publisher, worker, closeQueue := initLeadDelivery(cfg, pool, eventBus, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	voiceModule := voice.NewModule(cfg, estimateModule.Interpreter(), catalogModule.Catalog(), publisher, eventBus, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			catalogModule,
			estimateModule,
			voiceModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if worker != nil {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}

	// Let in-flight lead and summary handlers finish before exiting.
	eventBus.Wait()
	log.Info("server stopped")
}

// initDatabase runs migrations and opens the journal pool. It returns nil
// when DATABASE_URL is unset.
func initDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) *pgxpool.Pool {
	if !cfg.IsDatabaseEnabled() {
		log.Info("DATABASE_URL not configured; lead journal disabled")
		return nil
	}

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")
	return pool
}

// initLeadDelivery picks the lead publisher. With Redis, leads go through the
// asynq queue and an embedded worker may drain it; without Redis they are
// delivered in-process from the event bus.
func initLeadDelivery(cfg *config.Config, pool *pgxpool.Pool, bus *events.InMemoryBus, log *logger.Logger) (handler.LeadPublisher, *scheduler.Worker, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; leads are delivered in-process without retries")
		leadsModule := leads.NewModule(cfg, pool, nil, log)
		leadsModule.RegisterHandlers(bus)
		return leads.NewBusPublisher(bus), nil, nil
	}

	queue, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize lead queue client", "error", err)
		panic("failed to initialize lead queue client: " + err.Error())
	}
	closers := []func(){func() { _ = queue.Close() }}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if !cfg.IsEmbeddedWorkerEnabled() {
		log.Info("embedded lead worker disabled; run cmd/worker to drain the queue")
		return queue, nil, closeAll
	}

	rdb, err := scheduler.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		panic("failed to initialize redis client: " + err.Error())
	}
	closers = append(closers, func() { _ = rdb.Close() })

	leadsModule := leads.NewModule(cfg, pool, rdb, log)
	worker, err := scheduler.NewWorker(cfg, leadsModule.Dispatcher(), log)
	if err != nil {
		log.Error("failed to initialize lead worker", "error", err)
		panic("failed to initialize lead worker: " + err.Error())
	}

	return queue, worker, closeAll
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
