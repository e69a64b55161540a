package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"DataDigest/internal/config"
	"DataDigest/internal/httpapi"
	"DataDigest/internal/infrastructure/docstore"
	"DataDigest/internal/infrastructure/export"
	"DataDigest/internal/infrastructure/memory"
	"DataDigest/internal/infrastructure/parser"
	"DataDigest/internal/infrastructure/scheduler"
	"DataDigest/internal/infrastructure/telegram"
	"DataDigest/internal/infrastructure/transform"
	"DataDigest/internal/infrastructure/warehouse"
	"DataDigest/internal/logging"
	"DataDigest/internal/ports"
	"DataDigest/internal/scanner"
	"DataDigest/internal/simulation"
	"DataDigest/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

var _ ports.Simulator = (*simulation.Engine)(nil)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	snapshots *memory.SnapshotStore
	closers   []func(context.Context) error
}

// New builds the application. Optional sinks are opened only when configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	a := &Application{cfg: cfg, logger: baseLogger, snapshots: memory.NewSnapshotStore()}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewRSSScanner(nil, baseLogger.With("component", "scanner.rss")))
	registry.Register(parser.NewFileScanner(baseLogger.With("component", "scanner.file")))
	baseLogger.Debug("scanners registered", "names", registry.Names())

	deps := usecase.PipelineDeps{
		Source:    parser.NewStrategySource(registry, cfg.Sites, baseLogger.With("component", "source")),
		Simulator: simulation.NewEngine(simulation.DefaultTables()),
		Snapshots: a.snapshots,
		Logger:    baseLogger.With("component", "pipeline"),
		Seed:      cfg.Simulation.Seed,
	}

	if cfg.Output.Dir != "" {
		deps.Exporter = export.NewExporter(cfg.Output.Dir, cfg.Output.Formats, baseLogger.With("component", "export"))
	}

	if cfg.Warehouse.Path != "" {
		wh, err := warehouse.Open(ctx, cfg.Warehouse.Path, baseLogger.With("component", "warehouse"))
		if err != nil {
			return nil, fmt.Errorf("open warehouse: %w", err)
		}
		deps.Warehouse = wh
		a.closers = append(a.closers, func(context.Context) error { return wh.Close() })
	}

	if cfg.DocumentStore.URI != "" {
		store, err := docstore.Open(ctx, cfg.DocumentStore.URI, cfg.DocumentStore.Database, baseLogger.With("component", "docstore"))
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("open document store: %w", err)
		}
		deps.Documents = store
		a.closers = append(a.closers, store.Close)
	}

	if cfg.Transform.Command != "" {
		deps.Transformer = transform.NewRunner(cfg.Transform.Command, cfg.Transform.ProjectDir, cfg.Transform.Steps, baseLogger.With("component", "transform"))
	}

	if cfg.Notifications.Telegram.Enabled() {
		deps.Notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	a.pipeline = usecase.NewPipeline(deps)
	return a, nil
}

// Run performs a single pipeline execution for the current day.
func (a *Application) Run(ctx context.Context) (usecase.Result, error) {
	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.pipeline.Run(ctx, now)
}

// Serve runs the pipeline on the configured schedule and exposes the latest run
// over HTTP until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	driver, err := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	if err != nil {
		return fmt.Errorf("configure scheduler: %w", err)
	}
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression, "next_run", driver.NextRun(time.Now()))

	srv := httpapi.NewServer(a.cfg.HTTP.Addr, a.snapshots, a.logger.With("component", "http"))
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown", "error", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}

	return serveErr
}

// Close releases the warehouse and document store connections.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
