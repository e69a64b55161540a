package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"DataDigest/internal/app"
	"DataDigest/internal/config"
	"DataDigest/internal/logging"
	"DataDigest/internal/telemetry"
)

func main() {
	seed := flag.Int64("seed", 0, "fixed simulation seed (0 keeps the configured or a random seed)")
	serve := flag.Bool("serve", false, "run on the configured schedule and serve the latest run over HTTP")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	shutdown, err := telemetry.Setup(ctx, "datadigest", cfg.Telemetry.Endpoint)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}
	defer application.Close(context.Background())

	if *serve {
		err = application.Serve(ctx)
	} else {
		_, err = application.Run(ctx)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		_ = application.Close(context.Background())
		os.Exit(1)
	}
}
