package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"spotter/internal/platform/config"
	"spotter/internal/platform/httpserver"
	"spotter/internal/platform/logger"
	"spotter/internal/platform/metrics"
	httptransport "spotter/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "spotter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	app, err := buildApp(cfg, infra, log)
	if err != nil {
		return err
	}

	workers, err := startWorkers(ctx, cfg, infra, log)
	if err != nil {
		return err
	}
	defer workers.Stop(log)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Metrics:   metrics.New(),
		Validator: app.validator,
		Modules:   app.modules,
		Health:    infra.healthChecks(),
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting spotter",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
		"postgres", infra.db != nil,
		"redis", infra.redis != nil,
		"kafka", infra.kafka != nil,
	)
	if err := httpserver.Run(ctx, srv, nil, httpserver.DefaultShutdownTimeout); err != nil {
		return failure(log, "http server stopped", err)
	}
	log.Info("shut down cleanly")
	return nil
}

func failure(log *slog.Logger, msg string, err error) error {
	log.Error(msg, "error", err)
	return fmt.Errorf("%s: %w", msg, err)
}
