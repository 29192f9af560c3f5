// Package main implements the entry point for the Packlane API server,
// which generates per-traveler packing lists for trips using weather data
// and LLM integration, exposed through an asynchronous job API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/packlane/packlane-api/internal/config"
	"github.com/packlane/packlane-api/internal/platform/logger"
	"github.com/packlane/packlane-api/internal/platform/postgres"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply pending schema migrations and exit")
	flag.Parse()

	if err := run(*migrateOnly); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(migrateOnly bool) error {
	// A local .env is a development convenience; absence is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"workers", cfg.Jobs.WorkerCount,
		"queue_size", cfg.Jobs.QueueSize)

	ctx := context.Background()

	if err := postgres.Migrate(ctx, cfg.Database.URL, appLogger); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if migrateOnly {
		appLogger.Info("migrations applied, exiting")
		return nil
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}

	return app.serve(ctx)
}
