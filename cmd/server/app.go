package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/packlane/packlane-api/internal/config"
	"github.com/packlane/packlane-api/internal/events"
	"github.com/packlane/packlane-api/internal/job"
	"github.com/packlane/packlane-api/internal/platform/gemini"
	"github.com/packlane/packlane-api/internal/platform/postgres"
	"github.com/packlane/packlane-api/internal/platform/weatherapi"
	"github.com/packlane/packlane-api/internal/service/auth"
	"github.com/packlane/packlane-api/internal/service/tripgen"
	"github.com/packlane/packlane-api/internal/store"
	"github.com/packlane/packlane-api/internal/weather"
)

// application bundles the wired components of the server. Construction is
// all-or-nothing: a partially initialized application is never returned.
type application struct {
	config *config.Config
	logger *slog.Logger

	pool      *pgxpool.Pool
	trips     store.TripStore
	jobs      store.JobStore
	cache     *weather.Cache
	scheduler *job.Scheduler
	janitor   *job.Janitor
	tokens    auth.TokenService
	operator  *auth.Operator
}

// newApplication wires every component from configuration. The caller owns
// the returned application's lifecycle through serve.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	weatherClient, err := weatherapi.NewClient(cfg.Weather, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating weather client: %w", err)
	}
	cache := weather.NewCache(weatherClient, cfg.Weather.CacheTTL, cfg.Weather.CacheMaxEntries, logger)

	generator, err := gemini.NewGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(events.NewLogHandler(logger))

	trips := postgres.NewTripStore(pool, logger)
	jobs := job.NewMemoryStore()

	pipeline := tripgen.NewPipeline(cache, generator, trips, logger)
	scheduler := job.NewScheduler(jobs, pipeline, cfg.Jobs, emitter, logger)
	janitor := job.NewJanitor(jobs, cache, cfg.Jobs, emitter, logger)

	return &application{
		config:    cfg,
		logger:    logger,
		pool:      pool,
		trips:     trips,
		jobs:      jobs,
		cache:     cache,
		scheduler: scheduler,
		janitor:   janitor,
		tokens:    tokens,
		operator:  auth.NewOperator(cfg.Auth),
	}, nil
}

// cleanup releases resources in reverse dependency order: stop accepting
// work, drain the workers, then close the pool.
func (app *application) cleanup() {
	app.scheduler.Stop()
	app.janitor.Stop()
	app.pool.Close()
	app.logger.Info("application cleanup completed")
}
