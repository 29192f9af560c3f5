package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/packlane/packlane-api/internal/config"
	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/events"
	"github.com/packlane/packlane-api/internal/store"
)

// reapedMessage is what clients polling a reaped job see. A job only goes
// stale when its worker died without finishing, so the honest advice is to
// try again.
const reapedMessage = "generation stalled, please try again"

// cacheEvicter is the slice of the weather cache the janitor needs.
type cacheEvicter interface {
	EvictExpired() int
}

// Janitor periodically prunes the job store and the weather cache: terminal
// jobs past the retention age are deleted, jobs stuck in processing past the
// hard timeout are force-failed, and expired forecasts are evicted.
type Janitor struct {
	jobs    store.JobStore
	cache   cacheEvicter
	cfg     config.JobsConfig
	logger  *slog.Logger
	emitter events.Emitter

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewJanitor creates a janitor over the job store and weather cache. The
// emitter may be nil, which disables reap events.
func NewJanitor(
	jobs store.JobStore,
	cache cacheEvicter,
	cfg config.JobsConfig,
	emitter events.Emitter,
	logger *slog.Logger,
) *Janitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Janitor{
		jobs:       jobs,
		cache:      cache,
		cfg:        cfg,
		logger:     logger.With("component", "janitor"),
		emitter:    emitter,
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the periodic sweep.
func (j *Janitor) Start() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.cfg.JanitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-j.ctx.Done():
				return
			case <-ticker.C:
				j.RunOnce(j.ctx)
			}
		}
	}()
	j.logger.Info("janitor started", "interval", j.cfg.JanitorInterval)
}

// Stop halts the periodic sweep.
func (j *Janitor) Stop() {
	j.cancelFunc()
	j.wg.Wait()
	j.logger.Info("janitor stopped")
}

// RunOnce performs a single sweep. Exported so a shutdown hook or test can
// trigger it directly.
func (j *Janitor) RunOnce(ctx context.Context) {
	started := time.Now()

	// Stale jobs are failed before pruning so a job that is both stale and
	// ancient is reported, not silently dropped.
	reaped, err := j.jobs.FailStale(ctx, j.cfg.HardTimeout, domain.FailureTimeout, reapedMessage)
	if err != nil {
		j.logger.Error("failed to reap stale jobs", "error", err)
	}
	for _, id := range reaped {
		j.logger.Warn("reaped stale job", "job_id", id, "stuck_longer_than", j.cfg.HardTimeout)
		if j.emitter != nil {
			if event, eventErr := events.NewEvent(events.TypeJobReaped, map[string]any{"job_id": id}); eventErr == nil {
				_ = j.emitter.EmitEvent(ctx, event)
			}
		}
	}

	cutoff := time.Now().Add(-j.cfg.RetentionAge)
	removed, err := j.jobs.DeleteTerminalBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("failed to prune finished jobs", "error", err)
	}

	evicted := 0
	if j.cache != nil {
		evicted = j.cache.EvictExpired()
	}

	j.logger.Info("janitor sweep finished",
		"reaped", len(reaped),
		"removed", removed,
		"forecasts_evicted", evicted,
		"duration_ms", time.Since(started).Milliseconds())
}
