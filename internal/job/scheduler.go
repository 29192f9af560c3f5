package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/packlane/packlane-api/internal/config"
	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/events"
	"github.com/packlane/packlane-api/internal/redact"
	"github.com/packlane/packlane-api/internal/store"
)

// Pipeline runs the full generation flow for one trip request and returns
// the ID of the persisted trip.
type Pipeline interface {
	Run(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (uuid.UUID, error)
}

// Scheduler owns the worker pool that drains the job queue. Each worker
// takes one job at a time, drives it through the state machine, and applies
// the retry policy: transient failures back off exponentially (1s, 2s, 4s)
// up to MaxRetries extra attempts, all under one hard wall-clock deadline.
type Scheduler struct {
	jobs     store.JobStore
	pipeline Pipeline
	queue    *Queue
	cfg      config.JobsConfig
	logger   *slog.Logger
	emitter  events.Emitter

	// retryBase is the backoff unit; attempts wait base, 2*base, 4*base.
	retryBase time.Duration

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewScheduler creates a scheduler over the given store and pipeline. The
// emitter may be nil, which disables lifecycle events.
func NewScheduler(
	jobs store.JobStore,
	pipeline Pipeline,
	cfg config.JobsConfig,
	emitter events.Emitter,
	logger *slog.Logger,
) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		jobs:       jobs,
		pipeline:   pipeline,
		queue:      NewQueue(cfg.QueueSize, logger),
		cfg:        cfg,
		logger:     logger.With("component", "job_scheduler"),
		emitter:    emitter,
		retryBase:  time.Second,
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Submit validates the request, creates a pending job, and queues it.
// Returns ErrQueueFull when the submission buffer is exhausted; the job is
// not stored in that case, so the client can simply resubmit.
func (s *Scheduler) Submit(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (*domain.TripGenerationJob, error) {
	job, err := domain.NewTripGenerationJob(ownerID, req, s.cfg.MaxRetries)
	if err != nil {
		return nil, err
	}

	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	if err := s.queue.Enqueue(job.ID); err != nil {
		if deleteErr := s.jobs.Delete(ctx, job.ID); deleteErr != nil {
			s.logger.Error("failed to remove unqueueable job",
				"job_id", job.ID, "error", deleteErr)
		}
		return nil, err
	}

	s.emit(ctx, events.TypeJobSubmitted, map[string]any{
		"job_id":      job.ID,
		"destination": req.Destination,
		"travelers":   len(req.Travelers),
	})

	s.logger.Info("job submitted",
		"job_id", job.ID,
		"destination", req.Destination,
		"queue_len", s.queue.Len())
	return job, nil
}

// Start launches the worker pool.
func (s *Scheduler) Start() {
	for i := 0; i < s.cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	s.logger.Info("scheduler started", "worker_count", s.cfg.WorkerCount)
}

// Stop closes the queue and waits for in-flight jobs to finish their
// current attempt.
func (s *Scheduler) Stop() {
	s.queue.Close()
	s.cancelFunc()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// worker drains the queue until it is closed or the scheduler shuts down.
func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("starting worker", "worker_id", id)
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debug("stopping worker", "worker_id", id)
			return
		case jobID, ok := <-s.queue.Chan():
			if !ok {
				s.logger.Debug("queue closed, stopping worker", "worker_id", id)
				return
			}
			s.processJob(jobID, id)
		}
	}
}

// processJob drives one job from pending to a terminal state.
func (s *Scheduler) processJob(jobID uuid.UUID, workerID int) {
	logger := s.logger.With("job_id", jobID, "worker_id", workerID)

	// Workers outlive request contexts; the hard timeout is the only bound.
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HardTimeout)
	defer cancel()

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		logger.Error("failed to load queued job", "error", err)
		return
	}
	if job.IsTerminal() {
		// The janitor got to it first.
		logger.Warn("skipping terminal job", "status", job.Status)
		return
	}

	s.emit(ctx, events.TypeJobStarted, map[string]any{"job_id": jobID})

	started := time.Now()
	var tripID uuid.UUID
	var lastErr error

	backoff := retry.WithMaxRetries(uint64(s.cfg.MaxRetries), retry.NewExponential(s.retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := job.MarkProcessing(); err != nil {
			return err
		}
		if err := s.jobs.Update(ctx, job); err != nil {
			return err
		}

		attemptStart := time.Now()
		id, runErr := s.pipeline.Run(ctx, job.OwnerID, job.Request)
		if runErr != nil {
			lastErr = runErr
			logger.Error("generation attempt failed",
				"attempt", job.Attempt,
				"max_attempts", job.MaxRetries+1,
				"duration_ms", time.Since(attemptStart).Milliseconds(),
				"error", redact.Error(runErr))
			if IsRetryable(runErr) && job.CanRetry() {
				return retry.RetryableError(runErr)
			}
			return runErr
		}

		tripID = id
		return nil
	})

	elapsed := time.Since(started)
	if err != nil {
		s.failJob(ctx, job, err, lastErr, logger)
	} else {
		s.completeJob(ctx, job, tripID, logger)
	}

	if elapsed > s.cfg.WarningAfter {
		logger.Warn("slow job",
			"duration_ms", elapsed.Milliseconds(),
			"threshold_ms", s.cfg.WarningAfter.Milliseconds(),
			"attempts", job.Attempt)
	}
}

func (s *Scheduler) completeJob(ctx context.Context, job *domain.TripGenerationJob, tripID uuid.UUID, logger *slog.Logger) {
	if err := job.MarkCompleted(tripID); err != nil {
		logger.Error("failed to mark job completed", "error", err)
		return
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		logger.Error("failed to persist completed job", "error", err)
		return
	}

	s.emit(ctx, events.TypeJobCompleted, map[string]any{
		"job_id":   job.ID,
		"trip_id":  tripID,
		"attempts": job.Attempt,
	})
	logger.Info("job completed", "trip_id", tripID, "attempts", job.Attempt)
}

func (s *Scheduler) failJob(ctx context.Context, job *domain.TripGenerationJob, err, lastErr error, logger *slog.Logger) {
	// A deadline hit during backoff surfaces as the context error; the
	// attempt error carries the real cause for classification.
	cause := err
	if lastErr != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
		cause = fmt.Errorf("%w: last attempt: %s", err, redact.Error(lastErr))
	}

	kind, message := Classify(cause)
	if markErr := job.MarkFailed(kind, message); markErr != nil {
		logger.Error("failed to mark job failed", "error", markErr)
		return
	}
	if updateErr := s.jobs.Update(ctx, job); updateErr != nil {
		logger.Error("failed to persist failed job", "error", updateErr)
		return
	}

	s.emit(ctx, events.TypeJobFailed, map[string]any{
		"job_id":   job.ID,
		"kind":     kind,
		"attempts": job.Attempt,
	})
	logger.Error("job failed",
		"kind", kind,
		"attempts", job.Attempt,
		"error", redact.Error(err))
}

func (s *Scheduler) emit(ctx context.Context, eventType string, payload map[string]any) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		s.logger.Error("failed to build event", "event_type", eventType, "error", err)
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit event", "event_type", eventType, "error", err)
	}
}
