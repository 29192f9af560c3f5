package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/packlane/packlane-api/internal/domain"
)

// JobStats summarizes the job population for the stats and health endpoints.
type JobStats struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	Processing        int `json:"processing"`
	Completed         int `json:"completed"`
	Failed            int `json:"failed"`
	Stuck             int `json:"stuck"`
	CompletedLastHour int `json:"completed_last_hour"`
	FailedLastHour    int `json:"failed_last_hour"`
}

// JobStore defines the interface for trip generation job persistence.
// Implementations must return copies so callers can mutate results freely,
// and must refuse updates that would move a terminal job out of its state.
type JobStore interface {
	// Save persists a new job. Returns ErrDuplicate if a job with the same
	// ID already exists.
	Save(ctx context.Context, job *domain.TripGenerationJob) error

	// Get retrieves a job by ID. Returns ErrJobNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.TripGenerationJob, error)

	// Update replaces the stored job with the given state. Returns
	// ErrJobNotFound if the job does not exist and domain.ErrTerminalJob if
	// the stored job has already reached a terminal state.
	Update(ctx context.Context, job *domain.TripGenerationJob) error

	// Delete removes a job. Returns ErrJobNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats returns population counters. A processing job is counted as
	// stuck when it has been processing longer than stuckAge.
	Stats(ctx context.Context, stuckAge time.Duration) (JobStats, error)

	// DeleteTerminalBefore removes completed and failed jobs whose terminal
	// timestamp is before the cutoff, returning how many were removed.
	DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int, error)

	// FailStale force-fails jobs stuck in processing longer than olderThan,
	// returning the IDs that were failed.
	FailStale(ctx context.Context, olderThan time.Duration, kind domain.FailureKind, message string) ([]uuid.UUID, error)
}
