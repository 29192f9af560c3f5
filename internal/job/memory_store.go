package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/store"
)

// MemoryStore is an in-memory store.JobStore. Jobs are tracking records for
// in-flight work and are pruned within an hour of finishing, so they live in
// process memory; a restart drops them, and clients resubmit. Generated
// trips are persisted separately.
//
// All methods return copies; the only shared mutation paths are Update,
// which refuses to touch terminal jobs, and FailStale, which only ever
// moves jobs into the failed state.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*domain.TripGenerationJob

	// now is a hook for tests to control age-based queries.
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[uuid.UUID]*domain.TripGenerationJob),
		now:  time.Now,
	}
}

// clone returns a copy safe to hand to callers. Pointer fields are never
// mutated in place by the domain transitions, only replaced, so a shallow
// copy suffices.
func clone(j *domain.TripGenerationJob) *domain.TripGenerationJob {
	c := *j
	return &c
}

// Save persists a new job.
func (m *MemoryStore) Save(_ context.Context, job *domain.TripGenerationJob) error {
	if job.ID == uuid.Nil {
		return fmt.Errorf("%w: job ID cannot be empty", store.ErrInvalidEntity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[job.ID]; exists {
		return fmt.Errorf("%w: job %s", store.ErrDuplicate, job.ID)
	}
	m.jobs[job.ID] = clone(job)
	return nil
}

// Get retrieves a job by ID.
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*domain.TripGenerationJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return clone(job), nil
}

// Update replaces the stored job state. A job that has already reached a
// terminal state is never overwritten; this is what keeps a worker from
// resurrecting a job the janitor reaped while it was running.
func (m *MemoryStore) Update(_ context.Context, job *domain.TripGenerationJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.jobs[job.ID]
	if !ok {
		return store.ErrJobNotFound
	}
	if stored.IsTerminal() {
		return domain.ErrTerminalJob
	}
	m.jobs[job.ID] = clone(job)
	return nil
}

// Delete removes a job.
func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[id]; !ok {
		return store.ErrJobNotFound
	}
	delete(m.jobs, id)
	return nil
}

// Stats returns population counters for the stats and health endpoints.
func (m *MemoryStore) Stats(_ context.Context, stuckAge time.Duration) (store.JobStats, error) {
	now := m.now()
	hourAgo := now.Add(-time.Hour)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats store.JobStats
	stats.Total = len(m.jobs)
	for _, job := range m.jobs {
		switch job.Status {
		case domain.JobStatusPending:
			stats.Pending++
		case domain.JobStatusProcessing:
			stats.Processing++
			if job.StartedAt != nil && now.Sub(*job.StartedAt) > stuckAge {
				stats.Stuck++
			}
		case domain.JobStatusCompleted:
			stats.Completed++
			if job.CompletedAt != nil && job.CompletedAt.After(hourAgo) {
				stats.CompletedLastHour++
			}
		case domain.JobStatusFailed:
			stats.Failed++
			if job.CompletedAt != nil && job.CompletedAt.After(hourAgo) {
				stats.FailedLastHour++
			}
		}
	}
	return stats, nil
}

// DeleteTerminalBefore removes finished jobs older than the cutoff.
func (m *MemoryStore) DeleteTerminalBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, job := range m.jobs {
		if job.IsTerminal() && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed, nil
}

// FailStale force-fails jobs that have been processing longer than
// olderThan. The worker that owned such a job will find it terminal on its
// next Update and abandon it.
func (m *MemoryStore) FailStale(
	_ context.Context,
	olderThan time.Duration,
	kind domain.FailureKind,
	message string,
) ([]uuid.UUID, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var failed []uuid.UUID
	for id, job := range m.jobs {
		if job.Status != domain.JobStatusProcessing {
			continue
		}
		if job.StartedAt == nil || now.Sub(*job.StartedAt) <= olderThan {
			continue
		}
		if err := job.MarkFailed(kind, message); err != nil {
			continue
		}
		failed = append(failed, id)
	}
	return failed, nil
}
