package job

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Common errors returned by the Queue
var (
	ErrQueueClosed = errors.New("job queue is closed")
	ErrQueueFull   = errors.New("job queue is full")
)

// Queue is a bounded in-memory queue of job IDs awaiting a worker. Workers
// look the job up in the store on dequeue so they always see its latest
// state, not a snapshot from submission time.
type Queue struct {
	ids    chan uuid.UUID
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewQueue creates a new job queue with the specified buffer size.
func NewQueue(size int, logger *slog.Logger) *Queue {
	return &Queue{
		ids:    make(chan uuid.UUID, size),
		logger: logger.With("component", "job_queue"),
	}
}

// Enqueue adds a job ID to the queue for processing.
// Returns an error if the queue is full or closed.
func (q *Queue) Enqueue(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ids <- id:
		q.logger.Debug("job enqueued",
			"job_id", id,
			"queue_len", len(q.ids),
			"queue_cap", cap(q.ids))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.ids))
	}
}

// Close closes the queue, preventing further submission. Workers drain the
// remaining IDs and then exit.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ids)
		q.logger.Info("job queue closed")
	}
}

// Chan returns a read-only channel for consuming job IDs.
func (q *Queue) Chan() <-chan uuid.UUID {
	return q.ids
}

// Len returns the number of jobs currently waiting.
func (q *Queue) Len() int {
	return len(q.ids)
}
