package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of a trip generation job.
type JobStatus string

// Possible job status values
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// FailureKind classifies why a job failed. It drives retry decisions
// (transient failures are retried, validation failures are not) and is
// reported to clients alongside the user-safe error message.
type FailureKind string

// Possible failure kind values
const (
	FailureTimeout    FailureKind = "timeout"
	FailureValidation FailureKind = "validation"
	FailureTransient  FailureKind = "transient"
	FailureStorage    FailureKind = "storage"
	FailureUnknown    FailureKind = "unknown"
)

// Common validation errors for TripGenerationJob
var (
	ErrEmptyJobID      = errors.New("job ID cannot be empty")
	ErrEmptyJobOwnerID = errors.New("job owner ID cannot be empty")
	ErrEmptyJobError   = errors.New("failed job must carry an error message")
	ErrEmptyJobTripID  = errors.New("completed job must carry a trip ID")
)

// TripGenerationJob tracks one request to generate a trip's packing lists.
// The request is immutable after submission; status, attempt count, and the
// result fields are mutated exclusively through the transition methods so
// that a terminal job can never change again and TripID and ErrorMessage
// stay mutually exclusive.
type TripGenerationJob struct {
	ID           uuid.UUID   `json:"id"`
	OwnerID      uuid.UUID   `json:"owner_id"`
	Request      TripRequest `json:"request"`
	Status       JobStatus   `json:"status"`
	TripID       uuid.UUID   `json:"trip_id,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
	ErrorKind    FailureKind `json:"error_kind,omitempty"`
	Attempt      int         `json:"attempt"`
	MaxRetries   int         `json:"max_retries"`
	StartedAt    *time.Time  `json:"started_at,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewTripGenerationJob creates a pending job for the given owner and
// request. The request is validated up front so a malformed submission
// never reaches the scheduler.
func NewTripGenerationJob(ownerID uuid.UUID, req TripRequest, maxRetries int) (*TripGenerationJob, error) {
	if ownerID == uuid.Nil {
		return nil, ErrEmptyJobOwnerID
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &TripGenerationJob{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Request:    req,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsTerminal reports whether the job has reached a final state.
func (j *TripGenerationJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// MarkProcessing transitions the job to processing and counts the attempt.
// Valid from pending (first attempt) and from processing (internal retry,
// invisible to clients). Terminal jobs are never restarted.
func (j *TripGenerationJob) MarkProcessing() error {
	if j.IsTerminal() {
		return ErrTerminalJob
	}

	now := time.Now().UTC()
	j.Status = JobStatusProcessing
	j.Attempt++
	j.StartedAt = &now
	j.UpdatedAt = now
	return nil
}

// MarkCompleted transitions the job to completed and attaches the
// generated trip's ID. Only valid from processing.
func (j *TripGenerationJob) MarkCompleted(tripID uuid.UUID) error {
	if j.IsTerminal() {
		return ErrTerminalJob
	}
	if j.Status != JobStatusProcessing {
		return ErrInvalidJobStatus
	}
	if tripID == uuid.Nil {
		return ErrEmptyJobTripID
	}

	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.TripID = tripID
	j.ErrorMessage = ""
	j.ErrorKind = ""
	j.CompletedAt = &now
	j.UpdatedAt = now
	return nil
}

// MarkFailed transitions the job to failed with a classified, user-safe
// error message. Valid from pending or processing; terminal jobs are
// left untouched.
func (j *TripGenerationJob) MarkFailed(kind FailureKind, message string) error {
	if j.IsTerminal() {
		return ErrTerminalJob
	}
	if message == "" {
		return ErrEmptyJobError
	}
	if kind == "" {
		kind = FailureUnknown
	}

	now := time.Now().UTC()
	j.Status = JobStatusFailed
	j.TripID = uuid.Nil
	j.ErrorMessage = message
	j.ErrorKind = kind
	j.CompletedAt = &now
	j.UpdatedAt = now
	return nil
}

// CanRetry reports whether another pipeline attempt is allowed. Validation
// failures are never retried; otherwise the job may run until it has used
// MaxRetries retries on top of the initial attempt.
func (j *TripGenerationJob) CanRetry() bool {
	if j.IsTerminal() {
		return false
	}
	if j.ErrorKind == FailureValidation {
		return false
	}
	return j.Attempt <= j.MaxRetries
}
