package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJob(t *testing.T) *TripGenerationJob {
	t.Helper()

	job, err := NewTripGenerationJob(uuid.New(), validRequest(), 2)
	require.NoError(t, err)
	return job
}

func TestNewTripGenerationJob(t *testing.T) {
	t.Parallel()

	job := newTestJob(t)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 0, job.Attempt)
	assert.Equal(t, 2, job.MaxRetries)
	assert.Equal(t, uuid.Nil, job.TripID)
	assert.Empty(t, job.ErrorMessage)
}

func TestNewTripGenerationJob_InvalidRequest(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.Travelers = nil

	_, err := NewTripGenerationJob(uuid.New(), req, 2)
	assert.ErrorIs(t, err, ErrNoTravelers)

	_, err = NewTripGenerationJob(uuid.Nil, validRequest(), 2)
	assert.ErrorIs(t, err, ErrEmptyJobOwnerID)
}

func TestJobTransitions_HappyPath(t *testing.T) {
	t.Parallel()

	job := newTestJob(t)

	require.NoError(t, job.MarkProcessing())
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.Equal(t, 1, job.Attempt)
	require.NotNil(t, job.StartedAt)

	tripID := uuid.New()
	require.NoError(t, job.MarkCompleted(tripID))
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Equal(t, tripID, job.TripID)
	assert.Empty(t, job.ErrorMessage)
	require.NotNil(t, job.CompletedAt)
}

func TestJobTransitions_Failure(t *testing.T) {
	t.Parallel()

	job := newTestJob(t)
	require.NoError(t, job.MarkProcessing())

	require.NoError(t, job.MarkFailed(FailureTransient, "weather provider unavailable"))
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, FailureTransient, job.ErrorKind)
	// TripID and ErrorMessage are mutually exclusive.
	assert.Equal(t, uuid.Nil, job.TripID)
	assert.NotEmpty(t, job.ErrorMessage)
}

func TestJobTransitions_TerminalStability(t *testing.T) {
	t.Parallel()

	t.Run("completed stays completed", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t)
		require.NoError(t, job.MarkProcessing())
		require.NoError(t, job.MarkCompleted(uuid.New()))

		assert.ErrorIs(t, job.MarkProcessing(), ErrTerminalJob)
		assert.ErrorIs(t, job.MarkFailed(FailureUnknown, "late failure"), ErrTerminalJob)
		assert.ErrorIs(t, job.MarkCompleted(uuid.New()), ErrTerminalJob)
		assert.Equal(t, JobStatusCompleted, job.Status)
	})

	t.Run("failed stays failed", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t)
		require.NoError(t, job.MarkProcessing())
		require.NoError(t, job.MarkFailed(FailureTimeout, "generation timed out, please try again"))

		assert.ErrorIs(t, job.MarkProcessing(), ErrTerminalJob)
		assert.ErrorIs(t, job.MarkCompleted(uuid.New()), ErrTerminalJob)
		assert.Equal(t, JobStatusFailed, job.Status)
	})
}

func TestJob_MarkCompletedRequiresProcessing(t *testing.T) {
	t.Parallel()

	job := newTestJob(t)
	assert.ErrorIs(t, job.MarkCompleted(uuid.New()), ErrInvalidJobStatus)
}

func TestJob_CanRetry(t *testing.T) {
	t.Parallel()

	job := newTestJob(t)

	// First attempt fails: two retries remain.
	require.NoError(t, job.MarkProcessing())
	assert.True(t, job.CanRetry())

	require.NoError(t, job.MarkProcessing())
	assert.True(t, job.CanRetry())

	// Third attempt exhausts the budget (maxRetries=2 means 3 attempts total).
	require.NoError(t, job.MarkProcessing())
	assert.False(t, job.CanRetry())
}

func TestJob_CanRetry_ValidationNeverRetries(t *testing.T) {
	t.Parallel()

	job := newTestJob(t)
	require.NoError(t, job.MarkProcessing())
	job.ErrorKind = FailureValidation

	assert.False(t, job.CanRetry())
}
