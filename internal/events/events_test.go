package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	type testPayload struct {
		JobID  uuid.UUID `json:"job_id"`
		Status string    `json:"status"`
	}

	payload := testPayload{
		JobID:  uuid.New(),
		Status: "completed",
	}

	event, err := NewEvent(TypeJobCompleted, payload)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeJobCompleted, event.Type)
	assert.NotNil(t, event.Payload)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded testPayload
	err = json.Unmarshal(event.Payload, &decoded)
	require.NoError(t, err)
	assert.Equal(t, payload.JobID, decoded.JobID)
	assert.Equal(t, payload.Status, decoded.Status)
}

// MockHandler implements the Handler interface for testing
type MockHandler struct {
	// The last event received by this handler
	LastEvent *Event
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the Handler interface
func (h *MockHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestHandler(t *testing.T) {
	handler := &MockHandler{}

	event, err := NewEvent(TypeJobStarted, map[string]string{"job_id": uuid.NewString()})
	require.NoError(t, err)

	err = handler.HandleEvent(context.Background(), event)
	assert.NoError(t, err)
	assert.Equal(t, 1, handler.HandledCount)
	assert.Equal(t, event, handler.LastEvent)

	expectedErr := errors.New("handler error")
	handler.HandlerError = expectedErr
	err = handler.HandleEvent(context.Background(), event)
	assert.Equal(t, expectedErr, err)
	assert.Equal(t, 2, handler.HandledCount)
}
