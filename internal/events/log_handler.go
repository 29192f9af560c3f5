package events

import (
	"context"
	"log/slog"
)

// LogHandler writes every lifecycle event to the structured log. It is the
// default subscriber registered at startup so job transitions are always
// observable even with no other handlers wired.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a handler that logs events at info level.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	return &LogHandler{logger: logger.With("component", "event_log_handler")}
}

// HandleEvent implements the Handler interface.
func (h *LogHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.logger.InfoContext(ctx, "job lifecycle event",
		"event_id", event.ID,
		"event_type", event.Type,
		"payload", string(event.Payload))
	return nil
}
