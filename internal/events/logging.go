package events

import (
	"context"
	"log/slog"
)

// LoggingEventHandler records every lifecycle event in the structured log.
// It is the default observer wired in the server.
type LoggingEventHandler struct {
	logger *slog.Logger
}

// Verify LoggingEventHandler implements EventHandler
var _ EventHandler = (*LoggingEventHandler)(nil)

// NewLoggingEventHandler creates a handler that logs events at info level.
func NewLoggingEventHandler(logger *slog.Logger) *LoggingEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventHandler{logger: logger.With("component", "event_log")}
}

// HandleEvent logs the event and never fails.
func (h *LoggingEventHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	h.logger.InfoContext(ctx, "task lifecycle event",
		"event_id", event.ID,
		"event_type", event.Type,
		"task_id", event.TaskID)
	return nil
}
