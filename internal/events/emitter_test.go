package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler records handled events for assertions.
type MockEventHandler struct {
	HandledCount int
	LastEvent    *TaskEvent
	HandlerError error
}

func (h *MockEventHandler) HandleEvent(_ context.Context, event *TaskEvent) error {
	h.HandledCount++
	h.LastEvent = event
	return h.HandlerError
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event, err := NewTaskEvent(TypeTaskAssigned, "421052024", map[string]string{"operator": "7"})
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)
	})

	t.Run("emit event reaches all handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event, err := NewTaskEvent(TypeTaskStatusChanged, "421052024", map[string]string{"to": "wip"})
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)

		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
		assert.Equal(t, event, handler2.LastEvent)
	})

	t.Run("failing handler does not block others", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		failing := &MockEventHandler{HandlerError: errors.New("handler error")}
		healthy := &MockEventHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(healthy)

		event, err := NewTaskEvent(TypeTaskReviewRecorded, "421052024", nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.EqualError(t, err, "handler error")
		assert.Equal(t, 1, healthy.HandledCount)
	})
}

func TestTaskEvent_UnmarshalPayload(t *testing.T) {
	t.Parallel()

	type payload struct {
		OperatorID int64 `json:"operator_id"`
	}

	event, err := NewTaskEvent(TypeTasksParked, "", payload{OperatorID: 7})
	require.NoError(t, err)

	var decoded payload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, int64(7), decoded.OperatorID)
}
