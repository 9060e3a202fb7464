package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskmill/internal/dispatch"
	"github.com/phrazzld/taskmill/internal/domain"
)

// MockDeliveryChannel implements dispatch.DeliveryChannel for testing
type MockDeliveryChannel struct {
	// Function field for customizable behavior
	DeliverFn func(ctx context.Context, msg dispatch.Message) error

	// Data for default implementation
	mu           sync.Mutex
	Delivered    []dispatch.Message
	DeliverError error
}

// Deliver implements the DeliveryChannel interface
func (m *MockDeliveryChannel) Deliver(ctx context.Context, msg dispatch.Message) error {
	if m.DeliverFn != nil {
		return m.DeliverFn(ctx, msg)
	}

	if m.DeliverError != nil {
		return m.DeliverError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Delivered = append(m.Delivered, msg)
	return nil
}

// DeliveredCount returns how many messages the default implementation accepted.
func (m *MockDeliveryChannel) DeliveredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Delivered)
}

// MockCalendarChannel implements dispatch.CalendarChannel for testing
type MockCalendarChannel struct {
	// Function field for customizable behavior
	AddEventFn func(ctx context.Context, task *domain.Task) error

	// Data for default implementation
	mu            sync.Mutex
	Events        []string // task IDs
	AddEventError error
}

// AddEvent implements the CalendarChannel interface
func (m *MockCalendarChannel) AddEvent(ctx context.Context, task *domain.Task) error {
	if m.AddEventFn != nil {
		return m.AddEventFn(ctx, task)
	}

	if m.AddEventError != nil {
		return m.AddEventError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, task.ID)
	return nil
}

// EventCount returns how many events the default implementation recorded.
func (m *MockCalendarChannel) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}
