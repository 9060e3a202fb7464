package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn              func(ctx context.Context, task *domain.Task) error
	GetByIDFn             func(ctx context.Context, id string) (*domain.Task, error)
	ExistsForAssignmentFn func(ctx context.Context, activityID, customerID int64) (bool, error)
	UpdateFn              func(ctx context.Context, task *domain.Task) error
	ParkOpenTasksFn       func(ctx context.Context, operatorID int64) ([]*domain.Task, error)

	// Data for default implementation
	mu          sync.Mutex
	Tasks       map[string]*domain.Task
	CreateError error
	UpdateError error
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[string]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tasks[task.ID]; exists {
		return store.ErrTaskExists
	}

	clone := *task
	m.Tasks[task.ID] = &clone
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}

	clone := *task
	return &clone, nil
}

// ExistsForAssignment implements the TaskStore interface
func (m *MockTaskStore) ExistsForAssignment(
	ctx context.Context,
	activityID, customerID int64,
) (bool, error) {
	if m.ExistsForAssignmentFn != nil {
		return m.ExistsForAssignmentFn(ctx, activityID, customerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, task := range m.Tasks {
		if task.ActivityID == activityID && task.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	if m.UpdateError != nil {
		return m.UpdateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.Tasks[task.ID]
	if !exists {
		return store.ErrTaskNotFound
	}
	if existing.Version != task.Version {
		return store.ErrConflict
	}

	task.Version++
	clone := *task
	m.Tasks[task.ID] = &clone
	return nil
}

// ParkOpenTasks implements the TaskStore interface
func (m *MockTaskStore) ParkOpenTasks(
	ctx context.Context,
	operatorID int64,
) ([]*domain.Task, error) {
	if m.ParkOpenTasksFn != nil {
		return m.ParkOpenTasksFn(ctx, operatorID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var parked []*domain.Task
	for _, task := range m.Tasks {
		if task.Assignee.OperatorID == operatorID && task.Status.IsOpen() {
			task.Status = domain.StatusPending
			task.Version++
			clone := *task
			parked = append(parked, &clone)
		}
	}
	return parked, nil
}

// WithTx implements the TaskStore interface; the mock ignores transactions.
func (m *MockTaskStore) WithTx(_ *sql.Tx) store.TaskStore {
	return m
}
