package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/store"
)

// MockDirectory implements the read-only directory interfaces
// (store.ActivityDirectory, store.OperatorDirectory, store.CustomerDirectory)
// plus store.HolidayStore and store.WorkLogStore for testing.
type MockDirectory struct {
	// Function fields for customizable behavior
	GetActivityFn  func(ctx context.Context, id int64) (*domain.Activity, error)
	GetOperatorFn  func(ctx context.Context, id int64) (*domain.Operator, error)
	GetCustomerFn  func(ctx context.Context, id int64) (*domain.Customer, error)
	ListHolidaysFn func(ctx context.Context) ([]time.Time, error)
	HoursLoggedFn  func(ctx context.Context, taskID string) (float64, error)

	// Data for default implementation
	Activities map[int64]*domain.Activity
	Operators  map[int64]*domain.Operator
	Customers  map[int64]*domain.Customer
	Holidays   []time.Time
	Hours      map[string]float64
}

// NewMockDirectory creates a new mock directory with initialized defaults
func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		Activities: make(map[int64]*domain.Activity),
		Operators:  make(map[int64]*domain.Operator),
		Customers:  make(map[int64]*domain.Customer),
		Hours:      make(map[string]float64),
	}
}

// GetActivity implements the ActivityDirectory interface
func (m *MockDirectory) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	if m.GetActivityFn != nil {
		return m.GetActivityFn(ctx, id)
	}

	activity, exists := m.Activities[id]
	if !exists {
		return nil, store.ErrActivityNotFound
	}
	return activity, nil
}

// GetOperator implements the OperatorDirectory interface
func (m *MockDirectory) GetOperator(ctx context.Context, id int64) (*domain.Operator, error) {
	if m.GetOperatorFn != nil {
		return m.GetOperatorFn(ctx, id)
	}

	operator, exists := m.Operators[id]
	if !exists {
		return nil, store.ErrOperatorNotFound
	}
	return operator, nil
}

// GetCustomer implements the CustomerDirectory interface
func (m *MockDirectory) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	if m.GetCustomerFn != nil {
		return m.GetCustomerFn(ctx, id)
	}

	customer, exists := m.Customers[id]
	if !exists {
		return nil, store.ErrCustomerNotFound
	}
	return customer, nil
}

// ListHolidays implements the HolidayStore interface
func (m *MockDirectory) ListHolidays(ctx context.Context) ([]time.Time, error) {
	if m.ListHolidaysFn != nil {
		return m.ListHolidaysFn(ctx)
	}
	return m.Holidays, nil
}

// HoursLogged implements the WorkLogStore interface
func (m *MockDirectory) HoursLogged(ctx context.Context, taskID string) (float64, error) {
	if m.HoursLoggedFn != nil {
		return m.HoursLoggedFn(ctx, taskID)
	}
	return m.Hours[taskID], nil
}
