package store

import (
	"context"
	"time"

	"github.com/phrazzld/taskmill/internal/domain"
)

// The interfaces below are read-only views of entities owned by the
// surrounding data-management system. The engine consumes them as
// collaborators; their CRUD surfaces are out of scope here.

// ActivityDirectory looks up activity templates.
type ActivityDirectory interface {
	// GetActivity returns the activity with the given ID.
	// Returns ErrActivityNotFound if it does not exist.
	GetActivity(ctx context.Context, id int64) (*domain.Activity, error)
}

// OperatorDirectory looks up operators.
type OperatorDirectory interface {
	// GetOperator returns the operator with the given ID.
	// Returns ErrOperatorNotFound if it does not exist.
	GetOperator(ctx context.Context, id int64) (*domain.Operator, error)
}

// CustomerDirectory looks up customers.
type CustomerDirectory interface {
	// GetCustomer returns the customer with the given ID.
	// Returns ErrCustomerNotFound if it does not exist.
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
}

// HolidayStore lists the externally maintained holiday dates.
type HolidayStore interface {
	ListHolidays(ctx context.Context) ([]time.Time, error)
}

// WorkLogStore aggregates logged work for a task. Used to populate a task's
// accumulated time on completion.
type WorkLogStore interface {
	// HoursLogged returns the total hours logged against the task, rounded
	// to two decimals. A task with no log entries yields zero.
	HoursLogged(ctx context.Context, taskID string) (float64, error)
}
