package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskmill/internal/domain"
)

// TaskStore defines the interface for task persistence. Tasks are never
// hard-deleted: parking an operator's tasks is an update, not a delete.
// Version: 1.0
type TaskStore interface {
	// Create saves a new task. Returns ErrTaskExists if a task already
	// exists for the same activity and customer, and validation errors if
	// the task data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its external identifier.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// ExistsForAssignment reports whether a task already exists for the
	// given activity and customer pair.
	ExistsForAssignment(ctx context.Context, activityID, customerID int64) (bool, error)

	// Update persists task changes with an optimistic version check: the row
	// is only written when its stored version matches task.Version, and the
	// version is incremented on success. Returns ErrConflict when another
	// writer won the race, ErrTaskNotFound when the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// ParkOpenTasks moves all open tasks (YetToStart, WIP) of the given
	// operator to Pending and returns the updated tasks.
	ParkOpenTasks(ctx context.Context, operatorID int64) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
