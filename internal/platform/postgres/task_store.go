package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/platform/logger"
	"github.com/phrazzld/taskmill/internal/store"
)

// taskColumns is the canonical column list for scanning tasks.
const taskColumns = `id, activity_id, name, customer_id, customer_name,
	operator_id, operator_name, operator_email,
	criticality, duration, due_date, actual_date, time_taken,
	remarks, link, status, reviewer_status, version, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db store.DBTX
}

// Verify PostgresTaskStore implements store.TaskStore
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{
		db: db,
	}
}

// WithTx returns a new TaskStore instance backed by the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db: tx,
	}
}

// Create implements store.TaskStore.Create.
// Returns store.ErrTaskExists on a duplicate task ID and validation errors
// when the task data is invalid.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.ActivityID,
		task.Name,
		task.CustomerID,
		task.CustomerName,
		task.Assignee.OperatorID,
		task.Assignee.Name,
		task.Assignee.Email,
		task.Criticality,
		task.Duration,
		task.DueDate,
		task.ActualDate,
		task.TimeTaken,
		task.Remarks,
		task.Link,
		task.Status,
		task.ReviewerStatus,
		task.Version,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("task already exists",
				"task_id", task.ID)
			return fmt.Errorf("%w: %v", store.ErrTaskExists, err)
		}
		log.Error("failed to create task",
			"task_id", task.ID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID.
// Returns store.ErrTaskNotFound when no task matches the ID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: task with ID %s", store.ErrTaskNotFound, id)
		}
		return nil, MapError(err)
	}

	return task, nil
}

// ExistsForAssignment implements store.TaskStore.ExistsForAssignment.
func (s *PostgresTaskStore) ExistsForAssignment(
	ctx context.Context,
	activityID, customerID int64,
) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tasks WHERE activity_id = $1 AND customer_id = $2)`

	var exists bool
	err := s.db.QueryRowContext(ctx, query, activityID, customerID).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}

	return exists, nil
}

// Update implements store.TaskStore.Update. The row is only written when its
// stored version matches task.Version; the version is incremented on success
// and reflected back into the passed task. Returns store.ErrConflict when
// another writer won the race and store.ErrTaskNotFound when the task does
// not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET activity_id = $2,
		    name = $3,
		    customer_id = $4,
		    customer_name = $5,
		    operator_id = $6,
		    operator_name = $7,
		    operator_email = $8,
		    criticality = $9,
		    duration = $10,
		    due_date = $11,
		    actual_date = $12,
		    time_taken = $13,
		    remarks = $14,
		    link = $15,
		    status = $16,
		    reviewer_status = $17,
		    version = version + 1,
		    updated_at = $18
		WHERE id = $1 AND version = $19
	`

	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.ActivityID,
		task.Name,
		task.CustomerID,
		task.CustomerName,
		task.Assignee.OperatorID,
		task.Assignee.Name,
		task.Assignee.Email,
		task.Criticality,
		task.Duration,
		task.DueDate,
		task.ActualDate,
		task.TimeTaken,
		task.Remarks,
		task.Link,
		task.Status,
		task.ReviewerStatus,
		now,
		task.Version,
	)
	if err != nil {
		log.Error("failed to update task",
			"task_id", task.ID,
			"error", err)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Distinguish a missing row from a lost version race.
		var exists bool
		checkErr := s.db.QueryRowContext(
			ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, task.ID,
		).Scan(&exists)
		if checkErr != nil {
			return MapError(checkErr)
		}
		if !exists {
			return fmt.Errorf("%w: task with ID %s", store.ErrTaskNotFound, task.ID)
		}
		log.Warn("task update lost version race",
			"task_id", task.ID,
			"version", task.Version)
		return fmt.Errorf("%w: task %s at version %d", store.ErrConflict, task.ID, task.Version)
	}

	task.Version++
	task.UpdatedAt = now
	return nil
}

// ParkOpenTasks implements store.TaskStore.ParkOpenTasks. All open tasks of
// the operator move to Pending in one statement; the updated rows come back
// so the caller can plan follow-up notifications.
func (s *PostgresTaskStore) ParkOpenTasks(
	ctx context.Context,
	operatorID int64,
) ([]*domain.Task, error) {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, version = version + 1, updated_at = $2
		WHERE operator_id = $3 AND status IN ($4, $5)
		RETURNING ` + taskColumns

	rows, err := s.db.QueryContext(ctx, query,
		domain.StatusPending,
		time.Now().UTC(),
		operatorID,
		domain.StatusYetToStart,
		domain.StatusWIP,
	)
	if err != nil {
		log.Error("failed to park open tasks",
			"operator_id", operatorID,
			"error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Info("parked open tasks",
		"operator_id", operatorID,
		"count", len(tasks))
	return tasks, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID,
		&t.ActivityID,
		&t.Name,
		&t.CustomerID,
		&t.CustomerName,
		&t.Assignee.OperatorID,
		&t.Assignee.Name,
		&t.Assignee.Email,
		&t.Criticality,
		&t.Duration,
		&t.DueDate,
		&t.ActualDate,
		&t.TimeTaken,
		&t.Remarks,
		&t.Link,
		&t.Status,
		&t.ReviewerStatus,
		&t.Version,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
