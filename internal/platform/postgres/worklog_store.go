package postgres

import (
	"context"
	"math"

	"github.com/phrazzld/taskmill/internal/store"
)

// PostgresWorkLogStore aggregates logged hours per task from the work log
// table maintained by the surrounding system.
type PostgresWorkLogStore struct {
	db store.DBTX
}

// Verify PostgresWorkLogStore implements store.WorkLogStore
var _ store.WorkLogStore = (*PostgresWorkLogStore)(nil)

// NewPostgresWorkLogStore creates a new PostgresWorkLogStore.
func NewPostgresWorkLogStore(db store.DBTX) *PostgresWorkLogStore {
	return &PostgresWorkLogStore{
		db: db,
	}
}

// HoursLogged implements store.WorkLogStore.HoursLogged. A task with no log
// entries yields zero, not an error.
func (s *PostgresWorkLogStore) HoursLogged(ctx context.Context, taskID string) (float64, error) {
	query := `SELECT COALESCE(SUM(hours), 0) FROM work_log WHERE task_id = $1`

	var total float64
	if err := s.db.QueryRowContext(ctx, query, taskID).Scan(&total); err != nil {
		return 0, MapError(err)
	}

	return math.Round(total*100) / 100, nil
}
