package postgres

import (
	"context"
	"time"

	"github.com/phrazzld/taskmill/internal/store"
)

// PostgresHolidayStore reads the externally maintained holiday master table.
type PostgresHolidayStore struct {
	db store.DBTX
}

// Verify PostgresHolidayStore implements store.HolidayStore
var _ store.HolidayStore = (*PostgresHolidayStore)(nil)

// NewPostgresHolidayStore creates a new PostgresHolidayStore.
func NewPostgresHolidayStore(db store.DBTX) *PostgresHolidayStore {
	return &PostgresHolidayStore{
		db: db,
	}
}

// ListHolidays implements store.HolidayStore.ListHolidays.
func (s *PostgresHolidayStore) ListHolidays(ctx context.Context) ([]time.Time, error) {
	query := `SELECT holiday_date FROM holiday_master ORDER BY holiday_date`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var holidays []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, MapError(err)
		}
		holidays = append(holidays, d)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return holidays, nil
}
