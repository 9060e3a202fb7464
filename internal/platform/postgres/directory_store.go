package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/store"
)

// PostgresDirectoryStore implements the read-only directory interfaces
// (activities, operators, customers) using PostgreSQL. These entities are
// maintained by the surrounding system; the engine only looks them up.
type PostgresDirectoryStore struct {
	db store.DBTX
}

// Verify PostgresDirectoryStore implements the directory interfaces
var (
	_ store.ActivityDirectory = (*PostgresDirectoryStore)(nil)
	_ store.OperatorDirectory = (*PostgresDirectoryStore)(nil)
	_ store.CustomerDirectory = (*PostgresDirectoryStore)(nil)
)

// NewPostgresDirectoryStore creates a new PostgresDirectoryStore.
func NewPostgresDirectoryStore(db store.DBTX) *PostgresDirectoryStore {
	return &PostgresDirectoryStore{
		db: db,
	}
}

// GetActivity implements store.ActivityDirectory.GetActivity.
func (s *PostgresDirectoryStore) GetActivity(
	ctx context.Context,
	id int64,
) (*domain.Activity, error) {
	query := `
		SELECT id, name, standard_time, criticality, duration, frequency, start_date
		FROM activities
		WHERE id = $1
	`

	var a domain.Activity
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.StandardTime,
		&a.Criticality,
		&a.Duration,
		&a.Frequency,
		&a.StartDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: activity with ID %d", store.ErrActivityNotFound, id)
		}
		return nil, MapError(err)
	}

	return &a, nil
}

// GetOperator implements store.OperatorDirectory.GetOperator.
func (s *PostgresDirectoryStore) GetOperator(
	ctx context.Context,
	id int64,
) (*domain.Operator, error) {
	query := `SELECT id, name, email, active FROM operators WHERE id = $1`

	var o domain.Operator
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID,
		&o.Name,
		&o.Email,
		&o.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: operator with ID %d", store.ErrOperatorNotFound, id)
		}
		return nil, MapError(err)
	}

	return &o, nil
}

// GetCustomer implements store.CustomerDirectory.GetCustomer.
func (s *PostgresDirectoryStore) GetCustomer(
	ctx context.Context,
	id int64,
) (*domain.Customer, error) {
	query := `SELECT id, name FROM customers WHERE id = $1`

	var c domain.Customer
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer with ID %d", store.ErrCustomerNotFound, id)
		}
		return nil, MapError(err)
	}

	return &c, nil
}
