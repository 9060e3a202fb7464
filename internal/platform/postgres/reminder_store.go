package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/platform/logger"
	"github.com/phrazzld/taskmill/internal/store"
)

const reminderColumns = `id, task_id, recipient, kind, summary, prior_status,
	scheduled_at, outcome, error_detail, created_at, updated_at`

// PostgresReminderStore implements the store.ReminderStore interface using
// PostgreSQL.
type PostgresReminderStore struct {
	db store.DBTX
}

// Verify PostgresReminderStore implements store.ReminderStore
var _ store.ReminderStore = (*PostgresReminderStore)(nil)

// NewPostgresReminderStore creates a new PostgresReminderStore.
func NewPostgresReminderStore(db store.DBTX) *PostgresReminderStore {
	return &PostgresReminderStore{
		db: db,
	}
}

// WithTx returns a new ReminderStore instance backed by the given transaction.
func (s *PostgresReminderStore) WithTx(tx *sql.Tx) store.ReminderStore {
	return &PostgresReminderStore{
		db: tx,
	}
}

// Save implements store.ReminderStore.Save. Each draft becomes a pending
// reminder; the returned slice preserves draft order.
func (s *PostgresReminderStore) Save(
	ctx context.Context,
	drafts []domain.ReminderDraft,
) ([]*domain.Reminder, error) {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO reminders (` + reminderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	reminders := make([]*domain.Reminder, 0, len(drafts))
	for _, draft := range drafts {
		rem, err := domain.NewReminder(draft)
		if err != nil {
			return nil, err
		}

		_, err = s.db.ExecContext(ctx, query,
			rem.ID,
			rem.TaskID,
			rem.Recipient,
			rem.Kind,
			rem.Summary,
			rem.PriorStatus,
			rem.ScheduledAt,
			rem.Outcome,
			rem.ErrorDetail,
			rem.CreatedAt,
			rem.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to save reminder",
				"task_id", rem.TaskID,
				"kind", rem.Kind,
				"error", err)
			return nil, MapError(err)
		}

		reminders = append(reminders, rem)
	}

	return reminders, nil
}

// GetByID implements store.ReminderStore.GetByID.
func (s *PostgresReminderStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`

	rem, err := scanReminder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: reminder with ID %s", store.ErrReminderNotFound, id)
		}
		return nil, MapError(err)
	}

	return rem, nil
}

// ClaimDue implements store.ReminderStore.ClaimDue. Due pending reminders
// flip to processing and come back in one statement, so two overlapping
// sweeps can never claim the same reminder. FOR UPDATE SKIP LOCKED keeps
// concurrent claimers from blocking on each other's rows.
func (s *PostgresReminderStore) ClaimDue(
	ctx context.Context,
	asOf time.Time,
	limit int,
) ([]*domain.Reminder, error) {
	log := logger.FromContext(ctx)

	query := `
		UPDATE reminders
		SET outcome = $1, updated_at = $2
		WHERE id IN (
			SELECT id FROM reminders
			WHERE outcome = $3 AND scheduled_at <= $4
			ORDER BY scheduled_at
			LIMIT $5
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + reminderColumns

	rows, err := s.db.QueryContext(ctx, query,
		domain.ReminderOutcomeProcessing,
		time.Now().UTC(),
		domain.ReminderOutcomePending,
		asOf,
		limit,
	)
	if err != nil {
		log.Error("failed to claim due reminders",
			"as_of", asOf,
			"error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	reminders, err := collectReminders(rows)
	if err != nil {
		return nil, MapError(err)
	}

	if len(reminders) > 0 {
		log.Debug("claimed due reminders",
			"count", len(reminders),
			"as_of", asOf)
	}
	return reminders, nil
}

// ClaimByID implements store.ReminderStore.ClaimByID. The outcome guard in
// the WHERE clause is what makes the claim atomic: if a sweep already
// flipped the reminder to processing, this update matches nothing and the
// caller backs off instead of double-sending.
func (s *PostgresReminderStore) ClaimByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Reminder, error) {
	query := `
		UPDATE reminders
		SET outcome = $1, updated_at = $2
		WHERE id = $3 AND outcome = $4
		RETURNING ` + reminderColumns

	rem, err := scanReminder(s.db.QueryRowContext(ctx, query,
		domain.ReminderOutcomeProcessing,
		time.Now().UTC(),
		id,
		domain.ReminderOutcomePending,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			checkErr := s.db.QueryRowContext(
				ctx, `SELECT EXISTS (SELECT 1 FROM reminders WHERE id = $1)`, id,
			).Scan(&exists)
			if checkErr != nil {
				return nil, MapError(checkErr)
			}
			if !exists {
				return nil, fmt.Errorf("%w: reminder with ID %s", store.ErrReminderNotFound, id)
			}
			return nil, fmt.Errorf("%w: reminder with ID %s", store.ErrReminderClaimed, id)
		}
		return nil, MapError(err)
	}

	return rem, nil
}

// ListDue implements store.ReminderStore.ListDue.
func (s *PostgresReminderStore) ListDue(
	ctx context.Context,
	asOf time.Time,
) ([]*domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE outcome = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at
	`

	rows, err := s.db.QueryContext(ctx, query, domain.ReminderOutcomePending, asOf)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	reminders, err := collectReminders(rows)
	if err != nil {
		return nil, MapError(err)
	}
	return reminders, nil
}

// MarkOutcome implements store.ReminderStore.MarkOutcome. The guard on
// non-terminal outcomes makes it idempotent: once a reminder is sent, failed
// or cancelled, later calls are no-ops.
func (s *PostgresReminderStore) MarkOutcome(
	ctx context.Context,
	id uuid.UUID,
	outcome domain.ReminderOutcome,
	errorDetail string,
) error {
	log := logger.FromContext(ctx)

	if !outcome.IsValid() {
		return domain.ErrInvalidReminderOutcome
	}

	query := `
		UPDATE reminders
		SET outcome = $1, error_detail = $2, updated_at = $3
		WHERE id = $4 AND outcome IN ($5, $6)
	`

	result, err := s.db.ExecContext(ctx, query,
		outcome,
		errorDetail,
		time.Now().UTC(),
		id,
		domain.ReminderOutcomePending,
		domain.ReminderOutcomeProcessing,
	)
	if err != nil {
		log.Error("failed to mark reminder outcome",
			"reminder_id", id,
			"outcome", outcome,
			"error", err)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		checkErr := s.db.QueryRowContext(
			ctx, `SELECT EXISTS (SELECT 1 FROM reminders WHERE id = $1)`, id,
		).Scan(&exists)
		if checkErr != nil {
			return MapError(checkErr)
		}
		if !exists {
			return fmt.Errorf("%w: reminder with ID %s", store.ErrReminderNotFound, id)
		}
		// Already terminal; a duplicate sweep cannot rewrite history.
		log.Debug("reminder outcome already terminal, skipping",
			"reminder_id", id,
			"requested_outcome", outcome)
	}

	return nil
}

// CancelPending implements store.ReminderStore.CancelPending. Only
// date-anchored kinds are cancelled; transactional notifications about past
// events stay valid even when the plan changes.
func (s *PostgresReminderStore) CancelPending(
	ctx context.Context,
	taskID string,
) (int64, error) {
	log := logger.FromContext(ctx)

	query := `
		UPDATE reminders
		SET outcome = $1, updated_at = $2
		WHERE task_id = $3 AND outcome = $4 AND kind IN ($5, $6)
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.ReminderOutcomeCancelled,
		time.Now().UTC(),
		taskID,
		domain.ReminderOutcomePending,
		domain.ReminderKindReminder,
		domain.ReminderKindDueToday,
	)
	if err != nil {
		log.Error("failed to cancel pending reminders",
			"task_id", taskID,
			"error", err)
		return 0, MapError(err)
	}

	cancelled, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if cancelled > 0 {
		log.Debug("cancelled superseded reminders",
			"task_id", taskID,
			"count", cancelled)
	}
	return cancelled, nil
}

func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var r domain.Reminder
	err := row.Scan(
		&r.ID,
		&r.TaskID,
		&r.Recipient,
		&r.Kind,
		&r.Summary,
		&r.PriorStatus,
		&r.ScheduledAt,
		&r.Outcome,
		&r.ErrorDetail,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectReminders(rows *sql.Rows) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reminders, nil
}
