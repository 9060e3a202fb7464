package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskmill/internal/domain"
)

// ReminderStore defines the interface for reminder persistence. Reminders are
// produced by the planner, claimed and resolved by the dispatcher, and never
// touched by any other component.
// Version: 1.0
type ReminderStore interface {
	// Save persists the given drafts as pending reminders and returns them
	// with their assigned IDs, in draft order.
	Save(ctx context.Context, drafts []domain.ReminderDraft) ([]*domain.Reminder, error)

	// GetByID retrieves a reminder by ID.
	// Returns ErrReminderNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)

	// ClaimDue atomically transitions pending reminders scheduled at or
	// before asOf into the processing state and returns them. A reminder
	// claimed by one sweep is invisible to any overlapping sweep, which is
	// what upholds the at-most-once-claim requirement.
	ClaimDue(ctx context.Context, asOf time.Time, limit int) ([]*domain.Reminder, error)

	// ClaimByID atomically transitions a single pending reminder into the
	// processing state and returns it. Used for immediate dispatch right
	// after commit, so a concurrent sweep and the committing request cannot
	// both deliver the same reminder. Returns ErrReminderNotFound if the
	// reminder does not exist and ErrReminderClaimed if it is no longer
	// pending.
	ClaimByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)

	// ListDue returns pending reminders scheduled at or before asOf without
	// claiming them. Intended for operational visibility and tests.
	ListDue(ctx context.Context, asOf time.Time) ([]*domain.Reminder, error)

	// MarkOutcome records the delivery outcome of a reminder. Idempotent per
	// reminder: once an outcome is terminal, further calls are no-ops, so a
	// duplicate dispatcher sweep cannot rewrite history.
	MarkOutcome(ctx context.Context, id uuid.UUID, outcome domain.ReminderOutcome, errorDetail string) error

	// CancelPending cancels the task's pending date-anchored reminders
	// (kinds reminder and due_today) and returns how many were cancelled.
	// Used when a re-plan supersedes the previous plan.
	CancelPending(ctx context.Context, taskID string) (int64, error)

	// WithTx returns a new ReminderStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ReminderStore
}
