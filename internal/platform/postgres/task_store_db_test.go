package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/platform/postgres"
	"github.com/phrazzld/taskmill/internal/store"
	"github.com/phrazzld/taskmill/internal/testdb"
)

// seedDirectory inserts the activity, operator and customer rows the task
// foreign keys require.
func seedDirectory(t *testing.T, tx *sql.Tx) {
	t.Helper()
	ctx := context.Background()

	_, err := tx.ExecContext(ctx, `
		INSERT INTO activities (id, name, standard_time, criticality, duration, frequency, start_date)
		VALUES (42, 'Monthly GST filing', 4, 'medium', 2, 12, '2024-01-01')`)
	require.NoError(t, err)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO operators (id, name, email, active)
		VALUES (7, 'Priya Sharma', 'priya@example.com', TRUE)`)
	require.NoError(t, err)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO customers (id, name) VALUES (10, 'Acme Corp')`)
	require.NoError(t, err)
}

func newDBTask(t *testing.T) *domain.Task {
	t.Helper()
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	task, err := domain.NewTask(
		domain.TaskID(42, 10, due), 42, "Monthly GST filing", 10, "Acme Corp",
		domain.Assignee{OperatorID: 7, Name: "Priya Sharma", Email: "priya@example.com"},
		domain.CriticalityMedium, 2, &due, "", "",
	)
	require.NoError(t, err)
	return task
}

func TestPostgresTaskStore_RoundTrip(t *testing.T) {
	db := testdb.MustOpen(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		seedDirectory(t, tx)
		taskStore := postgres.NewPostgresTaskStore(tx)

		task := newDBTask(t)
		require.NoError(t, taskStore.Create(ctx, task))

		// Duplicate activity/customer pair is rejected by the unique constraint
		dup := newDBTask(t)
		dup.ID = "another-id"
		err := taskStore.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrTaskExists)

		got, err := taskStore.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, domain.StatusYetToStart, got.Status)
		assert.Equal(t, int64(1), got.Version)

		exists, err := taskStore.ExistsForAssignment(ctx, 42, 10)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = taskStore.ExistsForAssignment(ctx, 42, 999)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestPostgresTaskStore_UpdateVersioning(t *testing.T) {
	db := testdb.MustOpen(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		seedDirectory(t, tx)
		taskStore := postgres.NewPostgresTaskStore(tx)

		task := newDBTask(t)
		require.NoError(t, taskStore.Create(ctx, task))

		task.Status = domain.StatusWIP
		require.NoError(t, taskStore.Update(ctx, task))
		assert.Equal(t, int64(2), task.Version)

		// A stale version must not overwrite the newer row
		stale := newDBTask(t)
		stale.Status = domain.StatusPending
		stale.Version = 1
		err := taskStore.Update(ctx, stale)
		assert.ErrorIs(t, err, store.ErrConflict)

		missing := newDBTask(t)
		missing.ID = "does-not-exist"
		err = taskStore.Update(ctx, missing)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_ParkOpenTasks(t *testing.T) {
	db := testdb.MustOpen(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		seedDirectory(t, tx)
		taskStore := postgres.NewPostgresTaskStore(tx)

		task := newDBTask(t)
		require.NoError(t, taskStore.Create(ctx, task))

		parked, err := taskStore.ParkOpenTasks(ctx, 7)
		require.NoError(t, err)
		require.Len(t, parked, 1)
		assert.Equal(t, domain.StatusPending, parked[0].Status)

		// A second park finds nothing open
		parked, err = taskStore.ParkOpenTasks(ctx, 7)
		require.NoError(t, err)
		assert.Empty(t, parked)
	})
}

func TestPostgresReminderStore_ClaimAndMark(t *testing.T) {
	db := testdb.MustOpen(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		seedDirectory(t, tx)
		taskStore := postgres.NewPostgresTaskStore(tx)
		reminderStore := postgres.NewPostgresReminderStore(tx)

		task := newDBTask(t)
		require.NoError(t, taskStore.Create(ctx, task))

		now := time.Date(2024, 1, 30, 9, 0, 0, 0, time.UTC)
		saved, err := reminderStore.Save(ctx, []domain.ReminderDraft{
			{
				TaskID:      task.ID,
				Recipient:   "priya@example.com",
				Kind:        domain.ReminderKindReminder,
				Summary:     "Monthly GST filing for Acme Corp",
				ScheduledAt: now,
			},
			{
				TaskID:      task.ID,
				Recipient:   "priya@example.com",
				Kind:        domain.ReminderKindDueToday,
				Summary:     "Monthly GST filing for Acme Corp",
				ScheduledAt: now.AddDate(0, 0, 1),
			},
		})
		require.NoError(t, err)
		require.Len(t, saved, 2)

		// Only the first reminder is due
		claimed, err := reminderStore.ClaimDue(ctx, now, 10)
		require.NoError(t, err)
		require.Len(t, claimed, 1)
		assert.Equal(t, domain.ReminderOutcomeProcessing, claimed[0].Outcome)

		require.NoError(t,
			reminderStore.MarkOutcome(ctx, claimed[0].ID, domain.ReminderOutcomeSent, ""))

		got, err := reminderStore.GetByID(ctx, claimed[0].ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ReminderOutcomeSent, got.Outcome)

		// Terminal outcomes never change again
		err = reminderStore.MarkOutcome(ctx, claimed[0].ID, domain.ReminderOutcomeFailed, "late")
		require.NoError(t, err)
		got, err = reminderStore.GetByID(ctx, claimed[0].ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ReminderOutcomeSent, got.Outcome)

		// The remaining date-anchored reminder can be cancelled in bulk
		cancelled, err := reminderStore.CancelPending(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), cancelled)
	})
}

func TestPostgresReminderStore_ClaimByID(t *testing.T) {
	db := testdb.MustOpen(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		seedDirectory(t, tx)
		taskStore := postgres.NewPostgresTaskStore(tx)
		reminderStore := postgres.NewPostgresReminderStore(tx)

		task := newDBTask(t)
		require.NoError(t, taskStore.Create(ctx, task))

		saved, err := reminderStore.Save(ctx, []domain.ReminderDraft{
			{
				TaskID:      task.ID,
				Recipient:   "priya@example.com",
				Kind:        domain.ReminderKindAssignment,
				Summary:     "Monthly GST filing for Acme Corp",
				ScheduledAt: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
			},
		})
		require.NoError(t, err)
		require.Len(t, saved, 1)

		claimed, err := reminderStore.ClaimByID(ctx, saved[0].ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ReminderOutcomeProcessing, claimed.Outcome)

		// A second claimer loses the race and must not dispatch
		_, err = reminderStore.ClaimByID(ctx, saved[0].ID)
		assert.ErrorIs(t, err, store.ErrReminderClaimed)

		_, err = reminderStore.ClaimByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrReminderNotFound)
	})
}
