package dispatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskmill/internal/dispatch"
	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/mocks"
)

func TestSweeper_Sweep(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	reminders := mocks.NewMockReminderStore()
	channel := &mocks.MockDeliveryChannel{}

	task := storedTask(t, tasks)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)
	saved, err := reminders.Save(context.Background(), []domain.ReminderDraft{
		{TaskID: task.ID, Recipient: task.Assignee.Email, Kind: domain.ReminderKindReminder,
			Summary: "Monthly GST filing for Acme Corp", ScheduledAt: past},
		{TaskID: task.ID, Recipient: task.Assignee.Email, Kind: domain.ReminderKindDueToday,
			Summary: "Monthly GST filing for Acme Corp", ScheduledAt: future},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	d := dispatch.NewDispatcher(reminders, tasks, channel, nil, dispatch.Config{})
	s := dispatch.NewSweeper(d, reminders, dispatch.SweeperConfig{
		Interval:  time.Minute,
		BatchSize: 10,
	})

	processed := s.Sweep(context.Background())
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, channel.DeliveredCount())

	// The future reminder is untouched.
	dueRem, err := reminders.GetByID(context.Background(), saved[1].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReminderOutcomePending, dueRem.Outcome)

	// A second sweep finds nothing new.
	assert.Equal(t, 0, s.Sweep(context.Background()))
	assert.Equal(t, 1, channel.DeliveredCount())
}

func TestSweeper_ShutdownMidBatchResolvesClaims(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	reminders := mocks.NewMockReminderStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel after the first delivery so the rest of the batch is cut off.
	channel := &mocks.MockDeliveryChannel{
		DeliverFn: func(context.Context, dispatch.Message) error {
			cancel()
			return nil
		},
	}

	task := storedTask(t, tasks)
	past := time.Now().UTC().Add(-time.Hour)
	saved, err := reminders.Save(context.Background(), []domain.ReminderDraft{
		{TaskID: task.ID, Recipient: task.Assignee.Email, Kind: domain.ReminderKindReminder,
			Summary: "Monthly GST filing for Acme Corp", ScheduledAt: past},
		{TaskID: task.ID, Recipient: task.Assignee.Email, Kind: domain.ReminderKindDueToday,
			Summary: "Monthly GST filing for Acme Corp", ScheduledAt: past},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	d := dispatch.NewDispatcher(reminders, tasks, channel, nil, dispatch.Config{})
	s := dispatch.NewSweeper(d, reminders, dispatch.SweeperConfig{
		Interval:  time.Minute,
		BatchSize: 10,
	})

	processed := s.Sweep(ctx)
	assert.Equal(t, 1, processed)

	// No reminder may be stranded in processing: one is sent, the other is
	// failed with a shutdown detail.
	var sent, failed int
	for _, rem := range saved {
		stored, err := reminders.GetByID(context.Background(), rem.ID)
		require.NoError(t, err)
		switch stored.Outcome {
		case domain.ReminderOutcomeSent:
			sent++
		case domain.ReminderOutcomeFailed:
			failed++
			assert.Contains(t, stored.ErrorDetail, "shutdown before dispatch")
		default:
			t.Fatalf("reminder %s left in outcome %s", rem.ID, stored.Outcome)
		}
	}
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, failed)
}

func TestSweeper_StartStop(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	reminders := mocks.NewMockReminderStore()
	channel := &mocks.MockDeliveryChannel{}

	task := storedTask(t, tasks)
	_, err := reminders.Save(context.Background(), []domain.ReminderDraft{
		{TaskID: task.ID, Recipient: task.Assignee.Email, Kind: domain.ReminderKindReminder,
			Summary: "Monthly GST filing for Acme Corp", ScheduledAt: time.Now().UTC().Add(-time.Minute)},
	})
	require.NoError(t, err)

	d := dispatch.NewDispatcher(reminders, tasks, channel, nil, dispatch.Config{})
	s := dispatch.NewSweeper(d, reminders, dispatch.SweeperConfig{
		Interval:  5 * time.Millisecond,
		BatchSize: 10,
	})

	s.Start(context.Background())

	require.Eventually(t, func() bool {
		return channel.DeliveredCount() == 1
	}, time.Second, 5*time.Millisecond)

	s.Stop()
}
