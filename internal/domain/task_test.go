package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAssignee() Assignee {
	return Assignee{OperatorID: 7, Name: "Priya", Email: "priya@example.com"}
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	task, err := NewTask("421052024", 42, "Monthly GST filing", 10, "Acme Corp",
		validAssignee(), CriticalityHigh, 2.5, &due, "see portal", "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, StatusYetToStart, task.Status)
	assert.Equal(t, ReviewerStatusUnset, task.ReviewerStatus)
	assert.Equal(t, int64(1), task.Version)
	assert.Nil(t, task.ActualDate)
	assert.Nil(t, task.TimeTaken)
}

func TestTaskID(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "421002052024", TaskID(42, 100, due))
}

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	actual := time.Date(2024, time.June, 19, 0, 0, 0, 0, time.UTC)

	base := func() *Task {
		return &Task{
			ID:             "421052024",
			ActivityID:     42,
			Name:           "Monthly GST filing",
			CustomerID:     10,
			CustomerName:   "Acme Corp",
			Assignee:       validAssignee(),
			Criticality:    CriticalityMedium,
			Duration:       2,
			DueDate:        &due,
			Status:         StatusYetToStart,
			ReviewerStatus: ReviewerStatusUnset,
		}
	}

	testCases := []struct {
		name     string
		mutate   func(*Task)
		expected error
	}{
		{"valid task", func(*Task) {}, nil},
		{"empty id", func(tk *Task) { tk.ID = " " }, ErrTaskIDEmpty},
		{"empty name", func(tk *Task) { tk.Name = "" }, ErrTaskNameEmpty},
		{"empty customer", func(tk *Task) { tk.CustomerName = "" }, ErrTaskCustomerEmpty},
		{"assignee without email", func(tk *Task) { tk.Assignee.Email = "" }, ErrTaskAssigneeInvalid},
		{"bad criticality", func(tk *Task) { tk.Criticality = "urgent" }, ErrInvalidCriticality},
		{"negative duration", func(tk *Task) { tk.Duration = -1 }, ErrTaskDurationNegative},
		{"bad status", func(tk *Task) { tk.Status = "paused" }, ErrInvalidStatus},
		{"bad reviewer status", func(tk *Task) { tk.ReviewerStatus = "maybe" }, ErrInvalidReviewerStatus},
		{
			"completed without actual date",
			func(tk *Task) { tk.Status = StatusCompleted },
			ErrTaskCompletedWithoutDate,
		},
		{
			"completed with actual date is valid",
			func(tk *Task) { tk.Status = StatusCompleted; tk.ActualDate = &actual },
			nil,
		},
		{
			"rejected task must be reopened",
			func(tk *Task) { tk.ReviewerStatus = ReviewerStatusRejected; tk.Status = StatusCompleted; tk.ActualDate = &actual },
			ErrTaskRejectedNotWIP,
		},
		{
			"rejected task in WIP is valid",
			func(tk *Task) { tk.ReviewerStatus = ReviewerStatusRejected; tk.Status = StatusWIP },
			nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			task := base()
			tc.mutate(task)
			err := task.Validate()
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func TestStatus_IsOpen(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusYetToStart.IsOpen())
	assert.True(t, StatusWIP.IsOpen())
	assert.False(t, StatusPending.IsOpen())
	assert.False(t, StatusCompleted.IsOpen())
}

func TestReminderOutcome_IsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, ReminderOutcomePending.IsTerminal())
	assert.False(t, ReminderOutcomeProcessing.IsTerminal())
	assert.True(t, ReminderOutcomeSent.IsTerminal())
	assert.True(t, ReminderOutcomeFailed.IsTerminal())
	assert.True(t, ReminderOutcomeCancelled.IsTerminal())
}

func TestNewReminder(t *testing.T) {
	t.Parallel()

	draft := ReminderDraft{
		TaskID:      "421052024",
		Recipient:   "priya@example.com",
		Kind:        ReminderKindDueToday,
		Summary:     "Monthly GST filing for Acme Corp",
		ScheduledAt: time.Date(2024, time.June, 20, 9, 0, 0, 0, time.UTC),
	}

	rem, err := NewReminder(draft)
	require.NoError(t, err)
	assert.Equal(t, ReminderOutcomePending, rem.Outcome)
	assert.NotEqual(t, rem.ID.String(), "00000000-0000-0000-0000-000000000000")

	draft.Recipient = ""
	_, err = NewReminder(draft)
	assert.ErrorIs(t, err, ErrReminderRecipientEmpty)

	draft.Recipient = "priya@example.com"
	draft.ScheduledAt = time.Time{}
	_, err = NewReminder(draft)
	assert.ErrorIs(t, err, ErrReminderScheduleZero)
}
