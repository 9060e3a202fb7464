package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskmill/internal/domain"
)

func renderFixtures() (*domain.Task, *domain.Reminder) {
	due := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	task := &domain.Task{
		ID:           "421002052024",
		Name:         "Monthly GST filing",
		CustomerName: "Acme Corp",
		Assignee:     domain.Assignee{OperatorID: 7, Name: "Priya", Email: "priya@example.com"},
		Criticality:  domain.CriticalityHigh,
		DueDate:      &due,
		Link:         "https://tasks.example.com/42",
		Status:       domain.StatusWIP,
	}
	rem := &domain.Reminder{
		TaskID:    task.ID,
		Recipient: "priya@example.com",
		Summary:   "Monthly GST filing for Acme Corp",
	}
	return task, rem
}

func TestRender(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		kind            domain.ReminderKind
		expectedSubject string
		expectedInBody  string
	}{
		{
			domain.ReminderKindAssignment,
			"New task assigned: Monthly GST filing for Acme Corp",
			"assigned to you",
		},
		{
			domain.ReminderKindReassignment,
			"Task reassigned to you: Monthly GST filing for Acme Corp",
			"reassigned to you",
		},
		{
			domain.ReminderKindReminder,
			"Upcoming task due: Monthly GST filing for Acme Corp",
			"is coming up",
		},
		{
			domain.ReminderKindDueToday,
			"Task due today: Monthly GST filing for Acme Corp",
			"due today",
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			t.Parallel()

			task, rem := renderFixtures()
			rem.Kind = tc.kind

			msg, err := Render(task, rem)
			require.NoError(t, err)

			assert.Equal(t, "priya@example.com", msg.To)
			assert.Equal(t, tc.expectedSubject, msg.Subject)
			assert.Contains(t, msg.Body, tc.expectedInBody)

			// Every kind renders the full detail block.
			assert.Contains(t, msg.Body, "Task: Monthly GST filing (ID 421002052024)")
			assert.Contains(t, msg.Body, "Customer: Acme Corp")
			assert.Contains(t, msg.Body, "Criticality: High")
			assert.Contains(t, msg.Body, "Status: WIP")
			assert.Contains(t, msg.Body, "Due date: 20 Jun 2024")
			assert.Contains(t, msg.Body, "https://tasks.example.com/42")
		})
	}
}

func TestRender_StatusUpdateContrastsStatuses(t *testing.T) {
	t.Parallel()

	task, rem := renderFixtures()
	rem.Kind = domain.ReminderKindStatusUpdate
	rem.PriorStatus = domain.StatusYetToStart

	msg, err := Render(task, rem)
	require.NoError(t, err)

	assert.Contains(t, msg.Body, "from Yet to Start to WIP")
	assert.Contains(t, msg.Body, "Task: Monthly GST filing (ID 421002052024)")
	assert.Contains(t, msg.Body, "Criticality: High")
	assert.Contains(t, msg.Body, "Status: WIP")
	assert.Contains(t, msg.Body, "Due date: 20 Jun 2024")
}

func TestRender_OmitsEmptyLines(t *testing.T) {
	t.Parallel()

	task, rem := renderFixtures()
	task.DueDate = nil
	task.Link = ""
	rem.Kind = domain.ReminderKindAssignment

	msg, err := Render(task, rem)
	require.NoError(t, err)

	assert.NotContains(t, msg.Body, "Due date")
	assert.NotContains(t, msg.Body, "Reference")
}

func TestRender_UnknownKind(t *testing.T) {
	t.Parallel()

	task, rem := renderFixtures()
	rem.Kind = domain.ReminderKind("carrier_pigeon")

	_, err := Render(task, rem)
	assert.Error(t, err)
}
