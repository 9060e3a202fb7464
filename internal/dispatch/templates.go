package dispatch

import (
	"fmt"
	"strings"

	"github.com/phrazzld/taskmill/internal/domain"
)

// Render builds the outgoing message for a reminder. Every kind carries the
// same detail block with the task's identifying fields and current state;
// the intro line and subject vary by classification, and status updates
// additionally contrast the prior status.
func Render(task *domain.Task, rem *domain.Reminder) (Message, error) {
	var subject, intro string

	switch rem.Kind {
	case domain.ReminderKindAssignment:
		subject = fmt.Sprintf("New task assigned: %s", rem.Summary)
		intro = fmt.Sprintf("A new task has been assigned to you: %s.", rem.Summary)

	case domain.ReminderKindReassignment:
		subject = fmt.Sprintf("Task reassigned to you: %s", rem.Summary)
		intro = fmt.Sprintf("The task %s has been reassigned to you.", rem.Summary)

	case domain.ReminderKindStatusUpdate:
		subject = fmt.Sprintf("Task status updated: %s", rem.Summary)
		intro = fmt.Sprintf("The status of %s changed from %s to %s.",
			rem.Summary, statusLabel(rem.PriorStatus), statusLabel(task.Status))

	case domain.ReminderKindReminder:
		subject = fmt.Sprintf("Upcoming task due: %s", rem.Summary)
		intro = fmt.Sprintf("This is a reminder that %s is coming up.", rem.Summary)

	case domain.ReminderKindDueToday:
		subject = fmt.Sprintf("Task due today: %s", rem.Summary)
		intro = fmt.Sprintf("The task %s is due today.", rem.Summary)

	default:
		return Message{}, fmt.Errorf("cannot render reminder of kind %q", rem.Kind)
	}

	return Message{
		To:      rem.Recipient,
		Subject: subject,
		Body:    intro + "\n\n" + details(task),
	}, nil
}

// details renders the block of task fields every message carries.
func details(task *domain.Task) string {
	lines := []string{
		fmt.Sprintf("Task: %s (ID %s)", task.Name, task.ID),
		fmt.Sprintf("Customer: %s", task.CustomerName),
		fmt.Sprintf("Criticality: %s", criticalityLabel(task.Criticality)),
		fmt.Sprintf("Status: %s", statusLabel(task.Status)),
	}
	if task.DueDate != nil {
		lines = append(lines, fmt.Sprintf("Due date: %s", task.DueDate.Format("02 Jan 2006")))
	}
	if task.Link != "" {
		lines = append(lines, fmt.Sprintf("Reference: %s", task.Link))
	}
	return strings.Join(lines, "\n")
}

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusYetToStart:
		return "Yet to Start"
	case domain.StatusWIP:
		return "WIP"
	case domain.StatusPending:
		return "Pending"
	case domain.StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

func criticalityLabel(c domain.Criticality) string {
	switch c {
	case domain.CriticalityLow:
		return "Low"
	case domain.CriticalityMedium:
		return "Medium"
	case domain.CriticalityHigh:
		return "High"
	default:
		return string(c)
	}
}
