package schedule

import (
	"fmt"
	"time"

	"github.com/phrazzld/taskmill/internal/domain"
)

// TriggerKind identifies the lifecycle event a plan is built for.
type TriggerKind string

// Possible trigger kinds
const (
	TriggerAssignment   TriggerKind = "assignment"
	TriggerReassignment TriggerKind = "reassignment"
	TriggerStatusUpdate TriggerKind = "status_update"
)

// Trigger describes the lifecycle event that caused a re-plan. PriorStatus
// is only meaningful for status-update triggers, where the rendered message
// contrasts old and new status.
type Trigger struct {
	Kind        TriggerKind
	PriorStatus domain.Status
}

// PlanReminders computes the set of reminder drafts for a task after the
// given trigger.
//
// The plan always contains one transactional draft matching the trigger,
// intended for immediate dispatch. When the task has a due date it also
// contains the date-anchored pair: a lead reminder min(floor(duration),
// MaxLeadDays) days ahead (one day for short tasks, never in the past) and a
// due-today reminder on the due date itself.
//
// The planner is pure: it returns drafts and leaves persistence to the
// caller, which keeps the date math testable without a store.
func PlanReminders(task *domain.Task, trigger Trigger, now time.Time, params *Params) []domain.ReminderDraft {
	summary := fmt.Sprintf("%s for %s", task.Name, task.CustomerName)

	drafts := []domain.ReminderDraft{
		{
			TaskID:      task.ID,
			Recipient:   task.Assignee.Email,
			Kind:        transactionalKind(trigger.Kind),
			Summary:     summary,
			PriorStatus: trigger.PriorStatus,
			ScheduledAt: now,
			Immediate:   true,
		},
	}

	if task.DueDate == nil {
		return drafts
	}

	drafts = append(drafts,
		domain.ReminderDraft{
			TaskID:      task.ID,
			Recipient:   task.Assignee.Email,
			Kind:        domain.ReminderKindReminder,
			Summary:     summary,
			ScheduledAt: params.at(leadReminderDate(*task.DueDate, task.Duration, now, params)),
		},
		domain.ReminderDraft{
			TaskID:      task.ID,
			Recipient:   task.Assignee.Email,
			Kind:        domain.ReminderKindDueToday,
			Summary:     summary,
			ScheduledAt: params.at(*task.DueDate),
		},
	)

	return drafts
}

// leadReminderDate computes when the early reminder should fire. Tasks that
// take more than a day get a head start proportional to their duration,
// capped at MaxLeadDays; everything else gets one day. The result is clamped
// to today so reminders are never scheduled in the past.
func leadReminderDate(dueDate time.Time, duration float64, now time.Time, params *Params) time.Time {
	leadDays := 1
	if duration > 1 {
		leadDays = int(duration)
		if leadDays > params.MaxLeadDays {
			leadDays = params.MaxLeadDays
		}
	}

	reminder := dueDate.AddDate(0, 0, -leadDays)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if reminder.Before(today) {
		return today
	}
	return reminder
}

// transactionalKind maps a trigger to the reminder kind of its immediate
// draft.
func transactionalKind(kind TriggerKind) domain.ReminderKind {
	switch kind {
	case TriggerReassignment:
		return domain.ReminderKindReassignment
	case TriggerStatusUpdate:
		return domain.ReminderKindStatusUpdate
	default:
		return domain.ReminderKindAssignment
	}
}
