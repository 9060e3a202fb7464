package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/platform/logger"
	"github.com/phrazzld/taskmill/internal/redact"
	"github.com/phrazzld/taskmill/internal/store"
)

// Result reports what actually happened to one reminder.
type Result struct {
	// Sent is true when the delivery channel accepted the message.
	Sent bool

	// CalendarAdded is true when a calendar event was placed alongside the
	// notification. Calendar placement only happens for assignment and
	// reassignment reminders and never affects Sent.
	CalendarAdded bool
}

// Config holds dispatcher tuning knobs.
type Config struct {
	// DeliveryTimeout bounds a single delivery attempt.
	DeliveryTimeout time.Duration
}

// Dispatcher delivers claimed reminders over the delivery channel and records
// each outcome exactly once. Each reminder gets at most one delivery attempt;
// a failed reminder stays failed with its error detail rather than being
// retried forever.
type Dispatcher struct {
	reminders store.ReminderStore
	tasks     store.TaskStore
	channel   DeliveryChannel
	calendar  CalendarChannel // nil disables calendar placement
	cfg       Config
}

// NewDispatcher creates a Dispatcher. calendar may be nil, in which case no
// calendar events are placed.
func NewDispatcher(
	reminders store.ReminderStore,
	tasks store.TaskStore,
	channel DeliveryChannel,
	calendar CalendarChannel,
	cfg Config,
) *Dispatcher {
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 10 * time.Second
	}
	return &Dispatcher{
		reminders: reminders,
		tasks:     tasks,
		channel:   channel,
		calendar:  calendar,
		cfg:       cfg,
	}
}

// DispatchOne delivers a single claimed reminder and records its outcome.
// The returned error covers infrastructure failures (outcome could not be
// recorded); a delivery failure is reflected in the Result and on the stored
// reminder, not in the error.
func (d *Dispatcher) DispatchOne(ctx context.Context, rem *domain.Reminder) (Result, error) {
	log := logger.FromContext(ctx)

	task, err := d.tasks.GetByID(ctx, rem.TaskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			// The task vanished between planning and dispatch. Record and move on.
			detail := fmt.Sprintf("task %s no longer exists", rem.TaskID)
			if markErr := d.reminders.MarkOutcome(ctx, rem.ID, domain.ReminderOutcomeFailed, detail); markErr != nil {
				return Result{}, markErr
			}
			return Result{}, nil
		}
		return Result{}, err
	}

	if isDateAnchored(rem.Kind) && task.Assignee.Email != rem.Recipient {
		// The task was reassigned after this reminder was planned and the
		// cancel did not catch it. Stale reminders are dropped, not sent.
		detail := fmt.Sprintf("recipient %s is no longer the assignee", rem.Recipient)
		if markErr := d.reminders.MarkOutcome(ctx, rem.ID, domain.ReminderOutcomeCancelled, detail); markErr != nil {
			return Result{}, markErr
		}
		return Result{}, nil
	}

	msg, err := Render(task, rem)
	if err != nil {
		if markErr := d.reminders.MarkOutcome(ctx, rem.ID, domain.ReminderOutcomeFailed, err.Error()); markErr != nil {
			return Result{}, markErr
		}
		return Result{}, nil
	}

	deliverCtx, cancel := context.WithTimeout(ctx, d.cfg.DeliveryTimeout)
	err = d.channel.Deliver(deliverCtx, msg)
	cancel()
	if err != nil {
		// Transport errors can echo connection strings or credentials.
		detail := redact.Error(err)
		if errors.Is(err, context.DeadlineExceeded) {
			detail = fmt.Sprintf("delivery timed out after %s: %v", d.cfg.DeliveryTimeout, err)
		}
		log.Warn("reminder delivery failed",
			"reminder_id", rem.ID,
			"task_id", rem.TaskID,
			"kind", rem.Kind,
			"error", err)
		if markErr := d.reminders.MarkOutcome(ctx, rem.ID, domain.ReminderOutcomeFailed, detail); markErr != nil {
			return Result{}, markErr
		}
		return Result{}, nil
	}

	if markErr := d.reminders.MarkOutcome(ctx, rem.ID, domain.ReminderOutcomeSent, ""); markErr != nil {
		return Result{Sent: true}, markErr
	}

	result := Result{Sent: true}
	result.CalendarAdded = d.maybePlaceCalendarEvent(ctx, task, rem)

	log.Info("reminder dispatched",
		"reminder_id", rem.ID,
		"task_id", rem.TaskID,
		"kind", rem.Kind,
		"calendar_added", result.CalendarAdded)
	return result, nil
}

// isDateAnchored reports whether a reminder kind is tied to the due date
// rather than to a lifecycle event.
func isDateAnchored(kind domain.ReminderKind) bool {
	return kind == domain.ReminderKindReminder || kind == domain.ReminderKindDueToday
}

// maybePlaceCalendarEvent places the task on the assignee's calendar after a
// successful assignment or reassignment notification. Any failure is logged
// and swallowed.
func (d *Dispatcher) maybePlaceCalendarEvent(
	ctx context.Context,
	task *domain.Task,
	rem *domain.Reminder,
) bool {
	if d.calendar == nil {
		return false
	}
	if rem.Kind != domain.ReminderKindAssignment && rem.Kind != domain.ReminderKindReassignment {
		return false
	}
	if task.DueDate == nil {
		return false
	}

	if err := d.calendar.AddEvent(ctx, task); err != nil {
		logger.FromContext(ctx).Warn("calendar placement failed",
			"task_id", task.ID,
			"error", err)
		return false
	}
	return true
}
