package lifecycle

import (
	"context"
	"time"

	"github.com/phrazzld/taskmill/internal/dispatch"
	"github.com/phrazzld/taskmill/internal/domain"
)

// Caller roles recognized by the authorization checks.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	OperatorID int64
	Role       string
}

// IsAdmin reports whether the actor carries the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Flags reports the best-effort side effects of a mutating operation. The
// task mutation itself either succeeded (the operation returned no error) or
// rolled back entirely; these flags never influence that outcome.
type Flags struct {
	// NotificationSent is true when every transactional notification for
	// the operation was delivered.
	NotificationSent bool `json:"notification_sent"`

	// CalendarAdded is true when a calendar event was placed for the task.
	CalendarAdded bool `json:"calendar_added"`

	// RemindersScheduled is true when date-anchored reminders were stored
	// for later dispatch.
	RemindersScheduled bool `json:"reminders_scheduled"`
}

// AssignTaskParams are the inputs for creating a task from an activity.
type AssignTaskParams struct {
	ActivityID int64
	CustomerID int64
	OperatorID int64

	// Iteration selects which occurrence of the recurring activity the task
	// covers; the first occurrence is 0.
	Iteration int

	Remarks string
	Link    string
}

// ImmediateDispatcher delivers a single reminder synchronously. Satisfied by
// dispatch.Dispatcher; a seam for tests.
type ImmediateDispatcher interface {
	DispatchOne(ctx context.Context, rem *domain.Reminder) (dispatch.Result, error)
}

// Service is the task lifecycle controller contract.
// Version: 1.0
type Service interface {
	// AssignTask creates a task for an activity/customer/operator triple,
	// computes its due date and schedules its reminders. Administrator only.
	// Returns store.ErrTaskExists when the activity/customer pair already
	// has a task.
	AssignTask(ctx context.Context, actor Actor, params AssignTaskParams) (*domain.Task, Flags, error)

	// ReassignTask moves the task to a different operator and re-plans its
	// reminders. Administrator only. Reassigning to the current assignee is
	// a success no-op.
	ReassignTask(ctx context.Context, actor Actor, taskID string, operatorID int64) (*domain.Task, Flags, error)

	// SetTaskStatus transitions the task's status. Administrator or current
	// assignee only. Setting the current status is a success no-op with no
	// new notifications. Completion records the actual date and the hours
	// logged against the task, and moves an unset reviewer decision to
	// pending.
	SetTaskStatus(ctx context.Context, actor Actor, taskID string, status domain.Status) (*domain.Task, Flags, error)

	// SubmitReviewDecision records the reviewer's verdict on a completed
	// task. Administrator only. A rejection reopens the task as WIP and
	// notifies the assignee.
	SubmitReviewDecision(ctx context.Context, actor Actor, taskID string, decision domain.ReviewerStatus) (*domain.Task, Flags, error)

	// DeactivateOperatorTasks parks all open tasks of an operator as
	// Pending and cancels their scheduled reminders. Administrator only.
	// Returns the parked tasks.
	DeactivateOperatorTasks(ctx context.Context, actor Actor, operatorID int64) ([]*domain.Task, Flags, error)

	// ListDueReminders returns pending reminders due at or before asOf
	// without claiming them. Operational visibility only.
	ListDueReminders(ctx context.Context, asOf time.Time) ([]*domain.Reminder, error)
}
