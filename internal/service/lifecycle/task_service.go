package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/domain/schedule"
	"github.com/phrazzld/taskmill/internal/events"
	"github.com/phrazzld/taskmill/internal/platform/logger"
	"github.com/phrazzld/taskmill/internal/store"
)

// Deps bundles the collaborators of the TaskService.
type Deps struct {
	// DB is the database handle transactions run on. A nil DB runs each
	// operation without a transaction, which the in-memory test wiring
	// relies on.
	DB *sql.DB

	Tasks      store.TaskStore
	Reminders  store.ReminderStore
	Activities store.ActivityDirectory
	Operators  store.OperatorDirectory
	Customers  store.CustomerDirectory
	WorkLog    store.WorkLogStore
	Calendars  schedule.CalendarSource
	Dispatcher ImmediateDispatcher

	// Emitter is optional; nil disables lifecycle events.
	Emitter events.EventEmitter

	// Params defaults to schedule.NewDefaultParams().
	Params *schedule.Params

	// Now defaults to time.Now in UTC. Injectable for tests.
	Now func() time.Time
}

// TaskService implements the Service interface.
type TaskService struct {
	deps Deps
}

// Verify TaskService implements Service
var _ Service = (*TaskService)(nil)

// NewTaskService creates a TaskService, validating that all required
// collaborators are present.
func NewTaskService(deps Deps) (*TaskService, error) {
	switch {
	case deps.Tasks == nil:
		return nil, errors.New("task store is required")
	case deps.Reminders == nil:
		return nil, errors.New("reminder store is required")
	case deps.Activities == nil:
		return nil, errors.New("activity directory is required")
	case deps.Operators == nil:
		return nil, errors.New("operator directory is required")
	case deps.Customers == nil:
		return nil, errors.New("customer directory is required")
	case deps.WorkLog == nil:
		return nil, errors.New("work log store is required")
	case deps.Calendars == nil:
		return nil, errors.New("calendar source is required")
	case deps.Dispatcher == nil:
		return nil, errors.New("dispatcher is required")
	}

	if deps.Params == nil {
		deps.Params = schedule.NewDefaultParams()
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}

	return &TaskService{deps: deps}, nil
}

// AssignTask implements Service.AssignTask.
func (s *TaskService) AssignTask(
	ctx context.Context,
	actor Actor,
	params AssignTaskParams,
) (*domain.Task, Flags, error) {
	if !actor.IsAdmin() {
		return nil, Flags{}, fmt.Errorf("%w: assigning tasks requires the admin role", ErrUnauthorized)
	}

	activity, err := s.deps.Activities.GetActivity(ctx, params.ActivityID)
	if err != nil {
		return nil, Flags{}, err
	}
	operator, err := s.activeOperator(ctx, params.OperatorID)
	if err != nil {
		return nil, Flags{}, err
	}
	customer, err := s.deps.Customers.GetCustomer(ctx, params.CustomerID)
	if err != nil {
		return nil, Flags{}, err
	}

	exists, err := s.deps.Tasks.ExistsForAssignment(ctx, activity.ID, customer.ID)
	if err != nil {
		return nil, Flags{}, err
	}
	if exists {
		return nil, Flags{}, fmt.Errorf(
			"%w: activity %d already assigned for customer %d",
			store.ErrTaskExists, activity.ID, customer.ID,
		)
	}

	cal, err := s.deps.Calendars.Snapshot(ctx)
	if err != nil {
		return nil, Flags{}, newServiceError("assign_task", "failed to load holiday calendar", err)
	}

	candidate, err := schedule.ComputeDueDate(activity.StartDate, params.Iteration, activity.Frequency, s.deps.Params)
	if err != nil {
		return nil, Flags{}, err
	}
	due, err := schedule.AdjustForBusinessDay(candidate, activity.Criticality, cal, s.deps.Params)
	if err != nil {
		return nil, Flags{}, err
	}

	task, err := domain.NewTask(
		domain.TaskID(activity.ID, customer.ID, due),
		activity.ID,
		activity.Name,
		customer.ID,
		customer.Name,
		domain.Assignee{OperatorID: operator.ID, Name: operator.Name, Email: operator.Email},
		activity.Criticality,
		activity.Duration,
		&due,
		params.Remarks,
		params.Link,
	)
	if err != nil {
		return nil, Flags{}, err
	}

	drafts := schedule.PlanReminders(task, schedule.Trigger{Kind: schedule.TriggerAssignment}, s.deps.Now(), s.deps.Params)

	var saved []*domain.Reminder
	err = s.inTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore(tx).Create(ctx, task); err != nil {
			return err
		}
		saved, err = s.reminderStore(tx).Save(ctx, drafts)
		return err
	})
	if err != nil {
		return nil, Flags{}, err
	}

	flags := s.fireSideChannels(ctx, saved, drafts)
	s.emit(ctx, events.TypeTaskAssigned, task.ID, task)
	return task, flags, nil
}

// ReassignTask implements Service.ReassignTask.
func (s *TaskService) ReassignTask(
	ctx context.Context,
	actor Actor,
	taskID string,
	operatorID int64,
) (*domain.Task, Flags, error) {
	if !actor.IsAdmin() {
		return nil, Flags{}, fmt.Errorf("%w: reassigning tasks requires the admin role", ErrUnauthorized)
	}

	task, err := s.deps.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, Flags{}, err
	}
	if task.Assignee.OperatorID == operatorID {
		return task, Flags{}, nil
	}

	operator, err := s.activeOperator(ctx, operatorID)
	if err != nil {
		return nil, Flags{}, err
	}

	task.Assignee = domain.Assignee{OperatorID: operator.ID, Name: operator.Name, Email: operator.Email}
	drafts := schedule.PlanReminders(task, schedule.Trigger{Kind: schedule.TriggerReassignment}, s.deps.Now(), s.deps.Params)

	var saved []*domain.Reminder
	err = s.inTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// The previous assignee's date-anchored reminders are superseded.
		if _, err := s.reminderStore(tx).CancelPending(ctx, task.ID); err != nil {
			return err
		}
		if err := s.taskStore(tx).Update(ctx, task); err != nil {
			return err
		}
		var err error
		saved, err = s.reminderStore(tx).Save(ctx, drafts)
		return err
	})
	if err != nil {
		return nil, Flags{}, err
	}

	flags := s.fireSideChannels(ctx, saved, drafts)
	s.emit(ctx, events.TypeTaskReassigned, task.ID, task)
	return task, flags, nil
}

// SetTaskStatus implements Service.SetTaskStatus.
func (s *TaskService) SetTaskStatus(
	ctx context.Context,
	actor Actor,
	taskID string,
	status domain.Status,
) (*domain.Task, Flags, error) {
	if !status.IsValid() {
		return nil, Flags{}, domain.ErrInvalidStatus
	}

	task, err := s.deps.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, Flags{}, err
	}
	if !actor.IsAdmin() && actor.OperatorID != task.Assignee.OperatorID {
		return nil, Flags{}, fmt.Errorf(
			"%w: only the assignee or an admin may change task status", ErrUnauthorized,
		)
	}
	if task.Status == status {
		return task, Flags{}, nil
	}

	prior := task.Status
	task.Status = status

	completed := status == domain.StatusCompleted
	if completed {
		now := s.deps.Now()
		task.ActualDate = &now

		hours, err := s.deps.WorkLog.HoursLogged(ctx, task.ID)
		if err != nil {
			return nil, Flags{}, newServiceError("set_task_status", "failed to aggregate logged work", err)
		}
		task.TimeTaken = &hours

		if task.ReviewerStatus == domain.ReviewerStatusUnset {
			task.ReviewerStatus = domain.ReviewerStatusPending
		}
	}
	// A rejected task that moves on clears the rejection marker.
	if task.ReviewerStatus == domain.ReviewerStatusRejected && status != domain.StatusWIP {
		task.ReviewerStatus = domain.ReviewerStatusPending
	}

	drafts := immediateOnly(schedule.PlanReminders(
		task,
		schedule.Trigger{Kind: schedule.TriggerStatusUpdate, PriorStatus: prior},
		s.deps.Now(),
		s.deps.Params,
	))

	var saved []*domain.Reminder
	err = s.inTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if completed {
			// A finished task needs no further date-anchored nudges.
			if _, err := s.reminderStore(tx).CancelPending(ctx, task.ID); err != nil {
				return err
			}
		}
		if err := s.taskStore(tx).Update(ctx, task); err != nil {
			return err
		}
		var err error
		saved, err = s.reminderStore(tx).Save(ctx, drafts)
		return err
	})
	if err != nil {
		return nil, Flags{}, err
	}

	flags := s.fireSideChannels(ctx, saved, drafts)
	s.emit(ctx, events.TypeTaskStatusChanged, task.ID, map[string]any{
		"from": prior,
		"to":   status,
	})
	return task, flags, nil
}

// SubmitReviewDecision implements Service.SubmitReviewDecision.
func (s *TaskService) SubmitReviewDecision(
	ctx context.Context,
	actor Actor,
	taskID string,
	decision domain.ReviewerStatus,
) (*domain.Task, Flags, error) {
	if decision != domain.ReviewerStatusApproved && decision != domain.ReviewerStatusRejected {
		return nil, Flags{}, ErrInvalidReviewDecision
	}
	if !actor.IsAdmin() {
		return nil, Flags{}, fmt.Errorf("%w: review decisions require the admin role", ErrUnauthorized)
	}

	task, err := s.deps.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, Flags{}, err
	}
	if task.Status != domain.StatusCompleted {
		return nil, Flags{}, fmt.Errorf("%w: task %s is not completed", ErrReviewNotAllowed, task.ID)
	}
	if task.ReviewerStatus != domain.ReviewerStatusUnset && task.ReviewerStatus != domain.ReviewerStatusPending {
		return nil, Flags{}, fmt.Errorf(
			"%w: task %s already has decision %s", ErrReviewNotAllowed, task.ID, task.ReviewerStatus,
		)
	}

	task.ReviewerStatus = decision

	var drafts []domain.ReminderDraft
	if decision == domain.ReviewerStatusRejected {
		// Rejection reopens the task; the assignee is told the work came back.
		task.Status = domain.StatusWIP
		drafts = immediateOnly(schedule.PlanReminders(
			task,
			schedule.Trigger{Kind: schedule.TriggerReassignment},
			s.deps.Now(),
			s.deps.Params,
		))
	}

	var saved []*domain.Reminder
	err = s.inTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore(tx).Update(ctx, task); err != nil {
			return err
		}
		var err error
		saved, err = s.reminderStore(tx).Save(ctx, drafts)
		return err
	})
	if err != nil {
		return nil, Flags{}, err
	}

	flags := s.fireSideChannels(ctx, saved, drafts)
	s.emit(ctx, events.TypeTaskReviewRecorded, task.ID, map[string]any{
		"decision": decision,
	})
	return task, flags, nil
}

// DeactivateOperatorTasks implements Service.DeactivateOperatorTasks.
// Per the bulk transition rules, parked tasks produce no per-task
// notifications; their scheduled reminders are cancelled so a deactivated
// operator stops receiving mail.
func (s *TaskService) DeactivateOperatorTasks(
	ctx context.Context,
	actor Actor,
	operatorID int64,
) ([]*domain.Task, Flags, error) {
	if !actor.IsAdmin() {
		return nil, Flags{}, fmt.Errorf("%w: deactivating operators requires the admin role", ErrUnauthorized)
	}

	if _, err := s.deps.Operators.GetOperator(ctx, operatorID); err != nil {
		return nil, Flags{}, err
	}

	var parked []*domain.Task
	err := s.inTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		parked, err = s.taskStore(tx).ParkOpenTasks(ctx, operatorID)
		if err != nil {
			return err
		}
		for _, task := range parked {
			if _, err := s.reminderStore(tx).CancelPending(ctx, task.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, Flags{}, err
	}

	s.emit(ctx, events.TypeTasksParked, "", map[string]any{
		"operator_id": operatorID,
		"task_count":  len(parked),
	})
	return parked, Flags{}, nil
}

// ListDueReminders implements Service.ListDueReminders.
func (s *TaskService) ListDueReminders(ctx context.Context, asOf time.Time) ([]*domain.Reminder, error) {
	return s.deps.Reminders.ListDue(ctx, asOf)
}

// activeOperator looks up an operator and rejects inactive ones.
func (s *TaskService) activeOperator(ctx context.Context, id int64) (*domain.Operator, error) {
	operator, err := s.deps.Operators.GetOperator(ctx, id)
	if err != nil {
		return nil, err
	}
	if !operator.Active {
		return nil, fmt.Errorf("%w: operator %d", ErrOperatorInactive, id)
	}
	return operator, nil
}

// inTransaction runs fn inside a transaction when a database handle is
// configured, and directly otherwise.
func (s *TaskService) inTransaction(ctx context.Context, fn store.TxFn) error {
	if s.deps.DB == nil {
		return fn(ctx, nil)
	}
	return store.RunInTransaction(ctx, s.deps.DB, fn)
}

// taskStore returns the task store bound to tx when one is active.
func (s *TaskService) taskStore(tx *sql.Tx) store.TaskStore {
	if tx == nil {
		return s.deps.Tasks
	}
	return s.deps.Tasks.WithTx(tx)
}

// reminderStore returns the reminder store bound to tx when one is active.
func (s *TaskService) reminderStore(tx *sql.Tx) store.ReminderStore {
	if tx == nil {
		return s.deps.Reminders
	}
	return s.deps.Reminders.WithTx(tx)
}

// fireSideChannels dispatches the operation's transactional reminders right
// after commit and folds the outcomes into result flags. Delivery failures
// land on the stored reminders, not on the operation.
func (s *TaskService) fireSideChannels(
	ctx context.Context,
	saved []*domain.Reminder,
	drafts []domain.ReminderDraft,
) Flags {
	log := logger.FromContext(ctx)

	flags := Flags{}
	attempted := 0
	delivered := 0

	for i, draft := range drafts {
		if !draft.Immediate || i >= len(saved) {
			continue
		}

		// Claim before dispatching: the reminder committed as pending, and a
		// sweep tick landing in this window would otherwise deliver it too.
		claimed, err := s.deps.Reminders.ClaimByID(ctx, saved[i].ID)
		if err != nil {
			if errors.Is(err, store.ErrReminderClaimed) {
				log.Debug("reminder claimed by sweeper, skipping immediate dispatch",
					"reminder_id", saved[i].ID,
					"task_id", saved[i].TaskID)
				continue
			}
			attempted++
			log.Error("failed to claim reminder for immediate dispatch",
				"reminder_id", saved[i].ID,
				"task_id", saved[i].TaskID,
				"error", err)
			continue
		}
		attempted++

		result, err := s.deps.Dispatcher.DispatchOne(ctx, claimed)
		if err != nil {
			log.Error("immediate dispatch failed",
				"reminder_id", claimed.ID,
				"task_id", claimed.TaskID,
				"error", err)
			continue
		}
		if result.Sent {
			delivered++
		}
		if result.CalendarAdded {
			flags.CalendarAdded = true
		}
	}

	flags.NotificationSent = attempted > 0 && delivered == attempted
	flags.RemindersScheduled = len(drafts) > attempted
	return flags
}

// emit publishes a lifecycle event when an emitter is configured. Event
// delivery is best-effort.
func (s *TaskService) emit(ctx context.Context, eventType, taskID string, payload any) {
	if s.deps.Emitter == nil {
		return
	}

	event, err := events.NewTaskEvent(eventType, taskID, payload)
	if err != nil {
		logger.FromContext(ctx).Error("failed to build lifecycle event",
			"event_type", eventType,
			"error", err)
		return
	}
	if err := s.deps.Emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("lifecycle event handler failed",
			"event_type", eventType,
			"error", err)
	}
}

// immediateOnly filters a plan down to its transactional drafts. Used by
// transitions that must not re-plan date-anchored reminders.
func immediateOnly(drafts []domain.ReminderDraft) []domain.ReminderDraft {
	out := drafts[:0:0]
	for _, d := range drafts {
		if d.Immediate {
			out = append(out, d)
		}
	}
	return out
}
