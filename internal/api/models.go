package api

import (
	"time"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/service/lifecycle"
)

// AssignTaskRequest is the payload for creating a task from an activity.
type AssignTaskRequest struct {
	ActivityID int64  `json:"activity_id" validate:"required,gt=0"`
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	OperatorID int64  `json:"operator_id" validate:"required,gt=0"`
	Iteration  int    `json:"iteration"   validate:"gte=0"`
	Remarks    string `json:"remarks"     validate:"max=2000"`
	Link       string `json:"link"        validate:"omitempty,url"`
}

// UpdateTaskRequest is the payload for PATCH /tasks/{id}. Exactly one of
// OperatorID (reassignment) or Status (status change) must be set.
type UpdateTaskRequest struct {
	OperatorID *int64  `json:"operator_id,omitempty" validate:"omitempty,gt=0"`
	Status     *string `json:"status,omitempty"      validate:"omitempty,oneof=yet_to_start wip pending completed"`
}

// ReviewDecisionRequest is the payload for recording a reviewer verdict.
type ReviewDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

// TaskResponse carries the mutated task together with the side-channel
// flags of the operation.
type TaskResponse struct {
	Task  *domain.Task    `json:"task"`
	Flags lifecycle.Flags `json:"flags"`
}

// ParkedTasksResponse is the result of deactivating an operator.
type ParkedTasksResponse struct {
	Parked []*domain.Task `json:"parked"`
	Count  int            `json:"count"`
}

// ReminderResponse is the read model for a stored reminder.
type ReminderResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	Recipient   string    `json:"recipient"`
	Kind        string    `json:"kind"`
	Summary     string    `json:"summary"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Outcome     string    `json:"outcome"`
	ErrorDetail string    `json:"error_detail,omitempty"`
}

// DueRemindersResponse is the result of the due-reminder listing.
type DueRemindersResponse struct {
	AsOf      time.Time          `json:"as_of"`
	Reminders []ReminderResponse `json:"reminders"`
}

// newReminderResponse maps a domain reminder onto its read model.
func newReminderResponse(rem *domain.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:          rem.ID.String(),
		TaskID:      rem.TaskID,
		Recipient:   rem.Recipient,
		Kind:        string(rem.Kind),
		Summary:     rem.Summary,
		ScheduledAt: rem.ScheduledAt,
		Outcome:     string(rem.Outcome),
		ErrorDetail: rem.ErrorDetail,
	}
}
