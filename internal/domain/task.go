package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskNameEmpty is returned when a task name is empty.
	ErrTaskNameEmpty = errors.New("task name cannot be empty")

	// ErrTaskCustomerEmpty is returned when a task's customer name is empty.
	ErrTaskCustomerEmpty = errors.New("task customer name cannot be empty")

	// ErrTaskAssigneeInvalid is returned when a task's assignee is missing or incomplete.
	ErrTaskAssigneeInvalid = errors.New("task assignee must have an ID, name and email")

	// ErrTaskDurationNegative is returned when a task's estimated duration is negative.
	ErrTaskDurationNegative = errors.New("task duration cannot be negative")

	// ErrTaskCompletedWithoutDate is returned when a completed task has no
	// actual completion date.
	ErrTaskCompletedWithoutDate = errors.New("completed task must have an actual completion date")

	// ErrTaskRejectedNotWIP is returned when a rejected task is not in WIP
	// status. A rejection always reopens the task.
	ErrTaskRejectedNotWIP = errors.New("rejected task must be in WIP status")
)

// Assignee identifies the operator a task is assigned to.
type Assignee struct {
	OperatorID int64  `json:"operator_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// Task is one concrete, assigned instance of an activity for one customer.
// The engine never hard-deletes tasks; deactivating an operator parks their
// open tasks instead.
type Task struct {
	ID             string         `json:"id"`
	ActivityID     int64          `json:"activity_id"`
	Name           string         `json:"name"`
	CustomerID     int64          `json:"customer_id"`
	CustomerName   string         `json:"customer_name"`
	Assignee       Assignee       `json:"assignee"`
	Criticality    Criticality    `json:"criticality"`
	Duration       float64        `json:"duration"` // estimated duration in days
	DueDate        *time.Time     `json:"due_date,omitempty"`
	ActualDate     *time.Time     `json:"actual_date,omitempty"`
	TimeTaken      *float64       `json:"time_taken,omitempty"` // hours logged, set on completion
	Remarks        string         `json:"remarks,omitempty"`
	Link           string         `json:"link,omitempty"`
	Status         Status         `json:"status"`
	ReviewerStatus ReviewerStatus `json:"reviewer_status"`
	Version        int64          `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TaskID builds the external task identifier used by the original system:
// the activity ID, the customer ID, and the due date as DDMMYYYY.
func TaskID(activityID, customerID int64, dueDate time.Time) string {
	return fmt.Sprintf("%d%d%s", activityID, customerID, dueDate.Format("02012006"))
}

// NewTask creates a task in its initial lifecycle state (YetToStart, no
// reviewer decision) and validates it.
func NewTask(
	id string,
	activityID int64,
	name string,
	customerID int64,
	customerName string,
	assignee Assignee,
	criticality Criticality,
	duration float64,
	dueDate *time.Time,
	remarks string,
	link string,
) (*Task, error) {
	now := time.Now().UTC()
	t := &Task{
		ID:             id,
		ActivityID:     activityID,
		Name:           name,
		CustomerID:     customerID,
		CustomerName:   customerName,
		Assignee:       assignee,
		Criticality:    criticality,
		Duration:       duration,
		DueDate:        dueDate,
		Remarks:        remarks,
		Link:           link,
		Status:         StatusYetToStart,
		ReviewerStatus: ReviewerStatusUnset,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks if the Task has valid data, including the cross-field
// invariants the lifecycle enforces.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrTaskIDEmpty
	}

	if strings.TrimSpace(t.Name) == "" {
		return ErrTaskNameEmpty
	}

	if strings.TrimSpace(t.CustomerName) == "" {
		return ErrTaskCustomerEmpty
	}

	if t.Assignee.OperatorID == 0 || t.Assignee.Name == "" || t.Assignee.Email == "" {
		return ErrTaskAssigneeInvalid
	}

	if !t.Criticality.IsValid() {
		return ErrInvalidCriticality
	}

	if t.Duration < 0 {
		return ErrTaskDurationNegative
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	if !t.ReviewerStatus.IsValid() {
		return ErrInvalidReviewerStatus
	}

	if t.Status == StatusCompleted && t.ActualDate == nil {
		return ErrTaskCompletedWithoutDate
	}

	if t.ReviewerStatus == ReviewerStatusRejected && t.Status != StatusWIP {
		return ErrTaskRejectedNotWIP
	}

	return nil
}
