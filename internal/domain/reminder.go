package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reminder-specific validation errors
var (
	// ErrReminderIDEmpty is returned when a reminder ID is nil.
	ErrReminderIDEmpty = errors.New("reminder ID cannot be empty")

	// ErrReminderTaskIDEmpty is returned when a reminder's task reference is empty.
	ErrReminderTaskIDEmpty = errors.New("reminder task ID cannot be empty")

	// ErrReminderRecipientEmpty is returned when a reminder has no recipient email.
	ErrReminderRecipientEmpty = errors.New("reminder recipient cannot be empty")

	// ErrReminderScheduleZero is returned when a reminder has no scheduled time.
	ErrReminderScheduleZero = errors.New("reminder scheduled time cannot be zero")
)

// ReminderDraft is a reminder the planner wants scheduled. Drafts carry no
// identity or outcome; persistence is the caller's responsibility.
type ReminderDraft struct {
	TaskID      string       `json:"task_id"`
	Recipient   string       `json:"recipient"`
	Kind        ReminderKind `json:"kind"`
	Summary     string       `json:"summary"`
	PriorStatus Status       `json:"prior_status,omitempty"` // set for status_update drafts
	ScheduledAt time.Time    `json:"scheduled_at"`
	Immediate   bool         `json:"immediate"` // transactional drafts bypass the periodic sweep
}

// Reminder is a scheduled, classified notification tied to exactly one task.
// Reminders are produced by the planner and consumed by the dispatcher; no
// other component updates them. Superseding reminders are added, not mutated
// in place; stale pending reminders are cancelled explicitly.
type Reminder struct {
	ID          uuid.UUID       `json:"id"`
	TaskID      string          `json:"task_id"`
	Recipient   string          `json:"recipient"`
	Kind        ReminderKind    `json:"kind"`
	Summary     string          `json:"summary"`
	PriorStatus Status          `json:"prior_status,omitempty"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Outcome     ReminderOutcome `json:"outcome"`
	ErrorDetail string          `json:"error_detail,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewReminder materializes a draft into a pending reminder with a fresh ID.
func NewReminder(draft ReminderDraft) (*Reminder, error) {
	now := time.Now().UTC()
	r := &Reminder{
		ID:          uuid.New(),
		TaskID:      draft.TaskID,
		Recipient:   draft.Recipient,
		Kind:        draft.Kind,
		Summary:     draft.Summary,
		PriorStatus: draft.PriorStatus,
		ScheduledAt: draft.ScheduledAt,
		Outcome:     ReminderOutcomePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks if the Reminder has valid data.
func (r *Reminder) Validate() error {
	if r.ID == uuid.Nil {
		return ErrReminderIDEmpty
	}

	if strings.TrimSpace(r.TaskID) == "" {
		return ErrReminderTaskIDEmpty
	}

	if strings.TrimSpace(r.Recipient) == "" {
		return ErrReminderRecipientEmpty
	}

	if !r.Kind.IsValid() {
		return ErrInvalidReminderKind
	}

	if r.ScheduledAt.IsZero() {
		return ErrReminderScheduleZero
	}

	if !r.Outcome.IsValid() {
		return ErrInvalidReminderOutcome
	}

	return nil
}
