package domain

// Status represents the lifecycle state of a task.
type Status string

// Possible task status values
const (
	StatusYetToStart Status = "yet_to_start"
	StatusWIP        Status = "wip"
	StatusPending    Status = "pending" // administratively parked
	StatusCompleted  Status = "completed"
)

// IsValid reports whether s is one of the defined status values.
func (s Status) IsValid() bool {
	switch s {
	case StatusYetToStart, StatusWIP, StatusPending, StatusCompleted:
		return true
	}
	return false
}

// IsOpen reports whether a task in this status still requires work.
// Completed tasks and parked tasks are not open.
func (s Status) IsOpen() bool {
	return s == StatusYetToStart || s == StatusWIP
}

// ReviewerStatus represents the external reviewer's decision on a task.
// It is independent of Status and only meaningful once a task has been
// completed at least once.
type ReviewerStatus string

// Possible reviewer status values
const (
	ReviewerStatusUnset    ReviewerStatus = "unset"
	ReviewerStatusPending  ReviewerStatus = "pending"
	ReviewerStatusApproved ReviewerStatus = "approved"
	ReviewerStatusRejected ReviewerStatus = "rejected"
)

// IsValid reports whether r is one of the defined reviewer status values.
func (r ReviewerStatus) IsValid() bool {
	switch r {
	case ReviewerStatusUnset, ReviewerStatusPending, ReviewerStatusApproved, ReviewerStatusRejected:
		return true
	}
	return false
}

// Criticality is the priority tag of an activity and its tasks. It decides
// the direction a due date is shifted when it lands on a non-business day.
type Criticality string

// Possible criticality values
const (
	CriticalityLow    Criticality = "low"
	CriticalityMedium Criticality = "medium"
	CriticalityHigh   Criticality = "high"
)

// IsValid reports whether c is one of the defined criticality values.
func (c Criticality) IsValid() bool {
	switch c {
	case CriticalityLow, CriticalityMedium, CriticalityHigh:
		return true
	}
	return false
}

// ReminderKind classifies a scheduled notification. Each kind has its own
// message template.
type ReminderKind string

// Possible reminder kinds
const (
	ReminderKindAssignment   ReminderKind = "assignment"
	ReminderKindReassignment ReminderKind = "reassignment"
	ReminderKindStatusUpdate ReminderKind = "status_update"
	ReminderKindReminder     ReminderKind = "reminder"
	ReminderKindDueToday     ReminderKind = "due_today"
)

// IsValid reports whether k is one of the defined reminder kinds.
func (k ReminderKind) IsValid() bool {
	switch k {
	case ReminderKindAssignment, ReminderKindReassignment, ReminderKindStatusUpdate,
		ReminderKindReminder, ReminderKindDueToday:
		return true
	}
	return false
}

// ReminderOutcome is the delivery state of a reminder.
//
// pending reminders are eligible for dispatch; processing marks an in-flight
// claim by a sweep; sent, failed, and cancelled are terminal.
type ReminderOutcome string

// Possible reminder outcomes
const (
	ReminderOutcomePending    ReminderOutcome = "pending"
	ReminderOutcomeProcessing ReminderOutcome = "processing"
	ReminderOutcomeSent       ReminderOutcome = "sent"
	ReminderOutcomeFailed     ReminderOutcome = "failed"
	ReminderOutcomeCancelled  ReminderOutcome = "cancelled"
)

// IsTerminal reports whether the outcome can no longer change.
func (o ReminderOutcome) IsTerminal() bool {
	return o == ReminderOutcomeSent || o == ReminderOutcomeFailed || o == ReminderOutcomeCancelled
}

// IsValid reports whether o is one of the defined reminder outcomes.
func (o ReminderOutcome) IsValid() bool {
	switch o {
	case ReminderOutcomePending, ReminderOutcomeProcessing, ReminderOutcomeSent,
		ReminderOutcomeFailed, ReminderOutcomeCancelled:
		return true
	}
	return false
}
