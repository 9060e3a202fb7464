package lifecycle

import (
	"errors"
	"fmt"
)

// Lifecycle errors. Store-level errors (not found, conflict, duplicate)
// pass through from the store package unchanged.
var (
	// ErrUnauthorized is returned when the caller's role does not permit the
	// requested operation.
	ErrUnauthorized = errors.New("caller is not authorized for this operation")

	// ErrOperatorInactive is returned when a task would be assigned to a
	// deactivated operator.
	ErrOperatorInactive = errors.New("operator is not active")

	// ErrInvalidReviewDecision is returned when a review decision is neither
	// approved nor rejected.
	ErrInvalidReviewDecision = errors.New("review decision must be approved or rejected")

	// ErrReviewNotAllowed is returned when a review decision is submitted for
	// a task that is not completed or already has a final decision.
	ErrReviewNotAllowed = errors.New("review decision requires a completed task awaiting review")
)

// ServiceError wraps a lower-level failure with the operation that hit it.
// It unwraps to the original error so callers can still match sentinels.
type ServiceError struct {
	Operation string // the lifecycle operation (e.g. "assign_task")
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError creates a ServiceError for the given operation.
func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
