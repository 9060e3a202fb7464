package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/domain/schedule"
	"github.com/phrazzld/taskmill/internal/service/lifecycle"
	"github.com/phrazzld/taskmill/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authorization errors
	case errors.Is(err, lifecycle.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, lifecycle.ErrOperatorInactive),
		errors.Is(err, lifecycle.ErrInvalidReviewDecision),
		errors.Is(err, lifecycle.ErrReviewNotAllowed),
		errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest

	// Due date computation errors
	case errors.Is(err, schedule.ErrInvalidFrequency),
		errors.Is(err, schedule.ErrInvalidIteration),
		errors.Is(err, schedule.ErrUnresolvableDueDate):
		return http.StatusUnprocessableEntity

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, lifecycle.ErrUnauthorized):
		return "You are not authorized for this operation"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrActivityNotFound):
		return "Activity not found"

	case errors.Is(err, store.ErrOperatorNotFound):
		return "Operator not found"

	case errors.Is(err, store.ErrCustomerNotFound):
		return "Customer not found"

	case errors.Is(err, store.ErrReminderNotFound):
		return "Reminder not found"

	case errors.Is(err, store.ErrTaskExists):
		return "A task already exists for this activity and customer"

	case errors.Is(err, store.ErrConflict):
		return "The task was modified concurrently, please retry"

	case errors.Is(err, lifecycle.ErrOperatorInactive):
		return "The operator is not active"

	case errors.Is(err, lifecycle.ErrInvalidReviewDecision):
		return "Review decision must be approved or rejected"

	case errors.Is(err, lifecycle.ErrReviewNotAllowed):
		return "The task is not awaiting review"

	case errors.Is(err, domain.ErrInvalidStatus):
		return "Invalid task status"

	case errors.Is(err, schedule.ErrInvalidFrequency):
		return "The activity has an invalid recurrence frequency"

	case errors.Is(err, schedule.ErrInvalidIteration):
		return "The iteration index cannot be negative"

	case errors.Is(err, schedule.ErrUnresolvableDueDate):
		return "No business day could be resolved for the due date"

	default:
		return "An unexpected error occurred"
	}
}
