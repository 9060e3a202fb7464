package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidStatus is returned when a task status is not one of the
	// defined values.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidReviewerStatus is returned when a reviewer status is not
	// one of the defined values.
	ErrInvalidReviewerStatus = errors.New("invalid reviewer status")

	// ErrInvalidCriticality is returned when a criticality is not one of
	// the defined values.
	ErrInvalidCriticality = errors.New("invalid criticality")

	// ErrInvalidReminderKind is returned when a reminder kind is not one
	// of the defined values.
	ErrInvalidReminderKind = errors.New("invalid reminder kind")

	// ErrInvalidReminderOutcome is returned when a reminder outcome is not
	// one of the defined values.
	ErrInvalidReminderOutcome = errors.New("invalid reminder outcome")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")
)
