package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/taskmill/internal/domain"
)

// Due-date engine errors
var (
	// ErrInvalidFrequency is returned when an activity's yearly frequency is
	// zero or negative. The engine never divides by zero.
	ErrInvalidFrequency = errors.New("frequency per year must be a positive integer")

	// ErrInvalidIteration is returned when the requested iteration index is
	// negative. The first occurrence of an activity is iteration 0.
	ErrInvalidIteration = errors.New("iteration index cannot be negative")

	// ErrUnresolvableDueDate is returned when the business-day adjustment
	// cannot find a business day within the bounded number of steps.
	ErrUnresolvableDueDate = errors.New("no business day found within adjustment bound")
)

// ComputeDueDate returns the candidate due date for the given iteration of a
// recurring activity: startDate plus floor(DaysPerYear/frequencyPerYear) days
// per iteration.
//
// The result is a raw candidate; callers snap it to a business day with
// AdjustForBusinessDay before using it.
func ComputeDueDate(
	startDate time.Time,
	iterationIndex int,
	frequencyPerYear int,
	params *Params,
) (time.Time, error) {
	if frequencyPerYear <= 0 {
		return time.Time{}, fmt.Errorf("%w: got %d", ErrInvalidFrequency, frequencyPerYear)
	}
	if iterationIndex < 0 {
		return time.Time{}, fmt.Errorf("%w: got %d", ErrInvalidIteration, iterationIndex)
	}

	interval := params.DaysPerYear / frequencyPerYear
	return startDate.AddDate(0, 0, interval*iterationIndex), nil
}

// AdjustForBusinessDay shifts candidate one day at a time until it lands on a
// business day: backward for High criticality, forward otherwise. The loop is
// bounded by Params.MaxAdjustSteps.
//
// Identical inputs against an identical calendar snapshot always yield the
// identical date.
func AdjustForBusinessDay(
	candidate time.Time,
	criticality domain.Criticality,
	cal *Calendar,
	params *Params,
) (time.Time, error) {
	step := 1
	if criticality == domain.CriticalityHigh {
		step = -1
	}

	date := candidate
	for i := 0; i < params.MaxAdjustSteps; i++ {
		if cal.IsBusinessDay(date) {
			return date, nil
		}
		date = date.AddDate(0, 0, step)
	}

	return time.Time{}, fmt.Errorf("%w: gave up after %d steps from %s",
		ErrUnresolvableDueDate, params.MaxAdjustSteps, candidate.Format("2006-01-02"))
}
