package schedule

import "time"

// Params defines all configurable parameters for due-date computation and
// reminder planning.
type Params struct {
	// DaysPerYear is the day count used to convert an activity's yearly
	// frequency into an interval between iterations.
	DaysPerYear int

	// MaxAdjustSteps bounds the business-day adjustment loop. Adversarial
	// holiday data could otherwise make the loop spin forever.
	MaxAdjustSteps int

	// MaxLeadDays caps how far before the due date the lead reminder may be
	// scheduled.
	MaxLeadDays int

	// ReminderHour is the fixed local hour of day reminders fire at.
	ReminderHour int

	// ReminderLocation is the time zone reminders are anchored in.
	ReminderLocation *time.Location
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		DaysPerYear:      365,
		MaxAdjustSteps:   30,
		MaxLeadDays:      7,
		ReminderHour:     9,
		ReminderLocation: time.UTC,
	}
}

// at returns d's calendar day combined with the configured reminder
// time-of-day.
func (p *Params) at(d time.Time) time.Time {
	loc := p.ReminderLocation
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), p.ReminderHour, 0, 0, 0, loc)
}
