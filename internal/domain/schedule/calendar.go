package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Calendar is an immutable snapshot of the holiday set. A date is a business
// day iff its weekday is Monday through Friday and it is not a holiday.
//
// Snapshots are cheap to construct and safe for concurrent use; date
// computations against a fixed snapshot are fully deterministic, which is
// what makes the due-date engine reproducible in tests.
type Calendar struct {
	holidays map[string]struct{}
}

// dayKey normalizes a time to its calendar day, ignoring clock and zone
// offsets within the day.
func dayKey(d time.Time) string {
	return d.Format("2006-01-02")
}

// NewCalendar builds a snapshot from the given holiday dates.
func NewCalendar(holidays []time.Time) *Calendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[dayKey(h)] = struct{}{}
	}
	return &Calendar{holidays: set}
}

// IsBusinessDay reports whether d is a weekday that is not a holiday.
func (c *Calendar) IsBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[dayKey(d)]
	return !holiday
}

// HolidaySource lists the externally maintained holiday dates. The holiday
// set can change between calls, so callers needing reproducibility should
// take a snapshot and pass it around explicitly.
type HolidaySource interface {
	ListHolidays(ctx context.Context) ([]time.Time, error)
}

// CalendarSource produces holiday snapshots on demand.
type CalendarSource interface {
	// Snapshot returns a calendar reflecting the holiday set no older than
	// the source's staleness tolerance.
	Snapshot(ctx context.Context) (*Calendar, error)
}

// CachingCalendarSource reads the holiday set through a HolidaySource and
// caches the snapshot for a bounded lifetime. The TTL is the staleness
// tolerance knob: zero disables caching and every Snapshot call reads fresh.
type CachingCalendarSource struct {
	source HolidaySource
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	snapshot  *Calendar
	fetchedAt time.Time
}

// NewCachingCalendarSource creates a calendar source with the given staleness
// tolerance.
func NewCachingCalendarSource(source HolidaySource, ttl time.Duration) *CachingCalendarSource {
	return &CachingCalendarSource{
		source: source,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot returns the cached calendar if it is still fresh, otherwise reads
// the holiday set again.
func (s *CachingCalendarSource) Snapshot(ctx context.Context) (*Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil && s.ttl > 0 && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.snapshot, nil
	}

	holidays, err := s.source.ListHolidays(ctx)
	if err != nil {
		// Serve a stale snapshot rather than failing outright when one exists.
		if s.snapshot != nil {
			return s.snapshot, nil
		}
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	s.snapshot = NewCalendar(holidays)
	s.fetchedAt = s.now()
	return s.snapshot, nil
}
