package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskmill/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeDueDate(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name      string
		start     time.Time
		iteration int
		frequency int
		expected  time.Time
	}{
		{
			name:      "monthly activity first iteration",
			start:     date(2024, time.January, 1),
			iteration: 1,
			frequency: 12,
			expected:  date(2024, time.January, 31), // 365/12 = 30 days
		},
		{
			name:      "iteration zero is the start date",
			start:     date(2024, time.January, 1),
			iteration: 0,
			frequency: 12,
			expected:  date(2024, time.January, 1),
		},
		{
			name:      "quarterly activity second iteration",
			start:     date(2024, time.January, 1),
			iteration: 2,
			frequency: 4,
			expected:  date(2024, time.July, 1), // 2 * 91 days
		},
		{
			name:      "annual activity",
			start:     date(2024, time.March, 15),
			iteration: 1,
			frequency: 1,
			expected:  date(2025, time.March, 15),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeDueDate(tc.start, tc.iteration, tc.frequency, params)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestComputeDueDate_InvalidFrequency(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for _, freq := range []int{0, -1, -12} {
		_, err := ComputeDueDate(date(2024, time.January, 1), 1, freq, params)
		assert.ErrorIs(t, err, ErrInvalidFrequency, "frequency %d", freq)
	}
}

func TestComputeDueDate_InvalidIteration(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for _, iter := range []int{-1, -12} {
		_, err := ComputeDueDate(date(2024, time.January, 1), iter, 12, params)
		assert.ErrorIs(t, err, ErrInvalidIteration, "iteration %d", iter)
		assert.NotErrorIs(t, err, ErrInvalidFrequency, "iteration %d", iter)
	}
}

func TestComputeDueDate_MonotonicInIteration(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	start := date(2024, time.January, 1)

	for _, freq := range []int{1, 4, 12, 52, 365, 400} {
		prev := start
		for iter := 0; iter <= 20; iter++ {
			got, err := ComputeDueDate(start, iter, freq, params)
			require.NoError(t, err)
			assert.False(t, got.Before(prev),
				"frequency %d iteration %d went backward", freq, iter)
			prev = got
		}
	}
}

func TestAdjustForBusinessDay(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	// 2024-06-14 is a Friday, 15/16 the weekend, 17 a Monday.
	testCases := []struct {
		name        string
		candidate   time.Time
		criticality domain.Criticality
		holidays    []time.Time
		expected    time.Time
	}{
		{
			name:        "business day passes through unchanged",
			candidate:   date(2024, time.January, 31), // Wednesday
			criticality: domain.CriticalityMedium,
			expected:    date(2024, time.January, 31),
		},
		{
			name:        "saturday shifts back to friday for high criticality",
			candidate:   date(2024, time.June, 15),
			criticality: domain.CriticalityHigh,
			expected:    date(2024, time.June, 14),
		},
		{
			name:        "saturday shifts forward to monday for low criticality",
			candidate:   date(2024, time.June, 15),
			criticality: domain.CriticalityLow,
			expected:    date(2024, time.June, 17),
		},
		{
			name:        "holiday friday pushes high criticality back to thursday",
			candidate:   date(2024, time.June, 15),
			criticality: domain.CriticalityHigh,
			holidays:    []time.Time{date(2024, time.June, 14)},
			expected:    date(2024, time.June, 13),
		},
		{
			name:        "holiday monday pushes medium criticality to tuesday",
			candidate:   date(2024, time.June, 16), // Sunday
			criticality: domain.CriticalityMedium,
			holidays:    []time.Time{date(2024, time.June, 17)},
			expected:    date(2024, time.June, 18),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cal := NewCalendar(tc.holidays)
			got, err := AdjustForBusinessDay(tc.candidate, tc.criticality, cal, params)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestAdjustForBusinessDay_FewestSteps(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	cal := NewCalendar(nil)

	// High criticality never moves the date later; others never earlier.
	start := date(2024, time.June, 1)
	for i := 0; i < 14; i++ {
		candidate := start.AddDate(0, 0, i)

		back, err := AdjustForBusinessDay(candidate, domain.CriticalityHigh, cal, params)
		require.NoError(t, err)
		assert.False(t, back.After(candidate))
		assert.True(t, cal.IsBusinessDay(back))

		fwd, err := AdjustForBusinessDay(candidate, domain.CriticalityLow, cal, params)
		require.NoError(t, err)
		assert.False(t, fwd.Before(candidate))
		assert.True(t, cal.IsBusinessDay(fwd))
	}
}

func TestAdjustForBusinessDay_UnresolvableHolidayRun(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	// Every day for two months is a holiday; the bounded loop must give up
	// instead of spinning.
	var holidays []time.Time
	for d := date(2024, time.May, 1); d.Before(date(2024, time.August, 1)); d = d.AddDate(0, 0, 1) {
		holidays = append(holidays, d)
	}
	cal := NewCalendar(holidays)

	_, err := AdjustForBusinessDay(date(2024, time.June, 15), domain.CriticalityLow, cal, params)
	assert.ErrorIs(t, err, ErrUnresolvableDueDate)

	_, err = AdjustForBusinessDay(date(2024, time.June, 15), domain.CriticalityHigh, cal, params)
	assert.ErrorIs(t, err, ErrUnresolvableDueDate)
}

func TestAdjustForBusinessDay_ExaminesExactlyMaxAdjustSteps(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	params.MaxAdjustSteps = 3

	// 2024-06-11 to 14 are Tuesday through Friday.
	tue := date(2024, time.June, 11)

	// Business day on the last examined date resolves.
	cal := NewCalendar([]time.Time{tue, date(2024, time.June, 12)})
	got, err := AdjustForBusinessDay(tue, domain.CriticalityLow, cal, params)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 13), got)

	// One holiday more and the bound is exceeded, even though Friday is free.
	cal = NewCalendar([]time.Time{tue, date(2024, time.June, 12), date(2024, time.June, 13)})
	_, err = AdjustForBusinessDay(tue, domain.CriticalityLow, cal, params)
	assert.ErrorIs(t, err, ErrUnresolvableDueDate)
}

func TestAdjustForBusinessDay_Deterministic(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	cal := NewCalendar([]time.Time{date(2024, time.June, 14)})

	first, err := AdjustForBusinessDay(date(2024, time.June, 15), domain.CriticalityHigh, cal, params)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := AdjustForBusinessDay(date(2024, time.June, 15), domain.CriticalityHigh, cal, params)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
