package punchclock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Note: these helpers are shared by every test file in the package.

func date(year int, month time.Month, day int) punchclock.Date {
	return punchclock.NewDate(year, month, day)
}

func clock(s string) punchclock.ClockTime {
	c, err := punchclock.ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// =============================================================================
// MONTHLY PERIOD TESTS
// =============================================================================

func TestPeriodFor_ReferenceBeforeStartDay(t *testing.T) {
	// GIVEN: Start day 5
	// WHEN: Reference date is Jan 3 (before the 5th)
	// THEN: Period is Dec 5 .. Jan 4 of the previous month boundary

	period := punchclock.PeriodFor(date(2025, time.January, 3), 5)

	assert.Equal(t, date(2024, time.December, 5), period.Start)
	assert.Equal(t, date(2025, time.January, 4), period.End)
}

func TestPeriodFor_ReferenceOnOrAfterStartDay(t *testing.T) {
	// GIVEN: Start day 5
	// WHEN: Reference date is Jan 10 (on/after the 5th)
	// THEN: Period is Jan 5 .. Feb 4

	period := punchclock.PeriodFor(date(2025, time.January, 10), 5)

	assert.Equal(t, date(2025, time.January, 5), period.Start)
	assert.Equal(t, date(2025, time.February, 4), period.End)
}

func TestPeriodFor_ReferenceExactlyOnStartDay(t *testing.T) {
	period := punchclock.PeriodFor(date(2025, time.March, 5), 5)

	assert.Equal(t, date(2025, time.March, 5), period.Start)
	assert.Equal(t, date(2025, time.April, 4), period.End)
}

func TestPeriodFor_StartDayOne_IsCalendarMonth(t *testing.T) {
	period := punchclock.PeriodFor(date(2025, time.February, 14), 1)

	assert.Equal(t, date(2025, time.February, 1), period.Start)
	assert.Equal(t, date(2025, time.February, 28), period.End)
}

func TestPeriodFor_StartDayClamped(t *testing.T) {
	// GIVEN: Out-of-range start days
	// THEN: They clamp into [1, 28] so every month has the start day

	low := punchclock.PeriodFor(date(2025, time.June, 15), 0)
	assert.Equal(t, 1, low.Start.Day())

	high := punchclock.PeriodFor(date(2025, time.June, 15), 31)
	assert.Equal(t, 28, high.Start.Day())
}

func TestPeriodFor_YearBoundary(t *testing.T) {
	// GIVEN: Start day 20, reference Jan 10
	// THEN: Period starts Dec 20 of the prior year

	period := punchclock.PeriodFor(date(2026, time.January, 10), 20)

	assert.Equal(t, date(2025, time.December, 20), period.Start)
	assert.Equal(t, date(2026, time.January, 19), period.End)
}

func TestPeriod_ContainsBothEndpoints(t *testing.T) {
	period := punchclock.PeriodFor(date(2025, time.January, 10), 5)

	assert.True(t, period.Contains(period.Start))
	assert.True(t, period.Contains(period.End))
	assert.False(t, period.Contains(period.Start.AddDays(-1)))
	assert.False(t, period.Contains(period.End.AddDays(1)))
}

// =============================================================================
// PERIOD ENUMERATION TESTS
// =============================================================================

func TestEnumeratePeriods_CoversRangeWithoutGaps(t *testing.T) {
	// GIVEN: A range spanning three payroll months
	// WHEN: Enumerating with start day 5
	// THEN: Consecutive periods tile the range with no gaps or overlaps

	periods := punchclock.EnumeratePeriods(date(2025, time.January, 3), date(2025, time.March, 10), 5)

	require.Len(t, periods, 4)
	assert.Equal(t, date(2024, time.December, 5), periods[0].Start)
	for i := 1; i < len(periods); i++ {
		assert.Equal(t, periods[i-1].End.AddDays(1), periods[i].Start,
			"period %d must start the day after period %d ends", i, i-1)
	}
	assert.True(t, periods[len(periods)-1].Contains(date(2025, time.March, 10)))
}

func TestEnumeratePeriods_SingleDay(t *testing.T) {
	day := date(2025, time.July, 7)
	periods := punchclock.EnumeratePeriods(day, day, 1)

	require.Len(t, periods, 1)
	assert.True(t, periods[0].Contains(day))
}

func TestEnumeratePeriods_EmptyWhenReversed(t *testing.T) {
	periods := punchclock.EnumeratePeriods(date(2025, time.March, 10), date(2025, time.January, 3), 5)
	assert.Empty(t, periods)
}
