package punchclock

// =============================================================================
// PERIOD - Inclusive date window
// =============================================================================

// Period is an inclusive [Start, End] window of calendar days. Both the RH
// reporting periods and the banked-hours cycle windows are Periods.
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the day is within the period [Start, End].
func (p Period) Contains(day Date) bool {
	return day.AfterOrEqual(p.Start) && day.BeforeOrEqual(p.End)
}

// Overlaps returns true if the two periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(p.End)
}

// Equal returns true if both bounds match exactly.
func (p Period) Equal(other Period) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

// Days returns every day in the period in ascending order.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// PERIOD CALCULATOR - Fixed day-of-month reporting periods
// =============================================================================

// clampStartDay keeps the configured start day in [1, 28] so every month
// has the boundary day.
func clampStartDay(startDay int) int {
	if startDay < 1 {
		return 1
	}
	if startDay > 28 {
		return 28
	}
	return startDay
}

// PeriodFor returns the monthly reporting period containing the reference
// date for a period that begins on startDay of each month. If the reference
// day is on or after startDay the period starts this month, otherwise it
// started last month. The end is one day before the next boundary.
func PeriodFor(reference Date, startDay int) Period {
	startDay = clampStartDay(startDay)

	start := NewDate(reference.Year(), reference.Month(), startDay)
	if reference.Day() < startDay {
		start = start.AddMonths(-1)
	}
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// EnumeratePeriods returns the consecutive reporting periods covering
// [from, to]. The sequence is finite: it begins with the period containing
// from and ends with the period containing to.
func EnumeratePeriods(from, to Date, startDay int) []Period {
	if to.Before(from) {
		return nil
	}

	var periods []Period
	current := PeriodFor(from, startDay)
	for {
		periods = append(periods, current)
		if to.BeforeOrEqual(current.End) {
			return periods
		}
		current = PeriodFor(current.End.AddDays(1), startDay)
	}
}
