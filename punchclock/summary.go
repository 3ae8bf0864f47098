/*
summary.go - Daily balance aggregation

PURPOSE:
  Combines resolved work intervals with day-type data (absences, holidays)
  and the scheduled expected duration to produce a signed day balance.

  This is the single source of truth for balances. The cycle engine and any
  reporting surface consume DaySummary / PeriodBalance; nothing else may
  recompute a day's balance independently.

DAY-TYPE PRECEDENCE:
  non-declaration absence > full holiday > normal day.
  A declaration absence never overrides the day type; it only contributes
  abatement minutes subtracted from the expected duration.

EFFECTIVE EXPECTED DURATION:
  0 when the resolved day type zeroes it (absence, full holiday, or a
  non-workday schedule), else expected - abatement, floored at 0.

SEE ALSO:
  - entries.go: Worked-minutes resolution
  - cycle.go: Sums day balances over cycle windows
*/
package punchclock

import (
	"context"
	"fmt"
)

// =============================================================================
// DAY TYPE RESOLUTION
// =============================================================================

type DayType string

const (
	DayNormal  DayType = "normal"
	DayHoliday DayType = "holiday"
	DayAbsence DayType = "absence"
)

// DayContext is the resolved classification of one calendar day.
type DayContext struct {
	Type             DayType
	Absence          *Absence // the overriding non-declaration absence, if any
	Holiday          *Holiday // the matching full holiday, if any
	AbatementMinutes int      // summed from declaration absences
	ZeroExpected     bool
}

// =============================================================================
// DAY SUMMARY
// =============================================================================

// DaySummary is the computed state of one employer-day.
type DaySummary struct {
	EmployerID EmployerID
	Day        Date
	Entries    DayEntries
	Context    DayContext

	ExpectedMinutes  int // from schedule (or calculator default), pre-abatement
	EffectiveMinutes int // after day-type zeroing and abatement
	WorkedMinutes    int

	// Balance = worked - effective expected, signed.
	Balance Amount
}

// =============================================================================
// SUMMARY CALCULATOR
// =============================================================================

// SummaryCalculator produces day summaries and period balances.
type SummaryCalculator struct {
	Punches   PunchStore
	Schedules ScheduleStore
	Absences  AbsenceStore
	Holidays  HolidayStore

	// DefaultExpectedMinutes is used when no schedule version covers a day.
	DefaultExpectedMinutes int
}

func NewSummaryCalculator(store Store) *SummaryCalculator {
	return &SummaryCalculator{
		Punches:   store,
		Schedules: store,
		Absences:  store,
		Holidays:  store,
	}
}

// ForDay computes the summary of one employer-day.
func (s *SummaryCalculator) ForDay(ctx context.Context, employerID EmployerID, day Date) (DaySummary, error) {
	punches, err := s.Punches.PunchesOn(ctx, employerID, day)
	if err != nil {
		return DaySummary{}, fmt.Errorf("summary for %s: %w", day, err)
	}

	dayCtx, err := s.resolveDayContext(ctx, employerID, day)
	if err != nil {
		return DaySummary{}, fmt.Errorf("summary for %s: %w", day, err)
	}

	expected, workday, err := s.expectedMinutes(ctx, employerID, day)
	if err != nil {
		return DaySummary{}, fmt.Errorf("summary for %s: %w", day, err)
	}

	entries := ResolveDay(punches)

	effective := 0
	switch {
	case dayCtx.ZeroExpected, !workday:
		// full holiday, overriding absence, or a scheduled rest day
	default:
		effective = expected - dayCtx.AbatementMinutes
		if effective < 0 {
			effective = 0
		}
	}

	return DaySummary{
		EmployerID:       employerID,
		Day:              day,
		Entries:          entries,
		Context:          dayCtx,
		ExpectedMinutes:  expected,
		EffectiveMinutes: effective,
		WorkedMinutes:    entries.WorkedMinutes,
		Balance:          Minutes(entries.WorkedMinutes - effective),
	}, nil
}

// PeriodBalance sums day balances over [from, to]. Manual adjustments are
// NOT included here; cycle balance composition adds them separately.
func (s *SummaryCalculator) PeriodBalance(ctx context.Context, employerID EmployerID, from, to Date) (Amount, error) {
	total := Minutes(0)
	for day := from; day.BeforeOrEqual(to); day = day.AddDays(1) {
		summary, err := s.ForDay(ctx, employerID, day)
		if err != nil {
			return total, err
		}
		total = total.Add(summary.Balance)
	}
	return total, nil
}

// resolveDayContext applies the day-type precedence rules.
func (s *SummaryCalculator) resolveDayContext(ctx context.Context, employerID EmployerID, day Date) (DayContext, error) {
	absences, err := s.Absences.AbsencesOn(ctx, employerID, day)
	if err != nil {
		return DayContext{}, err
	}

	dayCtx := DayContext{Type: DayNormal}
	for i := range absences {
		a := absences[i]
		if a.Kind.IsDeclaration() {
			dayCtx.AbatementMinutes += a.AbatementMinutes
			continue
		}
		if dayCtx.Absence == nil {
			dayCtx.Absence = &a
			dayCtx.Type = DayAbsence
			dayCtx.ZeroExpected = true
		}
	}

	holidays, err := s.Holidays.HolidaysOn(ctx, employerID, day)
	if err != nil {
		return DayContext{}, err
	}
	for i := range holidays {
		h := holidays[i]
		if h.Kind != HolidayFull {
			continue
		}
		dayCtx.Holiday = &h
		// An overriding absence outranks the holiday.
		if dayCtx.Type == DayNormal {
			dayCtx.Type = DayHoliday
			dayCtx.ZeroExpected = true
		}
		break
	}

	return dayCtx, nil
}

func (s *SummaryCalculator) expectedMinutes(ctx context.Context, employerID EmployerID, day Date) (expected int, workday bool, err error) {
	schedule, err := s.Schedules.ScheduleFor(ctx, employerID, day.Weekday(), day)
	if err != nil {
		return 0, false, err
	}
	if schedule == nil {
		return s.DefaultExpectedMinutes, true, nil
	}
	return schedule.ExpectedMinutes, schedule.Workday, nil
}
