/*
tolerance.go - Considered-time rules for punches

PURPOSE:
  Computes the "considered" time substituted for a punch's real time when
  summing worked duration. Tolerances forgive small punctuality deviations:
  arriving a few minutes early does not credit extra time, and returning a
  few minutes late from a break does not debit it.

RULES (index parity within the day: even = entry, odd = exit):
  1. First punch (index 0): a real time up to ToleranceEntry minutes BEFORE
     the ideal entry snaps UP to the ideal entry.
  2. Interval return (even index > 0): the ideal return is the previous
     punch's considered time plus MinimumInterval. A real time up to
     ToleranceIntervalReturn minutes AFTER it snaps BACK to it.
  3. Exits (odd index): considered = real, unconditionally.
  Missing schedule: considered = real for every punch.

ORDERING:
  Rule 2 reads the PREVIOUS punch's already-considered time, not its raw
  time. Recalculation therefore walks a day's punches strictly in
  chronological order; recomputing punch k requires punch k-1 resolved.

SEE ALSO:
  - entries.go: Pairs considered times into work intervals
*/
package punchclock

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// CONSIDERED TIME - Pure rule evaluation
// =============================================================================

// ConsideredTime applies the tolerance rules to a single punch.
//
//	schedule:       the day's schedule, nil when none is configured
//	index:          zero-based position within the chronologically sorted day
//	real:           the punch's unadjusted minute-of-day
//	prevConsidered: the considered time of punch index-1 (ignored at index 0)
func ConsideredTime(schedule *DaySchedule, index int, real ClockTime, prevConsidered ClockTime) ClockTime {
	if schedule == nil {
		return real
	}

	// Exits never receive tolerance.
	if index%2 == 1 {
		return real
	}

	if index == 0 {
		if schedule.IdealEntry == nil {
			return real
		}
		ideal := *schedule.IdealEntry
		if real.Before(ideal) && ideal.Sub(real) <= schedule.ToleranceEntry {
			return ideal
		}
		return real
	}

	// Interval return: forgiven only when the return rule is enabled.
	if schedule.ToleranceIntervalReturn <= 0 {
		return real
	}
	idealReturn := prevConsidered.AddMinutes(schedule.MinimumInterval)
	if real.After(idealReturn) && real.Sub(idealReturn) <= schedule.ToleranceIntervalReturn {
		return idealReturn
	}
	return real
}

// =============================================================================
// TOLERANCE ENGINE - Day recalculation against the store
// =============================================================================

// ToleranceEngine recomputes considered times for whole days.
type ToleranceEngine struct {
	Punches   PunchStore
	Schedules ScheduleStore
	Now       func() time.Time // defaults to time.Now
}

func NewToleranceEngine(punches PunchStore, schedules ScheduleStore) *ToleranceEngine {
	return &ToleranceEngine{Punches: punches, Schedules: schedules, Now: time.Now}
}

// RecalculateDay re-runs the tolerance rules across all punches of one
// employer-day in chronological order, updating only punches whose
// considered time actually changed. Running it twice in a row is a no-op.
// Returns the number of punches updated.
func (e *ToleranceEngine) RecalculateDay(ctx context.Context, employerID EmployerID, day Date) (int, error) {
	punches, err := e.Punches.PunchesOn(ctx, employerID, day)
	if err != nil {
		return 0, fmt.Errorf("recalculate %s for employer %s: %w", day, employerID, err)
	}
	if len(punches) == 0 {
		return 0, nil
	}

	sort.Slice(punches, func(i, j int) bool {
		return punches[i].Timestamp.Before(punches[j].Timestamp)
	})

	schedule, err := e.Schedules.ScheduleFor(ctx, employerID, day.Weekday(), day)
	if err != nil {
		return 0, fmt.Errorf("resolve schedule for %s: %w", day, err)
	}

	changed := 0
	var prev ClockTime
	for i, p := range punches {
		considered := ConsideredTime(schedule, i, p.RealClock(), prev)
		if considered != p.Considered {
			p.Considered = considered
			p.UpdatedAt = e.now()
			if err := e.Punches.UpdatePunch(ctx, p); err != nil {
				return changed, fmt.Errorf("update punch %s on %s: %w", p.ID, day, err)
			}
			punches[i] = p
			changed++
		}
		prev = considered
	}
	return changed, nil
}

// RecalculateRange processes days in ascending date order, one at a time.
// Days are independent of each other; punches within a day are not.
func (e *ToleranceEngine) RecalculateRange(ctx context.Context, employerID EmployerID, from, to Date) (int, error) {
	changed := 0
	for day := from; day.BeforeOrEqual(to); day = day.AddDays(1) {
		n, err := e.RecalculateDay(ctx, employerID, day)
		changed += n
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}

func (e *ToleranceEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
