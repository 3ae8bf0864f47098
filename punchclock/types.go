/*
Package punchclock provides the core time-accounting engine.

PURPOSE:
  This package contains the domain types and algorithms for turning raw
  clock-in/clock-out punches into tolerance-adjusted work intervals, daily
  balances, and a banked-hours account that is periodically closed out and
  zeroed.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A signed quantity of worked time (minutes or hours)
  - Punch: A single clock event with its real and considered times
  - DaySchedule: Per-weekday punctuality and expected-duration rules
  - EmployerConfig: Banked-hours cycle configuration
  - CycleClosure / BalanceAdjustment: Durable records of cycle lifecycle

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for balances to avoid float drift
  2. Type Safety: Strong typing for employer/punch/adjustment identifiers
  3. Explicit State: The current cycle pointer lives in EmployerConfig and
     is passed through operations, never held as ambient state
  4. Auditability: Every system-generated adjustment carries a justification
     that encodes the cycle window it zeroed

SEE ALSO:
  - tolerance.go: Considered-time rules
  - summary.go: Daily balance aggregation
  - cycle.go: Cycle detection, closure, bootstrap, reversal
*/
package punchclock

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Signed quantity of worked time
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

// Minutes builds a minute Amount from an integer count. This is the
// constructor every balance computation uses.
func Minutes(n int) Amount {
	return Amount{Value: decimal.NewFromInt(int64(n)), Unit: UnitMinutes}
}

func (a Amount) Zero() Amount              { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Neg() Amount               { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) Abs() Amount               { return Amount{Value: a.Value.Abs(), Unit: a.Unit} }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsPositive() bool          { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool    { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool       { return a.Value.Equal(b.Value) }

// InMinutes returns the integer minute count, rounding half away from zero.
func (a Amount) InMinutes() int {
	if a.Unit == UnitHours {
		return int(a.Value.Mul(decimal.NewFromInt(60)).Round(0).IntPart())
	}
	return int(a.Value.Round(0).IntPart())
}

// InHours converts to a decimal hour count for display.
func (a Amount) InHours() decimal.Decimal {
	if a.Unit == UnitHours {
		return a.Value
	}
	return a.Value.Div(decimal.NewFromInt(60))
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployerID string
type PunchID string
type AdjustmentID string

// =============================================================================
// PUNCH - A single clock event
// =============================================================================

// Punch records one clock-in or clock-out. Timestamp is the real clock
// event; Considered is the tolerance-adjusted time-of-day substituted for
// balance purposes. A punch is never implicitly deleted; edits flip
// ManuallyEdited and require a justification.
type Punch struct {
	ID             PunchID
	EmployerID     EmployerID
	Timestamp      time.Time
	Considered     ClockTime
	ManuallyEdited bool
	Justification  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Day returns the calendar day the punch belongs to.
func (p Punch) Day() Date { return DateOf(p.Timestamp) }

// RealClock returns the unadjusted minute-of-day of the punch.
func (p Punch) RealClock() ClockTime { return ClockTimeOf(p.Timestamp) }

// =============================================================================
// DAY SCHEDULE - Per-weekday punctuality rules
// =============================================================================

// DaySchedule holds the rules for one weekday of one employer. Schedules
// are versioned by effective-date range; the version active on a given day
// is resolved by ScheduleStore.ScheduleFor.
type DaySchedule struct {
	EmployerID    EmployerID
	Weekday       time.Weekday
	EffectiveFrom Date
	EffectiveTo   *Date // nil = open-ended

	IdealEntry              *ClockTime // nil = no entry tolerance rule
	ToleranceEntry          int        // minutes
	MinimumInterval         int        // minutes
	ToleranceIntervalReturn int        // minutes; 0 disables the return rule
	ExpectedMinutes         int
	Workday                 bool
}

// ActiveOn reports whether this schedule version covers the given day.
func (s DaySchedule) ActiveOn(day Date) bool {
	if day.Before(s.EffectiveFrom) {
		return false
	}
	return s.EffectiveTo == nil || day.BeforeOrEqual(*s.EffectiveTo)
}

// =============================================================================
// EMPLOYER CONFIG - Banked-hours cycle configuration
// =============================================================================

// EmployerConfig carries the cycle configuration for one employer.
//
// INVARIANTS:
//   - At most one of CycleLengthWeeks / CycleLengthMonths is non-zero.
//   - CurrentCycleStart is nil iff CycleEnabled is false.
type EmployerConfig struct {
	EmployerID          EmployerID
	CycleEnabled        bool
	CycleLengthWeeks    int
	CycleLengthMonths   int
	CurrentCycleStart   *Date
	ClosureReminderDays int
	PeriodStartDay      int // RH reporting period start day, 1-28
	ZeroBalanceOnClose  bool
}

// CycleConfigured reports whether a cycle length is set.
func (c EmployerConfig) CycleConfigured() bool {
	return c.CurrentCycleStart != nil && (c.CycleLengthWeeks > 0 || c.CycleLengthMonths > 0)
}

// NextCycleStart returns the boundary following a cycle that starts on the
// given day. Windows are contiguous: the window is [start, next-1].
func (c EmployerConfig) NextCycleStart(start Date) Date {
	if c.CycleLengthMonths > 0 {
		return start.AddMonths(c.CycleLengthMonths)
	}
	return start.AddWeeks(c.CycleLengthWeeks)
}

// PreviousCycleStart walks one cycle length backward from the given start.
func (c EmployerConfig) PreviousCycleStart(start Date) Date {
	if c.CycleLengthMonths > 0 {
		return start.AddMonths(-c.CycleLengthMonths)
	}
	return start.AddWeeks(-c.CycleLengthWeeks)
}

// CycleWindow returns the cycle window beginning at start.
func (c EmployerConfig) CycleWindow(start Date) Period {
	return Period{Start: start, End: c.NextCycleStart(start).AddDays(-1)}
}

// =============================================================================
// CYCLE CLOSURE - Durable record of a zeroed cycle
// =============================================================================

type ClosureType string

const (
	ClosureManual      ClosureType = "manual"
	ClosureAutomatic   ClosureType = "automatic"
	ClosureRetroactive ClosureType = "retroactive"
)

// CycleClosure records that a cycle window has been closed out. Uniquely
// identified by (EmployerID, Period.Start, Period.End). PriorBalance is the
// signed net balance that was zeroed by the paired inverse adjustment.
type CycleClosure struct {
	EmployerID   EmployerID
	Period       Period
	PriorBalance Amount
	Type         ClosureType
	CreatedAt    time.Time
}

// =============================================================================
// BALANCE ADJUSTMENT - Signed manual or system correction
// =============================================================================

// BalanceAdjustment is an append-only signed minute correction. System
// adjustments written by cycle closure encode the zeroed window in their
// justification (see CycleJustification) so reversal can locate them.
type BalanceAdjustment struct {
	ID            AdjustmentID
	EmployerID    EmployerID
	Date          Date
	Amount        Amount
	Justification string
	CreatedAt     time.Time
}

// =============================================================================
// DAY TYPE INPUTS - Absences and holidays
// =============================================================================

type AbsenceKind string

const (
	AbsenceVacation    AbsenceKind = "vacation"
	AbsenceSick        AbsenceKind = "sick"
	AbsenceLeave       AbsenceKind = "leave"
	AbsenceDeclaration AbsenceKind = "declaration"
)

// IsDeclaration reports whether the kind only abates expected duration
// instead of overriding the day type.
func (k AbsenceKind) IsDeclaration() bool { return k == AbsenceDeclaration }

// Absence covers a date range for one employer. Non-declaration absences
// zero the expected duration of every day they cover; declaration absences
// contribute AbatementMinutes instead.
type Absence struct {
	ID               string
	EmployerID       EmployerID
	Kind             AbsenceKind
	From             Date
	To               Date
	AbatementMinutes int
}

// Covers reports whether the absence includes the given day.
func (a Absence) Covers(day Date) bool {
	return a.From.BeforeOrEqual(day) && day.BeforeOrEqual(a.To)
}

type HolidayKind string

const (
	HolidayFull     HolidayKind = "full"     // zeroes expected duration
	HolidayOptional HolidayKind = "optional" // informational only
)

// Holiday is either global (empty EmployerID) or employer-specific, and
// either one-off or annually recurring on the same month/day.
type Holiday struct {
	ID         string
	EmployerID EmployerID
	Name       string
	Kind       HolidayKind
	Date       Date
	Recurring  bool
}

// Matches reports whether the holiday falls on the given day.
func (h Holiday) Matches(day Date) bool {
	if h.Recurring {
		return h.Date.Month() == day.Month() && h.Date.Day() == day.Day()
	}
	return h.Date.Equal(day)
}
