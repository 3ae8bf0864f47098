/*
store.go - Persistence interfaces for the punch-clock engine

PURPOSE:
  Defines the contracts between the engine and its storage collaborator.
  The engine never retries I/O and never manages connections; it treats
  every call here as potentially failing and propagates the failure wrapped
  with the step in progress.

KEY INTERFACES:
  PunchStore / ScheduleStore / ...: One narrow interface per record kind
  Store:   Union of all narrow interfaces; what implementations provide
  TxStore: Store plus a transactional "apply these writes together"
           primitive used by cycle closure

ATOMICITY CONTRACT:
  Every closure step writes three records together: the CycleClosure, its
  inverse BalanceAdjustment, and the updated EmployerConfig. WithTx must
  commit all or none of them; a closure without its compensating adjustment
  is corruption.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - punchclock/store: In-memory for testing and dev mode

SEE ALSO:
  - cycle.go: The only caller of WithTx
*/
package punchclock

import (
	"context"
	"time"
)

// =============================================================================
// NARROW STORE INTERFACES - One per record kind
// =============================================================================

// PunchStore persists clock events.
type PunchStore interface {
	// CreatePunch persists a new punch.
	CreatePunch(ctx context.Context, p Punch) error

	// UpdatePunch rewrites an existing punch (considered-time recalculation
	// or manual edit). Returns ErrPunchNotFound if absent.
	UpdatePunch(ctx context.Context, p Punch) error

	// PunchesOn returns the punches of one day, ordered by timestamp.
	PunchesOn(ctx context.Context, employerID EmployerID, day Date) ([]Punch, error)

	// PunchesBetween returns punches in [from, to], ordered by timestamp.
	PunchesBetween(ctx context.Context, employerID EmployerID, from, to Date) ([]Punch, error)

	// EarliestPunchDate returns the employer's first ever punch day.
	// ok is false when no punches exist.
	EarliestPunchDate(ctx context.Context, employerID EmployerID) (day Date, ok bool, err error)
}

// ScheduleStore resolves versioned day schedules.
type ScheduleStore interface {
	// ScheduleFor returns the schedule version active for (employer,
	// weekday) on the given day, or nil when none is configured.
	ScheduleFor(ctx context.Context, employerID EmployerID, weekday time.Weekday, day Date) (*DaySchedule, error)

	// SaveSchedule inserts or replaces a schedule version.
	SaveSchedule(ctx context.Context, s DaySchedule) error
}

// EmployerConfigStore persists cycle configuration.
type EmployerConfigStore interface {
	// Config returns the employer's config or ErrConfigNotFound.
	Config(ctx context.Context, employerID EmployerID) (EmployerConfig, error)

	// Configs returns every employer config; the scheduler iterates these.
	Configs(ctx context.Context) ([]EmployerConfig, error)

	// SaveConfig inserts or replaces the config. Must participate in WithTx.
	SaveConfig(ctx context.Context, c EmployerConfig) error
}

// ClosureStore persists cycle closures.
type ClosureStore interface {
	InsertClosure(ctx context.Context, c CycleClosure) error
	Closures(ctx context.Context, employerID EmployerID) ([]CycleClosure, error)
	ClosuresByType(ctx context.Context, employerID EmployerID, types ...ClosureType) ([]CycleClosure, error)

	// ClosureFor returns the closure with exactly the given window, or nil.
	ClosureFor(ctx context.Context, employerID EmployerID, window Period) (*CycleClosure, error)

	DeleteClosure(ctx context.Context, employerID EmployerID, window Period) error
}

// AdjustmentStore persists balance adjustments.
type AdjustmentStore interface {
	InsertAdjustment(ctx context.Context, a BalanceAdjustment) error
	Adjustments(ctx context.Context, employerID EmployerID) ([]BalanceAdjustment, error)
	AdjustmentsBetween(ctx context.Context, employerID EmployerID, from, to Date) ([]BalanceAdjustment, error)
	DeleteAdjustment(ctx context.Context, id AdjustmentID) error
}

// AbsenceStore persists absence ranges.
type AbsenceStore interface {
	// AbsencesOn returns absences whose range covers the given day.
	AbsencesOn(ctx context.Context, employerID EmployerID, day Date) ([]Absence, error)

	Absences(ctx context.Context, employerID EmployerID) ([]Absence, error)
	SaveAbsence(ctx context.Context, a Absence) error
}

// HolidayStore persists global and employer-specific holidays.
type HolidayStore interface {
	// HolidaysOn returns holidays falling on the given day, both global
	// and employer-specific, recurring ones included.
	HolidaysOn(ctx context.Context, employerID EmployerID, day Date) ([]Holiday, error)

	Holidays(ctx context.Context) ([]Holiday, error)
	SaveHoliday(ctx context.Context, h Holiday) error
}

// =============================================================================
// AGGREGATE STORE
// =============================================================================

// Store is the full storage collaborator.
type Store interface {
	PunchStore
	ScheduleStore
	EmployerConfigStore
	ClosureStore
	AdjustmentStore
	AbsenceStore
	HolidayStore
}

// TxStore adds the transactional primitive cycle closure depends on.
type TxStore interface {
	Store

	// WithTx executes fn against a transactional view of the store.
	// If fn returns an error nothing is persisted.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// =============================================================================
// NOTIFICATION SINK - Optional, fire-and-forget
// =============================================================================

// NotificationSink is informed of completed closures for user-facing
// alerting. The engine works correctly if it is nil or its delivery fails;
// implementations must not block.
type NotificationSink interface {
	CycleClosed(closure CycleClosure)
}
