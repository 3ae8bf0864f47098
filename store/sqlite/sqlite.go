/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements punchclock.TxStore using SQLite. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  punches:             Clock events with real and considered times
  day_schedules:       Versioned per-weekday punctuality rules
  employer_configs:    Banked-hours cycle configuration
  cycle_closures:      One row per closed cycle window
  balance_adjustments: Signed minute corrections with justification
  absences, holidays:  Day-type inputs for expected-minute resolution

ENCODING:
  Dates are stored as "2006-01-02" TEXT, timestamps as RFC3339 TEXT,
  balances as decimal TEXT (never floats), clock times as minute-of-day
  integers.

TRANSACTIONS:
  WithTx wraps fn in a database transaction. Cycle closure relies on this:
  the closure row, its inverse adjustment, and the advanced config pointer
  commit together or not at all.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/ponto.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - punchclock/store.go: Interface definitions
  - punchclock/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
)

const timeFormat = time.RFC3339

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements punchclock.TxStore using SQLite.
type Store struct {
	db *sql.DB
	q  querier
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, q: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Reset clears all data. Only used by demo scenario loading.
func (s *Store) Reset(ctx context.Context) error {
	tables := []string{
		"punches", "day_schedules", "employer_configs",
		"cycle_closures", "balance_adjustments", "absences", "holidays",
	}
	for _, table := range tables {
		if _, err := s.q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS punches (
		id TEXT PRIMARY KEY,
		employer_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		day TEXT NOT NULL,
		considered_minutes INTEGER NOT NULL,
		manually_edited BOOLEAN NOT NULL DEFAULT FALSE,
		justification TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Hot path: a day's punches, and range scans for cycle balances
	CREATE INDEX IF NOT EXISTS idx_punches_employer_day
		ON punches(employer_id, day);
	CREATE INDEX IF NOT EXISTS idx_punches_employer_timestamp
		ON punches(employer_id, timestamp);

	CREATE TABLE IF NOT EXISTS day_schedules (
		employer_id TEXT NOT NULL,
		weekday INTEGER NOT NULL,
		effective_from TEXT NOT NULL,
		effective_to TEXT,
		ideal_entry_minutes INTEGER,
		tolerance_entry INTEGER NOT NULL DEFAULT 0,
		minimum_interval INTEGER NOT NULL DEFAULT 0,
		tolerance_interval_return INTEGER NOT NULL DEFAULT 0,
		expected_minutes INTEGER NOT NULL DEFAULT 0,
		workday BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (employer_id, weekday, effective_from)
	);

	CREATE TABLE IF NOT EXISTS employer_configs (
		employer_id TEXT PRIMARY KEY,
		cycle_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		cycle_length_weeks INTEGER NOT NULL DEFAULT 0,
		cycle_length_months INTEGER NOT NULL DEFAULT 0,
		current_cycle_start TEXT,
		closure_reminder_days INTEGER NOT NULL DEFAULT 0,
		period_start_day INTEGER NOT NULL DEFAULT 1,
		zero_balance_on_close BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS cycle_closures (
		employer_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		prior_balance TEXT NOT NULL,
		closure_type TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (employer_id, period_start, period_end)
	);

	CREATE INDEX IF NOT EXISTS idx_closures_employer_type
		ON cycle_closures(employer_id, closure_type);

	CREATE TABLE IF NOT EXISTS balance_adjustments (
		id TEXT PRIMARY KEY,
		employer_id TEXT NOT NULL,
		date TEXT NOT NULL,
		minutes TEXT NOT NULL,
		justification TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_adjustments_employer_date
		ON balance_adjustments(employer_id, date);

	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		employer_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		abatement_minutes INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_absences_employer_range
		ON absences(employer_id, from_date, to_date);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		employer_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		date TEXT NOT NULL,
		recurring BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date
		ON holidays(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn against a transactional view of the store. If fn
// returns an error the transaction is rolled back and the error returned.
func (s *Store) WithTx(ctx context.Context, fn func(punchclock.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		// Already inside a transaction; SQLite doesn't nest them.
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	view := &Store{db: s.db, q: tx}
	if err := fn(view); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// =============================================================================
// PUNCH STORE
// =============================================================================

func (s *Store) CreatePunch(ctx context.Context, p punchclock.Punch) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO punches (id, employer_id, timestamp, day, considered_minutes,
			manually_edited, justification, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.EmployerID),
		p.Timestamp.Format(timeFormat), p.Day().String(),
		int(p.Considered), p.ManuallyEdited, p.Justification,
		p.CreatedAt.UTC().Format(timeFormat), p.UpdatedAt.UTC().Format(timeFormat))
	return err
}

func (s *Store) UpdatePunch(ctx context.Context, p punchclock.Punch) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE punches
		SET timestamp = ?, day = ?, considered_minutes = ?, manually_edited = ?,
			justification = ?, updated_at = ?
		WHERE id = ? AND employer_id = ?`,
		p.Timestamp.Format(timeFormat), p.Day().String(),
		int(p.Considered), p.ManuallyEdited, p.Justification,
		p.UpdatedAt.UTC().Format(timeFormat),
		string(p.ID), string(p.EmployerID))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return punchclock.ErrPunchNotFound
	}
	return nil
}

func (s *Store) PunchesOn(ctx context.Context, employerID punchclock.EmployerID, day punchclock.Date) ([]punchclock.Punch, error) {
	return s.PunchesBetween(ctx, employerID, day, day)
}

func (s *Store) PunchesBetween(ctx context.Context, employerID punchclock.EmployerID, from, to punchclock.Date) ([]punchclock.Punch, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, employer_id, timestamp, considered_minutes, manually_edited,
			justification, created_at, updated_at
		FROM punches
		WHERE employer_id = ? AND day >= ? AND day <= ?
		ORDER BY timestamp ASC`,
		string(employerID), from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var punches []punchclock.Punch
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		punches = append(punches, p)
	}
	return punches, rows.Err()
}

func (s *Store) EarliestPunchDate(ctx context.Context, employerID punchclock.EmployerID) (punchclock.Date, bool, error) {
	var day sql.NullString
	err := s.q.QueryRowContext(ctx,
		`SELECT MIN(day) FROM punches WHERE employer_id = ?`,
		string(employerID)).Scan(&day)
	if err != nil {
		return punchclock.Date{}, false, err
	}
	if !day.Valid || day.String == "" {
		return punchclock.Date{}, false, nil
	}
	d, err := punchclock.ParseDate(day.String)
	if err != nil {
		return punchclock.Date{}, false, err
	}
	return d, true, nil
}

func scanPunch(rows *sql.Rows) (punchclock.Punch, error) {
	var (
		p                               punchclock.Punch
		id, employerID                  string
		timestamp, createdAt, updatedAt string
		considered                      int
	)
	if err := rows.Scan(&id, &employerID, &timestamp, &considered,
		&p.ManuallyEdited, &p.Justification, &createdAt, &updatedAt); err != nil {
		return punchclock.Punch{}, err
	}
	p.ID = punchclock.PunchID(id)
	p.EmployerID = punchclock.EmployerID(employerID)
	p.Considered = punchclock.ClockTime(considered)

	var err error
	if p.Timestamp, err = time.Parse(timeFormat, timestamp); err != nil {
		return punchclock.Punch{}, fmt.Errorf("parse punch timestamp: %w", err)
	}
	if p.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return punchclock.Punch{}, err
	}
	if p.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return punchclock.Punch{}, err
	}
	return p, nil
}

// =============================================================================
// SCHEDULE STORE
// =============================================================================

func (s *Store) ScheduleFor(ctx context.Context, employerID punchclock.EmployerID, weekday time.Weekday, day punchclock.Date) (*punchclock.DaySchedule, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT employer_id, weekday, effective_from, effective_to,
			ideal_entry_minutes, tolerance_entry, minimum_interval,
			tolerance_interval_return, expected_minutes, workday
		FROM day_schedules
		WHERE employer_id = ? AND weekday = ?
			AND effective_from <= ?
			AND (effective_to IS NULL OR effective_to >= ?)
		ORDER BY effective_from DESC
		LIMIT 1`,
		string(employerID), int(weekday), day.String(), day.String())

	var (
		sched         punchclock.DaySchedule
		empID         string
		wd            int
		effectiveFrom string
		effectiveTo   sql.NullString
		idealEntry    sql.NullInt64
	)
	err := row.Scan(&empID, &wd, &effectiveFrom, &effectiveTo,
		&idealEntry, &sched.ToleranceEntry, &sched.MinimumInterval,
		&sched.ToleranceIntervalReturn, &sched.ExpectedMinutes, &sched.Workday)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sched.EmployerID = punchclock.EmployerID(empID)
	sched.Weekday = time.Weekday(wd)
	if sched.EffectiveFrom, err = punchclock.ParseDate(effectiveFrom); err != nil {
		return nil, err
	}
	if effectiveTo.Valid {
		to, err := punchclock.ParseDate(effectiveTo.String)
		if err != nil {
			return nil, err
		}
		sched.EffectiveTo = &to
	}
	if idealEntry.Valid {
		ideal := punchclock.ClockTime(idealEntry.Int64)
		sched.IdealEntry = &ideal
	}
	return &sched, nil
}

func (s *Store) SaveSchedule(ctx context.Context, sched punchclock.DaySchedule) error {
	var effectiveTo any
	if sched.EffectiveTo != nil {
		effectiveTo = sched.EffectiveTo.String()
	}
	var idealEntry any
	if sched.IdealEntry != nil {
		idealEntry = int(*sched.IdealEntry)
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT OR REPLACE INTO day_schedules (employer_id, weekday, effective_from,
			effective_to, ideal_entry_minutes, tolerance_entry, minimum_interval,
			tolerance_interval_return, expected_minutes, workday)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(sched.EmployerID), int(sched.Weekday), sched.EffectiveFrom.String(),
		effectiveTo, idealEntry, sched.ToleranceEntry, sched.MinimumInterval,
		sched.ToleranceIntervalReturn, sched.ExpectedMinutes, sched.Workday)
	return err
}

// =============================================================================
// EMPLOYER CONFIG STORE
// =============================================================================

func (s *Store) Config(ctx context.Context, employerID punchclock.EmployerID) (punchclock.EmployerConfig, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT employer_id, cycle_enabled, cycle_length_weeks, cycle_length_months,
			current_cycle_start, closure_reminder_days, period_start_day,
			zero_balance_on_close
		FROM employer_configs WHERE employer_id = ?`,
		string(employerID))

	var (
		cfg        punchclock.EmployerConfig
		empID      string
		cycleStart sql.NullString
	)
	err := row.Scan(&empID, &cfg.CycleEnabled, &cfg.CycleLengthWeeks,
		&cfg.CycleLengthMonths, &cycleStart, &cfg.ClosureReminderDays,
		&cfg.PeriodStartDay, &cfg.ZeroBalanceOnClose)
	if err == sql.ErrNoRows {
		return punchclock.EmployerConfig{}, punchclock.ErrConfigNotFound
	}
	if err != nil {
		return punchclock.EmployerConfig{}, err
	}

	cfg.EmployerID = punchclock.EmployerID(empID)
	if cycleStart.Valid && cycleStart.String != "" {
		start, err := punchclock.ParseDate(cycleStart.String)
		if err != nil {
			return punchclock.EmployerConfig{}, err
		}
		cfg.CurrentCycleStart = &start
	}
	return cfg, nil
}

func (s *Store) Configs(ctx context.Context) ([]punchclock.EmployerConfig, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT employer_id, cycle_enabled, cycle_length_weeks, cycle_length_months,
			current_cycle_start, closure_reminder_days, period_start_day,
			zero_balance_on_close
		FROM employer_configs ORDER BY employer_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []punchclock.EmployerConfig
	for rows.Next() {
		var (
			cfg        punchclock.EmployerConfig
			empID      string
			cycleStart sql.NullString
		)
		if err := rows.Scan(&empID, &cfg.CycleEnabled, &cfg.CycleLengthWeeks,
			&cfg.CycleLengthMonths, &cycleStart, &cfg.ClosureReminderDays,
			&cfg.PeriodStartDay, &cfg.ZeroBalanceOnClose); err != nil {
			return nil, err
		}
		cfg.EmployerID = punchclock.EmployerID(empID)
		if cycleStart.Valid && cycleStart.String != "" {
			start, err := punchclock.ParseDate(cycleStart.String)
			if err != nil {
				return nil, err
			}
			cfg.CurrentCycleStart = &start
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

func (s *Store) SaveConfig(ctx context.Context, cfg punchclock.EmployerConfig) error {
	var cycleStart any
	if cfg.CurrentCycleStart != nil {
		cycleStart = cfg.CurrentCycleStart.String()
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT OR REPLACE INTO employer_configs (employer_id, cycle_enabled,
			cycle_length_weeks, cycle_length_months, current_cycle_start,
			closure_reminder_days, period_start_day, zero_balance_on_close)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(cfg.EmployerID), cfg.CycleEnabled, cfg.CycleLengthWeeks,
		cfg.CycleLengthMonths, cycleStart, cfg.ClosureReminderDays,
		cfg.PeriodStartDay, cfg.ZeroBalanceOnClose)
	return err
}

// =============================================================================
// CLOSURE STORE
// =============================================================================

func (s *Store) InsertClosure(ctx context.Context, c punchclock.CycleClosure) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO cycle_closures (employer_id, period_start, period_end,
			prior_balance, closure_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(c.EmployerID), c.Period.Start.String(), c.Period.End.String(),
		c.PriorBalance.Value.String(), string(c.Type),
		c.CreatedAt.UTC().Format(timeFormat))
	return err
}

func (s *Store) Closures(ctx context.Context, employerID punchclock.EmployerID) ([]punchclock.CycleClosure, error) {
	return s.queryClosures(ctx, `
		SELECT employer_id, period_start, period_end, prior_balance, closure_type, created_at
		FROM cycle_closures WHERE employer_id = ?
		ORDER BY period_start ASC`,
		string(employerID))
}

func (s *Store) ClosuresByType(ctx context.Context, employerID punchclock.EmployerID, types ...punchclock.ClosureType) ([]punchclock.CycleClosure, error) {
	if len(types) == 0 {
		return nil, nil
	}
	query := `
		SELECT employer_id, period_start, period_end, prior_balance, closure_type, created_at
		FROM cycle_closures WHERE employer_id = ? AND closure_type IN (?` +
		repeatPlaceholder(len(types)-1) + `)
		ORDER BY period_start ASC`
	args := []any{string(employerID)}
	for _, t := range types {
		args = append(args, string(t))
	}
	return s.queryClosures(ctx, query, args...)
}

func (s *Store) ClosureFor(ctx context.Context, employerID punchclock.EmployerID, window punchclock.Period) (*punchclock.CycleClosure, error) {
	closures, err := s.queryClosures(ctx, `
		SELECT employer_id, period_start, period_end, prior_balance, closure_type, created_at
		FROM cycle_closures
		WHERE employer_id = ? AND period_start = ? AND period_end = ?`,
		string(employerID), window.Start.String(), window.End.String())
	if err != nil {
		return nil, err
	}
	if len(closures) == 0 {
		return nil, nil
	}
	return &closures[0], nil
}

func (s *Store) DeleteClosure(ctx context.Context, employerID punchclock.EmployerID, window punchclock.Period) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM cycle_closures
		WHERE employer_id = ? AND period_start = ? AND period_end = ?`,
		string(employerID), window.Start.String(), window.End.String())
	return err
}

func (s *Store) queryClosures(ctx context.Context, query string, args ...any) ([]punchclock.CycleClosure, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var closures []punchclock.CycleClosure
	for rows.Next() {
		var (
			c                         punchclock.CycleClosure
			empID, start, end         string
			balance, ctype, createdAt string
		)
		if err := rows.Scan(&empID, &start, &end, &balance, &ctype, &createdAt); err != nil {
			return nil, err
		}
		c.EmployerID = punchclock.EmployerID(empID)
		if c.Period.Start, err = punchclock.ParseDate(start); err != nil {
			return nil, err
		}
		if c.Period.End, err = punchclock.ParseDate(end); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("parse closure balance: %w", err)
		}
		c.PriorBalance = punchclock.Amount{Value: value, Unit: punchclock.UnitMinutes}
		c.Type = punchclock.ClosureType(ctype)
		if c.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, err
		}
		closures = append(closures, c)
	}
	return closures, rows.Err()
}

// =============================================================================
// ADJUSTMENT STORE
// =============================================================================

func (s *Store) InsertAdjustment(ctx context.Context, a punchclock.BalanceAdjustment) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO balance_adjustments (id, employer_id, date, minutes, justification, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(a.ID), string(a.EmployerID), a.Date.String(),
		a.Amount.Value.String(), a.Justification,
		a.CreatedAt.UTC().Format(timeFormat))
	return err
}

func (s *Store) Adjustments(ctx context.Context, employerID punchclock.EmployerID) ([]punchclock.BalanceAdjustment, error) {
	return s.queryAdjustments(ctx, `
		SELECT id, employer_id, date, minutes, justification, created_at
		FROM balance_adjustments WHERE employer_id = ?
		ORDER BY date ASC`,
		string(employerID))
}

func (s *Store) AdjustmentsBetween(ctx context.Context, employerID punchclock.EmployerID, from, to punchclock.Date) ([]punchclock.BalanceAdjustment, error) {
	return s.queryAdjustments(ctx, `
		SELECT id, employer_id, date, minutes, justification, created_at
		FROM balance_adjustments
		WHERE employer_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`,
		string(employerID), from.String(), to.String())
}

func (s *Store) DeleteAdjustment(ctx context.Context, id punchclock.AdjustmentID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM balance_adjustments WHERE id = ?`, string(id))
	return err
}

func (s *Store) queryAdjustments(ctx context.Context, query string, args ...any) ([]punchclock.BalanceAdjustment, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []punchclock.BalanceAdjustment
	for rows.Next() {
		var (
			a                                 punchclock.BalanceAdjustment
			id, empID, date, minutes, created string
		)
		if err := rows.Scan(&id, &empID, &date, &minutes, &a.Justification, &created); err != nil {
			return nil, err
		}
		a.ID = punchclock.AdjustmentID(id)
		a.EmployerID = punchclock.EmployerID(empID)
		if a.Date, err = punchclock.ParseDate(date); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(minutes)
		if err != nil {
			return nil, fmt.Errorf("parse adjustment minutes: %w", err)
		}
		a.Amount = punchclock.Amount{Value: value, Unit: punchclock.UnitMinutes}
		if a.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

// =============================================================================
// ABSENCE STORE
// =============================================================================

func (s *Store) AbsencesOn(ctx context.Context, employerID punchclock.EmployerID, day punchclock.Date) ([]punchclock.Absence, error) {
	return s.queryAbsences(ctx, `
		SELECT id, employer_id, kind, from_date, to_date, abatement_minutes
		FROM absences
		WHERE employer_id = ? AND from_date <= ? AND to_date >= ?`,
		string(employerID), day.String(), day.String())
}

func (s *Store) Absences(ctx context.Context, employerID punchclock.EmployerID) ([]punchclock.Absence, error) {
	return s.queryAbsences(ctx, `
		SELECT id, employer_id, kind, from_date, to_date, abatement_minutes
		FROM absences WHERE employer_id = ?
		ORDER BY from_date ASC`,
		string(employerID))
}

func (s *Store) SaveAbsence(ctx context.Context, a punchclock.Absence) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT OR REPLACE INTO absences (id, employer_id, kind, from_date, to_date, abatement_minutes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.EmployerID), string(a.Kind),
		a.From.String(), a.To.String(), a.AbatementMinutes)
	return err
}

func (s *Store) queryAbsences(ctx context.Context, query string, args ...any) ([]punchclock.Absence, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var absences []punchclock.Absence
	for rows.Next() {
		var (
			a                punchclock.Absence
			empID, kind      string
			fromDate, toDate string
		)
		if err := rows.Scan(&a.ID, &empID, &kind, &fromDate, &toDate, &a.AbatementMinutes); err != nil {
			return nil, err
		}
		a.EmployerID = punchclock.EmployerID(empID)
		a.Kind = punchclock.AbsenceKind(kind)
		if a.From, err = punchclock.ParseDate(fromDate); err != nil {
			return nil, err
		}
		if a.To, err = punchclock.ParseDate(toDate); err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

func (s *Store) HolidaysOn(ctx context.Context, employerID punchclock.EmployerID, day punchclock.Date) ([]punchclock.Holiday, error) {
	// Recurring holidays match on month-day; one-offs on the exact date.
	return s.queryHolidays(ctx, `
		SELECT id, employer_id, name, kind, date, recurring
		FROM holidays
		WHERE (employer_id = '' OR employer_id = ?)
			AND (date = ? OR (recurring AND substr(date, 6) = ?))`,
		string(employerID), day.String(), day.String()[5:])
}

func (s *Store) Holidays(ctx context.Context) ([]punchclock.Holiday, error) {
	return s.queryHolidays(ctx, `
		SELECT id, employer_id, name, kind, date, recurring
		FROM holidays ORDER BY date ASC`)
}

func (s *Store) SaveHoliday(ctx context.Context, h punchclock.Holiday) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT OR REPLACE INTO holidays (id, employer_id, name, kind, date, recurring)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, string(h.EmployerID), h.Name, string(h.Kind),
		h.Date.String(), h.Recurring)
	return err
}

func (s *Store) queryHolidays(ctx context.Context, query string, args ...any) ([]punchclock.Holiday, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []punchclock.Holiday
	for rows.Next() {
		var (
			h           punchclock.Holiday
			empID, kind string
			date        string
		)
		if err := rows.Scan(&h.ID, &empID, &h.Name, &kind, &date, &h.Recurring); err != nil {
			return nil, err
		}
		h.EmployerID = punchclock.EmployerID(empID)
		h.Kind = punchclock.HolidayKind(kind)
		if h.Date, err = punchclock.ParseDate(date); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// repeatPlaceholder returns ", ?" repeated n times for IN clauses.
func repeatPlaceholder(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}
