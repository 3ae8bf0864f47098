/*
cycle.go - Banked-hours cycle lifecycle

PURPOSE:
  Orchestrates the cycle state machine: detecting that the current cycle
  has lapsed, closing it (crediting the ledger with the inverse of its
  balance and advancing the cycle pointer), reconstructing missing
  historical cycles, and reversing erroneous closures.

STATE MACHINE:
  NoCycle -> Active -> lapse detected -> closing -> Active (new cycle).
  The "current cycle" pointer lives in EmployerConfig and is read, advanced
  and written back here; operations for one employer are serialized because
  this is a read-modify-write.

CLOSURE STEP ATOMICITY:
  Every closed cycle writes three records in one store transaction:
    1. the CycleClosure
    2. the inverse BalanceAdjustment, dated at the window end, whose
       justification embeds the window tag (see CycleJustification)
    3. the updated EmployerConfig (automatic/manual closure only)
  A partial write must never leave a closure without its compensating
  adjustment or vice versa.

SAFETY BOUNDS:
  Both the lapse catch-up loop and the retroactive bootstrap walk are
  bounded; exceeding the bound signals corrupt configuration and aborts
  with ErrSafetyLimitExceeded rather than truncating silently.

SEE ALSO:
  - summary.go: Period balance (the only balance source)
  - ledger.go: Adjustment period sums
  - store.go: WithTx contract
*/
package punchclock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Iteration bounds for the catch-up and bootstrap loops.
const (
	MaxCatchUpCycles   = 20
	MaxBootstrapCycles = 20
)

// =============================================================================
// CYCLE JUSTIFICATION TAG
// =============================================================================

// cycleTag is the machine-recognizable marker embedded in system adjustment
// justifications. ReverseClosures pattern-matches on it.
func cycleTag(window Period) string {
	return fmt.Sprintf("[cycle:%s..%s]", window.Start, window.End)
}

// CycleJustification builds the justification for the inverse adjustment of
// a closed cycle window.
func CycleJustification(window Period, note string) string {
	justification := "banked-hours cycle zeroed " + cycleTag(window)
	if note = strings.TrimSpace(note); note != "" {
		justification += "; " + note
	}
	return justification
}

// =============================================================================
// RESULT TYPES
// =============================================================================

type CycleState string

const (
	StateNoCycle CycleState = "no_cycle"
	StateActive  CycleState = "active"
)

// AdvanceResult is the outcome of DetectAndAdvance.
type AdvanceResult struct {
	State CycleState

	// Window is the current (possibly freshly opened) cycle window.
	// Zero when State is NoCycle.
	Window Period

	// LiveBalance is the running balance from the current cycle start
	// through today: day balances plus adjustments in that range.
	LiveBalance Amount

	// Closed lists the cycles closed by this invocation, oldest first.
	Closed []CycleClosure
}

type CycleStatusKind string

const (
	StatusNoConfig      CycleStatusKind = "no_config"
	StatusDisabled      CycleStatusKind = "disabled"
	StatusNotConfigured CycleStatusKind = "not_configured"
	StatusOverdue       CycleStatusKind = "overdue"
	StatusNearingEnd    CycleStatusKind = "nearing_end"
	StatusInProgress    CycleStatusKind = "in_progress"
)

// CycleStatus is the pure-query view of the cycle, fit for reminders.
type CycleStatus struct {
	Kind        CycleStatusKind
	Window      Period
	DaysLeft    int
	DaysLate    int
	LiveBalance Amount
}

// =============================================================================
// CYCLE MANAGER
// =============================================================================

// CycleManager runs the cycle lifecycle. All mutating operations for the
// same employer are serialized through a per-employer mutex; different
// employers proceed in parallel.
type CycleManager struct {
	Store    TxStore
	Summary  *SummaryCalculator
	Ledger   *AdjustmentLedger
	Notifier NotificationSink // optional
	Now      func() time.Time // defaults to time.Now

	mu    sync.Mutex
	locks map[EmployerID]*sync.Mutex
}

func NewCycleManager(store TxStore, summary *SummaryCalculator, ledger *AdjustmentLedger, notifier NotificationSink) *CycleManager {
	return &CycleManager{
		Store:    store,
		Summary:  summary,
		Ledger:   ledger,
		Notifier: notifier,
		Now:      time.Now,
	}
}

func (m *CycleManager) employerLock(id EmployerID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks == nil {
		m.locks = make(map[EmployerID]*sync.Mutex)
	}
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// =============================================================================
// DETECT AND ADVANCE
// =============================================================================

// DetectAndAdvance inspects the cycle state as of today. While today has
// passed the next cycle boundary it closes each fully-elapsed cycle in
// sequence, then returns the live state of the (new) current cycle.
func (m *CycleManager) DetectAndAdvance(ctx context.Context, employerID EmployerID, today Date) (AdvanceResult, error) {
	l := m.employerLock(employerID)
	l.Lock()
	defer l.Unlock()

	cfg, err := m.Store.Config(ctx, employerID)
	if err != nil {
		return AdvanceResult{}, err
	}
	if !cfg.CycleEnabled {
		return AdvanceResult{State: StateNoCycle}, nil
	}
	if !cfg.CycleConfigured() {
		return AdvanceResult{}, fmt.Errorf("employer %s: %w", employerID, ErrCycleNotConfigured)
	}

	result := AdvanceResult{State: StateActive}
	start := *cfg.CurrentCycleStart

	for i := 0; today.AfterOrEqual(cfg.NextCycleStart(start)); i++ {
		if i >= MaxCatchUpCycles {
			return result, &StepError{
				Op:         "cycle catch-up",
				EmployerID: employerID,
				Window:     cfg.CycleWindow(start),
				Err:        ErrSafetyLimitExceeded,
			}
		}

		window := cfg.CycleWindow(start)
		next := cfg.NextCycleStart(start)
		closure, err := m.closeStep(ctx, cfg, window, ClosureAutomatic, "", &next)
		if err != nil {
			return result, err
		}
		result.Closed = append(result.Closed, closure)
		start = next
	}

	balance, err := m.cycleBalance(ctx, employerID, Period{Start: start, End: today})
	if err != nil {
		return result, &StepError{Op: "live balance", EmployerID: employerID, Window: cfg.CycleWindow(start), Err: err}
	}
	result.Window = cfg.CycleWindow(start)
	result.LiveBalance = balance
	return result, nil
}

// CloseCurrentCycle closes the current (possibly not-yet-lapsed) cycle in a
// single step. Used for manual early closure.
func (m *CycleManager) CloseCurrentCycle(ctx context.Context, employerID EmployerID, note string) (CycleClosure, error) {
	l := m.employerLock(employerID)
	l.Lock()
	defer l.Unlock()

	cfg, err := m.Store.Config(ctx, employerID)
	if err != nil {
		return CycleClosure{}, err
	}
	if !cfg.CycleEnabled {
		return CycleClosure{}, fmt.Errorf("employer %s: %w", employerID, ErrCycleDisabled)
	}
	if !cfg.CycleConfigured() {
		return CycleClosure{}, fmt.Errorf("employer %s: %w", employerID, ErrCycleNotConfigured)
	}

	window := cfg.CycleWindow(*cfg.CurrentCycleStart)
	next := cfg.NextCycleStart(*cfg.CurrentCycleStart)
	return m.closeStep(ctx, cfg, window, ClosureManual, note, &next)
}

// closeStep performs one atomic closure: closure record + inverse
// adjustment + (optionally) the advanced config pointer. The adjustment is
// dated at the window end so that the closed window nets to exactly zero.
func (m *CycleManager) closeStep(ctx context.Context, cfg EmployerConfig, window Period, ctype ClosureType, note string, advanceTo *Date) (CycleClosure, error) {
	balance, err := m.cycleBalance(ctx, cfg.EmployerID, window)
	if err != nil {
		return CycleClosure{}, &StepError{Op: "cycle balance", EmployerID: cfg.EmployerID, Window: window, Err: err}
	}

	now := m.now()
	closure := CycleClosure{
		EmployerID:   cfg.EmployerID,
		Period:       window,
		PriorBalance: balance,
		Type:         ctype,
		CreatedAt:    now,
	}
	adjustment := BalanceAdjustment{
		ID:            AdjustmentID(fmt.Sprintf("adj-cycle-%s-%s", cfg.EmployerID, window.Start)),
		EmployerID:    cfg.EmployerID,
		Date:          window.End,
		Amount:        balance.Neg(),
		Justification: CycleJustification(window, note),
		CreatedAt:     now,
	}

	err = m.Store.WithTx(ctx, func(s Store) error {
		if err := s.InsertClosure(ctx, closure); err != nil {
			return err
		}
		if err := s.InsertAdjustment(ctx, adjustment); err != nil {
			return err
		}
		if advanceTo != nil {
			cfg.CurrentCycleStart = advanceTo
			if err := s.SaveConfig(ctx, cfg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CycleClosure{}, &StepError{Op: "close cycle", EmployerID: cfg.EmployerID, Window: window, Err: err}
	}

	if m.Notifier != nil {
		m.Notifier.CycleClosed(closure)
	}
	return closure, nil
}

// cycleBalance composes the balance of a window: day balances via the
// summary calculator plus adjustments dated inside the window.
func (m *CycleManager) cycleBalance(ctx context.Context, employerID EmployerID, window Period) (Amount, error) {
	days, err := m.Summary.PeriodBalance(ctx, employerID, window.Start, window.End)
	if err != nil {
		return Minutes(0), err
	}
	adjustments, err := m.Ledger.PeriodSum(ctx, employerID, window.Start, window.End)
	if err != nil {
		return Minutes(0), err
	}
	return days.Add(adjustments), nil
}

// =============================================================================
// RETROACTIVE BOOTSTRAP
// =============================================================================

// BootstrapRetroactiveCycles walks backward from the configured cycle start
// one cycle length at a time and synthesizes a retroactive closure for each
// historical window that contains punch data. Windows that already have an
// exact closure are skipped unless force, in which case they are rebuilt.
// An overlapping closure with different bounds is a conflict. The config
// pointer is never moved. Returns the number of closures created.
func (m *CycleManager) BootstrapRetroactiveCycles(ctx context.Context, employerID EmployerID, force bool) (int, error) {
	l := m.employerLock(employerID)
	l.Lock()
	defer l.Unlock()

	cfg, err := m.Store.Config(ctx, employerID)
	if err != nil {
		return 0, err
	}
	if !cfg.CycleEnabled {
		return 0, fmt.Errorf("employer %s: %w", employerID, ErrCycleDisabled)
	}
	if !cfg.CycleConfigured() {
		return 0, fmt.Errorf("employer %s: %w", employerID, ErrCycleNotConfigured)
	}

	firstPunch, ok, err := m.Store.EarliestPunchDate(ctx, employerID)
	if err != nil {
		return 0, fmt.Errorf("earliest punch for %s: %w", employerID, err)
	}
	if !ok {
		return 0, fmt.Errorf("employer %s: %w", employerID, ErrNoPunchData)
	}

	existing, err := m.Store.Closures(ctx, employerID)
	if err != nil {
		return 0, fmt.Errorf("load closures for %s: %w", employerID, err)
	}

	created := 0
	start := *cfg.CurrentCycleStart
	for step := 0; ; step++ {
		if step >= MaxBootstrapCycles {
			return created, &StepError{
				Op:         "retroactive bootstrap",
				EmployerID: employerID,
				Window:     Period{Start: cfg.PreviousCycleStart(start), End: start.AddDays(-1)},
				Err:        ErrSafetyLimitExceeded,
			}
		}

		prevStart := cfg.PreviousCycleStart(start)
		window := Period{Start: prevStart, End: start.AddDays(-1)}
		if window.End.Before(firstPunch) {
			// No data this far back; never fabricate empty cycles.
			break
		}

		exact, overlap := matchClosure(existing, window)
		switch {
		case exact != nil && !force:
			// Already processed.
		case overlap != nil && !force:
			return created, &OverlappingClosureError{
				EmployerID: employerID,
				Window:     window,
				Existing:   overlap.Period,
			}
		default:
			if err := m.bootstrapWindow(ctx, cfg, window, exact); err != nil {
				return created, err
			}
			created++
		}
		start = prevStart
	}
	return created, nil
}

// bootstrapWindow synthesizes one retroactive closure, replacing a stale
// exact match when force rebuilt it.
func (m *CycleManager) bootstrapWindow(ctx context.Context, cfg EmployerConfig, window Period, stale *CycleClosure) error {
	if stale != nil {
		// Drop the stale closure and its paired adjustment first so the
		// recomputed balance excludes the old inverse.
		if err := m.deleteClosurePair(ctx, cfg.EmployerID, *stale); err != nil {
			return &StepError{Op: "rebuild retroactive cycle", EmployerID: cfg.EmployerID, Window: window, Err: err}
		}
	}
	_, err := m.closeStep(ctx, cfg, window, ClosureRetroactive, "", nil)
	return err
}

func matchClosure(closures []CycleClosure, window Period) (exact, overlap *CycleClosure) {
	for i := range closures {
		c := closures[i]
		if c.Period.Equal(window) {
			return &c, nil
		}
		if c.Period.Overlaps(window) {
			overlap = &c
		}
	}
	return nil, overlap
}

// =============================================================================
// CLOSURE REVERSAL
// =============================================================================

// ReverseClosures compensates for operator error: it deletes every
// automatic and retroactive closure together with its paired inverse
// adjustment (located by the window tag in the justification) and resets
// the cycle pointer to the supplied corrected start. Manual adjustments
// unrelated to cycle zeroing are untouched. Returns the number of closures
// removed.
func (m *CycleManager) ReverseClosures(ctx context.Context, employerID EmployerID, correctStart Date) (int, error) {
	l := m.employerLock(employerID)
	l.Lock()
	defer l.Unlock()

	cfg, err := m.Store.Config(ctx, employerID)
	if err != nil {
		return 0, err
	}

	closures, err := m.Store.ClosuresByType(ctx, employerID, ClosureAutomatic, ClosureRetroactive)
	if err != nil {
		return 0, fmt.Errorf("load closures for %s: %w", employerID, err)
	}

	removed := 0
	err = m.Store.WithTx(ctx, func(s Store) error {
		for _, closure := range closures {
			if err := deleteClosurePairIn(ctx, s, employerID, closure); err != nil {
				return err
			}
			removed++
		}
		cfg.CurrentCycleStart = &correctStart
		return s.SaveConfig(ctx, cfg)
	})
	if err != nil {
		return 0, &StepError{Op: "reverse closures", EmployerID: employerID, Window: Period{}, Err: err}
	}
	return removed, nil
}

// deleteClosurePair removes one closure and its tagged adjustment in a
// transaction of its own.
func (m *CycleManager) deleteClosurePair(ctx context.Context, employerID EmployerID, closure CycleClosure) error {
	return m.Store.WithTx(ctx, func(s Store) error {
		return deleteClosurePairIn(ctx, s, employerID, closure)
	})
}

func deleteClosurePairIn(ctx context.Context, s Store, employerID EmployerID, closure CycleClosure) error {
	adjustments, err := s.Adjustments(ctx, employerID)
	if err != nil {
		return err
	}
	tag := cycleTag(closure.Period)
	for _, a := range adjustments {
		if strings.Contains(a.Justification, tag) {
			if err := s.DeleteAdjustment(ctx, a.ID); err != nil {
				return err
			}
		}
	}
	return s.DeleteClosure(ctx, employerID, closure.Period)
}

// =============================================================================
// PENDING CYCLE STATUS
// =============================================================================

// PendingCycleStatus is a pure query over the cycle state as of today. It
// never mutates anything and never closes cycles.
func (m *CycleManager) PendingCycleStatus(ctx context.Context, employerID EmployerID, today Date) (CycleStatus, error) {
	cfg, err := m.Store.Config(ctx, employerID)
	if err != nil {
		if IsNotFound(err) {
			return CycleStatus{Kind: StatusNoConfig}, nil
		}
		return CycleStatus{}, err
	}
	if !cfg.CycleEnabled {
		return CycleStatus{Kind: StatusDisabled}, nil
	}
	if !cfg.CycleConfigured() {
		return CycleStatus{Kind: StatusNotConfigured}, nil
	}

	window := cfg.CycleWindow(*cfg.CurrentCycleStart)
	balance, err := m.cycleBalance(ctx, employerID, Period{Start: window.Start, End: today})
	if err != nil {
		return CycleStatus{}, &StepError{Op: "cycle status", EmployerID: employerID, Window: window, Err: err}
	}

	status := CycleStatus{Window: window, LiveBalance: balance}
	daysLeft := today.DaysUntil(window.End)
	switch {
	case daysLeft < 0:
		status.Kind = StatusOverdue
		status.DaysLate = -daysLeft
	case daysLeft <= cfg.ClosureReminderDays:
		status.Kind = StatusNearingEnd
		status.DaysLeft = daysLeft
	default:
		status.Kind = StatusInProgress
		status.DaysLeft = daysLeft
	}
	return status, nil
}

func (m *CycleManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
