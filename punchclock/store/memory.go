// Package store provides punchclock.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	punches     map[punchclock.EmployerID][]punchclock.Punch
	schedules   map[punchclock.EmployerID][]punchclock.DaySchedule
	configs     map[punchclock.EmployerID]punchclock.EmployerConfig
	closures    map[punchclock.EmployerID][]punchclock.CycleClosure
	adjustments map[punchclock.EmployerID][]punchclock.BalanceAdjustment
	absences    map[punchclock.EmployerID][]punchclock.Absence
	holidays    []punchclock.Holiday
}

func NewMemory() *Memory {
	return &Memory{
		punches:     make(map[punchclock.EmployerID][]punchclock.Punch),
		schedules:   make(map[punchclock.EmployerID][]punchclock.DaySchedule),
		configs:     make(map[punchclock.EmployerID]punchclock.EmployerConfig),
		closures:    make(map[punchclock.EmployerID][]punchclock.CycleClosure),
		adjustments: make(map[punchclock.EmployerID][]punchclock.BalanceAdjustment),
		absences:    make(map[punchclock.EmployerID][]punchclock.Absence),
	}
}

// Reset clears all data. Only used by demo scenario loading.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.punches = make(map[punchclock.EmployerID][]punchclock.Punch)
	m.schedules = make(map[punchclock.EmployerID][]punchclock.DaySchedule)
	m.configs = make(map[punchclock.EmployerID]punchclock.EmployerConfig)
	m.closures = make(map[punchclock.EmployerID][]punchclock.CycleClosure)
	m.adjustments = make(map[punchclock.EmployerID][]punchclock.BalanceAdjustment)
	m.absences = make(map[punchclock.EmployerID][]punchclock.Absence)
	m.holidays = nil
	return nil
}

// -----------------------------------------------------------------------------
// PunchStore
// -----------------------------------------------------------------------------

func (m *Memory) CreatePunch(_ context.Context, p punchclock.Punch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.punches[p.EmployerID] = append(m.punches[p.EmployerID], p)
	return nil
}

func (m *Memory) UpdatePunch(_ context.Context, p punchclock.Punch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	punches := m.punches[p.EmployerID]
	for i := range punches {
		if punches[i].ID == p.ID {
			punches[i] = p
			return nil
		}
	}
	return punchclock.ErrPunchNotFound
}

func (m *Memory) PunchesOn(ctx context.Context, employerID punchclock.EmployerID, day punchclock.Date) ([]punchclock.Punch, error) {
	return m.PunchesBetween(ctx, employerID, day, day)
}

func (m *Memory) PunchesBetween(_ context.Context, employerID punchclock.EmployerID, from, to punchclock.Date) ([]punchclock.Punch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []punchclock.Punch
	for _, p := range m.punches[employerID] {
		day := p.Day()
		if from.BeforeOrEqual(day) && day.BeforeOrEqual(to) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

func (m *Memory) EarliestPunchDate(_ context.Context, employerID punchclock.EmployerID) (punchclock.Date, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	punches := m.punches[employerID]
	if len(punches) == 0 {
		return punchclock.Date{}, false, nil
	}
	earliest := punches[0].Day()
	for _, p := range punches[1:] {
		if p.Day().Before(earliest) {
			earliest = p.Day()
		}
	}
	return earliest, true, nil
}

// -----------------------------------------------------------------------------
// ScheduleStore
// -----------------------------------------------------------------------------

func (m *Memory) ScheduleFor(_ context.Context, employerID punchclock.EmployerID, weekday time.Weekday, day punchclock.Date) (*punchclock.DaySchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Later effective-from versions win.
	var active *punchclock.DaySchedule
	for i := range m.schedules[employerID] {
		s := m.schedules[employerID][i]
		if s.Weekday != weekday || !s.ActiveOn(day) {
			continue
		}
		if active == nil || s.EffectiveFrom.After(active.EffectiveFrom) {
			active = &s
		}
	}
	return active, nil
}

func (m *Memory) SaveSchedule(_ context.Context, s punchclock.DaySchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	schedules := m.schedules[s.EmployerID]
	for i := range schedules {
		if schedules[i].Weekday == s.Weekday && schedules[i].EffectiveFrom.Equal(s.EffectiveFrom) {
			schedules[i] = s
			return nil
		}
	}
	m.schedules[s.EmployerID] = append(schedules, s)
	return nil
}

// -----------------------------------------------------------------------------
// EmployerConfigStore
// -----------------------------------------------------------------------------

func (m *Memory) Config(_ context.Context, employerID punchclock.EmployerID) (punchclock.EmployerConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.configs[employerID]
	if !ok {
		return punchclock.EmployerConfig{}, punchclock.ErrConfigNotFound
	}
	return cfg, nil
}

func (m *Memory) Configs(_ context.Context) ([]punchclock.EmployerConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configs := make([]punchclock.EmployerConfig, 0, len(m.configs))
	for _, cfg := range m.configs {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].EmployerID < configs[j].EmployerID
	})
	return configs, nil
}

func (m *Memory) SaveConfig(_ context.Context, c punchclock.EmployerConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[c.EmployerID] = c
	return nil
}

// -----------------------------------------------------------------------------
// ClosureStore
// -----------------------------------------------------------------------------

func (m *Memory) InsertClosure(_ context.Context, c punchclock.CycleClosure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closures[c.EmployerID] = append(m.closures[c.EmployerID], c)
	return nil
}

func (m *Memory) Closures(_ context.Context, employerID punchclock.EmployerID) ([]punchclock.CycleClosure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]punchclock.CycleClosure, len(m.closures[employerID]))
	copy(result, m.closures[employerID])
	sort.Slice(result, func(i, j int) bool {
		return result[i].Period.Start.Before(result[j].Period.Start)
	})
	return result, nil
}

func (m *Memory) ClosuresByType(ctx context.Context, employerID punchclock.EmployerID, types ...punchclock.ClosureType) ([]punchclock.CycleClosure, error) {
	all, err := m.Closures(ctx, employerID)
	if err != nil {
		return nil, err
	}
	var result []punchclock.CycleClosure
	for _, c := range all {
		for _, t := range types {
			if c.Type == t {
				result = append(result, c)
				break
			}
		}
	}
	return result, nil
}

func (m *Memory) ClosureFor(_ context.Context, employerID punchclock.EmployerID, window punchclock.Period) (*punchclock.CycleClosure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.closures[employerID] {
		c := m.closures[employerID][i]
		if c.Period.Equal(window) {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Memory) DeleteClosure(_ context.Context, employerID punchclock.EmployerID, window punchclock.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	closures := m.closures[employerID]
	for i := range closures {
		if closures[i].Period.Equal(window) {
			m.closures[employerID] = append(closures[:i:i], closures[i+1:]...)
			return nil
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// AdjustmentStore
// -----------------------------------------------------------------------------

func (m *Memory) InsertAdjustment(_ context.Context, a punchclock.BalanceAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjustments[a.EmployerID] = append(m.adjustments[a.EmployerID], a)
	return nil
}

func (m *Memory) Adjustments(_ context.Context, employerID punchclock.EmployerID) ([]punchclock.BalanceAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]punchclock.BalanceAdjustment, len(m.adjustments[employerID]))
	copy(result, m.adjustments[employerID])
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func (m *Memory) AdjustmentsBetween(_ context.Context, employerID punchclock.EmployerID, from, to punchclock.Date) ([]punchclock.BalanceAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []punchclock.BalanceAdjustment
	for _, a := range m.adjustments[employerID] {
		if from.BeforeOrEqual(a.Date) && a.Date.BeforeOrEqual(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *Memory) DeleteAdjustment(_ context.Context, id punchclock.AdjustmentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for employerID, adjustments := range m.adjustments {
		for i := range adjustments {
			if adjustments[i].ID == id {
				m.adjustments[employerID] = append(adjustments[:i:i], adjustments[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// AbsenceStore
// -----------------------------------------------------------------------------

func (m *Memory) AbsencesOn(_ context.Context, employerID punchclock.EmployerID, day punchclock.Date) ([]punchclock.Absence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []punchclock.Absence
	for _, a := range m.absences[employerID] {
		if a.Covers(day) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *Memory) Absences(_ context.Context, employerID punchclock.EmployerID) ([]punchclock.Absence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]punchclock.Absence, len(m.absences[employerID]))
	copy(result, m.absences[employerID])
	return result, nil
}

func (m *Memory) SaveAbsence(_ context.Context, a punchclock.Absence) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	absences := m.absences[a.EmployerID]
	for i := range absences {
		if absences[i].ID == a.ID {
			absences[i] = a
			return nil
		}
	}
	m.absences[a.EmployerID] = append(absences, a)
	return nil
}

// -----------------------------------------------------------------------------
// HolidayStore
// -----------------------------------------------------------------------------

func (m *Memory) HolidaysOn(_ context.Context, employerID punchclock.EmployerID, day punchclock.Date) ([]punchclock.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []punchclock.Holiday
	for _, h := range m.holidays {
		if h.EmployerID != "" && h.EmployerID != employerID {
			continue
		}
		if h.Matches(day) {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *Memory) Holidays(_ context.Context) ([]punchclock.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]punchclock.Holiday, len(m.holidays))
	copy(result, m.holidays)
	return result, nil
}

func (m *Memory) SaveHoliday(_ context.Context, h punchclock.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.holidays {
		if m.holidays[i].ID == h.ID {
			m.holidays[i] = h
			return nil
		}
	}
	m.holidays = append(m.holidays, h)
	return nil
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support, simulated with a
// snapshot restored on error.
type TxMemory struct {
	*Memory
	txMu sync.Mutex
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn against the store; on error the pre-transaction state
// is restored.
func (tm *TxMemory) WithTx(_ context.Context, fn func(punchclock.Store) error) error {
	tm.txMu.Lock()
	defer tm.txMu.Unlock()

	snapshot := tm.snapshot()
	if err := fn(tm.Memory); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	punches     map[punchclock.EmployerID][]punchclock.Punch
	schedules   map[punchclock.EmployerID][]punchclock.DaySchedule
	configs     map[punchclock.EmployerID]punchclock.EmployerConfig
	closures    map[punchclock.EmployerID][]punchclock.CycleClosure
	adjustments map[punchclock.EmployerID][]punchclock.BalanceAdjustment
	absences    map[punchclock.EmployerID][]punchclock.Absence
	holidays    []punchclock.Holiday
}

func (tm *TxMemory) snapshot() memorySnapshot {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	s := memorySnapshot{
		punches:     make(map[punchclock.EmployerID][]punchclock.Punch, len(tm.punches)),
		schedules:   make(map[punchclock.EmployerID][]punchclock.DaySchedule, len(tm.schedules)),
		configs:     make(map[punchclock.EmployerID]punchclock.EmployerConfig, len(tm.configs)),
		closures:    make(map[punchclock.EmployerID][]punchclock.CycleClosure, len(tm.closures)),
		adjustments: make(map[punchclock.EmployerID][]punchclock.BalanceAdjustment, len(tm.adjustments)),
		absences:    make(map[punchclock.EmployerID][]punchclock.Absence, len(tm.absences)),
		holidays:    append([]punchclock.Holiday(nil), tm.holidays...),
	}
	for k, v := range tm.punches {
		s.punches[k] = append([]punchclock.Punch(nil), v...)
	}
	for k, v := range tm.schedules {
		s.schedules[k] = append([]punchclock.DaySchedule(nil), v...)
	}
	for k, v := range tm.configs {
		s.configs[k] = v
	}
	for k, v := range tm.closures {
		s.closures[k] = append([]punchclock.CycleClosure(nil), v...)
	}
	for k, v := range tm.adjustments {
		s.adjustments[k] = append([]punchclock.BalanceAdjustment(nil), v...)
	}
	for k, v := range tm.absences {
		s.absences[k] = append([]punchclock.Absence(nil), v...)
	}
	return s
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.punches = s.punches
	tm.schedules = s.schedules
	tm.configs = s.configs
	tm.closures = s.closures
	tm.adjustments = s.adjustments
	tm.absences = s.absences
	tm.holidays = s.holidays
}
