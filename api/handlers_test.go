/*
handlers_test.go - Tests for the storage layer behind the handlers

Tests for:
- Punch editing (manual edits with justification)
- Holiday matching (one-off, recurring, employer-specific)
- Transactional closure writes (closure + inverse adjustment together)
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
	"github.com/tlmacedo/meuPonto-sub000/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEditPunch_MarksManualAndKeepsJustification(t *testing.T) {
	// GIVEN: A punch registered at 08:20
	store := newTestStore(t)
	ctx := context.Background()

	day := punchclock.NewDate(2025, time.June, 2)
	timestamp := day.Time.Add(8*time.Hour + 20*time.Minute)
	punch := punchclock.Punch{
		ID:         "punch-edit-1",
		EmployerID: "emp-test",
		Timestamp:  timestamp,
		Considered: punchclock.ClockTimeOf(timestamp),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := store.CreatePunch(ctx, punch); err != nil {
		t.Fatalf("Failed to create punch: %v", err)
	}

	// WHEN: Moving it to 08:00 with a justification
	corrected := day.Time.Add(8 * time.Hour)
	punch.Timestamp = corrected
	punch.Considered = punchclock.ClockTimeOf(corrected)
	punch.ManuallyEdited = true
	punch.Justification = "Esqueci de bater na entrada"
	punch.UpdatedAt = time.Now()
	if err := store.UpdatePunch(ctx, punch); err != nil {
		t.Fatalf("Failed to update punch: %v", err)
	}

	// THEN: The stored punch carries the edit flag and justification
	punches, err := store.PunchesOn(ctx, "emp-test", day)
	if err != nil {
		t.Fatalf("Failed to read punches: %v", err)
	}
	if len(punches) != 1 {
		t.Fatalf("Expected 1 punch, got %d", len(punches))
	}
	if !punches[0].ManuallyEdited {
		t.Error("Punch should be flagged as manually edited")
	}
	if punches[0].Justification != "Esqueci de bater na entrada" {
		t.Errorf("Unexpected justification: %q", punches[0].Justification)
	}
	if punches[0].Considered.String() != "08:00" {
		t.Errorf("Expected considered time 08:00, got %s", punches[0].Considered)
	}
}

func TestEditPunch_MissingPunch_NotFound(t *testing.T) {
	store := newTestStore(t)

	punch := punchclock.Punch{
		ID:         "punch-missing",
		EmployerID: "emp-test",
		Timestamp:  time.Now(),
	}
	err := store.UpdatePunch(context.Background(), punch)
	if !errors.Is(err, punchclock.ErrPunchNotFound) {
		t.Errorf("Expected ErrPunchNotFound, got %v", err)
	}
}

// =============================================================================
// HOLIDAY TESTS
// =============================================================================

func TestHoliday_CreateAndQuery(t *testing.T) {
	// GIVEN: A one-off employer-specific holiday
	store := newTestStore(t)
	ctx := context.Background()

	holiday := punchclock.Holiday{
		ID:         "holiday-1",
		EmployerID: "emp-test",
		Name:       "Aniversario da Cidade",
		Kind:       punchclock.HolidayFull,
		Date:       punchclock.NewDate(2026, time.January, 25),
		Recurring:  false,
	}
	if err := store.SaveHoliday(ctx, holiday); err != nil {
		t.Fatalf("Failed to save holiday: %v", err)
	}

	// THEN: It matches its date for that employer
	matches, err := store.HolidaysOn(ctx, "emp-test", punchclock.NewDate(2026, time.January, 25))
	if err != nil {
		t.Fatalf("Failed to query holidays: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 holiday, got %d", len(matches))
	}
	if matches[0].Name != "Aniversario da Cidade" {
		t.Errorf("Expected 'Aniversario da Cidade', got '%s'", matches[0].Name)
	}

	// But not the next day
	matches, _ = store.HolidaysOn(ctx, "emp-test", punchclock.NewDate(2026, time.January, 26))
	if len(matches) != 0 {
		t.Errorf("January 26 should not be a holiday, got %d matches", len(matches))
	}

	// And not for another employer
	matches, _ = store.HolidaysOn(ctx, "emp-other", punchclock.NewDate(2026, time.January, 25))
	if len(matches) != 0 {
		t.Errorf("Employer-specific holiday leaked to another employer")
	}
}

func TestHoliday_RecurringAcrossYears(t *testing.T) {
	// GIVEN: A recurring global holiday
	store := newTestStore(t)
	ctx := context.Background()

	holiday := punchclock.Holiday{
		ID:        "holiday-dec25",
		Name:      "Natal",
		Kind:      punchclock.HolidayFull,
		Date:      punchclock.NewDate(2025, time.December, 25),
		Recurring: true,
	}
	if err := store.SaveHoliday(ctx, holiday); err != nil {
		t.Fatalf("Failed to save holiday: %v", err)
	}

	// THEN: It matches the same month/day in any year, for any employer
	for _, year := range []int{2025, 2026, 2030} {
		matches, err := store.HolidaysOn(ctx, "any-employer", punchclock.NewDate(year, time.December, 25))
		if err != nil {
			t.Fatalf("Failed to query holidays: %v", err)
		}
		if len(matches) != 1 {
			t.Errorf("December 25, %d should be a holiday, got %d matches", year, len(matches))
		}
	}

	// But never a different day
	matches, _ := store.HolidaysOn(ctx, "any-employer", punchclock.NewDate(2026, time.December, 26))
	if len(matches) != 0 {
		t.Error("December 26 should NOT be a holiday")
	}
}

// =============================================================================
// TRANSACTION TESTS
// =============================================================================

func TestWithTx_RollsBackOnError(t *testing.T) {
	// GIVEN: A transaction that writes a closure and then fails
	store := newTestStore(t)
	ctx := context.Background()

	window := punchclock.Period{
		Start: punchclock.NewDate(2025, time.May, 1),
		End:   punchclock.NewDate(2025, time.May, 31),
	}
	failure := errors.New("simulated failure")
	err := store.WithTx(ctx, func(s punchclock.Store) error {
		closure := punchclock.CycleClosure{
			EmployerID:   "emp-test",
			Period:       window,
			PriorBalance: punchclock.Minutes(120),
			Type:         punchclock.ClosureAutomatic,
			CreatedAt:    time.Now(),
		}
		if err := s.InsertClosure(ctx, closure); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("Expected the transaction error to propagate, got %v", err)
	}

	// THEN: Nothing was persisted
	closures, err := store.Closures(ctx, "emp-test")
	if err != nil {
		t.Fatalf("Failed to list closures: %v", err)
	}
	if len(closures) != 0 {
		t.Errorf("Expected 0 closures after rollback, got %d", len(closures))
	}
}

func TestCycleClose_ClosureAndAdjustmentCommitTogether(t *testing.T) {
	// GIVEN: A cycle-enabled employer with a lapsed window and some balance
	handler := setupTestHandler(t)
	ctx := context.Background()

	cycleStart := punchclock.NewDate(2025, time.April, 1)
	cfg := punchclock.EmployerConfig{
		EmployerID:          "emp-test",
		CycleEnabled:        true,
		CycleLengthMonths:   1,
		CurrentCycleStart:   &cycleStart,
		ClosureReminderDays: 7,
		PeriodStartDay:      1,
		ZeroBalanceOnClose:  true,
	}
	if err := handler.Store.SaveConfig(ctx, cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	adjustment := punchclock.BalanceAdjustment{
		ID:            "adj-seed",
		EmployerID:    "emp-test",
		Date:          punchclock.NewDate(2025, time.April, 10),
		Amount:        punchclock.Minutes(90),
		Justification: "Plantao extra no feriado",
		CreatedAt:     time.Now(),
	}
	if err := handler.Store.InsertAdjustment(ctx, adjustment); err != nil {
		t.Fatalf("Failed to insert adjustment: %v", err)
	}

	// WHEN: Closing the cycle manually
	closure, err := handler.Cycles.CloseCurrentCycle(ctx, "emp-test", "")
	if err != nil {
		t.Fatalf("Failed to close cycle: %v", err)
	}

	// THEN: The closure, its inverse adjustment, and the advanced pointer
	// all landed
	if closure.PriorBalance.InMinutes() != 90 {
		t.Errorf("Expected prior balance 90, got %d", closure.PriorBalance.InMinutes())
	}

	closures, _ := handler.Store.Closures(ctx, "emp-test")
	if len(closures) != 1 {
		t.Fatalf("Expected 1 closure, got %d", len(closures))
	}

	inverse, err := handler.Store.AdjustmentsBetween(ctx, "emp-test", closure.Period.End, closure.Period.End)
	if err != nil {
		t.Fatalf("Failed to read adjustments: %v", err)
	}
	if len(inverse) != 1 {
		t.Fatalf("Expected 1 inverse adjustment on the window end, got %d", len(inverse))
	}
	if inverse[0].Amount.InMinutes() != -90 {
		t.Errorf("Expected inverse -90, got %d", inverse[0].Amount.InMinutes())
	}

	saved, err := handler.Store.Config(ctx, "emp-test")
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	want := punchclock.NewDate(2025, time.May, 1)
	if saved.CurrentCycleStart == nil || !saved.CurrentCycleStart.Equal(want) {
		t.Errorf("Expected cycle pointer at %s, got %v", want, saved.CurrentCycleStart)
	}
}

func TestConfigs_ListsEveryEmployer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cfg := punchclock.EmployerConfig{
			EmployerID:     punchclock.EmployerID(fmt.Sprintf("emp-%d", i)),
			PeriodStartDay: 1,
		}
		if err := store.SaveConfig(ctx, cfg); err != nil {
			t.Fatalf("Failed to save config: %v", err)
		}
	}

	configs, err := store.Configs(ctx)
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 3 {
		t.Errorf("Expected 3 configs, got %d", len(configs))
	}
}
