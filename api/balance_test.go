/*
balance_test.go - End-to-end balance tests through the handler engines

CORE DESIGN:
- Considered times are applied by the tolerance engine BEFORE any balance math
- Day balance = effective expectation minus considered worked minutes
- Period balance is the plain sum of day balances
*/
package api

import (
	"context"
	"testing"
	"time"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
)

// seedBalanceFixture saves the demo config and schedules so punch days can
// be seeded at fixed 2025 dates.
func seedBalanceFixture(t *testing.T, handler *Handler) {
	t.Helper()
	err := handler.seedDemoEmployer(context.Background(), punchclock.EmployerConfig{
		EmployerID:     demoEmployer,
		PeriodStartDay: 1,
	})
	if err != nil {
		t.Fatalf("Failed to seed demo employer: %v", err)
	}
}

func TestDayBalance_ToleranceAppliedBeforeBalance(t *testing.T) {
	// GIVEN: Arrival 07:56 (snapped to 08:00) and lunch return 13:07
	//        (snapped to 13:00), exits on the dot
	// WHEN: Computing the day summary
	// THEN: The day balances to exactly zero because the balance uses
	//       considered times, not real ones

	handler := setupTestHandler(t)
	seedBalanceFixture(t, handler)
	ctx := context.Background()

	day := punchclock.NewDate(2025, time.June, 2) // Monday
	if err := handler.seedPunchDay(ctx, day, "07:56", "12:00", "13:07", "17:00"); err != nil {
		t.Fatalf("Failed to seed punches: %v", err)
	}

	summary, err := handler.Summary.ForDay(ctx, demoEmployer, day)
	if err != nil {
		t.Fatalf("Failed to compute summary: %v", err)
	}
	if summary.WorkedMinutes != 480 {
		t.Errorf("Expected 480 considered minutes worked, got %d", summary.WorkedMinutes)
	}
	if summary.Balance.InMinutes() != 0 {
		t.Errorf("Expected zero balance, got %d", summary.Balance.InMinutes())
	}
	if !summary.Entries.Complete {
		t.Error("Four punches should pair into a complete day")
	}
}

func TestDayBalance_LateArrivalCharged(t *testing.T) {
	// GIVEN: Arrival 20 minutes late, everything else on schedule
	handler := setupTestHandler(t)
	seedBalanceFixture(t, handler)
	ctx := context.Background()

	day := punchclock.NewDate(2025, time.June, 3) // Tuesday
	if err := handler.seedPunchDay(ctx, day, "08:20", "12:00", "13:00", "17:00"); err != nil {
		t.Fatalf("Failed to seed punches: %v", err)
	}

	summary, err := handler.Summary.ForDay(ctx, demoEmployer, day)
	if err != nil {
		t.Fatalf("Failed to compute summary: %v", err)
	}
	if summary.Balance.InMinutes() != -20 {
		t.Errorf("Expected -20 minutes, got %d", summary.Balance.InMinutes())
	}
}

func TestDayBalance_HolidayZeroesExpectation(t *testing.T) {
	// GIVEN: A full holiday on a regular workday, no punches
	handler := setupTestHandler(t)
	seedBalanceFixture(t, handler)
	ctx := context.Background()

	day := punchclock.NewDate(2025, time.June, 4) // Wednesday
	holiday := punchclock.Holiday{
		ID:   "hol-test",
		Name: "Feriado",
		Kind: punchclock.HolidayFull,
		Date: day,
	}
	if err := handler.Store.SaveHoliday(ctx, holiday); err != nil {
		t.Fatalf("Failed to save holiday: %v", err)
	}

	summary, err := handler.Summary.ForDay(ctx, demoEmployer, day)
	if err != nil {
		t.Fatalf("Failed to compute summary: %v", err)
	}
	if summary.ExpectedMinutes != 0 {
		t.Errorf("Expected 0 expected minutes on a full holiday, got %d", summary.ExpectedMinutes)
	}
	if summary.Balance.InMinutes() != 0 {
		t.Errorf("Expected zero balance, got %d", summary.Balance.InMinutes())
	}

	// The same workday without the holiday would owe a full shift
	plainDay := punchclock.NewDate(2025, time.June, 5) // Thursday
	summary, err = handler.Summary.ForDay(ctx, demoEmployer, plainDay)
	if err != nil {
		t.Fatalf("Failed to compute summary: %v", err)
	}
	if summary.Balance.InMinutes() != -480 {
		t.Errorf("Expected -480 on an unworked workday, got %d", summary.Balance.InMinutes())
	}
}

func TestPeriodBalance_SumsAcrossDays(t *testing.T) {
	// GIVEN: One overtime day (+60) and one late day (-20) in the same week
	handler := setupTestHandler(t)
	seedBalanceFixture(t, handler)
	ctx := context.Background()

	monday := punchclock.NewDate(2025, time.June, 9)
	tuesday := punchclock.NewDate(2025, time.June, 10)
	if err := handler.seedPunchDay(ctx, monday, "08:00", "12:00", "13:00", "18:00"); err != nil {
		t.Fatalf("Failed to seed punches: %v", err)
	}
	if err := handler.seedPunchDay(ctx, tuesday, "08:20", "12:00", "13:00", "17:00"); err != nil {
		t.Fatalf("Failed to seed punches: %v", err)
	}

	balance, err := handler.Summary.PeriodBalance(ctx, demoEmployer, monday, tuesday)
	if err != nil {
		t.Fatalf("Failed to compute period balance: %v", err)
	}
	if balance.InMinutes() != 40 {
		t.Errorf("Expected +40 minutes over the two days, got %d", balance.InMinutes())
	}
}

func TestPeriodBalance_RestDaysContributeNothing(t *testing.T) {
	// GIVEN: A full week range with punches only on two weekdays
	handler := setupTestHandler(t)
	seedBalanceFixture(t, handler)
	ctx := context.Background()

	monday := punchclock.NewDate(2025, time.June, 9)
	if err := handler.seedPunchDay(ctx, monday, "08:00", "12:00", "13:00", "17:00"); err != nil {
		t.Fatalf("Failed to seed punches: %v", err)
	}

	// Saturday through Sunday around that Monday: rest days owe nothing
	balance, err := handler.Summary.PeriodBalance(ctx, demoEmployer,
		punchclock.NewDate(2025, time.June, 7), punchclock.NewDate(2025, time.June, 9))
	if err != nil {
		t.Fatalf("Failed to compute period balance: %v", err)
	}
	if balance.InMinutes() != 0 {
		t.Errorf("Expected zero balance (worked day even, rest days free), got %d", balance.InMinutes())
	}
}
