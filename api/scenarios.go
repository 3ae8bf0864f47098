/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates an employer with
	schedules, punches, and cycle configuration that demonstrate specific
	features.

AVAILABLE SCENARIOS:

	first-week:         A week of punches exercising the tolerance rules
	banked-hours:       Lapsed monthly cycles ready for advance
	retroactive-import: Old punch history ready for cycle bootstrap

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Save employer config and weekday schedules
 3. Seed punches at scripted clock times
 4. Recalculate each seeded day so considered times are applied
 5. Optionally add holidays, absences, and adjustments

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "banked-hours"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared handler context and error helpers
  - punchclock/tolerance.go: Rules the seeded punches demonstrate
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

const demoEmployer = punchclock.EmployerID("emp-demo")

var scenarios = []ScenarioDTO{
	{
		ID:          "first-week",
		Name:        "First Week",
		Description: "One week of punches showing entry and interval-return tolerance, plus a holiday",
	},
	{
		ID:          "banked-hours",
		Name:        "Banked Hours",
		Description: "Monthly cycles with two lapsed windows, ready for advance",
	},
	{
		ID:          "retroactive-import",
		Name:        "Retroactive Import",
		Description: "Imported punch history predating the cycle start, ready for bootstrap",
	},
}

// databaseResetter is implemented by stores that support wiping all data.
type databaseResetter interface {
	Reset(ctx context.Context) error
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	resetter, ok := h.Store.(databaseResetter)
	if !ok {
		writeError(w, http.StatusConflict, "Store does not support scenario loading", nil)
		return
	}
	if err := resetter.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "first-week":
		err = h.loadFirstWeekScenario(ctx)
	case "banked-hours":
		err = h.loadBankedHoursScenario(ctx)
	case "retroactive-import":
		err = h.loadRetroactiveImportScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadFirstWeekScenario seeds the last five weekdays with punches that
// exercise the tolerance rules: one arrival a few minutes early (snapped to
// the ideal entry), one lunch return inside the return tolerance (snapped
// back), one genuinely late arrival (kept as-is), and one full holiday
// that zeroes the day's expectation.
func (h *Handler) loadFirstWeekScenario(ctx context.Context) error {
	if err := h.seedDemoEmployer(ctx, punchclock.EmployerConfig{
		EmployerID:     demoEmployer,
		PeriodStartDay: 1,
	}); err != nil {
		return err
	}

	days := lastWeekdays(punchclock.Today(), 5)

	// Oldest weekday: textbook day, 07:56 arrival snaps to 08:00.
	if err := h.seedPunchDay(ctx, days[0], "07:56", "12:00", "13:05", "17:04"); err != nil {
		return err
	}
	// Late arrival, never forgiven.
	if err := h.seedPunchDay(ctx, days[1], "08:20", "12:00", "13:00", "17:20"); err != nil {
		return err
	}
	// Lunch return 7 minutes late but inside the return tolerance.
	if err := h.seedPunchDay(ctx, days[2], "08:00", "12:00", "13:07", "17:00"); err != nil {
		return err
	}
	// Holiday: no punches, no expectation.
	holiday := punchclock.Holiday{
		ID:        "hol-demo-1",
		Name:      "Feriado Municipal",
		Kind:      punchclock.HolidayFull,
		Date:      days[3],
		Recurring: false,
	}
	if err := h.Store.SaveHoliday(ctx, holiday); err != nil {
		return err
	}
	// Most recent weekday: open day with a single entry punch.
	return h.seedPunchDay(ctx, days[4], "08:02")
}

// loadBankedHoursScenario configures monthly cycles with the pointer two
// months behind today. Each lapsed month carries extra worked time, so the
// next advance closes two cycles with positive prior balances.
func (h *Handler) loadBankedHoursScenario(ctx context.Context) error {
	cycleStart := punchclock.Today().AddMonths(-2)
	if err := h.seedDemoEmployer(ctx, punchclock.EmployerConfig{
		EmployerID:          demoEmployer,
		CycleEnabled:        true,
		CycleLengthMonths:   1,
		CurrentCycleStart:   &cycleStart,
		ClosureReminderDays: 7,
		PeriodStartDay:      1,
		ZeroBalanceOnClose:  true,
	}); err != nil {
		return err
	}

	// One overtime day per lapsed month: an hour past the expected exit.
	for monthsAgo := 2; monthsAgo >= 1; monthsAgo-- {
		day := firstWeekdayOnOrAfter(punchclock.Today().AddMonths(-monthsAgo))
		if err := h.seedPunchDay(ctx, day, "08:00", "12:00", "13:00", "18:00"); err != nil {
			return err
		}
	}

	// A standard day in the current month keeps the live balance flat.
	today := firstWeekdayOnOrAfter(punchclock.Today().AddDays(-3))
	if err := h.seedPunchDay(ctx, today, "08:00", "12:00", "13:00", "17:00"); err != nil {
		return err
	}

	// A manual correction from a forgotten punch.
	_, err := h.Ledger.Record(ctx, demoEmployer,
		punchclock.Today().AddDays(-10), 30, "esqueci de bater na saida, ajuste acordado")
	return err
}

// loadRetroactiveImportScenario seeds punch history starting roughly
// fourteen months back while the configured cycle start is recent. The
// bootstrap endpoint can then reconstruct the missing historical cycles.
func (h *Handler) loadRetroactiveImportScenario(ctx context.Context) error {
	cycleStart := punchclock.Today().AddMonths(-1)
	if err := h.seedDemoEmployer(ctx, punchclock.EmployerConfig{
		EmployerID:          demoEmployer,
		CycleEnabled:        true,
		CycleLengthMonths:   6,
		CurrentCycleStart:   &cycleStart,
		ClosureReminderDays: 7,
		PeriodStartDay:      1,
		ZeroBalanceOnClose:  true,
	}); err != nil {
		return err
	}

	// Imported history: one punch day per quarter going back 14 months.
	for monthsAgo := 14; monthsAgo >= 2; monthsAgo -= 3 {
		day := firstWeekdayOnOrAfter(punchclock.Today().AddMonths(-monthsAgo))
		if err := h.seedPunchDay(ctx, day, "08:00", "12:00", "13:00", "17:30"); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SEEDING HELPERS
// =============================================================================

// seedDemoEmployer saves the config plus a standard Mon-Fri schedule:
// ideal entry 08:00 with 10 minutes of tolerance, one hour minimum lunch
// with 10 minutes of return tolerance, 8 expected hours.
func (h *Handler) seedDemoEmployer(ctx context.Context, cfg punchclock.EmployerConfig) error {
	if err := h.Store.SaveConfig(ctx, cfg); err != nil {
		return err
	}

	effectiveFrom := punchclock.NewDate(2020, time.January, 1)
	ideal := punchclock.NewClockTime(8, 0)
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		schedule := punchclock.DaySchedule{
			EmployerID:    cfg.EmployerID,
			Weekday:       weekday,
			EffectiveFrom: effectiveFrom,
		}
		if weekday != time.Sunday && weekday != time.Saturday {
			schedule.IdealEntry = &ideal
			schedule.ToleranceEntry = 10
			schedule.MinimumInterval = 60
			schedule.ToleranceIntervalReturn = 10
			schedule.ExpectedMinutes = 480
			schedule.Workday = true
		}
		if err := h.Store.SaveSchedule(ctx, schedule); err != nil {
			return err
		}
	}
	return nil
}

// seedPunchDay creates punches at the given "HH:MM" times on one day and
// recalculates the day so tolerance rules apply.
func (h *Handler) seedPunchDay(ctx context.Context, day punchclock.Date, times ...string) error {
	for i, hhmm := range times {
		clock, err := punchclock.ParseClockTime(hhmm)
		if err != nil {
			return err
		}
		timestamp := day.Time.Add(time.Duration(clock) * time.Minute)
		punch := punchclock.Punch{
			ID:         punchclock.PunchID(fmt.Sprintf("demo-%s-%d", day, i)),
			EmployerID: demoEmployer,
			Timestamp:  timestamp,
			Considered: clock,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if err := h.Store.CreatePunch(ctx, punch); err != nil {
			return err
		}
	}
	_, err := h.Tolerance.RecalculateDay(ctx, demoEmployer, day)
	return err
}

// lastWeekdays returns the n most recent weekdays up to and including
// today, oldest first.
func lastWeekdays(today punchclock.Date, n int) []punchclock.Date {
	var days []punchclock.Date
	for day := today; len(days) < n; day = day.AddDays(-1) {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			days = append(days, day)
		}
	}
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
	return days
}

func firstWeekdayOnOrAfter(day punchclock.Date) punchclock.Date {
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDays(1)
	}
	return day
}
