package punchclock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
	"github.com/tlmacedo/meuPonto-sub000/punchclock/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newSummaryFixture(t *testing.T) (*punchclock.SummaryCalculator, *store.TxMemory) {
	t.Helper()
	mem := store.NewTxMemory()
	return punchclock.NewSummaryCalculator(mem), mem
}

func seedWorkweek(t *testing.T, mem *store.TxMemory, employerID punchclock.EmployerID) {
	t.Helper()
	ctx := context.Background()
	for wd := time.Monday; wd <= time.Friday; wd++ {
		require.NoError(t, mem.SaveSchedule(ctx, weekdaySchedule(employerID, wd)))
	}
	// Weekend rest days: zero expectation, not workdays.
	for _, wd := range []time.Weekday{time.Saturday, time.Sunday} {
		sched := weekdaySchedule(employerID, wd)
		sched.IdealEntry = nil
		sched.ExpectedMinutes = 0
		sched.Workday = false
		require.NoError(t, mem.SaveSchedule(ctx, sched))
	}
}

// =============================================================================
// DAY SUMMARY TESTS
// =============================================================================

func TestForDay_StandardDay_ZeroBalance(t *testing.T) {
	// GIVEN: 08:00-12:00, 13:00-17:00 against a 480-minute expectation
	// THEN: Worked 480, balance exactly 0

	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	monday := date(2025, time.March, 10)
	seedDay(t, mem, "emp-1", monday, "08:00", "12:00", "13:00", "17:00")

	summary, err := calc.ForDay(ctx, "emp-1", monday)

	require.NoError(t, err)
	assert.Equal(t, punchclock.DayNormal, summary.Context.Type)
	assert.Equal(t, 480, summary.ExpectedMinutes)
	assert.Equal(t, 480, summary.EffectiveMinutes)
	assert.Equal(t, 480, summary.WorkedMinutes)
	assert.True(t, summary.Balance.IsZero())
}

func TestForDay_ShortDay_NegativeBalance(t *testing.T) {
	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	monday := date(2025, time.March, 10)
	seedDay(t, mem, "emp-1", monday, "08:00", "12:00", "13:00", "16:30")

	summary, err := calc.ForDay(ctx, "emp-1", monday)

	require.NoError(t, err)
	assert.Equal(t, -30, summary.Balance.InMinutes())
}

func TestForDay_OddPunches_OpenEntryExcluded(t *testing.T) {
	// GIVEN: Three punches (open day)
	// THEN: Only the closed interval counts; the day is flagged incomplete

	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	monday := date(2025, time.March, 10)
	seedDay(t, mem, "emp-1", monday, "08:00", "12:00", "13:00")

	summary, err := calc.ForDay(ctx, "emp-1", monday)

	require.NoError(t, err)
	assert.False(t, summary.Entries.Complete)
	assert.Equal(t, 240, summary.WorkedMinutes)
	assert.Equal(t, -240, summary.Balance.InMinutes())
}

func TestForDay_NoScheduleVersion_DefaultExpectation(t *testing.T) {
	// GIVEN: No schedule configured and a calculator default of 480
	// THEN: The default expectation applies

	calc, mem := newSummaryFixture(t)
	calc.DefaultExpectedMinutes = 480
	ctx := context.Background()
	monday := date(2025, time.March, 10)
	seedDay(t, mem, "emp-1", monday, "08:00", "12:00")

	summary, err := calc.ForDay(ctx, "emp-1", monday)

	require.NoError(t, err)
	assert.Equal(t, 480, summary.ExpectedMinutes)
	assert.Equal(t, -240, summary.Balance.InMinutes())
}

func TestForDay_RestDay_WorkedTimeIsPureCredit(t *testing.T) {
	// GIVEN: Work on a Saturday with Workday=false
	// THEN: Effective expectation 0; everything worked is overtime

	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	saturday := date(2025, time.March, 15)
	seedDay(t, mem, "emp-1", saturday, "09:00", "12:00")

	summary, err := calc.ForDay(ctx, "emp-1", saturday)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.EffectiveMinutes)
	assert.Equal(t, 180, summary.Balance.InMinutes())
}

// =============================================================================
// DAY TYPE PRECEDENCE TESTS
// =============================================================================

func TestForDay_FullHoliday_ZeroesExpectation(t *testing.T) {
	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	monday := date(2025, time.March, 10)
	require.NoError(t, mem.SaveHoliday(ctx, punchclock.Holiday{
		ID: "hol-1", Name: "Feriado", Kind: punchclock.HolidayFull, Date: monday,
	}))

	summary, err := calc.ForDay(ctx, "emp-1", monday)

	require.NoError(t, err)
	assert.Equal(t, punchclock.DayHoliday, summary.Context.Type)
	assert.Equal(t, 0, summary.EffectiveMinutes)
	assert.True(t, summary.Balance.IsZero())
}

func TestForDay_OptionalHoliday_NormalExpectation(t *testing.T) {
	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	monday := date(2025, time.March, 10)
	require.NoError(t, mem.SaveHoliday(ctx, punchclock.Holiday{
		ID: "hol-1", Name: "Ponto facultativo", Kind: punchclock.HolidayOptional, Date: monday,
	}))

	summary, err := calc.ForDay(ctx, "emp-1", monday)

	require.NoError(t, err)
	assert.Equal(t, punchclock.DayNormal, summary.Context.Type)
	assert.Equal(t, 480, summary.EffectiveMinutes)
}

func TestForDay_RecurringHoliday_MatchesEveryYear(t *testing.T) {
	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	require.NoError(t, mem.SaveHoliday(ctx, punchclock.Holiday{
		ID: "hol-1", Name: "Natal", Kind: punchclock.HolidayFull,
		Date: date(2020, time.December, 25), Recurring: true,
	}))

	summary, err := calc.ForDay(ctx, "emp-1", date(2025, time.December, 25))

	require.NoError(t, err)
	assert.Equal(t, punchclock.DayHoliday, summary.Context.Type)
}

func TestForDay_AbsenceOutranksHoliday(t *testing.T) {
	// GIVEN: A vacation absence covering a full holiday
	// THEN: The absence wins the day type; expectation is still zero

	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	monday := date(2025, time.March, 10)
	require.NoError(t, mem.SaveHoliday(ctx, punchclock.Holiday{
		ID: "hol-1", Name: "Feriado", Kind: punchclock.HolidayFull, Date: monday,
	}))
	require.NoError(t, mem.SaveAbsence(ctx, punchclock.Absence{
		ID: "abs-1", EmployerID: "emp-1", Kind: punchclock.AbsenceVacation,
		From: monday.AddDays(-2), To: monday.AddDays(5),
	}))

	summary, err := calc.ForDay(ctx, "emp-1", monday)

	require.NoError(t, err)
	assert.Equal(t, punchclock.DayAbsence, summary.Context.Type)
	assert.Equal(t, 0, summary.EffectiveMinutes)
}

func TestForDay_DeclarationAbatement_ReducesExpectation(t *testing.T) {
	// GIVEN: A 120-minute medical declaration on a workday
	// WHEN: Working 6 of the usual 8 hours
	// THEN: Effective expectation 360; balance 0

	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	monday := date(2025, time.March, 10)
	require.NoError(t, mem.SaveAbsence(ctx, punchclock.Absence{
		ID: "abs-1", EmployerID: "emp-1", Kind: punchclock.AbsenceDeclaration,
		From: monday, To: monday, AbatementMinutes: 120,
	}))
	seedDay(t, mem, "emp-1", monday, "08:00", "12:00", "13:00", "15:00")

	summary, err := calc.ForDay(ctx, "emp-1", monday)

	require.NoError(t, err)
	assert.Equal(t, punchclock.DayNormal, summary.Context.Type)
	assert.Equal(t, 120, summary.Context.AbatementMinutes)
	assert.Equal(t, 360, summary.EffectiveMinutes)
	assert.True(t, summary.Balance.IsZero())
}

func TestForDay_AbatementNeverGoesNegative(t *testing.T) {
	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	monday := date(2025, time.March, 10)
	require.NoError(t, mem.SaveAbsence(ctx, punchclock.Absence{
		ID: "abs-1", EmployerID: "emp-1", Kind: punchclock.AbsenceDeclaration,
		From: monday, To: monday, AbatementMinutes: 600,
	}))

	summary, err := calc.ForDay(ctx, "emp-1", monday)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.EffectiveMinutes)
}

// =============================================================================
// PERIOD BALANCE TESTS
// =============================================================================

func TestPeriodBalance_SumsDayBalances(t *testing.T) {
	// GIVEN: Mon exactly on target, Tue 30 over, Wed 60 under
	// THEN: Period balance is -30

	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	monday := date(2025, time.March, 10)
	seedDay(t, mem, "emp-1", monday, "08:00", "12:00", "13:00", "17:00")
	seedDay(t, mem, "emp-1", monday.AddDays(1), "08:00", "12:00", "13:00", "17:30")
	seedDay(t, mem, "emp-1", monday.AddDays(2), "08:00", "12:00", "13:00", "16:00")

	balance, err := calc.PeriodBalance(ctx, "emp-1", monday, monday.AddDays(2))

	require.NoError(t, err)
	assert.Equal(t, -30, balance.InMinutes())
}

func TestPeriodBalance_WeekendDaysContributeZero(t *testing.T) {
	calc, mem := newSummaryFixture(t)
	ctx := context.Background()
	seedWorkweek(t, mem, "emp-1")
	saturday := date(2025, time.March, 15)

	balance, err := calc.PeriodBalance(ctx, "emp-1", saturday, saturday.AddDays(1))

	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}
