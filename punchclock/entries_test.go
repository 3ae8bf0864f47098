package punchclock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
)

// =============================================================================
// PUNCH PAIRING TESTS
// =============================================================================

func TestResolveDay_FourPunches_TwoIntervals(t *testing.T) {
	// GIVEN: A standard day 08:00-12:00, 13:00-17:00
	// THEN: Two intervals, 480 worked minutes, day complete

	day := date(2025, time.March, 10)
	entries := punchclock.ResolveDay([]punchclock.Punch{
		punchAt("emp-1", day, "08:00", 0),
		punchAt("emp-1", day, "12:00", 1),
		punchAt("emp-1", day, "13:00", 2),
		punchAt("emp-1", day, "17:00", 3),
	})

	require.Len(t, entries.Intervals, 2)
	assert.Equal(t, 240, entries.Intervals[0].Minutes())
	assert.Equal(t, 240, entries.Intervals[1].Minutes())
	assert.Equal(t, 480, entries.WorkedMinutes)
	assert.True(t, entries.Complete)
	assert.Nil(t, entries.Open)
}

func TestResolveDay_SortsBeforePairing(t *testing.T) {
	// Punches arrive unordered; pairing must use chronological order

	day := date(2025, time.March, 10)
	entries := punchclock.ResolveDay([]punchclock.Punch{
		punchAt("emp-1", day, "17:00", 3),
		punchAt("emp-1", day, "08:00", 0),
		punchAt("emp-1", day, "13:00", 2),
		punchAt("emp-1", day, "12:00", 1),
	})

	assert.Equal(t, 480, entries.WorkedMinutes)
	assert.True(t, entries.Complete)
}

func TestResolveDay_OddCount_TrailingEntryOpen(t *testing.T) {
	// GIVEN: Three punches (forgot to clock out)
	// THEN: One closed interval; the trailing entry is open and contributes
	//       nothing to worked minutes

	day := date(2025, time.March, 10)
	entries := punchclock.ResolveDay([]punchclock.Punch{
		punchAt("emp-1", day, "08:00", 0),
		punchAt("emp-1", day, "12:00", 1),
		punchAt("emp-1", day, "13:00", 2),
	})

	require.Len(t, entries.Intervals, 1)
	assert.Equal(t, 240, entries.WorkedMinutes)
	assert.False(t, entries.Complete)
	require.NotNil(t, entries.Open)
	assert.Equal(t, clock("13:00"), entries.Open.Considered)
}

func TestResolveDay_SinglePunch(t *testing.T) {
	day := date(2025, time.March, 10)
	entries := punchclock.ResolveDay([]punchclock.Punch{
		punchAt("emp-1", day, "08:00", 0),
	})

	assert.Empty(t, entries.Intervals)
	assert.Zero(t, entries.WorkedMinutes)
	assert.False(t, entries.Complete)
	require.NotNil(t, entries.Open)
}

func TestResolveDay_NoPunches(t *testing.T) {
	entries := punchclock.ResolveDay(nil)

	assert.Empty(t, entries.Intervals)
	assert.Zero(t, entries.WorkedMinutes)
	assert.False(t, entries.Complete)
	assert.Nil(t, entries.Open)
}

func TestResolveDay_UsesConsideredTimes(t *testing.T) {
	// GIVEN: A punch whose considered time differs from its real time
	// THEN: Worked minutes are computed from considered times

	day := date(2025, time.March, 10)
	entry := punchAt("emp-1", day, "07:55", 0)
	entry.Considered = clock("08:00") // snapped by tolerance
	exit := punchAt("emp-1", day, "12:00", 1)

	entries := punchclock.ResolveDay([]punchclock.Punch{entry, exit})

	assert.Equal(t, 240, entries.WorkedMinutes)
}
