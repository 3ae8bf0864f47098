package punchclock

import "sort"

// =============================================================================
// TIME ENTRY RESOLVER - Pair punches into work intervals
// =============================================================================

// WorkInterval is one (entry, exit) pair of a day.
type WorkInterval struct {
	Entry Punch
	Exit  Punch
}

// Minutes returns the considered duration of the interval.
func (w WorkInterval) Minutes() int {
	return w.Exit.Considered.Sub(w.Entry.Considered)
}

// DayEntries is the resolved view of one day's punches.
type DayEntries struct {
	Intervals []WorkInterval

	// Open is the unpaired trailing entry of an odd-count day. It is
	// reported but contributes nothing to WorkedMinutes.
	Open *Punch

	WorkedMinutes int

	// Complete is true iff the punch count is even and at least 2.
	Complete bool
}

// ResolveDay sorts a day's punches chronologically and pairs consecutive
// punches (0,1), (2,3), ... as (entry, exit). Worked duration is the sum of
// considered exit minus considered entry over complete pairs only.
func ResolveDay(punches []Punch) DayEntries {
	sorted := make([]Punch, len(punches))
	copy(sorted, punches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	entries := DayEntries{
		Complete: len(sorted) >= 2 && len(sorted)%2 == 0,
	}
	for i := 0; i+1 < len(sorted); i += 2 {
		interval := WorkInterval{Entry: sorted[i], Exit: sorted[i+1]}
		entries.Intervals = append(entries.Intervals, interval)
		entries.WorkedMinutes += interval.Minutes()
	}
	if len(sorted)%2 == 1 {
		open := sorted[len(sorted)-1]
		entries.Open = &open
	}
	return entries
}
