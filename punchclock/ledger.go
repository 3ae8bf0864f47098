/*
ledger.go - Append-only balance adjustment ledger

PURPOSE:
  Manual signed corrections to the banked-hours account. Adjustments are
  append-only: a wrong adjustment is compensated by another adjustment, not
  edited. The only deletions in the whole system happen in ReverseClosures,
  which removes the system-generated inverse adjustments of erroneous
  closures together with their closures.

VALIDATION:
  - minutes must be non-zero
  - justification is mandatory, trimmed, length-bounded
  - the reference date must not be in the future
  - magnitude is capped per adjustment to catch fat-fingered multi-day
    corrections entered as one row

SEE ALSO:
  - cycle.go: Writes system adjustments directly (closure atomicity)
*/
package punchclock

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Justification bounds and the default per-adjustment magnitude ceiling
// (one week of minutes).
const (
	MinJustificationLen      = 5
	MaxJustificationLen      = 500
	DefaultAdjustmentCeiling = 7 * 24 * 60
)

// =============================================================================
// ADJUSTMENT LEDGER
// =============================================================================

// AdjustmentLedger validates and records manual balance adjustments.
type AdjustmentLedger struct {
	Store AdjustmentStore

	// CeilingMinutes caps the absolute magnitude of a single adjustment.
	// Zero means DefaultAdjustmentCeiling.
	CeilingMinutes int

	Now func() time.Time // defaults to time.Now
}

func NewAdjustmentLedger(store AdjustmentStore) *AdjustmentLedger {
	return &AdjustmentLedger{Store: store, Now: time.Now}
}

// Record validates and persists a manual adjustment, returning it with its
// assigned identity.
func (l *AdjustmentLedger) Record(ctx context.Context, employerID EmployerID, day Date, minutes int, justification string) (BalanceAdjustment, error) {
	if err := l.validate(day, minutes, justification); err != nil {
		return BalanceAdjustment{}, err
	}

	now := l.now()
	adjustment := BalanceAdjustment{
		ID:            AdjustmentID(fmt.Sprintf("adj-%d", now.UnixNano())),
		EmployerID:    employerID,
		Date:          day,
		Amount:        Minutes(minutes),
		Justification: strings.TrimSpace(justification),
		CreatedAt:     now,
	}
	if err := l.Store.InsertAdjustment(ctx, adjustment); err != nil {
		return BalanceAdjustment{}, fmt.Errorf("record adjustment for %s: %w", employerID, err)
	}
	return adjustment, nil
}

// PeriodSum returns the signed total of adjustments dated in [from, to].
func (l *AdjustmentLedger) PeriodSum(ctx context.Context, employerID EmployerID, from, to Date) (Amount, error) {
	adjustments, err := l.Store.AdjustmentsBetween(ctx, employerID, from, to)
	if err != nil {
		return Minutes(0), fmt.Errorf("sum adjustments %s..%s: %w", from, to, err)
	}
	total := Minutes(0)
	for _, a := range adjustments {
		total = total.Add(a.Amount)
	}
	return total, nil
}

func (l *AdjustmentLedger) validate(day Date, minutes int, justification string) error {
	if minutes == 0 {
		return &ValidationError{Code: "zero_adjustment", Message: "adjustment minutes must be non-zero"}
	}

	trimmed := strings.TrimSpace(justification)
	if trimmed == "" {
		return &ValidationError{Code: "blank_justification", Message: "justification is required"}
	}
	if len(trimmed) < MinJustificationLen {
		return &ValidationError{
			Code:    "justification_too_short",
			Message: fmt.Sprintf("justification must be at least %d characters", MinJustificationLen),
		}
	}
	if len(trimmed) > MaxJustificationLen {
		return &ValidationError{
			Code:    "justification_too_long",
			Message: fmt.Sprintf("justification must be at most %d characters", MaxJustificationLen),
		}
	}

	if day.After(DateOf(l.now())) {
		return &ValidationError{Code: "future_date", Message: "adjustment date must not be in the future"}
	}

	ceiling := l.CeilingMinutes
	if ceiling <= 0 {
		ceiling = DefaultAdjustmentCeiling
	}
	if minutes > ceiling || minutes < -ceiling {
		return &ValidationError{
			Code:    "over_ceiling",
			Message: fmt.Sprintf("adjustment magnitude exceeds the per-entry ceiling of %d minutes", ceiling),
		}
	}
	return nil
}

func (l *AdjustmentLedger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}
