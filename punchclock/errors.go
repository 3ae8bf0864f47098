/*
errors.go - Centralized error types for the punch-clock engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Validation errors - bad caller input, never retried automatically
  2. Configuration errors - cycle enabled but unusable; operations refuse
     to proceed rather than guessing
  3. Not-found errors - referenced employer/punch/config absent, surfaced
     distinctly so callers can offer "create" flows
  4. Safety-limit errors - catch-up or bootstrap loops exceeding their
     iteration bound; fatal for the invocation, likely corrupt config

USAGE:
  if punchclock.IsValidationError(err) { ... 400 ... }
  if punchclock.IsNotFound(err) { ... 404 ... }

SEE ALSO:
  - ledger.go: Adjustment validation
  - cycle.go: Configuration and safety-limit errors
*/
package punchclock

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all caller-input failures.
	ErrValidation = errors.New("validation failed")

	// ErrConfigNotFound is returned when no EmployerConfig exists.
	ErrConfigNotFound = errors.New("employer config not found")

	// ErrPunchNotFound is returned when a referenced punch doesn't exist.
	ErrPunchNotFound = errors.New("punch not found")

	// ErrCycleDisabled is returned by cycle operations when cycling is off.
	ErrCycleDisabled = errors.New("banked-hours cycle disabled")

	// ErrCycleNotConfigured is returned when cycling is enabled but the
	// start date or cycle length is missing.
	ErrCycleNotConfigured = errors.New("banked-hours cycle not configured")

	// ErrNoPunchData is returned by retroactive bootstrap when the employer
	// has no punches at all; empty cycles are never fabricated.
	ErrNoPunchData = errors.New("no punch data")

	// ErrSafetyLimitExceeded is returned when a cycle catch-up or bootstrap
	// loop exceeds its iteration bound. Results are never silently truncated.
	ErrSafetyLimitExceeded = errors.New("cycle safety limit exceeded")

	// ErrClosureConflict is returned when bootstrap finds an existing
	// closure that overlaps, but does not exactly match, a computed window.
	ErrClosureConflict = errors.New("conflicting cycle closure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError carries the failed rule and a human-readable message.
type ValidationError struct {
	Code    string // e.g. "zero_adjustment", "future_date"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StepError wraps a collaborator failure with which cycle step was in
// progress so an operator can resume safely.
type StepError struct {
	Op         string
	EmployerID EmployerID
	Window     Period
	Err        error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s for employer %s, cycle %s: %v", e.Op, e.EmployerID, e.Window, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// OverlappingClosureError reports a bootstrap window that collides with a
// closure created under a different cycle length.
type OverlappingClosureError struct {
	EmployerID EmployerID
	Window     Period
	Existing   Period
}

func (e *OverlappingClosureError) Error() string {
	return fmt.Sprintf("closure %s overlaps computed window %s for employer %s",
		e.Existing, e.Window, e.EmployerID)
}

func (e *OverlappingClosureError) Unwrap() error { return ErrClosureConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidationError returns true for bad caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrPunchNotFound)
}

// IsConfigError returns true for unusable cycle configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrCycleDisabled) || errors.Is(err, ErrCycleNotConfigured)
}

// IsSafetyLimit returns true when an iteration bound was exceeded.
func IsSafetyLimit(err error) bool {
	return errors.Is(err, ErrSafetyLimitExceeded)
}
