/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All payroll error types in one place. Workflow guard violations
  carry the current and required states so the request layer can name
  them to the caller; they are never silently ignored.

ERROR CATEGORIES:
  1. Not-found errors - missing period, slip, config, attendance
  2. State errors - transition attempted from the wrong status
  3. Validation errors - bad amounts, missing reasons
  4. Permission errors - actor is not the slip's employee
  5. Conflict errors - duplicate period for a year/month

SEE ALSO:
  - workflow.go: Raises state/guard errors
  - calc.go: Raises config validation errors
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPeriodNotFound is returned when a referenced period doesn't exist.
	ErrPeriodNotFound = errors.New("payroll period not found")

	// ErrSlipNotFound is returned when a referenced slip doesn't exist.
	ErrSlipNotFound = errors.New("payroll slip not found")

	// ErrSalaryConfigNotFound is returned when an employee has no salary
	// configuration.
	ErrSalaryConfigNotFound = errors.New("salary config not found")

	// ErrAttendanceNotFound is returned when no attendance summary exists
	// for a period+employee pair.
	ErrAttendanceNotFound = errors.New("attendance summary not found")

	// ErrDuplicatePeriod is returned when creating a period for a
	// year/month that already has one.
	ErrDuplicatePeriod = errors.New("payroll period already exists for month")

	// ErrInvalidTransition is returned for every workflow guard
	// violation: the period or slip is not in the required status.
	ErrInvalidTransition = errors.New("invalid workflow transition")

	// ErrNotSlipOwner is returned when an actor tries to confirm or
	// dispute another employee's slip.
	ErrNotSlipOwner = errors.New("actor is not the slip owner")

	// ErrNoSlips is returned when publishing a period that has no
	// generated slips.
	ErrNoSlips = errors.New("period has no generated slips")

	// ErrDisputedSlips is returned when finalizing a period that still
	// has disputed slips.
	ErrDisputedSlips = errors.New("period has unresolved disputed slips")

	// ErrOverrideRequired is returned when finalizing with unconfirmed
	// slips and no override reason.
	ErrOverrideRequired = errors.New("override reason required: not all slips confirmed")

	// ErrPeriodPaid is returned when adjusting a slip after its period
	// was paid.
	ErrPeriodPaid = errors.New("period already paid")

	// ErrInvalidSalaryConfig is returned when calculator inputs are out
	// of range (non-positive standard days/hours, negative rates).
	ErrInvalidSalaryConfig = errors.New("invalid salary config")

	// ErrInvalidAdjustment is returned for non-positive adjustment
	// amounts or empty reasons.
	ErrInvalidAdjustment = errors.New("invalid adjustment")

	// ErrMissingReason is returned when a dispute is filed without a
	// reason.
	ErrMissingReason = errors.New("reason required")

	// ErrInvalidPeriod is returned for an out-of-range year or month.
	ErrInvalidPeriod = errors.New("invalid period year/month")

	// ErrMissingPaymentMethod is returned when marking a period paid
	// without saying how.
	ErrMissingPaymentMethod = errors.New("payment method required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TransitionError names the entity, its current state, and the state
// the requested transition needs.
type TransitionError struct {
	Entity   string // "period" or "slip"
	ID       string
	Current  string
	Required string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s is %s, transition requires %s", e.Entity, e.ID, e.Current, e.Required)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPeriodNotFound) ||
		errors.Is(err, ErrSlipNotFound) ||
		errors.Is(err, ErrSalaryConfigNotFound) ||
		errors.Is(err, ErrAttendanceNotFound)
}

// IsInvalidState returns true for workflow guard violations.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrNoSlips) ||
		errors.Is(err, ErrDisputedSlips) ||
		errors.Is(err, ErrOverrideRequired) ||
		errors.Is(err, ErrPeriodPaid)
}

// IsInvalidArgument returns true for input validation failures.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidSalaryConfig) ||
		errors.Is(err, ErrInvalidAdjustment) ||
		errors.Is(err, ErrMissingReason) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrMissingPaymentMethod)
}

// IsForbidden returns true when the actor lacks ownership of the slip.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotSlipOwner)
}

// IsConflict returns true for uniqueness violations.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicatePeriod)
}
