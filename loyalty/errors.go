/*
errors.go - Centralized error types for the loyalty engine

PURPOSE:
  All loyalty error types in one place for consistency and
  discoverability. The request layer maps these to transport status
  codes using the Is* predicates; the engine never returns raw
  persistence errors for guard violations.

ERROR CATEGORIES:
  1. Not-found errors - missing rule version, tier, or account
  2. Validation errors - redemption/adjustment guard violations
  3. Conflict errors - duplicate tier codes

USAGE:
  if loyalty.IsInvalidArgument(err) {
      // reject with 400
  }

SEE ALSO:
  - engine.go: Raises validation errors
  - rules.go: Raises rule version errors
*/
package loyalty

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoActiveRuleVersion is returned when no rule version is active
	// with an effective window covering now.
	ErrNoActiveRuleVersion = errors.New("no active rule version")

	// ErrRuleVersionNotFound is returned when a referenced rule version
	// doesn't exist.
	ErrRuleVersionNotFound = errors.New("rule version not found")

	// ErrTierNotFound is returned when a referenced tier doesn't exist.
	ErrTierNotFound = errors.New("tier not found")

	// ErrNoActiveTiers is returned when tier evaluation runs against an
	// empty tier list.
	ErrNoActiveTiers = errors.New("no active tiers configured")

	// ErrAccountNotFound is returned when an operation requires an
	// existing account (reverse) and none exists.
	ErrAccountNotFound = errors.New("loyalty account not found")

	// ErrInvalidAmount is returned for non-positive order amounts and
	// zero adjustments.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientPoints is returned when redemption exceeds balance.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrBelowMinimumRedemption is returned when redemption is below the
	// rule version's minimum.
	ErrBelowMinimumRedemption = errors.New("redemption below minimum points")

	// ErrNegativeBalance is returned when an adjustment would drive the
	// balance negative.
	ErrNegativeBalance = errors.New("adjustment would drive balance negative")

	// ErrDuplicateTierCode is returned when creating a tier with a code
	// that already exists.
	ErrDuplicateTierCode = errors.New("tier code already exists")

	// ErrInvalidRuleVersion is returned when rule version parameters are
	// out of range.
	ErrInvalidRuleVersion = errors.New("invalid rule version parameters")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientPointsError provides details about a balance shortage.
type InsufficientPointsError struct {
	CustomerID CustomerID
	Available  int64
	Requested  int64
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: available %d, requested %d", e.Available, e.Requested)
}

func (e *InsufficientPointsError) Unwrap() error { return ErrInsufficientPoints }

// BelowMinimumError provides details about a minimum-redemption violation.
type BelowMinimumError struct {
	Minimum   int64
	Requested int64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("redemption of %d points is below the minimum of %d", e.Requested, e.Minimum)
}

func (e *BelowMinimumError) Unwrap() error { return ErrBelowMinimumRedemption }

// NegativeBalanceError provides details about an adjustment that would
// push the balance below zero.
type NegativeBalanceError struct {
	CustomerID CustomerID
	Balance    int64
	Delta      int64
}

func (e *NegativeBalanceError) Error() string {
	return fmt.Sprintf("adjustment of %d would drive balance %d negative", e.Delta, e.Balance)
}

func (e *NegativeBalanceError) Unwrap() error { return ErrNegativeBalance }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoActiveRuleVersion) ||
		errors.Is(err, ErrRuleVersionNotFound) ||
		errors.Is(err, ErrTierNotFound) ||
		errors.Is(err, ErrNoActiveTiers) ||
		errors.Is(err, ErrAccountNotFound)
}

// IsInvalidArgument returns true if the error is due to invalid input or
// a violated business guard.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientPoints) ||
		errors.Is(err, ErrBelowMinimumRedemption) ||
		errors.Is(err, ErrNegativeBalance) ||
		errors.Is(err, ErrInvalidRuleVersion)
}

// IsConflict returns true if the error indicates a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateTierCode)
}
