/*
rules.go - Rule version lifecycle

PURPOSE:
  Manages the versioned loyalty policy: creating new versions with
  sequential numbers and switching the single active version.

INVARIANT:
  At most one RuleVersion is active at any instant. Activation runs
  deactivate-then-activate inside one transaction, stamping
  EffectiveTo on the outgoing version and EffectiveFrom on the
  incoming one.

VERSION NUMBERS:
  Assigned as max(version_number) + 1. Versions are immutable once
  superseded; policy changes always create a new version.

SEE ALSO:
  - types.go: RuleVersion
  - engine.go: Reads the active version at evaluation time
*/
package loyalty

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RULE VERSION PARAMETERS
// =============================================================================

// RuleVersionParams are the admin-supplied policy constants for a new
// rule version.
type RuleVersionParams struct {
	PointsPerCurrency    decimal.Decimal
	RedemptionRate       decimal.Decimal
	MaxRedemptionPercent decimal.Decimal
	MinRedemptionPoints  int64
	AllowTierDowngrade   bool
	EvaluationBasis      EvaluationBasis

	// Activate the new version atomically, deactivating the prior one.
	Activate bool
}

func (p RuleVersionParams) validate() error {
	switch {
	case p.PointsPerCurrency.IsNegative():
		return ErrInvalidRuleVersion
	case !p.RedemptionRate.IsPositive():
		return ErrInvalidRuleVersion
	case p.MaxRedemptionPercent.IsNegative() || p.MaxRedemptionPercent.GreaterThan(decimal.NewFromInt(100)):
		return ErrInvalidRuleVersion
	case p.MinRedemptionPoints < 0:
		return ErrInvalidRuleVersion
	}
	switch p.EvaluationBasis {
	case BasisLifetimePoints, BasisTotalSpend:
		return nil
	default:
		return ErrInvalidRuleVersion
	}
}

// =============================================================================
// RULE VERSION OPERATIONS
// =============================================================================

// ActiveRuleVersion returns the rule version that is active with an
// effective window covering now.
func (e *Engine) ActiveRuleVersion(ctx context.Context) (RuleVersion, error) {
	return e.activeRuleVersion(ctx, e.store)
}

func (e *Engine) activeRuleVersion(ctx context.Context, s Store) (RuleVersion, error) {
	rv, err := s.ActiveRuleVersion(ctx)
	if err != nil {
		return RuleVersion{}, err
	}
	if !rv.InEffect(e.now()) {
		return RuleVersion{}, ErrNoActiveRuleVersion
	}
	return rv, nil
}

// CreateRuleVersion records a new rule version with the next sequential
// version number, optionally activating it atomically.
func (e *Engine) CreateRuleVersion(ctx context.Context, p RuleVersionParams, actorID string) (RuleVersion, error) {
	if err := p.validate(); err != nil {
		return RuleVersion{}, err
	}

	now := e.now()
	rv := RuleVersion{
		ID:                   e.newID(),
		PointsPerCurrency:    p.PointsPerCurrency,
		RedemptionRate:       p.RedemptionRate,
		MaxRedemptionPercent: p.MaxRedemptionPercent,
		MinRedemptionPoints:  p.MinRedemptionPoints,
		AllowTierDowngrade:   p.AllowTierDowngrade,
		EvaluationBasis:      p.EvaluationBasis,
		Active:               p.Activate,
		EffectiveFrom:        now,
		CreatedBy:            actorID,
		CreatedAt:            now,
	}

	err := e.store.WithTx(ctx, func(s Store) error {
		max, err := s.MaxRuleVersionNumber(ctx)
		if err != nil {
			return err
		}
		rv.VersionNumber = max + 1

		if p.Activate {
			if err := e.deactivateCurrent(ctx, s, now); err != nil {
				return err
			}
		}
		return s.InsertRuleVersion(ctx, rv)
	})
	if err != nil {
		return RuleVersion{}, err
	}
	return rv, nil
}

// ActivateRuleVersion switches the active version: the current active
// version (if any) is deactivated with EffectiveTo stamped, and the
// target becomes active from now.
func (e *Engine) ActivateRuleVersion(ctx context.Context, versionID, actorID string) (RuleVersion, error) {
	var activated RuleVersion

	err := e.store.WithTx(ctx, func(s Store) error {
		target, err := s.GetRuleVersion(ctx, versionID)
		if err != nil {
			return err
		}

		now := e.now()
		if err := e.deactivateCurrent(ctx, s, now); err != nil {
			return err
		}

		target.Active = true
		target.EffectiveFrom = now
		target.EffectiveTo = nil
		if err := s.UpdateRuleVersion(ctx, target); err != nil {
			return err
		}
		activated = target
		return nil
	})
	if err != nil {
		return RuleVersion{}, err
	}
	return activated, nil
}

// deactivateCurrent stamps the currently active version, if any.
func (e *Engine) deactivateCurrent(ctx context.Context, s Store, now time.Time) error {
	current, err := s.ActiveRuleVersion(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil // first activation
		}
		return err
	}
	current.Active = false
	end := now
	current.EffectiveTo = &end
	return s.UpdateRuleVersion(ctx, current)
}

// RuleVersions lists all rule versions, newest first.
func (e *Engine) RuleVersions(ctx context.Context) ([]RuleVersion, error) {
	return e.store.ListRuleVersions(ctx)
}
