/*
tiers.go - Tier selection and evaluation

PURPOSE:
  Decides which tier a customer belongs to given their lifetime metric
  and the active tier list, and applies tier transitions with history.

SELECTION RULE:
  Scan active tiers DESCENDING by threshold and pick the first tier
  whose threshold the metric meets or exceeds. If none qualify, fall
  back to the lowest tier.

DOWNGRADE POLICY:
  Upgrades are always applied. Downgrades are applied only when the
  active rule version allows them; otherwise evaluation is a no-op and
  the customer keeps their current tier. This gives tier progression a
  one-directional "climb" unless the business opts into demotion.

EXAMPLE:
  Tiers: Bronze(0), Silver(1000), Gold(5000). Lifetime points 1200.
  Scan: Gold 5000? no. Silver 1000? yes -> Silver.

SEE ALSO:
  - engine.go: Invokes evaluation after earn and positive adjustments
  - types.go: Tier, TierChange
*/
package loyalty

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PURE SELECTION
// =============================================================================

// ApplicableTier returns the tier the metric qualifies for, scanning
// descending by threshold and falling back to the lowest tier.
// Returns false only when tiers is empty.
func ApplicableTier(tiers []Tier, basis EvaluationBasis, lifetimePoints int64, lifetimeSpend decimal.Decimal) (Tier, bool) {
	if len(tiers) == 0 {
		return Tier{}, false
	}

	metric := decimal.NewFromInt(lifetimePoints)
	if basis == BasisTotalSpend {
		metric = lifetimeSpend
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Threshold(basis).GreaterThan(sorted[j].Threshold(basis))
	})

	for _, t := range sorted {
		if metric.GreaterThanOrEqual(t.Threshold(basis)) {
			return t, true
		}
	}
	// Below every threshold: lowest tier.
	return sorted[len(sorted)-1], true
}

// LowestTier returns the active tier with the smallest display order.
// Used as the default tier for lazily created accounts.
func LowestTier(tiers []Tier) (Tier, bool) {
	if len(tiers) == 0 {
		return Tier{}, false
	}
	lowest := tiers[0]
	for _, t := range tiers[1:] {
		if t.DisplayOrder < lowest.DisplayOrder {
			lowest = t
		}
	}
	return lowest, true
}

// =============================================================================
// EVALUATION RESULT
// =============================================================================

// TierResult reports the outcome of a tier evaluation.
type TierResult struct {
	Upgraded    bool
	Downgraded  bool
	NewTierName string
}

// =============================================================================
// EVALUATION - Applies a tier transition to the account
// =============================================================================

// evaluateTier re-checks the account's tier against the active tier list
// and, on an effective change, appends a TierChange row and mutates the
// account's tier fields. The caller persists the account and supplies
// the transactional store.
func (e *Engine) evaluateTier(ctx context.Context, s Store, acct *Account, rv RuleVersion, triggeringTx TransactionID) (TierResult, error) {
	tiers, err := s.ListActiveTiers(ctx)
	if err != nil {
		return TierResult{}, err
	}
	if len(tiers) == 0 {
		// Tier-less installations run with multiplier 1; nothing to do.
		return TierResult{}, nil
	}

	target, _ := ApplicableTier(tiers, rv.EvaluationBasis, acct.LifetimeEarned, acct.LifetimeSpend)
	if target.ID == acct.TierID {
		return TierResult{}, nil
	}

	var current Tier
	if acct.TierID != "" {
		current, err = s.GetTier(ctx, acct.TierID)
		if err != nil {
			return TierResult{}, err
		}
	}

	basis := rv.EvaluationBasis
	upgrade := acct.TierID == "" || target.Threshold(basis).GreaterThan(current.Threshold(basis))

	reason := TierChangeEarned
	if !upgrade {
		if !rv.AllowTierDowngrade {
			// Demotion disabled: keep the current tier, report no change.
			return TierResult{}, nil
		}
		reason = TierChangeDowngrade
	}

	change := TierChange{
		ID:            e.newID(),
		CustomerID:    acct.CustomerID,
		OldTierID:     acct.TierID,
		NewTierID:     target.ID,
		Reason:        reason,
		TransactionID: triggeringTx,
		CreatedAt:     e.now(),
	}
	if err := s.AppendTierChange(ctx, change); err != nil {
		return TierResult{}, err
	}

	acct.TierID = target.ID
	acct.TierUpdatedAt = e.now()

	return TierResult{
		Upgraded:    upgrade,
		Downgraded:  !upgrade,
		NewTierName: target.Name,
	}, nil
}

// =============================================================================
// TIER ADMINISTRATION
// =============================================================================

// TierParams are the admin-supplied fields for a new tier.
type TierParams struct {
	Code         string
	Name         string
	DisplayOrder int
	MinPoints    int64
	MinSpend     decimal.Decimal
	Multiplier   decimal.Decimal
}

// CreateTier registers a new loyalty tier. The code must be unique.
func (e *Engine) CreateTier(ctx context.Context, p TierParams) (Tier, error) {
	if p.Code == "" || p.Name == "" {
		return Tier{}, ErrInvalidAmount
	}
	if p.Multiplier.IsNegative() {
		return Tier{}, ErrInvalidAmount
	}

	tier := Tier{
		ID:           e.newID(),
		Code:         p.Code,
		Name:         p.Name,
		DisplayOrder: p.DisplayOrder,
		MinPoints:    p.MinPoints,
		MinSpend:     p.MinSpend,
		Multiplier:   p.Multiplier,
		Active:       true,
	}

	err := e.store.WithTx(ctx, func(s Store) error {
		if _, err := s.GetTierByCode(ctx, p.Code); err == nil {
			return ErrDuplicateTierCode
		}
		return s.InsertTier(ctx, tier)
	})
	if err != nil {
		return Tier{}, err
	}
	return tier, nil
}

// Tiers returns the active tier list ordered by display order.
func (e *Engine) Tiers(ctx context.Context) ([]Tier, error) {
	return e.store.ListActiveTiers(ctx)
}
