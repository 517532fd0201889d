/*
Package loyalty provides the loyalty points and tier engine.

PURPOSE:
  This package contains the rule-driven core for customer loyalty:
  points accrual with tier multipliers, redemption with policy caps,
  reversals, manual adjustments, and tier promotion/demotion.

KEY CONCEPTS IN THIS FILE (types.go):
  - RuleVersion: A time-bounded, versioned snapshot of loyalty policy
  - Tier: A named rank with thresholds and an earning multiplier
  - Account: A customer's running balance and lifetime counters
  - PointTransaction: An immutable ledger entry recording balance changes
  - TierChange: An append-only record of tier transitions

DESIGN PRINCIPLES:
  1. Immutability: Ledger rows are never modified, only reversed
  2. Precision: Monetary values use decimal.Decimal, points are int64
  3. Auditability: Every transaction carries actor, reason, and order reference
  4. Single active rule version: Exactly one RuleVersion governs at a time

USAGE:
  engine := loyalty.NewEngine(store)
  result, err := engine.Earn(ctx, "cust-42", loyalty.OrderRef{Type: "service_order", ID: "so-981"},
      decimal.NewFromInt(250_000), "user-7")

SEE ALSO:
  - rules.go: Rule version lifecycle (create/activate)
  - tiers.go: Tier selection and evaluation
  - engine.go: Earn/redeem/reverse/adjust operations
*/
package loyalty

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CustomerID string
type TransactionID string

// OrderRef identifies the business document that triggered a points
// mutation (service order, POS sale, ...).
type OrderRef struct {
	Type string
	ID   string
}

func (r OrderRef) IsZero() bool { return r.Type == "" && r.ID == "" }

// =============================================================================
// RULE VERSION - Versioned loyalty policy parameters
// =============================================================================

// EvaluationBasis selects the lifetime metric tiers are judged on.
type EvaluationBasis string

const (
	BasisLifetimePoints EvaluationBasis = "lifetime_points"
	BasisTotalSpend     EvaluationBasis = "total_spend"
)

// RuleVersion is an immutable snapshot of loyalty policy constants.
// At most one version is active at any instant; activating a new
// version stamps EffectiveTo on the previous one.
type RuleVersion struct {
	ID            string
	VersionNumber int

	// Earning: points granted per currency unit spent, floored.
	PointsPerCurrency decimal.Decimal

	// Redemption: currency value of one point, and the caps applied
	// when points are spent against an order.
	RedemptionRate       decimal.Decimal
	MaxRedemptionPercent decimal.Decimal
	MinRedemptionPoints  int64

	AllowTierDowngrade bool
	EvaluationBasis    EvaluationBasis

	Active        bool
	EffectiveFrom time.Time
	EffectiveTo   *time.Time

	CreatedBy string
	CreatedAt time.Time
}

// InEffect reports whether the version's effective window covers t.
func (rv RuleVersion) InEffect(t time.Time) bool {
	if t.Before(rv.EffectiveFrom) {
		return false
	}
	return rv.EffectiveTo == nil || t.Before(*rv.EffectiveTo)
}

// =============================================================================
// TIER - Loyalty rank with thresholds and multiplier
// =============================================================================

// Tier is a named loyalty rank. Tiers are ordered by DisplayOrder
// ascending, which by invariant matches threshold ascending.
type Tier struct {
	ID           string
	Code         string
	Name         string
	DisplayOrder int
	MinPoints    int64
	MinSpend     decimal.Decimal
	Multiplier   decimal.Decimal
	Active       bool
}

// Threshold returns the tier's entry threshold for the given basis,
// as a decimal so both bases compare uniformly.
func (t Tier) Threshold(basis EvaluationBasis) decimal.Decimal {
	if basis == BasisTotalSpend {
		return t.MinSpend
	}
	return decimal.NewFromInt(t.MinPoints)
}

// =============================================================================
// ACCOUNT - Per-customer balance and lifetime counters
// =============================================================================

// Account holds a customer's loyalty state. Created lazily on first
// loyalty interaction; Balance never goes negative.
type Account struct {
	CustomerID CustomerID

	// Current tier; empty until the first tier assignment.
	TierID string

	Balance          int64
	LifetimeEarned   int64
	LifetimeRedeemed int64
	LifetimeSpend    decimal.Decimal

	TierUpdatedAt time.Time
	CreatedAt     time.Time
}

// =============================================================================
// POINT TRANSACTION - Immutable ledger row
// =============================================================================

type TransactionType string

const (
	TxEarn    TransactionType = "earn"    // Points accrued from a sale/order
	TxRedeem  TransactionType = "redeem"  // Points spent for a discount
	TxAdjust  TransactionType = "adjust"  // Manual admin correction
	TxReverse TransactionType = "reverse" // Mirror of a prior transaction
)

// PointTransaction is an append-only ledger row. Reversal creates a new
// row linked via ReversedTxID rather than mutating history.
type PointTransaction struct {
	ID           TransactionID
	CustomerID   CustomerID
	Type         TransactionType
	Delta        int64 // signed points delta
	BalanceAfter int64 // balance snapshot after applying Delta

	OrderRef      OrderRef
	RuleVersionID string

	// Set only on TxReverse rows: the transaction being undone.
	ReversedTxID TransactionID

	Reason    string
	ActorID   string
	CreatedAt time.Time
}

// =============================================================================
// TIER CHANGE - Append-only tier transition record
// =============================================================================

type TierChangeReason string

const (
	TierChangeEarned    TierChangeReason = "earned_points"
	TierChangeDowngrade TierChangeReason = "downgrade"
)

type TierChange struct {
	ID         string
	CustomerID CustomerID
	OldTierID  string
	NewTierID  string
	Reason     TierChangeReason

	// Ledger transaction that triggered the evaluation, if any.
	TransactionID TransactionID

	CreatedAt time.Time
}
