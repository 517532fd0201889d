/*
engine.go - Ledger/balance engine for loyalty points

PURPOSE:
  The engine mutates a customer's points balance against the active
  rule version, recording every mutation as an immutable ledger row
  and re-evaluating the customer's tier where policy requires it.

OPERATIONS:
  Earn:                Accrue points from an order amount with tier multiplier
  CalculateRedemption: Preview redemption caps (no mutation)
  Redeem:              Spend points for a discount (guarded)
  Reverse:             Idempotently mirror all transactions of an order
  AdjustPoints:        Manual admin correction (guarded)

ATOMICITY:
  Each operation wraps its related writes (ledger row + account update
  + tier history) in a single store transaction. A crash between
  writes can never leave the balance inconsistent with the ledger.

ROUNDING:
  Earning floors at each step:
    basePoints   = floor(amount * pointsPerCurrency)
    pointsEarned = floor(basePoints * tierMultiplier)
  Redemption caps floor as well. Points are integers; money is decimal.

TIER RE-EVALUATION:
  Runs after earn, positive adjustments, and reversals (which can lower
  the lifetime metrics). Redemption does not re-evaluate: spending
  points never causes a tier drop.

BALANCE FLOOR:
  The balance never goes below zero. Redemption, negative adjustments,
  and reversals are each guarded; a reversal whose earned points were
  already spent is rejected rather than applied partially.

SEE ALSO:
  - tiers.go: Evaluation rules
  - rules.go: Active rule version lookup
  - store.go: Persistence contract
*/
package loyalty

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine is the loyalty points and tier engine. All public operations
// are safe to call concurrently; serialization of concurrent mutations
// against the same customer is delegated to the store's transactions.
type Engine struct {
	store TxStore

	// Injectable for tests.
	now   func() time.Time
	newID func() string
}

// NewEngine creates a loyalty engine on top of a transactional store.
func NewEngine(store TxStore) *Engine {
	return &Engine{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
}

// =============================================================================
// EARN
// =============================================================================

// EarnResult reports the outcome of an accrual.
type EarnResult struct {
	PointsEarned  int64
	Balance       int64
	Multiplier    decimal.Decimal
	TransactionID TransactionID
	TierUpgraded  bool
	NewTierName   string
}

// Earn accrues points for an order amount. Sub-threshold amounts that
// floor to zero points return a zero-effect result without writing a
// transaction.
func (e *Engine) Earn(ctx context.Context, customerID CustomerID, ref OrderRef, amount decimal.Decimal, actorID string) (EarnResult, error) {
	if !amount.IsPositive() {
		return EarnResult{}, ErrInvalidAmount
	}

	var result EarnResult
	err := e.store.WithTx(ctx, func(s Store) error {
		acct, err := e.loadOrCreateAccount(ctx, s, customerID)
		if err != nil {
			return err
		}
		rv, err := e.activeRuleVersion(ctx, s)
		if err != nil {
			return err
		}

		multiplier := decimal.NewFromInt(1)
		if acct.TierID != "" {
			tier, err := s.GetTier(ctx, acct.TierID)
			if err != nil {
				return err
			}
			multiplier = tier.Multiplier
		}

		basePoints := amount.Mul(rv.PointsPerCurrency).Floor().IntPart()
		earned := decimal.NewFromInt(basePoints).Mul(multiplier).Floor().IntPart()
		result.Multiplier = multiplier

		if earned <= 0 {
			// Idempotent no-op: nothing written for sub-threshold amounts.
			result.Balance = acct.Balance
			return nil
		}

		tx := PointTransaction{
			ID:            TransactionID(e.newID()),
			CustomerID:    customerID,
			Type:          TxEarn,
			Delta:         earned,
			BalanceAfter:  acct.Balance + earned,
			OrderRef:      ref,
			RuleVersionID: rv.ID,
			ActorID:       actorID,
			CreatedAt:     e.now(),
		}
		if err := s.AppendTransaction(ctx, tx); err != nil {
			return err
		}

		acct.Balance += earned
		acct.LifetimeEarned += earned
		acct.LifetimeSpend = acct.LifetimeSpend.Add(amount)

		tierRes, err := e.evaluateTier(ctx, s, &acct, rv, tx.ID)
		if err != nil {
			return err
		}
		if err := s.SaveAccount(ctx, acct); err != nil {
			return err
		}

		result.PointsEarned = earned
		result.Balance = acct.Balance
		result.TransactionID = tx.ID
		result.TierUpgraded = tierRes.Upgraded
		result.NewTierName = tierRes.NewTierName
		return nil
	})
	if err != nil {
		return EarnResult{}, err
	}
	return result, nil
}

// =============================================================================
// REDEMPTION PREVIEW
// =============================================================================

// RedemptionQuote previews how many points can be redeemed against an
// order. It never reports more redeemable points than the balance.
type RedemptionQuote struct {
	AvailablePoints     int64
	MaxRedeemablePoints int64
	MaxDiscount         decimal.Decimal
	MinRedemptionPoints int64
	RedemptionRate      decimal.Decimal
	TierName            string
	TierMultiplier      decimal.Decimal

	// Populated when the caller asked about a specific point count.
	RequestedPoints  int64
	RequestedAllowed bool
	RequestedValue   decimal.Decimal
}

// CalculateRedemption computes the redemption caps for an order amount.
// Read-only: no account is created and nothing is written.
func (e *Engine) CalculateRedemption(ctx context.Context, customerID CustomerID, orderAmount decimal.Decimal, requestedPoints int64) (RedemptionQuote, error) {
	if !orderAmount.IsPositive() {
		return RedemptionQuote{}, ErrInvalidAmount
	}

	rv, err := e.activeRuleVersion(ctx, e.store)
	if err != nil {
		return RedemptionQuote{}, err
	}

	// A customer with no account simply has a zero balance.
	var acct Account
	if a, err := e.store.GetAccount(ctx, customerID); err == nil {
		acct = a
	} else if !errors.Is(err, ErrAccountNotFound) {
		return RedemptionQuote{}, err
	}

	quote := RedemptionQuote{
		AvailablePoints:     acct.Balance,
		MinRedemptionPoints: rv.MinRedemptionPoints,
		RedemptionRate:      rv.RedemptionRate,
		TierMultiplier:      decimal.NewFromInt(1),
	}
	if acct.TierID != "" {
		if tier, err := e.store.GetTier(ctx, acct.TierID); err == nil {
			quote.TierName = tier.Name
			quote.TierMultiplier = tier.Multiplier
		}
	}

	maxDiscount := orderAmount.Mul(rv.MaxRedemptionPercent).Div(decimal.NewFromInt(100)).Floor()
	maxFromOrder := maxDiscount.Div(rv.RedemptionRate).Floor().IntPart()

	quote.MaxRedeemablePoints = maxFromOrder
	if acct.Balance < maxFromOrder {
		quote.MaxRedeemablePoints = acct.Balance
	}
	quote.MaxDiscount = decimal.NewFromInt(quote.MaxRedeemablePoints).Mul(rv.RedemptionRate)

	if requestedPoints > 0 {
		quote.RequestedPoints = requestedPoints
		quote.RequestedAllowed = requestedPoints >= rv.MinRedemptionPoints &&
			requestedPoints <= quote.MaxRedeemablePoints
		if quote.RequestedAllowed {
			quote.RequestedValue = decimal.NewFromInt(requestedPoints).Mul(rv.RedemptionRate)
		}
	}
	return quote, nil
}

// =============================================================================
// REDEEM
// =============================================================================

// RedeemResult reports the outcome of a redemption.
type RedeemResult struct {
	PointsRedeemed int64
	Discount       decimal.Decimal
	Balance        int64
	TransactionID  TransactionID
}

// Redeem spends points for a discount. Fails if points are below the
// rule version's minimum or exceed the balance. Redemption never
// re-evaluates the tier.
func (e *Engine) Redeem(ctx context.Context, customerID CustomerID, points int64, ref OrderRef, actorID string) (RedeemResult, error) {
	if points <= 0 {
		return RedeemResult{}, ErrInvalidAmount
	}

	var result RedeemResult
	err := e.store.WithTx(ctx, func(s Store) error {
		acct, err := e.loadOrCreateAccount(ctx, s, customerID)
		if err != nil {
			return err
		}
		rv, err := e.activeRuleVersion(ctx, s)
		if err != nil {
			return err
		}

		if points < rv.MinRedemptionPoints {
			return &BelowMinimumError{Minimum: rv.MinRedemptionPoints, Requested: points}
		}
		if points > acct.Balance {
			return &InsufficientPointsError{CustomerID: customerID, Available: acct.Balance, Requested: points}
		}

		tx := PointTransaction{
			ID:            TransactionID(e.newID()),
			CustomerID:    customerID,
			Type:          TxRedeem,
			Delta:         -points,
			BalanceAfter:  acct.Balance - points,
			OrderRef:      ref,
			RuleVersionID: rv.ID,
			ActorID:       actorID,
			CreatedAt:     e.now(),
		}
		if err := s.AppendTransaction(ctx, tx); err != nil {
			return err
		}

		acct.Balance -= points
		acct.LifetimeRedeemed += points
		if err := s.SaveAccount(ctx, acct); err != nil {
			return err
		}

		result = RedeemResult{
			PointsRedeemed: points,
			Discount:       decimal.NewFromInt(points).Mul(rv.RedemptionRate),
			Balance:        acct.Balance,
			TransactionID:  tx.ID,
		}
		return nil
	})
	if err != nil {
		return RedeemResult{}, err
	}
	return result, nil
}

// =============================================================================
// REVERSE
// =============================================================================

// ReverseResult reports how many transactions were mirrored.
type ReverseResult struct {
	ReversedCount int
	PointsDelta   int64
	Balance       int64
}

// Reverse undoes every non-reversed transaction recorded for the order
// reference by appending mirror rows with negated deltas. Idempotent:
// transactions already linked from a reverse row are skipped, so
// reversing the same order twice has no further effect. A reversal
// whose net effect would drive the balance negative (earned points
// already spent elsewhere) is rejected whole; the ledger never records
// a balance below zero.
func (e *Engine) Reverse(ctx context.Context, customerID CustomerID, ref OrderRef, actorID string) (ReverseResult, error) {
	if ref.IsZero() {
		return ReverseResult{}, ErrInvalidAmount
	}

	var result ReverseResult
	err := e.store.WithTx(ctx, func(s Store) error {
		acct, err := s.GetAccount(ctx, customerID)
		if err != nil {
			return err
		}

		txs, err := s.TransactionsByOrder(ctx, ref)
		if err != nil {
			return err
		}

		reversed := make(map[TransactionID]bool)
		for _, tx := range txs {
			if tx.Type == TxReverse && tx.ReversedTxID != "" {
				reversed[tx.ReversedTxID] = true
			}
		}

		var pending []PointTransaction
		var netDelta int64
		for _, tx := range txs {
			if tx.CustomerID != customerID || tx.Type == TxReverse || reversed[tx.ID] {
				continue
			}
			pending = append(pending, tx)
			netDelta -= tx.Delta
		}
		if acct.Balance+netDelta < 0 {
			return &NegativeBalanceError{CustomerID: customerID, Balance: acct.Balance, Delta: netDelta}
		}

		var lastMirrorID TransactionID
		for _, tx := range pending {
			mirror := PointTransaction{
				ID:            TransactionID(e.newID()),
				CustomerID:    customerID,
				Type:          TxReverse,
				Delta:         -tx.Delta,
				BalanceAfter:  acct.Balance - tx.Delta,
				OrderRef:      ref,
				RuleVersionID: tx.RuleVersionID,
				ReversedTxID:  tx.ID,
				Reason:        "reversal of " + string(tx.Type),
				ActorID:       actorID,
				CreatedAt:     e.now(),
			}
			if err := s.AppendTransaction(ctx, mirror); err != nil {
				return err
			}

			acct.Balance -= tx.Delta
			switch tx.Type {
			case TxEarn:
				acct.LifetimeEarned -= tx.Delta
			case TxRedeem:
				acct.LifetimeRedeemed += tx.Delta // tx.Delta is negative
			}

			lastMirrorID = mirror.ID
			result.ReversedCount++
			result.PointsDelta -= tx.Delta
		}

		if result.ReversedCount > 0 {
			// Reversal can lower the lifetime metrics; re-check the tier
			// so a demotion (where policy allows one) lands immediately.
			rv, err := e.activeRuleVersion(ctx, s)
			if err == nil {
				if _, err := e.evaluateTier(ctx, s, &acct, rv, lastMirrorID); err != nil {
					return err
				}
			} else if !errors.Is(err, ErrNoActiveRuleVersion) {
				return err
			}
			if err := s.SaveAccount(ctx, acct); err != nil {
				return err
			}
		}
		result.Balance = acct.Balance
		return nil
	})
	if err != nil {
		return ReverseResult{}, err
	}
	return result, nil
}

// =============================================================================
// ADJUST
// =============================================================================

// AdjustResult reports the outcome of a manual adjustment.
type AdjustResult struct {
	Balance       int64
	TransactionID TransactionID
	TierUpgraded  bool
	NewTierName   string
}

// AdjustPoints applies a signed manual correction. Fails if the
// resulting balance would be negative. Positive adjustments count
// toward lifetime earnings and trigger tier re-evaluation; negative
// adjustments do neither.
func (e *Engine) AdjustPoints(ctx context.Context, customerID CustomerID, points int64, reason, actorID string) (AdjustResult, error) {
	if points == 0 {
		return AdjustResult{}, ErrInvalidAmount
	}

	var result AdjustResult
	err := e.store.WithTx(ctx, func(s Store) error {
		acct, err := e.loadOrCreateAccount(ctx, s, customerID)
		if err != nil {
			return err
		}
		rv, err := e.activeRuleVersion(ctx, s)
		if err != nil {
			return err
		}

		if acct.Balance+points < 0 {
			return &NegativeBalanceError{CustomerID: customerID, Balance: acct.Balance, Delta: points}
		}

		tx := PointTransaction{
			ID:            TransactionID(e.newID()),
			CustomerID:    customerID,
			Type:          TxAdjust,
			Delta:         points,
			BalanceAfter:  acct.Balance + points,
			RuleVersionID: rv.ID,
			Reason:        reason,
			ActorID:       actorID,
			CreatedAt:     e.now(),
		}
		if err := s.AppendTransaction(ctx, tx); err != nil {
			return err
		}

		acct.Balance += points
		if points > 0 {
			acct.LifetimeEarned += points
			tierRes, err := e.evaluateTier(ctx, s, &acct, rv, tx.ID)
			if err != nil {
				return err
			}
			result.TierUpgraded = tierRes.Upgraded
			result.NewTierName = tierRes.NewTierName
		}
		if err := s.SaveAccount(ctx, acct); err != nil {
			return err
		}

		result.Balance = acct.Balance
		result.TransactionID = tx.ID
		return nil
	})
	if err != nil {
		return AdjustResult{}, err
	}
	return result, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Account returns the customer's loyalty account, creating it lazily
// with the lowest active tier on first access.
func (e *Engine) Account(ctx context.Context, customerID CustomerID) (Account, error) {
	var acct Account
	err := e.store.WithTx(ctx, func(s Store) error {
		a, err := e.loadOrCreateAccount(ctx, s, customerID)
		if err != nil {
			return err
		}
		acct = a
		return nil
	})
	return acct, err
}

// Transactions returns the customer's points statement, oldest first.
func (e *Engine) Transactions(ctx context.Context, customerID CustomerID) ([]PointTransaction, error) {
	return e.store.TransactionsByCustomer(ctx, customerID)
}

// TierHistory returns the customer's tier transitions, oldest first.
func (e *Engine) TierHistory(ctx context.Context, customerID CustomerID) ([]TierChange, error) {
	return e.store.TierChanges(ctx, customerID)
}

// loadOrCreateAccount fetches the account or creates one defaulting to
// the lowest active tier.
func (e *Engine) loadOrCreateAccount(ctx context.Context, s Store, customerID CustomerID) (Account, error) {
	acct, err := s.GetAccount(ctx, customerID)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return Account{}, err
	}

	acct = Account{
		CustomerID:    customerID,
		LifetimeSpend: decimal.Zero,
		CreatedAt:     e.now(),
	}
	if tiers, err := s.ListActiveTiers(ctx); err == nil {
		if lowest, ok := LowestTier(tiers); ok {
			acct.TierID = lowest.ID
			acct.TierUpdatedAt = e.now()
		}
	}
	if err := s.SaveAccount(ctx, acct); err != nil {
		return Account{}, err
	}
	return acct, nil
}
