/*
loyalty.go - SQLite implementation of loyalty.TxStore

PURPOSE:
  Maps the loyalty store interface onto the loyalty_* tables. Every
  method runs against a queryer, so the same code serves both direct
  calls (against *sql.DB) and transactional views (against *sql.Tx).

TRANSACTION MODEL:
  WithTx serializes writers behind a mutex, begins a transaction, and
  hands the callback a view bound to the *sql.Tx. A nested WithTx on a
  view reuses the surrounding transaction.

SEE ALSO:
  - sqlite.go: Schema and shared helpers
  - loyalty/store.go: The interface being implemented
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/motoshop/erp-engine/loyalty"
)

// LoyaltyStore implements loyalty.TxStore on SQLite.
// base is nil on transactional views.
type LoyaltyStore struct {
	base *DB
	q    queryer
}

var _ loyalty.TxStore = (*LoyaltyStore)(nil)

// WithTx executes fn inside a database transaction.
func (s *LoyaltyStore) WithTx(ctx context.Context, fn func(loyalty.Store) error) error {
	if s.base == nil {
		// Already inside a transaction.
		return fn(s)
	}

	s.base.mu.Lock()
	defer s.base.mu.Unlock()

	tx, err := s.base.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&LoyaltyStore{q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// =============================================================================
// RULE VERSIONS
// =============================================================================

const ruleVersionCols = `id, version_number, points_per_currency, redemption_rate,
	max_redemption_percent, min_redemption_points, allow_tier_downgrade,
	evaluation_basis, active, effective_from, effective_to, created_by, created_at`

func scanRuleVersion(row interface{ Scan(...any) error }) (loyalty.RuleVersion, error) {
	var rv loyalty.RuleVersion
	var ppc, rate, maxPct, from string
	var to, createdBy sql.NullString
	var createdAt string

	err := row.Scan(&rv.ID, &rv.VersionNumber, &ppc, &rate, &maxPct,
		&rv.MinRedemptionPoints, &rv.AllowTierDowngrade, &rv.EvaluationBasis,
		&rv.Active, &from, &to, &createdBy, &createdAt)
	if err != nil {
		return loyalty.RuleVersion{}, err
	}

	rv.PointsPerCurrency = parseDecimal(ppc)
	rv.RedemptionRate = parseDecimal(rate)
	rv.MaxRedemptionPercent = parseDecimal(maxPct)
	rv.EffectiveFrom = parseTime(from)
	rv.EffectiveTo = parseNullTime(to)
	rv.CreatedBy = strOrEmpty(createdBy)
	rv.CreatedAt = parseTime(createdAt)
	return rv, nil
}

func (s *LoyaltyStore) ActiveRuleVersion(ctx context.Context) (loyalty.RuleVersion, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+ruleVersionCols+` FROM loyalty_rule_versions WHERE active = TRUE LIMIT 1`)
	rv, err := scanRuleVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return loyalty.RuleVersion{}, loyalty.ErrNoActiveRuleVersion
	}
	return rv, err
}

func (s *LoyaltyStore) GetRuleVersion(ctx context.Context, id string) (loyalty.RuleVersion, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+ruleVersionCols+` FROM loyalty_rule_versions WHERE id = ?`, id)
	rv, err := scanRuleVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return loyalty.RuleVersion{}, loyalty.ErrRuleVersionNotFound
	}
	return rv, err
}

func (s *LoyaltyStore) ListRuleVersions(ctx context.Context) ([]loyalty.RuleVersion, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+ruleVersionCols+` FROM loyalty_rule_versions ORDER BY version_number DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []loyalty.RuleVersion
	for rows.Next() {
		rv, err := scanRuleVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (s *LoyaltyStore) MaxRuleVersionNumber(ctx context.Context) (int, error) {
	var n sql.NullInt64
	err := s.q.QueryRowContext(ctx,
		`SELECT MAX(version_number) FROM loyalty_rule_versions`).Scan(&n)
	if err != nil {
		return 0, err
	}
	return int(n.Int64), nil
}

func (s *LoyaltyStore) InsertRuleVersion(ctx context.Context, rv loyalty.RuleVersion) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO loyalty_rule_versions (`+ruleVersionCols+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rv.ID, rv.VersionNumber, rv.PointsPerCurrency.String(), rv.RedemptionRate.String(),
		rv.MaxRedemptionPercent.String(), rv.MinRedemptionPoints, rv.AllowTierDowngrade,
		string(rv.EvaluationBasis), rv.Active, fmtTime(rv.EffectiveFrom),
		fmtNullTime(rv.EffectiveTo), nullStr(rv.CreatedBy), fmtTime(rv.CreatedAt))
	return err
}

func (s *LoyaltyStore) UpdateRuleVersion(ctx context.Context, rv loyalty.RuleVersion) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE loyalty_rule_versions
		 SET active = ?, effective_from = ?, effective_to = ?
		 WHERE id = ?`,
		rv.Active, fmtTime(rv.EffectiveFrom), fmtNullTime(rv.EffectiveTo), rv.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return loyalty.ErrRuleVersionNotFound
	}
	return nil
}

// =============================================================================
// TIERS
// =============================================================================

const tierCols = `id, code, name, display_order, min_points, min_spend, multiplier, active`

func scanTier(row interface{ Scan(...any) error }) (loyalty.Tier, error) {
	var t loyalty.Tier
	var minSpend, mult string
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.DisplayOrder,
		&t.MinPoints, &minSpend, &mult, &t.Active)
	if err != nil {
		return loyalty.Tier{}, err
	}
	t.MinSpend = parseDecimal(minSpend)
	t.Multiplier = parseDecimal(mult)
	return t, nil
}

func (s *LoyaltyStore) ListActiveTiers(ctx context.Context) ([]loyalty.Tier, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+tierCols+` FROM loyalty_tiers WHERE active = TRUE ORDER BY display_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []loyalty.Tier
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *LoyaltyStore) GetTier(ctx context.Context, id string) (loyalty.Tier, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+tierCols+` FROM loyalty_tiers WHERE id = ?`, id)
	t, err := scanTier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return loyalty.Tier{}, loyalty.ErrTierNotFound
	}
	return t, err
}

func (s *LoyaltyStore) GetTierByCode(ctx context.Context, code string) (loyalty.Tier, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+tierCols+` FROM loyalty_tiers WHERE code = ?`, code)
	t, err := scanTier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return loyalty.Tier{}, loyalty.ErrTierNotFound
	}
	return t, err
}

func (s *LoyaltyStore) InsertTier(ctx context.Context, t loyalty.Tier) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO loyalty_tiers (`+tierCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Code, t.Name, t.DisplayOrder, t.MinPoints,
		t.MinSpend.String(), t.Multiplier.String(), t.Active)
	return err
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (s *LoyaltyStore) GetAccount(ctx context.Context, customerID loyalty.CustomerID) (loyalty.Account, error) {
	var a loyalty.Account
	var tierID sql.NullString
	var spend, createdAt string
	var tierUpdated sql.NullString

	err := s.q.QueryRowContext(ctx,
		`SELECT customer_id, tier_id, balance, lifetime_earned, lifetime_redeemed,
		        lifetime_spend, tier_updated_at, created_at
		 FROM loyalty_accounts WHERE customer_id = ?`, string(customerID)).
		Scan(&a.CustomerID, &tierID, &a.Balance, &a.LifetimeEarned,
			&a.LifetimeRedeemed, &spend, &tierUpdated, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return loyalty.Account{}, loyalty.ErrAccountNotFound
	}
	if err != nil {
		return loyalty.Account{}, err
	}

	a.TierID = strOrEmpty(tierID)
	a.LifetimeSpend = parseDecimal(spend)
	if t := parseNullTime(tierUpdated); t != nil {
		a.TierUpdatedAt = *t
	}
	a.CreatedAt = parseTime(createdAt)
	return a, nil
}

func (s *LoyaltyStore) SaveAccount(ctx context.Context, a loyalty.Account) error {
	var tierUpdated any
	if !a.TierUpdatedAt.IsZero() {
		tierUpdated = fmtTime(a.TierUpdatedAt)
	}
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO loyalty_accounts (customer_id, tier_id, balance, lifetime_earned,
		        lifetime_redeemed, lifetime_spend, tier_updated_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(customer_id) DO UPDATE SET
		        tier_id = excluded.tier_id,
		        balance = excluded.balance,
		        lifetime_earned = excluded.lifetime_earned,
		        lifetime_redeemed = excluded.lifetime_redeemed,
		        lifetime_spend = excluded.lifetime_spend,
		        tier_updated_at = excluded.tier_updated_at`,
		string(a.CustomerID), nullStr(a.TierID), a.Balance, a.LifetimeEarned,
		a.LifetimeRedeemed, a.LifetimeSpend.String(), tierUpdated, fmtTime(a.CreatedAt))
	return err
}

// =============================================================================
// POINTS LEDGER (append-only)
// =============================================================================

const pointTxCols = `id, customer_id, tx_type, delta, balance_after,
	order_type, order_id, rule_version_id, reversed_tx_id, reason, actor_id, created_at`

func scanPointTx(row interface{ Scan(...any) error }) (loyalty.PointTransaction, error) {
	var tx loyalty.PointTransaction
	var orderType, orderID, ruleVersionID, reversedTxID, reason, actorID sql.NullString
	var createdAt string

	err := row.Scan(&tx.ID, &tx.CustomerID, &tx.Type, &tx.Delta, &tx.BalanceAfter,
		&orderType, &orderID, &ruleVersionID, &reversedTxID, &reason, &actorID, &createdAt)
	if err != nil {
		return loyalty.PointTransaction{}, err
	}

	tx.OrderRef = loyalty.OrderRef{Type: strOrEmpty(orderType), ID: strOrEmpty(orderID)}
	tx.RuleVersionID = strOrEmpty(ruleVersionID)
	tx.ReversedTxID = loyalty.TransactionID(strOrEmpty(reversedTxID))
	tx.Reason = strOrEmpty(reason)
	tx.ActorID = strOrEmpty(actorID)
	tx.CreatedAt = parseTime(createdAt)
	return tx, nil
}

func (s *LoyaltyStore) AppendTransaction(ctx context.Context, tx loyalty.PointTransaction) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO loyalty_point_transactions (`+pointTxCols+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(tx.ID), string(tx.CustomerID), string(tx.Type), tx.Delta, tx.BalanceAfter,
		nullStr(tx.OrderRef.Type), nullStr(tx.OrderRef.ID), nullStr(tx.RuleVersionID),
		nullStr(string(tx.ReversedTxID)), nullStr(tx.Reason), nullStr(tx.ActorID),
		fmtTime(tx.CreatedAt))
	return err
}

func (s *LoyaltyStore) TransactionsByCustomer(ctx context.Context, customerID loyalty.CustomerID) ([]loyalty.PointTransaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+pointTxCols+` FROM loyalty_point_transactions
		 WHERE customer_id = ? ORDER BY created_at ASC, id ASC`, string(customerID))
}

func (s *LoyaltyStore) TransactionsByOrder(ctx context.Context, ref loyalty.OrderRef) ([]loyalty.PointTransaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+pointTxCols+` FROM loyalty_point_transactions
		 WHERE order_type = ? AND order_id = ? ORDER BY created_at ASC, id ASC`,
		ref.Type, ref.ID)
}

func (s *LoyaltyStore) queryTransactions(ctx context.Context, query string, args ...any) ([]loyalty.PointTransaction, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []loyalty.PointTransaction
	for rows.Next() {
		tx, err := scanPointTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// =============================================================================
// TIER HISTORY (append-only)
// =============================================================================

func (s *LoyaltyStore) AppendTierChange(ctx context.Context, tc loyalty.TierChange) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO loyalty_tier_history
		        (id, customer_id, old_tier_id, new_tier_id, reason, transaction_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tc.ID, string(tc.CustomerID), nullStr(tc.OldTierID), tc.NewTierID,
		string(tc.Reason), nullStr(string(tc.TransactionID)), fmtTime(tc.CreatedAt))
	return err
}

func (s *LoyaltyStore) TierChanges(ctx context.Context, customerID loyalty.CustomerID) ([]loyalty.TierChange, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, customer_id, old_tier_id, new_tier_id, reason, transaction_id, created_at
		 FROM loyalty_tier_history
		 WHERE customer_id = ? ORDER BY created_at ASC, id ASC`, string(customerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []loyalty.TierChange
	for rows.Next() {
		var tc loyalty.TierChange
		var oldTier, txID sql.NullString
		var createdAt string
		if err := rows.Scan(&tc.ID, &tc.CustomerID, &oldTier, &tc.NewTierID,
			&tc.Reason, &txID, &createdAt); err != nil {
			return nil, err
		}
		tc.OldTierID = strOrEmpty(oldTier)
		tc.TransactionID = loyalty.TransactionID(strOrEmpty(txID))
		tc.CreatedAt = parseTime(createdAt)
		out = append(out, tc)
	}
	return out, rows.Err()
}
