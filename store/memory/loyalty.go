// Package memory provides in-memory Store implementations for testing
// and development. WithTx is simulated with a snapshot + rollback on
// error, mirroring the all-or-nothing semantics of the SQLite store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/motoshop/erp-engine/loyalty"
)

// =============================================================================
// LOYALTY MEMORY STORE
// =============================================================================

type LoyaltyStore struct {
	mu sync.RWMutex

	ruleVersions map[string]loyalty.RuleVersion
	tiers        map[string]loyalty.Tier
	accounts     map[loyalty.CustomerID]loyalty.Account
	transactions []loyalty.PointTransaction
	tierChanges  []loyalty.TierChange
}

func NewLoyalty() *LoyaltyStore {
	return &LoyaltyStore{
		ruleVersions: make(map[string]loyalty.RuleVersion),
		tiers:        make(map[string]loyalty.Tier),
		accounts:     make(map[loyalty.CustomerID]loyalty.Account),
	}
}

// Compile-time check.
var _ loyalty.TxStore = (*LoyaltyStore)(nil)

// -----------------------------------------------------------------------------
// Rule versions
// -----------------------------------------------------------------------------

func (m *LoyaltyStore) ActiveRuleVersion(_ context.Context) (loyalty.RuleVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeRuleVersionLocked()
}

func (m *LoyaltyStore) activeRuleVersionLocked() (loyalty.RuleVersion, error) {
	for _, rv := range m.ruleVersions {
		if rv.Active {
			return rv, nil
		}
	}
	return loyalty.RuleVersion{}, loyalty.ErrNoActiveRuleVersion
}

func (m *LoyaltyStore) GetRuleVersion(_ context.Context, id string) (loyalty.RuleVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getRuleVersionLocked(id)
}

func (m *LoyaltyStore) getRuleVersionLocked(id string) (loyalty.RuleVersion, error) {
	rv, ok := m.ruleVersions[id]
	if !ok {
		return loyalty.RuleVersion{}, loyalty.ErrRuleVersionNotFound
	}
	return rv, nil
}

func (m *LoyaltyStore) ListRuleVersions(_ context.Context) ([]loyalty.RuleVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listRuleVersionsLocked()
}

func (m *LoyaltyStore) listRuleVersionsLocked() ([]loyalty.RuleVersion, error) {
	out := make([]loyalty.RuleVersion, 0, len(m.ruleVersions))
	for _, rv := range m.ruleVersions {
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func (m *LoyaltyStore) MaxRuleVersionNumber(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxRuleVersionNumberLocked()
}

func (m *LoyaltyStore) maxRuleVersionNumberLocked() (int, error) {
	max := 0
	for _, rv := range m.ruleVersions {
		if rv.VersionNumber > max {
			max = rv.VersionNumber
		}
	}
	return max, nil
}

func (m *LoyaltyStore) InsertRuleVersion(_ context.Context, rv loyalty.RuleVersion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ruleVersions[rv.ID] = rv
	return nil
}

func (m *LoyaltyStore) UpdateRuleVersion(_ context.Context, rv loyalty.RuleVersion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateRuleVersionLocked(rv)
}

func (m *LoyaltyStore) updateRuleVersionLocked(rv loyalty.RuleVersion) error {
	if _, ok := m.ruleVersions[rv.ID]; !ok {
		return loyalty.ErrRuleVersionNotFound
	}
	m.ruleVersions[rv.ID] = rv
	return nil
}

// -----------------------------------------------------------------------------
// Tiers
// -----------------------------------------------------------------------------

func (m *LoyaltyStore) ListActiveTiers(_ context.Context) ([]loyalty.Tier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listActiveTiersLocked()
}

func (m *LoyaltyStore) listActiveTiersLocked() ([]loyalty.Tier, error) {
	out := make([]loyalty.Tier, 0, len(m.tiers))
	for _, t := range m.tiers {
		if t.Active {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *LoyaltyStore) GetTier(_ context.Context, id string) (loyalty.Tier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getTierLocked(id)
}

func (m *LoyaltyStore) getTierLocked(id string) (loyalty.Tier, error) {
	t, ok := m.tiers[id]
	if !ok {
		return loyalty.Tier{}, loyalty.ErrTierNotFound
	}
	return t, nil
}

func (m *LoyaltyStore) GetTierByCode(_ context.Context, code string) (loyalty.Tier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getTierByCodeLocked(code)
}

func (m *LoyaltyStore) getTierByCodeLocked(code string) (loyalty.Tier, error) {
	for _, t := range m.tiers {
		if t.Code == code {
			return t, nil
		}
	}
	return loyalty.Tier{}, loyalty.ErrTierNotFound
}

func (m *LoyaltyStore) InsertTier(_ context.Context, t loyalty.Tier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertTierLocked(t)
}

func (m *LoyaltyStore) insertTierLocked(t loyalty.Tier) error {
	for _, existing := range m.tiers {
		if existing.Code == t.Code {
			return loyalty.ErrDuplicateTierCode
		}
	}
	m.tiers[t.ID] = t
	return nil
}

// -----------------------------------------------------------------------------
// Accounts
// -----------------------------------------------------------------------------

func (m *LoyaltyStore) GetAccount(_ context.Context, customerID loyalty.CustomerID) (loyalty.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getAccountLocked(customerID)
}

func (m *LoyaltyStore) getAccountLocked(customerID loyalty.CustomerID) (loyalty.Account, error) {
	a, ok := m.accounts[customerID]
	if !ok {
		return loyalty.Account{}, loyalty.ErrAccountNotFound
	}
	return a, nil
}

func (m *LoyaltyStore) SaveAccount(_ context.Context, a loyalty.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.CustomerID] = a
	return nil
}

// -----------------------------------------------------------------------------
// Ledger (append-only)
// -----------------------------------------------------------------------------

func (m *LoyaltyStore) AppendTransaction(_ context.Context, tx loyalty.PointTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, tx)
	return nil
}

func (m *LoyaltyStore) TransactionsByCustomer(_ context.Context, customerID loyalty.CustomerID) ([]loyalty.PointTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transactionsByCustomerLocked(customerID)
}

func (m *LoyaltyStore) transactionsByCustomerLocked(customerID loyalty.CustomerID) ([]loyalty.PointTransaction, error) {
	var out []loyalty.PointTransaction
	for _, tx := range m.transactions {
		if tx.CustomerID == customerID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *LoyaltyStore) TransactionsByOrder(_ context.Context, ref loyalty.OrderRef) ([]loyalty.PointTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transactionsByOrderLocked(ref)
}

func (m *LoyaltyStore) transactionsByOrderLocked(ref loyalty.OrderRef) ([]loyalty.PointTransaction, error) {
	var out []loyalty.PointTransaction
	for _, tx := range m.transactions {
		if tx.OrderRef == ref {
			out = append(out, tx)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Tier history (append-only)
// -----------------------------------------------------------------------------

func (m *LoyaltyStore) AppendTierChange(_ context.Context, tc loyalty.TierChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tierChanges = append(m.tierChanges, tc)
	return nil
}

func (m *LoyaltyStore) TierChanges(_ context.Context, customerID loyalty.CustomerID) ([]loyalty.TierChange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []loyalty.TierChange
	for _, tc := range m.tierChanges {
		if tc.CustomerID == customerID {
			out = append(out, tc)
		}
	}
	return out, nil
}

// =============================================================================
// TRANSACTIONS - Snapshot + rollback on error
// =============================================================================

// WithTx executes fn against a transactional view. The whole store is
// snapshotted first and restored if fn fails.
func (m *LoyaltyStore) WithTx(_ context.Context, fn func(loyalty.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshotLocked()
	if err := fn(&loyaltyTxView{parent: m}); err != nil {
		m.restoreLocked(snapshot)
		return err
	}
	return nil
}

type loyaltySnapshot struct {
	ruleVersions map[string]loyalty.RuleVersion
	tiers        map[string]loyalty.Tier
	accounts     map[loyalty.CustomerID]loyalty.Account
	transactions []loyalty.PointTransaction
	tierChanges  []loyalty.TierChange
}

func (m *LoyaltyStore) snapshotLocked() loyaltySnapshot {
	s := loyaltySnapshot{
		ruleVersions: make(map[string]loyalty.RuleVersion, len(m.ruleVersions)),
		tiers:        make(map[string]loyalty.Tier, len(m.tiers)),
		accounts:     make(map[loyalty.CustomerID]loyalty.Account, len(m.accounts)),
		transactions: append([]loyalty.PointTransaction{}, m.transactions...),
		tierChanges:  append([]loyalty.TierChange{}, m.tierChanges...),
	}
	for k, v := range m.ruleVersions {
		s.ruleVersions[k] = v
	}
	for k, v := range m.tiers {
		s.tiers[k] = v
	}
	for k, v := range m.accounts {
		s.accounts[k] = v
	}
	return s
}

func (m *LoyaltyStore) restoreLocked(s loyaltySnapshot) {
	m.ruleVersions = s.ruleVersions
	m.tiers = s.tiers
	m.accounts = s.accounts
	m.transactions = s.transactions
	m.tierChanges = s.tierChanges
}

// loyaltyTxView runs against the already-locked parent.
type loyaltyTxView struct {
	parent *LoyaltyStore
}

func (v *loyaltyTxView) ActiveRuleVersion(context.Context) (loyalty.RuleVersion, error) {
	return v.parent.activeRuleVersionLocked()
}
func (v *loyaltyTxView) GetRuleVersion(_ context.Context, id string) (loyalty.RuleVersion, error) {
	return v.parent.getRuleVersionLocked(id)
}
func (v *loyaltyTxView) ListRuleVersions(context.Context) ([]loyalty.RuleVersion, error) {
	return v.parent.listRuleVersionsLocked()
}
func (v *loyaltyTxView) MaxRuleVersionNumber(context.Context) (int, error) {
	return v.parent.maxRuleVersionNumberLocked()
}
func (v *loyaltyTxView) InsertRuleVersion(_ context.Context, rv loyalty.RuleVersion) error {
	v.parent.ruleVersions[rv.ID] = rv
	return nil
}
func (v *loyaltyTxView) UpdateRuleVersion(_ context.Context, rv loyalty.RuleVersion) error {
	return v.parent.updateRuleVersionLocked(rv)
}
func (v *loyaltyTxView) ListActiveTiers(context.Context) ([]loyalty.Tier, error) {
	return v.parent.listActiveTiersLocked()
}
func (v *loyaltyTxView) GetTier(_ context.Context, id string) (loyalty.Tier, error) {
	return v.parent.getTierLocked(id)
}
func (v *loyaltyTxView) GetTierByCode(_ context.Context, code string) (loyalty.Tier, error) {
	return v.parent.getTierByCodeLocked(code)
}
func (v *loyaltyTxView) InsertTier(_ context.Context, t loyalty.Tier) error {
	return v.parent.insertTierLocked(t)
}
func (v *loyaltyTxView) GetAccount(_ context.Context, id loyalty.CustomerID) (loyalty.Account, error) {
	return v.parent.getAccountLocked(id)
}
func (v *loyaltyTxView) SaveAccount(_ context.Context, a loyalty.Account) error {
	v.parent.accounts[a.CustomerID] = a
	return nil
}
func (v *loyaltyTxView) AppendTransaction(_ context.Context, tx loyalty.PointTransaction) error {
	v.parent.transactions = append(v.parent.transactions, tx)
	return nil
}
func (v *loyaltyTxView) TransactionsByCustomer(_ context.Context, id loyalty.CustomerID) ([]loyalty.PointTransaction, error) {
	return v.parent.transactionsByCustomerLocked(id)
}
func (v *loyaltyTxView) TransactionsByOrder(_ context.Context, ref loyalty.OrderRef) ([]loyalty.PointTransaction, error) {
	return v.parent.transactionsByOrderLocked(ref)
}
func (v *loyaltyTxView) AppendTierChange(_ context.Context, tc loyalty.TierChange) error {
	v.parent.tierChanges = append(v.parent.tierChanges, tc)
	return nil
}
func (v *loyaltyTxView) TierChanges(_ context.Context, id loyalty.CustomerID) ([]loyalty.TierChange, error) {
	var out []loyalty.TierChange
	for _, tc := range v.parent.tierChanges {
		if tc.CustomerID == id {
			out = append(out, tc)
		}
	}
	return out, nil
}
