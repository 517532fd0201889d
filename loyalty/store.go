/*
store.go - Persistence interface for the loyalty engine

PURPOSE:
  Defines the interface between loyalty domain logic and the database.
  Different implementations can use SQLite or in-memory storage.

APPEND-ONLY CONTRACT:
  The ledger and tier-history methods are append-only:
  - AppendTransaction / AppendTierChange are the ONLY write operations
  - No update or delete methods exist for those tables
  - Corrections are made via reversal transactions

ATOMICITY:
  Every engine operation that performs multiple related writes (ledger
  row + account update + tier history) runs inside WithTx so a crash
  between writes cannot leave the balance inconsistent with the ledger.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - store/memory: In-memory for testing

SEE ALSO:
  - engine.go: Uses this interface inside WithTx
  - store/sqlite/loyalty.go: Concrete implementation
*/
package loyalty

import "context"

// =============================================================================
// STORE - Persistence for rule versions, tiers, accounts, and the ledger
// =============================================================================

type Store interface {
	// Rule versions. InsertRuleVersion fails if the version number
	// already exists; UpdateRuleVersion is used only to stamp
	// active/effective fields during activation.
	ActiveRuleVersion(ctx context.Context) (RuleVersion, error)
	GetRuleVersion(ctx context.Context, id string) (RuleVersion, error)
	ListRuleVersions(ctx context.Context) ([]RuleVersion, error)
	MaxRuleVersionNumber(ctx context.Context) (int, error)
	InsertRuleVersion(ctx context.Context, rv RuleVersion) error
	UpdateRuleVersion(ctx context.Context, rv RuleVersion) error

	// Tiers, ordered by display order ascending.
	ListActiveTiers(ctx context.Context) ([]Tier, error)
	GetTier(ctx context.Context, id string) (Tier, error)
	GetTierByCode(ctx context.Context, code string) (Tier, error)
	InsertTier(ctx context.Context, t Tier) error

	// Accounts. SaveAccount upserts keyed by customer id.
	GetAccount(ctx context.Context, customerID CustomerID) (Account, error)
	SaveAccount(ctx context.Context, a Account) error

	// Ledger (append-only).
	AppendTransaction(ctx context.Context, tx PointTransaction) error
	TransactionsByCustomer(ctx context.Context, customerID CustomerID) ([]PointTransaction, error)
	TransactionsByOrder(ctx context.Context, ref OrderRef) ([]PointTransaction, error)

	// Tier history (append-only).
	AppendTierChange(ctx context.Context, tc TierChange) error
	TierChanges(ctx context.Context, customerID CustomerID) ([]TierChange, error)
}

// =============================================================================
// TRANSACTIONAL STORE - Atomic multi-write operations
// =============================================================================

// TxStore wraps Store with transaction support.
// If fn returns an error, the transaction is rolled back.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}
