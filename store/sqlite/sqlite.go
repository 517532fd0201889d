/*
Package sqlite provides the SQLite-backed implementation of the
loyalty and payroll storage interfaces.

PURPOSE:
  One database file backs both engines. The same patterns apply to
  PostgreSQL in production - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE or DELETE statements touch loyalty_point_transactions,
    loyalty_tier_history, or payroll_adjustments
  - Corrections happen via reversal transactions and new adjustments

KEY TABLES:
  loyalty_rule_versions:       Versioned loyalty policy snapshots
  loyalty_tiers:               Tier definitions
  loyalty_accounts:            Per-customer balances (upsert by customer)
  loyalty_point_transactions:  Immutable points ledger
  loyalty_tier_history:        Append-only tier transitions
  payroll_periods:             Monthly payroll cycles
  payroll_salary_configs:      Per-employee pay parameters (upsert)
  payroll_slips:               Per-(period, employee) slips (upsert)
  payroll_adjustments:         Immutable net-pay change log
  payroll_attendance:          Per-(period, employee) summaries (upsert)

WAL MODE:
  Opened with WAL (Write-Ahead Logging): multiple readers don't block,
  single writer at a time, better crash recovery.

DECIMALS:
  Monetary values are stored as TEXT in decimal string form; points
  and counters as INTEGER. Binary floating point never touches money.

USAGE:
  db, err := sqlite.New("./data/shop.db")
  defer db.Close()
  loyaltyEngine := loyalty.NewEngine(db.Loyalty())
  payrollEngine := payroll.NewEngine(db.Payroll(), nil)

SEE ALSO:
  - loyalty.go: loyalty.TxStore implementation
  - payroll.go: payroll.TxStore implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// DB wraps the shared SQLite handle for both store facades.
type DB struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (or creates) the database and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error { return d.db.Close() }

// Loyalty returns the loyalty store facade.
func (d *DB) Loyalty() *LoyaltyStore { return &LoyaltyStore{base: d, q: d.db} }

// Payroll returns the payroll store facade.
func (d *DB) Payroll() *PayrollStore { return &PayrollStore{base: d, q: d.db} }

// migrate creates the database schema.
func (d *DB) migrate() error {
	schema := `
	-- Loyalty rule versions (immutable once superseded)
	CREATE TABLE IF NOT EXISTS loyalty_rule_versions (
		id TEXT PRIMARY KEY,
		version_number INTEGER NOT NULL UNIQUE,
		points_per_currency TEXT NOT NULL,
		redemption_rate TEXT NOT NULL,
		max_redemption_percent TEXT NOT NULL,
		min_redemption_points INTEGER NOT NULL,
		allow_tier_downgrade BOOLEAN NOT NULL DEFAULT FALSE,
		evaluation_basis TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT FALSE,
		effective_from TEXT NOT NULL,
		effective_to TEXT,
		created_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rule_versions_active
		ON loyalty_rule_versions(active);

	-- Loyalty tiers
	CREATE TABLE IF NOT EXISTS loyalty_tiers (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		display_order INTEGER NOT NULL,
		min_points INTEGER NOT NULL,
		min_spend TEXT NOT NULL,
		multiplier TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	-- Customer loyalty accounts (upsert by customer)
	CREATE TABLE IF NOT EXISTS loyalty_accounts (
		customer_id TEXT PRIMARY KEY,
		tier_id TEXT,
		balance INTEGER NOT NULL DEFAULT 0,
		lifetime_earned INTEGER NOT NULL DEFAULT 0,
		lifetime_redeemed INTEGER NOT NULL DEFAULT 0,
		lifetime_spend TEXT NOT NULL DEFAULT '0',
		tier_updated_at TEXT,
		created_at TEXT NOT NULL
	);

	-- Points ledger (append-only)
	CREATE TABLE IF NOT EXISTS loyalty_point_transactions (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		delta INTEGER NOT NULL,
		balance_after INTEGER NOT NULL,
		order_type TEXT,
		order_id TEXT,
		rule_version_id TEXT,
		reversed_tx_id TEXT,
		reason TEXT,
		actor_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_point_tx_customer
		ON loyalty_point_transactions(customer_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_point_tx_order
		ON loyalty_point_transactions(order_type, order_id);

	-- Tier history (append-only)
	CREATE TABLE IF NOT EXISTS loyalty_tier_history (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		old_tier_id TEXT,
		new_tier_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		transaction_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tier_history_customer
		ON loyalty_tier_history(customer_id, created_at);

	-- Payroll periods (one per calendar month)
	CREATE TABLE IF NOT EXISTS payroll_periods (
		id TEXT PRIMARY KEY,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		confirmation_deadline TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT,
		created_by TEXT,
		created_at TEXT NOT NULL,
		published_by TEXT,
		published_at TEXT,
		finalized_by TEXT,
		finalized_at TEXT,
		paid_by TEXT,
		paid_at TEXT,
		finalize_override_reason TEXT,
		payment_method TEXT,
		payment_reference TEXT,
		UNIQUE(year, month)
	);

	-- Salary configs (upsert by employee)
	CREATE TABLE IF NOT EXISTS payroll_salary_configs (
		employee_id TEXT PRIMARY KEY,
		salary_type TEXT NOT NULL,
		base_salary TEXT NOT NULL,
		standard_work_days TEXT NOT NULL,
		standard_hours_per_day TEXT NOT NULL,
		overtime_multiplier TEXT NOT NULL,
		lunch_allowance TEXT NOT NULL DEFAULT '0',
		transport_allowance TEXT NOT NULL DEFAULT '0',
		phone_allowance TEXT NOT NULL DEFAULT '0',
		other_allowances_json TEXT,
		social_insurance_rate TEXT NOT NULL DEFAULT '0',
		health_insurance_rate TEXT NOT NULL DEFAULT '0',
		unemployment_insurance_rate TEXT NOT NULL DEFAULT '0',
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	-- Slips (upsert keyed by period+employee)
	CREATE TABLE IF NOT EXISTS payroll_slips (
		id TEXT PRIMARY KEY,
		period_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		work_days TEXT NOT NULL,
		regular_hours TEXT NOT NULL,
		overtime_hours TEXT NOT NULL,
		paid_leave_days TEXT NOT NULL,
		unpaid_leave_days TEXT NOT NULL,
		absent_days TEXT NOT NULL,
		base_earnings TEXT NOT NULL,
		overtime_earnings TEXT NOT NULL,
		allowances_amount TEXT NOT NULL,
		allowance_details_json TEXT,
		gross_pay TEXT NOT NULL,
		social_insurance TEXT NOT NULL,
		health_insurance TEXT NOT NULL,
		unemployment_insurance TEXT NOT NULL,
		absence_deduction TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		adjustment_amount TEXT NOT NULL DEFAULT '0',
		net_pay TEXT NOT NULL,
		status TEXT NOT NULL,
		confirmed_at TEXT,
		confirmed_late BOOLEAN NOT NULL DEFAULT FALSE,
		disputed_at TEXT,
		dispute_reason TEXT,
		resolved_at TEXT,
		resolution TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(period_id, employee_id)
	);

	CREATE INDEX IF NOT EXISTS idx_slips_period
		ON payroll_slips(period_id);

	-- Adjustments (append-only)
	CREATE TABLE IF NOT EXISTS payroll_adjustments (
		id TEXT PRIMARY KEY,
		slip_id TEXT NOT NULL,
		adjustment_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		reason TEXT NOT NULL,
		previous_net_pay TEXT NOT NULL,
		new_net_pay TEXT NOT NULL,
		actor_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_adjustments_slip
		ON payroll_adjustments(slip_id, created_at);

	-- Attendance summaries (upsert keyed by period+employee)
	CREATE TABLE IF NOT EXISTS payroll_attendance (
		period_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		total_days TEXT NOT NULL DEFAULT '0',
		regular_days TEXT NOT NULL DEFAULT '0',
		check_in_only_days TEXT NOT NULL DEFAULT '0',
		check_out_only_days TEXT NOT NULL DEFAULT '0',
		paid_leave_days TEXT NOT NULL DEFAULT '0',
		unpaid_leave_days TEXT NOT NULL DEFAULT '0',
		absent_days TEXT NOT NULL DEFAULT '0',
		total_regular_hours TEXT NOT NULL DEFAULT '0',
		total_overtime_hours TEXT NOT NULL DEFAULT '0',
		PRIMARY KEY (period_id, employee_id)
	);
	`

	_, err := d.db.Exec(schema)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func fmtNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func strOrEmpty(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}
