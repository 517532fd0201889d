/*
store.go - Persistence interface for the payroll engine

PURPOSE:
  Defines the interface between payroll domain logic and the database.
  Slips and attendance summaries are upserted keyed by the composite
  unique pair (period, employee); adjustments are append-only.

ATOMICITY:
  Workflow transitions that touch a period together with its slips
  (publish, finalize, pay) run inside WithTx. Generation deliberately
  does NOT use one enclosing transaction: it is a best-effort
  per-employee loop with collected failures.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - store/memory: In-memory for testing

SEE ALSO:
  - workflow.go: Uses this interface
  - calc.go: Pure; never touches the store
*/
package payroll

import (
	"context"
	"time"
)

// =============================================================================
// STORE - Persistence for periods, configs, slips, adjustments, attendance
// =============================================================================

type Store interface {
	// Periods. FindPeriodByMonth enforces the year+month uniqueness check.
	InsertPeriod(ctx context.Context, p Period) error
	GetPeriod(ctx context.Context, id string) (Period, error)
	FindPeriodByMonth(ctx context.Context, year int, month time.Month) (Period, error)
	UpdatePeriod(ctx context.Context, p Period) error
	ListPeriods(ctx context.Context) ([]Period, error)

	// Salary configs, upserted keyed by employee id.
	UpsertSalaryConfig(ctx context.Context, cfg SalaryConfig) error
	GetSalaryConfig(ctx context.Context, employeeID string) (SalaryConfig, error)
	ListActiveSalaryConfigs(ctx context.Context) ([]SalaryConfig, error)

	// Slips, upserted keyed by (period, employee).
	UpsertSlip(ctx context.Context, s Slip) error
	GetSlip(ctx context.Context, id string) (Slip, error)
	FindSlip(ctx context.Context, periodID, employeeID string) (Slip, error)
	SlipsByPeriod(ctx context.Context, periodID string) ([]Slip, error)
	UpdateSlip(ctx context.Context, s Slip) error

	// Adjustments (append-only).
	AppendAdjustment(ctx context.Context, a Adjustment) error
	AdjustmentsBySlip(ctx context.Context, slipID string) ([]Adjustment, error)

	// Attendance summaries, upserted keyed by (period, employee).
	UpsertAttendance(ctx context.Context, periodID, employeeID string, att AttendanceSummary) error
	GetAttendance(ctx context.Context, periodID, employeeID string) (AttendanceSummary, error)
}

// TxStore wraps Store with transaction support.
// If fn returns an error, the transaction is rolled back.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}

// =============================================================================
// ATTENDANCE COLLABORATOR
// =============================================================================

// AttendanceSource supplies per-employee per-period attendance rollups.
// The default implementation reads upserted summaries from the store;
// deployments with their own attendance system plug in here.
type AttendanceSource interface {
	AttendanceSummary(ctx context.Context, periodID, employeeID string) (AttendanceSummary, error)
}

// StoreAttendance adapts a Store into an AttendanceSource.
type StoreAttendance struct {
	Store Store
}

func (a StoreAttendance) AttendanceSummary(ctx context.Context, periodID, employeeID string) (AttendanceSummary, error) {
	return a.Store.GetAttendance(ctx, periodID, employeeID)
}
