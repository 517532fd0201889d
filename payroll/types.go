/*
Package payroll provides the payroll calculation and workflow engine.

PURPOSE:
  This package contains the monthly payroll cycle: a pure calculator
  that turns a salary configuration and an attendance summary into a
  full earnings/deductions breakdown, and a workflow engine that moves
  periods and slips through a multi-stage approval process with
  disputes and audited adjustments.

KEY CONCEPTS IN THIS FILE (types.go):
  - SalaryConfig: Per-employee pay parameters (type, base, allowances, rates)
  - AttendanceSummary: Per-period hour/day totals from the attendance collaborator
  - Period: One calendar-month payroll cycle with workflow status
  - Slip: One employee's computed pay for one period
  - Adjustment: Immutable log of every manual net-pay change

DESIGN PRINCIPLES:
  1. Precision: All monetary values use decimal.Decimal
  2. Forward-only workflow: The only backward edge is dispute resolution
  3. Auditability: Adjustments snapshot previous and new net pay
  4. Partial-success generation: One bad employee never aborts the run

SEE ALSO:
  - calc.go: The pure calculator
  - workflow.go: State machine over periods and slips
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SALARY CONFIGURATION
// =============================================================================

type SalaryType string

const (
	SalaryMonthly SalaryType = "monthly"
	SalaryDaily   SalaryType = "daily"
	SalaryHourly  SalaryType = "hourly"
)

// AllowanceItem is a named extra allowance. Items are carried in the
// slip's detail but not summed into the numeric allowances total.
type AllowanceItem struct {
	Key    string
	Amount decimal.Decimal
}

// SalaryConfig holds one employee's pay parameters.
type SalaryConfig struct {
	EmployeeID string
	Type       SalaryType
	BaseSalary decimal.Decimal

	StandardWorkDays    decimal.Decimal // per month
	StandardHoursPerDay decimal.Decimal
	OvertimeMultiplier  decimal.Decimal

	LunchAllowance     decimal.Decimal
	TransportAllowance decimal.Decimal
	PhoneAllowance     decimal.Decimal
	OtherAllowances    []AllowanceItem

	// Statutory rates, applied to base salary.
	SocialInsuranceRate       decimal.Decimal
	HealthInsuranceRate       decimal.Decimal
	UnemploymentInsuranceRate decimal.Decimal

	Active bool
}

// =============================================================================
// ATTENDANCE SUMMARY - Supplied by the attendance collaborator
// =============================================================================

// AttendanceSummary is the per-employee per-period attendance rollup.
// Day counts are decimals because one-sided check-ins earn half days.
type AttendanceSummary struct {
	TotalDays       decimal.Decimal
	RegularDays     decimal.Decimal
	CheckInOnlyDays decimal.Decimal
	CheckOutOnlyDays decimal.Decimal
	PaidLeaveDays   decimal.Decimal
	UnpaidLeaveDays decimal.Decimal
	AbsentDays      decimal.Decimal

	TotalRegularHours  decimal.Decimal
	TotalOvertimeHours decimal.Decimal
}

// =============================================================================
// PAYROLL PERIOD - One calendar-month cycle
// =============================================================================

type PeriodStatus string

const (
	PeriodDraft     PeriodStatus = "draft"
	PeriodPublished PeriodStatus = "published"
	PeriodFinalized PeriodStatus = "finalized"
	PeriodPaid      PeriodStatus = "paid"
)

// Period is one payroll cycle. Year+Month are unique; status moves
// strictly forward through the workflow.
type Period struct {
	ID    string
	Year  int
	Month time.Month
	Code  string
	Name  string

	StartDate            time.Time
	EndDate              time.Time
	ConfirmationDeadline time.Time

	Status PeriodStatus
	Notes  string

	CreatedBy   string
	CreatedAt   time.Time
	PublishedBy string
	PublishedAt *time.Time
	FinalizedBy string
	FinalizedAt *time.Time
	PaidBy      string
	PaidAt      *time.Time

	FinalizeOverrideReason string
	PaymentMethod          string
	PaymentReference       string
}

// =============================================================================
// BREAKDOWN - Calculator output
// =============================================================================

// Breakdown is the full earnings/deductions decomposition of one
// employee's pay. NetPay excludes post-generation adjustments, which
// are accumulated on the slip.
type Breakdown struct {
	WorkDays      decimal.Decimal
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal

	PaidLeaveDays   decimal.Decimal
	UnpaidLeaveDays decimal.Decimal
	AbsentDays      decimal.Decimal

	BaseEarnings     decimal.Decimal
	OvertimeEarnings decimal.Decimal
	AllowancesAmount decimal.Decimal
	AllowanceDetails []AllowanceItem
	GrossPay         decimal.Decimal

	SocialInsurance       decimal.Decimal
	HealthInsurance       decimal.Decimal
	UnemploymentInsurance decimal.Decimal
	AbsenceDeduction      decimal.Decimal
	TotalDeductions       decimal.Decimal

	NetPay decimal.Decimal
}

// =============================================================================
// PAYROLL SLIP
// =============================================================================

type SlipStatus string

const (
	SlipDraft     SlipStatus = "draft"
	SlipPublished SlipStatus = "published"
	SlipConfirmed SlipStatus = "confirmed"
	SlipDisputed  SlipStatus = "disputed"
	SlipFinalized SlipStatus = "finalized"
	SlipPaid      SlipStatus = "paid"
)

// Slip is one employee's pay for one period, keyed by the unique pair
// (PeriodID, EmployeeID). Invariant:
//
//	NetPay = GrossPay - TotalDeductions + AdjustmentAmount
type Slip struct {
	ID         string
	PeriodID   string
	EmployeeID string

	Breakdown

	// Cumulative signed total of all manual adjustments.
	AdjustmentAmount decimal.Decimal

	Status SlipStatus

	ConfirmedAt   *time.Time
	ConfirmedLate bool
	DisputedAt    *time.Time
	DisputeReason string
	ResolvedAt    *time.Time
	Resolution    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// ADJUSTMENT - Immutable net-pay change log
// =============================================================================

type AdjustmentType string

const (
	AdjustmentBonus      AdjustmentType = "bonus"
	AdjustmentDeduction  AdjustmentType = "deduction"
	AdjustmentCorrection AdjustmentType = "correction"
)

// Adjustment records a single manual change to a slip's net pay.
// Append-only; deduction amounts are stored as negative deltas.
type Adjustment struct {
	ID     string
	SlipID string
	Type   AdjustmentType
	Amount decimal.Decimal // signed
	Reason string

	PreviousNetPay decimal.Decimal
	NewNetPay      decimal.Decimal

	ActorID   string
	CreatedAt time.Time
}
