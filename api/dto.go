/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY AND POINTS:
  Monetary fields use decimal.Decimal, which marshals as a quoted
  decimal string ("250000.00"); points are plain integers. Clients may
  send amounts as JSON numbers or strings, both unmarshal.

VALIDATION:
  Validation is done in the domain engines, not in DTOs. DTOs are pure
  data carriers; handlers only check for structurally unusable input.

SEE ALSO:
  - handlers.go: Uses these types
  - loyalty/engine.go, payroll/workflow.go: The domain types behind them
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/motoshop/erp-engine/loyalty"
	"github.com/motoshop/erp-engine/payroll"
)

// =============================================================================
// LOYALTY REQUEST/RESPONSE TYPES
// =============================================================================

// EarnRequest accrues points for an order amount.
type EarnRequest struct {
	CustomerID string          `json:"customer_id"`
	OrderType  string          `json:"order_type"`
	OrderID    string          `json:"order_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// EarnResponse reports the accrual outcome.
type EarnResponse struct {
	PointsEarned  int64           `json:"points_earned"`
	Balance       int64           `json:"balance"`
	Multiplier    decimal.Decimal `json:"multiplier"`
	TransactionID string          `json:"transaction_id,omitempty"`
	TierUpgraded  bool            `json:"tier_upgraded"`
	NewTierName   string          `json:"new_tier_name,omitempty"`
}

// RedemptionQuoteRequest asks what a customer could redeem on an order.
type RedemptionQuoteRequest struct {
	CustomerID      string          `json:"customer_id"`
	OrderAmount     decimal.Decimal `json:"order_amount"`
	RequestedPoints int64           `json:"requested_points,omitempty"`
}

// RedemptionQuoteDTO mirrors loyalty.RedemptionQuote.
type RedemptionQuoteDTO struct {
	AvailablePoints     int64           `json:"available_points"`
	MaxRedeemablePoints int64           `json:"max_redeemable_points"`
	MaxDiscount         decimal.Decimal `json:"max_discount"`
	MinRedemptionPoints int64           `json:"min_redemption_points"`
	RedemptionRate      decimal.Decimal `json:"redemption_rate"`
	TierName            string          `json:"tier_name,omitempty"`
	TierMultiplier      decimal.Decimal `json:"tier_multiplier"`

	RequestedPoints  int64           `json:"requested_points,omitempty"`
	RequestedAllowed bool            `json:"requested_allowed,omitempty"`
	RequestedValue   decimal.Decimal `json:"requested_value,omitempty"`
}

// RedeemRequest spends points against an order.
type RedeemRequest struct {
	CustomerID string `json:"customer_id"`
	Points     int64  `json:"points"`
	OrderType  string `json:"order_type"`
	OrderID    string `json:"order_id"`
}

// RedeemResponse reports the redemption outcome.
type RedeemResponse struct {
	PointsRedeemed int64           `json:"points_redeemed"`
	Discount       decimal.Decimal `json:"discount"`
	Balance        int64           `json:"balance"`
	TransactionID  string          `json:"transaction_id"`
}

// ReverseRequest undoes all points activity for an order.
type ReverseRequest struct {
	CustomerID string `json:"customer_id"`
	OrderType  string `json:"order_type"`
	OrderID    string `json:"order_id"`
}

// ReverseResponse reports how many ledger rows were mirrored.
type ReverseResponse struct {
	ReversedCount int   `json:"reversed_count"`
	PointsDelta   int64 `json:"points_delta"`
	Balance       int64 `json:"balance"`
}

// AdjustPointsRequest applies a signed manual correction.
type AdjustPointsRequest struct {
	CustomerID string `json:"customer_id"`
	Points     int64  `json:"points"`
	Reason     string `json:"reason"`
}

// AdjustPointsResponse reports the adjustment outcome.
type AdjustPointsResponse struct {
	Balance       int64  `json:"balance"`
	TransactionID string `json:"transaction_id"`
	TierUpgraded  bool   `json:"tier_upgraded"`
	NewTierName   string `json:"new_tier_name,omitempty"`
}

// AccountDTO represents a customer's loyalty account.
type AccountDTO struct {
	CustomerID       string          `json:"customer_id"`
	TierID           string          `json:"tier_id,omitempty"`
	Balance          int64           `json:"balance"`
	LifetimeEarned   int64           `json:"lifetime_earned"`
	LifetimeRedeemed int64           `json:"lifetime_redeemed"`
	LifetimeSpend    decimal.Decimal `json:"lifetime_spend"`
	TierUpdatedAt    string          `json:"tier_updated_at,omitempty"`
	CreatedAt        string          `json:"created_at,omitempty"`
}

// PointTransactionDTO represents one ledger row.
type PointTransactionDTO struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customer_id"`
	Type          string `json:"type"`
	Delta         int64  `json:"delta"`
	BalanceAfter  int64  `json:"balance_after"`
	OrderType     string `json:"order_type,omitempty"`
	OrderID       string `json:"order_id,omitempty"`
	RuleVersionID string `json:"rule_version_id,omitempty"`
	ReversedTxID  string `json:"reversed_tx_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
	ActorID       string `json:"actor_id,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// TierChangeDTO represents one tier transition.
type TierChangeDTO struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customer_id"`
	OldTierID     string `json:"old_tier_id,omitempty"`
	NewTierID     string `json:"new_tier_id"`
	Reason        string `json:"reason"`
	TransactionID string `json:"transaction_id,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// RuleVersionDTO represents a loyalty rule version.
type RuleVersionDTO struct {
	ID                   string          `json:"id"`
	VersionNumber        int             `json:"version_number"`
	PointsPerCurrency    decimal.Decimal `json:"points_per_currency"`
	RedemptionRate       decimal.Decimal `json:"redemption_rate"`
	MaxRedemptionPercent decimal.Decimal `json:"max_redemption_percent"`
	MinRedemptionPoints  int64           `json:"min_redemption_points"`
	AllowTierDowngrade   bool            `json:"allow_tier_downgrade"`
	EvaluationBasis      string          `json:"evaluation_basis"`
	Active               bool            `json:"active"`
	EffectiveFrom        string          `json:"effective_from"`
	EffectiveTo          *string         `json:"effective_to,omitempty"`
	CreatedBy            string          `json:"created_by,omitempty"`
	CreatedAt            string          `json:"created_at,omitempty"`
}

// CreateRuleVersionRequest creates a new rule version.
type CreateRuleVersionRequest struct {
	PointsPerCurrency    decimal.Decimal `json:"points_per_currency"`
	RedemptionRate       decimal.Decimal `json:"redemption_rate"`
	MaxRedemptionPercent decimal.Decimal `json:"max_redemption_percent"`
	MinRedemptionPoints  int64           `json:"min_redemption_points"`
	AllowTierDowngrade   bool            `json:"allow_tier_downgrade"`
	EvaluationBasis      string          `json:"evaluation_basis"`
	Activate             bool            `json:"activate"`
}

// TierDTO represents a loyalty tier.
type TierDTO struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	DisplayOrder int             `json:"display_order"`
	MinPoints    int64           `json:"min_points"`
	MinSpend     decimal.Decimal `json:"min_spend"`
	Multiplier   decimal.Decimal `json:"multiplier"`
	Active       bool            `json:"active"`
}

// CreateTierRequest registers a new tier.
type CreateTierRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	DisplayOrder int             `json:"display_order"`
	MinPoints    int64           `json:"min_points"`
	MinSpend     decimal.Decimal `json:"min_spend"`
	Multiplier   decimal.Decimal `json:"multiplier"`
}

// =============================================================================
// PAYROLL REQUEST/RESPONSE TYPES
// =============================================================================

// CreatePeriodRequest opens a payroll period for a calendar month.
type CreatePeriodRequest struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Notes string `json:"notes,omitempty"`
}

// PeriodDTO represents a payroll period.
type PeriodDTO struct {
	ID                   string  `json:"id"`
	Year                 int     `json:"year"`
	Month                int     `json:"month"`
	Code                 string  `json:"code"`
	Name                 string  `json:"name"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	ConfirmationDeadline string  `json:"confirmation_deadline"`
	Status               string  `json:"status"`
	Notes                string  `json:"notes,omitempty"`
	CreatedBy            string  `json:"created_by,omitempty"`
	CreatedAt            string  `json:"created_at,omitempty"`
	PublishedBy          string  `json:"published_by,omitempty"`
	PublishedAt          *string `json:"published_at,omitempty"`
	FinalizedBy          string  `json:"finalized_by,omitempty"`
	FinalizedAt          *string `json:"finalized_at,omitempty"`
	PaidBy               string  `json:"paid_by,omitempty"`
	PaidAt               *string `json:"paid_at,omitempty"`

	FinalizeOverrideReason string `json:"finalize_override_reason,omitempty"`
	PaymentMethod          string `json:"payment_method,omitempty"`
	PaymentReference       string `json:"payment_reference,omitempty"`
}

// GenerateResponse reports a partial-success generation run.
type GenerateResponse struct {
	Generated int                  `json:"generated"`
	Failures  []GenerateFailureDTO `json:"failures,omitempty"`
}

// GenerateFailureDTO is one employee that could not be generated.
type GenerateFailureDTO struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// FinalizeRequest closes a period for changes.
type FinalizeRequest struct {
	OverrideReason string `json:"override_reason,omitempty"`
}

// MarkPaidRequest records that the period was disbursed.
type MarkPaidRequest struct {
	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

// SlipDTO represents one employee's slip for one period.
type SlipDTO struct {
	ID         string `json:"id"`
	PeriodID   string `json:"period_id"`
	EmployeeID string `json:"employee_id"`

	WorkDays      decimal.Decimal `json:"work_days"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`

	PaidLeaveDays   decimal.Decimal `json:"paid_leave_days"`
	UnpaidLeaveDays decimal.Decimal `json:"unpaid_leave_days"`
	AbsentDays      decimal.Decimal `json:"absent_days"`

	BaseEarnings     decimal.Decimal    `json:"base_earnings"`
	OvertimeEarnings decimal.Decimal    `json:"overtime_earnings"`
	AllowancesAmount decimal.Decimal    `json:"allowances_amount"`
	AllowanceDetails []AllowanceItemDTO `json:"allowance_details,omitempty"`
	GrossPay         decimal.Decimal    `json:"gross_pay"`

	SocialInsurance       decimal.Decimal `json:"social_insurance"`
	HealthInsurance       decimal.Decimal `json:"health_insurance"`
	UnemploymentInsurance decimal.Decimal `json:"unemployment_insurance"`
	AbsenceDeduction      decimal.Decimal `json:"absence_deduction"`
	TotalDeductions       decimal.Decimal `json:"total_deductions"`

	AdjustmentAmount decimal.Decimal `json:"adjustment_amount"`
	NetPay           decimal.Decimal `json:"net_pay"`

	Status        string  `json:"status"`
	ConfirmedAt   *string `json:"confirmed_at,omitempty"`
	ConfirmedLate bool    `json:"confirmed_late,omitempty"`
	DisputedAt    *string `json:"disputed_at,omitempty"`
	DisputeReason string  `json:"dispute_reason,omitempty"`
	ResolvedAt    *string `json:"resolved_at,omitempty"`
	Resolution    string  `json:"resolution,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// AllowanceItemDTO is a named extra allowance.
type AllowanceItemDTO struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

// DisputeRequest raises a dispute on a published slip.
type DisputeRequest struct {
	Reason string `json:"reason"`
}

// ResolveDisputeRequest settles a dispute, optionally with a correction.
type ResolveDisputeRequest struct {
	Resolution string           `json:"resolution"`
	Adjustment *decimal.Decimal `json:"adjustment,omitempty"`
}

// AdjustSlipRequest applies a manual bonus/deduction/correction.
type AdjustSlipRequest struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// AdjustmentDTO represents one audit-log adjustment row.
type AdjustmentDTO struct {
	ID             string          `json:"id"`
	SlipID         string          `json:"slip_id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	PreviousNetPay decimal.Decimal `json:"previous_net_pay"`
	NewNetPay      decimal.Decimal `json:"new_net_pay"`
	ActorID        string          `json:"actor_id,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
}

// SalaryConfigDTO carries one employee's pay parameters both ways.
type SalaryConfigDTO struct {
	EmployeeID string          `json:"employee_id"`
	Type       string          `json:"type"`
	BaseSalary decimal.Decimal `json:"base_salary"`

	StandardWorkDays    decimal.Decimal `json:"standard_work_days"`
	StandardHoursPerDay decimal.Decimal `json:"standard_hours_per_day"`
	OvertimeMultiplier  decimal.Decimal `json:"overtime_multiplier"`

	LunchAllowance     decimal.Decimal    `json:"lunch_allowance"`
	TransportAllowance decimal.Decimal    `json:"transport_allowance"`
	PhoneAllowance     decimal.Decimal    `json:"phone_allowance"`
	OtherAllowances    []AllowanceItemDTO `json:"other_allowances,omitempty"`

	SocialInsuranceRate       decimal.Decimal `json:"social_insurance_rate"`
	HealthInsuranceRate       decimal.Decimal `json:"health_insurance_rate"`
	UnemploymentInsuranceRate decimal.Decimal `json:"unemployment_insurance_rate"`

	Active bool `json:"active"`
}

// AttendanceDTO carries the per-period attendance rollup both ways.
type AttendanceDTO struct {
	TotalDays        decimal.Decimal `json:"total_days"`
	RegularDays      decimal.Decimal `json:"regular_days"`
	CheckInOnlyDays  decimal.Decimal `json:"check_in_only_days"`
	CheckOutOnlyDays decimal.Decimal `json:"check_out_only_days"`
	PaidLeaveDays    decimal.Decimal `json:"paid_leave_days"`
	UnpaidLeaveDays  decimal.Decimal `json:"unpaid_leave_days"`
	AbsentDays       decimal.Decimal `json:"absent_days"`

	TotalRegularHours  decimal.Decimal `json:"total_regular_hours"`
	TotalOvertimeHours decimal.Decimal `json:"total_overtime_hours"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func fmtAPITime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtAPITimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toAccountDTO(a loyalty.Account) AccountDTO {
	return AccountDTO{
		CustomerID:       string(a.CustomerID),
		TierID:           a.TierID,
		Balance:          a.Balance,
		LifetimeEarned:   a.LifetimeEarned,
		LifetimeRedeemed: a.LifetimeRedeemed,
		LifetimeSpend:    a.LifetimeSpend,
		TierUpdatedAt:    fmtAPITime(a.TierUpdatedAt),
		CreatedAt:        fmtAPITime(a.CreatedAt),
	}
}

func toPointTransactionDTO(tx loyalty.PointTransaction) PointTransactionDTO {
	return PointTransactionDTO{
		ID:            string(tx.ID),
		CustomerID:    string(tx.CustomerID),
		Type:          string(tx.Type),
		Delta:         tx.Delta,
		BalanceAfter:  tx.BalanceAfter,
		OrderType:     tx.OrderRef.Type,
		OrderID:       tx.OrderRef.ID,
		RuleVersionID: tx.RuleVersionID,
		ReversedTxID:  string(tx.ReversedTxID),
		Reason:        tx.Reason,
		ActorID:       tx.ActorID,
		CreatedAt:     fmtAPITime(tx.CreatedAt),
	}
}

func toPointTransactionDTOs(txs []loyalty.PointTransaction) []PointTransactionDTO {
	dtos := make([]PointTransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toPointTransactionDTO(tx)
	}
	return dtos
}

func toTierChangeDTO(tc loyalty.TierChange) TierChangeDTO {
	return TierChangeDTO{
		ID:            tc.ID,
		CustomerID:    string(tc.CustomerID),
		OldTierID:     tc.OldTierID,
		NewTierID:     tc.NewTierID,
		Reason:        string(tc.Reason),
		TransactionID: string(tc.TransactionID),
		CreatedAt:     fmtAPITime(tc.CreatedAt),
	}
}

func toRuleVersionDTO(rv loyalty.RuleVersion) RuleVersionDTO {
	return RuleVersionDTO{
		ID:                   rv.ID,
		VersionNumber:        rv.VersionNumber,
		PointsPerCurrency:    rv.PointsPerCurrency,
		RedemptionRate:       rv.RedemptionRate,
		MaxRedemptionPercent: rv.MaxRedemptionPercent,
		MinRedemptionPoints:  rv.MinRedemptionPoints,
		AllowTierDowngrade:   rv.AllowTierDowngrade,
		EvaluationBasis:      string(rv.EvaluationBasis),
		Active:               rv.Active,
		EffectiveFrom:        fmtAPITime(rv.EffectiveFrom),
		EffectiveTo:          fmtAPITimePtr(rv.EffectiveTo),
		CreatedBy:            rv.CreatedBy,
		CreatedAt:            fmtAPITime(rv.CreatedAt),
	}
}

func toTierDTO(t loyalty.Tier) TierDTO {
	return TierDTO{
		ID:           t.ID,
		Code:         t.Code,
		Name:         t.Name,
		DisplayOrder: t.DisplayOrder,
		MinPoints:    t.MinPoints,
		MinSpend:     t.MinSpend,
		Multiplier:   t.Multiplier,
		Active:       t.Active,
	}
}

func toPeriodDTO(p payroll.Period) PeriodDTO {
	return PeriodDTO{
		ID:                   p.ID,
		Year:                 p.Year,
		Month:                int(p.Month),
		Code:                 p.Code,
		Name:                 p.Name,
		StartDate:            p.StartDate.Format("2006-01-02"),
		EndDate:              p.EndDate.Format("2006-01-02"),
		ConfirmationDeadline: fmtAPITime(p.ConfirmationDeadline),
		Status:               string(p.Status),
		Notes:                p.Notes,
		CreatedBy:            p.CreatedBy,
		CreatedAt:            fmtAPITime(p.CreatedAt),
		PublishedBy:          p.PublishedBy,
		PublishedAt:          fmtAPITimePtr(p.PublishedAt),
		FinalizedBy:          p.FinalizedBy,
		FinalizedAt:          fmtAPITimePtr(p.FinalizedAt),
		PaidBy:               p.PaidBy,
		PaidAt:               fmtAPITimePtr(p.PaidAt),

		FinalizeOverrideReason: p.FinalizeOverrideReason,
		PaymentMethod:          p.PaymentMethod,
		PaymentReference:       p.PaymentReference,
	}
}

func toAllowanceItemDTOs(items []payroll.AllowanceItem) []AllowanceItemDTO {
	if len(items) == 0 {
		return nil
	}
	dtos := make([]AllowanceItemDTO, len(items))
	for i, it := range items {
		dtos[i] = AllowanceItemDTO{Key: it.Key, Amount: it.Amount}
	}
	return dtos
}

func toSlipDTO(s payroll.Slip) SlipDTO {
	return SlipDTO{
		ID:         s.ID,
		PeriodID:   s.PeriodID,
		EmployeeID: s.EmployeeID,

		WorkDays:      s.WorkDays,
		RegularHours:  s.RegularHours,
		OvertimeHours: s.OvertimeHours,

		PaidLeaveDays:   s.PaidLeaveDays,
		UnpaidLeaveDays: s.UnpaidLeaveDays,
		AbsentDays:      s.AbsentDays,

		BaseEarnings:     s.BaseEarnings,
		OvertimeEarnings: s.OvertimeEarnings,
		AllowancesAmount: s.AllowancesAmount,
		AllowanceDetails: toAllowanceItemDTOs(s.AllowanceDetails),
		GrossPay:         s.GrossPay,

		SocialInsurance:       s.SocialInsurance,
		HealthInsurance:       s.HealthInsurance,
		UnemploymentInsurance: s.UnemploymentInsurance,
		AbsenceDeduction:      s.AbsenceDeduction,
		TotalDeductions:       s.TotalDeductions,

		AdjustmentAmount: s.AdjustmentAmount,
		NetPay:           s.NetPay,

		Status:        string(s.Status),
		ConfirmedAt:   fmtAPITimePtr(s.ConfirmedAt),
		ConfirmedLate: s.ConfirmedLate,
		DisputedAt:    fmtAPITimePtr(s.DisputedAt),
		DisputeReason: s.DisputeReason,
		ResolvedAt:    fmtAPITimePtr(s.ResolvedAt),
		Resolution:    s.Resolution,

		CreatedAt: fmtAPITime(s.CreatedAt),
		UpdatedAt: fmtAPITime(s.UpdatedAt),
	}
}

func toSlipDTOs(slips []payroll.Slip) []SlipDTO {
	dtos := make([]SlipDTO, len(slips))
	for i, s := range slips {
		dtos[i] = toSlipDTO(s)
	}
	return dtos
}

func toAdjustmentDTO(a payroll.Adjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:             a.ID,
		SlipID:         a.SlipID,
		Type:           string(a.Type),
		Amount:         a.Amount,
		Reason:         a.Reason,
		PreviousNetPay: a.PreviousNetPay,
		NewNetPay:      a.NewNetPay,
		ActorID:        a.ActorID,
		CreatedAt:      fmtAPITime(a.CreatedAt),
	}
}

func toSalaryConfigDTO(cfg payroll.SalaryConfig) SalaryConfigDTO {
	return SalaryConfigDTO{
		EmployeeID: cfg.EmployeeID,
		Type:       string(cfg.Type),
		BaseSalary: cfg.BaseSalary,

		StandardWorkDays:    cfg.StandardWorkDays,
		StandardHoursPerDay: cfg.StandardHoursPerDay,
		OvertimeMultiplier:  cfg.OvertimeMultiplier,

		LunchAllowance:     cfg.LunchAllowance,
		TransportAllowance: cfg.TransportAllowance,
		PhoneAllowance:     cfg.PhoneAllowance,
		OtherAllowances:    toAllowanceItemDTOs(cfg.OtherAllowances),

		SocialInsuranceRate:       cfg.SocialInsuranceRate,
		HealthInsuranceRate:       cfg.HealthInsuranceRate,
		UnemploymentInsuranceRate: cfg.UnemploymentInsuranceRate,

		Active: cfg.Active,
	}
}

func fromSalaryConfigDTO(dto SalaryConfigDTO) payroll.SalaryConfig {
	cfg := payroll.SalaryConfig{
		EmployeeID: dto.EmployeeID,
		Type:       payroll.SalaryType(dto.Type),
		BaseSalary: dto.BaseSalary,

		StandardWorkDays:    dto.StandardWorkDays,
		StandardHoursPerDay: dto.StandardHoursPerDay,
		OvertimeMultiplier:  dto.OvertimeMultiplier,

		LunchAllowance:     dto.LunchAllowance,
		TransportAllowance: dto.TransportAllowance,
		PhoneAllowance:     dto.PhoneAllowance,

		SocialInsuranceRate:       dto.SocialInsuranceRate,
		HealthInsuranceRate:       dto.HealthInsuranceRate,
		UnemploymentInsuranceRate: dto.UnemploymentInsuranceRate,

		Active: dto.Active,
	}
	for _, it := range dto.OtherAllowances {
		cfg.OtherAllowances = append(cfg.OtherAllowances, payroll.AllowanceItem{
			Key:    it.Key,
			Amount: it.Amount,
		})
	}
	return cfg
}

func fromAttendanceDTO(dto AttendanceDTO) payroll.AttendanceSummary {
	return payroll.AttendanceSummary{
		TotalDays:        dto.TotalDays,
		RegularDays:      dto.RegularDays,
		CheckInOnlyDays:  dto.CheckInOnlyDays,
		CheckOutOnlyDays: dto.CheckOutOnlyDays,
		PaidLeaveDays:    dto.PaidLeaveDays,
		UnpaidLeaveDays:  dto.UnpaidLeaveDays,
		AbsentDays:       dto.AbsentDays,

		TotalRegularHours:  dto.TotalRegularHours,
		TotalOvertimeHours: dto.TotalOvertimeHours,
	}
}
