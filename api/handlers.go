/*
handlers.go - HTTP API handlers for the loyalty and payroll engines

PURPOSE:
  Exposes both engines via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Loyalty:
    POST   /api/loyalty/earn                       Accrue points for an order
    POST   /api/loyalty/quote                      Redemption quote (read-only)
    POST   /api/loyalty/redeem                     Spend points for a discount
    POST   /api/loyalty/reverse                    Undo all activity for an order
    POST   /api/loyalty/adjust                     Manual points correction
    GET    /api/loyalty/accounts/{customerID}      Account summary
    GET    /api/loyalty/accounts/{customerID}/transactions
    GET    /api/loyalty/accounts/{customerID}/tier-history
    GET    /api/loyalty/rules                      List rule versions
    POST   /api/loyalty/rules                      Create rule version
    POST   /api/loyalty/rules/{id}/activate        Activate rule version
    GET    /api/loyalty/tiers                      List active tiers
    POST   /api/loyalty/tiers                      Create tier

  Payroll:
    POST   /api/payroll/periods                    Open a monthly period
    GET    /api/payroll/periods                    List periods
    GET    /api/payroll/periods/{id}               Get period
    POST   /api/payroll/periods/{id}/generate      Generate slips
    POST   /api/payroll/periods/{id}/publish       Publish to employees
    POST   /api/payroll/periods/{id}/finalize      Lock for payment
    POST   /api/payroll/periods/{id}/pay           Record disbursement
    GET    /api/payroll/periods/{id}/slips         List period slips
    PUT    /api/payroll/periods/{id}/attendance/{employeeID}
    GET    /api/payroll/slips/{id}                 Get slip
    POST   /api/payroll/slips/{id}/confirm         Employee acknowledgment
    POST   /api/payroll/slips/{id}/dispute         Raise dispute
    POST   /api/payroll/slips/{id}/resolve         Settle dispute
    POST   /api/payroll/slips/{id}/adjustments     Manual bonus/deduction
    GET    /api/payroll/slips/{id}/adjustments     Adjustment audit log
    GET    /api/payroll/slips/{id}/pdf             Payslip PDF
    GET    /api/payroll/salary-configs             List active configs
    PUT    /api/payroll/salary-configs             Upsert config
    GET    /api/payroll/salary-configs/{employeeID}

ACTOR IDENTIFICATION:
  Mutating endpoints read the acting user from the X-Actor-ID header.
  Slip confirmation and disputes check ownership against it.

ERROR HANDLING:
  Domain errors map to HTTP status via the engines' error predicates:
  - 400: Validation errors, invalid input
  - 403: Ownership violations
  - 404: Resource not found
  - 409: Conflicts and workflow-state violations
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. X-Actor-ID is trusted as-is; the
  gateway in front of this service is expected to set it.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/motoshop/erp-engine/loyalty"
	"github.com/motoshop/erp-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Loyalty *loyalty.Engine
	Payroll *payroll.Engine
}

// NewHandler creates a new handler wired to both engines.
func NewHandler(loyaltyEngine *loyalty.Engine, payrollEngine *payroll.Engine) *Handler {
	return &Handler{
		Loyalty: loyaltyEngine,
		Payroll: payrollEngine,
	}
}

func actorID(r *http.Request) string {
	return r.Header.Get("X-Actor-ID")
}

// =============================================================================
// LOYALTY: POINTS OPERATIONS
// =============================================================================

// Earn accrues points for an order amount.
func (h *Handler) Earn(w http.ResponseWriter, r *http.Request) {
	var req EarnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id is required", nil)
		return
	}

	ref := loyalty.OrderRef{Type: req.OrderType, ID: req.OrderID}
	result, err := h.Loyalty.Earn(r.Context(), loyalty.CustomerID(req.CustomerID), ref, req.Amount, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to accrue points", err)
		return
	}

	writeJSON(w, http.StatusOK, EarnResponse{
		PointsEarned:  result.PointsEarned,
		Balance:       result.Balance,
		Multiplier:    result.Multiplier,
		TransactionID: string(result.TransactionID),
		TierUpgraded:  result.TierUpgraded,
		NewTierName:   result.NewTierName,
	})
}

// RedemptionQuote computes the caps for spending points on an order.
func (h *Handler) RedemptionQuote(w http.ResponseWriter, r *http.Request) {
	var req RedemptionQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	quote, err := h.Loyalty.CalculateRedemption(r.Context(),
		loyalty.CustomerID(req.CustomerID), req.OrderAmount, req.RequestedPoints)
	if err != nil {
		writeDomainError(w, "Failed to compute redemption quote", err)
		return
	}

	writeJSON(w, http.StatusOK, RedemptionQuoteDTO{
		AvailablePoints:     quote.AvailablePoints,
		MaxRedeemablePoints: quote.MaxRedeemablePoints,
		MaxDiscount:         quote.MaxDiscount,
		MinRedemptionPoints: quote.MinRedemptionPoints,
		RedemptionRate:      quote.RedemptionRate,
		TierName:            quote.TierName,
		TierMultiplier:      quote.TierMultiplier,
		RequestedPoints:     quote.RequestedPoints,
		RequestedAllowed:    quote.RequestedAllowed,
		RequestedValue:      quote.RequestedValue,
	})
}

// Redeem spends points for an order discount.
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ref := loyalty.OrderRef{Type: req.OrderType, ID: req.OrderID}
	result, err := h.Loyalty.Redeem(r.Context(), loyalty.CustomerID(req.CustomerID), req.Points, ref, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to redeem points", err)
		return
	}

	writeJSON(w, http.StatusOK, RedeemResponse{
		PointsRedeemed: result.PointsRedeemed,
		Discount:       result.Discount,
		Balance:        result.Balance,
		TransactionID:  string(result.TransactionID),
	})
}

// Reverse undoes all points activity for an order.
func (h *Handler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req ReverseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ref := loyalty.OrderRef{Type: req.OrderType, ID: req.OrderID}
	result, err := h.Loyalty.Reverse(r.Context(), loyalty.CustomerID(req.CustomerID), ref, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to reverse order", err)
		return
	}

	writeJSON(w, http.StatusOK, ReverseResponse{
		ReversedCount: result.ReversedCount,
		PointsDelta:   result.PointsDelta,
		Balance:       result.Balance,
	})
}

// AdjustPoints applies a signed manual correction to a balance.
func (h *Handler) AdjustPoints(w http.ResponseWriter, r *http.Request) {
	var req AdjustPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Loyalty.AdjustPoints(r.Context(), loyalty.CustomerID(req.CustomerID), req.Points, req.Reason, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to adjust points", err)
		return
	}

	writeJSON(w, http.StatusOK, AdjustPointsResponse{
		Balance:       result.Balance,
		TransactionID: string(result.TransactionID),
		TierUpgraded:  result.TierUpgraded,
		NewTierName:   result.NewTierName,
	})
}

// =============================================================================
// LOYALTY: ACCOUNT QUERIES
// =============================================================================

// GetAccount returns (creating if necessary) a customer's account.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	acct, err := h.Loyalty.Account(r.Context(), loyalty.CustomerID(customerID))
	if err != nil {
		writeDomainError(w, "Failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountDTO(acct))
}

// GetTransactions returns a customer's ledger, oldest first.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	txs, err := h.Loyalty.Transactions(r.Context(), loyalty.CustomerID(customerID))
	if err != nil {
		writeDomainError(w, "Failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, toPointTransactionDTOs(txs))
}

// GetTierHistory returns a customer's tier transitions, oldest first.
func (h *Handler) GetTierHistory(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	changes, err := h.Loyalty.TierHistory(r.Context(), loyalty.CustomerID(customerID))
	if err != nil {
		writeDomainError(w, "Failed to list tier history", err)
		return
	}

	dtos := make([]TierChangeDTO, len(changes))
	for i, tc := range changes {
		dtos[i] = toTierChangeDTO(tc)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LOYALTY: RULE VERSIONS AND TIERS
// =============================================================================

// ListRuleVersions returns all rule versions, newest first.
func (h *Handler) ListRuleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.Loyalty.RuleVersions(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list rule versions", err)
		return
	}

	dtos := make([]RuleVersionDTO, len(versions))
	for i, rv := range versions {
		dtos[i] = toRuleVersionDTO(rv)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRuleVersion creates a new rule version, optionally activating it.
func (h *Handler) CreateRuleVersion(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rv, err := h.Loyalty.CreateRuleVersion(r.Context(), loyalty.RuleVersionParams{
		PointsPerCurrency:    req.PointsPerCurrency,
		RedemptionRate:       req.RedemptionRate,
		MaxRedemptionPercent: req.MaxRedemptionPercent,
		MinRedemptionPoints:  req.MinRedemptionPoints,
		AllowTierDowngrade:   req.AllowTierDowngrade,
		EvaluationBasis:      loyalty.EvaluationBasis(req.EvaluationBasis),
		Activate:             req.Activate,
	}, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to create rule version", err)
		return
	}

	writeJSON(w, http.StatusCreated, toRuleVersionDTO(rv))
}

// ActivateRuleVersion makes an existing rule version the active one.
func (h *Handler) ActivateRuleVersion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rv, err := h.Loyalty.ActivateRuleVersion(r.Context(), id, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to activate rule version", err)
		return
	}

	writeJSON(w, http.StatusOK, toRuleVersionDTO(rv))
}

// ListTiers returns the active tiers in display order.
func (h *Handler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.Loyalty.Tiers(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list tiers", err)
		return
	}

	dtos := make([]TierDTO, len(tiers))
	for i, t := range tiers {
		dtos[i] = toTierDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTier registers a new loyalty tier.
func (h *Handler) CreateTier(w http.ResponseWriter, r *http.Request) {
	var req CreateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tier, err := h.Loyalty.CreateTier(r.Context(), loyalty.TierParams{
		Code:         req.Code,
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
		MinPoints:    req.MinPoints,
		MinSpend:     req.MinSpend,
		Multiplier:   req.Multiplier,
	})
	if err != nil {
		writeDomainError(w, "Failed to create tier", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTierDTO(tier))
}

// =============================================================================
// PAYROLL: PERIOD WORKFLOW
// =============================================================================

// CreatePeriod opens a payroll period for a calendar month.
func (h *Handler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1-12", nil)
		return
	}

	period, err := h.Payroll.CreatePeriod(r.Context(), req.Year, time.Month(req.Month), req.Notes, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to create period", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPeriodDTO(period))
}

// ListPeriods returns all periods, newest first.
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Payroll.Periods(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list periods", err)
		return
	}

	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toPeriodDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPeriod returns a single period.
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	period, err := h.Payroll.Period(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get period", err)
		return
	}

	writeJSON(w, http.StatusOK, toPeriodDTO(period))
}

// GeneratePeriod builds slips for every active employee.
func (h *Handler) GeneratePeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.Payroll.Generate(r.Context(), id, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to generate slips", err)
		return
	}

	resp := GenerateResponse{Generated: result.Generated}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, GenerateFailureDTO{
			EmployeeID: f.EmployeeID,
			Error:      f.Err,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// PublishPeriod releases slips to employees for confirmation.
func (h *Handler) PublishPeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	period, err := h.Payroll.PublishPeriod(r.Context(), id, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to publish period", err)
		return
	}

	writeJSON(w, http.StatusOK, toPeriodDTO(period))
}

// FinalizePeriod locks the period for payment.
func (h *Handler) FinalizePeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req FinalizeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	period, err := h.Payroll.FinalizePeriod(r.Context(), id, req.OverrideReason, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to finalize period", err)
		return
	}

	writeJSON(w, http.StatusOK, toPeriodDTO(period))
}

// MarkPeriodPaid records that the period was disbursed.
func (h *Handler) MarkPeriodPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	period, err := h.Payroll.MarkPaid(r.Context(), id, req.PaymentMethod, req.PaymentReference, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to mark period paid", err)
		return
	}

	writeJSON(w, http.StatusOK, toPeriodDTO(period))
}

// ListPeriodSlips returns a period's slips.
func (h *Handler) ListPeriodSlips(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	slips, err := h.Payroll.Slips(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to list slips", err)
		return
	}

	writeJSON(w, http.StatusOK, toSlipDTOs(slips))
}

// RecordAttendance upserts an attendance summary for one employee.
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	employeeID := chi.URLParam(r, "employeeID")

	var req AttendanceDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Payroll.RecordAttendance(r.Context(), periodID, employeeID, fromAttendanceDTO(req)); err != nil {
		writeDomainError(w, "Failed to record attendance", err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// PAYROLL: SLIP OPERATIONS
// =============================================================================

// GetSlip returns a single slip.
func (h *Handler) GetSlip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	slip, err := h.Payroll.Slip(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get slip", err)
		return
	}

	writeJSON(w, http.StatusOK, toSlipDTO(slip))
}

// ConfirmSlip records the employee's acknowledgment of a published slip.
func (h *Handler) ConfirmSlip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	slip, err := h.Payroll.ConfirmSlip(r.Context(), id, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to confirm slip", err)
		return
	}

	writeJSON(w, http.StatusOK, toSlipDTO(slip))
}

// DisputeSlip raises a dispute on a published slip.
func (h *Handler) DisputeSlip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	slip, err := h.Payroll.DisputeSlip(r.Context(), id, req.Reason, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to dispute slip", err)
		return
	}

	writeJSON(w, http.StatusOK, toSlipDTO(slip))
}

// ResolveDispute settles a dispute, optionally applying a correction.
func (h *Handler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ResolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	slip, err := h.Payroll.ResolveDispute(r.Context(), id, req.Resolution, req.Adjustment, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to resolve dispute", err)
		return
	}

	writeJSON(w, http.StatusOK, toSlipDTO(slip))
}

// AdjustSlip applies a manual bonus, deduction, or correction.
func (h *Handler) AdjustSlip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AdjustSlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	slip, err := h.Payroll.AdjustSlip(r.Context(), id,
		payroll.AdjustmentType(req.Type), req.Amount, req.Reason, actorID(r))
	if err != nil {
		writeDomainError(w, "Failed to adjust slip", err)
		return
	}

	writeJSON(w, http.StatusOK, toSlipDTO(slip))
}

// ListSlipAdjustments returns a slip's adjustment audit log.
func (h *Handler) ListSlipAdjustments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	adjustments, err := h.Payroll.Adjustments(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to list adjustments", err)
		return
	}

	dtos := make([]AdjustmentDTO, len(adjustments))
	for i, a := range adjustments {
		dtos[i] = toAdjustmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SlipPDF renders the slip as a downloadable payslip PDF.
func (h *Handler) SlipPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	slip, err := h.Payroll.Slip(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get slip", err)
		return
	}
	period, err := h.Payroll.Period(r.Context(), slip.PeriodID)
	if err != nil {
		writeDomainError(w, "Failed to get period", err)
		return
	}

	pdf, err := payroll.RenderPayslipPDF(period, slip, r.URL.Query().Get("employee_name"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render payslip", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="payslip-%s-%s.pdf"`, period.Code, slip.EmployeeID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// =============================================================================
// PAYROLL: SALARY CONFIGS
// =============================================================================

// ListSalaryConfigs returns all active salary configurations.
func (h *Handler) ListSalaryConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Payroll.SalaryConfigs(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list salary configs", err)
		return
	}

	dtos := make([]SalaryConfigDTO, len(configs))
	for i, cfg := range configs {
		dtos[i] = toSalaryConfigDTO(cfg)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertSalaryConfig creates or replaces an employee's pay parameters.
func (h *Handler) UpsertSalaryConfig(w http.ResponseWriter, r *http.Request) {
	var req SalaryConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", nil)
		return
	}

	cfg := fromSalaryConfigDTO(req)
	if err := h.Payroll.SetSalaryConfig(r.Context(), cfg); err != nil {
		writeDomainError(w, "Failed to save salary config", err)
		return
	}

	writeJSON(w, http.StatusOK, toSalaryConfigDTO(cfg))
}

// GetSalaryConfig returns one employee's salary configuration.
func (h *Handler) GetSalaryConfig(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	cfg, err := h.Payroll.SalaryConfig(r.Context(), employeeID)
	if err != nil {
		writeDomainError(w, "Failed to get salary config", err)
		return
	}

	writeJSON(w, http.StatusOK, toSalaryConfigDTO(cfg))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case loyalty.IsNotFound(err) || payroll.IsNotFound(err):
		status = http.StatusNotFound
	case payroll.IsForbidden(err):
		status = http.StatusForbidden
	case loyalty.IsConflict(err) || payroll.IsConflict(err) || payroll.IsInvalidState(err):
		status = http.StatusConflict
	case loyalty.IsInvalidArgument(err) || payroll.IsInvalidArgument(err):
		status = http.StatusBadRequest
	}
	writeError(w, status, message, err)
}
