package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoshop/erp-engine/api"
	"github.com/motoshop/erp-engine/loyalty"
	"github.com/motoshop/erp-engine/payroll"
	"github.com/motoshop/erp-engine/store/memory"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type testServer struct {
	router  http.Handler
	loyalty *loyalty.Engine
	payroll *payroll.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	le := loyalty.NewEngine(memory.NewLoyalty())
	pe := payroll.NewEngine(memory.NewPayroll(), nil)
	return &testServer{
		router:  api.NewRouter(api.NewHandler(le, pe)),
		loyalty: le,
		payroll: pe,
	}
}

// do issues a JSON request with an optional body and actor header.
func (ts *testServer) do(t *testing.T, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Actor-ID", actor)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

// seedLoyalty installs the standard rules and a two-tier ladder
// directly through the engine.
func seedLoyalty(t *testing.T, ts *testServer) {
	t.Helper()
	ctx := context.Background()

	_, err := ts.loyalty.CreateRuleVersion(ctx, loyalty.RuleVersionParams{
		PointsPerCurrency:    decimal.NewFromFloat(0.0001),
		RedemptionRate:       decimal.NewFromInt(1000),
		MaxRedemptionPercent: decimal.NewFromInt(50),
		MinRedemptionPoints:  100,
		EvaluationBasis:      loyalty.BasisLifetimePoints,
		Activate:             true,
	}, "admin-1")
	require.NoError(t, err)

	for _, p := range []loyalty.TierParams{
		{Code: "bronze", Name: "Bronze", DisplayOrder: 1, Multiplier: decimal.NewFromInt(1)},
		{Code: "silver", Name: "Silver", DisplayOrder: 2, MinPoints: 500, Multiplier: decimal.NewFromFloat(1.5)},
	} {
		_, err := ts.loyalty.CreateTier(ctx, p)
		require.NoError(t, err)
	}
}

// =============================================================================
// LOYALTY ENDPOINTS
// =============================================================================

func TestHTTP_EarnRedeemRoundTrip(t *testing.T) {
	// GIVEN: Active rules and a customer with no history
	// WHEN: Earning on a 2,500,000 service order, then redeeming 100 points
	// THEN: Responses carry the floored points and the ledger adds up

	ts := newTestServer(t)
	seedLoyalty(t, ts)

	rec := ts.do(t, http.MethodPost, "/api/loyalty/earn", "pos-1", map[string]any{
		"customer_id": "cust-1",
		"order_type":  "service_order",
		"order_id":    "so-1",
		"amount":      2_500_000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	earned := decode[api.EarnResponse](t, rec)
	assert.Equal(t, int64(250), earned.PointsEarned)
	assert.Equal(t, int64(250), earned.Balance)
	assert.NotEmpty(t, earned.TransactionID)

	rec = ts.do(t, http.MethodPost, "/api/loyalty/redeem", "pos-1", map[string]any{
		"customer_id": "cust-1",
		"points":      100,
		"order_type":  "sales_order",
		"order_id":    "sal-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	redeemed := decode[api.RedeemResponse](t, rec)
	assert.Equal(t, int64(100), redeemed.PointsRedeemed)
	assert.True(t, redeemed.Discount.Equal(decimal.NewFromInt(100_000)))
	assert.Equal(t, int64(150), redeemed.Balance)

	rec = ts.do(t, http.MethodGet, "/api/loyalty/accounts/cust-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	acct := decode[api.AccountDTO](t, rec)
	assert.Equal(t, int64(150), acct.Balance)
	assert.Equal(t, int64(250), acct.LifetimeEarned)
	assert.Equal(t, int64(100), acct.LifetimeRedeemed)

	rec = ts.do(t, http.MethodGet, "/api/loyalty/accounts/cust-1/transactions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	txs := decode[[]api.PointTransactionDTO](t, rec)
	require.Len(t, txs, 2)
	assert.Equal(t, "earn", txs[0].Type)
	assert.Equal(t, "redeem", txs[1].Type)
}

func TestHTTP_QuoteDoesNotMutate(t *testing.T) {
	ts := newTestServer(t)
	seedLoyalty(t, ts)

	rec := ts.do(t, http.MethodPost, "/api/loyalty/quote", "", map[string]any{
		"customer_id":  "cust-unknown",
		"order_amount": 500_000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	quote := decode[api.RedemptionQuoteDTO](t, rec)
	assert.Equal(t, int64(0), quote.AvailablePoints)
	assert.Equal(t, int64(0), quote.MaxRedeemablePoints)
}

func TestHTTP_LoyaltyErrorMapping(t *testing.T) {
	ts := newTestServer(t)
	seedLoyalty(t, ts)

	// Insufficient balance -> 400.
	rec := ts.do(t, http.MethodPost, "/api/loyalty/redeem", "pos-1", map[string]any{
		"customer_id": "cust-1",
		"points":      100,
		"order_type":  "sales_order",
		"order_id":    "sal-1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Reversing for an account that never existed -> 404.
	rec = ts.do(t, http.MethodPost, "/api/loyalty/reverse", "pos-1", map[string]any{
		"customer_id": "cust-ghost",
		"order_type":  "service_order",
		"order_id":    "so-9",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Duplicate tier code -> 409.
	rec = ts.do(t, http.MethodPost, "/api/loyalty/tiers", "admin-1", map[string]any{
		"code": "bronze", "name": "Bronze again", "display_order": 9, "multiplier": 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Missing customer id -> 400 before the engine is reached.
	rec = ts.do(t, http.MethodPost, "/api/loyalty/earn", "pos-1", map[string]any{
		"order_type": "service_order", "order_id": "so-1", "amount": 1000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_RuleVersionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/loyalty/rules", "admin-1", map[string]any{
		"points_per_currency":    0.0001,
		"redemption_rate":        1000,
		"max_redemption_percent": 50,
		"min_redemption_points":  100,
		"evaluation_basis":       "lifetime_points",
		"activate":               true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v1 := decode[api.RuleVersionDTO](t, rec)
	assert.Equal(t, 1, v1.VersionNumber)
	assert.True(t, v1.Active)

	rec = ts.do(t, http.MethodGet, "/api/loyalty/rules", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	versions := decode[[]api.RuleVersionDTO](t, rec)
	require.Len(t, versions, 1)
}

// =============================================================================
// PAYROLL ENDPOINTS
// =============================================================================

func TestHTTP_PayrollCycle(t *testing.T) {
	// Drives one period through the whole workflow over HTTP only.
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/payroll/salary-configs", "mgr-1", map[string]any{
		"employee_id":            "emp-1",
		"type":                   "monthly",
		"base_salary":            10_000_000,
		"standard_work_days":     26,
		"standard_hours_per_day": 8,
		"overtime_multiplier":    1.5,
		"active":                 true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/payroll/periods", "mgr-1", map[string]any{
		"year": 2026, "month": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	period := decode[api.PeriodDTO](t, rec)
	assert.Equal(t, "PR-202603", period.Code)
	assert.Equal(t, "draft", period.Status)

	rec = ts.do(t, http.MethodPut,
		fmt.Sprintf("/api/payroll/periods/%s/attendance/emp-1", period.ID), "mgr-1",
		map[string]any{"regular_days": 26, "total_regular_hours": 208})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/payroll/periods/"+period.ID+"/generate", "mgr-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	gen := decode[api.GenerateResponse](t, rec)
	assert.Equal(t, 1, gen.Generated)
	assert.Empty(t, gen.Failures)

	rec = ts.do(t, http.MethodPost, "/api/payroll/periods/"+period.ID+"/publish", "mgr-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/payroll/periods/"+period.ID+"/slips", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slips := decode[[]api.SlipDTO](t, rec)
	require.Len(t, slips, 1)
	slip := slips[0]
	assert.Equal(t, "published", slip.Status)
	assert.True(t, slip.BaseEarnings.Equal(decimal.NewFromInt(10_000_000)))

	rec = ts.do(t, http.MethodPost, "/api/payroll/slips/"+slip.ID+"/confirm", "emp-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/payroll/periods/"+period.ID+"/finalize", "mgr-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/payroll/periods/"+period.ID+"/pay", "mgr-1", map[string]any{
		"payment_method": "bank_transfer", "payment_reference": "TXN-88",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decode[api.PeriodDTO](t, rec)
	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, "bank_transfer", paid.PaymentMethod)
}

func TestHTTP_PayrollErrorMapping(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/payroll/periods", "mgr-1", map[string]any{
		"year": 2026, "month": 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	period := decode[api.PeriodDTO](t, rec)

	// Duplicate month -> 409.
	rec = ts.do(t, http.MethodPost, "/api/payroll/periods", "mgr-1", map[string]any{
		"year": 2026, "month": 4,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Month out of range -> 400.
	rec = ts.do(t, http.MethodPost, "/api/payroll/periods", "mgr-1", map[string]any{
		"year": 2026, "month": 13,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Publishing with no slips -> 409 (workflow guard).
	rec = ts.do(t, http.MethodPost, "/api/payroll/periods/"+period.ID+"/publish", "mgr-1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unknown slip -> 404.
	rec = ts.do(t, http.MethodGet, "/api/payroll/slips/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Unknown employee config -> 404.
	rec = ts.do(t, http.MethodGet, "/api/payroll/salary-configs/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_ConfirmByNonOwnerForbidden(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/payroll/salary-configs", "mgr-1", map[string]any{
		"employee_id":            "emp-1",
		"type":                   "monthly",
		"base_salary":            10_000_000,
		"standard_work_days":     26,
		"standard_hours_per_day": 8,
		"overtime_multiplier":    1.5,
		"active":                 true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/payroll/periods", "mgr-1", map[string]any{
		"year": 2026, "month": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	period := decode[api.PeriodDTO](t, rec)

	rec = ts.do(t, http.MethodPut,
		fmt.Sprintf("/api/payroll/periods/%s/attendance/emp-1", period.ID), "mgr-1",
		map[string]any{"regular_days": 26, "total_regular_hours": 208})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/payroll/periods/"+period.ID+"/generate", "mgr-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/payroll/periods/"+period.ID+"/publish", "mgr-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/payroll/periods/"+period.ID+"/slips", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slips := decode[[]api.SlipDTO](t, rec)
	require.Len(t, slips, 1)

	rec = ts.do(t, http.MethodPost, "/api/payroll/slips/"+slips[0].ID+"/confirm", "emp-2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHTTP_SlipPDFDownload(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/payroll/salary-configs", "mgr-1", map[string]any{
		"employee_id":            "emp-1",
		"type":                   "monthly",
		"base_salary":            10_000_000,
		"standard_work_days":     26,
		"standard_hours_per_day": 8,
		"overtime_multiplier":    1.5,
		"active":                 true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/payroll/periods", "mgr-1", map[string]any{
		"year": 2026, "month": 6,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	period := decode[api.PeriodDTO](t, rec)

	rec = ts.do(t, http.MethodPut,
		fmt.Sprintf("/api/payroll/periods/%s/attendance/emp-1", period.ID), "mgr-1",
		map[string]any{"regular_days": 26, "total_regular_hours": 208})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/payroll/periods/"+period.ID+"/generate", "mgr-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/payroll/periods/"+period.ID+"/slips", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slips := decode[[]api.SlipDTO](t, rec)
	require.Len(t, slips, 1)

	rec = ts.do(t, http.MethodGet,
		"/api/payroll/slips/"+slips[0].ID+"/pdf?employee_name=Binh+Tran", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payslip-PR-202606-emp-1.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")), "body should be a PDF document")
}

func TestHTTP_Healthz(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

// confirm the time fields render RFC3339 so frontend parsing is stable
func TestHTTP_PeriodTimestampsFormatted(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/payroll/periods", "mgr-1", map[string]any{
		"year": 2026, "month": 7,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	period := decode[api.PeriodDTO](t, rec)

	_, err := time.Parse("2006-01-02", period.StartDate)
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339, period.ConfirmationDeadline)
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339, period.CreatedAt)
	assert.NoError(t, err)
}
