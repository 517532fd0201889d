package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoshop/erp-engine/payroll"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// monthlyConfig is the canonical shop mechanic: 10,000,000/month over
// 26 standard days of 8 hours, x1.5 overtime, statutory rates 8/1.5/1%.
func monthlyConfig() payroll.SalaryConfig {
	return payroll.SalaryConfig{
		EmployeeID:          "emp-1",
		Type:                payroll.SalaryMonthly,
		BaseSalary:          decimal.NewFromInt(10_000_000),
		StandardWorkDays:    decimal.NewFromInt(26),
		StandardHoursPerDay: decimal.NewFromInt(8),
		OvertimeMultiplier:  decimal.NewFromFloat(1.5),

		LunchAllowance:     decimal.NewFromInt(500_000),
		TransportAllowance: decimal.NewFromInt(300_000),
		PhoneAllowance:     decimal.NewFromInt(100_000),

		SocialInsuranceRate:       decimal.NewFromFloat(0.08),
		HealthInsuranceRate:       decimal.NewFromFloat(0.015),
		UnemploymentInsuranceRate: decimal.NewFromFloat(0.01),

		Active: true,
	}
}

func fullAttendance() payroll.AttendanceSummary {
	return payroll.AttendanceSummary{
		TotalDays:         decimal.NewFromInt(26),
		RegularDays:       decimal.NewFromInt(26),
		TotalRegularHours: decimal.NewFromInt(208),
	}
}

func mustEqual(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "%s: want %d, got %s", msg, want, got)
}

// =============================================================================
// BASE EARNINGS BY SALARY TYPE
// =============================================================================

func TestCalculate_MonthlyProration(t *testing.T) {
	// GIVEN: monthly 10,000,000 over 26 standard days
	// WHEN: 13 days worked
	// THEN: prorated base 10,000,000 * 13/26 = 5,000,000

	att := payroll.AttendanceSummary{RegularDays: decimal.NewFromInt(13)}
	b, err := payroll.Calculate(monthlyConfig(), att)
	require.NoError(t, err)

	mustEqual(t, 5_000_000, b.BaseEarnings, "prorated base")
}

func TestCalculate_MonthlyProrationCapped(t *testing.T) {
	// Working beyond the standard days never exceeds the full salary.
	att := payroll.AttendanceSummary{RegularDays: decimal.NewFromInt(28)}
	b, err := payroll.Calculate(monthlyConfig(), att)
	require.NoError(t, err)

	mustEqual(t, 10_000_000, b.BaseEarnings, "capped base")
}

func TestCalculate_HalfDayCreditForOneSidedCheckins(t *testing.T) {
	// 20 regular + 2 check-in-only + 2 check-out-only = 22 work days.
	cfg := monthlyConfig()
	att := payroll.AttendanceSummary{
		RegularDays:      decimal.NewFromInt(20),
		CheckInOnlyDays:  decimal.NewFromInt(2),
		CheckOutOnlyDays: decimal.NewFromInt(2),
	}
	b, err := payroll.Calculate(cfg, att)
	require.NoError(t, err)

	mustEqual(t, 22, b.WorkDays, "work days")
	// 10,000,000 * 22/26
	want := decimal.NewFromInt(10_000_000).Mul(decimal.NewFromInt(22)).Div(decimal.NewFromInt(26))
	assert.True(t, b.BaseEarnings.Equal(want))
}

func TestCalculate_PaidLeaveCountsAsWorked(t *testing.T) {
	att := payroll.AttendanceSummary{
		RegularDays:   decimal.NewFromInt(22),
		PaidLeaveDays: decimal.NewFromInt(4),
	}
	b, err := payroll.Calculate(monthlyConfig(), att)
	require.NoError(t, err)

	mustEqual(t, 26, b.WorkDays, "work days")
	mustEqual(t, 10_000_000, b.BaseEarnings, "full base")
}

func TestCalculate_DailyRate(t *testing.T) {
	cfg := monthlyConfig()
	cfg.Type = payroll.SalaryDaily
	cfg.BaseSalary = decimal.NewFromInt(400_000)

	att := payroll.AttendanceSummary{RegularDays: decimal.NewFromInt(20)}
	b, err := payroll.Calculate(cfg, att)
	require.NoError(t, err)

	mustEqual(t, 8_000_000, b.BaseEarnings, "daily base")
}

func TestCalculate_HourlyRate(t *testing.T) {
	cfg := monthlyConfig()
	cfg.Type = payroll.SalaryHourly
	cfg.BaseSalary = decimal.NewFromInt(50_000)

	att := payroll.AttendanceSummary{
		RegularDays:       decimal.NewFromInt(20),
		TotalRegularHours: decimal.NewFromInt(160),
	}
	b, err := payroll.Calculate(cfg, att)
	require.NoError(t, err)

	mustEqual(t, 8_000_000, b.BaseEarnings, "hourly base")
}

// =============================================================================
// OVERTIME, ALLOWANCES, DEDUCTIONS
// =============================================================================

func TestCalculate_Overtime(t *testing.T) {
	// hourlyRate = 10,000,000/26/8; overtime = 13h * rate * 1.5
	att := fullAttendance()
	att.TotalOvertimeHours = decimal.NewFromInt(13)

	b, err := payroll.Calculate(monthlyConfig(), att)
	require.NoError(t, err)

	rate := decimal.NewFromInt(10_000_000).Div(decimal.NewFromInt(26)).Div(decimal.NewFromInt(8))
	want := decimal.NewFromInt(13).Mul(rate).Mul(decimal.NewFromFloat(1.5))
	assert.True(t, b.OvertimeEarnings.Equal(want), "overtime: want %s, got %s", want, b.OvertimeEarnings)
}

func TestCalculate_AllowancesSumExcludesOtherItems(t *testing.T) {
	// Named extra allowances ride along in the details but are not
	// summed into the allowances total or gross pay.
	cfg := monthlyConfig()
	cfg.OtherAllowances = []payroll.AllowanceItem{
		{Key: "uniform", Amount: decimal.NewFromInt(250_000)},
	}

	b, err := payroll.Calculate(cfg, fullAttendance())
	require.NoError(t, err)

	mustEqual(t, 900_000, b.AllowancesAmount, "lunch+transport+phone only")
	require.Len(t, b.AllowanceDetails, 1)
	assert.Equal(t, "uniform", b.AllowanceDetails[0].Key)

	want := b.BaseEarnings.Add(b.OvertimeEarnings).Add(b.AllowancesAmount)
	assert.True(t, b.GrossPay.Equal(want))
}

func TestCalculate_StatutoryDeductionsOffBaseSalary(t *testing.T) {
	// Rates apply to BASE salary, not gross.
	b, err := payroll.Calculate(monthlyConfig(), fullAttendance())
	require.NoError(t, err)

	mustEqual(t, 800_000, b.SocialInsurance, "social 8%")
	mustEqual(t, 150_000, b.HealthInsurance, "health 1.5%")
	mustEqual(t, 100_000, b.UnemploymentInsurance, "unemployment 1%")
	mustEqual(t, 1_050_000, b.TotalDeductions, "total")
	assert.True(t, b.NetPay.Equal(b.GrossPay.Sub(b.TotalDeductions)))
}

func TestCalculate_AbsenceDeductionMonthlyOnly(t *testing.T) {
	att := payroll.AttendanceSummary{
		RegularDays:     decimal.NewFromInt(24),
		UnpaidLeaveDays: decimal.NewFromInt(2),
	}

	monthly, err := payroll.Calculate(monthlyConfig(), att)
	require.NoError(t, err)
	// 10,000,000/26 * 2
	want := decimal.NewFromInt(10_000_000).Div(decimal.NewFromInt(26)).Mul(decimal.NewFromInt(2))
	assert.True(t, monthly.AbsenceDeduction.Equal(want))

	daily := monthlyConfig()
	daily.Type = payroll.SalaryDaily
	dailyB, err := payroll.Calculate(daily, att)
	require.NoError(t, err)
	assert.True(t, dailyB.AbsenceDeduction.IsZero(), "daily pay already absorbs absences")
}

func TestCalculate_FullyAbsentMonth(t *testing.T) {
	// unpaidLeaveDays == standardWorkDays: base prorates to zero and the
	// absence deduction equals the full base salary.
	cfg := monthlyConfig()
	cfg.SocialInsuranceRate = decimal.Zero
	cfg.HealthInsuranceRate = decimal.Zero
	cfg.UnemploymentInsuranceRate = decimal.Zero
	cfg.LunchAllowance = decimal.Zero
	cfg.TransportAllowance = decimal.Zero
	cfg.PhoneAllowance = decimal.Zero

	att := payroll.AttendanceSummary{UnpaidLeaveDays: decimal.NewFromInt(26)}
	b, err := payroll.Calculate(cfg, att)
	require.NoError(t, err)

	assert.True(t, b.BaseEarnings.IsZero())
	mustEqual(t, 10_000_000, b.AbsenceDeduction, "full-month absence")
}

// =============================================================================
// DETERMINISM AND VALIDATION
// =============================================================================

func TestCalculate_Deterministic(t *testing.T) {
	cfg := monthlyConfig()
	att := fullAttendance()
	att.TotalOvertimeHours = decimal.NewFromFloat(7.5)
	att.CheckInOnlyDays = decimal.NewFromInt(1)

	first, err := payroll.Calculate(cfg, att)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := payroll.Calculate(cfg, att)
		require.NoError(t, err)
		assert.True(t, first.NetPay.Equal(again.NetPay))
		assert.True(t, first.GrossPay.Equal(again.GrossPay))
		assert.True(t, first.TotalDeductions.Equal(again.TotalDeductions))
	}
}

func TestCalculate_RejectsBadConfigs(t *testing.T) {
	cases := map[string]func(*payroll.SalaryConfig){
		"unknown type":      func(c *payroll.SalaryConfig) { c.Type = "weekly" },
		"negative base":     func(c *payroll.SalaryConfig) { c.BaseSalary = decimal.NewFromInt(-1) },
		"zero std days":     func(c *payroll.SalaryConfig) { c.StandardWorkDays = decimal.Zero },
		"zero std hours":    func(c *payroll.SalaryConfig) { c.StandardHoursPerDay = decimal.Zero },
		"negative ot mult":  func(c *payroll.SalaryConfig) { c.OvertimeMultiplier = decimal.NewFromInt(-1) },
		"rate above 100%":   func(c *payroll.SalaryConfig) { c.SocialInsuranceRate = decimal.NewFromInt(2) },
		"negative ins rate": func(c *payroll.SalaryConfig) { c.HealthInsuranceRate = decimal.NewFromFloat(-0.01) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := monthlyConfig()
			mutate(&cfg)
			_, err := payroll.Calculate(cfg, fullAttendance())
			assert.ErrorIs(t, err, payroll.ErrInvalidSalaryConfig)
		})
	}
}
