/*
calc.go - Pure payroll calculator

PURPOSE:
  Turns (SalaryConfig, AttendanceSummary) into a full Breakdown.
  Deterministic and side-effect free: identical input always yields
  identical output. All arithmetic is decimal; binary floating point
  never touches money.

ALGORITHM:
  workDays = regular + paidLeave + 0.5*(checkInOnly + checkOutOnly)

  Base earnings by salary type:
    monthly: base * min(workDays/standardWorkDays, 1)   (prorated, capped)
    daily:   base * workDays
    hourly:  base * totalRegularHours

  hourlyRate = base / standardWorkDays / standardHoursPerDay
  overtime   = totalOvertimeHours * hourlyRate * overtimeMultiplier
  allowances = lunch + transport + phone
  gross      = base earnings + overtime + allowances

  Statutory deductions are computed off BASE salary, not gross, per
  statutory base rules. Absence deduction applies to monthly type only:
    (base / standardWorkDays) * unpaidLeaveDays

  net = gross - total deductions

NOTE:
  OtherAllowances items are carried through into AllowanceDetails but
  are NOT summed into AllowancesAmount or gross pay, matching the
  observed production behavior.

SEE ALSO:
  - types.go: SalaryConfig, AttendanceSummary, Breakdown
  - workflow.go: Runs this per employee during generation
*/
package payroll

import "github.com/shopspring/decimal"

var (
	half    = decimal.NewFromFloat(0.5)
	one     = decimal.NewFromInt(1)
	maxRate = one
)

// validateConfig rejects configurations the calculator cannot price.
func validateConfig(cfg SalaryConfig) error {
	switch cfg.Type {
	case SalaryMonthly, SalaryDaily, SalaryHourly:
	default:
		return ErrInvalidSalaryConfig
	}
	switch {
	case cfg.BaseSalary.IsNegative(),
		!cfg.StandardWorkDays.IsPositive(),
		!cfg.StandardHoursPerDay.IsPositive(),
		cfg.OvertimeMultiplier.IsNegative():
		return ErrInvalidSalaryConfig
	}
	for _, rate := range []decimal.Decimal{
		cfg.SocialInsuranceRate, cfg.HealthInsuranceRate, cfg.UnemploymentInsuranceRate,
	} {
		if rate.IsNegative() || rate.GreaterThan(maxRate) {
			return ErrInvalidSalaryConfig
		}
	}
	return nil
}

// Calculate computes the full pay breakdown for one employee.
func Calculate(cfg SalaryConfig, att AttendanceSummary) (Breakdown, error) {
	if err := validateConfig(cfg); err != nil {
		return Breakdown{}, err
	}

	// One-sided check-in/out days earn half-day credit.
	workDays := att.RegularDays.
		Add(att.PaidLeaveDays).
		Add(att.CheckInOnlyDays.Add(att.CheckOutOnlyDays).Mul(half))

	var baseEarnings decimal.Decimal
	switch cfg.Type {
	case SalaryMonthly:
		ratio := workDays.Div(cfg.StandardWorkDays)
		if ratio.GreaterThan(one) {
			ratio = one // never exceeds full salary
		}
		baseEarnings = cfg.BaseSalary.Mul(ratio)
	case SalaryDaily:
		baseEarnings = cfg.BaseSalary.Mul(workDays)
	case SalaryHourly:
		baseEarnings = cfg.BaseSalary.Mul(att.TotalRegularHours)
	}

	hourlyRate := cfg.BaseSalary.Div(cfg.StandardWorkDays).Div(cfg.StandardHoursPerDay)
	overtimeEarnings := att.TotalOvertimeHours.Mul(hourlyRate).Mul(cfg.OvertimeMultiplier)

	allowances := cfg.LunchAllowance.Add(cfg.TransportAllowance).Add(cfg.PhoneAllowance)

	grossPay := baseEarnings.Add(overtimeEarnings).Add(allowances)

	socialIns := cfg.BaseSalary.Mul(cfg.SocialInsuranceRate)
	healthIns := cfg.BaseSalary.Mul(cfg.HealthInsuranceRate)
	unemploymentIns := cfg.BaseSalary.Mul(cfg.UnemploymentInsuranceRate)

	absenceDeduction := decimal.Zero
	if cfg.Type == SalaryMonthly {
		absenceDeduction = cfg.BaseSalary.Div(cfg.StandardWorkDays).Mul(att.UnpaidLeaveDays)
	}

	totalDeductions := socialIns.Add(healthIns).Add(unemploymentIns).Add(absenceDeduction)

	details := make([]AllowanceItem, len(cfg.OtherAllowances))
	copy(details, cfg.OtherAllowances)

	return Breakdown{
		WorkDays:        workDays,
		RegularHours:    att.TotalRegularHours,
		OvertimeHours:   att.TotalOvertimeHours,
		PaidLeaveDays:   att.PaidLeaveDays,
		UnpaidLeaveDays: att.UnpaidLeaveDays,
		AbsentDays:      att.AbsentDays,

		BaseEarnings:     baseEarnings,
		OvertimeEarnings: overtimeEarnings,
		AllowancesAmount: allowances,
		AllowanceDetails: details,
		GrossPay:         grossPay,

		SocialInsurance:       socialIns,
		HealthInsurance:       healthIns,
		UnemploymentInsurance: unemploymentIns,
		AbsenceDeduction:      absenceDeduction,
		TotalDeductions:       totalDeductions,

		NetPay: grossPay.Sub(totalDeductions),
	}, nil
}
