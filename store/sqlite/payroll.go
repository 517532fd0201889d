/*
payroll.go - SQLite implementation of payroll.TxStore

PURPOSE:
  Maps the payroll store interface onto the payroll_* tables. Slips,
  salary configs, and attendance summaries use ON CONFLICT upserts on
  their natural keys; adjustments are insert-only.

TRANSACTION MODEL:
  Same as the loyalty facade: WithTx serializes writers behind the
  shared mutex and hands the callback a view bound to the *sql.Tx.

SEE ALSO:
  - sqlite.go: Schema and shared helpers
  - payroll/store.go: The interface being implemented
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/motoshop/erp-engine/payroll"
)

// PayrollStore implements payroll.TxStore on SQLite.
// base is nil on transactional views.
type PayrollStore struct {
	base *DB
	q    queryer
}

var _ payroll.TxStore = (*PayrollStore)(nil)

// WithTx executes fn inside a database transaction.
func (s *PayrollStore) WithTx(ctx context.Context, fn func(payroll.Store) error) error {
	if s.base == nil {
		return fn(s)
	}

	s.base.mu.Lock()
	defer s.base.mu.Unlock()

	tx, err := s.base.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&PayrollStore{q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func marshalAllowances(items []payroll.AllowanceItem) (any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalAllowances(s sql.NullString) ([]payroll.AllowanceItem, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var items []payroll.AllowanceItem
	if err := json.Unmarshal([]byte(s.String), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// =============================================================================
// PERIODS
// =============================================================================

const periodCols = `id, year, month, code, name, start_date, end_date,
	confirmation_deadline, status, notes, created_by, created_at,
	published_by, published_at, finalized_by, finalized_at, paid_by, paid_at,
	finalize_override_reason, payment_method, payment_reference`

func scanPeriod(row interface{ Scan(...any) error }) (payroll.Period, error) {
	var p payroll.Period
	var month int
	var start, end, deadline, createdAt string
	var notes, createdBy, publishedBy, publishedAt, finalizedBy, finalizedAt sql.NullString
	var paidBy, paidAt, overrideReason, payMethod, payRef sql.NullString

	err := row.Scan(&p.ID, &p.Year, &month, &p.Code, &p.Name, &start, &end,
		&deadline, &p.Status, &notes, &createdBy, &createdAt,
		&publishedBy, &publishedAt, &finalizedBy, &finalizedAt, &paidBy, &paidAt,
		&overrideReason, &payMethod, &payRef)
	if err != nil {
		return payroll.Period{}, err
	}

	p.Month = time.Month(month)
	p.StartDate = parseTime(start)
	p.EndDate = parseTime(end)
	p.ConfirmationDeadline = parseTime(deadline)
	p.Notes = strOrEmpty(notes)
	p.CreatedBy = strOrEmpty(createdBy)
	p.CreatedAt = parseTime(createdAt)
	p.PublishedBy = strOrEmpty(publishedBy)
	p.PublishedAt = parseNullTime(publishedAt)
	p.FinalizedBy = strOrEmpty(finalizedBy)
	p.FinalizedAt = parseNullTime(finalizedAt)
	p.PaidBy = strOrEmpty(paidBy)
	p.PaidAt = parseNullTime(paidAt)
	p.FinalizeOverrideReason = strOrEmpty(overrideReason)
	p.PaymentMethod = strOrEmpty(payMethod)
	p.PaymentReference = strOrEmpty(payRef)
	return p, nil
}

func (s *PayrollStore) InsertPeriod(ctx context.Context, p payroll.Period) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO payroll_periods (`+periodCols+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Year, int(p.Month), p.Code, p.Name,
		fmtTime(p.StartDate), fmtTime(p.EndDate), fmtTime(p.ConfirmationDeadline),
		string(p.Status), nullStr(p.Notes), nullStr(p.CreatedBy), fmtTime(p.CreatedAt),
		nullStr(p.PublishedBy), fmtNullTime(p.PublishedAt),
		nullStr(p.FinalizedBy), fmtNullTime(p.FinalizedAt),
		nullStr(p.PaidBy), fmtNullTime(p.PaidAt),
		nullStr(p.FinalizeOverrideReason), nullStr(p.PaymentMethod), nullStr(p.PaymentReference))
	return err
}

func (s *PayrollStore) GetPeriod(ctx context.Context, id string) (payroll.Period, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+periodCols+` FROM payroll_periods WHERE id = ?`, id)
	p, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return p, err
}

func (s *PayrollStore) FindPeriodByMonth(ctx context.Context, year int, month time.Month) (payroll.Period, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+periodCols+` FROM payroll_periods WHERE year = ? AND month = ?`,
		year, int(month))
	p, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return p, err
}

func (s *PayrollStore) UpdatePeriod(ctx context.Context, p payroll.Period) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE payroll_periods SET
		        status = ?, notes = ?,
		        published_by = ?, published_at = ?,
		        finalized_by = ?, finalized_at = ?,
		        paid_by = ?, paid_at = ?,
		        finalize_override_reason = ?, payment_method = ?, payment_reference = ?
		 WHERE id = ?`,
		string(p.Status), nullStr(p.Notes),
		nullStr(p.PublishedBy), fmtNullTime(p.PublishedAt),
		nullStr(p.FinalizedBy), fmtNullTime(p.FinalizedAt),
		nullStr(p.PaidBy), fmtNullTime(p.PaidAt),
		nullStr(p.FinalizeOverrideReason), nullStr(p.PaymentMethod), nullStr(p.PaymentReference),
		p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return payroll.ErrPeriodNotFound
	}
	return nil
}

func (s *PayrollStore) ListPeriods(ctx context.Context) ([]payroll.Period, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+periodCols+` FROM payroll_periods ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// SALARY CONFIGS
// =============================================================================

const salaryConfigCols = `employee_id, salary_type, base_salary, standard_work_days,
	standard_hours_per_day, overtime_multiplier, lunch_allowance, transport_allowance,
	phone_allowance, other_allowances_json, social_insurance_rate, health_insurance_rate,
	unemployment_insurance_rate, active`

func scanSalaryConfig(row interface{ Scan(...any) error }) (payroll.SalaryConfig, error) {
	var cfg payroll.SalaryConfig
	var base, stdDays, stdHours, otMult, lunch, transport, phone string
	var social, health, unemployment string
	var otherJSON sql.NullString

	err := row.Scan(&cfg.EmployeeID, &cfg.Type, &base, &stdDays, &stdHours, &otMult,
		&lunch, &transport, &phone, &otherJSON, &social, &health, &unemployment, &cfg.Active)
	if err != nil {
		return payroll.SalaryConfig{}, err
	}

	cfg.BaseSalary = parseDecimal(base)
	cfg.StandardWorkDays = parseDecimal(stdDays)
	cfg.StandardHoursPerDay = parseDecimal(stdHours)
	cfg.OvertimeMultiplier = parseDecimal(otMult)
	cfg.LunchAllowance = parseDecimal(lunch)
	cfg.TransportAllowance = parseDecimal(transport)
	cfg.PhoneAllowance = parseDecimal(phone)
	cfg.SocialInsuranceRate = parseDecimal(social)
	cfg.HealthInsuranceRate = parseDecimal(health)
	cfg.UnemploymentInsuranceRate = parseDecimal(unemployment)

	other, err := unmarshalAllowances(otherJSON)
	if err != nil {
		return payroll.SalaryConfig{}, err
	}
	cfg.OtherAllowances = other
	return cfg, nil
}

func (s *PayrollStore) UpsertSalaryConfig(ctx context.Context, cfg payroll.SalaryConfig) error {
	otherJSON, err := marshalAllowances(cfg.OtherAllowances)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx,
		`INSERT INTO payroll_salary_configs (`+salaryConfigCols+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(employee_id) DO UPDATE SET
		        salary_type = excluded.salary_type,
		        base_salary = excluded.base_salary,
		        standard_work_days = excluded.standard_work_days,
		        standard_hours_per_day = excluded.standard_hours_per_day,
		        overtime_multiplier = excluded.overtime_multiplier,
		        lunch_allowance = excluded.lunch_allowance,
		        transport_allowance = excluded.transport_allowance,
		        phone_allowance = excluded.phone_allowance,
		        other_allowances_json = excluded.other_allowances_json,
		        social_insurance_rate = excluded.social_insurance_rate,
		        health_insurance_rate = excluded.health_insurance_rate,
		        unemployment_insurance_rate = excluded.unemployment_insurance_rate,
		        active = excluded.active`,
		cfg.EmployeeID, string(cfg.Type), cfg.BaseSalary.String(),
		cfg.StandardWorkDays.String(), cfg.StandardHoursPerDay.String(),
		cfg.OvertimeMultiplier.String(), cfg.LunchAllowance.String(),
		cfg.TransportAllowance.String(), cfg.PhoneAllowance.String(), otherJSON,
		cfg.SocialInsuranceRate.String(), cfg.HealthInsuranceRate.String(),
		cfg.UnemploymentInsuranceRate.String(), cfg.Active)
	return err
}

func (s *PayrollStore) GetSalaryConfig(ctx context.Context, employeeID string) (payroll.SalaryConfig, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+salaryConfigCols+` FROM payroll_salary_configs WHERE employee_id = ?`,
		employeeID)
	cfg, err := scanSalaryConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.SalaryConfig{}, payroll.ErrSalaryConfigNotFound
	}
	return cfg, err
}

func (s *PayrollStore) ListActiveSalaryConfigs(ctx context.Context) ([]payroll.SalaryConfig, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+salaryConfigCols+` FROM payroll_salary_configs
		 WHERE active = TRUE ORDER BY employee_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.SalaryConfig
	for rows.Next() {
		cfg, err := scanSalaryConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

// =============================================================================
// SLIPS
// =============================================================================

const slipCols = `id, period_id, employee_id, work_days, regular_hours, overtime_hours,
	paid_leave_days, unpaid_leave_days, absent_days, base_earnings, overtime_earnings,
	allowances_amount, allowance_details_json, gross_pay, social_insurance,
	health_insurance, unemployment_insurance, absence_deduction, total_deductions,
	adjustment_amount, net_pay, status, confirmed_at, confirmed_late, disputed_at,
	dispute_reason, resolved_at, resolution, created_at, updated_at`

func scanSlip(row interface{ Scan(...any) error }) (payroll.Slip, error) {
	var sl payroll.Slip
	var workDays, regHours, otHours, paidLeave, unpaidLeave, absent string
	var baseEarn, otEarn, allowances, gross, social, health, unemployment string
	var absenceDed, totalDed, adjAmount, net string
	var detailsJSON, confirmedAt, disputedAt, disputeReason, resolvedAt, resolution sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&sl.ID, &sl.PeriodID, &sl.EmployeeID, &workDays, &regHours, &otHours,
		&paidLeave, &unpaidLeave, &absent, &baseEarn, &otEarn,
		&allowances, &detailsJSON, &gross, &social,
		&health, &unemployment, &absenceDed, &totalDed,
		&adjAmount, &net, &sl.Status, &confirmedAt, &sl.ConfirmedLate, &disputedAt,
		&disputeReason, &resolvedAt, &resolution, &createdAt, &updatedAt)
	if err != nil {
		return payroll.Slip{}, err
	}

	sl.WorkDays = parseDecimal(workDays)
	sl.RegularHours = parseDecimal(regHours)
	sl.OvertimeHours = parseDecimal(otHours)
	sl.PaidLeaveDays = parseDecimal(paidLeave)
	sl.UnpaidLeaveDays = parseDecimal(unpaidLeave)
	sl.AbsentDays = parseDecimal(absent)
	sl.BaseEarnings = parseDecimal(baseEarn)
	sl.OvertimeEarnings = parseDecimal(otEarn)
	sl.AllowancesAmount = parseDecimal(allowances)
	sl.GrossPay = parseDecimal(gross)
	sl.SocialInsurance = parseDecimal(social)
	sl.HealthInsurance = parseDecimal(health)
	sl.UnemploymentInsurance = parseDecimal(unemployment)
	sl.AbsenceDeduction = parseDecimal(absenceDed)
	sl.TotalDeductions = parseDecimal(totalDed)
	sl.AdjustmentAmount = parseDecimal(adjAmount)
	sl.NetPay = parseDecimal(net)

	details, err := unmarshalAllowances(detailsJSON)
	if err != nil {
		return payroll.Slip{}, err
	}
	sl.AllowanceDetails = details

	sl.ConfirmedAt = parseNullTime(confirmedAt)
	sl.DisputedAt = parseNullTime(disputedAt)
	sl.DisputeReason = strOrEmpty(disputeReason)
	sl.ResolvedAt = parseNullTime(resolvedAt)
	sl.Resolution = strOrEmpty(resolution)
	sl.CreatedAt = parseTime(createdAt)
	sl.UpdatedAt = parseTime(updatedAt)
	return sl, nil
}

func (s *PayrollStore) slipArgs(sl payroll.Slip) ([]any, error) {
	detailsJSON, err := marshalAllowances(sl.AllowanceDetails)
	if err != nil {
		return nil, err
	}
	return []any{
		sl.ID, sl.PeriodID, sl.EmployeeID,
		sl.WorkDays.String(), sl.RegularHours.String(), sl.OvertimeHours.String(),
		sl.PaidLeaveDays.String(), sl.UnpaidLeaveDays.String(), sl.AbsentDays.String(),
		sl.BaseEarnings.String(), sl.OvertimeEarnings.String(),
		sl.AllowancesAmount.String(), detailsJSON, sl.GrossPay.String(),
		sl.SocialInsurance.String(), sl.HealthInsurance.String(),
		sl.UnemploymentInsurance.String(), sl.AbsenceDeduction.String(),
		sl.TotalDeductions.String(), sl.AdjustmentAmount.String(), sl.NetPay.String(),
		string(sl.Status), fmtNullTime(sl.ConfirmedAt), sl.ConfirmedLate,
		fmtNullTime(sl.DisputedAt), nullStr(sl.DisputeReason),
		fmtNullTime(sl.ResolvedAt), nullStr(sl.Resolution),
		fmtTime(sl.CreatedAt), fmtTime(sl.UpdatedAt),
	}, nil
}

func (s *PayrollStore) UpsertSlip(ctx context.Context, sl payroll.Slip) error {
	args, err := s.slipArgs(sl)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx,
		`INSERT INTO payroll_slips (`+slipCols+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(period_id, employee_id) DO UPDATE SET
		        work_days = excluded.work_days,
		        regular_hours = excluded.regular_hours,
		        overtime_hours = excluded.overtime_hours,
		        paid_leave_days = excluded.paid_leave_days,
		        unpaid_leave_days = excluded.unpaid_leave_days,
		        absent_days = excluded.absent_days,
		        base_earnings = excluded.base_earnings,
		        overtime_earnings = excluded.overtime_earnings,
		        allowances_amount = excluded.allowances_amount,
		        allowance_details_json = excluded.allowance_details_json,
		        gross_pay = excluded.gross_pay,
		        social_insurance = excluded.social_insurance,
		        health_insurance = excluded.health_insurance,
		        unemployment_insurance = excluded.unemployment_insurance,
		        absence_deduction = excluded.absence_deduction,
		        total_deductions = excluded.total_deductions,
		        adjustment_amount = excluded.adjustment_amount,
		        net_pay = excluded.net_pay,
		        status = excluded.status,
		        confirmed_at = excluded.confirmed_at,
		        confirmed_late = excluded.confirmed_late,
		        disputed_at = excluded.disputed_at,
		        dispute_reason = excluded.dispute_reason,
		        resolved_at = excluded.resolved_at,
		        resolution = excluded.resolution,
		        updated_at = excluded.updated_at`,
		args...)
	return err
}

func (s *PayrollStore) GetSlip(ctx context.Context, id string) (payroll.Slip, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+slipCols+` FROM payroll_slips WHERE id = ?`, id)
	sl, err := scanSlip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.Slip{}, payroll.ErrSlipNotFound
	}
	return sl, err
}

func (s *PayrollStore) FindSlip(ctx context.Context, periodID, employeeID string) (payroll.Slip, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+slipCols+` FROM payroll_slips WHERE period_id = ? AND employee_id = ?`,
		periodID, employeeID)
	sl, err := scanSlip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.Slip{}, payroll.ErrSlipNotFound
	}
	return sl, err
}

func (s *PayrollStore) SlipsByPeriod(ctx context.Context, periodID string) ([]payroll.Slip, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+slipCols+` FROM payroll_slips WHERE period_id = ? ORDER BY employee_id ASC`,
		periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Slip
	for rows.Next() {
		sl, err := scanSlip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

func (s *PayrollStore) UpdateSlip(ctx context.Context, sl payroll.Slip) error {
	detailsJSON, err := marshalAllowances(sl.AllowanceDetails)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		`UPDATE payroll_slips SET
		        work_days = ?, regular_hours = ?, overtime_hours = ?,
		        paid_leave_days = ?, unpaid_leave_days = ?, absent_days = ?,
		        base_earnings = ?, overtime_earnings = ?,
		        allowances_amount = ?, allowance_details_json = ?, gross_pay = ?,
		        social_insurance = ?, health_insurance = ?, unemployment_insurance = ?,
		        absence_deduction = ?, total_deductions = ?,
		        adjustment_amount = ?, net_pay = ?, status = ?,
		        confirmed_at = ?, confirmed_late = ?,
		        disputed_at = ?, dispute_reason = ?, resolved_at = ?, resolution = ?,
		        updated_at = ?
		 WHERE id = ?`,
		sl.WorkDays.String(), sl.RegularHours.String(), sl.OvertimeHours.String(),
		sl.PaidLeaveDays.String(), sl.UnpaidLeaveDays.String(), sl.AbsentDays.String(),
		sl.BaseEarnings.String(), sl.OvertimeEarnings.String(),
		sl.AllowancesAmount.String(), detailsJSON, sl.GrossPay.String(),
		sl.SocialInsurance.String(), sl.HealthInsurance.String(),
		sl.UnemploymentInsurance.String(), sl.AbsenceDeduction.String(),
		sl.TotalDeductions.String(), sl.AdjustmentAmount.String(), sl.NetPay.String(),
		string(sl.Status), fmtNullTime(sl.ConfirmedAt), sl.ConfirmedLate,
		fmtNullTime(sl.DisputedAt), nullStr(sl.DisputeReason),
		fmtNullTime(sl.ResolvedAt), nullStr(sl.Resolution),
		fmtTime(sl.UpdatedAt), sl.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return payroll.ErrSlipNotFound
	}
	return nil
}

// =============================================================================
// ADJUSTMENTS (append-only)
// =============================================================================

func (s *PayrollStore) AppendAdjustment(ctx context.Context, a payroll.Adjustment) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO payroll_adjustments
		        (id, slip_id, adjustment_type, amount, reason,
		         previous_net_pay, new_net_pay, actor_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.SlipID, string(a.Type), a.Amount.String(), a.Reason,
		a.PreviousNetPay.String(), a.NewNetPay.String(), nullStr(a.ActorID),
		fmtTime(a.CreatedAt))
	return err
}

func (s *PayrollStore) AdjustmentsBySlip(ctx context.Context, slipID string) ([]payroll.Adjustment, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, slip_id, adjustment_type, amount, reason,
		        previous_net_pay, new_net_pay, actor_id, created_at
		 FROM payroll_adjustments
		 WHERE slip_id = ? ORDER BY created_at ASC, id ASC`, slipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Adjustment
	for rows.Next() {
		var a payroll.Adjustment
		var amount, prev, next, createdAt string
		var actorID sql.NullString
		if err := rows.Scan(&a.ID, &a.SlipID, &a.Type, &amount, &a.Reason,
			&prev, &next, &actorID, &createdAt); err != nil {
			return nil, err
		}
		a.Amount = parseDecimal(amount)
		a.PreviousNetPay = parseDecimal(prev)
		a.NewNetPay = parseDecimal(next)
		a.ActorID = strOrEmpty(actorID)
		a.CreatedAt = parseTime(createdAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (s *PayrollStore) UpsertAttendance(ctx context.Context, periodID, employeeID string, att payroll.AttendanceSummary) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO payroll_attendance
		        (period_id, employee_id, total_days, regular_days, check_in_only_days,
		         check_out_only_days, paid_leave_days, unpaid_leave_days, absent_days,
		         total_regular_hours, total_overtime_hours)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(period_id, employee_id) DO UPDATE SET
		        total_days = excluded.total_days,
		        regular_days = excluded.regular_days,
		        check_in_only_days = excluded.check_in_only_days,
		        check_out_only_days = excluded.check_out_only_days,
		        paid_leave_days = excluded.paid_leave_days,
		        unpaid_leave_days = excluded.unpaid_leave_days,
		        absent_days = excluded.absent_days,
		        total_regular_hours = excluded.total_regular_hours,
		        total_overtime_hours = excluded.total_overtime_hours`,
		periodID, employeeID, att.TotalDays.String(), att.RegularDays.String(),
		att.CheckInOnlyDays.String(), att.CheckOutOnlyDays.String(),
		att.PaidLeaveDays.String(), att.UnpaidLeaveDays.String(), att.AbsentDays.String(),
		att.TotalRegularHours.String(), att.TotalOvertimeHours.String())
	return err
}

func (s *PayrollStore) GetAttendance(ctx context.Context, periodID, employeeID string) (payroll.AttendanceSummary, error) {
	var att payroll.AttendanceSummary
	var total, regular, checkIn, checkOut, paidLeave, unpaidLeave, absent string
	var regHours, otHours string

	err := s.q.QueryRowContext(ctx,
		`SELECT total_days, regular_days, check_in_only_days, check_out_only_days,
		        paid_leave_days, unpaid_leave_days, absent_days,
		        total_regular_hours, total_overtime_hours
		 FROM payroll_attendance WHERE period_id = ? AND employee_id = ?`,
		periodID, employeeID).
		Scan(&total, &regular, &checkIn, &checkOut, &paidLeave, &unpaidLeave, &absent,
			&regHours, &otHours)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.AttendanceSummary{}, payroll.ErrAttendanceNotFound
	}
	if err != nil {
		return payroll.AttendanceSummary{}, err
	}

	att.TotalDays = parseDecimal(total)
	att.RegularDays = parseDecimal(regular)
	att.CheckInOnlyDays = parseDecimal(checkIn)
	att.CheckOutOnlyDays = parseDecimal(checkOut)
	att.PaidLeaveDays = parseDecimal(paidLeave)
	att.UnpaidLeaveDays = parseDecimal(unpaidLeave)
	att.AbsentDays = parseDecimal(absent)
	att.TotalRegularHours = parseDecimal(regHours)
	att.TotalOvertimeHours = parseDecimal(otHours)
	return att, nil
}
