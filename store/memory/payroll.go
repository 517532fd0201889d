package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/motoshop/erp-engine/payroll"
)

// =============================================================================
// PAYROLL MEMORY STORE
// =============================================================================

type PayrollStore struct {
	mu sync.RWMutex

	periods     map[string]payroll.Period
	configs     map[string]payroll.SalaryConfig
	slips       map[string]payroll.Slip
	adjustments []payroll.Adjustment
	attendance  map[attKey]payroll.AttendanceSummary
}

type attKey struct {
	PeriodID   string
	EmployeeID string
}

func NewPayroll() *PayrollStore {
	return &PayrollStore{
		periods:    make(map[string]payroll.Period),
		configs:    make(map[string]payroll.SalaryConfig),
		slips:      make(map[string]payroll.Slip),
		attendance: make(map[attKey]payroll.AttendanceSummary),
	}
}

// Compile-time check.
var _ payroll.TxStore = (*PayrollStore)(nil)

// -----------------------------------------------------------------------------
// Periods
// -----------------------------------------------------------------------------

func (m *PayrollStore) InsertPeriod(_ context.Context, p payroll.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[p.ID] = p
	return nil
}

func (m *PayrollStore) GetPeriod(_ context.Context, id string) (payroll.Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getPeriodLocked(id)
}

func (m *PayrollStore) getPeriodLocked(id string) (payroll.Period, error) {
	p, ok := m.periods[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}

func (m *PayrollStore) FindPeriodByMonth(_ context.Context, year int, month time.Month) (payroll.Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findPeriodByMonthLocked(year, month)
}

func (m *PayrollStore) findPeriodByMonthLocked(year int, month time.Month) (payroll.Period, error) {
	for _, p := range m.periods {
		if p.Year == year && p.Month == month {
			return p, nil
		}
	}
	return payroll.Period{}, payroll.ErrPeriodNotFound
}

func (m *PayrollStore) UpdatePeriod(_ context.Context, p payroll.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updatePeriodLocked(p)
}

func (m *PayrollStore) updatePeriodLocked(p payroll.Period) error {
	if _, ok := m.periods[p.ID]; !ok {
		return payroll.ErrPeriodNotFound
	}
	m.periods[p.ID] = p
	return nil
}

func (m *PayrollStore) ListPeriods(_ context.Context) ([]payroll.Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listPeriodsLocked()
}

func (m *PayrollStore) listPeriodsLocked() ([]payroll.Period, error) {
	out := make([]payroll.Period, 0, len(m.periods))
	for _, p := range m.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

// -----------------------------------------------------------------------------
// Salary configs
// -----------------------------------------------------------------------------

func (m *PayrollStore) UpsertSalaryConfig(_ context.Context, cfg payroll.SalaryConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[cfg.EmployeeID] = cfg
	return nil
}

func (m *PayrollStore) GetSalaryConfig(_ context.Context, employeeID string) (payroll.SalaryConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getSalaryConfigLocked(employeeID)
}

func (m *PayrollStore) getSalaryConfigLocked(employeeID string) (payroll.SalaryConfig, error) {
	cfg, ok := m.configs[employeeID]
	if !ok {
		return payroll.SalaryConfig{}, payroll.ErrSalaryConfigNotFound
	}
	return cfg, nil
}

func (m *PayrollStore) ListActiveSalaryConfigs(_ context.Context) ([]payroll.SalaryConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listActiveSalaryConfigsLocked()
}

func (m *PayrollStore) listActiveSalaryConfigsLocked() ([]payroll.SalaryConfig, error) {
	out := make([]payroll.SalaryConfig, 0, len(m.configs))
	for _, cfg := range m.configs {
		if cfg.Active {
			out = append(out, cfg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

// -----------------------------------------------------------------------------
// Slips
// -----------------------------------------------------------------------------

func (m *PayrollStore) UpsertSlip(_ context.Context, s payroll.Slip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slips[s.ID] = s
	return nil
}

func (m *PayrollStore) GetSlip(_ context.Context, id string) (payroll.Slip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getSlipLocked(id)
}

func (m *PayrollStore) getSlipLocked(id string) (payroll.Slip, error) {
	s, ok := m.slips[id]
	if !ok {
		return payroll.Slip{}, payroll.ErrSlipNotFound
	}
	return s, nil
}

func (m *PayrollStore) FindSlip(_ context.Context, periodID, employeeID string) (payroll.Slip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findSlipLocked(periodID, employeeID)
}

func (m *PayrollStore) findSlipLocked(periodID, employeeID string) (payroll.Slip, error) {
	for _, s := range m.slips {
		if s.PeriodID == periodID && s.EmployeeID == employeeID {
			return s, nil
		}
	}
	return payroll.Slip{}, payroll.ErrSlipNotFound
}

func (m *PayrollStore) SlipsByPeriod(_ context.Context, periodID string) ([]payroll.Slip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slipsByPeriodLocked(periodID)
}

func (m *PayrollStore) slipsByPeriodLocked(periodID string) ([]payroll.Slip, error) {
	var out []payroll.Slip
	for _, s := range m.slips {
		if s.PeriodID == periodID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (m *PayrollStore) UpdateSlip(_ context.Context, s payroll.Slip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateSlipLocked(s)
}

func (m *PayrollStore) updateSlipLocked(s payroll.Slip) error {
	if _, ok := m.slips[s.ID]; !ok {
		return payroll.ErrSlipNotFound
	}
	m.slips[s.ID] = s
	return nil
}

// -----------------------------------------------------------------------------
// Adjustments (append-only)
// -----------------------------------------------------------------------------

func (m *PayrollStore) AppendAdjustment(_ context.Context, a payroll.Adjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjustments = append(m.adjustments, a)
	return nil
}

func (m *PayrollStore) AdjustmentsBySlip(_ context.Context, slipID string) ([]payroll.Adjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.adjustmentsBySlipLocked(slipID)
}

func (m *PayrollStore) adjustmentsBySlipLocked(slipID string) ([]payroll.Adjustment, error) {
	var out []payroll.Adjustment
	for _, a := range m.adjustments {
		if a.SlipID == slipID {
			out = append(out, a)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Attendance
// -----------------------------------------------------------------------------

func (m *PayrollStore) UpsertAttendance(_ context.Context, periodID, employeeID string, att payroll.AttendanceSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendance[attKey{periodID, employeeID}] = att
	return nil
}

func (m *PayrollStore) GetAttendance(_ context.Context, periodID, employeeID string) (payroll.AttendanceSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getAttendanceLocked(periodID, employeeID)
}

func (m *PayrollStore) getAttendanceLocked(periodID, employeeID string) (payroll.AttendanceSummary, error) {
	att, ok := m.attendance[attKey{periodID, employeeID}]
	if !ok {
		return payroll.AttendanceSummary{}, payroll.ErrAttendanceNotFound
	}
	return att, nil
}

// =============================================================================
// TRANSACTIONS - Snapshot + rollback on error
// =============================================================================

func (m *PayrollStore) WithTx(_ context.Context, fn func(payroll.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshotLocked()
	if err := fn(&payrollTxView{parent: m}); err != nil {
		m.restoreLocked(snapshot)
		return err
	}
	return nil
}

type payrollSnapshot struct {
	periods     map[string]payroll.Period
	configs     map[string]payroll.SalaryConfig
	slips       map[string]payroll.Slip
	adjustments []payroll.Adjustment
	attendance  map[attKey]payroll.AttendanceSummary
}

func (m *PayrollStore) snapshotLocked() payrollSnapshot {
	s := payrollSnapshot{
		periods:     make(map[string]payroll.Period, len(m.periods)),
		configs:     make(map[string]payroll.SalaryConfig, len(m.configs)),
		slips:       make(map[string]payroll.Slip, len(m.slips)),
		adjustments: append([]payroll.Adjustment{}, m.adjustments...),
		attendance:  make(map[attKey]payroll.AttendanceSummary, len(m.attendance)),
	}
	for k, v := range m.periods {
		s.periods[k] = v
	}
	for k, v := range m.configs {
		s.configs[k] = v
	}
	for k, v := range m.slips {
		s.slips[k] = v
	}
	for k, v := range m.attendance {
		s.attendance[k] = v
	}
	return s
}

func (m *PayrollStore) restoreLocked(s payrollSnapshot) {
	m.periods = s.periods
	m.configs = s.configs
	m.slips = s.slips
	m.adjustments = s.adjustments
	m.attendance = s.attendance
}

// payrollTxView runs against the already-locked parent.
type payrollTxView struct {
	parent *PayrollStore
}

func (v *payrollTxView) InsertPeriod(_ context.Context, p payroll.Period) error {
	v.parent.periods[p.ID] = p
	return nil
}
func (v *payrollTxView) GetPeriod(_ context.Context, id string) (payroll.Period, error) {
	return v.parent.getPeriodLocked(id)
}
func (v *payrollTxView) FindPeriodByMonth(_ context.Context, year int, month time.Month) (payroll.Period, error) {
	return v.parent.findPeriodByMonthLocked(year, month)
}
func (v *payrollTxView) UpdatePeriod(_ context.Context, p payroll.Period) error {
	return v.parent.updatePeriodLocked(p)
}
func (v *payrollTxView) ListPeriods(context.Context) ([]payroll.Period, error) {
	return v.parent.listPeriodsLocked()
}
func (v *payrollTxView) UpsertSalaryConfig(_ context.Context, cfg payroll.SalaryConfig) error {
	v.parent.configs[cfg.EmployeeID] = cfg
	return nil
}
func (v *payrollTxView) GetSalaryConfig(_ context.Context, employeeID string) (payroll.SalaryConfig, error) {
	return v.parent.getSalaryConfigLocked(employeeID)
}
func (v *payrollTxView) ListActiveSalaryConfigs(context.Context) ([]payroll.SalaryConfig, error) {
	return v.parent.listActiveSalaryConfigsLocked()
}
func (v *payrollTxView) UpsertSlip(_ context.Context, s payroll.Slip) error {
	v.parent.slips[s.ID] = s
	return nil
}
func (v *payrollTxView) GetSlip(_ context.Context, id string) (payroll.Slip, error) {
	return v.parent.getSlipLocked(id)
}
func (v *payrollTxView) FindSlip(_ context.Context, periodID, employeeID string) (payroll.Slip, error) {
	return v.parent.findSlipLocked(periodID, employeeID)
}
func (v *payrollTxView) SlipsByPeriod(_ context.Context, periodID string) ([]payroll.Slip, error) {
	return v.parent.slipsByPeriodLocked(periodID)
}
func (v *payrollTxView) UpdateSlip(_ context.Context, s payroll.Slip) error {
	return v.parent.updateSlipLocked(s)
}
func (v *payrollTxView) AppendAdjustment(_ context.Context, a payroll.Adjustment) error {
	v.parent.adjustments = append(v.parent.adjustments, a)
	return nil
}
func (v *payrollTxView) AdjustmentsBySlip(_ context.Context, slipID string) ([]payroll.Adjustment, error) {
	return v.parent.adjustmentsBySlipLocked(slipID)
}
func (v *payrollTxView) UpsertAttendance(_ context.Context, periodID, employeeID string, att payroll.AttendanceSummary) error {
	v.parent.attendance[attKey{periodID, employeeID}] = att
	return nil
}
func (v *payrollTxView) GetAttendance(_ context.Context, periodID, employeeID string) (payroll.AttendanceSummary, error) {
	return v.parent.getAttendanceLocked(periodID, employeeID)
}
