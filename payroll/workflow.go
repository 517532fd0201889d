/*
workflow.go - Payroll workflow engine

PURPOSE:
  State machine over a payroll period and its per-employee slips.

STATES:
  Period: draft -> published -> finalized -> paid  (strictly forward)
  Slip:   draft -> published -> {confirmed | disputed} -> finalized -> paid
          disputed -> published is the ONE backward edge, taken only
          via dispute resolution.

GUARDS:
  Every transition rejects with a TransitionError naming the current
  and required state when invoked out of order. Confirm/dispute are
  owner-only. Finalize refuses while disputes are open and demands an
  override reason when slips remain unconfirmed.

GENERATION:
  Best-effort per-employee loop: each employee's attendance pull,
  calculation, and slip upsert proceeds independently; failures are
  collected and returned alongside the success count. Re-runnable
  while the period is draft (slips are upserted, not duplicated).

SEE ALSO:
  - calc.go: The per-employee calculator
  - types.go: Period, Slip, Adjustment
  - errors.go: Guard errors
*/
package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine drives the payroll workflow. Multi-write transitions run
// inside store transactions; generation is deliberately best-effort.
type Engine struct {
	store      TxStore
	attendance AttendanceSource

	// Injectable for tests.
	now   func() time.Time
	newID func() string
}

// NewEngine creates a payroll engine. A nil attendance source defaults
// to reading upserted summaries from the store.
func NewEngine(store TxStore, attendance AttendanceSource) *Engine {
	if attendance == nil {
		attendance = StoreAttendance{Store: store}
	}
	return &Engine{
		store:      store,
		attendance: attendance,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.NewString() },
	}
}

// Days after month end the employees get to confirm their slips.
const confirmationGraceDays = 5

// =============================================================================
// PERIOD CREATION
// =============================================================================

// CreatePeriod opens a new draft period for a calendar month. The
// year+month pair is unique.
func (e *Engine) CreatePeriod(ctx context.Context, year int, month time.Month, notes, actorID string) (Period, error) {
	if year < 2000 || month < time.January || month > time.December {
		return Period{}, ErrInvalidPeriod
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	p := Period{
		ID:                   e.newID(),
		Year:                 year,
		Month:                month,
		Code:                 fmt.Sprintf("PR-%04d%02d", year, month),
		Name:                 fmt.Sprintf("Payroll %04d-%02d", year, month),
		StartDate:            start,
		EndDate:              end,
		ConfirmationDeadline: end.AddDate(0, 0, confirmationGraceDays),
		Status:               PeriodDraft,
		Notes:                notes,
		CreatedBy:            actorID,
		CreatedAt:            e.now(),
	}

	err := e.store.WithTx(ctx, func(s Store) error {
		if _, err := s.FindPeriodByMonth(ctx, year, month); err == nil {
			return ErrDuplicatePeriod
		} else if !errors.Is(err, ErrPeriodNotFound) {
			return err
		}
		return s.InsertPeriod(ctx, p)
	})
	if err != nil {
		return Period{}, err
	}
	return p, nil
}

// =============================================================================
// GENERATION - Best-effort per-employee loop
// =============================================================================

// GenerateFailure records one employee whose slip could not be built.
type GenerateFailure struct {
	EmployeeID string
	Err        string
}

// GenerateResult reports the partial-success outcome of a run.
type GenerateResult struct {
	Generated int
	Failures  []GenerateFailure
}

// Generate builds (or rebuilds) a slip for every active employee with a
// salary config. The period must be draft. Per-employee failures are
// collected, not raised, so one bad attendance record never aborts the
// whole run.
func (e *Engine) Generate(ctx context.Context, periodID, actorID string) (GenerateResult, error) {
	period, err := e.store.GetPeriod(ctx, periodID)
	if err != nil {
		return GenerateResult{}, err
	}
	if period.Status != PeriodDraft {
		return GenerateResult{}, &TransitionError{Entity: "period", ID: periodID, Current: string(period.Status), Required: string(PeriodDraft)}
	}

	configs, err := e.store.ListActiveSalaryConfigs(ctx)
	if err != nil {
		return GenerateResult{}, err
	}

	var result GenerateResult
	for _, cfg := range configs {
		if err := e.generateSlip(ctx, period, cfg); err != nil {
			result.Failures = append(result.Failures, GenerateFailure{
				EmployeeID: cfg.EmployeeID,
				Err:        err.Error(),
			})
			continue
		}
		result.Generated++
	}
	return result, nil
}

// generateSlip upserts one employee's draft slip inside its own
// transaction: the attendance pull, calculation, and write succeed or
// fail together for that employee only.
func (e *Engine) generateSlip(ctx context.Context, period Period, cfg SalaryConfig) error {
	att, err := e.attendance.AttendanceSummary(ctx, period.ID, cfg.EmployeeID)
	if err != nil {
		return err
	}
	breakdown, err := Calculate(cfg, att)
	if err != nil {
		return err
	}

	return e.store.WithTx(ctx, func(s Store) error {
		now := e.now()
		slip := Slip{
			ID:               e.newID(),
			PeriodID:         period.ID,
			EmployeeID:       cfg.EmployeeID,
			Breakdown:        breakdown,
			AdjustmentAmount: decimal.Zero,
			Status:           SlipDraft,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		// Regeneration while draft replaces the slip in place.
		if existing, err := s.FindSlip(ctx, period.ID, cfg.EmployeeID); err == nil {
			slip.ID = existing.ID
			slip.CreatedAt = existing.CreatedAt
		} else if !errors.Is(err, ErrSlipNotFound) {
			return err
		}
		return s.UpsertSlip(ctx, slip)
	})
}

// =============================================================================
// PUBLISH
// =============================================================================

// PublishPeriod releases a draft period: the period and all of its
// draft slips move to published. Requires at least one generated slip.
func (e *Engine) PublishPeriod(ctx context.Context, periodID, actorID string) (Period, error) {
	var published Period
	err := e.store.WithTx(ctx, func(s Store) error {
		period, err := s.GetPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if period.Status != PeriodDraft {
			return &TransitionError{Entity: "period", ID: periodID, Current: string(period.Status), Required: string(PeriodDraft)}
		}

		slips, err := s.SlipsByPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if len(slips) == 0 {
			return ErrNoSlips
		}

		now := e.now()
		for _, slip := range slips {
			if slip.Status != SlipDraft {
				continue
			}
			slip.Status = SlipPublished
			slip.UpdatedAt = now
			if err := s.UpdateSlip(ctx, slip); err != nil {
				return err
			}
		}

		period.Status = PeriodPublished
		period.PublishedBy = actorID
		period.PublishedAt = &now
		if err := s.UpdatePeriod(ctx, period); err != nil {
			return err
		}
		published = period
		return nil
	})
	if err != nil {
		return Period{}, err
	}
	return published, nil
}

// =============================================================================
// CONFIRM / DISPUTE
// =============================================================================

// ConfirmSlip records the employee's acceptance of their published
// slip. Only the slip's own employee may confirm; confirmations past
// the period's deadline are flagged late.
func (e *Engine) ConfirmSlip(ctx context.Context, slipID, actorID string) (Slip, error) {
	var confirmed Slip
	err := e.store.WithTx(ctx, func(s Store) error {
		slip, err := s.GetSlip(ctx, slipID)
		if err != nil {
			return err
		}
		if slip.Status != SlipPublished {
			return &TransitionError{Entity: "slip", ID: slipID, Current: string(slip.Status), Required: string(SlipPublished)}
		}
		if actorID != slip.EmployeeID {
			return ErrNotSlipOwner
		}

		period, err := s.GetPeriod(ctx, slip.PeriodID)
		if err != nil {
			return err
		}

		now := e.now()
		slip.Status = SlipConfirmed
		slip.ConfirmedAt = &now
		slip.ConfirmedLate = now.After(period.ConfirmationDeadline)
		slip.UpdatedAt = now
		if err := s.UpdateSlip(ctx, slip); err != nil {
			return err
		}
		confirmed = slip
		return nil
	})
	if err != nil {
		return Slip{}, err
	}
	return confirmed, nil
}

// DisputeSlip lets the slip's employee contest a published slip.
func (e *Engine) DisputeSlip(ctx context.Context, slipID, reason, actorID string) (Slip, error) {
	if reason == "" {
		return Slip{}, ErrMissingReason
	}

	var disputed Slip
	err := e.store.WithTx(ctx, func(s Store) error {
		slip, err := s.GetSlip(ctx, slipID)
		if err != nil {
			return err
		}
		if slip.Status != SlipPublished {
			return &TransitionError{Entity: "slip", ID: slipID, Current: string(slip.Status), Required: string(SlipPublished)}
		}
		if actorID != slip.EmployeeID {
			return ErrNotSlipOwner
		}

		now := e.now()
		slip.Status = SlipDisputed
		slip.DisputedAt = &now
		slip.DisputeReason = reason
		slip.UpdatedAt = now
		if err := s.UpdateSlip(ctx, slip); err != nil {
			return err
		}
		disputed = slip
		return nil
	})
	if err != nil {
		return Slip{}, err
	}
	return disputed, nil
}

// ResolveDispute returns a disputed slip to published, optionally
// applying a correction adjustment whose reason embeds the resolution.
func (e *Engine) ResolveDispute(ctx context.Context, slipID, resolution string, adjustment *decimal.Decimal, actorID string) (Slip, error) {
	if resolution == "" {
		return Slip{}, ErrMissingReason
	}

	var resolved Slip
	err := e.store.WithTx(ctx, func(s Store) error {
		slip, err := s.GetSlip(ctx, slipID)
		if err != nil {
			return err
		}
		if slip.Status != SlipDisputed {
			return &TransitionError{Entity: "slip", ID: slipID, Current: string(slip.Status), Required: string(SlipDisputed)}
		}

		now := e.now()
		slip.Status = SlipPublished
		slip.ResolvedAt = &now
		slip.Resolution = resolution
		slip.UpdatedAt = now

		if adjustment != nil && !adjustment.IsZero() {
			if err := e.applyAdjustment(ctx, s, &slip, AdjustmentCorrection, *adjustment,
				"dispute resolution: "+resolution, actorID); err != nil {
				return err
			}
		}

		if err := s.UpdateSlip(ctx, slip); err != nil {
			return err
		}
		resolved = slip
		return nil
	})
	if err != nil {
		return Slip{}, err
	}
	return resolved, nil
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// AdjustSlip applies a manual net-pay change. The amount is positive;
// deduction-type adjustments are stored as negative deltas. Rejected
// once the period is paid.
func (e *Engine) AdjustSlip(ctx context.Context, slipID string, typ AdjustmentType, amount decimal.Decimal, reason, actorID string) (Slip, error) {
	if !amount.IsPositive() || reason == "" {
		return Slip{}, ErrInvalidAdjustment
	}
	switch typ {
	case AdjustmentBonus, AdjustmentDeduction, AdjustmentCorrection:
	default:
		return Slip{}, ErrInvalidAdjustment
	}

	signed := amount
	if typ == AdjustmentDeduction {
		signed = amount.Neg()
	}

	var adjusted Slip
	err := e.store.WithTx(ctx, func(s Store) error {
		slip, err := s.GetSlip(ctx, slipID)
		if err != nil {
			return err
		}
		period, err := s.GetPeriod(ctx, slip.PeriodID)
		if err != nil {
			return err
		}
		if period.Status == PeriodPaid {
			return ErrPeriodPaid
		}

		if err := e.applyAdjustment(ctx, s, &slip, typ, signed, reason, actorID); err != nil {
			return err
		}
		slip.UpdatedAt = e.now()
		if err := s.UpdateSlip(ctx, slip); err != nil {
			return err
		}
		adjusted = slip
		return nil
	})
	if err != nil {
		return Slip{}, err
	}
	return adjusted, nil
}

// applyAdjustment appends the audit row and moves the slip's cumulative
// adjustment and net pay by the signed amount.
func (e *Engine) applyAdjustment(ctx context.Context, s Store, slip *Slip, typ AdjustmentType, signed decimal.Decimal, reason, actorID string) error {
	adj := Adjustment{
		ID:             e.newID(),
		SlipID:         slip.ID,
		Type:           typ,
		Amount:         signed,
		Reason:         reason,
		PreviousNetPay: slip.NetPay,
		NewNetPay:      slip.NetPay.Add(signed),
		ActorID:        actorID,
		CreatedAt:      e.now(),
	}
	if err := s.AppendAdjustment(ctx, adj); err != nil {
		return err
	}
	slip.AdjustmentAmount = slip.AdjustmentAmount.Add(signed)
	slip.NetPay = slip.NetPay.Add(signed)
	return nil
}

// =============================================================================
// FINALIZE / PAY
// =============================================================================

// FinalizePeriod freezes a published period. Fails while any slip is
// disputed; proceeding with unconfirmed slips requires a non-empty
// override reason. Published and confirmed slips move to finalized.
func (e *Engine) FinalizePeriod(ctx context.Context, periodID, overrideReason, actorID string) (Period, error) {
	var finalized Period
	err := e.store.WithTx(ctx, func(s Store) error {
		period, err := s.GetPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if period.Status != PeriodPublished {
			return &TransitionError{Entity: "period", ID: periodID, Current: string(period.Status), Required: string(PeriodPublished)}
		}

		slips, err := s.SlipsByPeriod(ctx, periodID)
		if err != nil {
			return err
		}

		unconfirmed := 0
		for _, slip := range slips {
			switch slip.Status {
			case SlipDisputed:
				return ErrDisputedSlips
			case SlipPublished:
				unconfirmed++
			}
		}
		if unconfirmed > 0 && overrideReason == "" {
			return ErrOverrideRequired
		}

		now := e.now()
		for _, slip := range slips {
			if slip.Status != SlipPublished && slip.Status != SlipConfirmed {
				continue
			}
			slip.Status = SlipFinalized
			slip.UpdatedAt = now
			if err := s.UpdateSlip(ctx, slip); err != nil {
				return err
			}
		}

		period.Status = PeriodFinalized
		period.FinalizedBy = actorID
		period.FinalizedAt = &now
		period.FinalizeOverrideReason = overrideReason
		if err := s.UpdatePeriod(ctx, period); err != nil {
			return err
		}
		finalized = period
		return nil
	})
	if err != nil {
		return Period{}, err
	}
	return finalized, nil
}

// MarkPaid records payment of a finalized period: the period and its
// finalized slips move to paid.
func (e *Engine) MarkPaid(ctx context.Context, periodID, paymentMethod, paymentReference, actorID string) (Period, error) {
	if paymentMethod == "" {
		return Period{}, ErrMissingPaymentMethod
	}

	var paid Period
	err := e.store.WithTx(ctx, func(s Store) error {
		period, err := s.GetPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if period.Status != PeriodFinalized {
			return &TransitionError{Entity: "period", ID: periodID, Current: string(period.Status), Required: string(PeriodFinalized)}
		}

		slips, err := s.SlipsByPeriod(ctx, periodID)
		if err != nil {
			return err
		}

		now := e.now()
		for _, slip := range slips {
			if slip.Status != SlipFinalized {
				continue
			}
			slip.Status = SlipPaid
			slip.UpdatedAt = now
			if err := s.UpdateSlip(ctx, slip); err != nil {
				return err
			}
		}

		period.Status = PeriodPaid
		period.PaidBy = actorID
		period.PaidAt = &now
		period.PaymentMethod = paymentMethod
		period.PaymentReference = paymentReference
		if err := s.UpdatePeriod(ctx, period); err != nil {
			return err
		}
		paid = period
		return nil
	})
	if err != nil {
		return Period{}, err
	}
	return paid, nil
}

// =============================================================================
// QUERIES & CONFIG
// =============================================================================

// Period returns one period by id.
func (e *Engine) Period(ctx context.Context, id string) (Period, error) {
	return e.store.GetPeriod(ctx, id)
}

// Periods lists all periods, newest first.
func (e *Engine) Periods(ctx context.Context) ([]Period, error) {
	return e.store.ListPeriods(ctx)
}

// Slips lists a period's slips.
func (e *Engine) Slips(ctx context.Context, periodID string) ([]Slip, error) {
	if _, err := e.store.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	return e.store.SlipsByPeriod(ctx, periodID)
}

// Slip returns one slip by id.
func (e *Engine) Slip(ctx context.Context, id string) (Slip, error) {
	return e.store.GetSlip(ctx, id)
}

// Adjustments returns a slip's adjustment log, oldest first.
func (e *Engine) Adjustments(ctx context.Context, slipID string) ([]Adjustment, error) {
	if _, err := e.store.GetSlip(ctx, slipID); err != nil {
		return nil, err
	}
	return e.store.AdjustmentsBySlip(ctx, slipID)
}

// SetSalaryConfig upserts an employee's salary configuration.
func (e *Engine) SetSalaryConfig(ctx context.Context, cfg SalaryConfig) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	return e.store.UpsertSalaryConfig(ctx, cfg)
}

// SalaryConfig returns one employee's salary configuration.
func (e *Engine) SalaryConfig(ctx context.Context, employeeID string) (SalaryConfig, error) {
	return e.store.GetSalaryConfig(ctx, employeeID)
}

// SalaryConfigs lists all active salary configurations.
func (e *Engine) SalaryConfigs(ctx context.Context) ([]SalaryConfig, error) {
	return e.store.ListActiveSalaryConfigs(ctx)
}

// RecordAttendance upserts an attendance summary for (period, employee).
func (e *Engine) RecordAttendance(ctx context.Context, periodID, employeeID string, att AttendanceSummary) error {
	if _, err := e.store.GetPeriod(ctx, periodID); err != nil {
		return err
	}
	return e.store.UpsertAttendance(ctx, periodID, employeeID, att)
}
