package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerServiceImpl struct {
	tx     database.Transactor
	clock  clock.Clock
	policy leave.Policy
	leave.BalanceRepository
	leave.TransactionRepository
}

func NewLedgerService(
	tx database.Transactor,
	clk clock.Clock,
	policy leave.Policy,
	balanceRepository leave.BalanceRepository,
	transactionRepository leave.TransactionRepository,
) leave.Ledger {
	return &LedgerServiceImpl{
		tx:                    tx,
		clock:                 clk,
		policy:                policy,
		BalanceRepository:     balanceRepository,
		TransactionRepository: transactionRepository,
	}
}

// GetBalance implements leave.Ledger. Without a stored row no usage can
// exist for the year, so the derived view is the opening grant.
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, userID string, year int) (leave.Balance, error) {
	b, err := s.BalanceRepository.GetByUserAndYear(ctx, userID, year)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, leave.ErrBalanceNotFound) {
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return leave.Balance{
		UserID:               userID,
		Year:                 year,
		PaidLeaveBalance:     s.policy.OpeningPaid(),
		UnpaidLeaveBalance:   s.policy.UnpaidAllowance,
		AnnualPaidLeaveQuota: s.policy.AnnualPaidQuota,
		CarryOverDays:        decimal.Zero,
	}, nil
}

// ApplyTransaction implements leave.Ledger.
func (s *LedgerServiceImpl) ApplyTransaction(ctx context.Context, in leave.ApplyInput) (leave.Transaction, error) {
	if err := in.Check(); err != nil {
		return leave.Transaction{}, err
	}

	var out leave.Transaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := s.lockBalance(ctx, in.UserID, in.Year)
		if err != nil {
			return err
		}
		out, err = s.post(ctx, &b, in)
		return err
	})
	if err != nil {
		return leave.Transaction{}, err
	}
	return out, nil
}

// CheckAvailable implements leave.Ledger. It is advisory and takes no lock.
func (s *LedgerServiceImpl) CheckAvailable(ctx context.Context, userID string, year int, days decimal.Decimal) (decimal.Decimal, bool, error) {
	b, err := s.GetBalance(ctx, userID, year)
	if err != nil {
		return decimal.Zero, false, err
	}
	return b.PaidLeaveBalance, b.PaidLeaveBalance.GreaterThanOrEqual(days), nil
}

// History implements leave.Ledger.
func (s *LedgerServiceImpl) History(ctx context.Context, userID string, year int) ([]leave.Transaction, error) {
	txns, err := s.TransactionRepository.ListByUserAndYear(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave transactions: %w", err)
	}
	return txns, nil
}

// Adjust implements leave.Ledger.
func (s *LedgerServiceImpl) Adjust(ctx context.Context, req leave.AdjustRequest) (leave.Transaction, error) {
	if err := req.Validate(); err != nil {
		return leave.Transaction{}, err
	}
	description := req.Description
	if req.AdjustedBy != "" {
		description = fmt.Sprintf("%s (by %s)", req.Description, req.AdjustedBy)
	}
	t, err := s.ApplyTransaction(ctx, leave.ApplyInput{
		UserID:          req.UserID,
		Year:            req.Year,
		TransactionType: leave.TransactionAdjusted,
		LeaveType:       leave.LeaveType(req.LeaveType),
		Amount:          req.ParsedAmount(),
		ReferenceType:   leave.ReferenceManual,
		Description:     description,
	})
	if err != nil {
		return leave.Transaction{}, err
	}
	slog.Info("Leave balance adjusted", "user_id", req.UserID, "year", req.Year, "leave_type", req.LeaveType, "amount", t.Amount.String(), "by", req.AdjustedBy)
	return t, nil
}

// Reconcile implements leave.Ledger. It never writes.
func (s *LedgerServiceImpl) Reconcile(ctx context.Context, userID string, year int) (leave.ReconcileReport, error) {
	b, err := s.GetBalance(ctx, userID, year)
	if err != nil {
		return leave.ReconcileReport{}, err
	}
	report := leave.ReconcileReport{
		UserID:       userID,
		Year:         year,
		CachedPaid:   b.PaidLeaveBalance,
		CachedUnpaid: b.UnpaidLeaveBalance,
		LedgerPaid:   decimal.Zero,
		LedgerUnpaid: decimal.Zero,
	}
	if !b.Persisted() {
		report.LedgerPaid, report.LedgerUnpaid = b.PaidLeaveBalance, b.UnpaidLeaveBalance
		report.Consistent = true
		return report, nil
	}

	if report.LedgerPaid, err = s.TransactionRepository.Sum(ctx, userID, year, leave.LeaveTypePaid); err != nil {
		return leave.ReconcileReport{}, fmt.Errorf("failed to sum paid transactions: %w", err)
	}
	if report.LedgerUnpaid, err = s.TransactionRepository.Sum(ctx, userID, year, leave.LeaveTypeUnpaid); err != nil {
		return leave.ReconcileReport{}, fmt.Errorf("failed to sum unpaid transactions: %w", err)
	}
	report.Consistent = report.CachedPaid.Equal(report.LedgerPaid) && report.CachedUnpaid.Equal(report.LedgerUnpaid)
	if !report.Consistent {
		slog.Warn("Leave balance drift detected", "user_id", userID, "year", year,
			"cached_paid", report.CachedPaid.String(), "ledger_paid", report.LedgerPaid.String())
	}
	return report, nil
}

// ResetYear implements leave.Ledger. It opens year with the annual grant
// and carries over min(previous remaining, MaxCarryOverDays). Running it
// twice for the same year is a no-op.
func (s *LedgerServiceImpl) ResetYear(ctx context.Context, userID string, year int) (leave.Balance, error) {
	var out leave.Balance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Years are locked in ascending order, as a day-off spanning the
		// boundary does.
		carry := decimal.Zero
		prev, err := s.BalanceRepository.GetForUpdate(ctx, userID, year-1)
		switch {
		case err == nil:
			carry = decimal.Max(decimal.Zero, decimal.Min(prev.PaidLeaveBalance, s.policy.MaxCarryOverDays))
		case !errors.Is(err, leave.ErrBalanceNotFound):
			return fmt.Errorf("failed to get previous balance: %w", err)
		}

		b, err := s.lockBalance(ctx, userID, year)
		if err != nil {
			return err
		}
		if b.LastResetDate != nil {
			out = b
			return nil
		}

		if carry.IsPositive() {
			ref := fmt.Sprintf("%d", year-1)
			if _, err := s.post(ctx, &b, leave.ApplyInput{
				UserID:          userID,
				Year:            year,
				TransactionType: leave.TransactionCarryOver,
				LeaveType:       leave.LeaveTypePaid,
				Amount:          carry,
				ReferenceType:   leave.ReferenceYearReset,
				ReferenceID:     &ref,
				Description:     fmt.Sprintf("Carry over from %d", year-1),
			}); err != nil {
				return err
			}
		}

		today := clock.Today(s.clock)
		b.LastResetDate = &today
		b.UpdatedAt = s.clock.Now()
		if err := s.BalanceRepository.Update(ctx, b); err != nil {
			return fmt.Errorf("failed to update leave balance: %w", err)
		}
		out = b
		slog.Info("Leave year reset", "user_id", userID, "year", year, "carry_over", carry.String())
		return nil
	})
	if err != nil {
		return leave.Balance{}, err
	}
	return out, nil
}

// AccrueMonthly implements leave.Ledger. Only active in monthly mode and
// at most once per user and month. Returns nil when nothing was posted.
func (s *LedgerServiceImpl) AccrueMonthly(ctx context.Context, userID string, year int, month time.Month) (*leave.Transaction, error) {
	if s.policy.Accrual != leave.AccrualMonthly {
		return nil, nil
	}
	amount := s.policy.MonthlyAccrual()
	if !amount.IsPositive() {
		return nil, nil
	}
	ref := fmt.Sprintf("%04d-%02d", year, int(month))

	var out *leave.Transaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := s.lockBalance(ctx, userID, year)
		if err != nil {
			return err
		}
		exists, err := s.TransactionRepository.ExistsByReference(ctx, userID, year, leave.ReferenceMonthlyAccrual, ref)
		if err != nil {
			return fmt.Errorf("failed to check accrual: %w", err)
		}
		if exists {
			return nil
		}
		t, err := s.post(ctx, &b, leave.ApplyInput{
			UserID:          userID,
			Year:            year,
			TransactionType: leave.TransactionEarned,
			LeaveType:       leave.LeaveTypePaid,
			Amount:          amount,
			ReferenceType:   leave.ReferenceMonthlyAccrual,
			ReferenceID:     &ref,
			Description:     "Monthly accrual " + ref,
		})
		if err != nil {
			return err
		}
		out = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lockBalance returns the year's balance locked for update, opening it
// with the policy grants on first use. Must run inside a transaction.
func (s *LedgerServiceImpl) lockBalance(ctx context.Context, userID string, year int) (leave.Balance, error) {
	b, err := s.BalanceRepository.GetForUpdate(ctx, userID, year)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, leave.ErrBalanceNotFound) {
		return leave.Balance{}, fmt.Errorf("failed to lock leave balance: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to generate balance id: %w", err)
	}
	now := s.clock.Now()
	created, err := s.BalanceRepository.Create(ctx, leave.Balance{
		ID:                   id.String(),
		UserID:               userID,
		Year:                 year,
		PaidLeaveBalance:     decimal.Zero,
		UnpaidLeaveBalance:   decimal.Zero,
		AnnualPaidLeaveQuota: s.policy.AnnualPaidQuota,
		CarryOverDays:        decimal.Zero,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	b, err = s.BalanceRepository.GetForUpdate(ctx, userID, year)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to lock leave balance: %w", err)
	}
	if !created {
		return b, nil
	}

	if grant := s.policy.OpeningPaid(); grant.IsPositive() {
		if _, err := s.post(ctx, &b, leave.ApplyInput{
			UserID:          userID,
			Year:            year,
			TransactionType: leave.TransactionEarned,
			LeaveType:       leave.LeaveTypePaid,
			Amount:          grant,
			ReferenceType:   leave.ReferenceAnnualGrant,
			Description:     fmt.Sprintf("Annual paid leave quota %d", year),
		}); err != nil {
			return leave.Balance{}, err
		}
	}
	if s.policy.UnpaidAllowance.IsPositive() {
		if _, err := s.post(ctx, &b, leave.ApplyInput{
			UserID:          userID,
			Year:            year,
			TransactionType: leave.TransactionEarned,
			LeaveType:       leave.LeaveTypeUnpaid,
			Amount:          s.policy.UnpaidAllowance,
			ReferenceType:   leave.ReferenceUnpaidGrant,
			Description:     fmt.Sprintf("Unpaid leave allowance %d", year),
		}); err != nil {
			return leave.Balance{}, err
		}
	}
	slog.Info("Leave balance opened", "user_id", userID, "year", year, "paid", b.PaidLeaveBalance.String())
	return b, nil
}

// post applies in to the locked balance b and appends the ledger row.
func (s *LedgerServiceImpl) post(ctx context.Context, b *leave.Balance, in leave.ApplyInput) (leave.Transaction, error) {
	if err := in.Check(); err != nil {
		return leave.Transaction{}, err
	}
	current := b.Amount(in.LeaveType)
	if in.LeaveType == leave.LeaveTypePaid && in.Amount.IsNegative() && current.Add(in.Amount).IsNegative() {
		return leave.Transaction{}, &leave.InsufficientBalanceError{
			Requested: in.Amount.Neg(),
			Remaining: current,
		}
	}

	now := s.clock.Now()
	after := b.Post(in.LeaveType, in.TransactionType, in.Amount)
	b.UpdatedAt = now
	if err := s.BalanceRepository.Update(ctx, *b); err != nil {
		return leave.Transaction{}, fmt.Errorf("failed to update leave balance: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.Transaction{}, fmt.Errorf("failed to generate transaction id: %w", err)
	}
	t, err := s.TransactionRepository.Append(ctx, leave.Transaction{
		ID:              id.String(),
		UserID:          in.UserID,
		Year:            in.Year,
		TransactionType: in.TransactionType,
		LeaveType:       in.LeaveType,
		Amount:          in.Amount,
		BalanceAfter:    after,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		Description:     in.Description,
		CreatedAt:       now,
	})
	if err != nil {
		return leave.Transaction{}, fmt.Errorf("failed to append leave transaction: %w", err)
	}
	slog.Debug("Leave transaction posted", "user_id", in.UserID, "year", in.Year,
		"type", in.TransactionType, "leave_type", in.LeaveType, "amount", in.Amount.String(), "balance_after", after.String())
	return t, nil
}
