package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	activeUser   = "0190a1b2-0000-7000-8000-000000000001"
	inactiveUser = "0190a1b2-0000-7000-8000-000000000002"
)

func newLeaveJobs(t *testing.T, accrual leave.AccrualMethod) (*LeaveJobs, leave.Ledger) {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	for _, u := range []user.User{
		{ID: activeUser, Role: user.RoleEmployee, IsActive: true},
		{ID: inactiveUser, Role: user.RoleEmployee, IsActive: false},
	} {
		_, err := users.Create(ctx, u)
		require.NoError(t, err)
	}

	clk := clock.Fixed{T: time.Date(2025, 1, 2, 0, 30, 0, 0, time.UTC)}
	ledger := leaveService.NewLedgerService(memory.NewTransactor(store), clk, leave.Policy{
		AnnualPaidQuota:  decimal.NewFromInt(12),
		MaxCarryOverDays: decimal.NewFromInt(5),
		Accrual:          accrual,
	}, memory.NewBalanceRepository(store), memory.NewTransactionRepository(store))

	return NewLeaveJobs(ledger, users, clk, accrual), ledger
}

func TestLeaveJobs_ResetYear(t *testing.T) {
	ctx := context.Background()
	jobs, ledger := newLeaveJobs(t, leave.AccrualYearly)

	_, err := ledger.ApplyTransaction(ctx, leave.ApplyInput{
		UserID:          activeUser,
		Year:            2024,
		TransactionType: leave.TransactionUsed,
		LeaveType:       leave.LeaveTypePaid,
		Amount:          decimal.NewFromInt(-4),
		ReferenceType:   leave.ReferenceDayOffRequest,
	})
	require.NoError(t, err)

	scheduler := NewScheduler()
	jobs.RegisterJobs(scheduler)
	require.NoError(t, scheduler.RunOnce(ctx))
	require.NoError(t, scheduler.RunOnce(ctx))

	b, err := ledger.GetBalance(ctx, activeUser, 2025)
	require.NoError(t, err)
	assert.Equal(t, "17", b.PaidLeaveBalance.String())
	assert.Equal(t, "5", b.CarryOverDays.String())
	require.NotNil(t, b.LastResetDate)

	history, err := ledger.History(ctx, inactiveUser, 2025)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestLeaveJobs_AccrueMonthly(t *testing.T) {
	ctx := context.Background()
	jobs, ledger := newLeaveJobs(t, leave.AccrualMonthly)

	require.NoError(t, jobs.AccrueMonthly(ctx))
	require.NoError(t, jobs.AccrueMonthly(ctx))

	history, err := ledger.History(ctx, activeUser, 2025)
	require.NoError(t, err)

	var accruals int
	for _, txn := range history {
		if txn.ReferenceType == leave.ReferenceMonthlyAccrual {
			accruals++
			assert.Equal(t, "1", txn.Amount.String())
		}
	}
	assert.Equal(t, 1, accruals)
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler()
	ran := make(chan struct{}, 1)
	scheduler.AddJob("heartbeat", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	scheduler.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	scheduler.Stop()
}
