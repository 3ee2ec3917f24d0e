package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	requestService "github.com/cmlabs-hris/hris-attendance-go/internal/service/request"
	timesheetService "github.com/cmlabs-hris/hris-attendance-go/internal/service/timesheet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workflow struct {
	requests request.RequestService
	ledger   leave.Ledger
	employee user.User
	manager  user.User
}

// newWorkflow wires the request service over PostgreSQL with a paid quota of
// five days.
func newWorkflow(t *testing.T, s *TestDatabaseSetup) workflow {
	t.Helper()
	ctx := context.Background()
	wib := time.FixedZone("WIB", 7*3600)
	clk := clock.Fixed{T: time.Date(2024, 2, 1, 9, 0, 0, 0, wib)}

	tx := postgresql.NewTransactor(s.DB)
	users := postgresql.NewUserRepository(s.DB)
	shifts := postgresql.NewShiftRepository(s.DB)
	_, err := shifts.Create(ctx, shift.WorkShift{
		ID:             uuid.NewString(),
		Name:           "Regular",
		Type:           shift.ShiftTypeNormal,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MorningStart:   shift.MustTimeOfDay("08:00"),
		MorningEnd:     shift.MustTimeOfDay("12:00"),
		AfternoonStart: shift.MustTimeOfDay("13:30"),
		AfternoonEnd:   shift.MustTimeOfDay("17:30"),
		CreatedAt:      baseTime,
		UpdatedAt:      baseTime,
	})
	require.NoError(t, err)

	ledger := leaveService.NewLedgerService(tx, clk, leave.Policy{
		AnnualPaidQuota:  decimal.NewFromInt(5),
		UnpaidAllowance:  decimal.Zero,
		MaxCarryOverDays: decimal.NewFromInt(5),
		Accrual:          leave.AccrualYearly,
	}, postgresql.NewBalanceRepository(s.DB), postgresql.NewTransactionRepository(s.DB))
	rule := &attendance.BlockRule{MinutesPerBlock: 15, AmountPerBlock: decimal.NewFromInt(50000)}
	writer := timesheetService.NewWriter(tx, clk, wib, rule, shift.ShiftTypeNormal,
		postgresql.NewTimesheetRepository(s.DB), shifts)

	svc := requestService.NewRequestService(
		tx,
		clk,
		attendanceService.NewCalendar(time.Saturday, time.Sunday),
		users,
		postgresql.NewProjectRepository(s.DB),
		postgresql.NewRequestRepository(s.DB),
		ledger,
		writer,
		requestService.NewRoleAuthorizer(users),
		nil,
		request.Limits{MaxDays: 31, MaxAdvanceDays: 365, BackdateMaxDays: 30},
	)
	return workflow{
		requests: svc,
		ledger:   ledger,
		employee: createUser(t, s, user.RoleEmployee),
		manager:  createUser(t, s, user.RoleManager),
	}
}

// runConcurrently calls fn n times at once and returns the errors by index.
func runConcurrently(n int, fn func(i int) error) []error {
	errs := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}()
	}
	close(start)
	wg.Wait()
	return errs
}

func TestWorkflow_ConcurrentPaidApprovalsNeverOverdraw(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	w := newWorkflow(t, s)

	ids := make([]string, 0, 2)
	for _, start := range []string{"2024-02-05", "2024-02-12"} {
		end, _ := time.Parse("2006-01-02", start)
		res, err := w.requests.Create(ctx, request.CreateRequest{
			UserID:    w.employee.ID,
			Kind:      request.KindDayOff,
			StartDate: start,
			EndDate:   end.AddDate(0, 0, 2).Format("2006-01-02"),
			Title:     "Family trip",
			Duration:  string(request.DurationFullDay),
			LeaveType: string(leave.LeaveTypePaid),
		})
		require.NoError(t, err)
		ids = append(ids, res.Request.ID)
	}

	errs := runConcurrently(len(ids), func(i int) error {
		_, err := w.requests.Approve(ctx, request.KindDayOff, ids[i], w.manager.ID)
		return err
	})

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	}
	assert.Equal(t, 1, succeeded)

	b, err := w.ledger.GetBalance(ctx, w.employee.ID, 2024)
	require.NoError(t, err)
	assert.True(t, b.PaidLeaveBalance.Equal(decimal.NewFromInt(2)), "balance %s", b.PaidLeaveBalance)
	assert.False(t, b.PaidLeaveBalance.IsNegative())

	report, err := w.ledger.Reconcile(ctx, w.employee.ID, 2024)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestWorkflow_ConcurrentConflictingCreates(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	w := newWorkflow(t, s)

	const attempts = 4
	errs := runConcurrently(attempts, func(int) error {
		_, err := w.requests.Create(ctx, request.CreateRequest{
			UserID:     w.employee.ID,
			Kind:       request.KindRemoteWork,
			StartDate:  "2024-02-06",
			EndDate:    "2024-02-07",
			Title:      "Working from home",
			RemoteType: string(request.RemoteTypeRemote),
		})
		return err
	})

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var conflict *request.ConflictError
		assert.ErrorAs(t, err, &conflict)
	}
	assert.Equal(t, 1, succeeded)

	kind := request.KindRemoteWork
	items, total, err := w.requests.List(ctx, request.Filter{UserID: &w.employee.ID, Kind: &kind, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.EqualValues(t, 1, total)
}
