package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	baseTime = time.Date(2024, 2, 1, 2, 0, 0, 0, time.UTC)
	feb5     = time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
)

func createUser(t *testing.T, s *TestDatabaseSetup, role user.Role) user.User {
	t.Helper()
	id := uuid.NewString()
	u, err := postgresql.NewUserRepository(s.DB).Create(context.Background(), user.User{
		ID:       id,
		Email:    id + "@example.com",
		FullName: "Test " + string(role),
		Role:     role,
		IsActive: true,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(s.DB)

	created := createUser(t, s, user.RoleManager)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, got.Role)
	assert.True(t, got.CanApprove())

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestShiftRepository_ActiveForDate(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewShiftRepository(s.DB)

	newShift := func(start time.Time, morning string) shift.WorkShift {
		return shift.WorkShift{
			ID:             uuid.NewString(),
			Name:           "Shift " + morning,
			Type:           shift.ShiftTypeNormal,
			StartDate:      start,
			MorningStart:   shift.MustTimeOfDay(morning),
			MorningEnd:     shift.MustTimeOfDay("12:00"),
			AfternoonStart: shift.MustTimeOfDay("13:30"),
			AfternoonEnd:   shift.MustTimeOfDay("17:30"),
			CreatedAt:      baseTime,
			UpdatedAt:      baseTime,
		}
	}

	old, err := repo.Create(ctx, newShift(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "08:00"))
	require.NoError(t, err)
	assert.Equal(t, "08:00", old.MorningStart.String())

	_, err = repo.Create(ctx, newShift(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "09:00"))
	require.NoError(t, err)

	got, err := repo.GetActiveForDate(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, old.ID, got.ID)

	got, err = repo.GetActiveForDate(ctx, feb5)
	require.NoError(t, err)
	assert.Equal(t, "09:00", got.MorningStart.String())

	_, err = repo.GetActiveForDate(ctx, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)

	referenced, err := repo.IsReferenced(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, referenced)
}

func TestTimesheetRepository_EnsureAndUpdate(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	u := createUser(t, s, user.RoleEmployee)
	repo := postgresql.NewTimesheetRepository(s.DB)

	day := timesheet.TimesheetDay{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		WorkDate:  feb5,
		Type:      shift.ShiftTypeNormal,
		Status:    timesheet.StatusPending,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}

	created, err := repo.EnsureExists(ctx, day)
	require.NoError(t, err)
	assert.True(t, created)

	day.ID = uuid.NewString()
	created, err = repo.EnsureExists(ctx, day)
	require.NoError(t, err)
	assert.False(t, created)

	tx := postgresql.NewTransactor(s.DB)
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := repo.GetForUpdate(ctx, u.ID, feb5)
		if err != nil {
			return err
		}
		locked.LateMinutes = 30
		locked.LatePenalty = decimal.NewFromInt(50000)
		locked.PenaltyAmount = decimal.NewFromInt(50000)
		return repo.Update(ctx, locked)
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, u.ID, feb5)
	require.NoError(t, err)
	assert.Equal(t, 30, got.LateMinutes)
	assert.True(t, decimal.NewFromInt(50000).Equal(got.PenaltyAmount))

	from, to := dashboard.MonthRange(feb5)
	summary, err := postgresql.NewDashboardRepository(s.DB).GetMonthlySummary(ctx, u.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.LateDays)
	assert.True(t, decimal.NewFromInt(50000).Equal(summary.PenaltyTotal))

	_, err = repo.Get(ctx, u.ID, feb5.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, timesheet.ErrTimesheetNotFound)
}

func TestLeaveRepositories(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	u := createUser(t, s, user.RoleEmployee)
	balances := postgresql.NewBalanceRepository(s.DB)
	txns := postgresql.NewTransactionRepository(s.DB)

	b := leave.Balance{
		ID:                   uuid.NewString(),
		UserID:               u.ID,
		Year:                 2024,
		PaidLeaveBalance:     decimal.NewFromInt(12),
		AnnualPaidLeaveQuota: decimal.NewFromInt(12),
		CreatedAt:            baseTime,
		UpdatedAt:            baseTime,
	}
	created, err := balances.Create(ctx, b)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = balances.Create(ctx, leave.Balance{ID: uuid.NewString(), UserID: u.ID, Year: 2024, CreatedAt: baseTime, UpdatedAt: baseTime})
	require.NoError(t, err)
	assert.False(t, created)

	ref := "req-1"
	for i, amount := range []decimal.Decimal{decimal.NewFromInt(12), decimal.NewFromFloat(-1.5)} {
		tt := leave.TransactionEarned
		if amount.IsNegative() {
			tt = leave.TransactionUsed
		}
		_, err := txns.Append(ctx, leave.Transaction{
			ID:              uuid.Must(uuid.NewV7()).String(),
			UserID:          u.ID,
			Year:            2024,
			TransactionType: tt,
			LeaveType:       leave.LeaveTypePaid,
			Amount:          amount,
			BalanceAfter:    decimal.NewFromInt(12).Add(amount.Mul(decimal.NewFromInt(int64(i)))),
			ReferenceType:   leave.ReferenceDayOffRequest,
			ReferenceID:     &ref,
			CreatedAt:       baseTime,
		})
		require.NoError(t, err)
	}

	sum, err := txns.Sum(ctx, u.ID, 2024, leave.LeaveTypePaid)
	require.NoError(t, err)
	assert.Equal(t, "10.5", sum.String())

	history, err := txns.ListByUserAndYear(ctx, u.ID, 2024)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, leave.TransactionEarned, history[0].TransactionType)

	exists, err := txns.ExistsByReference(ctx, u.ID, 2024, leave.ReferenceDayOffRequest, ref)
	require.NoError(t, err)
	assert.True(t, exists)

	b.PaidLeaveBalance = sum
	require.NoError(t, balances.Update(ctx, b))
	got, err := balances.GetByUserAndYear(ctx, u.ID, 2024)
	require.NoError(t, err)
	assert.True(t, sum.Equal(got.PaidLeaveBalance))

	_, err = balances.GetByUserAndYear(ctx, u.ID, 2025)
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}

func TestRequestRepository_Claims(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	u := createUser(t, s, user.RoleEmployee)
	repo := postgresql.NewRequestRepository(s.DB)

	newRequest := func(kind request.Kind, from, to time.Time) request.Request {
		r := request.Request{
			ID:        uuid.NewString(),
			UserID:    u.ID,
			Kind:      kind,
			StartDate: from,
			EndDate:   to,
			Title:     "Test",
			Status:    request.StatusPending,
			CreatedAt: baseTime,
			UpdatedAt: baseTime,
		}
		switch kind {
		case request.KindRemoteWork:
			r.RemoteWork = &request.RemoteWork{RemoteType: request.RemoteTypeRemote}
		case request.KindDayOff:
			r.DayOff = &request.DayOff{Duration: request.DurationFullDay, LeaveType: leave.LeaveTypePaid, TotalDays: decimal.NewFromInt(2)}
		}
		return r
	}

	first, err := repo.Create(ctx, newRequest(request.KindRemoteWork, feb5, feb5.AddDate(0, 0, 1)))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newRequest(request.KindRemoteWork, feb5.AddDate(0, 0, 1), feb5.AddDate(0, 0, 2)))
	var conflict *request.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, first.ID, conflict.ExistingID)
	assert.ErrorIs(t, err, request.ErrConflict)

	claims, err := repo.FindClaims(ctx, u.ID, request.ConflictingKinds(request.KindDayOff), feb5, feb5.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Len(t, claims, 2)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RemoteWork)
	assert.Equal(t, request.RemoteTypeRemote, got.RemoteWork.RemoteType)

	kind := request.KindRemoteWork
	list, total, err := repo.List(ctx, request.Filter{UserID: &u.ID, Kind: &kind, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	counts, err := postgresql.NewDashboardRepository(s.DB).GetPendingCounts(ctx, &u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[string(request.KindRemoteWork)])

	require.NoError(t, repo.SoftDelete(ctx, first.ID, baseTime.Add(time.Hour)))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, request.ErrRequestNotFound)

	claims, err = repo.FindClaims(ctx, u.ID, []request.Kind{request.KindRemoteWork}, feb5, feb5.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Empty(t, claims)

	_, err = repo.Create(ctx, newRequest(request.KindDayOff, feb5, feb5.AddDate(0, 0, 1)))
	require.NoError(t, err)
}

func TestTransactor_RollbackOnError(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(s.DB)
	tx := postgresql.NewTransactor(s.DB)

	id := uuid.NewString()
	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := users.Create(ctx, user.User{ID: id, Email: id + "@example.com", FullName: "x", Role: user.RoleEmployee, IsActive: true}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = users.GetByID(ctx, id)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
