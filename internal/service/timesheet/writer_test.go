package timesheet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID    = "0190a1b2-0000-7000-8000-0000000000e1"
	requestID = "0190a1b2-0000-7000-8000-0000000000r1"
)

var wib = time.FixedZone("WIB", 7*3600)

func day(d int) time.Time {
	return time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC)
}

func tod(s string) *shift.TimeOfDay {
	t := shift.MustTimeOfDay(s)
	return &t
}

func intPtr(i int) *int { return &i }

func newWriter(t *testing.T) (*WriterImpl, timesheet.TimesheetRepository) {
	t.Helper()
	store := memory.NewStore()
	shifts := memory.NewShiftRepository(store)
	timesheets := memory.NewTimesheetRepository(store)
	_, err := shifts.Create(context.Background(), shift.WorkShift{
		ID:             "0190a1b2-0000-7000-8000-0000000000s1",
		Name:           "Regular",
		Type:           shift.ShiftTypeNormal,
		StartDate:      day(1),
		MorningStart:   shift.MustTimeOfDay("08:00"),
		MorningEnd:     shift.MustTimeOfDay("12:00"),
		AfternoonStart: shift.MustTimeOfDay("13:30"),
		AfternoonEnd:   shift.MustTimeOfDay("17:30"),
	})
	require.NoError(t, err)

	w := NewWriter(
		memory.NewTransactor(store),
		clock.Fixed{T: time.Date(2024, 2, 1, 9, 0, 0, 0, wib)},
		wib,
		&attendance.BlockRule{MinutesPerBlock: 15, AmountPerBlock: decimal.NewFromInt(50000)},
		shift.ShiftTypeNormal,
		timesheets,
		shifts,
	)
	return w, timesheets
}

func TestWriter_MutateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	w, timesheets := newWriter(t)
	boom := errors.New("boom")

	_, err := w.Mutate(ctx, userID, day(5), func(d *timesheet.TimesheetDay, created bool) error {
		assert.True(t, created)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = timesheets.Get(ctx, userID, day(5))
	assert.ErrorIs(t, err, timesheet.ErrTimesheetNotFound)

	first, err := w.Mutate(ctx, userID, day(5), func(d *timesheet.TimesheetDay, created bool) error {
		assert.True(t, created)
		return nil
	})
	require.NoError(t, err)
	second, err := w.Mutate(ctx, userID, day(5), func(d *timesheet.TimesheetDay, created bool) error {
		assert.False(t, created)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, timesheet.StatusPending, second.Status)
}

func TestWriter_ApplyRemoteWork(t *testing.T) {
	w, _ := newWriter(t)

	days, err := w.ApplyRemoteWork(context.Background(), request.Request{
		ID: requestID, UserID: userID, Kind: request.KindRemoteWork,
		StartDate: day(5), EndDate: day(7),
		RemoteWork: &request.RemoteWork{RemoteType: request.RemoteTypeRemote},
	})
	require.NoError(t, err)
	require.Len(t, days, 3)
	for _, d := range days {
		assert.True(t, d.RemoteFlag)
		assert.Equal(t, shift.ShiftTypeNormal, d.Type)
	}
}

func TestWriter_ApplyDayOffAfternoon(t *testing.T) {
	w, _ := newWriter(t)

	days, err := w.ApplyDayOff(context.Background(), request.Request{
		ID: requestID, UserID: userID, Kind: request.KindDayOff, Title: "Dentist",
		StartDate: day(5), EndDate: day(5),
		DayOff: &request.DayOff{Duration: request.DurationAfternoon, LeaveType: leave.LeaveTypePaid},
	})
	require.NoError(t, err)
	require.Len(t, days, 1)

	d := days[0]
	assert.Equal(t, 240, d.WorkedMinutesMorning)
	assert.Zero(t, d.WorkedMinutesAfternoon)
	assert.Equal(t, 240, d.TotalWorkMinutes)
	assert.Equal(t, timesheet.StatusApproved, d.Status)
	assert.True(t, d.IsOnLeave())
	require.NotNil(t, d.PaidLeave)
	assert.Contains(t, *d.PaidLeave, "Dentist")
	assert.Nil(t, d.UnpaidLeave)
}

func TestWriter_ForgotCheckinThenLateEarly(t *testing.T) {
	ctx := context.Background()
	w, _ := newWriter(t)
	base := request.Request{ID: requestID, UserID: userID, StartDate: day(5), EndDate: day(5)}

	in := base
	in.Kind = request.KindForgotCheckin
	in.ForgotCheckin = &request.ForgotCheckin{Checkin: tod("08:40")}
	days, err := w.ApplyForgotCheckin(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 40, days[0].LateMinutes)
	assert.True(t, days[0].LatePenalty.Equal(decimal.NewFromInt(100000)))

	excuse := base
	excuse.Kind = request.KindLateEarly
	excuse.LateEarly = &request.LateEarly{RequestType: request.LateEarlyLate, LateMinutes: intPtr(40)}
	days, err = w.ApplyLateEarly(ctx, excuse)
	require.NoError(t, err)
	assert.True(t, days[0].LateExcused)
	assert.True(t, days[0].LatePenalty.IsZero())
	assert.True(t, days[0].PenaltyAmount.IsZero())

	out := base
	out.Kind = request.KindForgotCheckin
	out.ForgotCheckin = &request.ForgotCheckin{Checkout: tod("17:00")}
	days, err = w.ApplyForgotCheckin(ctx, out)
	require.NoError(t, err)

	d := days[0]
	require.True(t, d.HasCompletePair())
	assert.Equal(t, 40, d.LateMinutes, "excused minutes keep their approved value")
	assert.Equal(t, 30, d.EarlyMinutes)
	assert.Equal(t, 410, d.TotalWorkMinutes)
	assert.True(t, d.LatePenalty.IsZero())
	assert.True(t, d.EarlyPenalty.Equal(decimal.NewFromInt(100000)))
	assert.True(t, d.PenaltyAmount.Equal(decimal.NewFromInt(100000)))
}

func TestWriter_ApplyOvertime(t *testing.T) {
	ctx := context.Background()
	w, _ := newWriter(t)

	ot := request.Request{
		ID: requestID, UserID: userID, Kind: request.KindOvertime,
		StartDate: day(10), EndDate: day(10),
		Overtime: &request.Overtime{
			StartTime:  shift.MustTimeOfDay("09:00"),
			EndTime:    shift.MustTimeOfDay("11:30"),
			TotalHours: decimal.RequireFromString("2.5"),
		},
	}
	days, err := w.ApplyOvertime(ctx, ot)
	require.NoError(t, err)
	assert.Equal(t, shift.ShiftTypeOvertime, days[0].Type)
	assert.Equal(t, 150, days[0].OvertimeMinutes)
	assert.Equal(t, 150, days[0].TotalWorkMinutes)
}

func TestWriter_MissingPayload(t *testing.T) {
	ctx := context.Background()
	w, _ := newWriter(t)
	r := request.Request{ID: requestID, UserID: userID, StartDate: day(5), EndDate: day(5)}

	_, err := w.ApplyDayOff(ctx, r)
	assert.ErrorIs(t, err, request.ErrInvalidPayload)
	_, err = w.ApplyOvertime(ctx, r)
	assert.ErrorIs(t, err, request.ErrInvalidPayload)
	_, err = w.ApplyLateEarly(ctx, r)
	assert.ErrorIs(t, err, request.ErrInvalidPayload)
	_, err = w.ApplyForgotCheckin(ctx, r)
	assert.ErrorIs(t, err, request.ErrInvalidPayload)
}

func TestWriter_DayOffClearsPenalty(t *testing.T) {
	ctx := context.Background()
	w, _ := newWriter(t)
	base := request.Request{ID: requestID, UserID: userID, StartDate: day(5), EndDate: day(5)}

	in := base
	in.Kind = request.KindForgotCheckin
	in.ForgotCheckin = &request.ForgotCheckin{Checkin: tod("08:40")}
	days, err := w.ApplyForgotCheckin(ctx, in)
	require.NoError(t, err)
	require.True(t, days[0].LatePenalty.Equal(decimal.NewFromInt(100000)))

	off := base
	off.Kind = request.KindDayOff
	off.DayOff = &request.DayOff{Duration: request.DurationFullDay, LeaveType: leave.LeaveTypePaid}
	days, err = w.ApplyDayOff(ctx, off)
	require.NoError(t, err)

	d := days[0]
	assert.True(t, d.LateExcused)
	assert.True(t, d.EarlyExcused)
	assert.True(t, d.LatePenalty.IsZero())
	assert.True(t, d.PenaltyAmount.IsZero())
}

func TestWriter_AfternoonDayOffKeepsLatePenalty(t *testing.T) {
	ctx := context.Background()
	w, _ := newWriter(t)
	base := request.Request{ID: requestID, UserID: userID, StartDate: day(5), EndDate: day(5)}

	in := base
	in.Kind = request.KindForgotCheckin
	in.ForgotCheckin = &request.ForgotCheckin{Checkin: tod("08:40")}
	_, err := w.ApplyForgotCheckin(ctx, in)
	require.NoError(t, err)

	off := base
	off.Kind = request.KindDayOff
	off.DayOff = &request.DayOff{Duration: request.DurationAfternoon, LeaveType: leave.LeaveTypeUnpaid}
	days, err := w.ApplyDayOff(ctx, off)
	require.NoError(t, err)

	d := days[0]
	assert.False(t, d.LateExcused)
	assert.True(t, d.EarlyExcused)
	assert.True(t, d.LatePenalty.Equal(decimal.NewFromInt(100000)))
	assert.True(t, d.PenaltyAmount.Equal(decimal.NewFromInt(100000)))
}
