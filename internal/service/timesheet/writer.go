package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WriterImpl merges changes into TimesheetDay rows under a row lock.
type WriterImpl struct {
	tx               database.Transactor
	clock            clock.Clock
	loc              *time.Location
	rule             *attendance.BlockRule
	defaultShiftType shift.ShiftType
	timesheets       timesheet.TimesheetRepository
	shifts           shift.ShiftRepository
}

func NewWriter(
	tx database.Transactor,
	clk clock.Clock,
	loc *time.Location,
	rule *attendance.BlockRule,
	defaultShiftType shift.ShiftType,
	timesheets timesheet.TimesheetRepository,
	shifts shift.ShiftRepository,
) *WriterImpl {
	return &WriterImpl{
		tx:               tx,
		clock:            clk,
		loc:              loc,
		rule:             rule,
		defaultShiftType: defaultShiftType,
		timesheets:       timesheets,
		shifts:           shifts,
	}
}

// Mutate implements timesheet.Writer. The row is inserted if missing,
// locked, edited by fn and written back in one transaction.
func (w *WriterImpl) Mutate(ctx context.Context, userID string, workDate time.Time, fn timesheet.MutateFunc) (timesheet.TimesheetDay, error) {
	workDate = clock.DateOf(workDate)
	var out timesheet.TimesheetDay

	err := w.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		now := w.clock.Now()
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate timesheet id: %w", err)
		}
		created, err := w.timesheets.EnsureExists(ctx, timesheet.TimesheetDay{
			ID:            id.String(),
			UserID:        userID,
			WorkDate:      workDate,
			Type:          w.defaultShiftType,
			Status:        timesheet.StatusPending,
			LatePenalty:   decimal.Zero,
			EarlyPenalty:  decimal.Zero,
			PenaltyAmount: decimal.Zero,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return fmt.Errorf("failed to ensure timesheet: %w", err)
		}

		day, err := w.timesheets.GetForUpdate(ctx, userID, workDate)
		if err != nil {
			return fmt.Errorf("failed to lock timesheet: %w", err)
		}

		if err := fn(&day, created); err != nil {
			return err
		}

		day.UpdatedAt = now
		if err := w.timesheets.Update(ctx, day); err != nil {
			return fmt.Errorf("failed to update timesheet: %w", err)
		}
		out = day
		return nil
	})
	if err != nil {
		return timesheet.TimesheetDay{}, err
	}
	return out, nil
}

// resolveShift returns the shift for date, or nil when none applies.
func (w *WriterImpl) resolveShift(ctx context.Context, date time.Time) (*shift.WorkShift, error) {
	ws, err := w.shifts.GetActiveForDate(ctx, date)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve shift: %w", err)
	}
	return &ws, nil
}

// ApplyRemoteWork sets the remote flag on every covered date.
func (w *WriterImpl) ApplyRemoteWork(ctx context.Context, r request.Request) ([]timesheet.TimesheetDay, error) {
	days := make([]timesheet.TimesheetDay, 0, len(r.Dates()))
	for _, date := range r.Dates() {
		day, err := w.Mutate(ctx, r.UserID, date, func(day *timesheet.TimesheetDay, created bool) error {
			day.RemoteFlag = true
			return nil
		})
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// ApplyDayOff marks every calendar date in the range as approved leave.
// Worked minutes follow the duration: the half not on leave keeps the
// full block length of the applicable shift.
func (w *WriterImpl) ApplyDayOff(ctx context.Context, r request.Request) ([]timesheet.TimesheetDay, error) {
	if r.DayOff == nil {
		return nil, request.ErrInvalidPayload
	}
	narrative := fmt.Sprintf("%s %s: %s", r.DayOff.LeaveType, r.DayOff.Duration, r.Title)

	days := make([]timesheet.TimesheetDay, 0, len(r.Dates()))
	for _, date := range r.Dates() {
		ws, err := w.resolveShift(ctx, date)
		if err != nil {
			return nil, err
		}
		day, err := w.Mutate(ctx, r.UserID, date, func(day *timesheet.TimesheetDay, created bool) error {
			morning, afternoon := 0, 0
			if ws != nil {
				switch r.DayOff.Duration {
				case request.DurationMorning:
					afternoon = ws.AfternoonMinutes()
				case request.DurationAfternoon:
					morning = ws.MorningMinutes()
				}
				day.ShiftID = &ws.ID
				if created {
					day.Type = ws.Type
				}
			}
			day.WorkedMinutesMorning = morning
			day.WorkedMinutesAfternoon = afternoon
			day.TotalWorkMinutes = morning + afternoon
			day.Status = timesheet.StatusApproved
			day.DayOffReference = &r.ID
			if r.DayOff.LeaveType == leave.LeaveTypePaid {
				day.PaidLeave = &narrative
			} else {
				day.UnpaidLeave = &narrative
			}
			// A covered half cannot be late or early.
			if r.DayOff.Duration != request.DurationAfternoon {
				day.LateExcused = true
			}
			if r.DayOff.Duration != request.DurationMorning {
				day.EarlyExcused = true
			}
			attendanceService.ApplyPenalty(day, w.rule)
			return nil
		})
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// ApplyOvertime marks the date as overtime. A day created here gets its
// total work time from the overtime hours.
func (w *WriterImpl) ApplyOvertime(ctx context.Context, r request.Request) ([]timesheet.TimesheetDay, error) {
	if r.Overtime == nil {
		return nil, request.ErrInvalidPayload
	}
	minutes := r.Overtime.Minutes()
	day, err := w.Mutate(ctx, r.UserID, r.StartDate, func(day *timesheet.TimesheetDay, created bool) error {
		day.Type = shift.ShiftTypeOvertime
		day.OvertimeMinutes = minutes
		if created {
			day.TotalWorkMinutes = minutes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return []timesheet.TimesheetDay{day}, nil
}

// ApplyLateEarly replaces the covered minutes with the approved values
// and waives their penalty.
func (w *WriterImpl) ApplyLateEarly(ctx context.Context, r request.Request) ([]timesheet.TimesheetDay, error) {
	if r.LateEarly == nil {
		return nil, request.ErrInvalidPayload
	}
	le := r.LateEarly
	day, err := w.Mutate(ctx, r.UserID, r.StartDate, func(day *timesheet.TimesheetDay, created bool) error {
		if le.RequestType.CoversLate() && le.LateMinutes != nil {
			day.LateMinutes = *le.LateMinutes
			day.LateExcused = true
		}
		if le.RequestType.CoversEarly() && le.EarlyMinutes != nil {
			day.EarlyMinutes = *le.EarlyMinutes
			day.EarlyExcused = true
		}
		attendanceService.ApplyPenalty(day, w.rule)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return []timesheet.TimesheetDay{day}, nil
}

// ApplyForgotCheckin records the corrected timestamps and recomputes the
// day when both are known and a shift applies.
func (w *WriterImpl) ApplyForgotCheckin(ctx context.Context, r request.Request) ([]timesheet.TimesheetDay, error) {
	if r.ForgotCheckin == nil {
		return nil, request.ErrInvalidPayload
	}
	fc := r.ForgotCheckin
	ws, err := w.resolveShift(ctx, r.StartDate)
	if err != nil {
		return nil, err
	}

	day, err := w.Mutate(ctx, r.UserID, r.StartDate, func(day *timesheet.TimesheetDay, created bool) error {
		if fc.Checkin != nil {
			in := fc.Checkin.On(r.StartDate, w.loc)
			day.CheckIn = &in
		}
		if fc.Checkout != nil {
			out := fc.Checkout.On(r.StartDate, w.loc)
			day.CheckOut = &out
		}
		if ws == nil {
			return nil
		}
		day.ShiftID = &ws.ID
		if created {
			day.Type = ws.Type
		}
		if day.CheckIn != nil && day.CheckOut == nil && !day.LateExcused {
			day.LateMinutes = attendanceService.LateMinutes(day.CheckIn.In(w.loc), *ws)
			attendanceService.ApplyPenalty(day, w.rule)
			return nil
		}
		return attendanceService.Recompute(day, *ws, w.rule, w.loc)
	})
	if err != nil {
		return nil, err
	}
	return []timesheet.TimesheetDay{day}, nil
}

var (
	_ timesheet.Writer         = (*WriterImpl)(nil)
	_ request.TimesheetEffects = (*WriterImpl)(nil)
)
