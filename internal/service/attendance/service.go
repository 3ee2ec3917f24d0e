package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

type AttendanceServiceImpl struct {
	clock      clock.Clock
	loc        *time.Location
	rule       *attendance.BlockRule
	shifts     shift.ShiftRepository
	timesheets timesheet.TimesheetRepository
	writer     timesheet.Writer
}

func NewAttendanceService(
	clk clock.Clock,
	loc *time.Location,
	rule *attendance.BlockRule,
	shifts shift.ShiftRepository,
	timesheets timesheet.TimesheetRepository,
	writer timesheet.Writer,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		clock:      clk,
		loc:        loc,
		rule:       rule,
		shifts:     shifts,
		timesheets: timesheets,
		writer:     writer,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string) (timesheet.TimesheetDay, error) {
	now := s.clock.Now().In(s.loc)
	date := clock.DateOf(now)

	ws, err := s.shifts.GetActiveForDate(ctx, date)
	if err != nil {
		return timesheet.TimesheetDay{}, fmt.Errorf("failed to resolve shift for %s: %w", date.Format("2006-01-02"), err)
	}

	day, err := s.writer.Mutate(ctx, userID, date, func(day *timesheet.TimesheetDay, created bool) error {
		if day.CheckIn != nil {
			return attendance.ErrAlreadyCheckedIn
		}
		day.CheckIn = &now
		day.ShiftID = &ws.ID
		if created {
			day.Type = ws.Type
		}
		if !day.LateExcused {
			day.LateMinutes = LateMinutes(now, ws)
		}
		ApplyPenalty(day, s.rule)
		return nil
	})
	if err != nil {
		return timesheet.TimesheetDay{}, err
	}

	slog.Info("Check-in recorded", "user_id", userID, "work_date", date.Format("2006-01-02"), "late_minutes", day.LateMinutes)
	return day, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string) (timesheet.TimesheetDay, error) {
	now := s.clock.Now().In(s.loc)
	date := clock.DateOf(now)

	ws, err := s.shifts.GetActiveForDate(ctx, date)
	if err != nil {
		return timesheet.TimesheetDay{}, fmt.Errorf("failed to resolve shift for %s: %w", date.Format("2006-01-02"), err)
	}

	day, err := s.writer.Mutate(ctx, userID, date, func(day *timesheet.TimesheetDay, created bool) error {
		if day.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}
		if day.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}
		day.CheckOut = &now
		return Recompute(day, ws, s.rule, s.loc)
	})
	if err != nil {
		return timesheet.TimesheetDay{}, err
	}

	slog.Info("Check-out recorded",
		"user_id", userID,
		"work_date", date.Format("2006-01-02"),
		"early_minutes", day.EarlyMinutes,
		"worked_minutes", day.TotalWorkMinutes,
		"penalty", day.PenaltyAmount.String(),
	)
	return day, nil
}

// ListMine implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMine(ctx context.Context, req attendance.ListTimesheetRequest) ([]timesheet.TimesheetDay, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	days, err := s.timesheets.ListByUser(ctx, req.UserID, req.FromDate, req.ToDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	return days, nil
}

// GetTimesheet implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTimesheet(ctx context.Context, userID string, date time.Time) (timesheet.TimesheetDay, error) {
	day, err := s.timesheets.Get(ctx, userID, clock.DateOf(date))
	if err != nil {
		return timesheet.TimesheetDay{}, fmt.Errorf("failed to get timesheet: %w", err)
	}
	return day, nil
}
