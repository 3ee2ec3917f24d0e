package request

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/project"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

func (s *RequestServiceImpl) buildRemoteWork(ctx context.Context, in *request.CreateRequest, r *request.Request) error {
	remoteType := request.RemoteType(in.RemoteType)
	switch remoteType {
	case request.RemoteTypeRemote, request.RemoteTypeHybrid:
	case request.RemoteTypeOffice:
		return validator.ValidationErrors{{Field: "remote_type", Message: "no request needed for office work"}}
	default:
		return validator.ValidationErrors{{Field: "remote_type", Message: "remote_type must be REMOTE or HYBRID"}}
	}
	r.RemoteWork = &request.RemoteWork{RemoteType: remoteType}
	return nil
}

func (s *RequestServiceImpl) buildDayOff(ctx context.Context, in *request.CreateRequest, r *request.Request) error {
	var errs validator.ValidationErrors

	duration := request.Duration(in.Duration)
	if duration == "" {
		duration = request.DurationFullDay
	}
	switch duration {
	case request.DurationFullDay:
	case request.DurationMorning, request.DurationAfternoon:
		if !r.EndDate.Equal(r.StartDate) {
			errs.Add("duration", "half-day leave must cover a single date")
		}
	default:
		errs.Add("duration", "duration must be FULL_DAY, MORNING or AFTERNOON")
	}

	leaveType := leave.LeaveType(in.LeaveType)
	if !leaveType.Valid() {
		errs.Add("leave_type", "leave_type must be PAID or UNPAID")
	}
	if len(errs) > 0 {
		return errs
	}

	workingDays := s.calendar.WorkingDays(r.StartDate, r.EndDate)
	total := duration.DayFactor().Mul(decimal.NewFromInt(int64(len(workingDays))))
	if !total.IsPositive() {
		return validator.ValidationErrors{{Field: "start_date", Message: "range contains no working days"}}
	}

	r.DayOff = &request.DayOff{Duration: duration, LeaveType: leaveType, TotalDays: total}
	return nil
}

func (s *RequestServiceImpl) buildOvertime(ctx context.Context, in *request.CreateRequest, r *request.Request) error {
	var errs validator.ValidationErrors

	start, startErr := shift.ParseTimeOfDay(in.StartTime)
	if startErr != nil {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	end, endErr := shift.ParseTimeOfDay(in.EndTime)
	if endErr != nil {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if startErr == nil && endErr == nil && !start.Before(end) {
		errs.Add("end_time", "end_time must be after start_time")
	}
	if len(errs) > 0 {
		return errs
	}

	if in.ProjectID != nil {
		p, err := s.projects.GetByID(ctx, *in.ProjectID)
		if err != nil {
			if errors.Is(err, project.ErrProjectNotFound) {
				return err
			}
			return fmt.Errorf("failed to get project: %w", err)
		}
		if !p.IsActive {
			return validator.ValidationErrors{{Field: "project_id", Message: "project is not active"}}
		}
	}

	minutes := decimal.NewFromInt(int64(end.Minutes() - start.Minutes()))
	r.Overtime = &request.Overtime{
		StartTime:  start,
		EndTime:    end,
		TotalHours: minutes.Div(decimal.NewFromInt(60)).Round(2),
		ProjectID:  in.ProjectID,
	}
	return nil
}

func (s *RequestServiceImpl) buildLateEarly(ctx context.Context, in *request.CreateRequest, r *request.Request) error {
	var errs validator.ValidationErrors

	requestType := request.LateEarlyType(in.RequestType)
	switch requestType {
	case request.LateEarlyLate, request.LateEarlyEarly, request.LateEarlyBoth:
	default:
		return validator.ValidationErrors{{Field: "request_type", Message: "request_type must be LATE, EARLY or BOTH"}}
	}

	le := &request.LateEarly{RequestType: requestType}
	if requestType.CoversLate() {
		if in.LateMinutes == nil || *in.LateMinutes <= 0 {
			errs.Add("late_minutes", "late_minutes must be greater than 0")
		} else {
			le.LateMinutes = in.LateMinutes
		}
	}
	if requestType.CoversEarly() {
		if in.EarlyMinutes == nil || *in.EarlyMinutes <= 0 {
			errs.Add("early_minutes", "early_minutes must be greater than 0")
		} else {
			le.EarlyMinutes = in.EarlyMinutes
		}
	}
	if len(errs) > 0 {
		return errs
	}

	r.LateEarly = le
	return nil
}

func (s *RequestServiceImpl) buildForgotCheckin(ctx context.Context, in *request.CreateRequest, r *request.Request) error {
	var errs validator.ValidationErrors
	fc := &request.ForgotCheckin{}

	if in.Checkin == nil && in.Checkout == nil {
		return validator.ValidationErrors{{Field: "checkin", Message: "checkin or checkout is required"}}
	}
	if in.Checkin != nil {
		t, err := shift.ParseTimeOfDay(*in.Checkin)
		if err != nil {
			errs.Add("checkin", "checkin must be in HH:MM format")
		} else {
			fc.Checkin = &t
		}
	}
	if in.Checkout != nil {
		t, err := shift.ParseTimeOfDay(*in.Checkout)
		if err != nil {
			errs.Add("checkout", "checkout must be in HH:MM format")
		} else {
			fc.Checkout = &t
		}
	}
	if fc.Checkin != nil && fc.Checkout != nil && !fc.Checkin.Before(*fc.Checkout) {
		errs.Add("checkout", "checkout must be after checkin")
	}
	if len(errs) > 0 {
		return errs
	}

	r.ForgotCheckin = fc
	return nil
}

// applyDayOff debits paid leave before touching timesheets, so the
// balance row is locked ahead of the timesheet rows.
func (s *RequestServiceImpl) applyDayOff(ctx context.Context, r request.Request) ([]timesheet.TimesheetDay, []leave.Transaction, error) {
	if r.DayOff == nil {
		return nil, nil, request.ErrInvalidPayload
	}

	var txns []leave.Transaction
	if r.DayOff.LeaveType == leave.LeaveTypePaid {
		for _, part := range s.daysByYear(r) {
			id := r.ID
			txn, err := s.ledger.ApplyTransaction(ctx, leave.ApplyInput{
				UserID:          r.UserID,
				Year:            part.year,
				TransactionType: leave.TransactionUsed,
				LeaveType:       leave.LeaveTypePaid,
				Amount:          part.days.Neg(),
				ReferenceType:   leave.ReferenceDayOffRequest,
				ReferenceID:     &id,
				Description:     fmt.Sprintf("Day off %s: %s", r.DayOff.Duration, r.Title),
			})
			if err != nil {
				return nil, nil, err
			}
			txns = append(txns, txn)
		}
	}

	days, err := s.effects.ApplyDayOff(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	return days, txns, nil
}

type yearDays struct {
	year int
	days decimal.Decimal
}

// daysByYear splits the charged leave days of a day-off by calendar year.
func (s *RequestServiceImpl) daysByYear(r request.Request) []yearDays {
	factor := r.DayOff.Duration.DayFactor()
	counts := make(map[int]int64)
	for _, d := range s.calendar.WorkingDays(r.StartDate, r.EndDate) {
		counts[d.Year()]++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	slices.Sort(years)

	parts := make([]yearDays, 0, len(years))
	for _, y := range years {
		parts = append(parts, yearDays{year: y, days: factor.Mul(decimal.NewFromInt(counts[y]))})
	}
	return parts
}

// balanceWarning reports, without blocking, when a paid day-off exceeds
// the balance visible right now.
func (s *RequestServiceImpl) balanceWarning(ctx context.Context, r request.Request) (*request.BalanceWarning, error) {
	if r.DayOff == nil || r.DayOff.LeaveType != leave.LeaveTypePaid {
		return nil, nil
	}
	for _, part := range s.daysByYear(r) {
		remaining, ok, err := s.ledger.CheckAvailable(ctx, r.UserID, part.year, part.days)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &request.BalanceWarning{
				Requested: part.days,
				Remaining: remaining,
				Message:   fmt.Sprintf("paid leave balance for %d is lower than requested; approval will fail unless it is topped up", part.year),
			}, nil
		}
	}
	return nil, nil
}
