package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/project"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	"github.com/google/uuid"
)

type RequestServiceImpl struct {
	tx         database.Transactor
	clock      clock.Clock
	calendar   *attendanceService.Calendar
	users      user.UserRepository
	projects   project.ProjectRepository
	requests   request.RequestRepository
	ledger     leave.Ledger
	effects    request.TimesheetEffects
	authorizer request.Authorizer
	events     request.EventPublisher
	rules      map[request.Kind]kindRule
}

func NewRequestService(
	tx database.Transactor,
	clk clock.Clock,
	calendar *attendanceService.Calendar,
	users user.UserRepository,
	projects project.ProjectRepository,
	requests request.RequestRepository,
	ledger leave.Ledger,
	effects request.TimesheetEffects,
	authorizer request.Authorizer,
	events request.EventPublisher,
	limits request.Limits,
) request.RequestService {
	s := &RequestServiceImpl{
		tx:         tx,
		clock:      clk,
		calendar:   calendar,
		users:      users,
		projects:   projects,
		requests:   requests,
		ledger:     ledger,
		effects:    effects,
		authorizer: authorizer,
		events:     events,
	}
	s.rules = s.kindRules(limits)
	return s
}

// Create implements request.RequestService. Checks run in this order:
// common fields, requester, date limits, working day, conflicts, kind rules.
func (s *RequestServiceImpl) Create(ctx context.Context, in request.CreateRequest) (request.CreateResult, error) {
	if err := in.Validate(); err != nil {
		return request.CreateResult{}, err
	}
	rule, err := s.rule(in.Kind)
	if err != nil {
		return request.CreateResult{}, err
	}
	start, end := in.Range()

	var errs validator.ValidationErrors
	if rule.singleDay && !end.Equal(start) {
		errs.Add("end_date", "this request covers a single date")
	}
	today := clock.Today(s.clock)
	if !rule.allowPast && start.Before(today) {
		errs.Add("start_date", "start_date must not be in the past")
	}
	if rule.backdateMaxDays > 0 && start.Before(today.AddDate(0, 0, -rule.backdateMaxDays)) {
		errs.Add("start_date", fmt.Sprintf("start_date must not be more than %d days in the past", rule.backdateMaxDays))
	}
	if rule.maxAdvanceDays > 0 && end.After(today.AddDate(0, 0, rule.maxAdvanceDays)) {
		errs.Add("end_date", fmt.Sprintf("end_date must not be more than %d days ahead", rule.maxAdvanceDays))
	}
	if rule.maxDays > 0 && end.After(start.AddDate(0, 0, rule.maxDays-1)) {
		errs.Add("end_date", fmt.Sprintf("a request must not cover more than %d days", rule.maxDays))
	}
	if rule.requireWorkingDay && !s.calendar.IsWorkingDay(start) {
		errs.Add("start_date", "start_date must be a working day")
	}

	u, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return request.CreateResult{}, err
		}
		return request.CreateResult{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !u.IsActive {
		return request.CreateResult{}, user.ErrUserInactive
	}
	if len(errs) > 0 {
		return request.CreateResult{}, errs
	}

	id, err := uuid.NewV7()
	if err != nil {
		return request.CreateResult{}, fmt.Errorf("failed to generate request id: %w", err)
	}
	now := s.clock.Now()
	r := request.Request{
		ID:              id.String(),
		UserID:          in.UserID,
		Kind:            in.Kind,
		StartDate:       start,
		EndDate:         end,
		Title:           in.Title,
		Reason:          in.Reason,
		Status:          request.StatusPending,
		ResubmittedFrom: in.ResubmittedFrom,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requests.LockUser(ctx, in.UserID); err != nil {
			return fmt.Errorf("failed to lock user requests: %w", err)
		}
		if err := s.checkConflicts(ctx, r); err != nil {
			return err
		}
		if err := rule.build(ctx, &in, &r); err != nil {
			return err
		}
		created, err := s.requests.Create(ctx, r)
		if err != nil {
			if errors.Is(err, request.ErrConflict) {
				return err
			}
			return fmt.Errorf("failed to create request: %w", err)
		}
		r = created
		return nil
	})
	if err != nil {
		return request.CreateResult{}, err
	}

	result := request.CreateResult{Request: r}
	result.BalanceWarning, err = s.balanceWarning(ctx, r)
	if err != nil {
		slog.Warn("Balance check failed", "request_id", r.ID, "error", err)
	}

	slog.Info("Request created", "request_id", r.ID, "kind", r.Kind, "user_id", r.UserID,
		"start_date", r.StartDate.Format(validator.DateLayout), "end_date", r.EndDate.Format(validator.DateLayout))
	s.publish(request.EventSubmitted, r)
	return result, nil
}

// checkConflicts fails on the first active claim whose kind cannot share a date with r.
func (s *RequestServiceImpl) checkConflicts(ctx context.Context, r request.Request) error {
	claims, err := s.requests.FindClaims(ctx, r.UserID, request.ConflictingKinds(r.Kind), r.StartDate, r.EndDate)
	if err != nil {
		return fmt.Errorf("failed to check conflicts: %w", err)
	}
	for _, c := range claims {
		if c.RequestID == r.ID {
			continue
		}
		return &request.ConflictError{Kind: c.Kind, Date: c.WorkDate, ExistingID: c.RequestID}
	}
	return nil
}

// Get implements request.RequestService.
func (s *RequestServiceImpl) Get(ctx context.Context, kind request.Kind, id string) (request.Request, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return request.Request{}, err
	}
	if r.Kind != kind {
		return request.Request{}, request.ErrRequestNotFound
	}
	return r, nil
}

// List implements request.RequestService.
func (s *RequestServiceImpl) List(ctx context.Context, f request.Filter) ([]request.Request, int64, error) {
	items, total, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}
	return items, total, nil
}

// Cancel implements request.RequestService. Only the owner may withdraw,
// and only while the request is pending.
func (s *RequestServiceImpl) Cancel(ctx context.Context, kind request.Kind, id, userID string) (request.Request, error) {
	var out request.Request
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.requests.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r.Kind != kind {
			return request.ErrRequestNotFound
		}
		if r.UserID != userID {
			return request.ErrNotOwner
		}
		if r.Status != request.StatusPending {
			return request.ErrAlreadyProcessed
		}
		now := s.clock.Now()
		if err := s.requests.SoftDelete(ctx, r.ID, now); err != nil {
			return fmt.Errorf("failed to cancel request: %w", err)
		}
		r.DeletedAt = &now
		r.UpdatedAt = now
		out = r
		return nil
	})
	if err != nil {
		return request.Request{}, err
	}
	slog.Info("Request cancelled", "request_id", id, "kind", kind, "user_id", userID)
	s.publish(request.EventCancelled, out)
	return out, nil
}

// Resubmit implements request.RequestService. The rejected request stays
// as it is; a new pending request linked to it goes through Create.
// Common fields left empty in in are taken from the rejected request.
func (s *RequestServiceImpl) Resubmit(ctx context.Context, kind request.Kind, id string, in request.CreateRequest) (request.CreateResult, error) {
	old, err := s.Get(ctx, kind, id)
	if err != nil {
		return request.CreateResult{}, err
	}
	if old.UserID != in.UserID {
		return request.CreateResult{}, request.ErrNotOwner
	}
	if old.Status != request.StatusRejected {
		return request.CreateResult{}, request.ErrNotRejected
	}

	in.Kind = kind
	in.ResubmittedFrom = &old.ID
	if in.StartDate == "" {
		in.StartDate = old.StartDate.Format(validator.DateLayout)
		if in.EndDate == "" {
			in.EndDate = old.EndDate.Format(validator.DateLayout)
		}
	}
	if in.Title == "" {
		in.Title = old.Title
	}
	if in.Reason == "" {
		in.Reason = old.Reason
	}
	return s.Create(ctx, in)
}

// publish is a no-op without a publisher.
func (s *RequestServiceImpl) publish(t request.EventType, r request.Request) {
	if s.events == nil {
		return
	}
	s.events.Publish(request.Event{Type: t, Request: r})
}
