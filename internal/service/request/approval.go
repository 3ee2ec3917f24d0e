package request

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
)

// Approve implements request.RequestService. The status change and every
// side effect commit together or not at all.
func (s *RequestServiceImpl) Approve(ctx context.Context, kind request.Kind, id, approverID string) (request.ApprovalResult, error) {
	if approverID == "" {
		return request.ApprovalResult{}, request.ErrApproverRequired
	}
	rule, err := s.rule(kind)
	if err != nil {
		return request.ApprovalResult{}, err
	}

	var result request.ApprovalResult
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.loadPending(ctx, kind, id, approverID)
		if err != nil {
			return err
		}

		days, txns, err := rule.apply(ctx, r)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		r.Status = request.StatusApproved
		r.ApprovedBy = &approverID
		r.ApprovedAt = &now
		r.UpdatedAt = now
		if err := s.requests.UpdateStatus(ctx, r); err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		result = request.ApprovalResult{Request: r, Timesheets: days, Transactions: txns}
		return nil
	})
	if err != nil {
		slog.Warn("Request approval failed", "request_id", id, "kind", kind, "approver_id", approverID, "error", err)
		return request.ApprovalResult{}, err
	}

	slog.Info("Request approved", "request_id", id, "kind", kind, "approver_id", approverID,
		"timesheets", len(result.Timesheets), "transactions", len(result.Transactions))
	s.publish(request.EventApproved, result.Request)
	return result, nil
}

// Reject implements request.RequestService. No timesheet or ledger row
// changes; the request's dates become free again.
func (s *RequestServiceImpl) Reject(ctx context.Context, kind request.Kind, id, approverID, reason string) (request.ApprovalResult, error) {
	if approverID == "" {
		return request.ApprovalResult{}, request.ErrApproverRequired
	}
	body := request.RejectRequest{Reason: reason}
	if err := body.Validate(); err != nil {
		return request.ApprovalResult{}, err
	}
	if _, err := s.rule(kind); err != nil {
		return request.ApprovalResult{}, err
	}

	var result request.ApprovalResult
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.loadPending(ctx, kind, id, approverID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		r.Status = request.StatusRejected
		r.RejectedReason = &body.Reason
		r.ApprovedBy = &approverID
		r.ApprovedAt = &now
		r.UpdatedAt = now
		if err := s.requests.UpdateStatus(ctx, r); err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		if err := s.requests.ReleaseDates(ctx, r.ID); err != nil {
			return fmt.Errorf("failed to release request dates: %w", err)
		}

		result = request.ApprovalResult{Request: r}
		return nil
	})
	if err != nil {
		return request.ApprovalResult{}, err
	}

	slog.Info("Request rejected", "request_id", id, "kind", kind, "approver_id", approverID)
	s.publish(request.EventRejected, result.Request)
	return result, nil
}

// loadPending locks the request and checks it can still be processed by approverID.
func (s *RequestServiceImpl) loadPending(ctx context.Context, kind request.Kind, id, approverID string) (request.Request, error) {
	r, err := s.requests.GetByIDForUpdate(ctx, id)
	if err != nil {
		return request.Request{}, err
	}
	if r.Kind != kind {
		return request.Request{}, request.ErrRequestNotFound
	}
	if r.Status != request.StatusPending {
		return request.Request{}, request.ErrAlreadyProcessed
	}

	ok, err := s.authorizer.CanApprove(ctx, approverID, r)
	if err != nil {
		return request.Request{}, err
	}
	if !ok {
		return request.Request{}, request.ErrUnauthorized
	}
	return r, nil
}
