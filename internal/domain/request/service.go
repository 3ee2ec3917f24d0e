package request

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
)

type RequestService interface {
	Create(ctx context.Context, req CreateRequest) (CreateResult, error)
	Get(ctx context.Context, kind Kind, id string) (Request, error)
	List(ctx context.Context, f Filter) ([]Request, int64, error)
	Cancel(ctx context.Context, kind Kind, id, userID string) (Request, error)
	Resubmit(ctx context.Context, kind Kind, id string, req CreateRequest) (CreateResult, error)

	Approve(ctx context.Context, kind Kind, id, approverID string) (ApprovalResult, error)
	Reject(ctx context.Context, kind Kind, id, approverID, reason string) (ApprovalResult, error)
}

// Authorizer decides whether approverID may process r.
type Authorizer interface {
	CanApprove(ctx context.Context, approverID string, r Request) (bool, error)
}

// TimesheetEffects applies approved requests to timesheets.
type TimesheetEffects interface {
	ApplyRemoteWork(ctx context.Context, r Request) ([]timesheet.TimesheetDay, error)
	ApplyDayOff(ctx context.Context, r Request) ([]timesheet.TimesheetDay, error)
	ApplyOvertime(ctx context.Context, r Request) ([]timesheet.TimesheetDay, error)
	ApplyLateEarly(ctx context.Context, r Request) ([]timesheet.TimesheetDay, error)
	ApplyForgotCheckin(ctx context.Context, r Request) ([]timesheet.TimesheetDay, error)
}

// ApprovalResult is the outcome of one transition.
type ApprovalResult struct {
	Request      Request                  `json:"request"`
	Timesheets   []timesheet.TimesheetDay `json:"timesheets,omitempty"`
	Transactions []leave.Transaction      `json:"transactions,omitempty"`
}

type EventType string

const (
	EventSubmitted EventType = "request.submitted"
	EventApproved  EventType = "request.approved"
	EventRejected  EventType = "request.rejected"
	EventCancelled EventType = "request.cancelled"
)

// Event is a committed lifecycle transition.
type Event struct {
	Type    EventType `json:"type"`
	Request Request   `json:"request"`
}

// EventPublisher is told about transitions after they commit. Publish must not block.
type EventPublisher interface {
	Publish(ev Event)
}

// Limits bounds the dates a new request may cover, in days. Zero disables a
// limit. BackdateMaxDays only applies to kinds that accept past dates.
type Limits struct {
	MaxDays         int
	MaxAdvanceDays  int
	BackdateMaxDays int
}
