package request

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrUnknownKind      = errors.New("unknown request kind")
	ErrInvalidPayload   = errors.New("invalid request payload")
	ErrConflict         = errors.New("conflicting request exists")
	ErrAlreadyProcessed = errors.New("request already processed")
	ErrUnauthorized     = errors.New("approver is not allowed to process this request")
	ErrApproverRequired = errors.New("approver identity is required")
	ErrNotOwner         = errors.New("request belongs to another user")
	ErrNotRejected      = errors.New("only rejected requests can be resubmitted")
)

// ConflictError names the date and request that block a new one.
type ConflictError struct {
	Kind       Kind
	Date       time.Time
	ExistingID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting %s request %s on %s", e.Kind, e.ExistingID, e.Date.Format("2006-01-02"))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
