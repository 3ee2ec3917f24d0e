package request

import (
	"context"
	"time"
)

type Filter struct {
	UserID *string
	Kind   *Kind
	Status *Status
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// RequestRepository - interface for requests and request_dates tables
type RequestRepository interface {
	// Create inserts the request and claims its dates. A duplicate active
	// claim for the same kind fails with ErrConflict.
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	GetByIDForUpdate(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, f Filter) ([]Request, int64, error)
	UpdateStatus(ctx context.Context, r Request) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// ReleaseDates frees every date claim held by the request.
	ReleaseDates(ctx context.Context, requestID string) error
	// FindClaims returns active claims of the given kinds overlapping [from, to].
	FindClaims(ctx context.Context, userID string, kinds []Kind, from, to time.Time) ([]DateClaim, error)
	// LockUser serializes request creation per user until the transaction ends.
	LockUser(ctx context.Context, userID string) error
}
