package timesheet

import (
	"context"
	"time"
)

type TimesheetRepository interface {
	// EnsureExists inserts day unless a row for (user, work date) exists.
	EnsureExists(ctx context.Context, day TimesheetDay) (created bool, err error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, userID string, workDate time.Time) (TimesheetDay, error)
	Get(ctx context.Context, userID string, workDate time.Time) (TimesheetDay, error)
	Update(ctx context.Context, day TimesheetDay) error
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]TimesheetDay, error)
}
