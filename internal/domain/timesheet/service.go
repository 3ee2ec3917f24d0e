package timesheet

import (
	"context"
	"time"
)

// MutateFunc edits a locked day. created is true when the row was
// inserted by this call.
type MutateFunc func(day *TimesheetDay, created bool) error

// Writer is the only path that changes TimesheetDay rows.
type Writer interface {
	Mutate(ctx context.Context, userID string, workDate time.Time, fn MutateFunc) (TimesheetDay, error)
}
