package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, shift WorkShift) (WorkShift, error)
	GetByID(ctx context.Context, id string) (WorkShift, error)
	// GetActiveForDate returns the most recently started shift covering date.
	GetActiveForDate(ctx context.Context, date time.Time) (WorkShift, error)
	List(ctx context.Context) ([]WorkShift, error)
	Update(ctx context.Context, shift WorkShift) error
	IsReferenced(ctx context.Context, id string) (bool, error)
}
