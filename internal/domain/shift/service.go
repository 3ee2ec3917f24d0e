package shift

import (
	"context"
	"time"
)

type ShiftService interface {
	Create(ctx context.Context, req CreateShiftRequest) (WorkShift, error)
	Update(ctx context.Context, req UpdateShiftRequest) (WorkShift, error)
	Get(ctx context.Context, id string) (WorkShift, error)
	List(ctx context.Context) ([]WorkShift, error)
	Resolve(ctx context.Context, date time.Time) (WorkShift, error)
}
