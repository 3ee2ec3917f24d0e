package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, userID string) (timesheet.TimesheetDay, error)
	CheckOut(ctx context.Context, userID string) (timesheet.TimesheetDay, error)
	ListMine(ctx context.Context, req ListTimesheetRequest) ([]timesheet.TimesheetDay, error)
	GetTimesheet(ctx context.Context, userID string, date time.Time) (timesheet.TimesheetDay, error)
}
