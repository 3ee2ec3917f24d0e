package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type ListTimesheetRequest struct {
	UserID string
	From   string
	To     string

	FromDate time.Time
	ToDate   time.Time
}

// Validate parses the range. Both ends are required and the range is capped at 92 days.
func (r *ListTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	from, ok := validator.IsValidDate(r.From)
	if !ok {
		errs.Add("from", "from must be in YYYY-MM-DD format")
	}
	to, ok2 := validator.IsValidDate(r.To)
	if !ok2 {
		errs.Add("to", "to must be in YYYY-MM-DD format")
	}
	if ok && ok2 {
		if to.Before(from) {
			errs.Add("to", "to must not be before from")
		} else if to.Sub(from) > 92*24*time.Hour {
			errs.Add("to", "range must not exceed 92 days")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	r.FromDate, r.ToDate = from, to
	return nil
}
