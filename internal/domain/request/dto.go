package request

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// CreateRequest is the flat input for every kind. Fields that do not
// belong to Kind are ignored.
type CreateRequest struct {
	UserID          string  `json:"-"`
	Kind            Kind    `json:"-"`
	ResubmittedFrom *string `json:"-"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	Title     string `json:"title"`
	Reason    string `json:"reason"`

	// REMOTE_WORK
	RemoteType string `json:"remote_type,omitempty"`
	// DAY_OFF
	Duration  string `json:"duration,omitempty"`
	LeaveType string `json:"leave_type,omitempty"`
	// OVERTIME
	StartTime string  `json:"start_time,omitempty"`
	EndTime   string  `json:"end_time,omitempty"`
	ProjectID *string `json:"project_id,omitempty"`
	// LATE_EARLY
	RequestType  string `json:"request_type,omitempty"`
	LateMinutes  *int   `json:"late_minutes,omitempty"`
	EarlyMinutes *int   `json:"early_minutes,omitempty"`
	// FORGOT_CHECKIN
	Checkin  *string `json:"checkin,omitempty"`
	Checkout *string `json:"checkout,omitempty"`

	start time.Time
	end   time.Time
}

// Validate checks the fields shared by all kinds and parses the dates.
func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if !r.Kind.Valid() {
		errs.Add("kind", "kind is not supported")
	}

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end := start
	if r.EndDate != "" {
		var endOK bool
		end, endOK = validator.IsValidDate(r.EndDate)
		if !endOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		} else if ok && end.Before(start) {
			errs.Add("end_date", "end_date must not be before start_date")
		}
	}

	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 255 {
		errs.Add("title", "title must not exceed 255 characters")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	if len(errs) > 0 {
		return errs
	}
	r.start, r.end = start, end
	return nil
}

// Range returns the parsed dates. Valid only after Validate.
func (r *CreateRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

// BalanceWarning is advisory: creation never blocks on balance.
type BalanceWarning struct {
	Requested decimal.Decimal `json:"requested"`
	Remaining decimal.Decimal `json:"remaining"`
	Message   string          `json:"message"`
}

type CreateResult struct {
	Request        Request         `json:"request"`
	BalanceWarning *BalanceWarning `json:"balance_warning,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return validator.ValidationErrors{{Field: "reason", Message: "reason is required"}}
	}
	return nil
}

// ListRequest carries raw query parameters.
type ListRequest struct {
	Kind   string
	Status string
	UserID string
	From   string
	To     string
	Page   int
	Limit  int
}

func (r *ListRequest) ToFilter() (Filter, error) {
	var errs validator.ValidationErrors
	f := Filter{Page: r.Page, Limit: r.Limit}

	if r.Kind != "" {
		k, err := ParseKind(r.Kind)
		if err != nil {
			errs.Add("kind", "kind is not supported")
		} else {
			f.Kind = &k
		}
	}
	if r.Status != "" {
		s := Status(r.Status)
		if !s.Valid() {
			errs.Add("status", "status must be PENDING, APPROVED or REJECTED")
		} else {
			f.Status = &s
		}
	}
	if r.UserID != "" {
		f.UserID = &r.UserID
	}
	if r.From != "" {
		d, ok := validator.IsValidDate(r.From)
		if !ok {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		} else {
			f.From = &d
		}
	}
	if r.To != "" {
		d, ok := validator.IsValidDate(r.To)
		if !ok {
			errs.Add("to", "to must be in YYYY-MM-DD format")
		} else {
			f.To = &d
		}
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if len(errs) > 0 {
		return Filter{}, errs
	}
	return f, nil
}
