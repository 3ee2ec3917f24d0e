package shift

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"

type CreateShiftRequest struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date,omitempty"`
	MorningStart   string  `json:"morning_start"`
	MorningEnd     string  `json:"morning_end"`
	AfternoonStart string  `json:"afternoon_start"`
	AfternoonEnd   string  `json:"afternoon_end"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}

	if r.Type == "" {
		r.Type = string(ShiftTypeNormal)
	}
	if !ShiftType(r.Type).Valid() {
		errs.Add("type", "type must be one of NORMAL, FLEXIBLE, NIGHT, PART_TIME, OVERTIME")
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	for field, value := range map[string]string{
		"morning_start":   r.MorningStart,
		"morning_end":     r.MorningEnd,
		"afternoon_start": r.AfternoonStart,
		"afternoon_end":   r.AfternoonEnd,
	} {
		if !validator.IsValidTimeOfDay(value) {
			errs.Add(field, field+" must be in HH:MM format")
		}
	}

	return errs.Err()
}

// UpdateShiftRequest changes a shift. Boundary fields are rejected once
// the shift is referenced by timesheets.
type UpdateShiftRequest struct {
	ID             string  `json:"-"`
	Name           *string `json:"name,omitempty"`
	EndDate        *string `json:"end_date,omitempty"`
	MorningStart   *string `json:"morning_start,omitempty"`
	MorningEnd     *string `json:"morning_end,omitempty"`
	AfternoonStart *string `json:"afternoon_start,omitempty"`
	AfternoonEnd   *string `json:"afternoon_end,omitempty"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	for field, value := range map[string]*string{
		"morning_start":   r.MorningStart,
		"morning_end":     r.MorningEnd,
		"afternoon_start": r.AfternoonStart,
		"afternoon_end":   r.AfternoonEnd,
	} {
		if value != nil && !validator.IsValidTimeOfDay(*value) {
			errs.Add(field, field+" must be in HH:MM format")
		}
	}

	return errs.Err()
}

// ChangesBoundaries reports whether the update touches any time boundary.
func (r *UpdateShiftRequest) ChangesBoundaries() bool {
	return r.MorningStart != nil || r.MorningEnd != nil || r.AfternoonStart != nil || r.AfternoonEnd != nil
}
