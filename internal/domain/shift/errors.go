package shift

import "errors"

var (
	ErrShiftNotFound          = errors.New("no applicable shift")
	ErrShiftInUse             = errors.New("shift is referenced by timesheets, only name and end date can change")
	ErrInvalidShiftBoundaries = errors.New("shift boundaries must satisfy morning_start < morning_end <= afternoon_start < afternoon_end")
	ErrInvalidShiftWindow     = errors.New("shift end_date must not be before start_date")
)
