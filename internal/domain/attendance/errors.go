package attendance

import "errors"

var (
	ErrCheckoutBeforeCheckin = errors.New("checkout must not be before checkin")
	ErrDifferentDays         = errors.New("checkin and checkout must fall on the same day")
	ErrAlreadyCheckedIn      = errors.New("already checked in today")
	ErrNotCheckedIn          = errors.New("no check-in recorded today")
	ErrAlreadyCheckedOut     = errors.New("already checked out today")
)
