package clock

import "time"

// Clock is the source of "now" for services.
type Clock interface {
	Now() time.Time
}

// Real reads the wall clock in a fixed location.
type Real struct {
	Location *time.Location
}

func NewReal(loc *time.Location) Real {
	if loc == nil {
		loc = time.Local
	}
	return Real{Location: loc}
}

func (c Real) Now() time.Time {
	return time.Now().In(c.Location)
}

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

func (c Fixed) Now() time.Time {
	return c.T
}

// DateOf returns the calendar date of t as midnight UTC.
// Work dates are compared and stored in this form.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of c.Now().
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// Days returns every calendar date in [from, to].
func Days(from, to time.Time) []time.Time {
	from, to = DateOf(from), DateOf(to)
	if to.Before(from) {
		return nil
	}
	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
