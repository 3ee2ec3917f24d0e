package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

// Calendar decides which dates are working days.
type Calendar struct {
	weekend map[time.Weekday]bool
}

func NewCalendar(weekend ...time.Weekday) *Calendar {
	c := &Calendar{weekend: make(map[time.Weekday]bool, len(weekend))}
	for _, d := range weekend {
		c.weekend[d] = true
	}
	return c
}

func (c *Calendar) IsWorkingDay(date time.Time) bool {
	return !c.weekend[date.Weekday()]
}

// WorkingDays returns the working days in [from, to].
func (c *Calendar) WorkingDays(from, to time.Time) []time.Time {
	var days []time.Time
	for _, d := range clock.Days(from, to) {
		if c.IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}
