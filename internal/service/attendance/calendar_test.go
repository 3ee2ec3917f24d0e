package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendar_WorkingDays(t *testing.T) {
	cal := NewCalendar(time.Saturday, time.Sunday)

	// Thu 2024-02-15 .. Tue 2024-02-20
	from := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)

	days := cal.WorkingDays(from, to)
	assert.Len(t, days, 4)
	assert.False(t, cal.IsWorkingDay(time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cal.IsWorkingDay(from))
}

func TestCalendar_CustomWeekend(t *testing.T) {
	cal := NewCalendar(time.Friday)
	assert.False(t, cal.IsWorkingDay(time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cal.IsWorkingDay(time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC)))
}
