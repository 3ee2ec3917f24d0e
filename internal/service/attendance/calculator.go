package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
)

// ComputeAttendance derives late, early and worked minutes from one
// check-in/check-out pair. The shift boundaries are anchored onto the
// check-in date in the check-in location.
func ComputeAttendance(checkin, checkout time.Time, s shift.WorkShift) (attendance.Result, error) {
	if checkout.Before(checkin) {
		return attendance.Result{}, attendance.ErrCheckoutBeforeCheckin
	}
	loc := checkin.Location()
	cy, cm, cd := checkin.Date()
	oy, om, od := checkout.In(loc).Date()
	if cy != oy || cm != om || cd != od {
		return attendance.Result{}, attendance.ErrDifferentDays
	}

	morningStart := s.MorningStart.On(checkin, loc)
	morningEnd := s.MorningEnd.On(checkin, loc)
	afternoonStart := s.AfternoonStart.On(checkin, loc)
	afternoonEnd := s.AfternoonEnd.On(checkin, loc)

	return attendance.Result{
		LateMinutes:      wholeMinutes(checkin.Sub(morningStart)),
		EarlyMinutes:     wholeMinutes(afternoonEnd.Sub(checkout)),
		MorningMinutes:   overlapMinutes(checkin, checkout, morningStart, morningEnd),
		AfternoonMinutes: overlapMinutes(checkin, checkout, afternoonStart, afternoonEnd),
	}, nil
}

// LateMinutes is the late part of ComputeAttendance, usable before checkout.
func LateMinutes(checkin time.Time, s shift.WorkShift) int {
	return wholeMinutes(checkin.Sub(s.MorningStart.On(checkin, checkin.Location())))
}

// wholeMinutes floors d to minutes, clamped at zero.
func wholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

func overlapMinutes(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return wholeMinutes(end.Sub(start))
}
