package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// ApplyPenalty refreshes the penalty fields of day. Excused components cost nothing.
func ApplyPenalty(day *timesheet.TimesheetDay, rule *attendance.BlockRule) {
	p := ComputePenalty(day.LateMinutes, day.EarlyMinutes, rule)
	if day.LateExcused {
		p.Late = decimal.Zero
	}
	if day.EarlyExcused {
		p.Early = decimal.Zero
	}
	day.LatePenalty = p.Late
	day.EarlyPenalty = p.Early
	day.PenaltyAmount = p.Late.Add(p.Early)
}

// Recompute derives minutes and penalty from the recorded timestamps.
// Excused minutes keep their approved values. Days without a complete
// pair are left untouched.
func Recompute(day *timesheet.TimesheetDay, s shift.WorkShift, rule *attendance.BlockRule, loc *time.Location) error {
	if !day.HasCompletePair() {
		return nil
	}
	res, err := ComputeAttendance(day.CheckIn.In(loc), day.CheckOut.In(loc), s)
	if err != nil {
		return err
	}
	if !day.LateExcused {
		day.LateMinutes = res.LateMinutes
	}
	if !day.EarlyExcused {
		day.EarlyMinutes = res.EarlyMinutes
	}
	day.WorkedMinutesMorning = res.MorningMinutes
	day.WorkedMinutesAfternoon = res.AfternoonMinutes
	day.TotalWorkMinutes = res.WorkedMinutes()
	ApplyPenalty(day, rule)
	return nil
}
