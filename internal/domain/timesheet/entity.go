package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
)

// TimesheetDay is the single record per (user, work date).
type TimesheetDay struct {
	ID       string          `json:"id"`
	UserID   string          `json:"user_id"`
	WorkDate time.Time       `json:"work_date"`
	ShiftID  *string         `json:"shift_id,omitempty"`
	Type     shift.ShiftType `json:"shift_type"`
	Status   Status          `json:"status"`

	CheckIn  *time.Time `json:"check_in,omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty"`

	LateMinutes            int  `json:"late_minutes"`
	EarlyMinutes           int  `json:"early_minutes"`
	LateExcused            bool `json:"late_excused"`
	EarlyExcused           bool `json:"early_excused"`
	WorkedMinutesMorning   int  `json:"worked_minutes_morning"`
	WorkedMinutesAfternoon int  `json:"worked_minutes_afternoon"`
	TotalWorkMinutes       int  `json:"total_work_minutes"`
	OvertimeMinutes        int  `json:"overtime_minutes"`

	LatePenalty   decimal.Decimal `json:"late_penalty"`
	EarlyPenalty  decimal.Decimal `json:"early_penalty"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`

	RemoteFlag      bool    `json:"remote_flag"`
	DayOffReference *string `json:"day_off_reference,omitempty"`
	PaidLeave       *string `json:"paid_leave,omitempty"`
	UnpaidLeave     *string `json:"unpaid_leave,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOnLeave reports whether an approved day-off covers the day.
func (d *TimesheetDay) IsOnLeave() bool {
	return d.DayOffReference != nil
}

// HasCompletePair reports whether both timestamps are recorded.
func (d *TimesheetDay) HasCompletePair() bool {
	return d.CheckIn != nil && d.CheckOut != nil
}
