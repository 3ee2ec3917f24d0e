package shift

import (
	"encoding/json"
	"fmt"
	"time"
)

type ShiftType string

const (
	ShiftTypeNormal   ShiftType = "NORMAL"
	ShiftTypeFlexible ShiftType = "FLEXIBLE"
	ShiftTypeNight    ShiftType = "NIGHT"
	ShiftTypePartTime ShiftType = "PART_TIME"
	ShiftTypeOvertime ShiftType = "OVERTIME"
)

func (t ShiftType) Valid() bool {
	switch t {
	case ShiftTypeNormal, ShiftTypeFlexible, ShiftTypeNight, ShiftTypePartTime, ShiftTypeOvertime:
		return true
	}
	return false
}

// TimeOfDay is a wall-clock time without a date, "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustTimeOfDay panics on a malformed literal.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Minutes() < o.Minutes()
}

// On anchors t onto the calendar date of day, in loc.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// WorkShift is a daily schedule valid over [StartDate, EndDate].
// A nil EndDate means open ended.
type WorkShift struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Type           ShiftType  `json:"type"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	MorningStart   TimeOfDay  `json:"morning_start"`
	MorningEnd     TimeOfDay  `json:"morning_end"`
	AfternoonStart TimeOfDay  `json:"afternoon_start"`
	AfternoonEnd   TimeOfDay  `json:"afternoon_end"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Covers reports whether date falls within the validity window.
func (s WorkShift) Covers(date time.Time) bool {
	if date.Before(s.StartDate) {
		return false
	}
	return s.EndDate == nil || !date.After(*s.EndDate)
}

func (s WorkShift) MorningMinutes() int {
	return s.MorningEnd.Minutes() - s.MorningStart.Minutes()
}

func (s WorkShift) AfternoonMinutes() int {
	return s.AfternoonEnd.Minutes() - s.AfternoonStart.Minutes()
}

// CheckBoundaries enforces morningStart < morningEnd <= afternoonStart < afternoonEnd.
func (s WorkShift) CheckBoundaries() error {
	if !s.MorningStart.Before(s.MorningEnd) ||
		s.AfternoonStart.Before(s.MorningEnd) ||
		!s.AfternoonStart.Before(s.AfternoonEnd) {
		return ErrInvalidShiftBoundaries
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		return ErrInvalidShiftWindow
	}
	return nil
}

// SameBoundaries reports whether two shifts share all four boundaries and the start date.
func (s WorkShift) SameBoundaries(o WorkShift) bool {
	return s.MorningStart == o.MorningStart &&
		s.MorningEnd == o.MorningEnd &&
		s.AfternoonStart == o.AfternoonStart &&
		s.AfternoonEnd == o.AfternoonEnd &&
		s.StartDate.Equal(o.StartDate) &&
		s.Type == o.Type
}
