package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindRemoteWork    Kind = "REMOTE_WORK"
	KindDayOff        Kind = "DAY_OFF"
	KindOvertime      Kind = "OVERTIME"
	KindLateEarly     Kind = "LATE_EARLY"
	KindForgotCheckin Kind = "FORGOT_CHECKIN"
)

// Kinds lists every request kind in a stable order.
var Kinds = []Kind{KindRemoteWork, KindDayOff, KindOvertime, KindLateEarly, KindForgotCheckin}

var kindSlugs = map[Kind]string{
	KindRemoteWork:    "remote-work",
	KindDayOff:        "day-off",
	KindOvertime:      "overtime",
	KindLateEarly:     "late-early",
	KindForgotCheckin: "forgot-checkin",
}

// Slug is the URL form of the kind.
func (k Kind) Slug() string {
	return kindSlugs[k]
}

func (k Kind) Valid() bool {
	_, ok := kindSlugs[k]
	return ok
}

// ParseKind accepts either the slug or the constant form.
func ParseKind(s string) (Kind, error) {
	for k, slug := range kindSlugs {
		if s == slug || s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type RemoteType string

const (
	RemoteTypeOffice RemoteType = "OFFICE"
	RemoteTypeRemote RemoteType = "REMOTE"
	RemoteTypeHybrid RemoteType = "HYBRID"
)

type Duration string

const (
	DurationFullDay   Duration = "FULL_DAY"
	DurationMorning   Duration = "MORNING"
	DurationAfternoon Duration = "AFTERNOON"
)

// DayFactor is the share of a working day one date of this duration consumes.
func (d Duration) DayFactor() decimal.Decimal {
	if d == DurationMorning || d == DurationAfternoon {
		return decimal.NewFromFloat(0.5)
	}
	return decimal.NewFromInt(1)
}

type LateEarlyType string

const (
	LateEarlyLate  LateEarlyType = "LATE"
	LateEarlyEarly LateEarlyType = "EARLY"
	LateEarlyBoth  LateEarlyType = "BOTH"
)

func (t LateEarlyType) CoversLate() bool {
	return t == LateEarlyLate || t == LateEarlyBoth
}

func (t LateEarlyType) CoversEarly() bool {
	return t == LateEarlyEarly || t == LateEarlyBoth
}

// Kind-specific payloads. Exactly one is set on a Request.

type RemoteWork struct {
	RemoteType RemoteType `json:"remote_type"`
}

type DayOff struct {
	Duration  Duration        `json:"duration"`
	LeaveType leave.LeaveType `json:"leave_type"`
	TotalDays decimal.Decimal `json:"total_days"`
}

type Overtime struct {
	StartTime  shift.TimeOfDay `json:"start_time"`
	EndTime    shift.TimeOfDay `json:"end_time"`
	TotalHours decimal.Decimal `json:"total_hours"`
	ProjectID  *string         `json:"project_id,omitempty"`
}

// Minutes is the overtime length in whole minutes.
func (o Overtime) Minutes() int {
	return int(o.TotalHours.Mul(decimal.NewFromInt(60)).Round(0).IntPart())
}

type LateEarly struct {
	RequestType  LateEarlyType `json:"request_type"`
	LateMinutes  *int          `json:"late_minutes,omitempty"`
	EarlyMinutes *int          `json:"early_minutes,omitempty"`
}

type ForgotCheckin struct {
	Checkin  *shift.TimeOfDay `json:"checkin,omitempty"`
	Checkout *shift.TimeOfDay `json:"checkout,omitempty"`
}

// Request is the common envelope shared by all kinds.
type Request struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Kind            Kind       `json:"kind"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	Title           string     `json:"title"`
	Reason          string     `json:"reason"`
	Status          Status     `json:"status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedReason  *string    `json:"rejected_reason,omitempty"`
	ResubmittedFrom *string    `json:"resubmitted_from,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`

	RemoteWork    *RemoteWork    `json:"remote_work,omitempty"`
	DayOff        *DayOff        `json:"day_off,omitempty"`
	Overtime      *Overtime      `json:"overtime,omitempty"`
	LateEarly     *LateEarly     `json:"late_early,omitempty"`
	ForgotCheckin *ForgotCheckin `json:"forgot_checkin,omitempty"`
}

// Dates returns every calendar date the request covers.
func (r Request) Dates() []time.Time {
	var days []time.Time
	for d := r.StartDate; !d.After(r.EndDate); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// IsActive reports whether the request still claims its dates.
func (r Request) IsActive() bool {
	return r.DeletedAt == nil && (r.Status == StatusPending || r.Status == StatusApproved)
}

// MarshalPayload encodes the kind-specific payload for storage.
func (r Request) MarshalPayload() ([]byte, error) {
	var (
		payload any
		missing bool
	)
	switch r.Kind {
	case KindRemoteWork:
		payload, missing = r.RemoteWork, r.RemoteWork == nil
	case KindDayOff:
		payload, missing = r.DayOff, r.DayOff == nil
	case KindOvertime:
		payload, missing = r.Overtime, r.Overtime == nil
	case KindLateEarly:
		payload, missing = r.LateEarly, r.LateEarly == nil
	case KindForgotCheckin:
		payload, missing = r.ForgotCheckin, r.ForgotCheckin == nil
	default:
		return nil, ErrUnknownKind
	}
	if missing {
		return nil, errNoPayload(r.Kind)
	}
	return json.Marshal(payload)
}

// UnmarshalPayload decodes a stored payload according to r.Kind.
func (r *Request) UnmarshalPayload(data []byte) error {
	if !r.Kind.Valid() {
		return ErrUnknownKind
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errNoPayload(r.Kind)
	}

	var err error
	switch r.Kind {
	case KindRemoteWork:
		r.RemoteWork = &RemoteWork{}
		err = json.Unmarshal(data, r.RemoteWork)
	case KindDayOff:
		r.DayOff = &DayOff{}
		err = json.Unmarshal(data, r.DayOff)
	case KindOvertime:
		r.Overtime = &Overtime{}
		err = json.Unmarshal(data, r.Overtime)
	case KindLateEarly:
		r.LateEarly = &LateEarly{}
		err = json.Unmarshal(data, r.LateEarly)
	case KindForgotCheckin:
		r.ForgotCheckin = &ForgotCheckin{}
		err = json.Unmarshal(data, r.ForgotCheckin)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func errNoPayload(k Kind) error {
	return fmt.Errorf("%w: %s request has no payload", ErrInvalidPayload, k)
}

// conflicts lists, per kind, the kinds that cannot share a date with it.
// The relation is symmetric.
var conflicts = map[Kind][]Kind{
	KindRemoteWork:    {KindRemoteWork, KindDayOff},
	KindDayOff:        {KindDayOff, KindRemoteWork, KindLateEarly, KindForgotCheckin},
	KindOvertime:      {KindOvertime},
	KindLateEarly:     {KindLateEarly, KindDayOff},
	KindForgotCheckin: {KindForgotCheckin, KindDayOff},
}

// ConflictingKinds returns the kinds that conflict with k.
func ConflictingKinds(k Kind) []Kind {
	return conflicts[k]
}

// DateClaim is one active (user, date, kind) slot held by a request.
type DateClaim struct {
	RequestID string
	UserID    string
	Kind      Kind
	WorkDate  time.Time
}
