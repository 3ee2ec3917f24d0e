package dashboard

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// MonthlySummaryResponse rolls up one user's timesheets for a month.
type MonthlySummaryResponse struct {
	UserID          string          `json:"user_id"`
	Month           string          `json:"month"`
	DaysPresent     int             `json:"days_present"`
	LateDays        int             `json:"late_days"`
	LateMinutes     int             `json:"late_minutes"`
	EarlyMinutes    int             `json:"early_minutes"`
	WorkedMinutes   int             `json:"worked_minutes"`
	OvertimeMinutes int             `json:"overtime_minutes"`
	RemoteDays      int             `json:"remote_days"`
	DayOffDays      int             `json:"day_off_days"`
	PenaltyTotal    decimal.Decimal `json:"penalty_total"`
}

// DailyStatsResponse counts timesheet states across all users for one date.
type DailyStatsResponse struct {
	Date      string `json:"date"`
	CheckedIn int    `json:"checked_in"`
	Late      int    `json:"late"`
	Early     int    `json:"early"`
	Remote    int    `json:"remote"`
	OnLeave   int    `json:"on_leave"`
}

// PendingCountsResponse counts PENDING requests per kind.
type PendingCountsResponse struct {
	ByKind map[string]int64 `json:"by_kind"`
	Total  int64            `json:"total"`
}

// DashboardResponse is the personal dashboard.
type DashboardResponse struct {
	Summary      MonthlySummaryResponse `json:"summary"`
	LeaveBalance leave.Balance          `json:"leave_balance"`
	MyPending    PendingCountsResponse  `json:"my_pending"`
}

// TeamDashboardResponse is the approver's view.
type TeamDashboardResponse struct {
	Daily   DailyStatsResponse    `json:"daily"`
	Pending PendingCountsResponse `json:"pending"`
}

// MonthRange returns the first and last date of the month containing m.
func MonthRange(m time.Time) (time.Time, time.Time) {
	first := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
