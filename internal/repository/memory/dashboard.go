package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
)

type dashboardRepositoryImpl struct {
	store *Store
}

func NewDashboardRepository(store *Store) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{store: store}
}

// GetMonthlySummary implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetMonthlySummary(ctx context.Context, userID string, from, to time.Time) (dashboard.MonthlySummaryResponse, error) {
	from, to = clock.DateOf(from), clock.DateOf(to)
	summary := dashboard.MonthlySummaryResponse{UserID: userID, Month: from.Format("2006-01"), PenaltyTotal: decimal.Zero}
	err := r.store.run(ctx, func() error {
		for key, day := range r.store.timesheets {
			if key.userID != userID || key.date.Before(from) || key.date.After(to) {
				continue
			}
			if day.CheckIn != nil {
				summary.DaysPresent++
			}
			if day.LateMinutes > 0 && !day.LateExcused {
				summary.LateDays++
			}
			summary.LateMinutes += day.LateMinutes
			summary.EarlyMinutes += day.EarlyMinutes
			summary.WorkedMinutes += day.TotalWorkMinutes
			summary.OvertimeMinutes += day.OvertimeMinutes
			if day.RemoteFlag {
				summary.RemoteDays++
			}
			if day.IsOnLeave() {
				summary.DayOffDays++
			}
			summary.PenaltyTotal = summary.PenaltyTotal.Add(day.PenaltyAmount)
		}
		return nil
	})
	return summary, err
}

// GetDailyStats implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetDailyStats(ctx context.Context, date time.Time) (dashboard.DailyStatsResponse, error) {
	date = clock.DateOf(date)
	stats := dashboard.DailyStatsResponse{Date: date.Format("2006-01-02")}
	err := r.store.run(ctx, func() error {
		for key, day := range r.store.timesheets {
			if !key.date.Equal(date) {
				continue
			}
			if day.CheckIn != nil {
				stats.CheckedIn++
			}
			if day.LateMinutes > 0 {
				stats.Late++
			}
			if day.EarlyMinutes > 0 {
				stats.Early++
			}
			if day.RemoteFlag {
				stats.Remote++
			}
			if day.IsOnLeave() {
				stats.OnLeave++
			}
		}
		return nil
	})
	return stats, err
}

// GetPendingCounts implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetPendingCounts(ctx context.Context, userID *string) (map[string]int64, error) {
	counts := make(map[string]int64)
	err := r.store.run(ctx, func() error {
		for _, req := range r.store.requests {
			if req.DeletedAt != nil || req.Status != request.StatusPending {
				continue
			}
			if userID != nil && req.UserID != *userID {
				continue
			}
			counts[string(req.Kind)]++
		}
		return nil
	})
	return counts, err
}
