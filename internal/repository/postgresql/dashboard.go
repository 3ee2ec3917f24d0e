package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetMonthlySummary implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetMonthlySummary(ctx context.Context, userID string, from, to time.Time) (dashboard.MonthlySummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE check_in IS NOT NULL),
			COUNT(*) FILTER (WHERE late_minutes > 0 AND NOT late_excused),
			COALESCE(SUM(late_minutes), 0),
			COALESCE(SUM(early_minutes), 0),
			COALESCE(SUM(total_work_minutes), 0),
			COALESCE(SUM(overtime_minutes), 0),
			COUNT(*) FILTER (WHERE remote_flag),
			COUNT(*) FILTER (WHERE day_off_reference IS NOT NULL),
			COALESCE(SUM(penalty_amount), 0)
		FROM timesheets
		WHERE user_id = $1 AND work_date BETWEEN $2 AND $3
	`

	summary := dashboard.MonthlySummaryResponse{UserID: userID, Month: from.Format("2006-01")}
	err := q.QueryRow(ctx, query, userID, from, to).Scan(
		&summary.DaysPresent,
		&summary.LateDays,
		&summary.LateMinutes,
		&summary.EarlyMinutes,
		&summary.WorkedMinutes,
		&summary.OvertimeMinutes,
		&summary.RemoteDays,
		&summary.DayOffDays,
		&summary.PenaltyTotal,
	)
	if err != nil {
		return dashboard.MonthlySummaryResponse{}, err
	}
	return summary, nil
}

// GetDailyStats implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetDailyStats(ctx context.Context, date time.Time) (dashboard.DailyStatsResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE check_in IS NOT NULL),
			COUNT(*) FILTER (WHERE late_minutes > 0),
			COUNT(*) FILTER (WHERE early_minutes > 0),
			COUNT(*) FILTER (WHERE remote_flag),
			COUNT(*) FILTER (WHERE day_off_reference IS NOT NULL)
		FROM timesheets
		WHERE work_date = $1
	`

	stats := dashboard.DailyStatsResponse{Date: date.Format("2006-01-02")}
	err := q.QueryRow(ctx, query, date).Scan(
		&stats.CheckedIn,
		&stats.Late,
		&stats.Early,
		&stats.Remote,
		&stats.OnLeave,
	)
	if err != nil {
		return dashboard.DailyStatsResponse{}, err
	}
	return stats, nil
}

// GetPendingCounts implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetPendingCounts(ctx context.Context, userID *string) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT kind, COUNT(*)
		FROM requests
		WHERE status = 'PENDING' AND deleted_at IS NULL
			AND ($1::uuid IS NULL OR user_id = $1::uuid)
		GROUP BY kind
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			kind  string
			count int64
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[kind] = count
	}
	return counts, rows.Err()
}
