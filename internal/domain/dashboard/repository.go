package dashboard

import (
	"context"
	"time"
)

type DashboardRepository interface {
	GetMonthlySummary(ctx context.Context, userID string, from, to time.Time) (MonthlySummaryResponse, error)
	GetDailyStats(ctx context.Context, date time.Time) (DailyStatsResponse, error)
	// GetPendingCounts counts pending requests; a nil userID counts everyone.
	GetPendingCounts(ctx context.Context, userID *string) (map[string]int64, error)
}
