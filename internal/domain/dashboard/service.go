package dashboard

import "context"

type DashboardService interface {
	GetDashboard(ctx context.Context, userID, month string) (*DashboardResponse, error)
	GetTeamDashboard(ctx context.Context, date string) (*TeamDashboardResponse, error)
	GetMonthlySummary(ctx context.Context, userID, month string) (MonthlySummaryResponse, error)
}
