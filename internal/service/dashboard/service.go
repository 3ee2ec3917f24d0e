package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	ledger leave.Ledger
	clock  clock.Clock
}

func NewDashboardService(repo dashboard.DashboardRepository, ledger leave.Ledger, clk clock.Clock) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		ledger:              ledger,
		clock:               clk,
	}
}

// parseMonth parses YYYY-MM format, defaults to current month
func (s *DashboardServiceImpl) parseMonth(month string) (time.Time, error) {
	if month == "" {
		return clock.Today(s.clock), nil
	}
	parsed, ok := validator.IsValidMonth(month)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{Field: "month", Message: "month must be in YYYY-MM format"}}
	}
	return parsed, nil
}

// parseDate parses YYYY-MM-DD format, defaults to today
func (s *DashboardServiceImpl) parseDate(date string) (time.Time, error) {
	if date == "" {
		return clock.Today(s.clock), nil
	}
	parsed, ok := validator.IsValidDate(date)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return parsed, nil
}

func pendingCounts(byKind map[string]int64) dashboard.PendingCountsResponse {
	resp := dashboard.PendingCountsResponse{ByKind: byKind}
	for _, n := range byKind {
		resp.Total += n
	}
	return resp
}

// GetDashboard returns the caller's month, balance and pending requests.
// The three reads run in parallel.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, userID, month string) (*dashboard.DashboardResponse, error) {
	m, err := s.parseMonth(month)
	if err != nil {
		return nil, err
	}
	from, to := dashboard.MonthRange(m)

	var (
		summary dashboard.MonthlySummaryResponse
		balance leave.Balance
		pending map[string]int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Monthly timesheet rollup
	g.Go(func() error {
		var err error
		summary, err = s.DashboardRepository.GetMonthlySummary(gCtx, userID, from, to)
		if err != nil {
			return fmt.Errorf("failed to get monthly summary: %w", err)
		}
		return nil
	})

	// 2. Leave balance for the month's year
	g.Go(func() error {
		var err error
		balance, err = s.ledger.GetBalance(gCtx, userID, from.Year())
		if err != nil {
			return fmt.Errorf("failed to get leave balance: %w", err)
		}
		return nil
	})

	// 3. Own pending requests
	g.Go(func() error {
		var err error
		pending, err = s.DashboardRepository.GetPendingCounts(gCtx, &userID)
		if err != nil {
			return fmt.Errorf("failed to get pending counts: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.DashboardResponse{
		Summary:      summary,
		LeaveBalance: balance,
		MyPending:    pendingCounts(pending),
	}, nil
}

// GetTeamDashboard returns daily stats and every pending request count.
func (s *DashboardServiceImpl) GetTeamDashboard(ctx context.Context, date string) (*dashboard.TeamDashboardResponse, error) {
	d, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	var (
		daily   dashboard.DailyStatsResponse
		pending map[string]int64
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		daily, err = s.DashboardRepository.GetDailyStats(gCtx, d)
		if err != nil {
			return fmt.Errorf("failed to get daily stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		pending, err = s.DashboardRepository.GetPendingCounts(gCtx, nil)
		if err != nil {
			return fmt.Errorf("failed to get pending counts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.TeamDashboardResponse{Daily: daily, Pending: pendingCounts(pending)}, nil
}

// GetMonthlySummary implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetMonthlySummary(ctx context.Context, userID, month string) (dashboard.MonthlySummaryResponse, error) {
	m, err := s.parseMonth(month)
	if err != nil {
		return dashboard.MonthlySummaryResponse{}, err
	}
	from, to := dashboard.MonthRange(m)
	summary, err := s.DashboardRepository.GetMonthlySummary(ctx, userID, from, to)
	if err != nil {
		return dashboard.MonthlySummaryResponse{}, fmt.Errorf("failed to get monthly summary: %w", err)
	}
	return summary, nil
}
