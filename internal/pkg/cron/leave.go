package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

// LeaveJobs runs the ledger batch operations for every active user.
// Both operations are idempotent, so the jobs may run as often as the
// scheduler likes.
type LeaveJobs struct {
	ledger  leave.Ledger
	users   user.UserRepository
	clock   clock.Clock
	accrual leave.AccrualMethod
}

func NewLeaveJobs(ledger leave.Ledger, users user.UserRepository, clk clock.Clock, accrual leave.AccrualMethod) *LeaveJobs {
	return &LeaveJobs{
		ledger:  ledger,
		users:   users,
		clock:   clk,
		accrual: accrual,
	}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("leave_year_reset", 1*time.Hour, j.ResetYear)
	if j.accrual == leave.AccrualMonthly {
		scheduler.AddJob("leave_monthly_accrual", 1*time.Hour, j.AccrueMonthly)
	}
}

// ResetYear opens the current year's balance for each active user,
// carrying over from the previous year.
func (j *LeaveJobs) ResetYear(ctx context.Context) error {
	year := j.clock.Now().Year()
	return j.forEachUser(ctx, "leave_year_reset", func(ctx context.Context, userID string) (bool, error) {
		_, err := j.ledger.ResetYear(ctx, userID, year)
		return err == nil, err
	})
}

// AccrueMonthly posts the current month's accrual for each active user.
func (j *LeaveJobs) AccrueMonthly(ctx context.Context) error {
	now := j.clock.Now()
	return j.forEachUser(ctx, "leave_monthly_accrual", func(ctx context.Context, userID string) (bool, error) {
		txn, err := j.ledger.AccrueMonthly(ctx, userID, now.Year(), now.Month())
		return txn != nil, err
	})
}

// forEachUser applies fn to every active user. One user's failure does
// not stop the others.
func (j *LeaveJobs) forEachUser(ctx context.Context, job string, fn func(ctx context.Context, userID string) (bool, error)) error {
	users, err := j.users.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	applied, failed := 0, 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		changed, err := fn(ctx, u.ID)
		if err != nil {
			failed++
			slog.Error("Cron: leave job failed for user", "job", job, "user_id", u.ID, "error", err)
			continue
		}
		if changed {
			applied++
		}
	}

	slog.Info("Cron: leave job finished", "job", job, "users", len(users), "applied", applied, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d users failed", failed, len(users))
	}
	return nil
}
