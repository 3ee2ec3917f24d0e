package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger owns leave balances. ApplyTransaction is the only writer of
// Transaction rows.
type Ledger interface {
	GetBalance(ctx context.Context, userID string, year int) (Balance, error)
	ApplyTransaction(ctx context.Context, in ApplyInput) (Transaction, error)
	CheckAvailable(ctx context.Context, userID string, year int, days decimal.Decimal) (remaining decimal.Decimal, ok bool, err error)
	History(ctx context.Context, userID string, year int) ([]Transaction, error)
	Adjust(ctx context.Context, req AdjustRequest) (Transaction, error)
	Reconcile(ctx context.Context, userID string, year int) (ReconcileReport, error)

	// Batch operations
	ResetYear(ctx context.Context, userID string, year int) (Balance, error)
	AccrueMonthly(ctx context.Context, userID string, year int, month time.Month) (*Transaction, error)
}
