package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceRepository - interface for leave_balances table
type BalanceRepository interface {
	// Create inserts b unless (user, year) exists; created reports which happened.
	Create(ctx context.Context, b Balance) (created bool, err error)
	GetByUserAndYear(ctx context.Context, userID string, year int) (Balance, error)
	GetForUpdate(ctx context.Context, userID string, year int) (Balance, error)
	Update(ctx context.Context, b Balance) error
}

// TransactionRepository - interface for leave_transactions table. Append only.
type TransactionRepository interface {
	Append(ctx context.Context, t Transaction) (Transaction, error)
	ListByUserAndYear(ctx context.Context, userID string, year int) ([]Transaction, error)
	ExistsByReference(ctx context.Context, userID string, year int, referenceType, referenceID string) (bool, error)
	Sum(ctx context.Context, userID string, year int, leaveType LeaveType) (decimal.Decimal, error)
}
