package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type balanceRepositoryImpl struct {
	db *database.DB
}

func NewBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &balanceRepositoryImpl{db: db}
}

const balanceColumns = `
	id, user_id, year, paid_leave_balance, unpaid_leave_balance,
	annual_paid_leave_quota, carry_over_days, last_reset_date, created_at, updated_at
`

func scanBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Year,
		&b.PaidLeaveBalance,
		&b.UnpaidLeaveBalance,
		&b.AnnualPaidLeaveQuota,
		&b.CarryOverDays,
		&b.LastResetDate,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, err
	}
	return b, nil
}

// Create implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) Create(ctx context.Context, b leave.Balance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (id, user_id, year, paid_leave_balance, unpaid_leave_balance,
			annual_paid_leave_quota, carry_over_days, last_reset_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, year) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		b.ID, b.UserID, b.Year, b.PaidLeaveBalance, b.UnpaidLeaveBalance,
		b.AnnualPaidLeaveQuota, b.CarryOverDays, b.LastResetDate, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// GetByUserAndYear implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetByUserAndYear(ctx context.Context, userID string, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	return scanBalance(q.QueryRow(ctx, `SELECT `+balanceColumns+` FROM leave_balances WHERE user_id = $1 AND year = $2`, userID, year))
}

// GetForUpdate implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetForUpdate(ctx context.Context, userID string, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	return scanBalance(q.QueryRow(ctx, `SELECT `+balanceColumns+` FROM leave_balances WHERE user_id = $1 AND year = $2 FOR UPDATE`, userID, year))
}

// Update implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) Update(ctx context.Context, b leave.Balance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET paid_leave_balance = $3, unpaid_leave_balance = $4,
			annual_paid_leave_quota = $5, carry_over_days = $6,
			last_reset_date = $7, updated_at = $8
		WHERE user_id = $1 AND year = $2
	`

	tag, err := q.Exec(ctx, query,
		b.UserID, b.Year, b.PaidLeaveBalance, b.UnpaidLeaveBalance,
		b.AnnualPaidLeaveQuota, b.CarryOverDays, b.LastResetDate, b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

type transactionRepositoryImpl struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) leave.TransactionRepository {
	return &transactionRepositoryImpl{db: db}
}

// Append implements leave.TransactionRepository.
func (r *transactionRepositoryImpl) Append(ctx context.Context, t leave.Transaction) (leave.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_transactions (id, user_id, year, transaction_type, leave_type,
			amount, balance_after, reference_type, reference_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.Exec(ctx, query,
		t.ID, t.UserID, t.Year, t.TransactionType, t.LeaveType,
		t.Amount, t.BalanceAfter, t.ReferenceType, t.ReferenceID, t.Description, t.CreatedAt,
	)
	if err != nil {
		return leave.Transaction{}, err
	}
	return t, nil
}

// ListByUserAndYear implements leave.TransactionRepository. IDs are
// time ordered, so they break ties between rows posted at the same instant.
func (r *transactionRepositoryImpl) ListByUserAndYear(ctx context.Context, userID string, year int) ([]leave.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, year, transaction_type, leave_type, amount, balance_after,
			reference_type, reference_id, description, created_at
		FROM leave_transactions
		WHERE user_id = $1 AND year = $2
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, userID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]leave.Transaction, 0)
	for rows.Next() {
		var t leave.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Year,
			&t.TransactionType,
			&t.LeaveType,
			&t.Amount,
			&t.BalanceAfter,
			&t.ReferenceType,
			&t.ReferenceID,
			&t.Description,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// ExistsByReference implements leave.TransactionRepository.
func (r *transactionRepositoryImpl) ExistsByReference(ctx context.Context, userID string, year int, referenceType, referenceID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_transactions
			WHERE user_id = $1 AND year = $2 AND reference_type = $3 AND reference_id = $4
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, userID, year, referenceType, referenceID).Scan(&exists)
	return exists, err
}

// Sum implements leave.TransactionRepository.
func (r *transactionRepositoryImpl) Sum(ctx context.Context, userID string, year int, leaveType leave.LeaveType) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM leave_transactions
		WHERE user_id = $1 AND year = $2 AND leave_type = $3
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, userID, year, leaveType).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
