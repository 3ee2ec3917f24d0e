package memory

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type balanceRepositoryImpl struct {
	store *Store
}

func NewBalanceRepository(store *Store) leave.BalanceRepository {
	return &balanceRepositoryImpl{store: store}
}

// Create implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) Create(ctx context.Context, b leave.Balance) (bool, error) {
	var created bool
	err := r.store.run(ctx, func() error {
		key := yearKey{b.UserID, b.Year}
		if _, ok := r.store.balances[key]; ok {
			return nil
		}
		r.store.balances[key] = b
		created = true
		return nil
	})
	return created, err
}

// GetByUserAndYear implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetByUserAndYear(ctx context.Context, userID string, year int) (leave.Balance, error) {
	var b leave.Balance
	err := r.store.run(ctx, func() error {
		found, ok := r.store.balances[yearKey{userID, year}]
		if !ok {
			return leave.ErrBalanceNotFound
		}
		b = found
		return nil
	})
	return b, err
}

// GetForUpdate implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetForUpdate(ctx context.Context, userID string, year int) (leave.Balance, error) {
	return r.GetByUserAndYear(ctx, userID, year)
}

// Update implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) Update(ctx context.Context, b leave.Balance) error {
	return r.store.run(ctx, func() error {
		key := yearKey{b.UserID, b.Year}
		if _, ok := r.store.balances[key]; !ok {
			return leave.ErrBalanceNotFound
		}
		r.store.balances[key] = b
		return nil
	})
}

type transactionRepositoryImpl struct {
	store *Store
}

func NewTransactionRepository(store *Store) leave.TransactionRepository {
	return &transactionRepositoryImpl{store: store}
}

// Append implements leave.TransactionRepository.
func (r *transactionRepositoryImpl) Append(ctx context.Context, t leave.Transaction) (leave.Transaction, error) {
	err := r.store.run(ctx, func() error {
		r.store.transactions = append(r.store.transactions, t)
		return nil
	})
	return t, err
}

// ListByUserAndYear implements leave.TransactionRepository. Rows come
// back in posting order.
func (r *transactionRepositoryImpl) ListByUserAndYear(ctx context.Context, userID string, year int) ([]leave.Transaction, error) {
	txns := []leave.Transaction{}
	err := r.store.run(ctx, func() error {
		for _, t := range r.store.transactions {
			if t.UserID == userID && t.Year == year {
				txns = append(txns, t)
			}
		}
		return nil
	})
	return txns, err
}

// ExistsByReference implements leave.TransactionRepository.
func (r *transactionRepositoryImpl) ExistsByReference(ctx context.Context, userID string, year int, referenceType, referenceID string) (bool, error) {
	var exists bool
	err := r.store.run(ctx, func() error {
		for _, t := range r.store.transactions {
			if t.UserID == userID && t.Year == year && t.ReferenceType == referenceType &&
				t.ReferenceID != nil && *t.ReferenceID == referenceID {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

// Sum implements leave.TransactionRepository.
func (r *transactionRepositoryImpl) Sum(ctx context.Context, userID string, year int, leaveType leave.LeaveType) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.store.run(ctx, func() error {
		for _, t := range r.store.transactions {
			if t.UserID == userID && t.Year == year && t.LeaveType == leaveType {
				total = total.Add(t.Amount)
			}
		}
		return nil
	})
	return total, err
}
