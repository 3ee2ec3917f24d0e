package leave

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrBalanceNotFound        = errors.New("leave balance not found")
	ErrInsufficientBalance    = errors.New("insufficient leave balance")
	ErrInvalidTransactionSign = errors.New("transaction amount has the wrong sign for its type")
	ErrInvalidLeaveType       = errors.New("invalid leave type")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// InsufficientBalanceError carries the amounts behind a refused debit.
type InsufficientBalanceError struct {
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance: requested %s, remaining %s", e.Requested, e.Remaining)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
