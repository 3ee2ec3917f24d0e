package leave

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ApplyInput is one ledger posting. Amount is signed: USED is negative,
// EARNED and CARRY_OVER positive, ADJUSTED either.
type ApplyInput struct {
	UserID          string
	Year            int
	TransactionType TransactionType
	LeaveType       LeaveType
	Amount          decimal.Decimal
	ReferenceType   string
	ReferenceID     *string
	Description     string
}

// Check validates the sign and type combination.
func (in ApplyInput) Check() error {
	switch in.TransactionType {
	case TransactionUsed:
		if !in.Amount.IsNegative() {
			return ErrInvalidTransactionSign
		}
	case TransactionEarned, TransactionCarryOver:
		if !in.Amount.IsPositive() {
			return ErrInvalidTransactionSign
		}
	case TransactionAdjusted:
		if in.Amount.IsZero() {
			return ErrInvalidTransactionSign
		}
	default:
		return ErrInvalidTransactionType
	}
	if !in.LeaveType.Valid() {
		return ErrInvalidLeaveType
	}
	return nil
}

type AdjustRequest struct {
	UserID      string `json:"user_id"`
	Year        int    `json:"year"`
	LeaveType   string `json:"leave_type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	AdjustedBy  string `json:"-"`

	parsed decimal.Decimal
}

func (r *AdjustRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if r.Year < 2000 || r.Year > 9999 {
		errs.Add("year", "year must be a four digit year")
	}
	if !LeaveType(r.LeaveType).Valid() {
		errs.Add("leave_type", "leave_type must be PAID or UNPAID")
	}
	amount, err := decimal.NewFromString(r.Amount)
	switch {
	case err != nil:
		errs.Add("amount", "amount must be a decimal number")
	case amount.IsZero():
		errs.Add("amount", "amount must not be zero")
	case !amount.Mul(decimal.NewFromInt(2)).IsInteger():
		errs.Add("amount", "amount must be a multiple of 0.5")
	}
	if validator.IsEmpty(r.Description) {
		errs.Add("description", "description is required")
	}

	if len(errs) > 0 {
		return errs
	}
	r.parsed = amount
	return nil
}

func (r *AdjustRequest) ParsedAmount() decimal.Decimal {
	return r.parsed
}

// ReconcileReport compares cached balances against the ledger sums.
type ReconcileReport struct {
	UserID       string          `json:"user_id"`
	Year         int             `json:"year"`
	CachedPaid   decimal.Decimal `json:"cached_paid"`
	LedgerPaid   decimal.Decimal `json:"ledger_paid"`
	CachedUnpaid decimal.Decimal `json:"cached_unpaid"`
	LedgerUnpaid decimal.Decimal `json:"ledger_unpaid"`
	Consistent   bool            `json:"consistent"`
}
