package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionEarned    TransactionType = "EARNED"
	TransactionUsed      TransactionType = "USED"
	TransactionAdjusted  TransactionType = "ADJUSTED"
	TransactionCarryOver TransactionType = "CARRY_OVER"
)

type LeaveType string

const (
	LeaveTypePaid   LeaveType = "PAID"
	LeaveTypeUnpaid LeaveType = "UNPAID"
)

func (t LeaveType) Valid() bool {
	return t == LeaveTypePaid || t == LeaveTypeUnpaid
}

// Reference types recorded on ledger rows.
const (
	ReferenceAnnualGrant    = "ANNUAL_GRANT"
	ReferenceUnpaidGrant    = "UNPAID_ALLOWANCE"
	ReferenceMonthlyAccrual = "MONTHLY_ACCRUAL"
	ReferenceYearReset      = "YEAR_RESET"
	ReferenceDayOffRequest  = "DAY_OFF_REQUEST"
	ReferenceManual         = "MANUAL_ADJUSTMENT"
)

type AccrualMethod string

const (
	AccrualYearly  AccrualMethod = "yearly"
	AccrualMonthly AccrualMethod = "monthly"
)

// Policy is the default leave configuration resolved at startup.
type Policy struct {
	AnnualPaidQuota  decimal.Decimal
	UnpaidAllowance  decimal.Decimal
	MaxCarryOverDays decimal.Decimal
	Accrual          AccrualMethod
}

// OpeningPaid is the paid amount granted when a year's balance is opened.
func (p Policy) OpeningPaid() decimal.Decimal {
	if p.Accrual == AccrualMonthly {
		return decimal.Zero
	}
	return p.AnnualPaidQuota
}

// MonthlyAccrual is one twelfth of the annual quota, rounded to 2 places.
func (p Policy) MonthlyAccrual() decimal.Decimal {
	return p.AnnualPaidQuota.Div(decimal.NewFromInt(12)).Round(2)
}

// Balance is the cached running balance per user and year. It always
// equals the sum of that year's transactions per leave type.
type Balance struct {
	ID                   string          `json:"id,omitempty"`
	UserID               string          `json:"user_id"`
	Year                 int             `json:"year"`
	PaidLeaveBalance     decimal.Decimal `json:"paid_leave_balance"`
	UnpaidLeaveBalance   decimal.Decimal `json:"unpaid_leave_balance"`
	AnnualPaidLeaveQuota decimal.Decimal `json:"annual_paid_leave_quota"`
	CarryOverDays        decimal.Decimal `json:"carry_over_days"`
	LastResetDate        *time.Time      `json:"last_reset_date,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Persisted is false for a derived view with no stored row.
func (b Balance) Persisted() bool {
	return b.ID != ""
}

func (b Balance) Amount(t LeaveType) decimal.Decimal {
	if t == LeaveTypeUnpaid {
		return b.UnpaidLeaveBalance
	}
	return b.PaidLeaveBalance
}

func (b *Balance) setAmount(t LeaveType, v decimal.Decimal) {
	if t == LeaveTypeUnpaid {
		b.UnpaidLeaveBalance = v
		return
	}
	b.PaidLeaveBalance = v
}

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Year            int             `json:"year"`
	TransactionType TransactionType `json:"transaction_type"`
	LeaveType       LeaveType       `json:"leave_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     *string         `json:"reference_id,omitempty"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Post applies amount to the balance and returns the new value. It does
// not check limits.
func (b *Balance) Post(t LeaveType, tt TransactionType, amount decimal.Decimal) decimal.Decimal {
	after := b.Amount(t).Add(amount)
	b.setAmount(t, after)
	if tt == TransactionCarryOver {
		b.CarryOverDays = b.CarryOverDays.Add(amount)
	}
	return after
}
