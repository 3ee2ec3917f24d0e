package attendance

import "github.com/shopspring/decimal"

// Result holds the time facts derived from one check-in/check-out pair.
type Result struct {
	LateMinutes      int `json:"late_minutes"`
	EarlyMinutes     int `json:"early_minutes"`
	MorningMinutes   int `json:"morning_minutes"`
	AfternoonMinutes int `json:"afternoon_minutes"`
}

func (r Result) WorkedMinutes() int {
	return r.MorningMinutes + r.AfternoonMinutes
}

// BlockRule charges AmountPerBlock for every full MinutesPerBlock.
type BlockRule struct {
	MinutesPerBlock int             `json:"minutes_per_block"`
	AmountPerBlock  decimal.Decimal `json:"amount_per_block"`
}

type Penalty struct {
	Late  decimal.Decimal `json:"late_penalty"`
	Early decimal.Decimal `json:"early_penalty"`
	Total decimal.Decimal `json:"total"`
}
