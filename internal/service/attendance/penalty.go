package attendance

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// ComputePenalty charges rule.AmountPerBlock per full block of late and
// early minutes. A missing or non-positive rule charges nothing.
func ComputePenalty(lateMinutes, earlyMinutes int, rule *attendance.BlockRule) attendance.Penalty {
	p := attendance.Penalty{Late: decimal.Zero, Early: decimal.Zero, Total: decimal.Zero}
	if rule == nil || rule.MinutesPerBlock <= 0 {
		return p
	}
	p.Late = blockAmount(lateMinutes, rule)
	p.Early = blockAmount(earlyMinutes, rule)
	p.Total = p.Late.Add(p.Early)
	return p
}

func blockAmount(minutes int, rule *attendance.BlockRule) decimal.Decimal {
	if minutes <= 0 {
		return decimal.Zero
	}
	blocks := minutes / rule.MinutesPerBlock
	return rule.AmountPerBlock.Mul(decimal.NewFromInt(int64(blocks)))
}
