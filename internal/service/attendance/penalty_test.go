package attendance

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func blockRule() *attendance.BlockRule {
	return &attendance.BlockRule{MinutesPerBlock: 15, AmountPerBlock: decimal.NewFromInt(50000)}
}

func TestComputePenalty_Blocks(t *testing.T) {
	cases := []struct {
		late int
		want int64
	}{
		{0, 0},
		{14, 0},
		{15, 50000},
		{29, 50000},
		{30, 100000},
	}
	for _, c := range cases {
		p := ComputePenalty(c.late, 0, blockRule())
		assert.True(t, decimal.NewFromInt(c.want).Equal(p.Late), "late=%d got %s", c.late, p.Late)
		assert.True(t, p.Early.IsZero())
		assert.True(t, p.Total.Equal(p.Late))
	}
}

func TestComputePenalty_LateAndEarlyAreIndependent(t *testing.T) {
	p := ComputePenalty(15, 31, blockRule())
	assert.Equal(t, "50000", p.Late.String())
	assert.Equal(t, "100000", p.Early.String())
	assert.Equal(t, "150000", p.Total.String())
}

func TestComputePenalty_NoRuleFailsOpen(t *testing.T) {
	p := ComputePenalty(120, 120, nil)
	assert.True(t, p.Total.IsZero())

	p = ComputePenalty(120, 120, &attendance.BlockRule{MinutesPerBlock: 0, AmountPerBlock: decimal.NewFromInt(1)})
	assert.True(t, p.Total.IsZero())
}

func TestComputePenalty_Monotonic(t *testing.T) {
	rule := blockRule()
	prev := ComputePenalty(0, 0, rule).Late
	for m := 1; m <= 200; m++ {
		cur := ComputePenalty(m, 0, rule).Late
		assert.True(t, cur.GreaterThanOrEqual(prev), "penalty decreased at %d", m)
		if (m-1)%rule.MinutesPerBlock != rule.MinutesPerBlock-1 {
			assert.True(t, cur.Equal(prev), "penalty changed inside a block at %d", m)
		}
		prev = cur
	}
}
