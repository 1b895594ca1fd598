package landed

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"landed-cost/core/types"
)

func TestGradeLadder(t *testing.T) {
	c := NewCalculator(testFees())

	tests := []struct {
		name   string
		profit float64
		margin float64
		roi    float64
		want   types.Grade
	}{
		{"floor dominates high margin", 4.99, 0.40, 0.90, types.GradeD},
		{"s tier", 30, 0.20, 0.50, types.GradeS},
		{"a tier margin too low for s", 30, 0.18, 0.60, types.GradeA},
		{"a tier roi too low for s", 30, 0.25, 0.40, types.GradeA},
		{"b tier", 30, 0.12, 0.25, types.GradeB},
		{"c tier low margin", 30, 0.05, 0.10, types.GradeC},
		{"c tier margin without roi", 30, 0.30, 0.10, types.GradeC},
		{"exactly at s thresholds", 30, 0.20, 0.50, types.GradeS},
		{"exactly at floor", 5, 0.12, 0.25, types.GradeB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.grade(types.ProfitResult{
				ProfitUsd:     decimal.NewFromFloat(tt.profit),
				MarginPercent: decimal.NewFromFloat(tt.margin),
				RoiPercent:    decimal.NewFromFloat(tt.roi),
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGradeZeroRevenueNoDivideByZero(t *testing.T) {
	c := NewCalculator(testFees())

	in := baseInput()
	in.ItemPriceUsd = decimal.Zero
	in.ShippingDisplayUsd = decimal.Zero
	in.HandlingFeeUsd = decimal.Zero
	in.ItemCostUsd = decimal.Zero

	_, _, profit, err := c.Calculate(in)
	assert.NoError(t, err)
	assert.True(t, profit.MarginPercent.IsZero())
	assert.True(t, profit.RoiPercent.IsZero())
	assert.Equal(t, types.GradeD, profit.Grade)
}

func TestGradeProfitGuards(t *testing.T) {
	c := NewCalculator(testFees())

	// Zero item cost: ROI undefined, stays zero without panicking
	result := c.gradeProfit(decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(80))
	assert.True(t, result.RoiPercent.IsZero())
	assert.True(t, result.MarginPercent.Equal(decimal.NewFromFloat(0.20)))
	assert.True(t, result.ProfitUsd.Equal(decimal.NewFromInt(20)))

	// Zero revenue: margin undefined, stays zero
	result = c.gradeProfit(decimal.Zero, decimal.NewFromInt(10), decimal.NewFromInt(5))
	assert.True(t, result.MarginPercent.IsZero())
}
