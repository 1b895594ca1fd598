package display

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundNatural(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		// < $10: up to the nearest $0.50
		{0.01, 0.50},
		{3.20, 3.50},
		{7.51, 8.00},
		{9.80, 10.00},
		// $10 - <$50: floor plus $0.95
		{10.01, 10.95},
		{24.10, 24.95},
		{49.99, 49.95},
		// $50 - <$100: up to the nearest $5
		{50.01, 55.00},
		{62.00, 65.00},
		{96.00, 100.00},
		// >= $100: up to the nearest $10
		{101.00, 110.00},
		{100.01, 110.00},
		{342.50, 350.00},
	}
	for _, tt := range tests {
		got := RoundNatural(decimal.NewFromFloat(tt.in))
		assert.True(t, got.Equal(decimal.NewFromFloat(tt.want)),
			"RoundNatural(%v) = %s, want %v", tt.in, got, tt.want)
	}
}

func TestRoundNaturalIdempotent(t *testing.T) {
	for _, v := range []float64{0.50, 3.50, 10.00, 10.95, 24.95, 49.95, 55.00, 95.00, 100.00, 110.00, 350.00} {
		amount := decimal.NewFromFloat(v)
		once := RoundNatural(amount)
		twice := RoundNatural(once)
		assert.True(t, once.Equal(amount), "RoundNatural(%v) changed an already-natural amount to %s", v, once)
		assert.True(t, twice.Equal(once), "second rounding of %v moved %s to %s", v, once, twice)
	}
}

func TestRoundNaturalNeverDecreasesBelowFifty(t *testing.T) {
	// The $10-$50 bracket can round down by at most $0.05 at x.99;
	// everywhere else rounding only moves up.
	for _, v := range []float64{0.10, 5.25, 9.99, 10.50, 33.33, 51.00, 99.99, 123.45} {
		in := decimal.NewFromFloat(v)
		out := RoundNatural(in)
		assert.True(t, out.GreaterThanOrEqual(in.Sub(decimal.NewFromFloat(0.05))),
			"RoundNatural(%v) = %s dropped too far", v, out)
	}
}

func TestRoundNaturalNegativeClampsToZero(t *testing.T) {
	got := RoundNatural(decimal.NewFromFloat(-3.20))
	assert.True(t, got.IsZero())
}

func TestRoundNaturalZero(t *testing.T) {
	assert.True(t, RoundNatural(decimal.Zero).IsZero())
}
