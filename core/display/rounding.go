package display

import "github.com/shopspring/decimal"

var (
	ten        = decimal.NewFromInt(10)
	fifty      = decimal.NewFromInt(50)
	hundred    = decimal.NewFromInt(100)
	half       = decimal.NewFromFloat(0.50)
	five       = decimal.NewFromInt(5)
	ninetyFive = decimal.NewFromFloat(0.95)
)

// RoundNatural rounds an amount to a psychologically natural display
// price:
//
//	< $10          round up to the nearest $0.50
//	$10 - <$50     floor to the whole dollar, plus $0.95
//	$50 - <$100    round up to the nearest $5
//	>= $100        round up to the nearest $10
//
// Rounding a rounded value is a no-op, so already-natural amounts
// (including the $10.00 produced by the first bracket) pass through.
func RoundNatural(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	if isNatural(amount) {
		return amount
	}

	switch {
	case amount.LessThan(ten):
		return ceilToMultiple(amount, half)
	case amount.LessThan(fifty):
		return amount.Floor().Add(ninetyFive)
	case amount.LessThan(hundred):
		return ceilToMultiple(amount, five)
	default:
		return ceilToMultiple(amount, ten)
	}
}

// isNatural reports whether the amount is already a fixed point of the
// bracket rules
func isNatural(amount decimal.Decimal) bool {
	switch {
	case amount.LessThanOrEqual(ten):
		return amount.Mod(half).IsZero()
	case amount.LessThan(fifty):
		return amount.Sub(amount.Floor()).Equal(ninetyFive)
	case amount.LessThan(hundred):
		return amount.Mod(five).IsZero()
	default:
		return amount.Mod(ten).IsZero()
	}
}

func ceilToMultiple(amount, step decimal.Decimal) decimal.Decimal {
	return amount.Div(step).Ceil().Mul(step)
}
