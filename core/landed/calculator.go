// Package landed turns a candidate price and cost inputs into the full
// landed-cost breakdown and profit verdict.
package landed

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// Fees is the fee schedule the calculator applies. Rates are fractions.
type Fees struct {
	// Import processing fee on declared value, clamped to [Min, Max] (DDP only)
	MpfRate   decimal.Decimal
	MpfMinUsd decimal.Decimal
	MpfMaxUsd decimal.Decimal

	// Harbor maintenance fee on declared value for ocean freight (DDP only)
	HmfRate decimal.Decimal

	// Flat per-shipment customs clearance fee (DDP only)
	DdpServiceFeeUsd decimal.Decimal

	// Payment processor fee: rate on revenue plus a fixed fee
	PaymentRate        decimal.Decimal
	PaymentFixedFeeUsd decimal.Decimal

	// Currency conversion loss and cross-border fee, both on revenue
	FxSlippageRate       decimal.Decimal
	InternationalFeeRate decimal.Decimal

	// Divisor converting cm^3 to volumetric kg
	VolumetricDivisor decimal.Decimal

	// Absolute profit floor below which every offer grades D
	MinProfitUsd decimal.Decimal
}

// Input carries everything a single landed-cost computation needs.
//
// ItemPriceUsd is an exogenous candidate; the calculator never solves
// price from a margin target. Duty is assessed on this candidate price
// as the dutiable base - a documented approximation that breaks the
// price/duty circularity.
type Input struct {
	// Candidate displayed price components
	ItemPriceUsd       decimal.Decimal
	ShippingDisplayUsd decimal.Decimal
	HandlingFeeUsd     decimal.Decimal

	// ItemCostUsd is used when set; otherwise ItemCostLocal/FxRate converts
	ItemCostUsd   decimal.Decimal
	ItemCostLocal decimal.Decimal
	FxRate        decimal.Decimal

	// ActualShippingUsd is the real carrier cost borne by the seller
	ActualShippingUsd decimal.Decimal

	Classification types.DutyClassification
	Incoterm       types.Incoterm

	// MarketplaceFeeRate less FeeDiscount applies to displayed revenue
	MarketplaceFeeRate decimal.Decimal
	FeeDiscount        decimal.Decimal

	IsOceanFreight bool
}

// Calculator computes landed cost and profit. It is pure: no clock, no
// I/O, no hidden state.
type Calculator struct {
	fees Fees
}

// NewCalculator creates a calculator with the given fee schedule
func NewCalculator(fees Fees) *Calculator {
	return &Calculator{fees: fees}
}

// ChargeableWeightKg returns max(actual, volumetric) where volumetric
// weight is L*W*H over the configured divisor.
func (c *Calculator) ChargeableWeightKg(actualKg decimal.Decimal, dims types.Dimensions) decimal.Decimal {
	if dims.Zero() || c.fees.VolumetricDivisor.IsZero() {
		return actualKg
	}
	volumetric := dims.LengthCm.Mul(dims.WidthCm).Mul(dims.HeightCm).Div(c.fees.VolumetricDivisor)
	if volumetric.GreaterThan(actualKg) {
		return volumetric
	}
	return actualKg
}

// Calculate produces the cost breakdown, the assembled price quote and
// the profit verdict for one candidate price.
func (c *Calculator) Calculate(in Input) (types.CostBreakdown, types.PriceQuote, types.ProfitResult, error) {
	if !in.Incoterm.Valid() {
		return types.CostBreakdown{}, types.PriceQuote{}, types.ProfitResult{}, errors.Newf(errors.TypeInput, "unknown incoterm: %s", in.Incoterm)
	}

	itemCost := in.ItemCostUsd
	if itemCost.IsZero() && in.FxRate.IsPositive() {
		itemCost = in.ItemCostLocal.Div(in.FxRate)
	}
	if itemCost.IsNegative() {
		return types.CostBreakdown{}, types.PriceQuote{}, types.ProfitResult{}, errors.Input("item cost must be non-negative")
	}

	quote := types.PriceQuote{
		Incoterm:           in.Incoterm,
		ItemPriceUsd:       in.ItemPriceUsd,
		ShippingDisplayUsd: in.ShippingDisplayUsd,
		HandlingFeeUsd:     in.HandlingFeeUsd,
	}
	quote.TotalDisplayUsd = quote.ItemPriceUsd.Add(quote.ShippingDisplayUsd).Add(quote.HandlingFeeUsd)
	revenue := quote.TotalDisplayUsd

	// The candidate sale price is the dutiable base.
	declared := in.ItemPriceUsd

	breakdown := types.CostBreakdown{
		ItemCostUsd:       itemCost,
		ActualShippingUsd: in.ActualShippingUsd,
	}

	if in.Incoterm == types.IncotermDDP {
		breakdown.DutyUsd = declared.Mul(in.Classification.CompositeRate)
		breakdown.ImportProcessingFeeUsd = clamp(declared.Mul(c.fees.MpfRate), c.fees.MpfMinUsd, c.fees.MpfMaxUsd)
		if in.IsOceanFreight {
			breakdown.HarborFeeUsd = declared.Mul(c.fees.HmfRate)
		}
		breakdown.DdpServiceFeeUsd = c.fees.DdpServiceFeeUsd
	}

	effectiveMarketplaceRate := in.MarketplaceFeeRate.Sub(in.FeeDiscount)
	if effectiveMarketplaceRate.IsNegative() {
		effectiveMarketplaceRate = decimal.Zero
	}
	breakdown.MarketplaceFeeUsd = revenue.Mul(effectiveMarketplaceRate)
	breakdown.PaymentFeeUsd = revenue.Mul(c.fees.PaymentRate).Add(c.fees.PaymentFixedFeeUsd)
	breakdown.FxSlippageUsd = revenue.Mul(c.fees.FxSlippageRate)
	breakdown.InternationalFeeUsd = revenue.Mul(c.fees.InternationalFeeRate)

	breakdown.TotalCostUsd = breakdown.ComponentSum()

	profit := c.gradeProfit(revenue, itemCost, breakdown.TotalCostUsd)
	return breakdown, quote, profit, nil
}

// gradeProfit derives profit, margin, ROI and the grade tier
func (c *Calculator) gradeProfit(revenue, itemCost, totalCost decimal.Decimal) types.ProfitResult {
	result := types.ProfitResult{
		ProfitUsd: revenue.Sub(totalCost),
	}
	if revenue.IsPositive() {
		result.MarginPercent = result.ProfitUsd.Div(revenue)
	}
	if itemCost.IsPositive() {
		result.RoiPercent = result.ProfitUsd.Div(itemCost)
	}
	result.Grade = c.grade(result)
	return result
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
