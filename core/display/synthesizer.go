// Package display derives the compliant displayed shipping and
// handling prices from the reference rate and a target margin.
package display

import (
	"github.com/shopspring/decimal"

	"landed-cost/internal/errors"
)

// Options bound and police the synthesized fees
type Options struct {
	// HandlingFloorUsd / HandlingCeilingUsd bound the raw handling fee
	// before natural rounding
	HandlingFloorUsd   decimal.Decimal
	HandlingCeilingUsd decimal.Decimal

	// ShippingCeilingMultiple flags displayed shipping above this
	// multiple of the reference total
	ShippingCeilingMultiple decimal.Decimal

	// HandlingCeilingShare flags handling above this share of item price
	HandlingCeilingShare decimal.Decimal

	// Strict clamps to the compliance ceilings instead of only flagging.
	// Default is advisory: compute and flag, never silently clamp.
	Strict bool
}

// Input is one synthesis request
type Input struct {
	// ReferenceTotalUsd is the benchmark carrier total for the weight
	ReferenceTotalUsd decimal.Decimal

	// AdjustmentFactor is the zone markup over the benchmark
	AdjustmentFactor decimal.Decimal

	ItemPriceUsd decimal.Decimal

	// MarginTarget is a fraction in [0, 1)
	MarginTarget decimal.Decimal

	// ServiceFeeUsd is the fixed per-shipment fee folded into the target
	ServiceFeeUsd decimal.Decimal
}

// Compliance is the advisory verdict on the synthesized fees. The
// computed values are always exposed next to the flags.
type Compliance struct {
	ShippingExceedsCeiling bool            `json:"shipping_exceeds_ceiling"`
	HandlingExceedsCeiling bool            `json:"handling_exceeds_ceiling"`
	ShippingCeilingUsd     decimal.Decimal `json:"shipping_ceiling_usd"`
	HandlingCeilingUsd     decimal.Decimal `json:"handling_ceiling_usd"`
}

// Flagged reports whether either ceiling was exceeded
func (c Compliance) Flagged() bool {
	return c.ShippingExceedsCeiling || c.HandlingExceedsCeiling
}

// Result carries the synthesized display prices and their verdict
type Result struct {
	ShippingDisplayUsd decimal.Decimal `json:"shipping_display_usd"`
	HandlingFeeUsd     decimal.Decimal `json:"handling_fee_usd"`
	Compliance         Compliance      `json:"compliance"`
}

// Synthesizer derives display prices. Stateless and safe for
// concurrent use.
type Synthesizer struct {
	opts Options
}

// NewSynthesizer creates a synthesizer with the given bounds
func NewSynthesizer(opts Options) *Synthesizer {
	return &Synthesizer{opts: opts}
}

// Synthesize computes the displayed shipping price and the
// margin-closing handling fee.
//
// Shipping: reference total times the zone adjustment, naturally
// rounded. Handling: whatever closes the gap between the margin-target
// revenue and item+shipping, bounded to [floor, ceiling], naturally
// rounded.
func (s *Synthesizer) Synthesize(in Input) (Result, error) {
	if in.MarginTarget.IsNegative() || in.MarginTarget.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Result{}, errors.Input("margin target must be in [0, 1)")
	}
	if in.AdjustmentFactor.IsZero() {
		in.AdjustmentFactor = decimal.NewFromInt(1)
	}

	rawShipping := in.ReferenceTotalUsd.Mul(in.AdjustmentFactor)
	shipping := RoundNatural(rawShipping)

	totalCost := in.ReferenceTotalUsd.Add(in.ServiceFeeUsd)
	targetRevenue := totalCost.Div(decimal.NewFromInt(1).Sub(in.MarginTarget))

	rawHandling := targetRevenue.Sub(in.ItemPriceUsd.Add(shipping))
	if rawHandling.LessThan(s.opts.HandlingFloorUsd) {
		rawHandling = s.opts.HandlingFloorUsd
	}
	if s.opts.HandlingCeilingUsd.IsPositive() && rawHandling.GreaterThan(s.opts.HandlingCeilingUsd) {
		rawHandling = s.opts.HandlingCeilingUsd
	}
	handling := RoundNatural(rawHandling)
	// Rounding can push past the absolute ceiling; the ceiling is a
	// hard bound, so it re-applies after rounding.
	if s.opts.HandlingCeilingUsd.IsPositive() && handling.GreaterThan(s.opts.HandlingCeilingUsd) {
		handling = s.opts.HandlingCeilingUsd
	}

	result := Result{
		ShippingDisplayUsd: shipping,
		HandlingFeeUsd:     handling,
		Compliance: Compliance{
			ShippingCeilingUsd: in.ReferenceTotalUsd.Mul(s.opts.ShippingCeilingMultiple),
			HandlingCeilingUsd: in.ItemPriceUsd.Mul(s.opts.HandlingCeilingShare),
		},
	}
	result.Compliance.ShippingExceedsCeiling = s.opts.ShippingCeilingMultiple.IsPositive() &&
		shipping.GreaterThan(result.Compliance.ShippingCeilingUsd)
	result.Compliance.HandlingExceedsCeiling = s.opts.HandlingCeilingShare.IsPositive() &&
		handling.GreaterThan(result.Compliance.HandlingCeilingUsd)

	// Advisory by default: the ceilings flag, they do not rewrite.
	if s.opts.Strict {
		if result.Compliance.ShippingExceedsCeiling {
			result.ShippingDisplayUsd = result.Compliance.ShippingCeilingUsd
		}
		if result.Compliance.HandlingExceedsCeiling {
			result.HandlingFeeUsd = result.Compliance.HandlingCeilingUsd
		}
	}

	return result, nil
}
