// Package types holds the shared domain types for landed-cost computation.
package types

import "github.com/shopspring/decimal"

// Incoterm selects who bears duty and import fees
type Incoterm string

const (
	// IncotermDDP - the displayed price embeds duty and import fees
	IncotermDDP Incoterm = "DDP"

	// IncotermDDU - the buyer pays duty and import fees on arrival
	IncotermDDU Incoterm = "DDU"
)

// Valid reports whether the incoterm is one of the supported models
func (i Incoterm) Valid() bool {
	return i == IncotermDDP || i == IncotermDDU
}

// Grade classifies the profitability tier of a priced offer
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// DutyClassification is the resolved duty exposure for a tariff code and origin
type DutyClassification struct {
	// TariffCode is the code as resolved in the rate table
	TariffCode string `json:"tariff_code"`

	// OriginCountry is the ISO-2 country of origin
	OriginCountry string `json:"origin_country"`

	// Description comes from the rate table entry
	Description string `json:"description,omitempty"`

	// BaseRate is the general duty rate for the tariff code
	BaseRate decimal.Decimal `json:"base_rate"`

	// Section301Rate is the origin-triggered surcharge (25 points for CN)
	Section301Rate decimal.Decimal `json:"section_301_rate"`

	// Section232Rate is the material-triggered surcharge (25 points for the steel/aluminum family)
	Section232Rate decimal.Decimal `json:"section_232_rate"`

	// ReciprocalRate is the flat per-origin supplemental rate
	ReciprocalRate decimal.Decimal `json:"reciprocal_rate"`

	// CompositeRate = BaseRate + Section301Rate + Section232Rate + ReciprocalRate
	CompositeRate decimal.Decimal `json:"composite_rate"`
}

// RateSum recomputes the composite from its four components
func (c DutyClassification) RateSum() decimal.Decimal {
	return c.BaseRate.Add(c.Section301Rate).Add(c.Section232Rate).Add(c.ReciprocalRate)
}

// CostBreakdown is the full per-unit cost stack in USD.
// TotalCostUsd is always the exact sum of the other fields.
type CostBreakdown struct {
	ItemCostUsd            decimal.Decimal `json:"item_cost_usd"`
	ActualShippingUsd      decimal.Decimal `json:"actual_shipping_usd"`
	DutyUsd                decimal.Decimal `json:"duty_usd"`
	ImportProcessingFeeUsd decimal.Decimal `json:"import_processing_fee_usd"`
	HarborFeeUsd           decimal.Decimal `json:"harbor_fee_usd"`
	DdpServiceFeeUsd       decimal.Decimal `json:"ddp_service_fee_usd"`
	MarketplaceFeeUsd      decimal.Decimal `json:"marketplace_fee_usd"`
	PaymentFeeUsd          decimal.Decimal `json:"payment_fee_usd"`
	FxSlippageUsd          decimal.Decimal `json:"fx_slippage_usd"`
	InternationalFeeUsd    decimal.Decimal `json:"international_fee_usd"`
	TotalCostUsd           decimal.Decimal `json:"total_cost_usd"`
}

// ComponentSum adds every component field, excluding the stored total
func (b CostBreakdown) ComponentSum() decimal.Decimal {
	return b.ItemCostUsd.
		Add(b.ActualShippingUsd).
		Add(b.DutyUsd).
		Add(b.ImportProcessingFeeUsd).
		Add(b.HarborFeeUsd).
		Add(b.DdpServiceFeeUsd).
		Add(b.MarketplaceFeeUsd).
		Add(b.PaymentFeeUsd).
		Add(b.FxSlippageUsd).
		Add(b.InternationalFeeUsd)
}

// PriceQuote is the compliant displayed price under one incoterm model
type PriceQuote struct {
	Incoterm           Incoterm        `json:"incoterm"`
	ItemPriceUsd       decimal.Decimal `json:"item_price_usd"`
	ShippingDisplayUsd decimal.Decimal `json:"shipping_display_usd"`
	HandlingFeeUsd     decimal.Decimal `json:"handling_fee_usd"`

	// TotalDisplayUsd = ItemPriceUsd + ShippingDisplayUsd + HandlingFeeUsd
	TotalDisplayUsd decimal.Decimal `json:"total_display_usd"`
}

// ProfitResult is the profit/margin verdict for a priced offer
type ProfitResult struct {
	ProfitUsd decimal.Decimal `json:"profit_usd"`

	// MarginPercent is profit over total displayed revenue, as a fraction
	MarginPercent decimal.Decimal `json:"margin_percent"`

	// RoiPercent is profit over item cost, as a fraction
	RoiPercent decimal.Decimal `json:"roi_percent"`

	Grade Grade `json:"grade"`
}

// ReferenceRate is one breakpoint of the benchmark carrier rate table.
// It is a pricing benchmark, not the actual carrier invoice.
type ReferenceRate struct {
	ZoneCode         string          `json:"zone_code"`
	WeightKg         decimal.Decimal `json:"weight_kg"`
	BaseUsd          decimal.Decimal `json:"base_usd"`
	FuelSurchargeUsd decimal.Decimal `json:"fuel_surcharge_usd"`
	TotalUsd         decimal.Decimal `json:"total_usd"`
}

// ShippingZone groups destination countries sharing a reference rate schedule
type ShippingZone struct {
	ZoneCode string `json:"zone_code"`

	// AdjustmentFactor is the markup multiplier approximating real
	// carrier pricing above the reference benchmark
	AdjustmentFactor decimal.Decimal `json:"adjustment_factor"`

	// Countries are the ISO-2 member codes; a country belongs to exactly one zone
	Countries []string `json:"countries"`
}

// CountryPolicyRow is one persisted entry of a shipping-policy rate matrix,
// keyed by (PolicyID, CountryCode) for idempotent upsert
type CountryPolicyRow struct {
	PolicyID         string          `json:"policy_id"`
	CountryCode      string          `json:"country_code"`
	ZoneCode         string          `json:"zone_code"`
	ShippingCostUsd  decimal.Decimal `json:"shipping_cost_usd"`
	HandlingFeeUsd   decimal.Decimal `json:"handling_fee_usd"`
	IsExcluded       bool            `json:"is_excluded"`
	ExclusionReason  string          `json:"exclusion_reason,omitempty"`
	CalculatedMargin decimal.Decimal `json:"calculated_margin"`
	IsDdp            bool            `json:"is_ddp"`
}

// ExclusionEntry marks a destination that must never be priced
type ExclusionEntry struct {
	CountryCode string `json:"country_code"`
	Reason      string `json:"reason"`
}

// Dimensions are package dimensions in centimeters
type Dimensions struct {
	LengthCm decimal.Decimal `json:"length_cm"`
	WidthCm  decimal.Decimal `json:"width_cm"`
	HeightCm decimal.Decimal `json:"height_cm"`
}

// Zero reports whether no dimension is set
func (d Dimensions) Zero() bool {
	return d.LengthCm.IsZero() && d.WidthCm.IsZero() && d.HeightCm.IsZero()
}
