// Package policy generates shipping-policy rate matrices: one
// persisted row per destination country, computed concurrently
// through the classification, reference-rate, display and landed-cost
// stages.
package policy

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"landed-cost/adapters/storage"
	"landed-cost/core/dataset"
	"landed-cost/core/display"
	"landed-cost/core/landed"
	"landed-cost/core/refrate"
	"landed-cost/core/tariff"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
	"landed-cost/internal/logging"
)

// CountryRef names one destination. Zone, when set, overrides the
// dataset's country-to-zone mapping for this run.
type CountryRef struct {
	Code string `json:"code"`
	Zone string `json:"zone,omitempty"`
}

// Request describes one batch run: a single item priced across every
// destination of the dataset (or an explicit country list).
type Request struct {
	// PolicyID keys the persisted rows; a re-run with the same ID
	// overwrites them. Empty generates a fresh ID.
	PolicyID string `json:"policy_id,omitempty"`

	// PolicyName is free-text metadata carried into the logs
	PolicyName string `json:"policy_name,omitempty"`

	ItemPriceUsd decimal.Decimal `json:"item_price_usd"`

	// ItemCostUsd is used when set; otherwise ItemCostLocal/FxRate converts
	ItemCostUsd   decimal.Decimal `json:"item_cost_usd"`
	ItemCostLocal decimal.Decimal `json:"item_cost_local"`
	FxRate        decimal.Decimal `json:"fx_rate"`

	TariffCode    string `json:"tariff_code"`
	OriginCountry string `json:"origin_country"`
	MaterialDesc  string `json:"material_desc,omitempty"`

	// Weight band the policy covers; rates are computed at the midpoint
	WeightBandMinKg decimal.Decimal `json:"weight_band_min_kg"`
	WeightBandMaxKg decimal.Decimal `json:"weight_band_max_kg"`

	Dimensions types.Dimensions `json:"dimensions"`

	// MarginTarget is a fraction in [0, 1)
	MarginTarget decimal.Decimal `json:"margin_target"`

	MarketplaceFeeRate decimal.Decimal `json:"marketplace_fee_rate"`
	FeeDiscount        decimal.Decimal `json:"fee_discount"`

	// Countries restricts the run to an explicit list; empty means
	// every destination the dataset covers.
	Countries []CountryRef `json:"countries,omitempty"`

	// Exclusions adds per-run exclusions on top of the dataset's
	Exclusions []types.ExclusionEntry `json:"exclusions,omitempty"`

	IsOceanFreight bool `json:"is_ocean_freight"`
}

// Result is the aggregate outcome of a batch run
type Result struct {
	PolicyID       string                   `json:"policy_id"`
	TotalCountries int                      `json:"total_countries"`
	ExcludedCount  int                      `json:"excluded_count"`
	ErroredCount   int                      `json:"errored_count"`
	AverageMargin  decimal.Decimal          `json:"average_margin"`
	Rows           []types.CountryPolicyRow `json:"rows"`
	Errors         []CountryError           `json:"errors,omitempty"`
}

// Options tunes the generator
type Options struct {
	// Concurrency bounds the worker pool; values below 1 become 1
	Concurrency int

	// DdpCountry sells under DDP; every other destination is DDU
	DdpCountry string

	// ServiceFeeUsd is folded into DDP handling targets
	ServiceFeeUsd decimal.Decimal

	Logger *zap.Logger
}

// Generator runs the batch pipeline: exclusion check, zone lookup,
// reference rate, display synthesis, landed cost, persisted row.
type Generator struct {
	classifier *tariff.Classifier
	rates      refrate.Source
	data       *dataset.Dataset
	synth      *display.Synthesizer
	calc       *landed.Calculator
	store      storage.Store

	concurrency int
	ddpCountry  string
	serviceFee  decimal.Decimal
	log         *zap.Logger
}

// NewGenerator wires the pipeline stages into a batch generator
func NewGenerator(
	classifier *tariff.Classifier,
	rates refrate.Source,
	data *dataset.Dataset,
	synth *display.Synthesizer,
	calc *landed.Calculator,
	store storage.Store,
	opts Options,
) *Generator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.DdpCountry == "" {
		opts.DdpCountry = "US"
	}
	if opts.Logger == nil {
		opts.Logger = logging.With(zap.String("component", "policy"))
	}
	return &Generator{
		classifier:  classifier,
		rates:       rates,
		data:        data,
		synth:       synth,
		calc:        calc,
		store:       store,
		concurrency: opts.Concurrency,
		ddpCountry:  strings.ToUpper(opts.DdpCountry),
		serviceFee:  opts.ServiceFeeUsd,
		log:         opts.Logger,
	}
}

// Generate runs the batch. Per-country failures are isolated into
// Result.Errors; only invalid requests and context cancellation abort
// the run. On cancellation the rows already persisted are kept and
// returned with the partial aggregates.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := g.validate(req); err != nil {
		return nil, err
	}

	policyID := req.PolicyID
	if policyID == "" {
		policyID = uuid.NewString()
	}

	// The item classifies once; its duty exposure is identical for
	// every destination.
	classification, err := g.classifier.Classify(req.TariffCode, req.OriginCountry, req.MaterialDesc)
	if err != nil {
		return nil, err
	}

	// Representative weight is the band midpoint, bumped to volumetric
	// weight when the package dimensions dominate.
	weight := req.WeightBandMinKg.Add(req.WeightBandMaxKg).Div(decimal.NewFromInt(2))
	weight = g.calc.ChargeableWeightKg(weight, req.Dimensions)
	countries := g.countryList(req)
	exclusions := g.exclusionMap(req)

	g.log.Info("starting policy batch",
		zap.String("policy_id", policyID),
		zap.String("policy_name", req.PolicyName),
		zap.Int("countries", len(countries)),
		zap.String("weight_kg", weight.String()),
	)

	acc := &accumulator{}
	jobs := make(chan CountryRef)

	var wg sync.WaitGroup
	for i := 0; i < g.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for country := range jobs {
				g.processCountry(ctx, policyID, country, weight, classification, req, exclusions, acc)
			}
		}()
	}

feed:
	for _, country := range countries {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- country:
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(acc.rows, func(i, j int) bool {
		return acc.rows[i].CountryCode < acc.rows[j].CountryCode
	})
	sort.Slice(acc.errs, func(i, j int) bool {
		return acc.errs[i].CountryCode < acc.errs[j].CountryCode
	})

	result := &Result{
		PolicyID:       policyID,
		TotalCountries: len(countries),
		ExcludedCount:  acc.excluded,
		ErroredCount:   len(acc.errs),
		AverageMargin:  acc.averageMargin(),
		Rows:           acc.rows,
		Errors:         acc.errs,
	}

	g.log.Info("policy batch finished",
		zap.String("policy_id", policyID),
		zap.Int("rows", len(result.Rows)),
		zap.Int("excluded", result.ExcludedCount),
		zap.Int("errored", result.ErroredCount),
	)

	if ctx.Err() != nil {
		return result, errors.Wrap(errors.TypeInternal, "policy batch cancelled", ctx.Err())
	}
	return result, nil
}

func (g *Generator) validate(req Request) error {
	if !req.ItemPriceUsd.IsPositive() {
		return errors.Input("item price must be positive")
	}
	if req.TariffCode == "" {
		return errors.Input("tariff code is required")
	}
	if req.OriginCountry == "" {
		return errors.Input("origin country is required")
	}
	if req.WeightBandMinKg.IsNegative() || req.WeightBandMaxKg.LessThan(req.WeightBandMinKg) {
		return errors.Input("weight band must satisfy 0 <= min <= max")
	}
	if req.WeightBandMaxKg.IsZero() {
		return errors.Input("weight band max must be positive")
	}
	if req.MarginTarget.IsNegative() || req.MarginTarget.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.Input("margin target must be in [0, 1)")
	}
	return nil
}

func (g *Generator) countryList(req Request) []CountryRef {
	if len(req.Countries) > 0 {
		out := make([]CountryRef, 0, len(req.Countries))
		for _, c := range req.Countries {
			out = append(out, CountryRef{Code: strings.ToUpper(c.Code), Zone: c.Zone})
		}
		return out
	}
	var out []CountryRef
	for _, code := range g.data.Countries() {
		out = append(out, CountryRef{Code: code})
	}
	return out
}

// exclusionMap merges the request's exclusions over the dataset's
func (g *Generator) exclusionMap(req Request) map[string]types.ExclusionEntry {
	out := make(map[string]types.ExclusionEntry, len(req.Exclusions))
	for _, e := range req.Exclusions {
		out[strings.ToUpper(e.CountryCode)] = e
	}
	return out
}

// resolveZone honours a request-level zone override before falling
// back to the dataset's country-to-zone mapping.
func (g *Generator) resolveZone(ref CountryRef) (types.ShippingZone, bool) {
	if ref.Zone != "" {
		return g.data.ZoneByCode(ref.Zone)
	}
	return g.data.ZoneFor(ref.Code)
}

// processCountry runs the full pipeline for one destination and
// records the outcome on the accumulator.
func (g *Generator) processCountry(
	ctx context.Context,
	policyID string,
	ref CountryRef,
	weight decimal.Decimal,
	classification types.DutyClassification,
	req Request,
	exclusions map[string]types.ExclusionEntry,
	acc *accumulator,
) {
	if ctx.Err() != nil {
		return
	}
	country := ref.Code

	// Excluded destinations short-circuit: a zero-value row records
	// the exclusion and the pricing stages never run.
	exclusion, excluded := exclusions[country]
	if !excluded {
		exclusion, excluded = g.data.Excluded(country)
	}
	if excluded {
		row := types.CountryPolicyRow{
			PolicyID:        policyID,
			CountryCode:     country,
			IsExcluded:      true,
			ExclusionReason: exclusion.Reason,
		}
		if err := g.store.UpsertRow(ctx, row); err != nil {
			acc.addError(country, err)
			return
		}
		acc.addRow(row)
		return
	}

	zone, ok := g.resolveZone(ref)
	if !ok {
		acc.addError(country, errors.ZoneMappingMissing(country))
		return
	}

	rate, err := g.rates.GetRate(zone.ZoneCode, weight)
	if err != nil {
		acc.addError(country, err)
		return
	}

	isDdp := country == g.ddpCountry
	incoterm := types.IncotermDDU
	serviceFee := decimal.Zero
	if isDdp {
		incoterm = types.IncotermDDP
		serviceFee = g.serviceFee
	}

	synthesized, err := g.synth.Synthesize(display.Input{
		ReferenceTotalUsd: rate.TotalUsd,
		AdjustmentFactor:  zone.AdjustmentFactor,
		ItemPriceUsd:      req.ItemPriceUsd,
		MarginTarget:      req.MarginTarget,
		ServiceFeeUsd:     serviceFee,
	})
	if err != nil {
		acc.addError(country, err)
		return
	}

	_, _, profit, err := g.calc.Calculate(landed.Input{
		ItemPriceUsd:       req.ItemPriceUsd,
		ShippingDisplayUsd: synthesized.ShippingDisplayUsd,
		HandlingFeeUsd:     synthesized.HandlingFeeUsd,
		ItemCostUsd:        req.ItemCostUsd,
		ItemCostLocal:      req.ItemCostLocal,
		FxRate:             req.FxRate,
		ActualShippingUsd:  rate.TotalUsd.Mul(zone.AdjustmentFactor),
		Classification:     classification,
		Incoterm:           incoterm,
		MarketplaceFeeRate: req.MarketplaceFeeRate,
		FeeDiscount:        req.FeeDiscount,
		IsOceanFreight:     req.IsOceanFreight,
	})
	if err != nil {
		acc.addError(country, err)
		return
	}

	row := types.CountryPolicyRow{
		PolicyID:         policyID,
		CountryCode:      country,
		ZoneCode:         zone.ZoneCode,
		ShippingCostUsd:  synthesized.ShippingDisplayUsd,
		HandlingFeeUsd:   synthesized.HandlingFeeUsd,
		CalculatedMargin: profit.MarginPercent,
		IsDdp:            isDdp,
	}
	if err := g.store.UpsertRow(ctx, row); err != nil {
		acc.addError(country, err)
		return
	}
	acc.addRow(row)
}
