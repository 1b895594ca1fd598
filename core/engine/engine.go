// Package engine assembles the pricing components from configuration
// and exposes the two top-level operations: single-destination quotes
// and policy batch generation.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"landed-cost/adapters/storage"
	"landed-cost/core/dataset"
	"landed-cost/core/display"
	"landed-cost/core/landed"
	"landed-cost/core/policy"
	"landed-cost/core/refrate"
	"landed-cost/core/tariff"
	"landed-cost/core/types"
	"landed-cost/internal/config"
	"landed-cost/internal/errors"
	"landed-cost/internal/logging"
)

// Engine owns the wired pipeline. Create it once and share it; every
// component behind it is safe for concurrent use.
type Engine struct {
	cfg        *config.Config
	data       *dataset.Dataset
	classifier *tariff.Classifier
	rates      refrate.Source
	synth      *display.Synthesizer
	calc       *landed.Calculator
	store      storage.Store
	generator  *policy.Generator
	log        *zap.Logger
}

// New builds the engine from configuration: dataset, classifier,
// cached rate provider, synthesizer, calculator, store, generator.
func New(ctx context.Context, cfg *config.Config) (*Engine, error) {
	data, err := dataset.Load(cfg.Datasets.Path)
	if err != nil {
		return nil, err
	}

	classifier := tariff.NewClassifier(
		tariff.NewMapRateTable(data.DutyRates),
		data.Reciprocal,
		tariff.NewKeywordDetector(tariff.DefaultMaterialKeywords...),
	)

	provider, err := refrate.NewProvider(data.Rates, decimal.NewFromFloat(cfg.RefRate.SlopeUsdPerKg))
	if err != nil {
		return nil, err
	}
	var rates refrate.Source = provider
	if cfg.RefRate.CacheTTLSeconds > 0 {
		rates = refrate.NewCache(provider, time.Duration(cfg.RefRate.CacheTTLSeconds)*time.Second)
	}

	synth := display.NewSynthesizer(display.Options{
		HandlingFloorUsd:        decimal.NewFromFloat(cfg.Display.HandlingFloorUsd),
		HandlingCeilingUsd:      decimal.NewFromFloat(cfg.Display.HandlingCeilingUsd),
		ShippingCeilingMultiple: decimal.NewFromFloat(cfg.Display.ShippingCeilingMultiple),
		HandlingCeilingShare:    decimal.NewFromFloat(cfg.Display.HandlingCeilingShare),
		Strict:                  cfg.Display.StrictCompliance,
	})

	calc := landed.NewCalculator(landed.Fees{
		MpfRate:              decimal.NewFromFloat(cfg.Fees.MpfRate),
		MpfMinUsd:            decimal.NewFromFloat(cfg.Fees.MpfMinUsd),
		MpfMaxUsd:            decimal.NewFromFloat(cfg.Fees.MpfMaxUsd),
		HmfRate:              decimal.NewFromFloat(cfg.Fees.HmfRate),
		DdpServiceFeeUsd:     decimal.NewFromFloat(cfg.Fees.DdpServiceFeeUsd),
		PaymentRate:          decimal.NewFromFloat(cfg.Fees.PaymentRate),
		PaymentFixedFeeUsd:   decimal.NewFromFloat(cfg.Fees.PaymentFixedFeeUsd),
		FxSlippageRate:       decimal.NewFromFloat(cfg.Fees.FxSlippageRate),
		InternationalFeeRate: decimal.NewFromFloat(cfg.Fees.InternationalFeeRate),
		VolumetricDivisor:    decimal.NewFromFloat(cfg.Fees.VolumetricDivisor),
		MinProfitUsd:         decimal.NewFromFloat(cfg.Fees.MinProfitUsd),
	})

	store, err := storage.NewStore(ctx, cfg.Storage.Backend, cfg.Storage.DatabaseURL)
	if err != nil {
		return nil, err
	}

	log := logging.With(zap.String("component", "engine"))

	generator := policy.NewGenerator(classifier, rates, data, synth, calc, store, policy.Options{
		Concurrency:   cfg.Batch.Concurrency,
		DdpCountry:    cfg.Batch.DdpCountry,
		ServiceFeeUsd: decimal.NewFromFloat(cfg.Display.ServiceFeeUsd),
		Logger:        logging.With(zap.String("component", "policy")),
	})

	return &Engine{
		cfg:        cfg,
		data:       data,
		classifier: classifier,
		rates:      rates,
		synth:      synth,
		calc:       calc,
		store:      store,
		generator:  generator,
		log:        log,
	}, nil
}

// QuoteRequest prices one item for one destination
type QuoteRequest struct {
	DestinationCountry string `json:"destination_country"`

	ItemPriceUsd decimal.Decimal `json:"item_price_usd"`

	// ItemCostUsd is used when set; otherwise ItemCostLocal/FxRate converts.
	// A zero FxRate falls back to the configured default rate.
	ItemCostUsd   decimal.Decimal `json:"item_cost_usd"`
	ItemCostLocal decimal.Decimal `json:"item_cost_local"`
	FxRate        decimal.Decimal `json:"fx_rate"`

	TariffCode    string `json:"tariff_code"`
	OriginCountry string `json:"origin_country"`
	MaterialDesc  string `json:"material_desc,omitempty"`

	WeightKg   decimal.Decimal  `json:"weight_kg"`
	Dimensions types.Dimensions `json:"dimensions"`

	MarginTarget decimal.Decimal `json:"margin_target"`

	// MarketplaceFeeRate falls back to the configured default when zero
	MarketplaceFeeRate decimal.Decimal `json:"marketplace_fee_rate"`
	FeeDiscount        decimal.Decimal `json:"fee_discount"`

	IsOceanFreight bool `json:"is_ocean_freight"`
}

// QuoteResponse is the full verdict for one destination
type QuoteResponse struct {
	DestinationCountry string                   `json:"destination_country"`
	ZoneCode           string                   `json:"zone_code"`
	ChargeableWeightKg decimal.Decimal          `json:"chargeable_weight_kg"`
	Classification     types.DutyClassification `json:"classification"`
	ReferenceRate      types.ReferenceRate      `json:"reference_rate"`
	Quote              types.PriceQuote         `json:"quote"`
	Breakdown          types.CostBreakdown      `json:"breakdown"`
	Profit             types.ProfitResult       `json:"profit"`
	Compliance         display.Compliance       `json:"compliance"`
}

// Quote runs the full pipeline for one destination
func (e *Engine) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	country := strings.ToUpper(req.DestinationCountry)
	if country == "" {
		return nil, errors.Input("destination country is required")
	}
	if !req.ItemPriceUsd.IsPositive() {
		return nil, errors.Input("item price must be positive")
	}

	if exclusion, ok := e.data.Excluded(country); ok {
		return nil, errors.Input("destination " + country + " is excluded: " + exclusion.Reason)
	}

	zone, ok := e.data.ZoneFor(country)
	if !ok {
		return nil, errors.ZoneMappingMissing(country)
	}

	classification, err := e.classifier.Classify(req.TariffCode, req.OriginCountry, req.MaterialDesc)
	if err != nil {
		return nil, err
	}

	weight := e.calc.ChargeableWeightKg(req.WeightKg, req.Dimensions)
	rate, err := e.rates.GetRate(zone.ZoneCode, weight)
	if err != nil {
		return nil, err
	}

	isDdp := country == strings.ToUpper(e.cfg.Batch.DdpCountry)
	incoterm := types.IncotermDDU
	serviceFee := decimal.Zero
	if isDdp {
		incoterm = types.IncotermDDP
		serviceFee = decimal.NewFromFloat(e.cfg.Display.ServiceFeeUsd)
	}

	synthesized, err := e.synth.Synthesize(display.Input{
		ReferenceTotalUsd: rate.TotalUsd,
		AdjustmentFactor:  zone.AdjustmentFactor,
		ItemPriceUsd:      req.ItemPriceUsd,
		MarginTarget:      req.MarginTarget,
		ServiceFeeUsd:     serviceFee,
	})
	if err != nil {
		return nil, err
	}

	fxRate := req.FxRate
	if fxRate.IsZero() && req.ItemCostLocal.IsPositive() {
		fxRate = decimal.NewFromFloat(e.cfg.Fees.DefaultFxRate)
	}
	marketplaceRate := req.MarketplaceFeeRate
	if marketplaceRate.IsZero() {
		marketplaceRate = decimal.NewFromFloat(e.cfg.Fees.MarketplaceFeeRate)
	}

	breakdown, quote, profit, err := e.calc.Calculate(landed.Input{
		ItemPriceUsd:       req.ItemPriceUsd,
		ShippingDisplayUsd: synthesized.ShippingDisplayUsd,
		HandlingFeeUsd:     synthesized.HandlingFeeUsd,
		ItemCostUsd:        req.ItemCostUsd,
		ItemCostLocal:      req.ItemCostLocal,
		FxRate:             fxRate,
		ActualShippingUsd:  rate.TotalUsd.Mul(zone.AdjustmentFactor),
		Classification:     classification,
		Incoterm:           incoterm,
		MarketplaceFeeRate: marketplaceRate,
		FeeDiscount:        req.FeeDiscount,
		IsOceanFreight:     req.IsOceanFreight,
	})
	if err != nil {
		return nil, err
	}

	return &QuoteResponse{
		DestinationCountry: country,
		ZoneCode:           zone.ZoneCode,
		ChargeableWeightKg: weight,
		Classification:     classification,
		ReferenceRate:      rate,
		Quote:              quote,
		Breakdown:          breakdown,
		Profit:             profit,
		Compliance:         synthesized.Compliance,
	}, nil
}

// GeneratePolicy runs a policy batch
func (e *Engine) GeneratePolicy(ctx context.Context, req policy.Request) (*policy.Result, error) {
	if req.FxRate.IsZero() && req.ItemCostLocal.IsPositive() {
		req.FxRate = decimal.NewFromFloat(e.cfg.Fees.DefaultFxRate)
	}
	if req.MarketplaceFeeRate.IsZero() {
		req.MarketplaceFeeRate = decimal.NewFromFloat(e.cfg.Fees.MarketplaceFeeRate)
	}
	return e.generator.Generate(ctx, req)
}

// PolicyRows lists the persisted rows of a policy
func (e *Engine) PolicyRows(ctx context.Context, policyID string) ([]types.CountryPolicyRow, error) {
	if policyID == "" {
		return nil, errors.Input("policy id is required")
	}
	return e.store.ListRows(ctx, policyID)
}

// Dataset exposes the loaded reference data
func (e *Engine) Dataset() *dataset.Dataset {
	return e.data
}

// Close releases the storage backend
func (e *Engine) Close() error {
	return e.store.Close()
}
