package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landed-cost/core/policy"
	"landed-cost/core/types"
	"landed-cost/internal/config"
	"landed-cost/internal/errors"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(context.Background(), config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng
}

func watchQuote(country string) QuoteRequest {
	return QuoteRequest{
		DestinationCountry: country,
		ItemPriceUsd:       decimal.NewFromInt(120),
		ItemCostLocal:      decimal.NewFromInt(15000),
		TariffCode:         "9101.11",
		OriginCountry:      "JP",
		WeightKg:           decimal.NewFromInt(1),
		MarginTarget:       decimal.NewFromFloat(0.15),
	}
}

func TestQuoteDdpDestination(t *testing.T) {
	eng := testEngine(t)

	resp, err := eng.Quote(context.Background(), watchQuote("US"))
	require.NoError(t, err)

	assert.Equal(t, "US", resp.DestinationCountry)
	assert.Equal(t, "Z1", resp.ZoneCode)
	assert.Equal(t, types.IncotermDDP, resp.Quote.Incoterm)

	// DDP carries duty and import fees: 5.1% base + 15% reciprocal on JP
	assert.True(t, resp.Classification.CompositeRate.Equal(decimal.NewFromFloat(0.201)),
		"got %s", resp.Classification.CompositeRate)
	assert.True(t, resp.Breakdown.DutyUsd.IsPositive())
	assert.True(t, resp.Breakdown.ImportProcessingFeeUsd.Equal(decimal.NewFromFloat(32.71)))
	assert.True(t, resp.Breakdown.DdpServiceFeeUsd.Equal(decimal.NewFromInt(15)))

	assert.True(t, resp.Breakdown.TotalCostUsd.Equal(resp.Breakdown.ComponentSum()))
	assert.NotEmpty(t, resp.Profit.Grade)
}

func TestQuoteDduDestination(t *testing.T) {
	eng := testEngine(t)

	resp, err := eng.Quote(context.Background(), watchQuote("GB"))
	require.NoError(t, err)

	assert.Equal(t, types.IncotermDDU, resp.Quote.Incoterm)
	assert.True(t, resp.Breakdown.DutyUsd.IsZero())
	assert.True(t, resp.Breakdown.ImportProcessingFeeUsd.IsZero())
	assert.True(t, resp.Breakdown.DdpServiceFeeUsd.IsZero())
}

func TestQuoteUsesDefaultFxRate(t *testing.T) {
	eng := testEngine(t)

	resp, err := eng.Quote(context.Background(), watchQuote("US"))
	require.NoError(t, err)

	// 15000 JPY at the configured 154.32 JPY/USD
	expected := decimal.NewFromInt(15000).Div(decimal.NewFromFloat(154.32))
	assert.True(t, resp.Breakdown.ItemCostUsd.Equal(expected),
		"got %s", resp.Breakdown.ItemCostUsd)
}

func TestQuoteVolumetricWeight(t *testing.T) {
	eng := testEngine(t)

	req := watchQuote("US")
	req.Dimensions = types.Dimensions{
		LengthCm: decimal.NewFromInt(50),
		WidthCm:  decimal.NewFromInt(40),
		HeightCm: decimal.NewFromInt(30),
	}

	resp, err := eng.Quote(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.ChargeableWeightKg.Equal(decimal.NewFromInt(12)))
}

func TestQuoteExcludedDestination(t *testing.T) {
	eng := testEngine(t)

	_, err := eng.Quote(context.Background(), watchQuote("KP"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestQuoteUnzonedDestination(t *testing.T) {
	eng := testEngine(t)

	_, err := eng.Quote(context.Background(), watchQuote("ZZ"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeZoneMapping))
}

func TestGeneratePolicyAndListRows(t *testing.T) {
	eng := testEngine(t)
	ctx := context.Background()

	result, err := eng.GeneratePolicy(ctx, policy.Request{
		PolicyID:        "watches",
		ItemPriceUsd:    decimal.NewFromInt(120),
		ItemCostUsd:     decimal.NewFromInt(50),
		TariffCode:      "910111",
		OriginCountry:   "JP",
		WeightBandMinKg: decimal.NewFromFloat(0.5),
		WeightBandMaxKg: decimal.NewFromFloat(1.5),
		MarginTarget:    decimal.NewFromFloat(0.15),
		Countries:       []policy.CountryRef{{Code: "US"}, {Code: "GB"}, {Code: "AU"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "watches", result.PolicyID)

	rows, err := eng.PolicyRows(ctx, "watches")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestPolicyRowsRequiresID(t *testing.T) {
	eng := testEngine(t)

	_, err := eng.PolicyRows(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}
