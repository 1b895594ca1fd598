package display

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landed-cost/internal/errors"
)

func testOptions() Options {
	return Options{
		HandlingFloorUsd:        decimal.NewFromFloat(1.00),
		HandlingCeilingUsd:      decimal.NewFromFloat(99.95),
		ShippingCeilingMultiple: decimal.NewFromInt(2),
		HandlingCeilingShare:    decimal.NewFromFloat(0.25),
	}
}

func TestSynthesizeShippingFromReference(t *testing.T) {
	s := NewSynthesizer(testOptions())

	res, err := s.Synthesize(Input{
		ReferenceTotalUsd: decimal.NewFromInt(20),
		AdjustmentFactor:  decimal.NewFromFloat(1.10),
		ItemPriceUsd:      decimal.NewFromInt(100),
		MarginTarget:      decimal.NewFromFloat(0.15),
	})
	require.NoError(t, err)

	// 20 * 1.10 = 22.00 -> floor + 0.95
	assert.True(t, res.ShippingDisplayUsd.Equal(decimal.NewFromFloat(22.95)),
		"got %s", res.ShippingDisplayUsd)
}

func TestSynthesizeHandlingClosesMarginGap(t *testing.T) {
	s := NewSynthesizer(testOptions())

	res, err := s.Synthesize(Input{
		ReferenceTotalUsd: decimal.NewFromInt(40),
		AdjustmentFactor:  decimal.NewFromInt(1),
		ItemPriceUsd:      decimal.NewFromInt(10),
		MarginTarget:      decimal.NewFromFloat(0.20),
		ServiceFeeUsd:     decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	// shipping: 40 -> 40.95
	// target revenue: (40 + 15) / 0.8 = 68.75
	// raw handling: 68.75 - (10 + 40.95) = 17.80 -> 17.95
	assert.True(t, res.ShippingDisplayUsd.Equal(decimal.NewFromFloat(40.95)))
	assert.True(t, res.HandlingFeeUsd.Equal(decimal.NewFromFloat(17.95)),
		"got %s", res.HandlingFeeUsd)
}

func TestSynthesizeHandlingFloor(t *testing.T) {
	s := NewSynthesizer(testOptions())

	// Item price alone already exceeds the target revenue
	res, err := s.Synthesize(Input{
		ReferenceTotalUsd: decimal.NewFromInt(10),
		AdjustmentFactor:  decimal.NewFromInt(1),
		ItemPriceUsd:      decimal.NewFromInt(500),
		MarginTarget:      decimal.NewFromFloat(0.10),
	})
	require.NoError(t, err)

	assert.True(t, res.HandlingFeeUsd.Equal(decimal.NewFromInt(1)),
		"got %s", res.HandlingFeeUsd)
}

func TestSynthesizeHandlingCeiling(t *testing.T) {
	s := NewSynthesizer(testOptions())

	// Cheap item, huge margin target: handling wants to be enormous
	res, err := s.Synthesize(Input{
		ReferenceTotalUsd: decimal.NewFromInt(30),
		AdjustmentFactor:  decimal.NewFromInt(1),
		ItemPriceUsd:      decimal.NewFromInt(5),
		MarginTarget:      decimal.NewFromFloat(0.90),
	})
	require.NoError(t, err)

	assert.True(t, res.HandlingFeeUsd.Equal(decimal.NewFromFloat(99.95)),
		"got %s", res.HandlingFeeUsd)
	assert.True(t, res.Compliance.HandlingExceedsCeiling)
}

func TestSynthesizeRejectsBadMargin(t *testing.T) {
	s := NewSynthesizer(testOptions())

	for _, margin := range []float64{-0.1, 1.0, 1.5} {
		_, err := s.Synthesize(Input{
			ReferenceTotalUsd: decimal.NewFromInt(20),
			ItemPriceUsd:      decimal.NewFromInt(100),
			MarginTarget:      decimal.NewFromFloat(margin),
		})
		require.Error(t, err, "margin %v", margin)
		assert.True(t, errors.IsType(err, errors.TypeInput))
	}
}

func TestSynthesizeComplianceAdvisory(t *testing.T) {
	opts := testOptions()
	opts.HandlingCeilingUsd = decimal.NewFromInt(500)
	s := NewSynthesizer(opts)

	res, err := s.Synthesize(Input{
		ReferenceTotalUsd: decimal.NewFromInt(30),
		AdjustmentFactor:  decimal.NewFromInt(1),
		ItemPriceUsd:      decimal.NewFromInt(20),
		MarginTarget:      decimal.NewFromFloat(0.80),
	})
	require.NoError(t, err)

	// Advisory mode keeps the computed value and raises the flag
	assert.True(t, res.Compliance.HandlingExceedsCeiling)
	assert.True(t, res.HandlingFeeUsd.GreaterThan(res.Compliance.HandlingCeilingUsd))
}

func TestSynthesizeStrictClampsToCeilings(t *testing.T) {
	opts := testOptions()
	opts.HandlingCeilingUsd = decimal.NewFromInt(500)
	opts.Strict = true
	s := NewSynthesizer(opts)

	res, err := s.Synthesize(Input{
		ReferenceTotalUsd: decimal.NewFromInt(30),
		AdjustmentFactor:  decimal.NewFromInt(1),
		ItemPriceUsd:      decimal.NewFromInt(20),
		MarginTarget:      decimal.NewFromFloat(0.80),
	})
	require.NoError(t, err)

	// 25% of the $20 item price
	assert.True(t, res.HandlingFeeUsd.Equal(decimal.NewFromInt(5)),
		"got %s", res.HandlingFeeUsd)
}

func TestSynthesizeShippingCeilingFlag(t *testing.T) {
	s := NewSynthesizer(testOptions())

	res, err := s.Synthesize(Input{
		ReferenceTotalUsd: decimal.NewFromInt(10),
		AdjustmentFactor:  decimal.NewFromFloat(2.5),
		ItemPriceUsd:      decimal.NewFromInt(100),
		MarginTarget:      decimal.NewFromFloat(0.10),
	})
	require.NoError(t, err)

	assert.True(t, res.Compliance.ShippingExceedsCeiling)
	assert.True(t, res.Compliance.ShippingCeilingUsd.Equal(decimal.NewFromInt(20)))
}
