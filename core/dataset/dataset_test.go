package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landed-cost/internal/errors"
)

func TestBuiltinDatasetIsValid(t *testing.T) {
	d := Builtin()

	assert.NotEmpty(t, d.Zones)
	assert.NotEmpty(t, d.DutyRates)
	assert.NotEmpty(t, d.Exclusions)

	for _, zone := range d.Zones {
		rates, ok := d.Rates[zone.ZoneCode]
		require.True(t, ok, "zone %s has no rates", zone.ZoneCode)
		require.NotEmpty(t, rates)

		// Breakpoints strictly ascend with non-decreasing totals
		for i := 1; i < len(rates); i++ {
			assert.True(t, rates[i].WeightKg.GreaterThan(rates[i-1].WeightKg))
			assert.True(t, rates[i].TotalUsd.GreaterThanOrEqual(rates[i-1].TotalUsd))
		}
		for _, rate := range rates {
			assert.True(t, rate.TotalUsd.Equal(rate.BaseUsd.Add(rate.FuelSurchargeUsd)))
		}
	}
}

func TestBuiltinZoneLookup(t *testing.T) {
	d := Builtin()

	zone, ok := d.ZoneFor("us")
	require.True(t, ok)
	assert.Equal(t, "Z1", zone.ZoneCode)

	_, ok = d.ZoneFor("ZZ")
	assert.False(t, ok)
}

func TestBuiltinExclusions(t *testing.T) {
	d := Builtin()

	entry, ok := d.Excluded("KP")
	require.True(t, ok)
	assert.NotEmpty(t, entry.Reason)

	_, ok = d.Excluded("US")
	assert.False(t, ok)
}

func TestBuiltinCatalogBreadth(t *testing.T) {
	d := Builtin()

	assert.GreaterOrEqual(t, len(d.Countries()), 150, "destination catalog")
	assert.GreaterOrEqual(t, len(d.Exclusions), 100, "exclusion list")

	// Every excluded destination is still a catalogued destination
	for _, e := range d.Exclusions {
		_, ok := d.ZoneFor(e.CountryCode)
		assert.True(t, ok, "exclusion %s has no zone", e.CountryCode)
	}

	// Spot-check the major exclusion categories
	for _, code := range []string{"RU", "UA", "NG", "MM", "BR", "HT", "FJ"} {
		entry, ok := d.Excluded(code)
		require.True(t, ok, "expected %s excluded", code)
		assert.NotEmpty(t, entry.Reason)
	}

	// The core markets stay shippable
	for _, code := range []string{"US", "CA", "GB", "DE", "FR", "JP", "KR", "AU", "SG", "AE", "SA", "MX", "CN", "TW", "HK"} {
		_, excluded := d.Excluded(code)
		assert.False(t, excluded, "%s must not be excluded", code)
		_, zoned := d.ZoneFor(code)
		assert.True(t, zoned, "%s must be zoned", code)
	}
}

func TestBuiltinCountriesBelongToOneZone(t *testing.T) {
	d := Builtin()

	seen := make(map[string]string)
	for _, zone := range d.Zones {
		for _, country := range zone.Countries {
			prev, dup := seen[country]
			assert.False(t, dup, "country %s in zones %s and %s", country, prev, zone.ZoneCode)
			seen[country] = zone.ZoneCode
		}
	}
}

const testDatasetHCL = `
zone "A" {
  adjustment_factor = 1.10
  countries         = ["US", "CA"]
}

rate_table "A" {
  breakpoint {
    weight_kg = 0.5
    base_usd  = 10.00
    fuel_usd  = 1.50
  }
  breakpoint {
    weight_kg = 2.0
    base_usd  = 18.00
    fuel_usd  = 2.70
  }
}

reciprocal "JP" {
  rate = 0.15
}

duty "910111" {
  rate        = 0.051
  description = "wrist-watches"
}

exclusion "KP" {
  reason = "embargo"
}
`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dataset.hcl"), []byte(content), 0o644))
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writeDataset(t, testDatasetHCL)

	d, err := LoadDir(dir)
	require.NoError(t, err)

	zone, ok := d.ZoneFor("US")
	require.True(t, ok)
	assert.Equal(t, "A", zone.ZoneCode)
	assert.True(t, zone.AdjustmentFactor.Equal(decimal.NewFromFloat(1.10)))

	rates := d.Rates["A"]
	require.Len(t, rates, 2)
	assert.True(t, rates[0].TotalUsd.Equal(decimal.NewFromFloat(11.50)))

	assert.True(t, d.Reciprocal["JP"].Equal(decimal.NewFromFloat(0.15)))
	require.Len(t, d.DutyRates, 1)
	assert.Equal(t, "910111", d.DutyRates[0].Code)

	_, excluded := d.Excluded("KP")
	assert.True(t, excluded)
}

func TestLoadDirRejectsMalformedHCL(t *testing.T) {
	dir := writeDataset(t, `zone "A" { adjustment_factor = `)

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoadDirRejectsZoneWithoutRates(t *testing.T) {
	dir := writeDataset(t, `
zone "A" {
  adjustment_factor = 1.0
  countries         = ["US"]
}
`)

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoadDirRejectsEmptyDir(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoadEmptyPathUsesBuiltin(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, d.Zones)
}
