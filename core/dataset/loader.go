package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"landed-cost/core/tariff"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// HCL dataset file schema. Blocks may be spread across any number of
// .hcl files in the dataset directory; they are merged before
// validation.
type fileSchema struct {
	Zones       []zoneBlock       `hcl:"zone,block"`
	Rates       []rateBlock       `hcl:"rate_table,block"`
	Reciprocals []reciprocalBlock `hcl:"reciprocal,block"`
	Duties      []dutyBlock       `hcl:"duty,block"`
	Exclusions  []exclusionBlock  `hcl:"exclusion,block"`
}

type zoneBlock struct {
	Code             string   `hcl:"code,label"`
	AdjustmentFactor float64  `hcl:"adjustment_factor"`
	Countries        []string `hcl:"countries"`
}

type rateBlock struct {
	Zone        string            `hcl:"zone,label"`
	Breakpoints []breakpointBlock `hcl:"breakpoint,block"`
}

type breakpointBlock struct {
	WeightKg float64 `hcl:"weight_kg"`
	BaseUsd  float64 `hcl:"base_usd"`
	FuelUsd  float64 `hcl:"fuel_usd"`
}

type reciprocalBlock struct {
	Origin string  `hcl:"origin,label"`
	Rate   float64 `hcl:"rate"`
}

type dutyBlock struct {
	Code        string  `hcl:"code,label"`
	Rate        float64 `hcl:"rate"`
	Description string  `hcl:"description,optional"`
}

type exclusionBlock struct {
	Country string `hcl:"country,label"`
	Reason  string `hcl:"reason"`
}

// LoadDir reads every .hcl file under dir, merges the blocks, and
// returns the validated dataset. Any parse or validation failure is a
// CONFIG_ERROR; a broken dataset never degrades to partial data.
func LoadDir(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "reading dataset directory", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".hcl") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return nil, errors.Newf(errors.TypeConfig, "no .hcl dataset files in %s", dir)
	}
	sort.Strings(files)

	parser := hclparse.NewParser()
	var merged fileSchema
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "reading dataset file "+file, err)
		}

		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, errors.Wrap(errors.TypeConfig, "parsing "+file, diags)
		}

		var schema fileSchema
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &schema); diags.HasErrors() {
			return nil, errors.Wrap(errors.TypeConfig, "decoding "+file, diags)
		}

		merged.Zones = append(merged.Zones, schema.Zones...)
		merged.Rates = append(merged.Rates, schema.Rates...)
		merged.Reciprocals = append(merged.Reciprocals, schema.Reciprocals...)
		merged.Duties = append(merged.Duties, schema.Duties...)
		merged.Exclusions = append(merged.Exclusions, schema.Exclusions...)
	}

	return build(merged)
}

func build(schema fileSchema) (*Dataset, error) {
	d := &Dataset{
		Rates:      make(map[string][]types.ReferenceRate, len(schema.Rates)),
		Reciprocal: make(map[string]decimal.Decimal, len(schema.Reciprocals)),
	}

	for _, zone := range schema.Zones {
		d.Zones = append(d.Zones, types.ShippingZone{
			ZoneCode:         zone.Code,
			AdjustmentFactor: decimal.NewFromFloat(zone.AdjustmentFactor),
			Countries:        zone.Countries,
		})
	}

	for _, table := range schema.Rates {
		if _, dup := d.Rates[table.Zone]; dup {
			return nil, errors.Newf(errors.TypeConfig, "duplicate rate_table for zone %s", table.Zone)
		}
		var rates []types.ReferenceRate
		for _, point := range table.Breakpoints {
			rates = append(rates, bp(table.Zone, point.WeightKg, point.BaseUsd, point.FuelUsd))
		}
		d.Rates[table.Zone] = rates
	}

	for _, r := range schema.Reciprocals {
		d.Reciprocal[strings.ToUpper(r.Origin)] = decimal.NewFromFloat(r.Rate)
	}

	for _, duty := range schema.Duties {
		d.DutyRates = append(d.DutyRates, tariff.RateEntry{
			Code:        duty.Code,
			Rate:        decimal.NewFromFloat(duty.Rate),
			Description: duty.Description,
		})
	}

	for _, exclusion := range schema.Exclusions {
		d.Exclusions = append(d.Exclusions, types.ExclusionEntry{
			CountryCode: strings.ToUpper(exclusion.Country),
			Reason:      exclusion.Reason,
		})
	}

	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load resolves the dataset source: an empty path selects the builtin
// tables, anything else is an HCL dataset directory.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Builtin(), nil
	}
	return LoadDir(path)
}
