// Package refrate serves the zone-keyed benchmark carrier rate table
// with interpolation between breakpoints and linear extrapolation
// beyond the top one.
package refrate

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// Source resolves a reference rate for a zone and weight
type Source interface {
	GetRate(zoneCode string, weightKg decimal.Decimal) (types.ReferenceRate, error)
}

// Provider interpolates over immutable per-zone breakpoint tables.
// Tables are loaded once and never mutated, so concurrent reads are safe.
type Provider struct {
	tables map[string][]types.ReferenceRate
	slope  decimal.Decimal
}

// NewProvider validates the tables and builds a provider. slopeUsdPerKg
// is the per-kg increase applied beyond each zone's top breakpoint.
//
// Validation enforces the dataset contract: every zone has at least one
// breakpoint, weights strictly ascend, and totals never decrease (the
// monotonicity invariant of the lookup depends on it).
func NewProvider(tables map[string][]types.ReferenceRate, slopeUsdPerKg decimal.Decimal) (*Provider, error) {
	if len(tables) == 0 {
		return nil, errors.Config("reference rate table is empty", nil)
	}
	if slopeUsdPerKg.IsNegative() {
		return nil, errors.Config("extrapolation slope must be non-negative", nil)
	}
	for zone, rows := range tables {
		if len(rows) == 0 {
			return nil, errors.Newf(errors.TypeConfig, "zone %s has no breakpoints", zone)
		}
		for i, row := range rows {
			if i == 0 {
				continue
			}
			if row.WeightKg.LessThanOrEqual(rows[i-1].WeightKg) {
				return nil, errors.Newf(errors.TypeConfig,
					"zone %s breakpoints not strictly ascending at %s kg", zone, row.WeightKg)
			}
			if row.TotalUsd.LessThan(rows[i-1].TotalUsd) {
				return nil, errors.Newf(errors.TypeConfig,
					"zone %s totals decrease at %s kg", zone, row.WeightKg)
			}
		}
	}
	return &Provider{tables: tables, slope: slopeUsdPerKg}, nil
}

// Zones lists the zone codes the provider can serve
func (p *Provider) Zones() []string {
	zones := make([]string, 0, len(p.tables))
	for zone := range p.tables {
		zones = append(zones, zone)
	}
	return zones
}

// GetRate resolves the reference rate for a zone and weight.
//
// Below the first breakpoint the first entry applies verbatim; beyond
// the last one the total grows linearly at the configured slope; in
// between, components interpolate linearly. The result is monotonically
// non-decreasing in weight for a fixed zone, and exact at breakpoints.
func (p *Provider) GetRate(zoneCode string, weightKg decimal.Decimal) (types.ReferenceRate, error) {
	rows, ok := p.tables[zoneCode]
	if !ok {
		return types.ReferenceRate{}, errors.Newf(errors.TypeZoneMapping,
			"no reference rates for zone: %s", zoneCode)
	}
	if weightKg.IsNegative() {
		return types.ReferenceRate{}, errors.Input("weight must be non-negative")
	}

	first, last := rows[0], rows[len(rows)-1]

	if weightKg.LessThanOrEqual(first.WeightKg) {
		return p.at(zoneCode, weightKg, first), nil
	}
	if weightKg.GreaterThanOrEqual(last.WeightKg) {
		extra := weightKg.Sub(last.WeightKg).Mul(p.slope)
		out := p.at(zoneCode, weightKg, last)
		// The surcharge component holds steady past the table; the
		// linear growth accrues to the base.
		out.BaseUsd = out.BaseUsd.Add(extra)
		out.TotalUsd = out.TotalUsd.Add(extra)
		return out, nil
	}

	for i := 1; i < len(rows); i++ {
		lo, hi := rows[i-1], rows[i]
		if weightKg.GreaterThan(hi.WeightKg) {
			continue
		}
		if weightKg.Equal(hi.WeightKg) {
			return p.at(zoneCode, weightKg, hi), nil
		}
		t := weightKg.Sub(lo.WeightKg).Div(hi.WeightKg.Sub(lo.WeightKg))
		return types.ReferenceRate{
			ZoneCode:         zoneCode,
			WeightKg:         weightKg,
			BaseUsd:          lerp(lo.BaseUsd, hi.BaseUsd, t),
			FuelSurchargeUsd: lerp(lo.FuelSurchargeUsd, hi.FuelSurchargeUsd, t),
			TotalUsd:         lerp(lo.TotalUsd, hi.TotalUsd, t),
		}, nil
	}

	// Unreachable: the bracket scan covers (first, last)
	return p.at(zoneCode, weightKg, last), nil
}

// at clones a breakpoint's amounts onto the queried weight
func (p *Provider) at(zone string, weightKg decimal.Decimal, row types.ReferenceRate) types.ReferenceRate {
	return types.ReferenceRate{
		ZoneCode:         zone,
		WeightKg:         weightKg,
		BaseUsd:          row.BaseUsd,
		FuelSurchargeUsd: row.FuelSurchargeUsd,
		TotalUsd:         row.TotalUsd,
	}
}

func lerp(lo, hi, t decimal.Decimal) decimal.Decimal {
	return lo.Add(hi.Sub(lo).Mul(t))
}
