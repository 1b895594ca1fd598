// Package dataset owns the reference data the pricing engine consumes:
// shipping zones, benchmark rate tables, duty rates, reciprocal tariff
// rates, and destination exclusions. Data comes either from the builtin
// tables or from HCL files on disk.
package dataset

import (
	"strings"

	"github.com/shopspring/decimal"

	"landed-cost/core/tariff"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// Dataset is a fully validated reference data bundle
type Dataset struct {
	Zones      []types.ShippingZone
	Rates      map[string][]types.ReferenceRate
	Reciprocal map[string]decimal.Decimal
	DutyRates  []tariff.RateEntry
	Exclusions []types.ExclusionEntry

	zoneByCountry map[string]types.ShippingZone
	zoneByCode    map[string]types.ShippingZone
	exclusions    map[string]types.ExclusionEntry
}

// ZoneFor returns the shipping zone for an ISO-2 destination country
func (d *Dataset) ZoneFor(countryCode string) (types.ShippingZone, bool) {
	zone, ok := d.zoneByCountry[strings.ToUpper(countryCode)]
	return zone, ok
}

// ZoneByCode returns a shipping zone by its zone code
func (d *Dataset) ZoneByCode(zoneCode string) (types.ShippingZone, bool) {
	zone, ok := d.zoneByCode[strings.ToUpper(zoneCode)]
	return zone, ok
}

// Excluded returns the exclusion entry for a destination, if any
func (d *Dataset) Excluded(countryCode string) (types.ExclusionEntry, bool) {
	entry, ok := d.exclusions[strings.ToUpper(countryCode)]
	return entry, ok
}

// Countries returns every destination covered by a zone, in zone order
func (d *Dataset) Countries() []string {
	var out []string
	for _, zone := range d.Zones {
		out = append(out, zone.Countries...)
	}
	return out
}

// validate indexes the dataset and enforces cross-references: each
// country maps to exactly one zone, and every zone has a rate table.
func (d *Dataset) validate() error {
	d.zoneByCountry = make(map[string]types.ShippingZone)
	d.zoneByCode = make(map[string]types.ShippingZone, len(d.Zones))
	d.exclusions = make(map[string]types.ExclusionEntry, len(d.Exclusions))

	for _, zone := range d.Zones {
		if zone.ZoneCode == "" {
			return errors.New(errors.TypeConfig, "zone with empty code")
		}
		if _, ok := d.Rates[zone.ZoneCode]; !ok {
			return errors.Newf(errors.TypeConfig, "zone %s has no rate table", zone.ZoneCode)
		}
		d.zoneByCode[strings.ToUpper(zone.ZoneCode)] = zone
		for _, country := range zone.Countries {
			code := strings.ToUpper(country)
			if prev, dup := d.zoneByCountry[code]; dup {
				return errors.Newf(errors.TypeConfig, "country %s mapped to both zone %s and zone %s", code, prev.ZoneCode, zone.ZoneCode)
			}
			d.zoneByCountry[code] = zone
		}
	}

	for zoneCode := range d.Rates {
		found := false
		for _, zone := range d.Zones {
			if zone.ZoneCode == zoneCode {
				found = true
				break
			}
		}
		if !found {
			return errors.Newf(errors.TypeConfig, "rate table references unknown zone %s", zoneCode)
		}
	}

	for _, entry := range d.Exclusions {
		d.exclusions[strings.ToUpper(entry.CountryCode)] = entry
	}

	return nil
}
