// Package tariff resolves a tariff code and origin country into a
// composite duty rate, including trade-remedy surcharges.
package tariff

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// Surcharge points applied by the trade-remedy rules, as rate fractions.
var (
	section301Points = decimal.NewFromFloat(0.25)
	section232Points = decimal.NewFromFloat(0.25)
)

// Origin that triggers the Section 301 surcharge
const section301Origin = "CN"

// RateEntry is one resolved rate-table record
type RateEntry struct {
	// Code is the normalized tariff code of the record
	Code string

	// Rate is the general duty rate as a fraction
	Rate decimal.Decimal

	// Description is the rate table's item description
	Description string
}

// RateTable is the duty-rate dataset collaborator. The engine queries
// it, it does not own it.
type RateTable interface {
	// Lookup returns the entry for an exact normalized code
	Lookup(code string) (RateEntry, bool)

	// LookupPrefix returns the first entry whose code starts with prefix
	LookupPrefix(prefix string) (RateEntry, bool)
}

// Classifier resolves duty classifications. All heuristic inputs
// (rate table, reciprocal map, material detector) are injected so
// tests can substitute deterministic fixtures.
type Classifier struct {
	rates      RateTable
	reciprocal map[string]decimal.Decimal
	material   MaterialDetector
}

// NewClassifier creates a classifier over the supplied collaborators.
// A nil detector disables the Section 232 rule.
func NewClassifier(rates RateTable, reciprocal map[string]decimal.Decimal, material MaterialDetector) *Classifier {
	if material == nil {
		material = noDetector{}
	}
	return &Classifier{rates: rates, reciprocal: reciprocal, material: material}
}

// Classify resolves tariffCode and originCountry into a DutyClassification.
// materialDesc is the free-text material description used by the
// Section 232 rule; it may be empty.
//
// An unresolvable code returns a CLASSIFICATION_NOT_FOUND error - the
// unclassified state is explicit, never a silent 0% duty.
func (c *Classifier) Classify(tariffCode, originCountry, materialDesc string) (types.DutyClassification, error) {
	entry, err := c.resolve(tariffCode)
	if err != nil {
		return types.DutyClassification{}, err
	}

	cls := types.DutyClassification{
		TariffCode:    entry.Code,
		OriginCountry: originCountry,
		Description:   entry.Description,
		BaseRate:      entry.Rate,
	}

	if originCountry == section301Origin {
		cls.Section301Rate = section301Points
	}
	if c.material.AtRisk(materialDesc) {
		cls.Section232Rate = section232Points
	}
	// Reciprocal tariffs apply unconditionally once origin is known;
	// origins absent from the map carry 0%.
	if rate, ok := c.reciprocal[originCountry]; ok {
		cls.ReciprocalRate = rate
	}

	cls.CompositeRate = cls.RateSum()
	return cls, nil
}

// resolve normalizes the code and walks the prefix ladder: exact match
// first, then progressively shorter prefixes down to 6 digits.
func (c *Classifier) resolve(tariffCode string) (RateEntry, error) {
	normalized := NormalizeCode(tariffCode)
	if normalized == "" {
		return RateEntry{}, errors.ClassificationNotFound(tariffCode)
	}

	if entry, ok := c.rates.Lookup(normalized); ok {
		return entry, nil
	}

	for _, width := range []int{10, 8, 6} {
		if len(normalized) <= width {
			continue
		}
		if entry, ok := c.rates.LookupPrefix(normalized[:width]); ok {
			return entry, nil
		}
	}

	return RateEntry{}, errors.ClassificationNotFound(tariffCode)
}

// NormalizeCode strips the separators commonly found in HS/HTS codes
func NormalizeCode(code string) string {
	replacer := strings.NewReplacer(".", "", "-", "", " ", "")
	return replacer.Replace(strings.TrimSpace(code))
}

// MapRateTable is an in-memory RateTable keyed by normalized code
type MapRateTable struct {
	entries map[string]RateEntry
	codes   []string
}

// NewMapRateTable builds a table from code -> (rate, description) records.
// Codes are normalized on insert; prefix lookups resolve in code order
// so repeated queries are deterministic.
func NewMapRateTable(entries []RateEntry) *MapRateTable {
	t := &MapRateTable{entries: make(map[string]RateEntry, len(entries))}
	for _, e := range entries {
		code := NormalizeCode(e.Code)
		if code == "" {
			continue
		}
		e.Code = code
		if _, dup := t.entries[code]; !dup {
			t.codes = append(t.codes, code)
		}
		t.entries[code] = e
	}
	sort.Strings(t.codes)
	return t
}

// Lookup returns the entry for an exact normalized code
func (t *MapRateTable) Lookup(code string) (RateEntry, bool) {
	entry, ok := t.entries[code]
	return entry, ok
}

// LookupPrefix returns the lowest-numbered entry starting with prefix
func (t *MapRateTable) LookupPrefix(prefix string) (RateEntry, bool) {
	i := sort.SearchStrings(t.codes, prefix)
	if i < len(t.codes) && strings.HasPrefix(t.codes[i], prefix) {
		return t.entries[t.codes[i]], true
	}
	return RateEntry{}, false
}
