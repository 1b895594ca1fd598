package policy

import (
	"sync"

	"github.com/shopspring/decimal"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// CountryError records why one destination produced no usable row.
// The failure stays isolated: the rest of the batch is unaffected.
type CountryError struct {
	CountryCode string      `json:"country_code"`
	Reason      errors.Type `json:"reason"`
	Err         error       `json:"-"`
	Message     string      `json:"message"`
}

// accumulator collects per-country outcomes from the worker pool
type accumulator struct {
	mu        sync.Mutex
	rows      []types.CountryPolicyRow
	errs      []CountryError
	marginSum decimal.Decimal
	healthy   int
	excluded  int
}

func (a *accumulator) addRow(row types.CountryPolicyRow) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rows = append(a.rows, row)
	if row.IsExcluded {
		a.excluded++
		return
	}
	a.marginSum = a.marginSum.Add(row.CalculatedMargin)
	a.healthy++
}

func (a *accumulator) addError(countryCode string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.errs = append(a.errs, CountryError{
		CountryCode: countryCode,
		Reason:      errors.TypeOf(err),
		Err:         err,
		Message:     err.Error(),
	})
}

// averageMargin is the mean margin over healthy rows only; excluded
// and errored destinations never dilute the aggregate.
func (a *accumulator) averageMargin() decimal.Decimal {
	if a.healthy == 0 {
		return decimal.Zero
	}
	return a.marginSum.Div(decimal.NewFromInt(int64(a.healthy)))
}
