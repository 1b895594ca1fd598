package tariff

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landed-cost/internal/errors"
)

func testTable(t *testing.T) *MapRateTable {
	t.Helper()
	return NewMapRateTable([]RateEntry{
		{Code: "9101110000", Rate: decimal.NewFromFloat(0.051), Description: "wrist-watches"},
		{Code: "950300", Rate: decimal.Zero, Description: "toys"},
		{Code: "731815", Rate: decimal.NewFromFloat(0.085), Description: "steel screws"},
	})
}

func testClassifier(t *testing.T) *Classifier {
	t.Helper()
	reciprocal := map[string]decimal.Decimal{
		"JP": decimal.NewFromFloat(0.15),
	}
	return NewClassifier(testTable(t), reciprocal, NewKeywordDetector(DefaultMaterialKeywords...))
}

func TestClassifyExactMatch(t *testing.T) {
	c := testClassifier(t)

	cls, err := c.Classify("9101110000", "DE", "")
	require.NoError(t, err)

	assert.Equal(t, "9101110000", cls.TariffCode)
	assert.True(t, cls.BaseRate.Equal(decimal.NewFromFloat(0.051)))
	assert.True(t, cls.Section301Rate.IsZero())
	assert.True(t, cls.Section232Rate.IsZero())
	assert.True(t, cls.ReciprocalRate.IsZero())
	assert.True(t, cls.CompositeRate.Equal(decimal.NewFromFloat(0.051)))
}

func TestClassifyNormalizesSeparators(t *testing.T) {
	c := testClassifier(t)

	cls, err := c.Classify("9101.11.00.00", "DE", "")
	require.NoError(t, err)
	assert.Equal(t, "9101110000", cls.TariffCode)
}

func TestClassifyPrefixFallback(t *testing.T) {
	c := testClassifier(t)

	// 10-digit code unknown, resolves through the 6-digit prefix
	cls, err := c.Classify("9503001234", "DE", "")
	require.NoError(t, err)
	assert.Equal(t, "950300", cls.TariffCode)
	assert.Equal(t, "toys", cls.Description)
}

func TestClassifySection301ForChina(t *testing.T) {
	c := testClassifier(t)

	cls, err := c.Classify("950300", "CN", "")
	require.NoError(t, err)
	assert.True(t, cls.Section301Rate.Equal(decimal.NewFromFloat(0.25)))
	assert.True(t, cls.CompositeRate.Equal(decimal.NewFromFloat(0.25)))
}

func TestClassifySection232ForSteel(t *testing.T) {
	c := testClassifier(t)

	cls, err := c.Classify("731815", "DE", "stainless steel bolts")
	require.NoError(t, err)
	assert.True(t, cls.Section232Rate.Equal(decimal.NewFromFloat(0.25)))
	assert.True(t, cls.CompositeRate.Equal(decimal.NewFromFloat(0.335)))
}

func TestClassifySection232JapaneseKeyword(t *testing.T) {
	c := testClassifier(t)

	cls, err := c.Classify("731815", "JP", "ステンレス製ボルト")
	require.NoError(t, err)
	assert.True(t, cls.Section232Rate.Equal(decimal.NewFromFloat(0.25)))
}

func TestClassifyReciprocalRate(t *testing.T) {
	c := testClassifier(t)

	cls, err := c.Classify("950300", "JP", "")
	require.NoError(t, err)
	assert.True(t, cls.ReciprocalRate.Equal(decimal.NewFromFloat(0.15)))
	assert.True(t, cls.CompositeRate.Equal(decimal.NewFromFloat(0.15)))
}

func TestClassifyCompositeStacks(t *testing.T) {
	c := testClassifier(t)

	// base + 301 + 232 on a Chinese steel item
	cls, err := c.Classify("731815", "CN", "steel")
	require.NoError(t, err)
	assert.True(t, cls.CompositeRate.Equal(decimal.NewFromFloat(0.585)),
		"got %s", cls.CompositeRate)
	assert.True(t, cls.CompositeRate.Equal(cls.RateSum()))
}

func TestClassifyUnknownCode(t *testing.T) {
	c := testClassifier(t)

	_, err := c.Classify("0000000000", "DE", "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeClassification))
}

func TestClassifyEmptyCode(t *testing.T) {
	c := testClassifier(t)

	_, err := c.Classify("  ", "DE", "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeClassification))
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"9101.11.00.00", "9101110000"},
		{"9101-11", "910111"},
		{" 9503 00 ", "950300"},
		{"950300", "950300"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCode(tt.in))
	}
}

func TestLookupPrefixDeterministic(t *testing.T) {
	table := NewMapRateTable([]RateEntry{
		{Code: "9101110090", Rate: decimal.NewFromFloat(0.02)},
		{Code: "9101110010", Rate: decimal.NewFromFloat(0.01)},
	})

	// Lowest-numbered code wins regardless of insert order
	entry, ok := table.LookupPrefix("910111")
	require.True(t, ok)
	assert.Equal(t, "9101110010", entry.Code)
}
