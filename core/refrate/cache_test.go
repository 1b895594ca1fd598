package refrate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// countingSource records how many times it is asked for a rate
type countingSource struct {
	calls int
	fail  bool
}

func (s *countingSource) GetRate(zoneCode string, weightKg decimal.Decimal) (types.ReferenceRate, error) {
	s.calls++
	if s.fail {
		return types.ReferenceRate{}, errors.Newf(errors.TypeZoneMapping, "no reference rates for zone: %s", zoneCode)
	}
	return types.ReferenceRate{
		ZoneCode: zoneCode,
		WeightKg: weightKg,
		TotalUsd: decimal.NewFromInt(12),
	}, nil
}

func TestCacheHitSkipsSource(t *testing.T) {
	src := &countingSource{}
	c := NewCache(src, 15*time.Minute)

	w := decimal.NewFromInt(1)
	_, err := c.GetRate("Z1", w)
	require.NoError(t, err)
	_, err = c.GetRate("Z1", w)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
}

func TestCacheKeyIncludesWeight(t *testing.T) {
	src := &countingSource{}
	c := NewCache(src, 15*time.Minute)

	c.GetRate("Z1", decimal.NewFromInt(1))
	c.GetRate("Z1", decimal.NewFromInt(2))

	assert.Equal(t, 2, src.calls)
}

func TestCacheExpiry(t *testing.T) {
	src := &countingSource{}
	c := NewCache(src, 15*time.Minute)

	current := time.Now()
	c.now = func() time.Time { return current }

	w := decimal.NewFromInt(1)
	c.GetRate("Z1", w)

	current = current.Add(16 * time.Minute)
	c.GetRate("Z1", w)

	assert.Equal(t, 2, src.calls)
}

func TestCacheNeverCachesErrors(t *testing.T) {
	src := &countingSource{fail: true}
	c := NewCache(src, 15*time.Minute)

	w := decimal.NewFromInt(1)
	_, err := c.GetRate("Z9", w)
	require.Error(t, err)
	_, err = c.GetRate("Z9", w)
	require.Error(t, err)

	assert.Equal(t, 2, src.calls)
}

func TestCachePurge(t *testing.T) {
	src := &countingSource{}
	c := NewCache(src, 15*time.Minute)

	w := decimal.NewFromInt(1)
	c.GetRate("Z1", w)
	c.Purge()
	c.GetRate("Z1", w)

	assert.Equal(t, 2, src.calls)
}
