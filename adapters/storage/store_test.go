package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

func TestMemoryStoreUpsertAndList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.UpsertRow(ctx, types.CountryPolicyRow{
		PolicyID:        "p1",
		CountryCode:     "US",
		ZoneCode:        "Z1",
		ShippingCostUsd: decimal.NewFromFloat(24.95),
	}))
	require.NoError(t, s.UpsertRow(ctx, types.CountryPolicyRow{
		PolicyID:    "p1",
		CountryCode: "GB",
		ZoneCode:    "Z2",
	}))

	rows, err := s.ListRows(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by country code
	assert.Equal(t, "GB", rows[0].CountryCode)
	assert.Equal(t, "US", rows[1].CountryCode)
}

func TestMemoryStoreUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	row := types.CountryPolicyRow{
		PolicyID:        "p1",
		CountryCode:     "US",
		ShippingCostUsd: decimal.NewFromFloat(24.95),
	}
	require.NoError(t, s.UpsertRow(ctx, row))

	row.ShippingCostUsd = decimal.NewFromFloat(29.95)
	require.NoError(t, s.UpsertRow(ctx, row))

	rows, err := s.ListRows(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].ShippingCostUsd.Equal(decimal.NewFromFloat(29.95)))
}

func TestMemoryStorePoliciesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.UpsertRow(ctx, types.CountryPolicyRow{PolicyID: "p1", CountryCode: "US"}))
	require.NoError(t, s.UpsertRow(ctx, types.CountryPolicyRow{PolicyID: "p2", CountryCode: "US"}))

	rows, err := s.ListRows(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMemoryStoreUnknownPolicy(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.ListRows(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestMemoryStoreRejectsIncompleteKey(t *testing.T) {
	s := NewMemoryStore()

	err := s.UpsertRow(context.Background(), types.CountryPolicyRow{PolicyID: "p1"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestNewStoreFactory(t *testing.T) {
	ctx := context.Background()

	s, err := NewStore(ctx, "memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore(ctx, "", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = NewStore(ctx, "postgres", "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = NewStore(ctx, "cassandra", "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}
