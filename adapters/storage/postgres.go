package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// DDL for the policy row table. Applied on connect so a fresh database
// works without a migration step.
const policyRowsSchema = `
CREATE TABLE IF NOT EXISTS policy_rows (
	policy_id         TEXT NOT NULL,
	country_code      TEXT NOT NULL,
	zone_code         TEXT NOT NULL DEFAULT '',
	shipping_cost_usd NUMERIC NOT NULL DEFAULT 0,
	handling_fee_usd  NUMERIC NOT NULL DEFAULT 0,
	is_excluded       BOOLEAN NOT NULL DEFAULT FALSE,
	exclusion_reason  TEXT NOT NULL DEFAULT '',
	calculated_margin NUMERIC NOT NULL DEFAULT 0,
	is_ddp            BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (policy_id, country_code)
)`

const upsertRowSQL = `
INSERT INTO policy_rows (
	policy_id, country_code, zone_code, shipping_cost_usd, handling_fee_usd,
	is_excluded, exclusion_reason, calculated_margin, is_ddp, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (policy_id, country_code) DO UPDATE SET
	zone_code         = EXCLUDED.zone_code,
	shipping_cost_usd = EXCLUDED.shipping_cost_usd,
	handling_fee_usd  = EXCLUDED.handling_fee_usd,
	is_excluded       = EXCLUDED.is_excluded,
	exclusion_reason  = EXCLUDED.exclusion_reason,
	calculated_margin = EXCLUDED.calculated_margin,
	is_ddp            = EXCLUDED.is_ddp,
	updated_at        = now()`

const listRowsSQL = `
SELECT policy_id, country_code, zone_code, shipping_cost_usd, handling_fee_usd,
       is_excluded, exclusion_reason, calculated_margin, is_ddp
FROM policy_rows
WHERE policy_id = $1
ORDER BY country_code`

// PostgresStore is a Store backed by a pgx connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the schema exists
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "connecting to postgres", err)
	}
	if _, err := pool.Exec(ctx, policyRowsSchema); err != nil {
		pool.Close()
		return nil, errors.Persistence("creating policy_rows table", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// UpsertRow writes the row, replacing any previous (policy, country) entry
func (s *PostgresStore) UpsertRow(ctx context.Context, row types.CountryPolicyRow) error {
	if row.PolicyID == "" || row.CountryCode == "" {
		return errors.Input("policy row requires policy_id and country_code")
	}

	_, err := s.pool.Exec(ctx, upsertRowSQL,
		row.PolicyID, row.CountryCode, row.ZoneCode,
		row.ShippingCostUsd, row.HandlingFeeUsd,
		row.IsExcluded, row.ExclusionReason,
		row.CalculatedMargin, row.IsDdp,
	)
	if err != nil {
		return errors.Persistence("upserting policy row for "+row.CountryCode, err)
	}
	return nil
}

// ListRows returns the policy's rows ordered by country code
func (s *PostgresStore) ListRows(ctx context.Context, policyID string) ([]types.CountryPolicyRow, error) {
	rows, err := s.pool.Query(ctx, listRowsSQL, policyID)
	if err != nil {
		return nil, errors.Persistence("listing policy rows", err)
	}
	defer rows.Close()

	var out []types.CountryPolicyRow
	for rows.Next() {
		var row types.CountryPolicyRow
		if err := rows.Scan(
			&row.PolicyID, &row.CountryCode, &row.ZoneCode,
			&row.ShippingCostUsd, &row.HandlingFeeUsd,
			&row.IsExcluded, &row.ExclusionReason,
			&row.CalculatedMargin, &row.IsDdp,
		); err != nil {
			return nil, errors.Persistence("scanning policy row", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Persistence("reading policy rows", err)
	}
	if len(out) == 0 {
		return nil, errors.NotFound("policy", policyID)
	}
	return out, nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
