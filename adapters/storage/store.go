// Package storage persists shipping-policy rate matrices.
package storage

import (
	"context"
	"sort"
	"sync"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// Store persists policy rows keyed by (policy_id, country_code).
// UpsertRow is idempotent: re-running a batch overwrites rows in place
// instead of duplicating them.
type Store interface {
	UpsertRow(ctx context.Context, row types.CountryPolicyRow) error
	ListRows(ctx context.Context, policyID string) ([]types.CountryPolicyRow, error)
	Close() error
}

// MemoryStore is an in-memory Store for tests and single-process runs
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]map[string]types.CountryPolicyRow
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[string]map[string]types.CountryPolicyRow),
	}
}

// UpsertRow stores or replaces the row for (policy, country)
func (s *MemoryStore) UpsertRow(ctx context.Context, row types.CountryPolicyRow) error {
	if row.PolicyID == "" || row.CountryCode == "" {
		return errors.Input("policy row requires policy_id and country_code")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	policy, ok := s.rows[row.PolicyID]
	if !ok {
		policy = make(map[string]types.CountryPolicyRow)
		s.rows[row.PolicyID] = policy
	}
	policy[row.CountryCode] = row
	return nil
}

// ListRows returns the policy's rows ordered by country code
func (s *MemoryStore) ListRows(ctx context.Context, policyID string) ([]types.CountryPolicyRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	policy, ok := s.rows[policyID]
	if !ok {
		return nil, errors.NotFound("policy", policyID)
	}

	rows := make([]types.CountryPolicyRow, 0, len(policy))
	for _, row := range policy {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CountryCode < rows[j].CountryCode
	})
	return rows, nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}
