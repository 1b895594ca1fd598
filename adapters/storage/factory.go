package storage

import (
	"context"

	"landed-cost/internal/errors"
)

// Supported backend names
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// NewStore creates the configured Store backend
func NewStore(ctx context.Context, backend, databaseURL string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendPostgres:
		if databaseURL == "" {
			return nil, errors.New(errors.TypeConfig, "postgres backend requires a database URL")
		}
		return NewPostgresStore(ctx, databaseURL)
	default:
		return nil, errors.Newf(errors.TypeConfig, "unknown storage backend %q", backend)
	}
}
