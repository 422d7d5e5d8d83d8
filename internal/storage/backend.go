// Package storage persists the whole product catalog as a single JSON document.
//
// Every backend stores exactly one snapshot: Load returns it, SaveAll replaces it.
// There is no incremental write path; callers rewrite the full collection after
// each mutation.
//
// Drivers:
//   - "file":     one JSON file on local disk (default)
//   - "postgres": one JSONB row in catalog_snapshots
//   - "s3":       one object in an S3-compatible bucket
package storage

import (
	"context"
	"errors"

	"mercado-libre-api/internal/domain"
)

// ErrSnapshotNotFound is returned by Load when no snapshot has been written yet.
var ErrSnapshotNotFound = errors.New("catalog snapshot not found")

// Backend reads and writes the catalog snapshot.
type Backend interface {
	// Load returns every stored product, in stored order.
	// Returns ErrSnapshotNotFound if nothing was ever saved.
	Load(ctx context.Context) ([]domain.Product, error)

	// SaveAll overwrites the snapshot with products.
	SaveAll(ctx context.Context, products []domain.Product) error

	// Name identifies the driver in logs and metrics.
	Name() string

	// Close releases any connection held by the backend.
	Close() error
}
