package ports

import (
	"context"

	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
)

// ConvoyRepository defines the persistence contract for convoy aggregates,
// including the last-known lead/rear separation distances.
type ConvoyRepository interface {
	// Add persists a new convoy aggregate.
	Add(ctx context.Context, aggregate *convoy.Convoy) error

	// Get retrieves a convoy by id.
	Get(ctx context.Context, id kernel.UUID) (*convoy.Convoy, error)

	// GetByLoadID retrieves the convoy escorting the given load.
	GetByLoadID(ctx context.Context, loadID kernel.UUID) (*convoy.Convoy, error)

	// GetAllActive retrieves every convoy not yet in a terminal status.
	// The convoy sync sweep iterates this set.
	GetAllActive(ctx context.Context) ([]*convoy.Convoy, error)

	// Update persists the aggregate against its read version, with the same
	// stale-version semantics as LoadRepository.Update.
	Update(ctx context.Context, aggregate *convoy.Convoy) error
}
