package ports

import (
	"context"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
)

// LoadRepository defines the persistence contract for load aggregates.
//
// Writes use optimistic concurrency: Update compares the aggregate's
// persisted version and returns an errs.ErrVersionIsInvalid-classified error
// when another writer got there first. That error is how the per-entity
// single-writer contract surfaces to the engine.
type LoadRepository interface {
	// Add persists a new load aggregate.
	Add(ctx context.Context, aggregate *load.Load) error

	// Get retrieves a load by id, including its persisted version.
	Get(ctx context.Context, id kernel.UUID) (*load.Load, error)

	// Update persists the aggregate against its read version. A stale
	// version yields an errs.ErrVersionIsInvalid-classified error and
	// writes nothing.
	Update(ctx context.Context, aggregate *load.Load) error

	// GetAllInStates retrieves loads currently sitting in any of the given
	// states. The auto-transition sweep uses this with the states that
	// declare timeout rules.
	GetAllInStates(ctx context.Context, states []load.State) ([]*load.Load, error)
}
