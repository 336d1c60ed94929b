// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"loadflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. These abstractions ensure the state commit and its audit append
// land atomically.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// LoadRepoFactory provides access to the load repository within a transaction.
	LoadRepoFactory interface {
		LoadRepository() ports.LoadRepository
	}

	// ConvoyRepoFactory provides access to the convoy repository within a transaction.
	ConvoyRepoFactory interface {
		ConvoyRepository() ports.ConvoyRepository
	}

	// AuditRepoFactory provides access to the audit repository within a transaction.
	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// LoadUoW manages transactions for operations touching a load and its
	// audit trail.
	LoadUoW interface {
		TxManager
		LoadRepoFactory
		AuditRepoFactory
	}

	// LoadUoWFactory creates new load unit of work instances.
	LoadUoWFactory interface {
		Create() LoadUoW
	}

	// ConvoyUoW manages transactions for operations touching a convoy and its
	// audit trail.
	ConvoyUoW interface {
		TxManager
		ConvoyRepoFactory
		AuditRepoFactory
	}

	// ConvoyUoWFactory creates new convoy unit of work instances.
	ConvoyUoWFactory interface {
		Create() ConvoyUoW
	}

	// UoW manages transactions across load, convoy and audit. The convoy
	// sync sweep reads loads and moves convoys in one transaction.
	UoW interface {
		TxManager
		LoadRepoFactory
		ConvoyRepoFactory
		AuditRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate
	// operations.
	UoWFactory interface {
		Create() UoW
	}
)
