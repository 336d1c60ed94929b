package commands

import (
	"errors"

	"loadflow/internal/core/domain/model/kernel"
)

var ErrSyncConvoysCommandIsNotConstructed = errors.New(
	"SyncConvoysCommand must be created via NewSyncConvoysCommand constructor",
)

// SyncConvoysCommand triggers one escort coordination sweep over every
// active convoy: cargo-exception holds first, then hold releases, then
// sync-point advancement.
type SyncConvoysCommand struct {
	guard kernel.ConstructorGuard
}

// NewSyncConvoysCommand creates a new sweep trigger.
func NewSyncConvoysCommand() SyncConvoysCommand {
	return SyncConvoysCommand{guard: kernel.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c *SyncConvoysCommand) Validate() error {
	return c.guard.Validate(ErrSyncConvoysCommandIsNotConstructed)
}
