package commands

import (
	"errors"

	"loadflow/internal/core/domain/model/kernel"
)

var ErrRunAutoTransitionsCommandIsNotConstructed = errors.New(
	"RunAutoTransitionsCommand must be created via NewRunAutoTransitionsCommand constructor",
)

// RunAutoTransitionsCommand triggers one scheduler sweep: every load whose
// state declares a timeout rule is checked against the persisted entry time,
// and due transitions are fired as the system actor.
//
// The sweep is level triggered, so a sweep missed during downtime is simply
// caught up by the next one.
type RunAutoTransitionsCommand struct {
	guard kernel.ConstructorGuard
}

// NewRunAutoTransitionsCommand creates a new sweep trigger.
func NewRunAutoTransitionsCommand() RunAutoTransitionsCommand {
	return RunAutoTransitionsCommand{guard: kernel.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c *RunAutoTransitionsCommand) Validate() error {
	return c.guard.Validate(ErrRunAutoTransitionsCommandIsNotConstructed)
}
