package commands

import (
	"errors"

	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
)

var ErrAdvanceConvoyCommandIsNotConstructed = errors.New(
	"AdvanceConvoyCommand must be created via NewAdvanceConvoyCommand constructor",
)

// AdvanceConvoyCommand moves a convoy along the escort lifecycle by explicit
// request: quoting, accepting, briefing, debrief and the other moves the
// sync sweep does not drive.
type AdvanceConvoyCommand struct {
	convoyID kernel.UUID
	target   convoy.Status
	actor    load.Actor

	guard kernel.ConstructorGuard
}

// NewAdvanceConvoyCommand creates a validated escort advancement request.
func NewAdvanceConvoyCommand(
	convoyID kernel.UUID, target convoy.Status, actor load.Actor,
) (AdvanceConvoyCommand, error) {
	if err := convoyID.Validate(); err != nil {
		return AdvanceConvoyCommand{}, err
	}
	if err := target.Validate(); err != nil {
		return AdvanceConvoyCommand{}, err
	}
	if err := actor.Validate(); err != nil {
		return AdvanceConvoyCommand{}, err
	}

	return AdvanceConvoyCommand{
		convoyID: convoyID,
		target:   target,
		actor:    actor,
		guard:    kernel.NewConstructorGuard(),
	}, nil
}

// ConvoyID returns the target convoy.
func (c AdvanceConvoyCommand) ConvoyID() kernel.UUID {
	return c.convoyID
}

// Target returns the requested escort status.
func (c AdvanceConvoyCommand) Target() convoy.Status {
	return c.target
}

// Actor returns who requested the move.
func (c AdvanceConvoyCommand) Actor() load.Actor {
	return c.actor
}

// Validate ensures the command was created through the constructor.
func (c *AdvanceConvoyCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceConvoyCommandIsNotConstructed)
}
