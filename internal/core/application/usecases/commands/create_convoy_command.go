package commands

import (
	"errors"

	"loadflow/internal/core/domain/model/kernel"
)

var ErrCreateConvoyCommandIsNotConstructed = errors.New(
	"CreateConvoyCommand must be created via NewCreateConvoyCommand constructor",
)

// CreateConvoyCommand requests escort coverage for a load: a lead escort and
// an optional rear escort.
type CreateConvoyCommand struct {
	convoyID     kernel.UUID
	loadID       kernel.UUID
	leadEscortID kernel.UUID
	rearEscortID *kernel.UUID

	guard kernel.ConstructorGuard
}

// NewCreateConvoyCommand creates a validated convoy creation request.
// rearEscortID may be nil for single-vehicle escorts.
func NewCreateConvoyCommand(
	convoyID, loadID, leadEscortID kernel.UUID, rearEscortID *kernel.UUID,
) (CreateConvoyCommand, error) {
	if err := errors.Join(convoyID.Validate(), loadID.Validate(), leadEscortID.Validate()); err != nil {
		return CreateConvoyCommand{}, err
	}
	if rearEscortID != nil {
		if err := rearEscortID.Validate(); err != nil {
			return CreateConvoyCommand{}, err
		}
	}

	return CreateConvoyCommand{
		convoyID:     convoyID,
		loadID:       loadID,
		leadEscortID: leadEscortID,
		rearEscortID: rearEscortID,
		guard:        kernel.NewConstructorGuard(),
	}, nil
}

// ConvoyID returns the identity the new convoy will carry.
func (c CreateConvoyCommand) ConvoyID() kernel.UUID {
	return c.convoyID
}

// LoadID returns the escorted load.
func (c CreateConvoyCommand) LoadID() kernel.UUID {
	return c.loadID
}

// LeadEscortID returns the lead escort participant.
func (c CreateConvoyCommand) LeadEscortID() kernel.UUID {
	return c.leadEscortID
}

// RearEscortID returns the rear escort participant, nil when absent.
func (c CreateConvoyCommand) RearEscortID() *kernel.UUID {
	return c.rearEscortID
}

// Validate ensures the command was created through the constructor.
func (c *CreateConvoyCommand) Validate() error {
	return c.guard.Validate(ErrCreateConvoyCommandIsNotConstructed)
}
