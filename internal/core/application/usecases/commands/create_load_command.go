package commands

import (
	"errors"

	"loadflow/internal/core/domain/model/kernel"
)

var ErrCreateLoadCommandIsNotConstructed = errors.New(
	"CreateLoadCommand must be created via NewCreateLoadCommand constructor",
)

// CreateLoadCommand registers a new load in Draft for a shipper.
type CreateLoadCommand struct {
	loadID    kernel.UUID
	shipperID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewCreateLoadCommand creates a validated load creation request.
func NewCreateLoadCommand(loadID, shipperID kernel.UUID) (CreateLoadCommand, error) {
	if err := loadID.Validate(); err != nil {
		return CreateLoadCommand{}, err
	}
	if err := shipperID.Validate(); err != nil {
		return CreateLoadCommand{}, err
	}

	return CreateLoadCommand{
		loadID:    loadID,
		shipperID: shipperID,
		guard:     kernel.NewConstructorGuard(),
	}, nil
}

// LoadID returns the identity the new load will carry.
func (c CreateLoadCommand) LoadID() kernel.UUID {
	return c.loadID
}

// ShipperID returns the owning shipper.
func (c CreateLoadCommand) ShipperID() kernel.UUID {
	return c.shipperID
}

// Validate ensures the command was created through the constructor.
func (c *CreateLoadCommand) Validate() error {
	return c.guard.Validate(ErrCreateLoadCommandIsNotConstructed)
}
