package commands

import (
	"context"
	"time"

	"loadflow/internal/core/domain/model/convoy"
)

// CreateConvoyCommandHandler persists a new convoy in EscortRequested. The
// load must exist; a convoy for an unknown load is rejected by the lookup.
type CreateConvoyCommandHandler struct {
	uowFactory UoWFactory
	now        func() time.Time
}

// NewCreateConvoyCommandHandler creates a handler for convoy creation.
func NewCreateConvoyCommandHandler(uowFactory UoWFactory) CreateConvoyCommandHandler {
	return CreateConvoyCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle verifies the load exists, then creates and persists the convoy.
func (h CreateConvoyCommandHandler) Handle(ctx context.Context, command CreateConvoyCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.LoadRepository().Get(ctx, command.LoadID()); err != nil {
		return err
	}

	aggregate, err := convoy.NewConvoy(
		command.ConvoyID(), command.LoadID(), command.LeadEscortID(), command.RearEscortID(), h.now())
	if err != nil {
		return err
	}

	if err := uow.ConvoyRepository().Add(ctx, aggregate); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
