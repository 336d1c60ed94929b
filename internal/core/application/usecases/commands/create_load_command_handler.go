package commands

import (
	"context"
	"time"

	"loadflow/internal/core/domain/model/load"
)

// CreateLoadCommandHandler persists a new load in Draft.
type CreateLoadCommandHandler struct {
	uowFactory LoadUoWFactory
	now        func() time.Time
}

// NewCreateLoadCommandHandler creates a handler for load creation.
func NewCreateLoadCommandHandler(uowFactory LoadUoWFactory) CreateLoadCommandHandler {
	return CreateLoadCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle creates the load aggregate and persists it.
func (h CreateLoadCommandHandler) Handle(ctx context.Context, command CreateLoadCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	aggregate, err := load.NewLoad(command.LoadID(), command.ShipperID(), h.now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.LoadRepository().Add(ctx, aggregate); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
