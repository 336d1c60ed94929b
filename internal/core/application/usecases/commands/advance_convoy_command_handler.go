package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loadflow/internal/core/domain/model/audit"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/ports"
)

// escortRoles may move convoys by hand; everything else goes through the
// sync sweep as the system actor.
var escortRoles = load.Roles(load.RoleEscort, load.RoleAdmin, load.RoleSystem)

// AdvanceConvoyCommandHandler applies an explicit escort status move with
// the same audit and broadcast treatment as engine transitions.
type AdvanceConvoyCommandHandler struct {
	uowFactory  ConvoyUoWFactory
	broadcaster ports.Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

// NewAdvanceConvoyCommandHandler creates a handler for escort advancement.
func NewAdvanceConvoyCommandHandler(
	uowFactory ConvoyUoWFactory, broadcaster ports.Broadcaster, logger *slog.Logger,
) AdvanceConvoyCommandHandler {
	return AdvanceConvoyCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
		logger:      logger.With("component", "convoy_advance"),
		now:         time.Now,
	}
}

// Handle moves the convoy, appends the audit record and notifies the convoy
// channel.
func (h AdvanceConvoyCommandHandler) Handle(ctx context.Context, command AdvanceConvoyCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}
	if !escortRoles.Contains(command.Actor().Role) {
		return fmt.Errorf("%w: %s may not move convoys", ErrUnauthorizedActor, command.Actor().Role)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.ConvoyRepository().Get(ctx, command.ConvoyID())
	if err != nil {
		return err
	}

	before := aggregate.Status()
	now := h.now()
	if err := aggregate.AdvanceTo(command.Target(), now); err != nil {
		return err
	}

	record, err := audit.NewTransitionRecord(audit.EntityConvoy, aggregate.ID(), now)
	if err != nil {
		return err
	}
	record.FromState = before.String()
	record.ToState = aggregate.Status().String()
	record.TransitionID = "advance_convoy"
	record.TriggerType = load.TriggerUserAction.String()
	record.ActorID = command.Actor().ID.String()
	record.ActorRole = command.Actor().Role.String()
	record.Success = true

	if err := uow.AuditRepository().Append(ctx, record); err != nil {
		return err
	}
	if err := uow.ConvoyRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.broadcaster.Publish(ports.ConvoyChannel(aggregate.ID()), ports.BroadcastEvent{
		Key: "escort_status_changed",
		Payload: map[string]string{
			"convoy_id": aggregate.ID().String(),
			"load_id":   aggregate.LoadID().String(),
			"from":      before.String(),
			"to":        aggregate.Status().String(),
		},
	})
	return nil
}
