package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"loadflow/internal/core/domain/model/audit"
	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/domain/services"
	"loadflow/internal/core/ports"
	"loadflow/internal/pkg/errs"
)

// SyncConvoysCommandHandler performs the escort coordination sweep. Each
// convoy is synchronized against its load in its own transaction; a stale
// version means another writer moved the convoy mid-sweep and the next sweep
// re-evaluates it.
type SyncConvoysCommandHandler struct {
	uowFactory   UoWFactory
	synchronizer services.ConvoySynchronizer
	broadcaster  ports.Broadcaster
	effects      ports.EffectDispatcher
	logger       *slog.Logger
	now          func() time.Time
}

// NewSyncConvoysCommandHandler creates a handler for the convoy sweep.
func NewSyncConvoysCommandHandler(
	uowFactory UoWFactory,
	synchronizer services.ConvoySynchronizer,
	broadcaster ports.Broadcaster,
	effects ports.EffectDispatcher,
	logger *slog.Logger,
) SyncConvoysCommandHandler {
	return SyncConvoysCommandHandler{
		uowFactory:   uowFactory,
		synchronizer: synchronizer,
		broadcaster:  broadcaster,
		effects:      effects,
		logger:       logger.With("component", "convoy_sync_sweep"),
		now:          time.Now,
	}
}

// Handle runs one sweep and returns the number of convoys moved.
func (h SyncConvoysCommandHandler) Handle(ctx context.Context, command SyncConvoysCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	active, err := h.readActive(ctx)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, c := range active {
		decision, err := h.syncOne(ctx, c.ID())
		if err != nil {
			if errors.Is(err, errs.ErrVersionIsInvalid) {
				continue
			}
			h.logger.Error("convoy sync failed", "convoy_id", c.ID().String(), "error", err)
			continue
		}
		if decision.Action != services.SyncNoAction {
			moved++
		}
	}
	if moved > 0 {
		h.logger.Info("sweep complete", "active", len(active), "moved", moved)
	}
	return moved, nil
}

func (h SyncConvoysCommandHandler) readActive(ctx context.Context) ([]*convoy.Convoy, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.ConvoyRepository().GetAllActive(ctx)
}

// syncOne re-reads the convoy and its load inside a fresh transaction,
// applies the synchronization rules and commits the result with its audit
// record. Notifications and effects go out after the commit.
func (h SyncConvoysCommandHandler) syncOne(ctx context.Context, convoyID kernel.UUID) (services.SyncDecision, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.SyncDecision{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.ConvoyRepository().Get(ctx, convoyID)
	if err != nil {
		return services.SyncDecision{}, err
	}
	escorted, err := uow.LoadRepository().Get(ctx, aggregate.LoadID())
	if err != nil {
		return services.SyncDecision{}, err
	}

	before := aggregate.Status()
	now := h.now()
	decision, err := h.synchronizer.Synchronize(escorted.State(), aggregate, now)
	if err != nil {
		return services.SyncDecision{}, err
	}
	if decision.Action == services.SyncNoAction {
		if decision.Escalation != "" {
			h.escalate(aggregate, escorted, decision, now)
		}
		return decision, nil
	}

	record, err := audit.NewTransitionRecord(audit.EntityConvoy, aggregate.ID(), now)
	if err != nil {
		return services.SyncDecision{}, err
	}
	record.FromState = before.String()
	record.ToState = aggregate.Status().String()
	record.TransitionID = syncTransitionID(decision)
	record.TriggerType = load.TriggerSystem.String()
	record.ActorRole = load.RoleSystem.String()
	record.Success = true
	record.Metadata = map[string]string{"load_state": escorted.State().String()}

	if err := uow.AuditRepository().Append(ctx, record); err != nil {
		return services.SyncDecision{}, err
	}
	if err := uow.ConvoyRepository().Update(ctx, aggregate); err != nil {
		return services.SyncDecision{}, err
	}
	if err := uow.Commit(ctx); err != nil {
		return services.SyncDecision{}, err
	}

	h.fanOut(ctx, aggregate, escorted, decision, now)
	return decision, nil
}

func (h SyncConvoysCommandHandler) fanOut(
	ctx context.Context,
	aggregate *convoy.Convoy,
	escorted *load.Load,
	decision services.SyncDecision,
	now time.Time,
) {
	payload := map[string]string{
		"convoy_id":  aggregate.ID().String(),
		"load_id":    aggregate.LoadID().String(),
		"status":     aggregate.Status().String(),
		"load_state": escorted.State().String(),
	}
	participants := syncParticipants(aggregate, escorted)
	for _, key := range decision.NotificationKeys {
		event := ports.BroadcastEvent{Key: key, Payload: payload}
		h.broadcaster.Publish(ports.ConvoyChannel(aggregate.ID()), event)
		h.broadcaster.Publish(ports.LoadChannel(aggregate.LoadID()), event)
		for _, id := range participants {
			h.broadcaster.Publish(ports.UserChannel(id), event)
		}
	}

	for _, action := range decision.EffectKeys {
		err := h.effects.Dispatch(ctx, ports.EffectContext{
			EntityKind:   audit.EntityConvoy,
			EntityID:     aggregate.ID(),
			TransitionID: syncTransitionID(decision),
			ToState:      escorted.State(),
			Actor:        load.SystemActor(),
			Effect:       load.Effect{Kind: effectKindFor(action), Action: action},
			OccurredAt:   now,
			Recipients:   participants,
		})
		if err != nil {
			h.logger.Error("sync effect dispatch failed",
				"convoy_id", aggregate.ID().String(), "action", action, "error", err)
		}
	}
}

// escalate raises an overdue sync point to the emergency ops channel. The
// convoy has not moved, so there is nothing to persist.
func (h SyncConvoysCommandHandler) escalate(
	aggregate *convoy.Convoy, escorted *load.Load, decision services.SyncDecision, now time.Time,
) {
	event := ports.BroadcastEvent{
		Key: decision.Escalation,
		Payload: map[string]string{
			"convoy_id":  aggregate.ID().String(),
			"load_id":    aggregate.LoadID().String(),
			"status":     aggregate.Status().String(),
			"load_state": escorted.State().String(),
			"sync_point": decision.Point.ID,
			"waiting":    now.Sub(aggregate.StatusEnteredAt()).Truncate(time.Minute).String(),
		},
	}
	h.broadcaster.Publish(ports.EmergencyOpsChannel, event)
	h.broadcaster.Publish(ports.ConvoyChannel(aggregate.ID()), event)

	h.logger.Warn("sync point overdue",
		"convoy_id", aggregate.ID().String(),
		"sync_point", decision.Point.ID,
		"status", aggregate.Status().String())
}

// syncParticipants lists who a sync notification must reach individually:
// the lead escort, the rear escort when the convoy has one, and the load's
// owner.
func syncParticipants(aggregate *convoy.Convoy, escorted *load.Load) []kernel.UUID {
	ids := []kernel.UUID{aggregate.LeadEscortID()}
	if rear := aggregate.RearEscortID(); rear != nil {
		ids = append(ids, *rear)
	}
	return append(ids, escorted.ShipperID())
}

func syncTransitionID(decision services.SyncDecision) string {
	switch decision.Action {
	case services.SyncHeld:
		return "cargo_exception_hold"
	case services.SyncResumed:
		return "exception_cleared_resume"
	case services.SyncAdvanced:
		return decision.Point.ID
	}
	return ""
}

func effectKindFor(action string) load.EffectKind {
	switch action {
	case load.ActionAlertEmergencyOps, load.ActionNotifyCritical, load.ActionNotifyStatusChange:
		return load.EffectKindNotification
	case load.ActionPublishLoadEvent:
		return load.EffectKindIntegration
	case load.ActionBroadcastLoadChannel:
		return load.EffectKindWebsocket
	}
	return load.EffectKindIntegration
}
