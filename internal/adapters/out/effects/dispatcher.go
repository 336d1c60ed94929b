// Package effects routes declared transition effects to their delivery
// adapters: notifications and websocket fan-out to the broadcast registry,
// integration, financial and email effects onto the event bus where the
// downstream services consume them.
package effects

import (
	"context"
	"fmt"
	"log/slog"

	"loadflow/internal/adapters/out/kafka"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/ports"
)

// Dispatcher implements ports.EffectDispatcher by routing on the effect
// kind. Timer effects never reach it; the engine applies those inside the
// state commit.
type Dispatcher struct {
	broadcaster ports.Broadcaster
	publisher   kafka.Publisher
	logger      *slog.Logger
}

// NewDispatcher creates the composite effect dispatcher.
func NewDispatcher(broadcaster ports.Broadcaster, publisher kafka.Publisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		broadcaster: broadcaster,
		publisher:   publisher,
		logger:      logger.With("component", "effect_dispatcher"),
	}
}

// busEvent is the wire shape of effects delivered over the event bus.
type busEvent struct {
	Action       string            `json:"action"`
	EntityKind   string            `json:"entity_kind"`
	EntityID     string            `json:"entity_id"`
	TransitionID string            `json:"transition_id"`
	FromState    string            `json:"from_state,omitempty"`
	ToState      string            `json:"to_state"`
	ActorRole    string            `json:"actor_role"`
	OccurredAt   string            `json:"occurred_at"`
	Payload      map[string]string `json:"payload,omitempty"`
}

// Dispatch delivers one effect.
func (d *Dispatcher) Dispatch(ctx context.Context, ec ports.EffectContext) error {
	switch ec.Effect.Kind {
	case load.EffectKindNotification, load.EffectKindWebsocket:
		d.broadcast(ec)
		return nil
	case load.EffectKindEmail, load.EffectKindFinancial, load.EffectKindDocument, load.EffectKindIntegration:
		return d.publish(ctx, ec)
	case load.EffectKindDatabase:
		// Applied by the engine inside the commit.
		return nil
	}
	return fmt.Errorf("no delivery route for effect kind %d (action %s)", ec.Effect.Kind, ec.Effect.Action)
}

func (d *Dispatcher) broadcast(ec ports.EffectContext) {
	payload := map[string]string{
		"action":     ec.Effect.Action,
		"entity_id":  ec.EntityID.String(),
		"transition": ec.TransitionID,
		"from":       ec.FromState.String(),
		"to":         ec.ToState.String(),
	}
	for k, v := range ec.Effect.Payload {
		payload[k] = v
	}

	recipients := ec.Effect.Recipients.Members()
	if len(recipients) > 0 {
		names := ""
		for _, r := range recipients {
			if names != "" {
				names += ","
			}
			names += r.String()
		}
		payload["recipient_roles"] = names
	}

	event := ports.BroadcastEvent{Key: ec.Effect.Action, Payload: payload}
	d.broadcaster.Publish(ports.LoadChannel(ec.EntityID), event)
	for _, id := range ec.Recipients {
		d.broadcaster.Publish(ports.UserChannel(id), event)
	}

	if ec.Effect.Action == load.ActionAlertEmergencyOps || ec.Effect.Action == load.ActionNotifyCritical {
		d.broadcaster.Publish(ports.EmergencyOpsChannel, event)
	}
}

func (d *Dispatcher) publish(ctx context.Context, ec ports.EffectContext) error {
	event := busEvent{
		Action:       ec.Effect.Action,
		EntityKind:   string(ec.EntityKind),
		EntityID:     ec.EntityID.String(),
		TransitionID: ec.TransitionID,
		FromState:    ec.FromState.String(),
		ToState:      ec.ToState.String(),
		ActorRole:    ec.Actor.Role.String(),
		OccurredAt:   ec.OccurredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Payload:      ec.Effect.Payload,
	}

	// Keyed by entity so consumers see each load's effects in order.
	if err := d.publisher.Publish(ctx, ec.EntityID.String(), event); err != nil {
		return err
	}

	d.logger.Debug("effect published",
		"action", ec.Effect.Action,
		"entity_id", ec.EntityID.String(),
		"transition", ec.TransitionID)
	return nil
}
