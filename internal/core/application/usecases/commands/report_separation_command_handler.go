package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loadflow/internal/core/domain/model/audit"
	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/domain/services"
	"loadflow/internal/core/ports"
)

// ReportSeparationCommandHandler applies one separation report to a convoy.
// Breaches alert the escorts; a sustained streak forces the convoy into a
// hold, writes an audit record and escalates to the emergency ops channel.
type ReportSeparationCommandHandler struct {
	uowFactory  ConvoyUoWFactory
	monitor     services.SeparationMonitor
	broadcaster ports.Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

// NewReportSeparationCommandHandler creates a handler for separation reports.
func NewReportSeparationCommandHandler(
	uowFactory ConvoyUoWFactory,
	monitor services.SeparationMonitor,
	broadcaster ports.Broadcaster,
	logger *slog.Logger,
) ReportSeparationCommandHandler {
	return ReportSeparationCommandHandler{
		uowFactory:  uowFactory,
		monitor:     monitor,
		broadcaster: broadcaster,
		logger:      logger.With("component", "separation_monitor"),
		now:         time.Now,
	}
}

// Handle records the report, persists the convoy and fans out any alerts.
func (h ReportSeparationCommandHandler) Handle(ctx context.Context, command ReportSeparationCommand) error {
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

	aggregate, err := uow.ConvoyRepository().Get(ctx, command.ConvoyID())
	if err != nil {
		return err
	}

	now := h.now()
	assessment, err := h.monitor.Observe(aggregate, command.LeadM(), command.RearM(), now)
	if err != nil {
		return err
	}

	if assessment.Escalated {
		record, err := audit.NewTransitionRecord(audit.EntityConvoy, aggregate.ID(), now)
		if err != nil {
			return err
		}
		record.FromState = heldFromName(aggregate)
		record.ToState = aggregate.Status().String()
		record.TransitionID = "separation_hold"
		record.TriggerType = load.TriggerSystem.String()
		record.ActorRole = load.RoleSystem.String()
		record.Success = true
		record.Metadata = map[string]string{
			"lead_m":       fmt.Sprintf("%.0f", command.LeadM()),
			"rear_m":       fmt.Sprintf("%.0f", command.RearM()),
			"alert_streak": fmt.Sprintf("%d", assessment.AlertStreak),
		}
		if err := uow.AuditRepository().Append(ctx, record); err != nil {
			return err
		}
	}

	if err := uow.ConvoyRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.broadcast(aggregate, command, assessment)
	return nil
}

func (h ReportSeparationCommandHandler) broadcast(
	aggregate *convoy.Convoy, command ReportSeparationCommand, assessment services.SeparationAssessment,
) {
	if !assessment.Breached {
		return
	}

	payload := map[string]string{
		"convoy_id":    aggregate.ID().String(),
		"load_id":      aggregate.LoadID().String(),
		"lead_m":       fmt.Sprintf("%.0f", command.LeadM()),
		"rear_m":       fmt.Sprintf("%.0f", command.RearM()),
		"alert_streak": fmt.Sprintf("%d", assessment.AlertStreak),
	}
	for _, key := range assessment.NotificationKeys {
		event := ports.BroadcastEvent{Key: key, Payload: payload}
		h.broadcaster.Publish(ports.ConvoyChannel(aggregate.ID()), event)
		h.broadcaster.Publish(ports.LoadChannel(aggregate.LoadID()), event)
		h.broadcaster.Publish(ports.UserChannel(aggregate.LeadEscortID()), event)
		if rear := aggregate.RearEscortID(); rear != nil {
			h.broadcaster.Publish(ports.UserChannel(*rear), event)
		}
	}
	if assessment.Escalated {
		h.broadcaster.Publish(ports.EmergencyOpsChannel, ports.BroadcastEvent{
			Key: convoy.NotifyEscortHold, Payload: payload,
		})
		h.logger.Warn("separation hold forced",
			"convoy_id", aggregate.ID().String(),
			"alert_streak", assessment.AlertStreak)
	}
}

func heldFromName(c *convoy.Convoy) string {
	if c.HeldFrom() != nil {
		return c.HeldFrom().String()
	}
	return c.Status().String()
}
