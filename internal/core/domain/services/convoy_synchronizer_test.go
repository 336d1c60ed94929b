package services_test

import (
	"testing"
	"time"

	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convoyIn(t *testing.T, status convoy.Status) *convoy.Convoy {
	t.Helper()
	c, err := convoy.RestoreConvoy(
		kernel.NewUUID(), kernel.NewUUID(), status, nil,
		kernel.NewUUID(), nil, 0, 0, 0,
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), 1)
	require.NoError(t, err)
	return c
}

func TestConvoySynchronizerSynchronize(t *testing.T) {
	synchronizer := services.NewConvoySynchronizer()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("should leave terminal convoys untouched", func(t *testing.T) {
		c := convoyIn(t, convoy.EscortComplete)

		decision, err := synchronizer.Synchronize(load.SealBreach, c, now)

		require.NoError(t, err)
		assert.Equal(t, services.SyncNoAction, decision.Action)
		assert.Equal(t, convoy.EscortComplete, c.Status())
	})

	t.Run("should force a hold on cargo exceptions", func(t *testing.T) {
		c := convoyIn(t, convoy.Escorting)

		decision, err := synchronizer.Synchronize(load.TemperatureExcursion, c, now)

		require.NoError(t, err)
		assert.Equal(t, services.SyncHeld, decision.Action)
		assert.Equal(t, convoy.EscortHold, c.Status())
		require.NotNil(t, c.HeldFrom())
		assert.Equal(t, convoy.Escorting, *c.HeldFrom())
		assert.Equal(t, []string{convoy.NotifyEscortHold}, decision.NotificationKeys)
		assert.Equal(t, []string{load.ActionAlertEmergencyOps}, decision.EffectKeys)
	})

	t.Run("should hold idempotently while the exception persists", func(t *testing.T) {
		c := convoyIn(t, convoy.Escorting)

		first, err := synchronizer.Synchronize(load.SealBreach, c, now)
		require.NoError(t, err)
		require.Equal(t, services.SyncHeld, first.Action)

		second, err := synchronizer.Synchronize(load.SealBreach, c, now.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, services.SyncNoAction, second.Action)
		assert.Equal(t, convoy.EscortHold, c.Status())
	})

	t.Run("should override even ahead of a matching sync point", func(t *testing.T) {
		// Load in exception, convoy waiting at staging: the override wins.
		c := convoyIn(t, convoy.AtStaging)

		decision, err := synchronizer.Synchronize(load.WeightViolation, c, now)

		require.NoError(t, err)
		assert.Equal(t, services.SyncHeld, decision.Action)
		assert.Equal(t, convoy.EscortHold, c.Status())
	})

	t.Run("should resume once the exception clears", func(t *testing.T) {
		c := convoyIn(t, convoy.Escorting)
		_, err := synchronizer.Synchronize(load.Contamination, c, now)
		require.NoError(t, err)

		decision, err := synchronizer.Synchronize(load.InTransit, c, now.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, services.SyncResumed, decision.Action)
		assert.Equal(t, convoy.PositionRecovery, c.Status())
		assert.Equal(t, []string{convoy.NotifyConvoyRolling}, decision.NotificationKeys)
	})

	t.Run("should advance at a matching sync point", func(t *testing.T) {
		c := convoyIn(t, convoy.ConvoyFormed)

		decision, err := synchronizer.Synchronize(load.InTransit, c, now)

		require.NoError(t, err)
		assert.Equal(t, services.SyncAdvanced, decision.Action)
		assert.Equal(t, "convoy_rolling", decision.Point.ID)
		assert.Equal(t, convoy.Escorting, c.Status())
		assert.Equal(t, []string{convoy.NotifyConvoyRolling}, decision.NotificationKeys)
		assert.Equal(t, []string{load.ActionPublishLoadEvent}, decision.EffectKeys)
	})

	t.Run("should do nothing between sync points", func(t *testing.T) {
		c := convoyIn(t, convoy.Escorting)

		decision, err := synchronizer.Synchronize(load.InTransit, c, now)

		require.NoError(t, err)
		assert.Equal(t, services.SyncNoAction, decision.Action)
		assert.Equal(t, convoy.Escorting, c.Status())
		assert.Empty(t, decision.Escalation)
	})

	t.Run("should escalate a convoy overstaying departure alignment", func(t *testing.T) {
		// Confirmed for 5 hours against the point's 4-hour window, with the
		// load still short of the departure states.
		c := convoyIn(t, convoy.EscortConfirmed)

		decision, err := synchronizer.Synchronize(load.Posted, c, now.Add(2*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, services.SyncNoAction, decision.Action)
		assert.Equal(t, load.ActionAlertEmergencyOps, decision.Escalation)
		assert.Equal(t, "departure_aligned", decision.Point.ID)
		assert.Equal(t, convoy.EscortConfirmed, c.Status())
	})

	t.Run("should not escalate inside the alignment window", func(t *testing.T) {
		c := convoyIn(t, convoy.Briefing)

		decision, err := synchronizer.Synchronize(load.Posted, c, now)

		require.NoError(t, err)
		assert.Equal(t, services.SyncNoAction, decision.Action)
		assert.Empty(t, decision.Escalation)
	})

	t.Run("should reject unconstructed convoys", func(t *testing.T) {
		var c convoy.Convoy

		_, err := synchronizer.Synchronize(load.InTransit, &c, now)

		assert.ErrorIs(t, err, convoy.ErrConvoyIsNotConstructed)
	})
}
