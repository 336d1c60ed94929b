package commands_test

import (
	"context"
	"testing"
	"time"

	"loadflow/internal/core/application/usecases/commands"
	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/domain/services"
	"loadflow/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	uow         *fakeUoW
	broadcaster *fakeBroadcaster
	dispatcher  *fakeEffectDispatcher
	handler     commands.SyncConvoysCommandHandler
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	uow := newFakeUoW()
	broadcaster := &fakeBroadcaster{}
	dispatcher := &fakeEffectDispatcher{}
	handler := commands.NewSyncConvoysCommandHandler(
		fakeUoWFactory{uow: uow}, services.NewConvoySynchronizer(),
		broadcaster, dispatcher, discardLogger())
	return &syncFixture{uow: uow, broadcaster: broadcaster, dispatcher: dispatcher, handler: handler}
}

func (f *syncFixture) seedConvoy(
	t *testing.T, loadID kernel.UUID, status convoy.Status, heldFrom *convoy.Status,
) *convoy.Convoy {
	t.Helper()
	return f.seedConvoyWith(t, loadID, status, heldFrom, nil, time.Now().Add(-time.Hour))
}

func (f *syncFixture) seedConvoyWith(
	t *testing.T, loadID kernel.UUID, status convoy.Status, heldFrom *convoy.Status,
	rearEscortID *kernel.UUID, enteredAt time.Time,
) *convoy.Convoy {
	t.Helper()
	aggregate, err := convoy.RestoreConvoy(
		kernel.NewUUID(), loadID, status, heldFrom,
		kernel.NewUUID(), rearEscortID, 0, 0, 0,
		enteredAt, 1)
	require.NoError(t, err)
	f.uow.convoys.convoys[aggregate.ID().String()] = aggregate
	return aggregate
}

func TestSyncConvoysCommandHandler_Handle(t *testing.T) {
	t.Run("should roll the convoy when the load is in transit", func(t *testing.T) {
		fixture := newSyncFixture(t)
		escorted := seedLoadAt(t, fixture.uow, load.InTransit, time.Now().Add(-time.Hour))
		aggregate := fixture.seedConvoy(t, escorted.ID(), convoy.ConvoyFormed, nil)

		moved, err := fixture.handler.Handle(context.Background(), commands.NewSyncConvoysCommand())

		require.NoError(t, err)
		assert.Equal(t, 1, moved)
		assert.Equal(t, convoy.Escorting, aggregate.Status())

		require.Len(t, fixture.uow.audits.records, 1)
		record := fixture.uow.audits.records[0]
		assert.True(t, record.Success)
		assert.Equal(t, "convoy_rolling", record.TransitionID)
		assert.Equal(t, "CONVOY_FORMED", record.FromState)
		assert.Equal(t, "ESCORTING", record.ToState)
		assert.Equal(t, "IN_TRANSIT", record.Metadata["load_state"])

		// One notification key fans out to the convoy and load channels plus
		// each participant's own channel.
		require.Len(t, fixture.broadcaster.calls, 4)
		assert.Equal(t, ports.ConvoyChannel(aggregate.ID()), fixture.broadcaster.calls[0].channel)
		assert.Equal(t, convoy.NotifyConvoyRolling, fixture.broadcaster.calls[0].event.Key)
		assert.Equal(t, ports.LoadChannel(escorted.ID()), fixture.broadcaster.calls[1].channel)
		assert.Equal(t, ports.UserChannel(aggregate.LeadEscortID()), fixture.broadcaster.calls[2].channel)
		assert.Equal(t, ports.UserChannel(escorted.ShipperID()), fixture.broadcaster.calls[3].channel)

		require.Len(t, fixture.dispatcher.contexts, 1)
		assert.Equal(t, load.ActionPublishLoadEvent, fixture.dispatcher.contexts[0].Effect.Action)
	})

	t.Run("should hold the convoy on a cargo exception", func(t *testing.T) {
		fixture := newSyncFixture(t)
		escorted := seedLoadAt(t, fixture.uow, load.SealBreach, time.Now().Add(-time.Hour))
		aggregate := fixture.seedConvoy(t, escorted.ID(), convoy.Escorting, nil)

		moved, err := fixture.handler.Handle(context.Background(), commands.NewSyncConvoysCommand())

		require.NoError(t, err)
		assert.Equal(t, 1, moved)
		assert.Equal(t, convoy.EscortHold, aggregate.Status())
		require.NotNil(t, aggregate.HeldFrom())
		assert.Equal(t, convoy.Escorting, *aggregate.HeldFrom())

		require.Len(t, fixture.uow.audits.records, 1)
		assert.Equal(t, "cargo_exception_hold", fixture.uow.audits.records[0].TransitionID)

		require.Len(t, fixture.dispatcher.contexts, 1)
		assert.Equal(t, load.ActionAlertEmergencyOps, fixture.dispatcher.contexts[0].Effect.Action)
	})

	t.Run("should resume once the exception clears", func(t *testing.T) {
		fixture := newSyncFixture(t)
		escorted := seedLoadAt(t, fixture.uow, load.InTransit, time.Now().Add(-time.Hour))
		heldFrom := convoy.Escorting
		aggregate := fixture.seedConvoy(t, escorted.ID(), convoy.EscortHold, &heldFrom)

		moved, err := fixture.handler.Handle(context.Background(), commands.NewSyncConvoysCommand())

		require.NoError(t, err)
		assert.Equal(t, 1, moved)
		assert.Equal(t, convoy.PositionRecovery, aggregate.Status())

		require.Len(t, fixture.uow.audits.records, 1)
		assert.Equal(t, "exception_cleared_resume", fixture.uow.audits.records[0].TransitionID)
	})

	t.Run("should notify every participant when the convoy arrives", func(t *testing.T) {
		fixture := newSyncFixture(t)
		escorted := seedLoadAt(t, fixture.uow, load.AtDelivery, time.Now().Add(-time.Hour))
		rear := kernel.NewUUID()
		aggregate := fixture.seedConvoyWith(
			t, escorted.ID(), convoy.Escorting, nil, &rear, time.Now().Add(-time.Hour))

		moved, err := fixture.handler.Handle(context.Background(), commands.NewSyncConvoysCommand())

		require.NoError(t, err)
		assert.Equal(t, 1, moved)
		assert.Equal(t, convoy.DeliveryStandby, aggregate.Status())

		// Lead, rear and the load owner each get the arrival on their own
		// channel, alongside the convoy and load broadcasts.
		require.Len(t, fixture.broadcaster.calls, 5)
		channels := make([]string, 0, len(fixture.broadcaster.calls))
		for _, call := range fixture.broadcaster.calls {
			assert.Equal(t, convoy.NotifyConvoyArrived, call.event.Key)
			channels = append(channels, call.channel)
		}
		assert.Contains(t, channels, ports.ConvoyChannel(aggregate.ID()))
		assert.Contains(t, channels, ports.LoadChannel(escorted.ID()))
		assert.Contains(t, channels, ports.UserChannel(aggregate.LeadEscortID()))
		assert.Contains(t, channels, ports.UserChannel(rear))
		assert.Contains(t, channels, ports.UserChannel(escorted.ShipperID()))

		require.Len(t, fixture.dispatcher.contexts, 1)
		assert.ElementsMatch(t,
			[]kernel.UUID{aggregate.LeadEscortID(), rear, escorted.ShipperID()},
			fixture.dispatcher.contexts[0].Recipients)
	})

	t.Run("should escalate a convoy stuck before departure", func(t *testing.T) {
		fixture := newSyncFixture(t)
		escorted := seedLoadAt(t, fixture.uow, load.Posted, time.Now().Add(-time.Hour))
		aggregate := fixture.seedConvoyWith(
			t, escorted.ID(), convoy.EscortConfirmed, nil, nil, time.Now().Add(-5*time.Hour))

		moved, err := fixture.handler.Handle(context.Background(), commands.NewSyncConvoysCommand())

		require.NoError(t, err)
		assert.Equal(t, 0, moved)
		assert.Equal(t, convoy.EscortConfirmed, aggregate.Status())
		assert.Empty(t, fixture.uow.audits.records)

		require.Len(t, fixture.broadcaster.calls, 2)
		assert.Equal(t, ports.EmergencyOpsChannel, fixture.broadcaster.calls[0].channel)
		assert.Equal(t, load.ActionAlertEmergencyOps, fixture.broadcaster.calls[0].event.Key)
		assert.Equal(t, "departure_aligned", fixture.broadcaster.calls[0].event.Payload["sync_point"])
		assert.Equal(t, ports.ConvoyChannel(aggregate.ID()), fixture.broadcaster.calls[1].channel)
	})

	t.Run("should stay quiet inside the departure window", func(t *testing.T) {
		fixture := newSyncFixture(t)
		escorted := seedLoadAt(t, fixture.uow, load.Posted, time.Now().Add(-time.Hour))
		aggregate := fixture.seedConvoy(t, escorted.ID(), convoy.EscortConfirmed, nil)

		moved, err := fixture.handler.Handle(context.Background(), commands.NewSyncConvoysCommand())

		require.NoError(t, err)
		assert.Equal(t, 0, moved)
		assert.Equal(t, convoy.EscortConfirmed, aggregate.Status())
		assert.Empty(t, fixture.broadcaster.calls)
	})

	t.Run("should do nothing between sync points", func(t *testing.T) {
		fixture := newSyncFixture(t)
		escorted := seedLoadAt(t, fixture.uow, load.InTransit, time.Now().Add(-time.Hour))
		aggregate := fixture.seedConvoy(t, escorted.ID(), convoy.Escorting, nil)

		moved, err := fixture.handler.Handle(context.Background(), commands.NewSyncConvoysCommand())

		require.NoError(t, err)
		assert.Equal(t, 0, moved)
		assert.Equal(t, convoy.Escorting, aggregate.Status())
		assert.Empty(t, fixture.uow.audits.records)
		assert.Empty(t, fixture.broadcaster.calls)
	})

	t.Run("should not touch terminal convoys", func(t *testing.T) {
		fixture := newSyncFixture(t)
		escorted := seedLoadAt(t, fixture.uow, load.SealBreach, time.Now().Add(-time.Hour))
		aggregate := fixture.seedConvoy(t, escorted.ID(), convoy.EscortComplete, nil)

		moved, err := fixture.handler.Handle(context.Background(), commands.NewSyncConvoysCommand())

		require.NoError(t, err)
		assert.Equal(t, 0, moved)
		assert.Equal(t, convoy.EscortComplete, aggregate.Status())
	})

	t.Run("should sweep every active convoy", func(t *testing.T) {
		fixture := newSyncFixture(t)
		rolling := seedLoadAt(t, fixture.uow, load.InTransit, time.Now().Add(-time.Hour))
		forming := seedLoadAt(t, fixture.uow, load.AtPickup, time.Now().Add(-time.Hour))
		first := fixture.seedConvoy(t, rolling.ID(), convoy.ConvoyFormed, nil)
		second := fixture.seedConvoy(t, forming.ID(), convoy.AtStaging, nil)

		moved, err := fixture.handler.Handle(context.Background(), commands.NewSyncConvoysCommand())

		require.NoError(t, err)
		assert.Equal(t, 2, moved)
		assert.Equal(t, convoy.Escorting, first.Status())
		assert.Equal(t, convoy.ConvoyFormed, second.Status())
	})

	t.Run("should reject an unconstructed command", func(t *testing.T) {
		fixture := newSyncFixture(t)

		var cmd commands.SyncConvoysCommand
		_, err := fixture.handler.Handle(context.Background(), cmd)

		assert.ErrorIs(t, err, commands.ErrSyncConvoysCommandIsNotConstructed)
	})
}
