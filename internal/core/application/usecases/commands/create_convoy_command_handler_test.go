package commands_test

import (
	"context"
	"testing"
	"time"

	"loadflow/internal/core/application/usecases/commands"
	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConvoyCommandHandler_Handle(t *testing.T) {
	t.Run("should persist a requested convoy for an existing load", func(t *testing.T) {
		uow := newFakeUoW()
		handler := commands.NewCreateConvoyCommandHandler(fakeUoWFactory{uow: uow})
		escorted := seedLoadAt(t, uow, load.Confirmed, time.Now().Add(-time.Hour))

		convoyID := kernel.NewUUID()
		cmd, err := commands.NewCreateConvoyCommand(
			convoyID, escorted.ID(), kernel.NewUUID(), nil)
		require.NoError(t, err)

		require.NoError(t, handler.Handle(context.Background(), cmd))

		stored, err := uow.convoys.Get(context.Background(), convoyID)
		require.NoError(t, err)
		assert.Equal(t, convoy.EscortRequested, stored.Status())
		assert.True(t, stored.LoadID().IsEqual(escorted.ID()))
		assert.Equal(t, 1, uow.commits)
	})

	t.Run("should refuse a convoy for an unknown load", func(t *testing.T) {
		uow := newFakeUoW()
		handler := commands.NewCreateConvoyCommandHandler(fakeUoWFactory{uow: uow})

		cmd, err := commands.NewCreateConvoyCommand(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil)
		require.NoError(t, err)

		err = handler.Handle(context.Background(), cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Empty(t, uow.convoys.convoys)
		assert.Equal(t, 0, uow.commits)
	})

	t.Run("should reject an unconstructed command", func(t *testing.T) {
		uow := newFakeUoW()
		handler := commands.NewCreateConvoyCommandHandler(fakeUoWFactory{uow: uow})

		var cmd commands.CreateConvoyCommand
		err := handler.Handle(context.Background(), cmd)

		assert.ErrorIs(t, err, commands.ErrCreateConvoyCommandIsNotConstructed)
	})
}
