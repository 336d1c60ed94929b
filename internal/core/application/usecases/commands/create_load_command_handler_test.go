package commands_test

import (
	"context"
	"testing"

	"loadflow/internal/core/application/usecases/commands"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLoadCommandHandler_Handle(t *testing.T) {
	t.Run("should persist a draft load", func(t *testing.T) {
		uow := newFakeUoW()
		handler := commands.NewCreateLoadCommandHandler(fakeLoadUoWFactory{uow: uow})

		loadID := kernel.NewUUID()
		cmd, err := commands.NewCreateLoadCommand(loadID, kernel.NewUUID())
		require.NoError(t, err)

		require.NoError(t, handler.Handle(context.Background(), cmd))

		stored, err := uow.loads.Get(context.Background(), loadID)
		require.NoError(t, err)
		assert.Equal(t, load.Draft, stored.State())
		assert.Equal(t, int64(0), stored.Version())
		assert.Equal(t, 1, uow.commits)
	})

	t.Run("should reject an unconstructed command", func(t *testing.T) {
		uow := newFakeUoW()
		handler := commands.NewCreateLoadCommandHandler(fakeLoadUoWFactory{uow: uow})

		var cmd commands.CreateLoadCommand
		err := handler.Handle(context.Background(), cmd)

		assert.ErrorIs(t, err, commands.ErrCreateLoadCommandIsNotConstructed)
		assert.Equal(t, 0, uow.begins)
	})
}
