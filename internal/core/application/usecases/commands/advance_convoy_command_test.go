package commands_test

import (
	"testing"

	"loadflow/internal/core/application/usecases/commands"
	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdvanceConvoyCommand_Success(t *testing.T) {
	// Arrange
	convoyID := kernel.NewUUID()
	actor := load.Actor{ID: kernel.NewUUID(), Role: load.RoleEscort}

	// Act
	cmd, err := commands.NewAdvanceConvoyCommand(convoyID, convoy.EscortQuoted, actor)

	// Assert
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.True(t, cmd.ConvoyID().IsEqual(convoyID))
	assert.Equal(t, convoy.EscortQuoted, cmd.Target())
	assert.Equal(t, actor, cmd.Actor())
}

func TestNewAdvanceConvoyCommand_Errors(t *testing.T) {
	validActor := load.Actor{ID: kernel.NewUUID(), Role: load.RoleEscort}

	t.Run("should reject a zero convoy id", func(t *testing.T) {
		var zero kernel.UUID

		_, err := commands.NewAdvanceConvoyCommand(zero, convoy.EscortQuoted, validActor)

		require.Error(t, err)
	})

	t.Run("should reject an invalid target status", func(t *testing.T) {
		_, err := commands.NewAdvanceConvoyCommand(
			kernel.NewUUID(), convoy.StatusUnknown, validActor)

		require.Error(t, err)
	})

	t.Run("should reject an invalid actor", func(t *testing.T) {
		_, err := commands.NewAdvanceConvoyCommand(
			kernel.NewUUID(), convoy.EscortQuoted, load.Actor{})

		require.Error(t, err)
	})
}

func TestAdvanceConvoyCommand_Validate_ZeroValue(t *testing.T) {
	// Arrange
	var cmd commands.AdvanceConvoyCommand // zero value, not constructed via constructor

	// Act
	err := cmd.Validate()

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrAdvanceConvoyCommandIsNotConstructed)
}
