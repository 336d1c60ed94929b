package commands_test

import (
	"testing"

	"loadflow/internal/core/application/usecases/commands"
	"loadflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateConvoyCommand_Success(t *testing.T) {
	// Arrange
	convoyID := kernel.NewUUID()
	loadID := kernel.NewUUID()
	leadID := kernel.NewUUID()
	rearID := kernel.NewUUID()

	// Act
	cmd, err := commands.NewCreateConvoyCommand(convoyID, loadID, leadID, &rearID)

	// Assert
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.True(t, cmd.ConvoyID().IsEqual(convoyID))
	assert.True(t, cmd.LoadID().IsEqual(loadID))
	assert.True(t, cmd.LeadEscortID().IsEqual(leadID))
	require.NotNil(t, cmd.RearEscortID())
	assert.True(t, cmd.RearEscortID().IsEqual(rearID))
}

func TestNewCreateConvoyCommand_SingleVehicle(t *testing.T) {
	// Act
	cmd, err := commands.NewCreateConvoyCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, cmd.RearEscortID())
}

func TestNewCreateConvoyCommand_Errors(t *testing.T) {
	var zero kernel.UUID

	t.Run("should reject a zero convoy id", func(t *testing.T) {
		_, err := commands.NewCreateConvoyCommand(zero, kernel.NewUUID(), kernel.NewUUID(), nil)
		require.Error(t, err)
	})

	t.Run("should reject a zero lead escort id", func(t *testing.T) {
		_, err := commands.NewCreateConvoyCommand(kernel.NewUUID(), kernel.NewUUID(), zero, nil)
		require.Error(t, err)
	})

	t.Run("should reject a zero rear escort id", func(t *testing.T) {
		_, err := commands.NewCreateConvoyCommand(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), &zero)
		require.Error(t, err)
	})
}

func TestCreateConvoyCommand_Validate_ZeroValue(t *testing.T) {
	// Arrange
	var cmd commands.CreateConvoyCommand // zero value, not constructed via constructor

	// Act
	err := cmd.Validate()

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCreateConvoyCommandIsNotConstructed)
}
