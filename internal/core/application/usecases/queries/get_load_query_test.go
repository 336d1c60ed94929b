package queries_test

import (
	"testing"

	"loadflow/internal/core/application/usecases/queries"
	"loadflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetLoadQuery_Success(t *testing.T) {
	// Arrange
	loadID := kernel.NewUUID()

	// Act
	query, err := queries.NewGetLoadQuery(loadID)

	// Assert
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, query.LoadID().IsEqual(loadID))
}

func TestNewGetLoadQuery_ZeroID_ReturnsError(t *testing.T) {
	// Arrange
	var zero kernel.UUID

	// Act
	_, err := queries.NewGetLoadQuery(zero)

	// Assert
	require.Error(t, err)
}

func TestGetLoadQuery_Validate_ZeroValue(t *testing.T) {
	// Arrange
	var query queries.GetLoadQuery // zero value, not constructed via constructor

	// Act
	err := query.Validate()

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, queries.ErrGetLoadQueryIsNotConstructed)
}
