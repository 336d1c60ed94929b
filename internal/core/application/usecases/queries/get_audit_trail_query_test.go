package queries_test

import (
	"testing"

	"loadflow/internal/core/application/usecases/queries"
	"loadflow/internal/core/domain/model/audit"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetAuditTrailQuery_Success(t *testing.T) {
	// Arrange
	entityID := kernel.NewUUID()

	// Act
	query, err := queries.NewGetAuditTrailQuery(audit.EntityConvoy, entityID)

	// Assert
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, audit.EntityConvoy, query.EntityKind())
	assert.True(t, query.EntityID().IsEqual(entityID))
}

func TestNewGetAuditTrailQuery_Errors(t *testing.T) {
	t.Run("should reject an unknown entity kind", func(t *testing.T) {
		_, err := queries.NewGetAuditTrailQuery("shipment", kernel.NewUUID())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject a zero entity id", func(t *testing.T) {
		var zero kernel.UUID

		_, err := queries.NewGetAuditTrailQuery(audit.EntityLoad, zero)

		require.Error(t, err)
	})
}

func TestGetAuditTrailQuery_Validate_ZeroValue(t *testing.T) {
	// Arrange
	var query queries.GetAuditTrailQuery // zero value, not constructed via constructor

	// Act
	err := query.Validate()

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, queries.ErrGetAuditTrailQueryIsNotConstructed)
}
