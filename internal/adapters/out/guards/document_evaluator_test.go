package guards_test

import (
	"context"
	"testing"
	"time"

	"loadflow/internal/adapters/out/guards"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWithDocuments(t *testing.T, documents load.Documents) *load.Load {
	t.Helper()
	aggregate, err := load.RestoreLoad(
		kernel.NewUUID(), load.AtDelivery, time.Now(), 1, kernel.NewUUID(), nil, nil,
		documents, load.Timers{})
	require.NoError(t, err)
	return aggregate
}

func documentRequest(t *testing.T, check load.GuardCheck, documents load.Documents) ports.GuardRequest {
	t.Helper()
	return ports.GuardRequest{
		Guard: load.Guard{Check: check, Kind: load.GuardKindData, Message: "missing document"},
		Load:  loadWithDocuments(t, documents),
		Actor: load.Actor{ID: kernel.NewUUID(), Role: load.RoleDriver},
	}
}

func TestDocumentEvaluator_BOLSigned(t *testing.T) {
	evaluator := guards.NewDocumentEvaluator()

	t.Run("should pass when the bill of lading is signed", func(t *testing.T) {
		req := documentRequest(t, load.CheckBOLSigned, load.Documents{BOLSigned: true})

		result, err := evaluator.Evaluate(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, result.Passed)
	})

	t.Run("should fail with the guard's message when unsigned", func(t *testing.T) {
		req := documentRequest(t, load.CheckBOLSigned, load.Documents{})

		result, err := evaluator.Evaluate(context.Background(), req)

		require.NoError(t, err)
		assert.False(t, result.Passed)
		assert.Equal(t, "missing document", result.Message)
	})
}

func TestDocumentEvaluator_PODComplete(t *testing.T) {
	evaluator := guards.NewDocumentEvaluator()

	t.Run("should require both photo and signature", func(t *testing.T) {
		req := documentRequest(t, load.CheckPODComplete, load.Documents{PODPhoto: true})

		result, err := evaluator.Evaluate(context.Background(), req)

		require.NoError(t, err)
		assert.False(t, result.Passed)
	})

	t.Run("should pass when proof of delivery is complete", func(t *testing.T) {
		req := documentRequest(t, load.CheckPODComplete,
			load.Documents{PODPhoto: true, PODSignature: true})

		result, err := evaluator.Evaluate(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, result.Passed)
	})
}

func TestDocumentEvaluator_SealRecorded(t *testing.T) {
	evaluator := guards.NewDocumentEvaluator()
	req := documentRequest(t, load.CheckSealRecorded, load.Documents{SealRecorded: true})

	result, err := evaluator.Evaluate(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.Passed)
}

func TestDocumentEvaluator_RejectsForeignCheck(t *testing.T) {
	evaluator := guards.NewDocumentEvaluator()
	req := documentRequest(t, load.CheckHOSAvailable, load.Documents{})

	_, err := evaluator.Evaluate(context.Background(), req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "hos_available")
}
