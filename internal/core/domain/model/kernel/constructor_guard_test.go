package kernel_test

import (
	"errors"
	"testing"

	"loadflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard(t *testing.T) {
	errNotConstructed := errors.New("thing must be created via NewThing")

	t.Run("constructed guard passes validation", func(t *testing.T) {
		g := kernel.NewConstructorGuard()
		assert.NoError(t, g.Validate(errNotConstructed))
	})

	t.Run("zero-value guard returns the provided error", func(t *testing.T) {
		var g kernel.ConstructorGuard
		require.ErrorIs(t, g.Validate(errNotConstructed), errNotConstructed)
	})

	t.Run("zero-value guard with nil error falls back to default", func(t *testing.T) {
		var g kernel.ConstructorGuard
		require.ErrorIs(t, g.Validate(nil), kernel.ErrDefaultConstructorGuard)
	})
}
