package load_test

import (
	"testing"

	"loadflow/internal/core/domain/model/load"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *load.Catalog {
	t.Helper()
	catalog, err := load.NewCatalog()
	require.NoError(t, err)
	return catalog
}

func TestNewCatalog(t *testing.T) {
	catalog := newCatalog(t)

	t.Run("should hold a validated definition set", func(t *testing.T) {
		assert.Greater(t, catalog.Len(), 40)
		for _, def := range catalog.Definitions() {
			assert.NoError(t, def.Validate())
		}
	})

	t.Run("should resolve every auto-transition rule", func(t *testing.T) {
		for _, s := range load.AutoTransitionStates() {
			m, ok := load.Metadata(s)
			require.True(t, ok)

			def, found := catalog.Definition(m.Auto.TransitionID)
			require.True(t, found, "auto-transition %s missing", m.Auto.TransitionID)
			assert.True(t, def.FromContains(s))
			assert.True(t, def.AllowsRole(load.RoleSystem))
			assert.Equal(t, load.TriggerTimeout, def.Trigger)
		}
	})
}

func TestCatalogDefinition(t *testing.T) {
	catalog := newCatalog(t)

	t.Run("should find a known transition", func(t *testing.T) {
		def, ok := catalog.Definition("post_load")

		require.True(t, ok)
		assert.Equal(t, []load.State{load.Draft}, def.From)
		assert.Equal(t, load.Posted, def.To)
		assert.True(t, def.AllowsRole(load.RoleShipper))
		assert.False(t, def.AllowsRole(load.RoleDriver))
	})

	t.Run("should report unknown ids", func(t *testing.T) {
		_, ok := catalog.Definition("teleport_load")
		assert.False(t, ok)
	})
}

func TestCatalogTransitionsFrom(t *testing.T) {
	catalog := newCatalog(t)

	t.Run("should return nothing from final states", func(t *testing.T) {
		assert.Empty(t, catalog.TransitionsFrom(load.Expired))
		assert.Empty(t, catalog.TransitionsFrom(load.Complete))
		assert.Empty(t, catalog.TransitionsFrom(load.Cancelled))
	})

	t.Run("should leave every non-final state an exit", func(t *testing.T) {
		for _, s := range load.AllStates() {
			if s.IsFinal() {
				continue
			}
			assert.NotEmpty(t, catalog.TransitionsFrom(s), "%s is a dead end", s)
		}
	})

	t.Run("should order by ascending priority", func(t *testing.T) {
		for _, s := range load.AllStates() {
			defs := catalog.TransitionsFrom(s)
			for i := 1; i < len(defs); i++ {
				assert.LessOrEqual(t, defs[i-1].Priority, defs[i].Priority,
					"transitions from %s out of order", s)
			}
		}
	})

	t.Run("should list the urgent move first from delivered", func(t *testing.T) {
		defs := catalog.TransitionsFrom(load.Delivered)

		require.NotEmpty(t, defs)
		assert.Equal(t, "issue_invoice", defs[0].ID)
	})
}

func TestCatalogTransitionsFromForRole(t *testing.T) {
	catalog := newCatalog(t)

	t.Run("should filter by actor role", func(t *testing.T) {
		forCatalyst := catalog.TransitionsFromForRole(load.Awarded, load.RoleCatalyst)

		ids := make([]string, 0, len(forCatalyst))
		for _, def := range forCatalyst {
			ids = append(ids, def.ID)
		}
		assert.Equal(t, []string{"accept_award", "decline_award"}, ids)
	})

	t.Run("should hide system transitions from users", func(t *testing.T) {
		for _, def := range catalog.TransitionsFromForRole(load.Posted, load.RoleShipper) {
			assert.NotEqual(t, "expire_posting", def.ID)
		}
	})

	t.Run("should return nothing for uninvolved roles", func(t *testing.T) {
		assert.Empty(t, catalog.TransitionsFromForRole(load.Draft, load.RoleEscort))
	})
}

func TestCatalogIsValidTransition(t *testing.T) {
	catalog := newCatalog(t)

	t.Run("should accept catalog edges", func(t *testing.T) {
		assert.True(t, catalog.IsValidTransition(load.Draft, load.Posted))
		assert.True(t, catalog.IsValidTransition(load.InTransit, load.AtDelivery))
		assert.True(t, catalog.IsValidTransition(load.SealBreach, load.InTransit))
	})

	t.Run("should reject undeclared edges", func(t *testing.T) {
		assert.False(t, catalog.IsValidTransition(load.Draft, load.InTransit))
		assert.False(t, catalog.IsValidTransition(load.Complete, load.Draft))
		assert.False(t, catalog.IsValidTransition(load.Paid, load.Draft))
	})

	t.Run("should only accept the declared self-loop", func(t *testing.T) {
		selfLoops := 0
		for _, def := range catalog.Definitions() {
			if def.FromContains(def.To) {
				selfLoops++
				assert.Equal(t, "reassign_driver", def.ID)
			}
		}
		assert.Equal(t, 1, selfLoops)
		assert.True(t, catalog.IsValidTransition(load.Assigned, load.Assigned))
		assert.False(t, catalog.IsValidTransition(load.Draft, load.Draft))
	})
}

func TestTransitionDefinitionValidate(t *testing.T) {
	valid := load.TransitionDefinition{
		ID:      "x",
		From:    []load.State{load.Draft},
		To:      load.Posted,
		Trigger: load.TriggerUserAction,
		Allowed: load.Roles(load.RoleShipper),
	}

	t.Run("should accept a complete definition", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("should reject missing pieces", func(t *testing.T) {
		noID := valid
		noID.ID = ""
		assert.Error(t, noID.Validate())

		noFrom := valid
		noFrom.From = nil
		assert.Error(t, noFrom.Validate())

		badTo := valid
		badTo.To = load.StateUnknown
		assert.Error(t, badTo.Validate())

		noTrigger := valid
		noTrigger.Trigger = load.TriggerUnknown
		assert.Error(t, noTrigger.Validate())

		noRoles := valid
		noRoles.Allowed = load.Roles()
		assert.Error(t, noRoles.Validate())
	})
}
