package commands_test

import (
	"context"
	"testing"

	"loadflow/internal/core/application/usecases/commands"
	"loadflow/internal/core/domain/model/load"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walkStep is one leg of the happy path: who requests which transition and
// where the load must land.
type walkStep struct {
	transitionID string
	role         load.Role
	to           load.State
}

func happyPath() []walkStep {
	return []walkStep{
		{"post_load", load.RoleShipper, load.Posted},
		{"place_bid", load.RoleCatalyst, load.Bidding},
		{"award_load", load.RoleShipper, load.Awarded},
		{"accept_award", load.RoleCatalyst, load.Accepted},
		{"assign_driver", load.RoleCatalyst, load.Assigned},
		{"confirm_load", load.RoleDriver, load.Confirmed},
		{"depart_for_pickup", load.RoleDriver, load.EnRoutePickup},
		{"arrive_pickup", load.RoleDriver, load.AtPickup},
		{"pickup_checkin", load.RoleDriver, load.PickupCheckin},
		{"begin_loading", load.RoleDriver, load.Loading},
		{"finish_loading", load.RoleDriver, load.Loaded},
		{"begin_transit", load.RoleDriver, load.InTransit},
		{"arrive_delivery", load.RoleDriver, load.AtDelivery},
		{"delivery_checkin", load.RoleDriver, load.DeliveryCheckin},
		{"begin_unloading", load.RoleDriver, load.Unloading},
		{"finish_unloading", load.RoleDriver, load.Unloaded},
		{"request_pod", load.RoleDriver, load.PodPending},
		{"confirm_delivery", load.RoleDriver, load.Delivered},
		{"issue_invoice", load.RoleCatalyst, load.Invoiced},
		{"record_payment", load.RoleShipper, load.Paid},
		{"close_load", load.RoleShipper, load.Complete},
	}
}

func TestLifecycle_FullWalk_DraftToComplete(t *testing.T) {
	fixture := newEngineFixture(t, passingGuards(nil))
	aggregate := fixture.seedLoad(t, load.Draft, load.Documents{})

	steps := happyPath()
	expectedFrom := load.Draft
	for _, step := range steps {
		cmd, err := commands.NewAttemptTransitionCommand(
			aggregate.ID(), step.transitionID, actorWith(step.role), nil)
		require.NoError(t, err)

		result, err := fixture.handler.Handle(context.Background(), cmd)
		require.NoError(t, err, "step %s", step.transitionID)
		assert.Equal(t, expectedFrom, result.From, "step %s", step.transitionID)
		assert.Equal(t, step.to, result.To, "step %s", step.transitionID)
		assert.Equal(t, step.to, aggregate.State(), "step %s", step.transitionID)

		expectedFrom = step.to
	}

	assert.True(t, aggregate.State().IsFinal())
	assert.Empty(t, fixture.catalog.TransitionsFrom(load.Complete))

	// Every billable-waiting timer started on the walk was stopped again.
	assert.False(t, aggregate.Timers().Detention)
	assert.False(t, aggregate.Timers().Demurrage)
	assert.False(t, aggregate.Timers().Layover)

	// One success record per step, in walk order, with a contiguous
	// from/to chain.
	records := fixture.uow.audits.records
	require.Len(t, records, len(steps))
	previousTo := load.Draft.String()
	for i, step := range steps {
		record := records[i]
		assert.True(t, record.Success, "step %s", step.transitionID)
		assert.Equal(t, step.transitionID, record.TransitionID)
		assert.Equal(t, previousTo, record.FromState)
		assert.Equal(t, step.to.String(), record.ToState)
		previousTo = record.ToState
	}

	assert.Equal(t, len(steps), fixture.uow.commits)
}

func TestLifecycle_WalkEnforcesActorRoles(t *testing.T) {
	fixture := newEngineFixture(t, passingGuards(nil))
	aggregate := fixture.seedLoad(t, load.Draft, load.Documents{})

	for _, step := range happyPath() {
		// A driver cannot take shipper steps and vice versa.
		var wrong load.Role
		if step.role == load.RoleDriver {
			wrong = load.RoleShipper
		} else {
			wrong = load.RoleDriver
		}
		if def, ok := fixture.catalog.Definition(step.transitionID); ok && def.AllowsRole(wrong) {
			wrong = load.RoleEscort
		}

		wrongCmd, err := commands.NewAttemptTransitionCommand(
			aggregate.ID(), step.transitionID, actorWith(wrong), nil)
		require.NoError(t, err)

		_, err = fixture.handler.Handle(context.Background(), wrongCmd)
		require.Error(t, err, "step %s accepted role %s", step.transitionID, wrong)
		assert.ErrorIs(t, err, commands.ErrUnauthorizedActor)

		cmd, err := commands.NewAttemptTransitionCommand(
			aggregate.ID(), step.transitionID, actorWith(step.role), nil)
		require.NoError(t, err)

		_, err = fixture.handler.Handle(context.Background(), cmd)
		require.NoError(t, err, "step %s", step.transitionID)
	}

	assert.Equal(t, load.Complete, aggregate.State())
}
