package commands

import (
	"errors"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/pkg/errs"
)

var ErrAttemptTransitionCommandIsNotConstructed = errors.New(
	"AttemptTransitionCommand must be created via NewAttemptTransitionCommand constructor",
)

// AttemptTransitionCommand requests one transition on one load: which load,
// which catalog transition, who is asking and the raw trigger event payload
// (geofence coordinates, payment references, document ids).
type AttemptTransitionCommand struct {
	loadID       kernel.UUID
	transitionID string
	actor        load.Actor
	triggerEvent map[string]string

	guard kernel.ConstructorGuard
}

// NewAttemptTransitionCommand creates a validated transition request.
// triggerEvent may be nil when the trigger carries no payload.
func NewAttemptTransitionCommand(
	loadID kernel.UUID,
	transitionID string,
	actor load.Actor,
	triggerEvent map[string]string,
) (AttemptTransitionCommand, error) {
	if err := loadID.Validate(); err != nil {
		return AttemptTransitionCommand{}, err
	}
	if transitionID == "" {
		return AttemptTransitionCommand{}, errs.NewValueIsRequiredError("transitionID")
	}
	if err := actor.Validate(); err != nil {
		return AttemptTransitionCommand{}, err
	}

	return AttemptTransitionCommand{
		loadID:       loadID,
		transitionID: transitionID,
		actor:        actor,
		triggerEvent: triggerEvent,
		guard:        kernel.NewConstructorGuard(),
	}, nil
}

// LoadID returns the target load.
func (c AttemptTransitionCommand) LoadID() kernel.UUID {
	return c.loadID
}

// TransitionID returns the requested catalog transition.
func (c AttemptTransitionCommand) TransitionID() string {
	return c.transitionID
}

// Actor returns who requested the transition.
func (c AttemptTransitionCommand) Actor() load.Actor {
	return c.actor
}

// TriggerEvent returns the raw trigger payload, possibly nil.
func (c AttemptTransitionCommand) TriggerEvent() map[string]string {
	return c.triggerEvent
}

// Validate ensures the command was created through the constructor.
func (c *AttemptTransitionCommand) Validate() error {
	return c.guard.Validate(ErrAttemptTransitionCommandIsNotConstructed)
}
