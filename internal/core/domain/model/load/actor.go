package load

import "loadflow/internal/core/domain/model/kernel"

// Actor identifies who is requesting a transition: a user (or the system
// itself) and the role they act under. Role checks run against the role, not
// the identity; the identity goes to the audit trail.
type Actor struct {
	ID   kernel.UUID
	Role Role
}

// SystemActor returns the actor used for scheduler-driven and other
// machine-initiated transitions.
func SystemActor() Actor {
	return Actor{ID: kernel.NewUUID(), Role: RoleSystem}
}

// Validate checks the actor's identity and role.
func (a Actor) Validate() error {
	if err := a.ID.Validate(); err != nil {
		return err
	}
	return a.Role.Validate()
}
