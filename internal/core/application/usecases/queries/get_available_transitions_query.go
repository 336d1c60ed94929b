// Package queries contains read-only operations in the CQRS architecture.
// Query handlers read the database directly and return plain response
// structs; they never mutate state.
package queries

import (
	"errors"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
)

var ErrGetAvailableTransitionsQueryIsNotConstructed = errors.New(
	"GetAvailableTransitionsQuery must be created via NewGetAvailableTransitionsQuery constructor",
)

// GetAvailableTransitionsQuery asks which transitions a given role may
// request on a load right now. The answer drives action menus in clients:
// guards are listed, not evaluated, so a returned transition can still be
// rejected at attempt time.
type GetAvailableTransitionsQuery struct {
	loadID kernel.UUID
	role   load.Role

	guard kernel.ConstructorGuard
}

// NewGetAvailableTransitionsQuery creates a validated availability query.
func NewGetAvailableTransitionsQuery(loadID kernel.UUID, role load.Role) (GetAvailableTransitionsQuery, error) {
	if err := loadID.Validate(); err != nil {
		return GetAvailableTransitionsQuery{}, err
	}
	if err := role.Validate(); err != nil {
		return GetAvailableTransitionsQuery{}, err
	}

	return GetAvailableTransitionsQuery{
		loadID: loadID,
		role:   role,
		guard:  kernel.NewConstructorGuard(),
	}, nil
}

// LoadID returns the queried load.
func (q GetAvailableTransitionsQuery) LoadID() kernel.UUID {
	return q.loadID
}

// Role returns the acting role the answer is filtered for.
func (q GetAvailableTransitionsQuery) Role() load.Role {
	return q.role
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableTransitionsQueryIsNotConstructed)
}

// GetAvailableTransitionsQueryResponse is one offerable transition.
type GetAvailableTransitionsQueryResponse struct {
	TransitionID string
	From         string
	To           string
	Trigger      string
	GuardChecks  []string
	Priority     int
}
