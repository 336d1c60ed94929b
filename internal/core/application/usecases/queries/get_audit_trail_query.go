package queries

import (
	"errors"
	"time"

	"loadflow/internal/core/domain/model/audit"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/pkg/errs"
)

var ErrGetAuditTrailQueryIsNotConstructed = errors.New(
	"GetAuditTrailQuery must be created via NewGetAuditTrailQuery constructor",
)

// GetAuditTrailQuery retrieves the transition history of one entity, oldest
// first.
type GetAuditTrailQuery struct {
	entityKind audit.EntityKind
	entityID   kernel.UUID

	guard kernel.ConstructorGuard
}

// NewGetAuditTrailQuery creates a validated audit trail query.
func NewGetAuditTrailQuery(entityKind audit.EntityKind, entityID kernel.UUID) (GetAuditTrailQuery, error) {
	if entityKind != audit.EntityLoad && entityKind != audit.EntityConvoy {
		return GetAuditTrailQuery{}, errs.NewValueIsInvalidError("entityKind")
	}
	if err := entityID.Validate(); err != nil {
		return GetAuditTrailQuery{}, err
	}

	return GetAuditTrailQuery{
		entityKind: entityKind,
		entityID:   entityID,
		guard:      kernel.NewConstructorGuard(),
	}, nil
}

// EntityKind returns which state machine's history is requested.
func (q GetAuditTrailQuery) EntityKind() audit.EntityKind {
	return q.entityKind
}

// EntityID returns the queried entity.
func (q GetAuditTrailQuery) EntityID() kernel.UUID {
	return q.entityID
}

// Validate ensures the query was created through the constructor.
func (q GetAuditTrailQuery) Validate() error {
	return q.guard.Validate(ErrGetAuditTrailQueryIsNotConstructed)
}

// GetAuditTrailQueryResponse is one audit trail entry.
type GetAuditTrailQueryResponse struct {
	ID              kernel.UUID
	FromState       string
	ToState         string
	TransitionID    string
	TriggerType     string
	TriggerEvent    string
	ActorID         string
	ActorRole       string
	GuardsPassed    []string
	EffectsExecuted []string
	Success         bool
	Timestamp       time.Time
}
