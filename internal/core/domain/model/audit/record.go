// Package audit defines the append-only transition audit record. One record
// is written per attempted transition, success or failure, and is never
// mutated after write.
package audit

import (
	"time"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/pkg/errs"
)

// EntityKind distinguishes which state machine a record belongs to.
type EntityKind string

const (
	EntityLoad   EntityKind = "load"
	EntityConvoy EntityKind = "convoy"
)

// TransitionRecord is the audit log entry for one transition attempt.
// GuardsPassed lists the guard checks that passed before (and excluding) any
// failing one; EffectsExecuted lists effect actions handed to the dispatcher.
type TransitionRecord struct {
	ID              kernel.UUID
	EntityKind      EntityKind
	EntityID        kernel.UUID
	FromState       string
	ToState         string
	TransitionID    string
	TriggerType     string
	TriggerEvent    string
	ActorID         string
	ActorRole       string
	GuardsPassed    []string
	EffectsExecuted []string
	Metadata        map[string]string
	Success         bool
	Timestamp       time.Time
}

// NewTransitionRecord builds a record with a fresh identity and timestamp.
// The remaining fields are filled by the engine before the append.
func NewTransitionRecord(kind EntityKind, entityID kernel.UUID, now time.Time) (*TransitionRecord, error) {
	if err := entityID.Validate(); err != nil {
		return nil, err
	}
	if kind != EntityLoad && kind != EntityConvoy {
		return nil, errs.NewValueIsInvalidError("entityKind")
	}

	return &TransitionRecord{
		ID:         kernel.NewUUID(),
		EntityKind: kind,
		EntityID:   entityID,
		Timestamp:  now,
	}, nil
}
