package ports

import (
	"context"
	"time"

	"loadflow/internal/core/domain/model/audit"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
)

// EffectContext is one declared effect plus the committed transition it
// belongs to. Effects run after the state commit: the dispatcher may retry or
// log a failure, but nothing it does can unwind the transition.
type EffectContext struct {
	EntityKind   audit.EntityKind
	EntityID     kernel.UUID
	TransitionID string
	FromState    load.State
	ToState      load.State
	Actor        load.Actor
	Effect       load.Effect
	OccurredAt   time.Time

	// Recipients are the effect's declared recipient roles resolved to
	// participant user ids. The dispatcher delivers notifications to each
	// recipient's user channel on top of the entity channel broadcast.
	Recipients []kernel.UUID
}

// EffectDispatcher executes a single declared effect. The engine calls
// Dispatch for each effect in declared order and records the returned error
// in the log only; a failed effect never fails the transition.
type EffectDispatcher interface {
	Dispatch(ctx context.Context, ec EffectContext) error
}
