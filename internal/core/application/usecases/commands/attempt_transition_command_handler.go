package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loadflow/internal/core/domain/model/audit"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/ports"
	"loadflow/internal/pkg/errs"
)

var (
	// ErrTransitionNotFound is returned when the requested transition id is
	// not in the catalog.
	ErrTransitionNotFound = errors.New("transition is not defined in the catalog")

	// ErrInvalidTransition is returned when the transition does not originate
	// from the load's current state.
	ErrInvalidTransition = errors.New("transition does not apply to the load's current state")

	// ErrUnauthorizedActor is returned when the actor's role is not in the
	// transition's allowed set.
	ErrUnauthorizedActor = errors.New("actor role is not allowed to request this transition")

	// ErrConcurrentModification is returned when another writer committed a
	// state change between this handler's read and write. Callers re-read and
	// retry against the new state.
	ErrConcurrentModification = errors.New("load was modified concurrently, re-read and retry")

	// ErrGuardFailed classifies every guard rejection; match it with
	// errors.Is and inspect the GuardFailedError for the details.
	ErrGuardFailed = errors.New("guard failed")
)

// GuardFailedError reports which guard rejected the transition and why. An
// evaluator fault (timeout, unreachable backend) sets Cause; the transition
// is rejected either way.
type GuardFailedError struct {
	Check   load.GuardCheck
	Message string
	Cause   error
}

func (e *GuardFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("guard %s failed: %s (cause: %v)", e.Check, e.Message, e.Cause)
	}
	return fmt.Sprintf("guard %s failed: %s", e.Check, e.Message)
}

func (e *GuardFailedError) Unwrap() error {
	return ErrGuardFailed
}

// guardTimeout bounds each guard evaluation; a guard that cannot answer in
// time fails the transition rather than blocking it.
const guardTimeout = 5 * time.Second

// TransitionResult reports a committed transition back to the caller.
type TransitionResult struct {
	TransitionID string
	From         load.State
	To           load.State
	OccurredAt   time.Time
}

// AttemptTransitionCommandHandler is the transition engine. One Handle call
// performs the full sequence: read the load, resolve the catalog definition,
// check the actor's role, evaluate guards in order, commit the state change
// together with its audit record, then dispatch the declared effects.
//
// Concurrency: the commit is guarded by the aggregate's version, so two
// racing attempts on the same load serialize; the loser gets
// ErrConcurrentModification. Every attempt, including rejected ones, leaves
// an audit record.
type AttemptTransitionCommandHandler struct {
	uowFactory LoadUoWFactory
	catalog    *load.Catalog
	guards     map[load.GuardCheck]ports.GuardEvaluator
	effects    ports.EffectDispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// NewAttemptTransitionCommandHandler creates the engine handler. The guards
// map is the dispatch table from check identifier to evaluator; a guard whose
// check has no entry fails closed.
func NewAttemptTransitionCommandHandler(
	uowFactory LoadUoWFactory,
	catalog *load.Catalog,
	guards map[load.GuardCheck]ports.GuardEvaluator,
	effects ports.EffectDispatcher,
	logger *slog.Logger,
) AttemptTransitionCommandHandler {
	return AttemptTransitionCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		guards:     guards,
		effects:    effects,
		logger:     logger.With("component", "transition_engine"),
		now:        time.Now,
	}
}

// Handle processes one transition attempt end to end.
func (h AttemptTransitionCommandHandler) Handle(
	ctx context.Context, command AttemptTransitionCommand,
) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.LoadRepository().Get(ctx, command.LoadID())
	if err != nil {
		return TransitionResult{}, err
	}

	now := h.now()
	record, err := audit.NewTransitionRecord(audit.EntityLoad, aggregate.ID(), now)
	if err != nil {
		return TransitionResult{}, err
	}
	record.TransitionID = command.TransitionID()
	record.FromState = aggregate.State().String()
	record.ActorID = command.Actor().ID.String()
	record.ActorRole = command.Actor().Role.String()
	record.TriggerEvent = flattenEvent(command.TriggerEvent())

	def, ok := h.catalog.Definition(command.TransitionID())
	if !ok {
		return TransitionResult{}, h.reject(ctx, uow, record,
			fmt.Errorf("%w: %s", ErrTransitionNotFound, command.TransitionID()))
	}
	record.ToState = def.To.String()
	record.TriggerType = def.Trigger.String()

	if !def.FromContains(aggregate.State()) {
		return TransitionResult{}, h.reject(ctx, uow, record,
			fmt.Errorf("%w: %s from %s", ErrInvalidTransition, def.ID, aggregate.State()))
	}
	if !def.AllowsRole(command.Actor().Role) {
		return TransitionResult{}, h.reject(ctx, uow, record,
			fmt.Errorf("%w: %s may not request %s", ErrUnauthorizedActor, command.Actor().Role, def.ID))
	}

	for _, g := range def.Guards {
		if err := h.evaluateGuard(ctx, g, aggregate, command); err != nil {
			return TransitionResult{}, h.reject(ctx, uow, record, err)
		}
		record.GuardsPassed = append(record.GuardsPassed, string(g.Check))
	}

	from := aggregate.State()
	if err := aggregate.ApplyTransition(def, now); err != nil {
		return TransitionResult{}, h.reject(ctx, uow, record, err)
	}

	// Timer flags live on the load row, so those effects apply inside the
	// same commit as the state change. Everything else runs after commit.
	var deferred []load.Effect
	for _, effect := range def.Effects {
		if isTimerAction(effect.Action) {
			if err := aggregate.SetTimer(effect.Action); err != nil {
				return TransitionResult{}, err
			}
		} else {
			deferred = append(deferred, effect)
		}
		record.EffectsExecuted = append(record.EffectsExecuted, effect.Action)
	}

	if err := uow.LoadRepository().Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return TransitionResult{}, ErrConcurrentModification
		}
		return TransitionResult{}, err
	}

	record.Success = true
	if err := uow.AuditRepository().Append(ctx, record); err != nil {
		return TransitionResult{}, err
	}
	if err := uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	h.dispatchEffects(ctx, aggregate, def, from, command.Actor(), deferred, now)

	h.logger.Info("transition committed",
		"load_id", aggregate.ID().String(),
		"transition", def.ID,
		"from", from.String(),
		"to", aggregate.State().String(),
		"actor_role", command.Actor().Role.String())

	return TransitionResult{
		TransitionID: def.ID,
		From:         from,
		To:           aggregate.State(),
		OccurredAt:   now,
	}, nil
}

// evaluateGuard runs one guard through the dispatch table with a bounded
// context. Missing evaluators and evaluator faults both reject the
// transition.
func (h AttemptTransitionCommandHandler) evaluateGuard(
	ctx context.Context, g load.Guard, aggregate *load.Load, command AttemptTransitionCommand,
) error {
	evaluator, ok := h.guards[g.Check]
	if !ok {
		return &GuardFailedError{Check: g.Check, Message: "no evaluator registered for guard check"}
	}

	guardCtx, cancel := context.WithTimeout(ctx, guardTimeout)
	defer cancel()

	result, err := evaluator.Evaluate(guardCtx, ports.GuardRequest{
		Guard:        g,
		Load:         aggregate,
		Actor:        command.Actor(),
		TransitionID: command.TransitionID(),
		Event:        command.TriggerEvent(),
	})
	if err != nil {
		return &GuardFailedError{Check: g.Check, Message: g.Message, Cause: err}
	}
	if !result.Passed {
		message := result.Message
		if message == "" {
			message = g.Message
		}
		return &GuardFailedError{Check: g.Check, Message: message}
	}
	return nil
}

// reject writes the failure audit record in its own committed transaction
// and returns the rejection. The aggregate itself is never written here.
func (h AttemptTransitionCommandHandler) reject(
	ctx context.Context, uow LoadUoW, record *audit.TransitionRecord, cause error,
) error {
	record.Success = false
	record.Metadata = map[string]string{"failure": cause.Error()}

	if err := uow.AuditRepository().Append(ctx, record); err != nil {
		h.logger.Error("failure audit append failed", "error", err)
		return cause
	}
	if err := uow.Commit(ctx); err != nil {
		h.logger.Error("failure audit commit failed", "error", err)
	}
	return cause
}

// dispatchEffects hands the deferred effects to the dispatcher in declared
// order. Dispatch failures are logged and dropped: the transition is already
// committed.
func (h AttemptTransitionCommandHandler) dispatchEffects(
	ctx context.Context,
	aggregate *load.Load,
	def load.TransitionDefinition,
	from load.State,
	actor load.Actor,
	effects []load.Effect,
	occurredAt time.Time,
) {
	for _, effect := range effects {
		err := h.effects.Dispatch(ctx, ports.EffectContext{
			EntityKind:   audit.EntityLoad,
			EntityID:     aggregate.ID(),
			TransitionID: def.ID,
			FromState:    from,
			ToState:      aggregate.State(),
			Actor:        actor,
			Effect:       effect,
			OccurredAt:   occurredAt,
			Recipients:   aggregate.ParticipantIDs(effect.Recipients),
		})
		if err != nil {
			h.logger.Error("effect dispatch failed",
				"load_id", aggregate.ID().String(),
				"transition", def.ID,
				"action", effect.Action,
				"error", err)
		}
	}
}

func isTimerAction(action string) bool {
	switch action {
	case load.ActionStartDetentionTimer, load.ActionStopDetentionTimer,
		load.ActionStartDemurrageTimer, load.ActionStopDemurrageTimer,
		load.ActionStartLayoverTimer, load.ActionStopLayoverTimer:
		return true
	}
	return false
}

// flattenEvent renders the trigger payload for the audit row.
func flattenEvent(event map[string]string) string {
	if len(event) == 0 {
		return ""
	}
	out := ""
	for k, v := range event {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%s=%s", k, v)
	}
	return out
}
