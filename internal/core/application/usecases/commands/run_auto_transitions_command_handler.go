package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"loadflow/internal/core/domain/model/load"
)

// RunAutoTransitionsCommandHandler performs the timeout sweep. Candidates
// are read in one pass; each due transition then goes through the engine on
// its own transaction, so one stuck load cannot wedge the sweep and a race
// with a user action resolves through the version check.
type RunAutoTransitionsCommandHandler struct {
	uowFactory LoadUoWFactory
	engine     AttemptTransitionCommandHandler
	logger     *slog.Logger
	now        func() time.Time
}

// NewRunAutoTransitionsCommandHandler creates a handler for the timeout sweep.
func NewRunAutoTransitionsCommandHandler(
	uowFactory LoadUoWFactory,
	engine AttemptTransitionCommandHandler,
	logger *slog.Logger,
) RunAutoTransitionsCommandHandler {
	return RunAutoTransitionsCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		logger:     logger.With("component", "auto_transition_sweep"),
		now:        time.Now,
	}
}

// Handle runs one sweep and returns the number of transitions committed.
func (h RunAutoTransitionsCommandHandler) Handle(ctx context.Context, command RunAutoTransitionsCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	candidates, err := h.readCandidates(ctx)
	if err != nil {
		return 0, err
	}

	now := h.now()
	fired := 0
	for _, aggregate := range candidates {
		transitionID, due := aggregate.AutoTransitionDue(now)
		if !due {
			continue
		}

		attempt, err := NewAttemptTransitionCommand(aggregate.ID(), transitionID, load.SystemActor(), nil)
		if err != nil {
			return fired, err
		}
		if _, err := h.engine.Handle(ctx, attempt); err != nil {
			// Losing the race to a user action is expected under
			// at-least-once sweeps; anything else is worth a log line.
			if errors.Is(err, ErrConcurrentModification) || errors.Is(err, ErrInvalidTransition) {
				continue
			}
			h.logger.Error("auto transition failed",
				"load_id", aggregate.ID().String(),
				"transition", transitionID,
				"error", err)
			continue
		}
		fired++
	}

	if fired > 0 {
		h.logger.Info("sweep complete", "candidates", len(candidates), "fired", fired)
	}
	return fired, nil
}

func (h RunAutoTransitionsCommandHandler) readCandidates(ctx context.Context) ([]*load.Load, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.LoadRepository().GetAllInStates(ctx, load.AutoTransitionStates())
}
