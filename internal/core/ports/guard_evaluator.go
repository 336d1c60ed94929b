package ports

import (
	"context"

	"loadflow/internal/core/domain/model/load"
)

// GuardRequest carries everything an evaluator may inspect when checking one
// guard: the guard itself, the aggregate, the requesting actor and the raw
// trigger event payload (geofence coordinates, payment references and so on).
type GuardRequest struct {
	Guard        load.Guard
	Load         *load.Load
	Actor        load.Actor
	TransitionID string
	Event        map[string]string
}

// GuardResult is the outcome of a single guard evaluation. A failed guard is
// a normal outcome, not an error; errors are reserved for evaluator faults
// (an unreachable compliance service, a deadline hit) and the engine treats
// them as failures too.
type GuardResult struct {
	Passed  bool
	Message string
}

// GuardEvaluator checks a single guard. The engine resolves each guard's
// check identifier to an evaluator through a dispatch table built at startup
// and calls evaluators in the guard's declared order, stopping at the first
// failure. Evaluators must honor ctx deadlines; the engine bounds each call.
type GuardEvaluator interface {
	Evaluate(ctx context.Context, req GuardRequest) (GuardResult, error)
}

// GuardEvaluatorFunc adapts a plain function to the GuardEvaluator interface.
type GuardEvaluatorFunc func(ctx context.Context, req GuardRequest) (GuardResult, error)

// Evaluate calls f.
func (f GuardEvaluatorFunc) Evaluate(ctx context.Context, req GuardRequest) (GuardResult, error) {
	return f(ctx, req)
}
