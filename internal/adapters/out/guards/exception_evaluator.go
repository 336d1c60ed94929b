package guards

import (
	"context"

	"loadflow/internal/core/ports"
)

// exceptionClearedField is the trigger event field an admin's clearance
// request must carry.
const exceptionClearedField = "resolution_note"

// ExceptionEvaluator answers the exception_cleared check: clearing a cargo
// exception requires a resolution note in the trigger event, which lands in
// the audit trail alongside the transition.
type ExceptionEvaluator struct{}

// NewExceptionEvaluator creates an exception clearance evaluator.
func NewExceptionEvaluator() ExceptionEvaluator {
	return ExceptionEvaluator{}
}

// Evaluate passes when the trigger event documents the resolution.
func (ExceptionEvaluator) Evaluate(_ context.Context, req ports.GuardRequest) (ports.GuardResult, error) {
	if req.Event[exceptionClearedField] == "" {
		return ports.GuardResult{
			Passed:  false,
			Message: "clearing an exception requires a resolution note",
		}, nil
	}
	return ports.GuardResult{Passed: true}, nil
}
