// Package guards implements the guard evaluators behind the engine's
// dispatch table. Document and exception checks resolve locally from the
// aggregate and trigger event; compliance, positioning and payment checks go
// to their backing services over HTTP.
package guards

import (
	"context"
	"fmt"

	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/ports"
)

// DocumentEvaluator answers document guards from the load's own flags.
type DocumentEvaluator struct{}

// NewDocumentEvaluator creates a document guard evaluator.
func NewDocumentEvaluator() DocumentEvaluator {
	return DocumentEvaluator{}
}

// Evaluate checks the document flags the guard's check requires.
func (DocumentEvaluator) Evaluate(_ context.Context, req ports.GuardRequest) (ports.GuardResult, error) {
	var required []load.DocumentKind
	switch req.Guard.Check {
	case load.CheckBOLSigned:
		required = []load.DocumentKind{load.DocumentBOL}
	case load.CheckPODComplete:
		required = []load.DocumentKind{load.DocumentPODPhoto, load.DocumentPODSignature}
	case load.CheckSealRecorded:
		required = []load.DocumentKind{load.DocumentSealLog}
	default:
		return ports.GuardResult{}, fmt.Errorf("document evaluator cannot answer check %q", req.Guard.Check)
	}

	if !req.Load.HasDocuments(required) {
		return ports.GuardResult{Passed: false, Message: req.Guard.Message}, nil
	}
	return ports.GuardResult{Passed: true}, nil
}
