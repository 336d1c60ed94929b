package commands

import (
	"errors"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/pkg/errs"
)

var ErrRecordDocumentCommandIsNotConstructed = errors.New(
	"RecordDocumentCommand must be created via NewRecordDocumentCommand constructor",
)

// RecordDocumentCommand marks one lifecycle document as collected on a load
// so document guards can pass.
type RecordDocumentCommand struct {
	loadID kernel.UUID
	kind   load.DocumentKind

	guard kernel.ConstructorGuard
}

// NewRecordDocumentCommand creates a validated document collection request.
func NewRecordDocumentCommand(loadID kernel.UUID, kind load.DocumentKind) (RecordDocumentCommand, error) {
	if err := loadID.Validate(); err != nil {
		return RecordDocumentCommand{}, err
	}
	if kind == "" {
		return RecordDocumentCommand{}, errs.NewValueIsRequiredError("kind")
	}

	return RecordDocumentCommand{
		loadID: loadID,
		kind:   kind,
		guard:  kernel.NewConstructorGuard(),
	}, nil
}

// LoadID returns the target load.
func (c RecordDocumentCommand) LoadID() kernel.UUID {
	return c.loadID
}

// Kind returns the collected document kind.
func (c RecordDocumentCommand) Kind() load.DocumentKind {
	return c.kind
}

// Validate ensures the command was created through the constructor.
func (c *RecordDocumentCommand) Validate() error {
	return c.guard.Validate(ErrRecordDocumentCommandIsNotConstructed)
}
