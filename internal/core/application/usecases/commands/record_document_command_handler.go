package commands

import "context"

// RecordDocumentCommandHandler flips a document flag on the load. Document
// collection is not a state change, so there is no transition and no audit
// record; the flag simply lets later document guards pass.
type RecordDocumentCommandHandler struct {
	uowFactory LoadUoWFactory
}

// NewRecordDocumentCommandHandler creates a handler for document collection.
func NewRecordDocumentCommandHandler(uowFactory LoadUoWFactory) RecordDocumentCommandHandler {
	return RecordDocumentCommandHandler{uowFactory: uowFactory}
}

// Handle records the document on the load and persists it.
func (h RecordDocumentCommandHandler) Handle(ctx context.Context, command RecordDocumentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.LoadRepository().Get(ctx, command.LoadID())
	if err != nil {
		return err
	}
	if err := aggregate.RecordDocument(command.Kind()); err != nil {
		return err
	}
	if err := uow.LoadRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
