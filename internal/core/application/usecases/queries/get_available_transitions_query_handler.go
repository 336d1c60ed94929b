package queries

import (
	"context"
	"database/sql"
	"errors"

	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetAvailableTransitionsQueryHandler reads the load's current state and
// filters the catalog by it and the querying role. The catalog lives in
// memory; only the state comes from the database.
type GetAvailableTransitionsQueryHandler struct {
	db      *gorm.DB
	catalog *load.Catalog
}

// NewGetAvailableTransitionsQueryHandler creates a handler for availability
// queries.
func NewGetAvailableTransitionsQueryHandler(db *gorm.DB, catalog *load.Catalog) GetAvailableTransitionsQueryHandler {
	return GetAvailableTransitionsQueryHandler{db: db, catalog: catalog}
}

// Handle returns the transitions the role may request from the load's
// current state, in priority order.
func (h GetAvailableTransitionsQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableTransitionsQuery,
) ([]GetAvailableTransitionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var stateName string
	row := h.db.WithContext(ctx).Raw(`
		SELECT state FROM loads WHERE id = ?
	`, query.LoadID().String()).Row()
	if err := row.Scan(&stateName); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("loadID", query.LoadID())
		}
		return nil, err
	}

	state, err := load.StateFromString(stateName)
	if err != nil {
		return nil, err
	}

	available := h.catalog.TransitionsFromForRole(state, query.Role())
	responses := make([]GetAvailableTransitionsQueryResponse, 0, len(available))
	for _, def := range available {
		checks := make([]string, 0, len(def.Guards))
		for _, g := range def.Guards {
			checks = append(checks, string(g.Check))
		}
		responses = append(responses, GetAvailableTransitionsQueryResponse{
			TransitionID: def.ID,
			From:         stateName,
			To:           def.To.String(),
			Trigger:      def.Trigger.String(),
			GuardChecks:  checks,
			Priority:     def.Priority,
		})
	}
	return responses, nil
}
