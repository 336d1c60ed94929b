package queries

import (
	"context"
	"database/sql"
	"errors"

	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetConvoyQueryHandler reads one convoy row.
type GetConvoyQueryHandler struct {
	db *gorm.DB
}

// NewGetConvoyQueryHandler creates a handler for convoy snapshot queries.
func NewGetConvoyQueryHandler(db *gorm.DB) GetConvoyQueryHandler {
	return GetConvoyQueryHandler{db: db}
}

// Handle returns the convoy's snapshot or errs.ErrObjectNotFound.
func (h GetConvoyQueryHandler) Handle(ctx context.Context, query GetConvoyQuery) (GetConvoyQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetConvoyQueryResponse{}, err
	}

	var response GetConvoyQueryResponse
	var id uuid.UUID
	var heldFrom, rearEscortID sql.NullString

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			load_id,
			status,
			held_from,
			lead_escort_id,
			rear_escort_id,
			lead_distance_m,
			rear_distance_m,
			separation_alerts,
			status_entered_at,
			version
		FROM convoys
		WHERE id = ?
	`, query.ConvoyID().String()).Row()

	err := row.Scan(
		&id,
		&response.LoadID,
		&response.Status,
		&heldFrom,
		&response.LeadEscortID,
		&rearEscortID,
		&response.LeadDistanceM,
		&response.RearDistanceM,
		&response.SeparationAlerts,
		&response.StatusEnteredAt,
		&response.Version,
	)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
		return GetConvoyQueryResponse{}, errs.NewObjectNotFoundError("convoyID", query.ConvoyID())
	}
	if err != nil {
		return GetConvoyQueryResponse{}, err
	}

	convoyID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetConvoyQueryResponse{}, err
	}
	response.ID = convoyID
	response.HeldFrom = heldFrom.String
	response.RearEscortID = rearEscortID.String

	if status, err := convoy.StatusFromString(response.Status); err == nil {
		response.Terminal = status.IsTerminal()
	}
	return response, nil
}
