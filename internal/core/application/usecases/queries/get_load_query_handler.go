package queries

import (
	"context"
	"database/sql"
	"errors"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetLoadQueryHandler reads one load row and annotates it with catalog
// metadata (category, finality).
type GetLoadQueryHandler struct {
	db *gorm.DB
}

// NewGetLoadQueryHandler creates a handler for load snapshot queries.
func NewGetLoadQueryHandler(db *gorm.DB) GetLoadQueryHandler {
	return GetLoadQueryHandler{db: db}
}

// Handle returns the load's snapshot or errs.ErrObjectNotFound.
func (h GetLoadQueryHandler) Handle(ctx context.Context, query GetLoadQuery) (GetLoadQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetLoadQueryResponse{}, err
	}

	var response GetLoadQueryResponse
	var id uuid.UUID
	var catalystID, driverID sql.NullString

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			state,
			state_entered_at,
			version,
			shipper_id,
			catalyst_id,
			driver_id,
			bol_signed,
			pod_photo,
			pod_signature,
			seal_recorded,
			detention_timer,
			demurrage_timer,
			layover_timer
		FROM loads
		WHERE id = ?
	`, query.LoadID().String()).Row()

	err := row.Scan(
		&id,
		&response.State,
		&response.StateEnteredAt,
		&response.Version,
		&response.ShipperID,
		&catalystID,
		&driverID,
		&response.BOLSigned,
		&response.PODPhoto,
		&response.PODSignature,
		&response.SealRecorded,
		&response.DetentionTimer,
		&response.DemurrageTimer,
		&response.LayoverTimer,
	)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
		return GetLoadQueryResponse{}, errs.NewObjectNotFoundError("loadID", query.LoadID())
	}
	if err != nil {
		return GetLoadQueryResponse{}, err
	}

	loadID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetLoadQueryResponse{}, err
	}
	response.ID = loadID
	response.CatalystID = catalystID.String
	response.DriverID = driverID.String

	if state, err := load.StateFromString(response.State); err == nil {
		response.Category = state.Category().String()
		response.Final = state.IsFinal()
	}
	return response, nil
}
