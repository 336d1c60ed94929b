package queries

import (
	"context"
	"encoding/json"

	"loadflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAuditTrailQueryHandler reads an entity's transition history from the
// append-only audit table.
type GetAuditTrailQueryHandler struct {
	db *gorm.DB
}

// NewGetAuditTrailQueryHandler creates a handler for audit trail queries.
func NewGetAuditTrailQueryHandler(db *gorm.DB) GetAuditTrailQueryHandler {
	return GetAuditTrailQueryHandler{db: db}
}

// Handle returns the entity's audit records ordered oldest first. An entity
// with no history yields an empty slice, not an error.
func (h GetAuditTrailQueryHandler) Handle(
	ctx context.Context,
	query GetAuditTrailQuery,
) ([]GetAuditTrailQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetAuditTrailQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			from_state,
			to_state,
			transition_id,
			trigger_type,
			trigger_event,
			actor_id,
			actor_role,
			guards_passed,
			effects_executed,
			success,
			occurred_at
		FROM transition_audit
		WHERE entity_kind = ? AND entity_id = ?
		ORDER BY occurred_at, id
	`, string(query.EntityKind()), query.EntityID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var record GetAuditTrailQueryResponse
		var id uuid.UUID
		var guardsJSON, effectsJSON []byte

		err = rows.Scan(
			&id,
			&record.FromState,
			&record.ToState,
			&record.TransitionID,
			&record.TriggerType,
			&record.TriggerEvent,
			&record.ActorID,
			&record.ActorRole,
			&guardsJSON,
			&effectsJSON,
			&record.Success,
			&record.Timestamp,
		)
		if err != nil {
			return nil, err
		}

		recordID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		record.ID = recordID

		if len(guardsJSON) > 0 {
			if err := json.Unmarshal(guardsJSON, &record.GuardsPassed); err != nil {
				return nil, err
			}
		}
		if len(effectsJSON) > 0 {
			if err := json.Unmarshal(effectsJSON, &record.EffectsExecuted); err != nil {
				return nil, err
			}
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
