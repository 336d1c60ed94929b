// Package auditrepo persists the append-only transition audit log. The
// list-valued fields are stored as JSONB so the trail keeps exact guard and
// effect ordering without extra tables.
package auditrepo

import (
	"encoding/json"
	"time"

	"loadflow/internal/core/domain/model/audit"

	"github.com/google/uuid"
)

// AuditDTO represents the database structure for one transition record.
type AuditDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntityKind string    `gorm:"type:varchar(16);index:idx_audit_entity"`
	EntityID   uuid.UUID `gorm:"type:uuid;index:idx_audit_entity"`

	FromState    string `gorm:"type:varchar(32)"`
	ToState      string `gorm:"type:varchar(32)"`
	TransitionID string `gorm:"type:varchar(64)"`
	TriggerType  string `gorm:"type:varchar(32)"`
	TriggerEvent string

	ActorID   string `gorm:"type:varchar(64)"`
	ActorRole string `gorm:"type:varchar(16)"`

	GuardsPassed    []byte `gorm:"type:jsonb"`
	EffectsExecuted []byte `gorm:"type:jsonb"`
	Metadata        []byte `gorm:"type:jsonb"`

	Success    bool
	OccurredAt time.Time `gorm:"index"`
}

// TableName overrides GORM's default naming to use "transition_audit".
func (AuditDTO) TableName() string {
	return "transition_audit"
}

func fromDomain(record *audit.TransitionRecord) (AuditDTO, error) {
	guards, err := marshalList(record.GuardsPassed)
	if err != nil {
		return AuditDTO{}, err
	}
	effects, err := marshalList(record.EffectsExecuted)
	if err != nil {
		return AuditDTO{}, err
	}

	var metadata []byte
	if len(record.Metadata) > 0 {
		metadata, err = json.Marshal(record.Metadata)
		if err != nil {
			return AuditDTO{}, err
		}
	}

	return AuditDTO{
		ID:              record.ID.Bytes(),
		EntityKind:      string(record.EntityKind),
		EntityID:        record.EntityID.Bytes(),
		FromState:       record.FromState,
		ToState:         record.ToState,
		TransitionID:    record.TransitionID,
		TriggerType:     record.TriggerType,
		TriggerEvent:    record.TriggerEvent,
		ActorID:         record.ActorID,
		ActorRole:       record.ActorRole,
		GuardsPassed:    guards,
		EffectsExecuted: effects,
		Metadata:        metadata,
		Success:         record.Success,
		OccurredAt:      record.Timestamp,
	}, nil
}

func marshalList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}
