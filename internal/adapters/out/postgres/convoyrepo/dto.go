// Package convoyrepo persists convoy aggregates, including the last-known
// escort separation distances and the interrupted-status bookmark used by
// hold recovery.
package convoyrepo

import (
	"time"

	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ConvoyDTO represents the database structure for persisting convoy
// aggregates.
type ConvoyDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	LoadID uuid.UUID `gorm:"type:uuid;index"`
	Status string    `gorm:"type:varchar(32);index"`

	HeldFrom *string `gorm:"type:varchar(32)"`

	LeadEscortID uuid.UUID  `gorm:"type:uuid"`
	RearEscortID *uuid.UUID `gorm:"type:uuid"`

	LeadDistanceM    float64
	RearDistanceM    float64
	SeparationAlerts int

	StatusEnteredAt time.Time
	Version         int64
}

// TableName overrides GORM's default naming to use "convoys".
func (ConvoyDTO) TableName() string {
	return "convoys"
}

func fromDomain(aggregate *convoy.Convoy) ConvoyDTO {
	var heldFrom *string
	if s := aggregate.HeldFrom(); s != nil {
		name := s.String()
		heldFrom = &name
	}

	var rearEscortID *uuid.UUID
	if id := aggregate.RearEscortID(); id != nil {
		raw := id.Bytes()
		rearEscortID = &raw
	}

	return ConvoyDTO{
		ID:               aggregate.ID().Bytes(),
		LoadID:           aggregate.LoadID().Bytes(),
		Status:           aggregate.Status().String(),
		HeldFrom:         heldFrom,
		LeadEscortID:     aggregate.LeadEscortID().Bytes(),
		RearEscortID:     rearEscortID,
		LeadDistanceM:    aggregate.LeadDistanceM(),
		RearDistanceM:    aggregate.RearDistanceM(),
		SeparationAlerts: aggregate.ConsecutiveSeparationAlerts(),
		StatusEnteredAt:  aggregate.StatusEnteredAt(),
		Version:          aggregate.Version(),
	}
}

func toDomain(dto ConvoyDTO) (*convoy.Convoy, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	loadID, err := kernel.UUIDFromBytes(dto.LoadID[:])
	if err != nil {
		return nil, err
	}
	leadEscortID, err := kernel.UUIDFromBytes(dto.LeadEscortID[:])
	if err != nil {
		return nil, err
	}

	var rearEscortID *kernel.UUID
	if dto.RearEscortID != nil {
		rID, rErr := kernel.UUIDFromBytes((*dto.RearEscortID)[:])
		if rErr != nil {
			return nil, rErr
		}
		rearEscortID = &rID
	}

	status, err := convoy.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var heldFrom *convoy.Status
	if dto.HeldFrom != nil {
		held, hErr := convoy.StatusFromString(*dto.HeldFrom)
		if hErr != nil {
			return nil, hErr
		}
		heldFrom = &held
	}

	return convoy.RestoreConvoy(
		id,
		loadID,
		status,
		heldFrom,
		leadEscortID,
		rearEscortID,
		dto.LeadDistanceM,
		dto.RearDistanceM,
		dto.SeparationAlerts,
		dto.StatusEnteredAt,
		dto.Version,
	)
}
