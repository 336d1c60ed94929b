// Package loadrepo persists load aggregates. The DTO layer converts between
// the private-field domain aggregate and the relational row; state is stored
// under its wire name so the scheduler and queries can filter on it directly.
package loadrepo

import (
	"time"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"

	"github.com/google/uuid"
)

// LoadDTO represents the database structure for persisting load aggregates.
type LoadDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	State          string    `gorm:"type:varchar(32);index"`
	StateEnteredAt time.Time
	Version        int64

	ShipperID  uuid.UUID  `gorm:"type:uuid;index"`
	CatalystID *uuid.UUID `gorm:"type:uuid"`
	DriverID   *uuid.UUID `gorm:"type:uuid"`

	BOLSigned    bool
	PODPhoto     bool
	PODSignature bool
	SealRecorded bool

	DetentionTimer bool
	DemurrageTimer bool
	LayoverTimer   bool
}

// TableName overrides GORM's default naming to use "loads".
func (LoadDTO) TableName() string {
	return "loads"
}

func fromDomain(aggregate *load.Load) LoadDTO {
	var catalystID, driverID *uuid.UUID
	if id := aggregate.CatalystID(); id != nil {
		raw := id.Bytes()
		catalystID = &raw
	}
	if id := aggregate.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	docs := aggregate.Documents()
	timers := aggregate.Timers()

	return LoadDTO{
		ID:             aggregate.ID().Bytes(),
		State:          aggregate.State().String(),
		StateEnteredAt: aggregate.StateEnteredAt(),
		Version:        aggregate.Version(),
		ShipperID:      aggregate.ShipperID().Bytes(),
		CatalystID:     catalystID,
		DriverID:       driverID,
		BOLSigned:      docs.BOLSigned,
		PODPhoto:       docs.PODPhoto,
		PODSignature:   docs.PODSignature,
		SealRecorded:   docs.SealRecorded,
		DetentionTimer: timers.Detention,
		DemurrageTimer: timers.Demurrage,
		LayoverTimer:   timers.Layover,
	}
}

func toDomain(dto LoadDTO) (*load.Load, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shipperID, err := kernel.UUIDFromBytes(dto.ShipperID[:])
	if err != nil {
		return nil, err
	}

	var catalystID, driverID *kernel.UUID
	if dto.CatalystID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.CatalystID)[:])
		if cErr != nil {
			return nil, cErr
		}
		catalystID = &cID
	}
	if dto.DriverID != nil {
		dID, dErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if dErr != nil {
			return nil, dErr
		}
		driverID = &dID
	}

	state, err := load.StateFromString(dto.State)
	if err != nil {
		return nil, err
	}

	return load.RestoreLoad(
		id,
		state,
		dto.StateEnteredAt,
		dto.Version,
		shipperID,
		catalystID,
		driverID,
		load.Documents{
			BOLSigned:    dto.BOLSigned,
			PODPhoto:     dto.PODPhoto,
			PODSignature: dto.PODSignature,
			SealRecorded: dto.SealRecorded,
		},
		load.Timers{
			Detention: dto.DetentionTimer,
			Demurrage: dto.DemurrageTimer,
			Layover:   dto.LayoverTimer,
		},
	)
}
