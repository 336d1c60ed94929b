package queries

import (
	"errors"
	"time"

	"loadflow/internal/core/domain/model/kernel"
)

var ErrGetLoadQueryIsNotConstructed = errors.New(
	"GetLoadQuery must be created via NewGetLoadQuery constructor",
)

// GetLoadQuery retrieves one load's current lifecycle snapshot.
type GetLoadQuery struct {
	loadID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewGetLoadQuery creates a validated load snapshot query.
func NewGetLoadQuery(loadID kernel.UUID) (GetLoadQuery, error) {
	if err := loadID.Validate(); err != nil {
		return GetLoadQuery{}, err
	}
	return GetLoadQuery{loadID: loadID, guard: kernel.NewConstructorGuard()}, nil
}

// LoadID returns the queried load.
func (q GetLoadQuery) LoadID() kernel.UUID {
	return q.loadID
}

// Validate ensures the query was created through the constructor.
func (q GetLoadQuery) Validate() error {
	return q.guard.Validate(ErrGetLoadQueryIsNotConstructed)
}

// GetLoadQueryResponse is the load's current snapshot: state, timing,
// participants, document flags and running timers.
type GetLoadQueryResponse struct {
	ID             kernel.UUID
	State          string
	Category       string
	Final          bool
	StateEnteredAt time.Time
	Version        int64
	ShipperID      string
	CatalystID     string
	DriverID       string
	BOLSigned      bool
	PODPhoto       bool
	PODSignature   bool
	SealRecorded   bool
	DetentionTimer bool
	DemurrageTimer bool
	LayoverTimer   bool
}
