package queries

import (
	"errors"
	"time"

	"loadflow/internal/core/domain/model/kernel"
)

var ErrGetConvoyQueryIsNotConstructed = errors.New(
	"GetConvoyQuery must be created via NewGetConvoyQuery constructor",
)

// GetConvoyQuery retrieves one convoy's current escort snapshot.
type GetConvoyQuery struct {
	convoyID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewGetConvoyQuery creates a validated convoy snapshot query.
func NewGetConvoyQuery(convoyID kernel.UUID) (GetConvoyQuery, error) {
	if err := convoyID.Validate(); err != nil {
		return GetConvoyQuery{}, err
	}
	return GetConvoyQuery{convoyID: convoyID, guard: kernel.NewConstructorGuard()}, nil
}

// ConvoyID returns the queried convoy.
func (q GetConvoyQuery) ConvoyID() kernel.UUID {
	return q.convoyID
}

// Validate ensures the query was created through the constructor.
func (q GetConvoyQuery) Validate() error {
	return q.guard.Validate(ErrGetConvoyQueryIsNotConstructed)
}

// GetConvoyQueryResponse is the convoy's current snapshot.
type GetConvoyQueryResponse struct {
	ID               kernel.UUID
	LoadID           string
	Status           string
	Terminal         bool
	HeldFrom         string
	LeadEscortID     string
	RearEscortID     string
	LeadDistanceM    float64
	RearDistanceM    float64
	SeparationAlerts int
	StatusEnteredAt  time.Time
	Version          int64
}
