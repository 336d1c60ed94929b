package convoy

import (
	"errors"
	"fmt"
	"time"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/pkg/errs"
)

var (
	// ErrConvoyIsNotConstructed is returned when a Convoy instance was not
	// created through NewConvoy or RestoreConvoy.
	ErrConvoyIsNotConstructed = errors.New("Convoy must be created via NewConvoy or RestoreConvoy constructor")

	// ErrStatusNotAllowed is returned by AdvanceTo when the adjacency map
	// does not permit the requested move.
	ErrStatusNotAllowed = errors.New("escort status transition is not allowed")

	// ErrConvoyIsTerminal is returned when mutating an archived convoy.
	ErrConvoyIsTerminal = errors.New("convoy is in a terminal status")

	// ErrConvoyNotHeld is returned by Resume when the convoy is not on hold.
	ErrConvoyNotHeld = errors.New("convoy is not on hold")
)

// Convoy is the escort coordination aggregate: one or two escort vehicles
// (lead, optional rear) tracking a single load through the escort lifecycle.
type Convoy struct {
	id     kernel.UUID
	loadID kernel.UUID
	status Status

	// heldFrom remembers the status a ForceHold interrupted so Resume can
	// put the convoy back (or into PositionRecovery after separation holds).
	heldFrom *Status

	leadEscortID kernel.UUID
	rearEscortID *kernel.UUID

	// Last-known separation distances in meters, written by the positioning
	// collaborator. Zero means "no report yet".
	leadDistanceM float64
	rearDistanceM float64

	// consecutiveSeparationAlerts counts back-to-back threshold violations;
	// the separation monitor escalates to a hold at the configured count.
	consecutiveSeparationAlerts int

	statusEnteredAt time.Time
	version         int64

	isConstructed bool
}

// NewConvoy creates a convoy in EscortRequested for the given load.
// rearEscortID may be nil for single-vehicle escorts.
func NewConvoy(id, loadID, leadEscortID kernel.UUID, rearEscortID *kernel.UUID, now time.Time) (*Convoy, error) {
	if err := errors.Join(id.Validate(), loadID.Validate(), leadEscortID.Validate()); err != nil {
		return nil, err
	}
	if rearEscortID != nil {
		if err := rearEscortID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Convoy{
		id:              id,
		loadID:          loadID,
		status:          EscortRequested,
		leadEscortID:    leadEscortID,
		rearEscortID:    rearEscortID,
		statusEnteredAt: now,
		isConstructed:   true,
	}, nil
}

// RestoreConvoy reconstructs a convoy from persistence.
func RestoreConvoy(
	id, loadID kernel.UUID,
	status Status,
	heldFrom *Status,
	leadEscortID kernel.UUID,
	rearEscortID *kernel.UUID,
	leadDistanceM, rearDistanceM float64,
	consecutiveSeparationAlerts int,
	statusEnteredAt time.Time,
	version int64,
) (*Convoy, error) {
	if err := errors.Join(id.Validate(), loadID.Validate(), status.Validate(), leadEscortID.Validate()); err != nil {
		return nil, err
	}
	if heldFrom != nil {
		if err := heldFrom.Validate(); err != nil {
			return nil, err
		}
	}
	if statusEnteredAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("statusEnteredAt")
	}
	if version < 0 {
		return nil, errs.NewVersionIsInvalidError("version", fmt.Errorf("%d is negative", version))
	}

	return &Convoy{
		id:                          id,
		loadID:                      loadID,
		status:                      status,
		heldFrom:                    heldFrom,
		leadEscortID:                leadEscortID,
		rearEscortID:                rearEscortID,
		leadDistanceM:               leadDistanceM,
		rearDistanceM:               rearDistanceM,
		consecutiveSeparationAlerts: consecutiveSeparationAlerts,
		statusEnteredAt:             statusEnteredAt,
		version:                     version,
		isConstructed:               true,
	}, nil
}

// Validate ensures the convoy was built through a constructor.
func (c *Convoy) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrConvoyIsNotConstructed
	}
	return nil
}

// ID returns the convoy's unique identifier.
func (c *Convoy) ID() kernel.UUID {
	return c.id
}

// LoadID returns the escorted load.
func (c *Convoy) LoadID() kernel.UUID {
	return c.loadID
}

// Status returns the current escort status.
func (c *Convoy) Status() Status {
	return c.status
}

// HeldFrom returns the status a hold interrupted, nil when not held.
func (c *Convoy) HeldFrom() *Status {
	return c.heldFrom
}

// LeadEscortID returns the lead escort participant.
func (c *Convoy) LeadEscortID() kernel.UUID {
	return c.leadEscortID
}

// RearEscortID returns the rear escort participant, nil when absent.
func (c *Convoy) RearEscortID() *kernel.UUID {
	return c.rearEscortID
}

// LeadDistanceM returns the last-known lead separation in meters.
func (c *Convoy) LeadDistanceM() float64 {
	return c.leadDistanceM
}

// RearDistanceM returns the last-known rear separation in meters.
func (c *Convoy) RearDistanceM() float64 {
	return c.rearDistanceM
}

// ConsecutiveSeparationAlerts returns the current alert streak.
func (c *Convoy) ConsecutiveSeparationAlerts() int {
	return c.consecutiveSeparationAlerts
}

// StatusEnteredAt returns when the current status was entered.
func (c *Convoy) StatusEnteredAt() time.Time {
	return c.statusEnteredAt
}

// Version returns the optimistic-concurrency version.
func (c *Convoy) Version() int64 {
	return c.version
}

// AdvanceTo moves the convoy along the adjacency map. Holds use ForceHold
// instead; terminal convoys reject all moves.
func (c *Convoy) AdvanceTo(target Status, now time.Time) error {
	if c.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrConvoyIsTerminal, c.status)
	}
	if !c.status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusNotAllowed, c.status, target)
	}

	c.status = target
	c.statusEnteredAt = now
	c.heldFrom = nil
	return nil
}

// ForceHold freezes the convoy in EscortHold, remembering the interrupted
// status. Holding an already-held or terminal convoy is a no-op error-free
// call so the synchronizer can apply it idempotently on every sweep.
func (c *Convoy) ForceHold(now time.Time) bool {
	if c.status == EscortHold || c.status.IsTerminal() {
		return false
	}

	held := c.status
	c.heldFrom = &held
	c.status = EscortHold
	c.statusEnteredAt = now
	return true
}

// Resume lifts a hold. Convoys held while escorting reform through
// PositionRecovery; everything else returns to the interrupted status.
func (c *Convoy) Resume(now time.Time) error {
	if c.status != EscortHold || c.heldFrom == nil {
		return ErrConvoyNotHeld
	}

	target := *c.heldFrom
	if target == Escorting {
		target = PositionRecovery
	}

	c.status = target
	c.statusEnteredAt = now
	c.heldFrom = nil
	c.consecutiveSeparationAlerts = 0
	return nil
}

// RecordSeparation stores the latest lead/rear distances.
func (c *Convoy) RecordSeparation(leadM, rearM float64) error {
	if leadM < 0 || rearM < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"separation", fmt.Errorf("distances %v/%v must be non-negative", leadM, rearM))
	}
	c.leadDistanceM = leadM
	c.rearDistanceM = rearM
	return nil
}

// MarkSeparationAlert bumps the alert streak and returns the new count.
func (c *Convoy) MarkSeparationAlert() int {
	c.consecutiveSeparationAlerts++
	return c.consecutiveSeparationAlerts
}

// ClearSeparationAlerts resets the alert streak after an in-bounds reading.
func (c *Convoy) ClearSeparationAlerts() {
	c.consecutiveSeparationAlerts = 0
}
