package load

import (
	"errors"
	"fmt"
	"time"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/pkg/errs"
)

var (
	// ErrLoadIsNotConstructed is returned when a Load instance was not created
	// through NewLoad or RestoreLoad.
	ErrLoadIsNotConstructed = errors.New("Load must be created via NewLoad or RestoreLoad constructor")

	// ErrTransitionNotApplicable is returned by ApplyTransition when the
	// definition's from set does not contain the load's current state.
	ErrTransitionNotApplicable = errors.New("transition does not originate from the load's current state")
)

// Documents carries the document flags the lifecycle guards inspect.
type Documents struct {
	BOLSigned    bool
	PODPhoto     bool
	PODSignature bool
	SealRecorded bool
}

// Timers carries the billable-waiting timer flags. Only start/stop events are
// tracked here; rate computation lives outside this core.
type Timers struct {
	Detention bool
	Demurrage bool
	Layover   bool
}

// Load is the primary aggregate: a single freight shipment tracked through
// the 32-state lifecycle.
//
// Invariants:
//   - state is always a member of the enumerated state set
//   - state changes only through ApplyTransition with a catalog definition,
//     driven by the transition engine
//   - stateEnteredAt always reflects the moment the current state was entered
//     (the scheduler computes timeouts from the persisted value)
//   - version supports the optimistic per-entity write serialization; the
//     repository bumps it on every committed state change
type Load struct {
	id             kernel.UUID
	state          State
	stateEnteredAt time.Time
	version        int64

	shipperID  kernel.UUID
	catalystID *kernel.UUID
	driverID   *kernel.UUID

	documents Documents
	timers    Timers

	isConstructed bool
}

// NewLoad creates a load in Draft owned by the given shipper.
func NewLoad(id, shipperID kernel.UUID, now time.Time) (*Load, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := shipperID.Validate(); err != nil {
		return nil, err
	}

	return &Load{
		id:             id,
		state:          Draft,
		stateEnteredAt: now,
		shipperID:      shipperID,
		isConstructed:  true,
	}, nil
}

// RestoreLoad reconstructs a load from persistence. All invariants are
// re-validated so a corrupted row cannot produce a usable aggregate.
func RestoreLoad(
	id kernel.UUID,
	state State,
	stateEnteredAt time.Time,
	version int64,
	shipperID kernel.UUID,
	catalystID *kernel.UUID,
	driverID *kernel.UUID,
	documents Documents,
	timers Timers,
) (*Load, error) {
	if err := errors.Join(id.Validate(), state.Validate(), shipperID.Validate()); err != nil {
		return nil, err
	}
	if stateEnteredAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("stateEnteredAt")
	}
	if version < 0 {
		return nil, errs.NewVersionIsInvalidError("version", fmt.Errorf("%d is negative", version))
	}

	return &Load{
		id:             id,
		state:          state,
		stateEnteredAt: stateEnteredAt,
		version:        version,
		shipperID:      shipperID,
		catalystID:     catalystID,
		driverID:       driverID,
		documents:      documents,
		timers:         timers,
		isConstructed:  true,
	}, nil
}

// Validate ensures the load was built through a constructor.
func (l *Load) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLoadIsNotConstructed
	}
	return nil
}

// ID returns the load's unique identifier.
func (l *Load) ID() kernel.UUID {
	return l.id
}

// State returns the current lifecycle state.
func (l *Load) State() State {
	return l.state
}

// StateEnteredAt returns when the current state was entered.
func (l *Load) StateEnteredAt() time.Time {
	return l.stateEnteredAt
}

// Version returns the optimistic-concurrency version.
func (l *Load) Version() int64 {
	return l.version
}

// ShipperID returns the owning shipper.
func (l *Load) ShipperID() kernel.UUID {
	return l.shipperID
}

// CatalystID returns the assigned carrier, nil when unassigned.
func (l *Load) CatalystID() *kernel.UUID {
	return l.catalystID
}

// DriverID returns the assigned driver, nil when unassigned.
func (l *Load) DriverID() *kernel.UUID {
	return l.driverID
}

// ParticipantIDs resolves recipient roles to the load's actor refs so
// notifications reach each participant on their own channel. Roles with no
// ref on the load (an unassigned carrier or driver, escort and system roles)
// resolve to nothing.
func (l *Load) ParticipantIDs(roles RoleSet) []kernel.UUID {
	var ids []kernel.UUID
	for _, r := range roles.Members() {
		switch r {
		case RoleShipper:
			ids = append(ids, l.shipperID)
		case RoleCatalyst:
			if l.catalystID != nil {
				ids = append(ids, *l.catalystID)
			}
		case RoleDriver:
			if l.driverID != nil {
				ids = append(ids, *l.driverID)
			}
		}
	}
	return ids
}

// Documents returns the current document flags.
func (l *Load) Documents() Documents {
	return l.documents
}

// Timers returns the current timer flags.
func (l *Load) Timers() Timers {
	return l.timers
}

// TimeInState returns how long the load has sat in its current state.
func (l *Load) TimeInState(now time.Time) time.Duration {
	return now.Sub(l.stateEnteredAt)
}

// AutoTransitionDue reports whether the current state declares an
// auto-transition whose timeout has elapsed, and the transition id to fire.
func (l *Load) AutoTransitionDue(now time.Time) (string, bool) {
	m, ok := Metadata(l.state)
	if !ok || m.Auto == nil {
		return "", false
	}
	if l.TimeInState(now) < m.Auto.After {
		return "", false
	}
	return m.Auto.TransitionID, true
}

// ApplyTransition moves the load to the definition's target state. The
// engine calls this only after role and guard checks pass; the method still
// re-checks the from set so a stale definition can never corrupt state.
func (l *Load) ApplyTransition(def TransitionDefinition, at time.Time) error {
	if !def.FromContains(l.state) {
		return fmt.Errorf("%w: %s from %s", ErrTransitionNotApplicable, def.ID, l.state)
	}

	l.state = def.To
	l.stateEnteredAt = at
	return nil
}

// AssignCatalyst records the carrier awarded the load.
func (l *Load) AssignCatalyst(catalystID kernel.UUID) error {
	if err := catalystID.Validate(); err != nil {
		return err
	}
	l.catalystID = &catalystID
	return nil
}

// AssignDriver records the driver executing the load.
func (l *Load) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	l.driverID = &driverID
	return nil
}

// RecordDocument flips the flag for a collected document.
func (l *Load) RecordDocument(kind DocumentKind) error {
	switch kind {
	case DocumentBOL:
		l.documents.BOLSigned = true
	case DocumentPODPhoto:
		l.documents.PODPhoto = true
	case DocumentPODSignature:
		l.documents.PODSignature = true
	case DocumentSealLog:
		l.documents.SealRecorded = true
	default:
		return errs.NewValueIsInvalidErrorWithCause("document", fmt.Errorf("%q is not a known document kind", kind))
	}
	return nil
}

// SetTimer starts or stops a billable-waiting timer by effect action name.
// Unknown actions are rejected so a catalog typo surfaces loudly.
func (l *Load) SetTimer(action string) error {
	switch action {
	case ActionStartDetentionTimer:
		l.timers.Detention = true
	case ActionStopDetentionTimer:
		l.timers.Detention = false
	case ActionStartDemurrageTimer:
		l.timers.Demurrage = true
	case ActionStopDemurrageTimer:
		l.timers.Demurrage = false
	case ActionStartLayoverTimer:
		l.timers.Layover = true
	case ActionStopLayoverTimer:
		l.timers.Layover = false
	default:
		return errs.NewValueIsInvalidErrorWithCause("timer", fmt.Errorf("%q is not a timer action", action))
	}
	return nil
}

// HasDocuments reports whether every required document flag is set.
func (l *Load) HasDocuments(kinds []DocumentKind) bool {
	for _, k := range kinds {
		switch k {
		case DocumentBOL:
			if !l.documents.BOLSigned {
				return false
			}
		case DocumentPODPhoto:
			if !l.documents.PODPhoto {
				return false
			}
		case DocumentPODSignature:
			if !l.documents.PODSignature {
				return false
			}
		case DocumentSealLog:
			if !l.documents.SealRecorded {
				return false
			}
		}
	}
	return true
}
