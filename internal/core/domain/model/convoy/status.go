package convoy

import (
	"fmt"

	"loadflow/internal/pkg/errs"
)

// Status represents the escort machine's position in its lifecycle. The
// convoy synchronizer and escort participants move it through the adjacency
// map below; ForceHold is the only move allowed from outside the map.
type Status int

const (
	// StatusUnknown catches uninitialized Status values.
	StatusUnknown Status = iota

	// EscortRequested means the load owner asked for an escort.
	EscortRequested
	// EscortQuoted means an escort operator offered terms.
	EscortQuoted
	// EscortAccepted means the load owner accepted the quote.
	EscortAccepted
	// EscortDeclined is terminal: the quote was rejected.
	EscortDeclined
	// EscortConfirmed means both sides confirmed the escort plan.
	EscortConfirmed
	// Briefing means the pre-trip safety briefing is underway.
	Briefing
	// EnRouteStaging means escort vehicles are heading to the staging area.
	EnRouteStaging
	// AtStaging means escort vehicles arrived at staging.
	AtStaging
	// ConvoyFormed means the truck and escorts are marshalled together.
	ConvoyFormed
	// Escorting means the convoy is rolling with the load.
	Escorting
	// DeliveryStandby means the convoy is holding position at the delivery site.
	DeliveryStandby
	// Debrief means the post-trip debrief is underway.
	Debrief
	// EscortComplete is terminal: the escort assignment finished cleanly.
	EscortComplete
	// EscortHold means the convoy is frozen by a cargo exception or
	// separation escalation.
	EscortHold
	// PositionRecovery means the convoy is reforming after a separation hold.
	PositionRecovery
	// EscortCancelled is terminal: the assignment was aborted before rolling.
	EscortCancelled
	// EscortDisbanded is terminal: the convoy was broken up mid-assignment.
	EscortDisbanded

	statusCount
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "UNKNOWN",
		EscortRequested:  "ESCORT_REQUESTED",
		EscortQuoted:     "ESCORT_QUOTED",
		EscortAccepted:   "ESCORT_ACCEPTED",
		EscortDeclined:   "ESCORT_DECLINED",
		EscortConfirmed:  "ESCORT_CONFIRMED",
		Briefing:         "BRIEFING",
		EnRouteStaging:   "EN_ROUTE_STAGING",
		AtStaging:        "AT_STAGING",
		ConvoyFormed:     "CONVOY_FORMED",
		Escorting:        "ESCORTING",
		DeliveryStandby:  "DELIVERY_STANDBY",
		Debrief:          "DEBRIEF",
		EscortComplete:   "ESCORT_COMPLETE",
		EscortHold:       "ESCORT_HOLD",
		PositionRecovery: "POSITION_RECOVERY",
		EscortCancelled:  "ESCORT_CANCELLED",
		EscortDisbanded:  "ESCORT_DISBANDED",
	}
}

// String returns the wire name of the status, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate checks that the value is one of the enumerated statuses.
func (s Status) Validate() error {
	if s <= StatusUnknown || s >= statusCount {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid escort status", s))
	}
	return nil
}

// StatusFromString parses a wire-format status name.
func StatusFromString(name string) (Status, error) {
	for s, str := range statusStrings() {
		if s != StatusUnknown && str == name {
			return s, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid escort status", name))
}

// IsTerminal reports whether the status is an end state of the escort
// machine. Terminal convoys are archived and never re-evaluated.
func (s Status) IsTerminal() bool {
	switch s {
	case EscortDeclined, EscortComplete, EscortCancelled, EscortDisbanded:
		return true
	default:
		return false
	}
}

// allowedTransitions is the escort machine's adjacency map. ForceHold is
// handled separately: EscortHold is reachable from any non-terminal status.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		EscortRequested:  {EscortQuoted, EscortCancelled},
		EscortQuoted:     {EscortAccepted, EscortDeclined, EscortCancelled},
		EscortAccepted:   {EscortConfirmed, EscortCancelled},
		EscortConfirmed:  {Briefing, EnRouteStaging, EscortCancelled},
		Briefing:         {EnRouteStaging, EscortCancelled},
		EnRouteStaging:   {AtStaging, EscortCancelled},
		AtStaging:        {ConvoyFormed, EscortCancelled},
		ConvoyFormed:     {Escorting, EscortCancelled, EscortDisbanded},
		Escorting:        {DeliveryStandby, EscortDisbanded},
		DeliveryStandby:  {Debrief, EscortComplete, EscortDisbanded},
		Debrief:          {EscortComplete},
		PositionRecovery: {Escorting, EscortDisbanded},
	}
}

// CanTransitionTo reports whether the adjacency map permits moving from s to
// target. Holds and resumes bypass this check through the aggregate methods.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}
