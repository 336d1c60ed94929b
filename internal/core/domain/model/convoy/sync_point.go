package convoy

import (
	"time"

	"loadflow/internal/core/domain/model/load"
)

// Notification keys emitted when a sync point fires. The broadcast adapter
// maps keys to rendered messages; this package only declares them.
const (
	NotifyConvoyDeparting = "convoy_departing"
	NotifyConvoyFormed    = "convoy_formed"
	NotifyConvoyRolling   = "convoy_rolling"
	NotifyConvoyArrived   = "convoy_arrived"
	NotifyEscortComplete  = "escort_complete"
	NotifyEscortHold      = "escort_hold"
	NotifySeparationAlert = "separation_alert"
)

// SyncPoint pairs a primary-load state set with an escort status set. When
// both hold, the convoy advances to Advance and the declared notifications
// go out to every participant.
type SyncPoint struct {
	ID               string
	Name             string
	LoadStates       []load.State
	ConvoyStates     []Status
	Advance          Status
	NotificationKeys []string
	EffectKeys       []string

	// Timeout, when set, bounds how long the convoy may wait at this point
	// before EscalationAction is raised to operations.
	Timeout          time.Duration
	EscalationAction string
}

// Matches reports whether both preconditions hold.
func (p SyncPoint) Matches(loadState load.State, convoyStatus Status) bool {
	return containsState(p.LoadStates, loadState) && containsStatus(p.ConvoyStates, convoyStatus)
}

func containsState(set []load.State, s load.State) bool {
	for _, m := range set {
		if m == s {
			return true
		}
	}
	return false
}

func containsStatus(set []Status, s Status) bool {
	for _, m := range set {
		if m == s {
			return true
		}
	}
	return false
}

// SyncPoints returns the five synchronization points in evaluation order,
// gating the escort lifecycle from "both confirmed" through "all complete".
func SyncPoints() []SyncPoint {
	return []SyncPoint{
		{
			ID:   "departure_aligned",
			Name: "Departure Aligned",
			LoadStates: []load.State{
				load.Confirmed, load.EnRoutePickup,
			},
			ConvoyStates:     []Status{EscortConfirmed, Briefing},
			Advance:          EnRouteStaging,
			NotificationKeys: []string{NotifyConvoyDeparting},
			EffectKeys:       []string{load.ActionPublishLoadEvent},
			Timeout:          4 * time.Hour,
			EscalationAction: load.ActionAlertEmergencyOps,
		},
		{
			ID:   "convoy_formed",
			Name: "Convoy Formed",
			LoadStates: []load.State{
				load.AtPickup, load.PickupCheckin, load.Loading, load.Loaded,
			},
			ConvoyStates:     []Status{AtStaging},
			Advance:          ConvoyFormed,
			NotificationKeys: []string{NotifyConvoyFormed},
			EffectKeys:       []string{load.ActionPublishLoadEvent},
		},
		{
			ID:               "convoy_rolling",
			Name:             "Convoy Rolling",
			LoadStates:       []load.State{load.InTransit},
			ConvoyStates:     []Status{ConvoyFormed},
			Advance:          Escorting,
			NotificationKeys: []string{NotifyConvoyRolling},
			EffectKeys:       []string{load.ActionPublishLoadEvent},
		},
		{
			ID:   "convoy_arrived",
			Name: "Convoy Arrived",
			LoadStates: []load.State{
				load.AtDelivery, load.DeliveryCheckin,
			},
			ConvoyStates:     []Status{Escorting},
			Advance:          DeliveryStandby,
			NotificationKeys: []string{NotifyConvoyArrived},
			EffectKeys:       []string{load.ActionPublishLoadEvent},
		},
		{
			ID:   "all_complete",
			Name: "All Complete",
			LoadStates: []load.State{
				load.Delivered, load.Invoiced, load.Paid, load.Complete,
			},
			ConvoyStates:     []Status{DeliveryStandby, Debrief},
			Advance:          EscortComplete,
			NotificationKeys: []string{NotifyEscortComplete},
			EffectKeys:       []string{load.ActionPublishLoadEvent},
		},
	}
}

// FirstMatch returns the first sync point (in declared order) whose
// preconditions both hold, or false when none match.
func FirstMatch(loadState load.State, convoyStatus Status) (SyncPoint, bool) {
	for _, p := range SyncPoints() {
		if p.Matches(loadState, convoyStatus) {
			return p, true
		}
	}
	return SyncPoint{}, false
}

// PendingFor returns the sync point the convoy is waiting at: the first point
// (in declared order) whose escort statuses include the current one. The
// load side is deliberately not checked; a pending point is exactly one
// whose load precondition has not arrived yet.
func PendingFor(convoyStatus Status) (SyncPoint, bool) {
	for _, p := range SyncPoints() {
		if containsStatus(p.ConvoyStates, convoyStatus) {
			return p, true
		}
	}
	return SyncPoint{}, false
}
