package load

import (
	"fmt"
	"sort"
)

// transitionDefinitions returns the full declarative catalog. The flat list
// is rebuilt into indexed form by NewCatalog; nothing reads it directly.
func transitionDefinitions() []TransitionDefinition {
	notifyAll := Roles(RoleShipper, RoleCatalyst, RoleDriver)

	notify := func(recipients RoleSet) Effect {
		return Effect{Kind: EffectKindNotification, Action: ActionNotifyStatusChange, Recipients: recipients}
	}
	broadcast := func() Effect {
		return Effect{Kind: EffectKindWebsocket, Action: ActionBroadcastLoadChannel}
	}
	critical := func(recipients RoleSet) Effect {
		return Effect{Kind: EffectKindNotification, Action: ActionNotifyCritical, Recipients: recipients}
	}

	return []TransitionDefinition{
		// Creation and bidding.
		{
			ID: "post_load", From: []State{Draft}, To: Posted,
			Trigger: TriggerUserAction, Allowed: Roles(RoleShipper, RoleAdmin), Priority: 10,
			Effects: []Effect{broadcast()},
		},
		{
			ID: "withdraw_posting", From: []State{Posted}, To: Draft,
			Trigger: TriggerUserAction, Allowed: Roles(RoleShipper, RoleAdmin), Priority: 20,
			Effects: []Effect{broadcast()},
		},
		{
			ID: "place_bid", From: []State{Posted}, To: Bidding,
			Trigger: TriggerExternalEvent, Allowed: Roles(RoleCatalyst, RoleSystem), Priority: 10,
			Effects: []Effect{notify(Roles(RoleShipper)), broadcast()},
		},
		{
			ID: "award_load", From: []State{Bidding}, To: Awarded,
			Trigger: TriggerUserAction, Allowed: Roles(RoleShipper, RoleAdmin), Priority: 10,
			Guards: []Guard{
				{Check: CheckEscrowFunded, Kind: GuardKindApproval, Message: "escrow must be funded before awarding"},
			},
			Effects: []Effect{
				{Kind: EffectKindFinancial, Action: ActionHoldEscrow},
				notify(Roles(RoleCatalyst)),
				{Kind: EffectKindEmail, Action: ActionEmailRateConfirmation, Recipients: Roles(RoleCatalyst)},
			},
		},
		{
			ID: "accept_award", From: []State{Awarded}, To: Accepted,
			Trigger: TriggerUserAction, Allowed: Roles(RoleCatalyst), Priority: 10,
			Guards: []Guard{
				{Check: CheckCarrierAuthorityActive, Kind: GuardKindData, Message: "carrier operating authority is not active"},
			},
			Effects: []Effect{notify(Roles(RoleShipper))},
		},
		{
			ID: "decline_award", From: []State{Awarded}, To: Declined,
			Trigger: TriggerUserAction, Allowed: Roles(RoleCatalyst), Priority: 20,
			Effects: []Effect{notify(Roles(RoleShipper))},
		},
		{
			ID: "repost_load", From: []State{Declined, Lapsed}, To: Posted,
			Trigger: TriggerUserAction, Allowed: Roles(RoleShipper, RoleAdmin), Priority: 10,
			Effects: []Effect{broadcast()},
		},

		// Assignment.
		{
			ID: "assign_driver", From: []State{Accepted}, To: Assigned,
			Trigger: TriggerUserAction, Allowed: Roles(RoleCatalyst, RoleAdmin), Priority: 10,
			Guards: []Guard{
				{Check: CheckHOSAvailable, Kind: GuardKindHOS, Message: "driver has insufficient hours of service"},
				{Check: CheckCarrierAuthorityActive, Kind: GuardKindData, Message: "carrier operating authority is not active"},
			},
			Effects: []Effect{notify(Roles(RoleDriver, RoleShipper))},
		},
		{
			// Explicit self-loop: swapping the driver keeps the load ASSIGNED.
			ID: "reassign_driver", From: []State{Assigned}, To: Assigned,
			Trigger: TriggerUserAction, Allowed: Roles(RoleCatalyst, RoleAdmin), Priority: 20,
			Guards: []Guard{
				{Check: CheckHOSAvailable, Kind: GuardKindHOS, Message: "driver has insufficient hours of service"},
			},
			Effects: []Effect{notify(Roles(RoleDriver, RoleShipper))},
		},
		{
			ID: "confirm_load", From: []State{Assigned}, To: Confirmed,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver), Priority: 10,
			Guards: []Guard{
				{Check: CheckHOSAvailable, Kind: GuardKindHOS, Message: "driver has insufficient hours of service"},
			},
			Effects: []Effect{notify(Roles(RoleShipper, RoleCatalyst))},
		},

		// Pickup leg.
		{
			ID: "depart_for_pickup", From: []State{Confirmed}, To: EnRoutePickup,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver), Priority: 10,
			Effects: []Effect{notify(Roles(RoleShipper, RoleCatalyst)), broadcast()},
		},
		{
			ID: "arrive_pickup", From: []State{EnRoutePickup}, To: AtPickup,
			Trigger: TriggerGeofence, Allowed: Roles(RoleDriver, RoleSystem), Priority: 10,
			Guards: []Guard{
				{Check: CheckWithinPickupGeofence, Kind: GuardKindLocation, Message: "vehicle is not inside the pickup geofence"},
			},
			Effects: []Effect{
				{Kind: EffectKindDatabase, Action: ActionStartDetentionTimer},
				notify(Roles(RoleShipper)),
			},
		},
		{
			// Manual fallback when positioning is unavailable at the terminal.
			ID: "arrive_pickup_manual", From: []State{EnRoutePickup}, To: AtPickup,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver, RoleAdmin), Priority: 30,
			Effects: []Effect{
				{Kind: EffectKindDatabase, Action: ActionStartDetentionTimer},
				notify(Roles(RoleShipper)),
			},
		},
		{
			ID: "pickup_checkin", From: []State{AtPickup}, To: PickupCheckin,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver), Priority: 10,
			Effects: []Effect{notify(Roles(RoleShipper))},
		},
		{
			ID: "begin_loading", From: []State{PickupCheckin}, To: Loading,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver, RoleShipper), Priority: 10,
		},
		{
			ID: "finish_loading", From: []State{Loading}, To: Loaded,
			Trigger: TriggerDocumentEvent, Allowed: Roles(RoleDriver, RoleShipper), Priority: 10,
			Guards: []Guard{
				{Check: CheckSealRecorded, Kind: GuardKindDocument, Message: "seal numbers must be recorded before departure"},
			},
			Effects: []Effect{
				{Kind: EffectKindDatabase, Action: ActionStopDetentionTimer},
				notify(Roles(RoleShipper, RoleCatalyst)),
			},
		},
		{
			ID: "begin_transit", From: []State{Loaded}, To: InTransit,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver), Priority: 10,
			Guards: []Guard{
				{Check: CheckBOLSigned, Kind: GuardKindDocument, Message: "bill of lading must be signed before transit"},
			},
			Effects: []Effect{
				notify(notifyAll),
				broadcast(),
				{Kind: EffectKindIntegration, Action: ActionPublishLoadEvent},
			},
		},

		// Delivery leg.
		{
			ID: "arrive_delivery", From: []State{InTransit}, To: AtDelivery,
			Trigger: TriggerGeofence, Allowed: Roles(RoleDriver, RoleSystem), Priority: 10,
			Guards: []Guard{
				{Check: CheckWithinDeliveryGeofence, Kind: GuardKindLocation, Message: "vehicle is not inside the delivery geofence"},
			},
			Effects: []Effect{
				{Kind: EffectKindDatabase, Action: ActionStartDemurrageTimer},
				notify(Roles(RoleShipper)),
				broadcast(),
			},
		},
		{
			ID: "arrive_delivery_manual", From: []State{InTransit}, To: AtDelivery,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver, RoleAdmin), Priority: 30,
			Effects: []Effect{
				{Kind: EffectKindDatabase, Action: ActionStartDemurrageTimer},
				notify(Roles(RoleShipper)),
			},
		},
		{
			ID: "delivery_checkin", From: []State{AtDelivery}, To: DeliveryCheckin,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver), Priority: 10,
			Effects: []Effect{notify(Roles(RoleShipper))},
		},
		{
			ID: "begin_unloading", From: []State{DeliveryCheckin}, To: Unloading,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver, RoleShipper), Priority: 10,
		},
		{
			ID: "finish_unloading", From: []State{Unloading}, To: Unloaded,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver, RoleShipper), Priority: 10,
			Effects: []Effect{
				{Kind: EffectKindDatabase, Action: ActionStopDemurrageTimer},
				notify(Roles(RoleShipper, RoleCatalyst)),
			},
		},
		{
			ID: "request_pod", From: []State{Unloaded}, To: PodPending,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver, RoleSystem), Priority: 10,
			Effects: []Effect{
				{Kind: EffectKindDocument, Action: ActionRequestPODDocuments, Recipients: Roles(RoleDriver)},
			},
		},
		{
			ID: "confirm_delivery", From: []State{PodPending}, To: Delivered,
			Trigger: TriggerDocumentEvent, Allowed: Roles(RoleDriver, RoleCatalyst), Priority: 10,
			Guards: []Guard{
				{Check: CheckPODComplete, Kind: GuardKindDocument, Message: "proof of delivery photo and signature are required"},
			},
			Effects: []Effect{
				{Kind: EffectKindFinancial, Action: ActionReleaseEscrow},
				notify(notifyAll),
				broadcast(),
				{Kind: EffectKindIntegration, Action: ActionPublishLoadEvent},
			},
		},

		// Settlement.
		{
			ID: "issue_invoice", From: []State{Delivered}, To: Invoiced,
			Trigger: TriggerPaymentEvent, Allowed: Roles(RoleCatalyst, RoleAdmin), Priority: 10,
			Guards: []Guard{
				{Check: CheckRateConfirmed, Kind: GuardKindApproval, Message: "rate confirmation is missing"},
			},
			Effects: []Effect{
				{Kind: EffectKindDocument, Action: ActionGenerateInvoice},
				notify(Roles(RoleShipper)),
			},
		},
		{
			ID: "auto_invoice", From: []State{Delivered}, To: Invoiced,
			Trigger: TriggerTimeout, Allowed: Roles(RoleSystem), Priority: 50,
			Guards: []Guard{
				{Check: CheckRateConfirmed, Kind: GuardKindApproval, Message: "rate confirmation is missing"},
			},
			Effects: []Effect{
				{Kind: EffectKindDocument, Action: ActionGenerateInvoice},
				notify(Roles(RoleShipper, RoleCatalyst)),
			},
		},
		{
			ID: "record_payment", From: []State{Invoiced}, To: Paid,
			Trigger: TriggerPaymentEvent, Allowed: Roles(RoleShipper, RoleAdmin), Priority: 10,
			Guards: []Guard{
				{Check: CheckPaymentCleared, Kind: GuardKindApproval, Message: "payment has not cleared"},
			},
			Effects: []Effect{
				{Kind: EffectKindFinancial, Action: ActionPostLedgerEntry},
				notify(Roles(RoleCatalyst)),
			},
		},
		{
			ID: "dispute_invoice", From: []State{Invoiced}, To: OnHold,
			Trigger: TriggerUserAction, Allowed: Roles(RoleShipper, RoleAdmin), Priority: 30,
			Effects: []Effect{critical(Roles(RoleCatalyst, RoleShipper))},
		},
		{
			ID: "close_load", From: []State{Paid}, To: Complete,
			Trigger: TriggerUserAction, Allowed: Roles(RoleShipper, RoleAdmin), Priority: 10,
			Effects: []Effect{
				notify(notifyAll),
				{Kind: EffectKindIntegration, Action: ActionPublishLoadEvent},
			},
		},
		{
			ID: "auto_complete", From: []State{Paid}, To: Complete,
			Trigger: TriggerTimeout, Allowed: Roles(RoleSystem), Priority: 50,
			Effects: []Effect{
				{Kind: EffectKindIntegration, Action: ActionPublishLoadEvent},
			},
		},
		{
			ID: "force_complete", From: []State{Delivered, Invoiced, Paid}, To: Complete,
			Trigger: TriggerApproval, Allowed: Roles(RoleAdmin), Priority: 90,
			Effects: []Effect{notify(notifyAll)},
		},

		// Expiry and lapse (scheduler-driven).
		{
			ID: "expire_posting", From: []State{Posted}, To: Expired,
			Trigger: TriggerTimeout, Allowed: Roles(RoleSystem), Priority: 50,
			Effects: []Effect{notify(Roles(RoleShipper))},
		},
		{
			ID: "expire_bidding", From: []State{Bidding}, To: Expired,
			Trigger: TriggerTimeout, Allowed: Roles(RoleSystem), Priority: 50,
			Effects: []Effect{notify(Roles(RoleShipper))},
		},
		{
			ID: "lapse_award", From: []State{Awarded}, To: Lapsed,
			Trigger: TriggerTimeout, Allowed: Roles(RoleSystem), Priority: 50,
			Effects: []Effect{notify(Roles(RoleShipper, RoleCatalyst))},
		},
		{
			ID: "lapse_acceptance", From: []State{Accepted}, To: Lapsed,
			Trigger: TriggerTimeout, Allowed: Roles(RoleSystem), Priority: 50,
			Effects: []Effect{notify(Roles(RoleShipper, RoleCatalyst))},
		},

		// Cargo and mechanical exceptions.
		{
			ID: "report_seal_breach", From: []State{Loaded, InTransit, AtDelivery}, To: SealBreach,
			Trigger: TriggerException, Allowed: Roles(RoleDriver, RoleEscort, RoleAdmin), Priority: 30,
			Effects: []Effect{
				critical(notifyAll),
				{Kind: EffectKindWebsocket, Action: ActionAlertEmergencyOps},
				{Kind: EffectKindIntegration, Action: ActionPublishLoadEvent},
			},
		},
		{
			ID:      "report_temperature_excursion",
			From:    []State{Loading, Loaded, InTransit, AtDelivery, Unloading},
			To:      TemperatureExcursion,
			Trigger: TriggerException, Allowed: Roles(RoleDriver, RoleEscort, RoleAdmin, RoleSystem), Priority: 30,
			Effects: []Effect{
				critical(notifyAll),
				{Kind: EffectKindWebsocket, Action: ActionAlertEmergencyOps},
				{Kind: EffectKindIntegration, Action: ActionPublishLoadEvent},
			},
		},
		{
			ID:      "report_contamination",
			From:    []State{Loading, Loaded, InTransit, Unloading},
			To:      Contamination,
			Trigger: TriggerException, Allowed: Roles(RoleDriver, RoleEscort, RoleAdmin), Priority: 30,
			Effects: []Effect{
				critical(notifyAll),
				{Kind: EffectKindWebsocket, Action: ActionAlertEmergencyOps},
				{Kind: EffectKindIntegration, Action: ActionPublishLoadEvent},
			},
		},
		{
			ID: "report_weight_violation", From: []State{Loaded, InTransit}, To: WeightViolation,
			Trigger: TriggerException, Allowed: Roles(RoleDriver, RoleEscort, RoleAdmin), Priority: 30,
			Effects: []Effect{
				critical(notifyAll),
				{Kind: EffectKindWebsocket, Action: ActionAlertEmergencyOps},
			},
		},
		{
			ID: "report_breakdown", From: []State{EnRoutePickup, InTransit}, To: Breakdown,
			Trigger: TriggerException, Allowed: Roles(RoleDriver, RoleCatalyst, RoleAdmin), Priority: 30,
			Effects: []Effect{
				critical(notifyAll),
				{Kind: EffectKindDatabase, Action: ActionStartLayoverTimer},
			},
		},

		// Exception clearance (operations approval required).
		{
			ID: "clear_seal_breach", From: []State{SealBreach}, To: InTransit,
			Trigger: TriggerApproval, Allowed: Roles(RoleAdmin), Priority: 10,
			Guards: []Guard{
				{Check: CheckExceptionCleared, Kind: GuardKindApproval, Message: "exception has not been cleared by operations"},
			},
			Effects: []Effect{notify(notifyAll), broadcast()},
		},
		{
			ID: "clear_temperature_excursion", From: []State{TemperatureExcursion}, To: InTransit,
			Trigger: TriggerApproval, Allowed: Roles(RoleAdmin), Priority: 10,
			Guards: []Guard{
				{Check: CheckExceptionCleared, Kind: GuardKindApproval, Message: "exception has not been cleared by operations"},
			},
			Effects: []Effect{notify(notifyAll), broadcast()},
		},
		{
			ID: "clear_contamination", From: []State{Contamination}, To: InTransit,
			Trigger: TriggerApproval, Allowed: Roles(RoleAdmin), Priority: 10,
			Guards: []Guard{
				{Check: CheckExceptionCleared, Kind: GuardKindApproval, Message: "exception has not been cleared by operations"},
			},
			Effects: []Effect{notify(notifyAll), broadcast()},
		},
		{
			ID: "clear_weight_violation", From: []State{WeightViolation}, To: InTransit,
			Trigger: TriggerApproval, Allowed: Roles(RoleAdmin), Priority: 10,
			Guards: []Guard{
				{Check: CheckExceptionCleared, Kind: GuardKindApproval, Message: "exception has not been cleared by operations"},
			},
			Effects: []Effect{notify(notifyAll), broadcast()},
		},
		{
			ID: "resolve_breakdown", From: []State{Breakdown}, To: InTransit,
			Trigger: TriggerUserAction, Allowed: Roles(RoleDriver, RoleCatalyst, RoleAdmin), Priority: 10,
			Effects: []Effect{
				{Kind: EffectKindDatabase, Action: ActionStopLayoverTimer},
				notify(notifyAll),
			},
		},

		// Hold and cancel. Wide from sets, no special pre-emption: an abort
		// wins the per-entity serialization like any other attempt.
		{
			ID: "hold_load",
			From: []State{
				EnRoutePickup, AtPickup, PickupCheckin, Loading, Loaded,
				InTransit, AtDelivery, DeliveryCheckin, Unloading, Unloaded,
				PodPending, Invoiced,
			},
			To:      OnHold,
			Trigger: TriggerUserAction, Allowed: Roles(RoleAdmin), Priority: 90,
			Effects: []Effect{critical(notifyAll), broadcast()},
		},
		{
			ID: "release_hold_transit", From: []State{OnHold}, To: InTransit,
			Trigger: TriggerUserAction, Allowed: Roles(RoleAdmin), Priority: 10,
			Effects: []Effect{notify(notifyAll), broadcast()},
		},
		{
			ID: "release_hold_confirmed", From: []State{OnHold}, To: Confirmed,
			Trigger: TriggerUserAction, Allowed: Roles(RoleAdmin), Priority: 20,
			Effects: []Effect{notify(notifyAll)},
		},
		{
			ID: "cancel_load",
			From: []State{
				Draft, Posted, Bidding, Awarded, Accepted, Assigned, Confirmed,
			},
			To:      Cancelled,
			Trigger: TriggerUserAction, Allowed: Roles(RoleShipper, RoleAdmin), Priority: 90,
			Effects: []Effect{notify(notifyAll), broadcast()},
		},
		{
			ID: "cancel_load_admin",
			From: []State{
				Draft, Posted, Bidding, Declined, Lapsed,
				Awarded, Accepted, Assigned, Confirmed,
				EnRoutePickup, AtPickup, PickupCheckin, Loading, Loaded,
				InTransit, AtDelivery, DeliveryCheckin, Unloading, Unloaded,
				PodPending, Delivered, Invoiced, Paid,
				OnHold, SealBreach, TemperatureExcursion, Contamination,
				WeightViolation, Breakdown,
			},
			To:      Cancelled,
			Trigger: TriggerUserAction, Allowed: Roles(RoleAdmin), Priority: 99,
			Effects: []Effect{
				critical(notifyAll),
				broadcast(),
				{Kind: EffectKindFinancial, Action: ActionReleaseEscrow},
			},
		},
	}
}

// Catalog is the startup-built index over the transition definitions: an
// arena of definitions plus lookup maps keyed by id and by source state.
// Built once, never mutated at runtime.
type Catalog struct {
	definitions []TransitionDefinition
	byID        map[string]int
	byFrom      map[State][]int
}

// NewCatalog builds and validates the catalog. It rejects duplicate ids,
// malformed definitions, transitions out of final states, and dangling
// auto-transition references in the state metadata.
func NewCatalog() (*Catalog, error) {
	defs := transitionDefinitions()

	c := &Catalog{
		definitions: defs,
		byID:        make(map[string]int, len(defs)),
		byFrom:      make(map[State][]int),
	}

	for i, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate transition id %s", def.ID)
		}
		c.byID[def.ID] = i

		for _, from := range def.From {
			if from.IsFinal() {
				return nil, fmt.Errorf("transition %s originates from final state %s", def.ID, from)
			}
			c.byFrom[from] = append(c.byFrom[from], i)
		}
	}

	// Lower priority sorts first; id breaks ties so ordering is stable
	// across process restarts.
	for _, indices := range c.byFrom {
		sort.SliceStable(indices, func(a, b int) bool {
			da, db := defs[indices[a]], defs[indices[b]]
			if da.Priority != db.Priority {
				return da.Priority < db.Priority
			}
			return da.ID < db.ID
		})
	}

	for _, s := range AllStates() {
		m, ok := Metadata(s)
		if !ok || m.Auto == nil {
			continue
		}
		def, found := c.byID[m.Auto.TransitionID]
		if !found {
			return nil, fmt.Errorf("state %s references unknown auto-transition %s", s, m.Auto.TransitionID)
		}
		if !defs[def].FromContains(s) {
			return nil, fmt.Errorf("auto-transition %s cannot fire from %s", m.Auto.TransitionID, s)
		}
	}

	return c, nil
}

// Definition returns the transition with the given id.
func (c *Catalog) Definition(id string) (TransitionDefinition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return TransitionDefinition{}, false
	}
	return c.definitions[i], true
}

// TransitionsFrom returns every definition that can fire from the given
// state, ordered by ascending display priority.
func (c *Catalog) TransitionsFrom(s State) []TransitionDefinition {
	indices := c.byFrom[s]
	out := make([]TransitionDefinition, 0, len(indices))
	for _, i := range indices {
		out = append(out, c.definitions[i])
	}
	return out
}

// TransitionsFromForRole filters TransitionsFrom down to definitions the
// given actor role may request, preserving priority order.
func (c *Catalog) TransitionsFromForRole(s State, r Role) []TransitionDefinition {
	var out []TransitionDefinition
	for _, i := range c.byFrom[s] {
		if c.definitions[i].AllowsRole(r) {
			out = append(out, c.definitions[i])
		}
	}
	return out
}

// IsValidTransition reports whether some definition moves from -> to.
// Self-loops are only valid when explicitly defined.
func (c *Catalog) IsValidTransition(from, to State) bool {
	for _, i := range c.byFrom[from] {
		if c.definitions[i].To == to {
			return true
		}
	}
	return false
}

// Definitions returns the whole arena in declaration order, for closure
// tests and documentation tooling.
func (c *Catalog) Definitions() []TransitionDefinition {
	out := make([]TransitionDefinition, len(c.definitions))
	copy(out, c.definitions)
	return out
}

// Len returns the number of definitions in the catalog.
func (c *Catalog) Len() int {
	return len(c.definitions)
}
