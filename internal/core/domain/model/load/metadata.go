package load

import "time"

// DocumentKind names a document the lifecycle can require or record.
type DocumentKind string

const (
	DocumentBOL          DocumentKind = "bill_of_lading"
	DocumentPODPhoto     DocumentKind = "pod_photo"
	DocumentPODSignature DocumentKind = "pod_signature"
	DocumentSealLog      DocumentKind = "seal_log"
)

// AutoTransition declares a timeout-driven transition for a state. The
// scheduler fires TransitionID once a load has sat in the state longer than
// After, measured from the persisted state-entry timestamp.
type AutoTransition struct {
	TransitionID string
	After        time.Duration
}

// StateMetadata is the per-state descriptor: category, display info, actor
// roles, GPS requirement, required documents, optional auto-transition and
// the final/exception flags.
type StateMetadata struct {
	State             State
	Category          Category
	DisplayName       string
	PrimaryRole       Role
	AllowedRoles      RoleSet
	RequiresGPS       bool
	RequiredDocuments []DocumentKind
	Auto              *AutoTransition
	IsFinal           bool
	IsException       bool
}

// cargoExceptionStates is the subset of exception states that force a linked
// convoy into ESCORT_HOLD regardless of sync-point progress.
var cargoExceptionStates = map[State]bool{
	SealBreach:           true,
	TemperatureExcursion: true,
	Contamination:        true,
	WeightViolation:      true,
}

// IsCargoException reports whether the state is one of the cargo-integrity
// exceptions (seal breach, temperature, contamination, weight).
func (s State) IsCargoException() bool {
	return cargoExceptionStates[s]
}

func stateMetadata() map[State]StateMetadata {
	operational := Roles(RoleShipper, RoleCatalyst, RoleDriver, RoleAdmin, RoleSystem)

	return map[State]StateMetadata{
		Draft: {
			State: Draft, Category: CategoryCreation, DisplayName: "Draft",
			PrimaryRole: RoleShipper, AllowedRoles: Roles(RoleShipper, RoleAdmin),
		},
		Posted: {
			State: Posted, Category: CategoryCreation, DisplayName: "Posted to Load Board",
			PrimaryRole: RoleShipper, AllowedRoles: Roles(RoleShipper, RoleCatalyst, RoleAdmin, RoleSystem),
			Auto: &AutoTransition{TransitionID: "expire_posting", After: 72 * time.Hour},
		},
		Bidding: {
			State: Bidding, Category: CategoryCreation, DisplayName: "Bidding Open",
			PrimaryRole: RoleShipper, AllowedRoles: Roles(RoleShipper, RoleCatalyst, RoleAdmin, RoleSystem),
			Auto: &AutoTransition{TransitionID: "expire_bidding", After: 120 * time.Hour},
		},
		Expired: {
			State: Expired, Category: CategoryCreation, DisplayName: "Posting Expired",
			PrimaryRole: RoleShipper, AllowedRoles: Roles(RoleShipper, RoleAdmin),
			IsFinal: true,
		},
		Declined: {
			State: Declined, Category: CategoryCreation, DisplayName: "Award Declined",
			PrimaryRole: RoleShipper, AllowedRoles: Roles(RoleShipper, RoleAdmin),
		},
		Lapsed: {
			State: Lapsed, Category: CategoryCreation, DisplayName: "Award Lapsed",
			PrimaryRole: RoleShipper, AllowedRoles: Roles(RoleShipper, RoleAdmin),
		},
		Awarded: {
			State: Awarded, Category: CategoryAssignment, DisplayName: "Awarded",
			PrimaryRole: RoleCatalyst, AllowedRoles: Roles(RoleShipper, RoleCatalyst, RoleAdmin, RoleSystem),
			Auto: &AutoTransition{TransitionID: "lapse_award", After: 24 * time.Hour},
		},
		Accepted: {
			State: Accepted, Category: CategoryAssignment, DisplayName: "Accepted by Carrier",
			PrimaryRole: RoleCatalyst, AllowedRoles: Roles(RoleShipper, RoleCatalyst, RoleAdmin, RoleSystem),
			Auto: &AutoTransition{TransitionID: "lapse_acceptance", After: 48 * time.Hour},
		},
		Assigned: {
			State: Assigned, Category: CategoryAssignment, DisplayName: "Driver Assigned",
			PrimaryRole: RoleDriver, AllowedRoles: Roles(RoleCatalyst, RoleDriver, RoleAdmin),
		},
		Confirmed: {
			State: Confirmed, Category: CategoryAssignment, DisplayName: "Trip Confirmed",
			PrimaryRole: RoleDriver, AllowedRoles: Roles(RoleCatalyst, RoleDriver, RoleAdmin),
		},
		EnRoutePickup: {
			State: EnRoutePickup, Category: CategoryExecution, DisplayName: "En Route to Pickup",
			PrimaryRole: RoleDriver, AllowedRoles: operational, RequiresGPS: true,
		},
		AtPickup: {
			State: AtPickup, Category: CategoryExecution, DisplayName: "At Pickup",
			PrimaryRole: RoleDriver, AllowedRoles: operational, RequiresGPS: true,
		},
		PickupCheckin: {
			State: PickupCheckin, Category: CategoryExecution, DisplayName: "Pickup Check-In",
			PrimaryRole: RoleDriver, AllowedRoles: operational, RequiresGPS: true,
		},
		Loading: {
			State: Loading, Category: CategoryExecution, DisplayName: "Loading",
			PrimaryRole: RoleDriver, AllowedRoles: operational, RequiresGPS: true,
		},
		Loaded: {
			State: Loaded, Category: CategoryExecution, DisplayName: "Loaded",
			PrimaryRole: RoleDriver, AllowedRoles: operational, RequiresGPS: true,
			RequiredDocuments: []DocumentKind{DocumentSealLog},
		},
		InTransit: {
			State: InTransit, Category: CategoryExecution, DisplayName: "In Transit",
			PrimaryRole: RoleDriver, AllowedRoles: operational, RequiresGPS: true,
			RequiredDocuments: []DocumentKind{DocumentBOL},
		},
		AtDelivery: {
			State: AtDelivery, Category: CategoryExecution, DisplayName: "At Delivery",
			PrimaryRole: RoleDriver, AllowedRoles: operational, RequiresGPS: true,
		},
		DeliveryCheckin: {
			State: DeliveryCheckin, Category: CategoryExecution, DisplayName: "Delivery Check-In",
			PrimaryRole: RoleDriver, AllowedRoles: operational, RequiresGPS: true,
		},
		Unloading: {
			State: Unloading, Category: CategoryExecution, DisplayName: "Unloading",
			PrimaryRole: RoleDriver, AllowedRoles: operational, RequiresGPS: true,
		},
		Unloaded: {
			State: Unloaded, Category: CategoryExecution, DisplayName: "Unloaded",
			PrimaryRole: RoleDriver, AllowedRoles: operational, RequiresGPS: true,
		},
		PodPending: {
			State: PodPending, Category: CategoryCompletion, DisplayName: "POD Pending",
			PrimaryRole: RoleDriver, AllowedRoles: operational,
			RequiredDocuments: []DocumentKind{DocumentPODPhoto, DocumentPODSignature},
		},
		Delivered: {
			State: Delivered, Category: CategoryCompletion, DisplayName: "Delivered",
			PrimaryRole: RoleCatalyst, AllowedRoles: operational,
			Auto: &AutoTransition{TransitionID: "auto_invoice", After: 24 * time.Hour},
		},
		Complete: {
			State: Complete, Category: CategoryCompletion, DisplayName: "Complete",
			PrimaryRole: RoleShipper, AllowedRoles: Roles(RoleShipper, RoleAdmin),
			IsFinal: true,
		},
		Invoiced: {
			State: Invoiced, Category: CategoryFinancial, DisplayName: "Invoiced",
			PrimaryRole: RoleShipper, AllowedRoles: Roles(RoleShipper, RoleCatalyst, RoleAdmin, RoleSystem),
		},
		Paid: {
			State: Paid, Category: CategoryFinancial, DisplayName: "Paid",
			PrimaryRole: RoleShipper, AllowedRoles: Roles(RoleShipper, RoleCatalyst, RoleAdmin, RoleSystem),
			Auto: &AutoTransition{TransitionID: "auto_complete", After: 72 * time.Hour},
		},
		OnHold: {
			State: OnHold, Category: CategoryException, DisplayName: "On Hold",
			PrimaryRole: RoleAdmin, AllowedRoles: Roles(RoleAdmin),
			IsException: true,
		},
		Cancelled: {
			State: Cancelled, Category: CategoryException, DisplayName: "Cancelled",
			PrimaryRole: RoleAdmin, AllowedRoles: Roles(RoleAdmin),
			IsFinal: true, IsException: true,
		},
		SealBreach: {
			State: SealBreach, Category: CategoryException, DisplayName: "Seal Breach",
			PrimaryRole: RoleAdmin, AllowedRoles: Roles(RoleDriver, RoleEscort, RoleAdmin),
			IsException: true,
		},
		TemperatureExcursion: {
			State: TemperatureExcursion, Category: CategoryException, DisplayName: "Temperature Excursion",
			PrimaryRole: RoleAdmin, AllowedRoles: Roles(RoleDriver, RoleEscort, RoleAdmin),
			IsException: true,
		},
		Contamination: {
			State: Contamination, Category: CategoryException, DisplayName: "Contamination",
			PrimaryRole: RoleAdmin, AllowedRoles: Roles(RoleDriver, RoleEscort, RoleAdmin),
			IsException: true,
		},
		WeightViolation: {
			State: WeightViolation, Category: CategoryException, DisplayName: "Weight Violation",
			PrimaryRole: RoleAdmin, AllowedRoles: Roles(RoleDriver, RoleEscort, RoleAdmin),
			IsException: true,
		},
		Breakdown: {
			State: Breakdown, Category: CategoryException, DisplayName: "Breakdown",
			PrimaryRole: RoleDriver, AllowedRoles: Roles(RoleDriver, RoleCatalyst, RoleAdmin),
			IsException: true,
		},
	}
}

// Metadata returns the descriptor for a state. The second return is false
// for invalid states.
func Metadata(s State) (StateMetadata, bool) {
	m, ok := stateMetadata()[s]
	return m, ok
}

// Category returns the state's category, CategoryUnknown for invalid states.
func (s State) Category() Category {
	if m, ok := Metadata(s); ok {
		return m.Category
	}
	return CategoryUnknown
}

// IsFinal reports whether the state is terminal. No catalog transition may
// originate from a final state.
func (s State) IsFinal() bool {
	m, ok := Metadata(s)
	return ok && m.IsFinal
}

// IsException reports whether the state is an exception state.
func (s State) IsException() bool {
	m, ok := Metadata(s)
	return ok && m.IsException
}

// AutoTransitionStates returns every state carrying an auto-transition rule,
// in enum order. The scheduler sweeps loads sitting in these states.
func AutoTransitionStates() []State {
	var states []State
	for _, s := range AllStates() {
		if m, ok := Metadata(s); ok && m.Auto != nil {
			states = append(states, s)
		}
	}
	return states
}
