package load

import (
	"fmt"

	"loadflow/internal/pkg/errs"
)

// State represents a load's position in its lifecycle. The engine only ever
// moves a load between states through a catalog transition definition.
type State int

const (
	// StateUnknown catches uninitialized State values.
	StateUnknown State = iota

	// Creation.

	// Draft is the initial state: the shipper is still editing the posting.
	Draft
	// Posted means the load is visible on the load board awaiting bids.
	Posted
	// Bidding means at least one carrier bid has been received.
	Bidding
	// Expired is terminal: the posting timed out without an award.
	Expired
	// Declined means the awarded carrier turned the load down.
	Declined
	// Lapsed means an award or acceptance timed out without progress.
	Lapsed

	// Assignment.

	// Awarded means the shipper selected a winning bid.
	Awarded
	// Accepted means the carrier accepted the award.
	Accepted
	// Assigned means the carrier assigned a driver.
	Assigned
	// Confirmed means the driver confirmed the trip.
	Confirmed

	// Execution.

	// EnRoutePickup means the driver is heading to the pickup terminal.
	EnRoutePickup
	// AtPickup means the truck is inside the pickup geofence.
	AtPickup
	// PickupCheckin means the driver checked in at the pickup facility.
	PickupCheckin
	// Loading means product is being loaded.
	Loading
	// Loaded means loading finished and seals are on.
	Loaded
	// InTransit means the load is moving to the delivery site.
	InTransit
	// AtDelivery means the truck is inside the delivery geofence.
	AtDelivery
	// DeliveryCheckin means the driver checked in at the delivery facility.
	DeliveryCheckin
	// Unloading means product is being discharged.
	Unloading
	// Unloaded means discharge finished.
	Unloaded

	// Completion.

	// PodPending means proof-of-delivery documents are being collected.
	PodPending
	// Delivered means delivery is confirmed with complete POD.
	Delivered
	// Complete is terminal: the load is settled and archived.
	Complete

	// Financial.

	// Invoiced means the carrier invoice has been issued.
	Invoiced
	// Paid means payment cleared.
	Paid

	// Exception.

	// OnHold means an operator suspended the load.
	OnHold
	// Cancelled is terminal: the load was aborted.
	Cancelled
	// SealBreach is a cargo exception: a seal was broken or missing.
	SealBreach
	// TemperatureExcursion is a cargo exception: product left its band.
	TemperatureExcursion
	// Contamination is a cargo exception: product integrity is in question.
	Contamination
	// WeightViolation is a cargo exception: scale check failed.
	WeightViolation
	// Breakdown is a mechanical exception on the tractor or trailer.
	Breakdown

	stateCount
)

func stateStrings() map[State]string {
	return map[State]string{
		StateUnknown:         "UNKNOWN",
		Draft:                "DRAFT",
		Posted:               "POSTED",
		Bidding:              "BIDDING",
		Expired:              "EXPIRED",
		Declined:             "DECLINED",
		Lapsed:               "LAPSED",
		Awarded:              "AWARDED",
		Accepted:             "ACCEPTED",
		Assigned:             "ASSIGNED",
		Confirmed:            "CONFIRMED",
		EnRoutePickup:        "EN_ROUTE_PICKUP",
		AtPickup:             "AT_PICKUP",
		PickupCheckin:        "PICKUP_CHECKIN",
		Loading:              "LOADING",
		Loaded:               "LOADED",
		InTransit:            "IN_TRANSIT",
		AtDelivery:           "AT_DELIVERY",
		DeliveryCheckin:      "DELIVERY_CHECKIN",
		Unloading:            "UNLOADING",
		Unloaded:             "UNLOADED",
		PodPending:           "POD_PENDING",
		Delivered:            "DELIVERED",
		Complete:             "COMPLETE",
		Invoiced:             "INVOICED",
		Paid:                 "PAID",
		OnHold:               "ON_HOLD",
		Cancelled:            "CANCELLED",
		SealBreach:           "SEAL_BREACH",
		TemperatureExcursion: "TEMPERATURE_EXCURSION",
		Contamination:        "CONTAMINATION",
		WeightViolation:      "WEIGHT_VIOLATION",
		Breakdown:            "BREAKDOWN",
	}
}

// String returns the wire name of the state ("IN_TRANSIT"), "UNKNOWN" for
// invalid values. Implements fmt.Stringer.
func (s State) String() string {
	if str, ok := stateStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate checks that the value is one of the enumerated states.
// StateUnknown and out-of-range values are invalid.
func (s State) Validate() error {
	if s <= StateUnknown || s >= stateCount {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

// StateFromString parses a wire-format state name.
func StateFromString(name string) (State, error) {
	for s, str := range stateStrings() {
		if s != StateUnknown && str == name {
			return s, nil
		}
	}
	return StateUnknown, errs.NewValueIsInvalidErrorWithCause(
		"state", fmt.Errorf("%q is not a valid state", name))
}

// AllStates returns every valid state in enum order. Used by catalog
// closure checks and the state-metadata query.
func AllStates() []State {
	states := make([]State, 0, stateCount-1)
	for s := Draft; s < stateCount; s++ {
		states = append(states, s)
	}
	return states
}

// Category groups states for dashboards and reporting.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCreation
	CategoryAssignment
	CategoryExecution
	CategoryCompletion
	CategoryFinancial
	CategoryException
)

func categoryStrings() map[Category]string {
	return map[Category]string{
		CategoryUnknown:    "unknown",
		CategoryCreation:   "creation",
		CategoryAssignment: "assignment",
		CategoryExecution:  "execution",
		CategoryCompletion: "completion",
		CategoryFinancial:  "financial",
		CategoryException:  "exception",
	}
}

// String returns the lowercase category name.
func (c Category) String() string {
	if s, ok := categoryStrings()[c]; ok {
		return s
	}
	return "unknown"
}
