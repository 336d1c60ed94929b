package load

import "fmt"

// TriggerType classifies what initiates a transition.
type TriggerType int

const (
	TriggerUnknown TriggerType = iota
	TriggerUserAction
	TriggerGeofence
	TriggerTimer
	TriggerExternalEvent
	TriggerDocumentEvent
	TriggerPaymentEvent
	TriggerApproval
	TriggerException
	TriggerTimeout
	TriggerSystem
)

func triggerStrings() map[TriggerType]string {
	return map[TriggerType]string{
		TriggerUnknown:       "unknown",
		TriggerUserAction:    "user_action",
		TriggerGeofence:      "geofence",
		TriggerTimer:         "timer",
		TriggerExternalEvent: "external_event",
		TriggerDocumentEvent: "document_event",
		TriggerPaymentEvent:  "payment_event",
		TriggerApproval:      "approval",
		TriggerException:     "exception",
		TriggerTimeout:       "timeout",
		TriggerSystem:        "system",
	}
}

// String returns the snake_case trigger name used in audit records.
func (t TriggerType) String() string {
	if s, ok := triggerStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// GuardKind classifies what a guard inspects.
type GuardKind int

const (
	GuardKindUnknown GuardKind = iota
	GuardKindState
	GuardKindData
	GuardKindTime
	GuardKindLocation
	GuardKindDocument
	GuardKindApproval
	GuardKindHOS
)

// GuardCheck identifies a precondition check. Checks are resolved to
// evaluators through a dispatch table at startup; the catalog itself holds
// only the identifier.
type GuardCheck string

const (
	CheckHOSAvailable           GuardCheck = "hos_available"
	CheckBOLSigned              GuardCheck = "bol_signed"
	CheckPODComplete            GuardCheck = "pod_complete"
	CheckSealRecorded           GuardCheck = "seal_recorded"
	CheckWithinPickupGeofence   GuardCheck = "within_pickup_geofence"
	CheckWithinDeliveryGeofence GuardCheck = "within_delivery_geofence"
	CheckRateConfirmed          GuardCheck = "rate_confirmed"
	CheckPaymentCleared         GuardCheck = "payment_cleared"
	CheckCarrierAuthorityActive GuardCheck = "carrier_authority_active"
	CheckEscrowFunded           GuardCheck = "escrow_funded"
	CheckExceptionCleared       GuardCheck = "exception_cleared"
)

// Guard is a declarative precondition on a transition: a check identifier,
// its kind, and the message surfaced when the check fails. Guards are
// evaluated in declared order and never mutated.
type Guard struct {
	Check   GuardCheck
	Kind    GuardKind
	Message string
}

// EffectKind classifies how a declared effect is delivered.
type EffectKind int

const (
	EffectKindUnknown EffectKind = iota
	EffectKindNotification
	EffectKindEmail
	EffectKindWebsocket
	EffectKindDatabase
	EffectKindFinancial
	EffectKindDocument
	EffectKindIntegration
)

// Effect action identifiers. The dispatcher maps these to handlers once at
// startup; the engine never branches on the strings.
const (
	ActionNotifyStatusChange    = "notify_status_change"
	ActionNotifyCritical        = "notify_critical"
	ActionBroadcastLoadChannel  = "broadcast_load_channel"
	ActionAlertEmergencyOps     = "alert_emergency_ops"
	ActionStartDetentionTimer   = "start_detention_timer"
	ActionStopDetentionTimer    = "stop_detention_timer"
	ActionStartDemurrageTimer   = "start_demurrage_timer"
	ActionStopDemurrageTimer    = "stop_demurrage_timer"
	ActionStartLayoverTimer     = "start_layover_timer"
	ActionStopLayoverTimer      = "stop_layover_timer"
	ActionHoldEscrow            = "hold_escrow"
	ActionReleaseEscrow         = "release_escrow"
	ActionPostLedgerEntry       = "post_ledger_entry"
	ActionGenerateInvoice       = "generate_invoice"
	ActionRequestPODDocuments   = "request_pod_documents"
	ActionPublishLoadEvent      = "publish_load_event"
	ActionEmailRateConfirmation = "email_rate_confirmation"
)

// Effect is a declarative side action attached to a transition: a kind, an
// action identifier, optional recipient roles and an optional payload.
// Effects are dispatched after the state commit, in declared order, and are
// never evaluated as conditions.
type Effect struct {
	Kind       EffectKind
	Action     string
	Recipients RoleSet
	Payload    map[string]string
}

// TransitionDefinition is an immutable catalog entry describing one legal
// state change: the source-state set, target state, trigger type, allowed
// actor roles, ordered guards, ordered effects and a display priority
// (lower sorts first in TransitionsFrom).
type TransitionDefinition struct {
	ID       string
	From     []State
	To       State
	Trigger  TriggerType
	Allowed  RoleSet
	Guards   []Guard
	Effects  []Effect
	Priority int
}

// FromContains reports whether the definition can fire from the given state.
func (d TransitionDefinition) FromContains(s State) bool {
	for _, from := range d.From {
		if from == s {
			return true
		}
	}
	return false
}

// AllowsRole reports whether the actor role may request this transition.
func (d TransitionDefinition) AllowsRole(r Role) bool {
	return d.Allowed.Contains(r)
}

// Validate checks the definition's internal consistency: non-empty id and
// from set, valid states, a valid trigger and at least one allowed role.
func (d TransitionDefinition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("transition has no id")
	}
	if len(d.From) == 0 {
		return fmt.Errorf("transition %s has an empty from set", d.ID)
	}
	for _, s := range d.From {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("transition %s: invalid from state: %w", d.ID, err)
		}
	}
	if err := d.To.Validate(); err != nil {
		return fmt.Errorf("transition %s: invalid to state: %w", d.ID, err)
	}
	if d.Trigger == TriggerUnknown {
		return fmt.Errorf("transition %s has no trigger type", d.ID)
	}
	if d.Allowed.IsEmpty() {
		return fmt.Errorf("transition %s allows no roles", d.ID)
	}
	return nil
}
