package services

import (
	"time"

	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/load"
)

// SyncAction is the outcome of one synchronization decision.
type SyncAction int

const (
	// SyncNoAction means the convoy stays where it is.
	SyncNoAction SyncAction = iota
	// SyncHeld means the cargo-exception override forced the convoy to hold.
	SyncHeld
	// SyncResumed means the exception cleared and the convoy left its hold.
	SyncResumed
	// SyncAdvanced means a sync point fired and the convoy moved forward.
	SyncAdvanced
)

// SyncDecision describes what Synchronize did to the convoy and which
// notifications the caller must fan out. The caller persists the mutated
// convoy and dispatches the effects.
type SyncDecision struct {
	Action           SyncAction
	Point            convoy.SyncPoint
	NotificationKeys []string
	EffectKeys       []string

	// Escalation is set when the convoy sat at a pending sync point past its
	// declared timeout: the action to raise to the emergency ops channel.
	// The convoy itself does not move, so Action stays SyncNoAction; the
	// alert repeats every sweep until the point fires or the convoy is
	// moved by hand.
	Escalation string
}

// ConvoySynchronizer applies the escort coordination rules to one
// load/convoy pair.
//
// Rule order is fixed:
//  1. A load in a cargo-exception state overrides everything: the convoy is
//     forced to hold, whatever sync point it was approaching.
//  2. A held convoy whose load has left exception resumes (an Escorting-held
//     convoy resumes through PositionRecovery, handled by the aggregate).
//  3. Otherwise the first matching sync point, in declared order, advances
//     the convoy. A convoy still waiting at a timed point past its Timeout
//     raises the point's escalation action without moving.
type ConvoySynchronizer struct{}

// NewConvoySynchronizer creates a new ConvoySynchronizer instance.
func NewConvoySynchronizer() ConvoySynchronizer {
	return ConvoySynchronizer{}
}

// Synchronize inspects the load's current state and mutates the convoy
// accordingly. Terminal convoys are left untouched.
func (s ConvoySynchronizer) Synchronize(loadState load.State, c *convoy.Convoy, now time.Time) (SyncDecision, error) {
	if err := c.Validate(); err != nil {
		return SyncDecision{}, err
	}
	if c.Status().IsTerminal() {
		return SyncDecision{Action: SyncNoAction}, nil
	}

	if loadState.IsCargoException() {
		if c.ForceHold(now) {
			return SyncDecision{
				Action:           SyncHeld,
				NotificationKeys: []string{convoy.NotifyEscortHold},
				EffectKeys:       []string{load.ActionAlertEmergencyOps},
			}, nil
		}
		return SyncDecision{Action: SyncNoAction}, nil
	}

	if c.Status() == convoy.EscortHold {
		if err := c.Resume(now); err != nil {
			return SyncDecision{}, err
		}
		return SyncDecision{
			Action:           SyncResumed,
			NotificationKeys: []string{convoy.NotifyConvoyRolling},
		}, nil
	}

	point, ok := convoy.FirstMatch(loadState, c.Status())
	if !ok {
		if pending, waiting := convoy.PendingFor(c.Status()); waiting &&
			pending.Timeout > 0 && now.Sub(c.StatusEnteredAt()) > pending.Timeout {
			return SyncDecision{
				Action:     SyncNoAction,
				Point:      pending,
				Escalation: pending.EscalationAction,
			}, nil
		}
		return SyncDecision{Action: SyncNoAction}, nil
	}
	if err := c.AdvanceTo(point.Advance, now); err != nil {
		return SyncDecision{}, err
	}
	return SyncDecision{
		Action:           SyncAdvanced,
		Point:            point,
		NotificationKeys: point.NotificationKeys,
		EffectKeys:       point.EffectKeys,
	}, nil
}
