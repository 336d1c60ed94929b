package services

import (
	"fmt"
	"time"

	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/pkg/errs"
)

// Default separation limits in meters and the alert streak that forces a
// hold. Oversize corridors run tighter or looser limits through the
// constructor.
const (
	DefaultLeadSeparationLimitM = 1200.0
	DefaultRearSeparationLimitM = 800.0
	DefaultEscalationStreak     = 3
)

// SeparationAssessment is the outcome of one distance report.
type SeparationAssessment struct {
	// Breached means at least one distance exceeded its limit.
	Breached bool
	// AlertStreak is the consecutive-breach count after this report.
	AlertStreak int
	// Escalated means the streak hit the limit and the convoy was forced
	// into a hold. The caller must fan out the escalation notifications.
	Escalated bool
	// NotificationKeys lists what the caller must broadcast.
	NotificationKeys []string
}

// SeparationMonitor evaluates escort separation reports against the corridor
// limits. Breaches only count while the convoy is actually moving under
// escort; a convoy waiting at staging can spread out freely.
type SeparationMonitor struct {
	leadLimitM float64
	rearLimitM float64
	streak     int
}

// NewSeparationMonitor creates a monitor with the default limits.
func NewSeparationMonitor() SeparationMonitor {
	monitor, _ := NewSeparationMonitorWithLimits(
		DefaultLeadSeparationLimitM, DefaultRearSeparationLimitM, DefaultEscalationStreak)
	return monitor
}

// NewSeparationMonitorWithLimits creates a monitor with corridor-specific
// limits.
func NewSeparationMonitorWithLimits(leadLimitM, rearLimitM float64, streak int) (SeparationMonitor, error) {
	if leadLimitM <= 0 || rearLimitM <= 0 {
		return SeparationMonitor{}, errs.NewValueIsInvalidErrorWithCause(
			"separationLimit", fmt.Errorf("limits %v/%v must be positive", leadLimitM, rearLimitM))
	}
	if streak < 1 {
		return SeparationMonitor{}, errs.NewValueIsOutOfRangeError("escalationStreak", streak, 1, 100)
	}
	return SeparationMonitor{leadLimitM: leadLimitM, rearLimitM: rearLimitM, streak: streak}, nil
}

// monitoredStatus reports whether separation matters in the given status:
// the convoy is rolling or reforming. CONVOY_FORMED is excluded on purpose;
// a formed convoy is parked at the pickup site until the load rolls, and
// vehicles jockeying for position there routinely exceed the corridor
// limits. Distances are still recorded, only alerting is suppressed.
func monitoredStatus(s convoy.Status) bool {
	switch s {
	case convoy.Escorting, convoy.PositionRecovery, convoy.EnRouteStaging:
		return true
	}
	return false
}

// Observe records a distance report on the convoy and applies the breach and
// escalation rules. The caller persists the mutated convoy and fans out the
// returned notifications.
func (m SeparationMonitor) Observe(c *convoy.Convoy, leadM, rearM float64, now time.Time) (SeparationAssessment, error) {
	if err := c.Validate(); err != nil {
		return SeparationAssessment{}, err
	}
	if err := c.RecordSeparation(leadM, rearM); err != nil {
		return SeparationAssessment{}, err
	}

	if !monitoredStatus(c.Status()) {
		return SeparationAssessment{}, nil
	}

	if leadM <= m.leadLimitM && rearM <= m.rearLimitM {
		c.ClearSeparationAlerts()
		return SeparationAssessment{}, nil
	}

	assessment := SeparationAssessment{
		Breached:         true,
		AlertStreak:      c.MarkSeparationAlert(),
		NotificationKeys: []string{convoy.NotifySeparationAlert},
	}

	if assessment.AlertStreak >= m.streak {
		if c.ForceHold(now) {
			assessment.Escalated = true
			assessment.NotificationKeys = append(assessment.NotificationKeys, convoy.NotifyEscortHold)
		}
	}
	return assessment, nil
}
