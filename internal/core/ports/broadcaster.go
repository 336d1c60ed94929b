package ports

import (
	"fmt"

	"loadflow/internal/core/domain/model/kernel"
)

// EmergencyOpsChannel receives cargo-exception and separation escalations
// regardless of load or convoy.
const EmergencyOpsChannel = "ops:emergency"

// LoadChannel returns the per-load broadcast channel key.
func LoadChannel(id kernel.UUID) string {
	return fmt.Sprintf("load:%s", id)
}

// ConvoyChannel returns the per-convoy broadcast channel key.
func ConvoyChannel(id kernel.UUID) string {
	return fmt.Sprintf("convoy:%s", id)
}

// UserChannel returns the per-user broadcast channel key.
func UserChannel(id kernel.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

// CompanyChannel returns the per-company broadcast channel key.
func CompanyChannel(id kernel.UUID) string {
	return fmt.Sprintf("company:%s", id)
}

// BroadcastEvent is a message fanned out to one channel's subscribers.
type BroadcastEvent struct {
	Key     string
	Payload map[string]string
}

// Broadcaster fans events out to channel subscribers. Publish never blocks
// on slow subscribers; delivery is best effort.
type Broadcaster interface {
	Publish(channel string, event BroadcastEvent)
}
