// Package services provides domain services that coordinate across the load
// and convoy aggregates in the lifecycle engine.
//
// The package includes:
//   - ConvoySynchronizer: decides how a convoy reacts to its load's state,
//     applying the cargo-exception override before sync-point advancement
//   - SeparationMonitor: evaluates escort separation distances and escalates
//     sustained breaches
//
// Domain services hold pure coordination logic. Persistence and effect
// delivery stay in the application layer.
package services
