// Package load provides the primary freight-load domain model: the Load
// aggregate, the enumerated lifecycle states with their per-state metadata,
// and the declarative transition catalog that drives the transition engine.
//
// The package is split along the data/behavior line the engine depends on:
//   - State, StateMetadata: the 32 lifecycle states, their categories, roles,
//     required documents, final/exception flags and auto-transition rules
//   - TransitionDefinition, Guard, Effect: immutable catalog entries; guards
//     and effects are data (check/action identifiers), never executable code
//   - Catalog: the startup-built index over the flat definition list,
//     answering TransitionsFrom and IsValidTransition in O(1)
//   - Load: the aggregate root; only the transition engine mutates its state,
//     always through a catalog definition
//
// Key invariants:
//   - a Load's current state is always a member of the enumerated state set
//   - no transition definition originates from a final state (checked when
//     the catalog is built, and again by the catalog tests)
//   - guards on a definition are evaluated in declared order with
//     short-circuit semantics; effects are dispatched in declared order
package load
