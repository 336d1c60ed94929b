// Package convoy provides the escort-side domain model: the Convoy aggregate
// linking escort vehicles to a load, the 17 escort statuses with their
// allowed transitions, and the five ordered synchronization points that keep
// the escort machine aligned with the primary load lifecycle.
//
// Escort coordination rules:
//   - status changes are validated against a fixed adjacency map
//   - a cargo exception on the primary load forces ESCORT_HOLD immediately,
//     regardless of sync-point progress; the held status is remembered so a
//     resume returns the convoy where it was
//   - separation distances are last-known values written by the positioning
//     collaborator; this package only compares them against thresholds
package convoy
