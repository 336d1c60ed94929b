// Package kernel provides the core domain primitives shared by the load and
// convoy models.
//
// It contains:
//   - UUID: an immutable identifier value object wrapping github.com/google/uuid
//   - ConstructorGuard: a defensive pattern that detects zero-value structs
//     which bypassed their constructor
//
// Both primitives are immutable and safe for concurrent use. They exist so the
// aggregates can enforce "constructed means valid" without every call site
// re-checking raw values.
package kernel
