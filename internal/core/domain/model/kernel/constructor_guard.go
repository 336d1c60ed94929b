package kernel

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when the
// caller passes a nil validation error, so construction checks never pass
// silently.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes objects built through their designated
// constructor from zero-value structs. Embed one as a private field, set it
// with NewConstructorGuard in the constructor, and check it in Validate.
//
// Example:
//
//	type Load struct {
//	    id    UUID
//	    guard ConstructorGuard
//	}
//
//	func NewLoad(id UUID) (Load, error) {
//	    return Load{id: id, guard: NewConstructorGuard()}, nil
//	}
//
//	func (l Load) Validate() error {
//	    return l.guard.Validate(ErrLoadIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks an object as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for constructed objects, the provided error (or
// ErrDefaultConstructorGuard when nil) for zero values.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
