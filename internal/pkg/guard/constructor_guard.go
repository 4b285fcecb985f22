// Package guard holds small construction-time checks shared by domain packages.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when the caller
// passes a nil error for an object that skipped its constructor.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value object as built through its constructor.
// Its zero value is "not constructed", so embedding it in a struct lets
// Validate tell a real value from a zero-value struct literal.
//
//	type PostalCode struct {
//	    value string
//	    guard guard.ConstructorGuard
//	}
//
//	func (p PostalCode) Validate() error {
//	    return p.guard.Validate(ErrPostalCodeIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. Otherwise it returns validationError,
// or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
