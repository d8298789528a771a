// Package guard provides ConstructorGuard, a marker that lets value objects and
// commands detect whether they were built through their constructor or left as
// zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when the
// caller passes a nil error and the guarded object is a zero value.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types whose invariants are established by a
// constructor. A zero-value guard fails validation, so a struct literal that
// skipped the constructor is caught before it reaches a repository.
//
// Example usage:
//
//	var ErrAddressNotConstructed = errors.New("Address must be created via NewAddress")
//
//	type Address struct {
//	    street string
//	    guard  guard.ConstructorGuard
//	}
//
//	func NewAddress(street string) (Address, error) {
//	    if street == "" {
//	        return Address{}, errs.NewValueIsRequiredError("street")
//	    }
//	    return Address{street: street, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (a Address) Validate() error {
//	    return a.guard.Validate(ErrAddressNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it
// returns validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
