// Package guard detects value objects that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes no error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in commands, queries and value objects whose
// zero value is meaningless. Only NewConstructorGuard marks it as constructed,
// so a struct literal like ReconcileOrderCommand{} fails Validate.
//
// Example:
//
//	type SanitizeLogsCommand struct {
//	    since time.Time
//	    guard guard.ConstructorGuard
//	}
//
//	func (c SanitizeLogsCommand) Validate() error {
//	    return c.guard.Validate(ErrSanitizeLogsCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
