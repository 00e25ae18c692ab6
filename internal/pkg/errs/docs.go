// Package errs provides the error vocabulary shared by the order tracking engine.
//
// Validation errors follow one pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() and Unwrap() so errors.Is works against the sentinel
//
// Operational error kinds map the failure taxonomy of the reconciliation jobs:
//   - ErrLockNotAcquired: another run of the same job holds the lock (skipped, not reported)
//   - ErrCollectorUnavailable: the observation source could not be reached (retried on the next trigger)
//   - PersistenceError: a single order's transaction failed (rolled back, counted, batch continues)
//   - ErrMappingAmbiguity: a raw status label matched no pattern (defaulted, logged)
package errs
