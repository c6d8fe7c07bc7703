// Package errs provides standardized error types for the crowdship core.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is can classify against the sentinel
//
// Callers use the sentinels to map failures onto transport responses:
// ErrObjectNotFound becomes a 404, ErrValueIsInvalid and friends become
// 400s, anything else is a 500.
package errs
