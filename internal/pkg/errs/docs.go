// Package errs provides the standardized error types used across the load
// coordination service.
//
// Every error type follows the same pattern: a sentinel error variable for
// classification with errors.Is, a struct carrying the failing parameter and
// an optional cause, constructor functions with and without cause, and
// Error/Unwrap methods. Callers branch on the sentinel, log the struct.
package errs
