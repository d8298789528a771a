// Package errs provides standardized error types for the marketplace service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used by value objects, aggregates and repository adapters alike.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: a mandatory value (buyer id, street, currency) is missing
//   - ValueIsInvalidError: a value is present but malformed (unknown status, bad method)
//   - ValueIsOutOfRangeError: a numeric value falls outside its allowed bounds
//   - ObjectNotFoundError: a persisted object (order, product) cannot be found
//   - VersionIsInvalidError: an optimistic version check failed on write
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
package errs
