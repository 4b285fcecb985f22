// Package errs provides standardized error types for the campaign service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types grouped by how callers react to them:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input,
//     never retried automatically
//   - ObjectNotFoundError, ObjectsNotFoundError: unknown ids; bulk operations list every missing id
//   - ConflictError: an operation precondition does not hold (wrong status, stale version)
//   - RateLimitedError: creation throttle exceeded, retry after the window elapses
//   - GenerationError: unique identifier generation exhausted its attempts
//   - InternalError: any other failure inside an atomic operation; message stays generic
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is classifies it
package errs
