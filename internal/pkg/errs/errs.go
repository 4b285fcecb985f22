package errs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrValueIsRequired is the sentinel behind ValueIsRequiredError.
	ErrValueIsRequired = errors.New("value is required")
	// ErrValueIsInvalid is the sentinel behind ValueIsInvalidError.
	ErrValueIsInvalid = errors.New("value is invalid")
	// ErrValueIsOutOfRange is the sentinel behind ValueIsOutOfRangeError.
	ErrValueIsOutOfRange = errors.New("value is out of range")
	// ErrObjectNotFound is the sentinel behind ObjectNotFoundError and ObjectsNotFoundError.
	ErrObjectNotFound = errors.New("object not found")
	// ErrConflict is the sentinel behind ConflictError.
	ErrConflict = errors.New("operation conflicts with current state")
	// ErrRateLimited is the sentinel behind RateLimitedError.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrGeneration is the sentinel behind GenerationError.
	ErrGeneration = errors.New("identifier generation failed")
	// ErrInternal is the sentinel behind InternalError.
	ErrInternal = errors.New("internal error")

	// ErrIdentifierCollision is returned by repositories when a unique identifier column
	// (order number, batch number, secure token) already holds the generated value.
	ErrIdentifierCollision = errors.New("identifier already in use")
)

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError reports a malformed value. ParamName names the offending field.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without a cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %v, min value is %v, max value is %v",
		ErrValueIsOutOfRange, e.ParamName, sanitize(e.Value), e.Min, e.Max)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError reports a single unknown entity.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %v (cause: %v)", ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %v", ErrObjectNotFound, e.ParamName, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ObjectsNotFoundError reports every id of a bulk request that did not resolve.
type ObjectsNotFoundError struct {
	ParamName string
	IDs       []string
}

// NewObjectsNotFoundError creates an ObjectsNotFoundError listing the missing ids.
func NewObjectsNotFoundError(paramName string, ids []string) *ObjectsNotFoundError {
	missing := make([]string, len(ids))
	copy(missing, ids)
	return &ObjectsNotFoundError{ParamName: paramName, IDs: missing}
}

func (e *ObjectsNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s [%s]", ErrObjectNotFound, e.ParamName, strings.Join(e.IDs, ", "))
}

func (e *ObjectsNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ConflictError reports a violated operation precondition, e.g. a batch in the wrong status.
type ConflictError struct {
	Reason string
	Cause  error
}

// NewConflictError creates a ConflictError.
func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// NewConflictErrorWithCause creates a ConflictError wrapping cause.
func NewConflictErrorWithCause(reason string, cause error) *ConflictError {
	return &ConflictError{Reason: reason, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrConflict, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrConflict, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// RateLimitedError reports a throttled request. RetryAfter is the time left in the window.
type RateLimitedError struct {
	Key        string
	Limit      int
	RetryAfter time.Duration
}

// NewRateLimitedError creates a RateLimitedError.
func NewRateLimitedError(key string, limit int, retryAfter time.Duration) *RateLimitedError {
	return &RateLimitedError{Key: key, Limit: limit, RetryAfter: retryAfter}
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: %s allows %d requests, retry after %s", ErrRateLimited, e.Key, e.Limit, e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

// GenerationError reports that identifier generation exhausted its attempts.
type GenerationError struct {
	Target   string
	Attempts int
	Cause    error
}

// NewGenerationError creates a GenerationError.
func NewGenerationError(target string, attempts int, cause error) *GenerationError {
	return &GenerationError{Target: target, Attempts: attempts, Cause: cause}
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s after %d attempts (cause: %v)", ErrGeneration, e.Target, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("%s: %s after %d attempts", ErrGeneration, e.Target, e.Attempts)
}

func (e *GenerationError) Unwrap() error {
	return ErrGeneration
}

// InternalError wraps an unexpected failure of an atomic operation.
// Error() stays generic; the cause is only reachable through Cause for server-side logging.
type InternalError struct {
	Operation string
	Cause     error
}

// NewInternalError creates an InternalError.
func NewInternalError(operation string, cause error) *InternalError {
	return &InternalError{Operation: operation, Cause: cause}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s failed", ErrInternal, e.Operation)
}

func (e *InternalError) Unwrap() error {
	return ErrInternal
}

// IsClassified reports whether err already belongs to the error taxonomy of this package.
func IsClassified(err error) bool {
	for _, target := range []error{
		ErrValueIsRequired,
		ErrValueIsInvalid,
		ErrValueIsOutOfRange,
		ErrObjectNotFound,
		ErrConflict,
		ErrRateLimited,
		ErrGeneration,
		ErrInternal,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}
