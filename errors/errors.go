// Package errors provides standardized error handling for the engine.
// It includes error classification, the sentinel errors callers match on,
// and helper functions for consistent error wrapping across the system.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransient represents temporary errors that may be retried
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input or configuration
	ErrorInvalid
	// ErrorTimeout represents errors from exceeding an execution deadline
	ErrorTimeout
	// ErrorFatal represents unrecoverable errors that should stop processing
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorTimeout:
		return "timeout"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Source loading errors. A source parse failure is contained to its own
	// context during rebuild; it never fails the rebuild as a whole.
	ErrSourceParse = errors.New("source failed to parse")

	// Query errors, surfaced to callers as typed results.
	ErrQueryValidation = errors.New("query failed validation")
	ErrQueryTimeout    = errors.New("query timed out")
	ErrQueryExecution  = errors.New("query execution failed")
	ErrQueryRateLimit  = errors.New("query rate limit exceeded")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsValidation checks if an error is a query validation rejection.
func IsValidation(err error) bool {
	return errors.Is(err, ErrQueryValidation)
}

// IsTimeout checks if an error is a query timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrQueryTimeout) {
		return true
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTimeout
	}
	return false
}

// IsExecution checks if an error is an internal query execution failure.
func IsExecution(err error) bool {
	return errors.Is(err, ErrQueryExecution)
}

// IsSourceParse checks if an error is a contained source parse failure.
func IsSourceParse(err error) bool {
	return errors.Is(err, ErrSourceParse)
}

// IsInvalid checks if an error is due to invalid input
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}
	return errors.Is(err, ErrQueryValidation) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingConfig)
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorTransient
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}
	switch {
	case IsTimeout(err):
		return ErrorTimeout
	case IsInvalid(err):
		return ErrorInvalid
	case IsExecution(err):
		return ErrorFatal
	default:
		return ErrorTransient
	}
}

// newClassified creates a new classified error
// This is an internal helper - use the Wrap* variants instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransient, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}

// WrapTimeout wraps an error as a timeout with context
func WrapTimeout(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTimeout, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// Validation builds a query validation error with a caller-facing reason.
func Validation(reason string) error {
	return fmt.Errorf("%w: %s", ErrQueryValidation, reason)
}

// Validationf builds a query validation error with a formatted reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrQueryValidation, fmt.Sprintf(format, args...))
}

// SourceParse builds a contained per-source parse error.
func SourceParse(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceParse, source, err)
}
