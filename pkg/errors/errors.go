// Package errors provides the coded error taxonomy shared by the lodestar
// packages.
//
// Every failure the estimator can report is an *Error carrying a Code, so
// callers can branch on the condition without parsing messages:
//
//	seed, err := trilat.Trilaterate(a, b, tol)
//	if errors.Is(err, errors.ErrCodeNoIntersection) {
//	    // ask for another measurement
//	}
//
// None of these conditions are retried by the library.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// An operation that needs at least two constraints was given fewer.
	ErrCodeInsufficientConstraints Code = "INSUFFICIENT_CONSTRAINTS"
	// Two spheres are disjoint, nested or concentric, so no intersection
	// circle exists.
	ErrCodeNoIntersection Code = "NO_INTERSECTION"
	// The per-axis bounding boxes of the constraints do not overlap.
	ErrCodeEmptyFeasibleRegion Code = "EMPTY_FEASIBLE_REGION"
	// A sample or iteration count was zero or negative.
	ErrCodeDegenerateSampling Code = "DEGENERATE_SAMPLING"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeEvalTimeout   Code = "EVAL_TIMEOUT"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is matches any *Error with the same code, so the standard errors.Is
// compares codes rather than pointers.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Is reports whether err has the given error code anywhere in its wrap
// chain or joined set.
func Is(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Join combines errors the way the standard library does. Is finds a code
// anywhere in the joined set, GetCode reports the first one.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
