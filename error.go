package postforge

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT   = "conflict"
	EINTERNAL   = "internal"
	EINVALID    = "invalid"
	EINVALIDOP  = "invalid_operation"
	ENOTFOUND   = "not_found"
	EFETCH      = "fetch"
	EEXTRACTION = "extraction"
	EGENERATION = "generation"
	EVALIDATION = "validation"
	ETIMEOUT    = "timeout"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the code and message.
//
// Any non-application error (such as a disk error) should be reported as an
// EINTERNAL error and the human user should only see "Internal error" as the
// message. These low-level internal error details should only be logged.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Pipeline stage the error occurred in, if any.
	Stage Stage

	// Temporary marks failures that may succeed on a later attempt
	// (network errors, rate limits, upstream 5xx).
	Temporary bool
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("postforge error: code=%s stage=%s message=%s", e.Code, e.Stage, e.Message)
	}
	return fmt.Sprintf("postforge error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// TemporaryErrorf is like Errorf but marks the error as retryable.
func TemporaryErrorf(code string, format string, args ...any) *Error {
	e := Errorf(code, format, args...)
	e.Temporary = true
	return e
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorStage returns the pipeline stage recorded on an application error.
func ErrorStage(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

// IsTemporary reports whether err is an application error marked temporary.
func IsTemporary(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Temporary
	}
	return false
}

// WithStage returns a copy of err annotated with the given stage.
// Non-application errors become EINTERNAL errors carrying the original text.
func WithStage(err error, stage Stage) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		cp := *e
		cp.Stage = stage
		return &cp
	}
	return &Error{Code: EINTERNAL, Message: err.Error(), Stage: stage}
}
