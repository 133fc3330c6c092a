package errors

import (
	"errors"
	"fmt"
)

// Error carries a code classifying the failure, a message, the wrapped
// cause and optional metadata such as the form or record involved
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error formats as "code: message" or "code: message: cause"
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithMeta attaches a key/value to the error and returns it
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates an error with the given code
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with the given code and a formatted message
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err, keeping its code and metadata when it is an *Error and
// classifying it with GetCode otherwise. A nil err gives nil.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: message, Cause: err, Meta: existing.Meta}
	}
	return &Error{Code: GetCode(err), Message: message, Cause: err}
}

// Wrapf wraps err with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err under a new code. Metadata is copied so the
// cause is left untouched.
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	meta := make(map[string]any)
	var existing *Error
	if errors.As(err, &existing) {
		for k, v := range existing.Meta {
			meta[k] = v
		}
	}
	return &Error{Code: code, Message: message, Cause: err, Meta: meta}
}

// WrapWithCodef wraps err under a new code with a formatted message
func WrapWithCodef(err error, code Code, format string, args ...any) *Error {
	return WrapWithCode(err, code, fmt.Sprintf(format, args...))
}

// NotFound reports a form, file or record that does not exist
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument reports a malformed input or config
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExistsf reports a location that is already reserved or queued
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

func Internal(message string) *Error {
	return New(CodeInternal, message)
}

func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// Unavailablef reports host state that has not settled yet, such as an
// alias the host has not filled
func Unavailablef(format string, args ...any) *Error {
	return Newf(CodeUnavailable, format, args...)
}

// FailedPreconditionf reports a call made in the wrong state, such as an
// unsupported runtime or a second data load
func FailedPreconditionf(format string, args ...any) *Error {
	return Newf(CodeFailedPrecondition, format, args...)
}

// Abortedf reports a batch that stopped part way
func Abortedf(format string, args ...any) *Error {
	return Newf(CodeAborted, format, args...)
}

// DataLossf reports a truncated or corrupt save record
func DataLossf(format string, args ...any) *Error {
	return Newf(CodeDataLoss, format, args...)
}

// Canceled reports work dropped because its executor or context ended
func Canceled(message string) *Error {
	return New(CodeCanceled, message)
}

func Canceledf(format string, args ...any) *Error {
	return Newf(CodeCanceled, format, args...)
}
