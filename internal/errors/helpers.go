package errors

import (
	"context"
	"errors"
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode returns err's code: OK for nil, Canceled for a context that
// ended, Internal for an error from outside this package
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCanceled
	}
	return CodeInternal
}

// GetMeta returns the metadata of the outermost *Error in err's chain
func GetMeta(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Meta
	}
	return nil
}

// IsTransient reports whether the failed operation may succeed later
func IsTransient(err error) bool {
	return err != nil && GetCode(err).Transient()
}

// IsFatal reports whether the module has to stay inert after err
func IsFatal(err error) bool {
	return err != nil && GetCode(err).Fatal()
}

func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

func IsAlreadyExists(err error) bool {
	return GetCode(err) == CodeAlreadyExists
}

func IsFailedPrecondition(err error) bool {
	return GetCode(err) == CodeFailedPrecondition
}

func IsUnavailable(err error) bool {
	return GetCode(err) == CodeUnavailable
}

func IsDataLoss(err error) bool {
	return GetCode(err) == CodeDataLoss
}

func IsCanceled(err error) bool {
	return GetCode(err) == CodeCanceled
}
