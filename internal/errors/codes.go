package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeAborted            Code = "ABORTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeDataLoss           Code = "DATA_LOSS"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Transient reports whether an operation failing with this code may succeed
// if attempted again later. Host alias resolution failures are reported as
// Unavailable; an interrupted batch is Aborted.
func (c Code) Transient() bool {
	switch c {
	case CodeUnavailable, CodeAborted:
		return true
	default:
		return false
	}
}

// Fatal reports whether the module cannot continue after this code.
// Only an unrecognized host runtime is fatal.
func (c Code) Fatal() bool {
	return c == CodeFailedPrecondition
}
