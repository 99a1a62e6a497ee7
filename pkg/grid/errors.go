package grid

import (
	"errors"
	"fmt"
)

// Code is a machine-readable failure category.
type Code string

const (
	ErrCodeInvalidInput            Code = "INVALID_INPUT"
	ErrCodeShapeMismatch           Code = "SHAPE_MISMATCH"
	ErrCodeRenderTargetUnavailable Code = "RENDER_TARGET_UNAVAILABLE"
	ErrCodeEncodeFailure           Code = "ENCODE_FAILURE"
)

// Error is a typed failure returned by the slicer and compositor.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsCode reports whether err, or anything it wraps, is an *Error with code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
