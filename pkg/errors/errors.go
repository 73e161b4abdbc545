// Package errors carries boxplan's coded errors.
//
// Layout synthesis rarely fails on bad geometry; it degrades the result and
// reports diagnostics. The one geometric rejection is a plan too large to
// rasterize. Other errors come from the edges: option validation, plan
// files, cache backends, HTTP requests and deadlines. Each carries a [Code]
// that the CLI prints and the API maps to a status:
//
//	INVALID_*                    rejected input (HTTP 400)
//	NOT_FOUND, FILE_NOT_FOUND    missing plan or resource (HTTP 404)
//	TIMEOUT                      run outlived its deadline (HTTP 504)
//	NETWORK_ERROR                cache backend unreachable
//	INTERNAL_ERROR, UNSUPPORTED  everything else (HTTP 500)
//
// # Usage
//
//	if v <= 0 {
//	    return errors.New(errors.ErrCodeInvalidConfig, "unitDepth must be positive, got %v", v)
//	}
//
//	data, err := os.ReadFile(path)
//	if err != nil {
//	    return errors.Wrap(errors.ErrCodeFileNotFound, err, "read plan %s", path)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error class.
type Code string

const (
	// Rejected input. The caller can fix these.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"    // malformed request or argument
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"   // option out of range
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY" // plan unusable, e.g. too large to rasterize
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"   // unsupported plan file format
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY" // unknown zone extraction strategy

	// Missing resources.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Infrastructure.
	ErrCodeNetwork Code = "NETWORK_ERROR" // cache backend unreachable
	ErrCodeTimeout Code = "TIMEOUT"       // run outlived its context deadline

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c is one of the INVALID_* codes.
func (c Code) Invalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// Missing reports whether c names an absent resource.
func (c Code) Missing() bool {
	return c == ErrCodeNotFound || c == ErrCodeFileNotFound
}

// Error pairs a code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message" or "CODE: message: cause".
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause so errors.Is and errors.As see through an Error.
func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without code or cause. Uncoded errors
// return their full text.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err carries an INVALID_* code.
func IsInvalid(err error) bool {
	return GetCode(err).Invalid()
}
