// Package errors provides the coded errors shared by the layout engine, the
// pipeline, the stores, the generator, the CLI and the HTTP API.
//
// Every failure a caller may want to branch on carries a [Code]:
//
//   - INVALID_INPUT, INVALID_TREE, INVALID_FORMAT, INVALID_SIZE: rejected input
//   - NO_DATA, CYCLIC_TREE, TREE_TOO_DEEP: trees the positioner cannot lay out
//   - NOT_FOUND, FILE_NOT_FOUND: missing mind maps and input files
//   - NETWORK_ERROR, TIMEOUT, RATE_LIMITED: generator and backend failures
//   - INTERNAL_ERROR, UNSUPPORTED: bugs and disabled features
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTree, "duplicate node id %q", id)
//	if errors.Is(err, errors.ErrCodeInvalidTree) {
//	    // reject the upload
//	}
//
//	err = errors.Wrap(errors.ErrCodeRateLimited, apiErr, "generation rate limited").
//	    WithRetryAfter(30 * time.Second)
//	errors.RetryAfter(err) // 30s
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidTree   Code = "INVALID_TREE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidSize   Code = "INVALID_SIZE"

	ErrCodeNoData      Code = "NO_DATA"
	ErrCodeCyclicTree  Code = "CYCLIC_TREE"
	ErrCodeTreeTooDeep Code = "TREE_TOO_DEEP"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error

	// RetryAfter is how long the caller should wait before trying again.
	// Only set on RATE_LIMITED errors whose backend said so.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithRetryAfter sets the retry hint and returns e.
func (e *Error) WithRetryAfter(d time.Duration) *Error {
	if d > 0 {
		e.RetryAfter = d
	}
	return e
}

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// RetryAfter returns the first retry hint found in err's chain.
func RetryAfter(err error) time.Duration {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return 0
		}
		if e.RetryAfter > 0 {
			return e.RetryAfter
		}
		err = e.Cause
	}
	return 0
}

// UserMessage returns the message of a coded error without its code and
// cause, or err.Error() for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to the status the API answers with. Uncoded errors
// are internal.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidTree, ErrCodeInvalidFormat, ErrCodeInvalidSize,
		ErrCodeCyclicTree, ErrCodeTreeTooDeep:
		return http.StatusBadRequest
	case ErrCodeNoData:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeNetwork:
		return http.StatusBadGateway
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
