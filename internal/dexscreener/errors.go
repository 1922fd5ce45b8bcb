// internal/dexscreener/errors.go
package dexscreener

import (
	"errors"
	"fmt"
)

// APIError is the single normalized error for provider and network failures.
// StatusCode is zero when the failure happened below the HTTP layer.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (Status: %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// NewAPIError creates a normalized provider error without a status code.
func NewAPIError(message string) *APIError {
	return &APIError{Message: message}
}

// NewStatusError creates a normalized provider error for a non-2xx response.
func NewStatusError(statusCode int, message string) *APIError {
	return &APIError{Message: message, StatusCode: statusCode}
}

// DecodeError reports a provider payload that does not match the expected
// shape. It is distinct from APIError: the request succeeded, the body did not.
type DecodeError struct {
	What string // which response or field failed to decode
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response shape: %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("invalid response shape: %s", e.What)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecodeError wraps a decoding failure for the named response.
func NewDecodeError(what string, err error) *DecodeError {
	return &DecodeError{What: what, Err: err}
}

// IsAPIError reports whether err is (or wraps) a normalized provider error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsDecodeError reports whether err is (or wraps) an invalid-shape error.
func IsDecodeError(err error) bool {
	var decErr *DecodeError
	return errors.As(err, &decErr)
}
