package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks a rejection of the configured credentials (HTTP 401/403).
// Gateways that report authorization as its own outcome check for it with errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// ErrorType is the category of a failed provider call
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"    // connection refused, DNS, reset
	ErrorTypeRateLimit  ErrorType = "rate_limit" // HTTP 429 or an in-band throttle notice
	ErrorTypeServer     ErrorType = "server"     // HTTP 5xx
	ErrorTypeClient     ErrorType = "client"     // HTTP 4xx other than 429
	ErrorTypeValidation ErrorType = "validation" // payload received but unusable
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// transient error types; asking the provider again later may succeed
var retryable = map[ErrorType]bool{
	ErrorTypeNetwork:   true,
	ErrorTypeRateLimit: true,
	ErrorTypeServer:    true,
	ErrorTypeTimeout:   true,
}

// FetchError describes why a provider call produced no usable payload
type FetchError struct {
	Type       ErrorType
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

func newError(t ErrorType, statusCode int, message string, cause error) *FetchError {
	return &FetchError{
		Type:       t,
		Retryable:  retryable[t],
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

// Error implements the error interface. The cause, when present, is appended.
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error
func NewNetworkError(cause error) *FetchError {
	return newError(ErrorTypeNetwork, 0, "network request failed", cause)
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(statusCode int) *FetchError {
	return newError(ErrorTypeRateLimit, statusCode, "rate limit exceeded", nil)
}

// NewServerError creates a server error
func NewServerError(statusCode int) *FetchError {
	return newError(ErrorTypeServer, statusCode, "server returned an error", nil)
}

// NewClientError creates a client error
func NewClientError(statusCode int, message string) *FetchError {
	return newError(ErrorTypeClient, statusCode, message, nil)
}

// NewValidationError reports a response that arrived but could not be turned into a payload
func NewValidationError(message string) *FetchError {
	return newError(ErrorTypeValidation, 0, message, nil)
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(cause error) *FetchError {
	return newError(ErrorTypeTimeout, 0, "request timed out", cause)
}

// NewUnauthorizedError is a client error wrapping ErrUnauthorized
func NewUnauthorizedError(statusCode int, message string) *FetchError {
	return newError(ErrorTypeClient, statusCode, message, ErrUnauthorized)
}

// IsUnauthorized reports whether err was caused by rejected credentials
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsRetryable reports whether err is a FetchError of a transient type
func IsRetryable(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Retryable
}

// ClassifyHTTPError maps a non-2xx status code to a FetchError
func ClassifyHTTPError(statusCode int) *FetchError {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewUnauthorizedError(statusCode, fmt.Sprintf("credentials rejected: HTTP %d", statusCode))
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError(statusCode)
	case statusCode >= 500:
		return NewServerError(statusCode)
	case statusCode >= 400:
		return NewClientError(statusCode, fmt.Sprintf("client error: HTTP %d", statusCode))
	default:
		return newError(ErrorTypeUnknown, statusCode, fmt.Sprintf("unexpected status code: %d", statusCode), nil)
	}
}

// ClassifyTransportError wraps an error returned before any HTTP status was received.
// Deadline expiry is reported as a timeout, everything else as a network failure.
func ClassifyTransportError(err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}
	return NewNetworkError(err)
}
