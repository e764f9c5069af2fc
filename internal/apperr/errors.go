// Package apperr provides the structured errors surfaced by the service layer.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeUpstreamTimeout  ErrorCode = "UPSTREAM_TIMEOUT"
	CodeUpstreamError    ErrorCode = "UPSTREAM_ERROR"
	CodeInternal         ErrorCode = "INTERNAL"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationError reports bad caller input such as a blank question.
func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      CodeValidationFailed,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidArgumentError reports malformed pagination or query parameters.
func NewInvalidArgumentError(message, details string) *StandardError {
	return &StandardError{
		Code:      CodeInvalidArgument,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError reports a lookup with no match.
func NewNotFoundError(resource, key string) *StandardError {
	return &StandardError{
		Code:      CodeNotFound,
		Message:   resource + " not found",
		Details:   key,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamTimeoutError reports that the generation service did not answer in time.
func NewUpstreamTimeoutError(timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      CodeUpstreamTimeout,
		Message:   "generation service timed out",
		Details:   fmt.Sprintf("timeout: %s", timeout),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamError reports a failed or malformed generation response.
func NewUpstreamError(details string) *StandardError {
	return &StandardError{
		Code:      CodeUpstreamError,
		Message:   "generation service failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      CodeInternal,
		Message:   "internal error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf returns the code of the first StandardError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
