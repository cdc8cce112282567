package stream

import (
	"fmt"
	"time"
)

// ErrorType categorizes the ways a run stream can fail
type ErrorType string

const (
	ErrorTypeServiceUnavailable ErrorType = "service_unavailable"
	ErrorTypeBadStatus          ErrorType = "bad_status"
	ErrorTypeInterrupted        ErrorType = "interrupted"
	ErrorTypeTimeout            ErrorType = "timeout"
	ErrorTypeCancelled          ErrorType = "cancelled"
	ErrorTypeInvalidRequest     ErrorType = "invalid_request"
)

// Error is a transport-level failure of a run stream. It is always terminal
// for the run it belongs to.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if starting a new run is likely to succeed
func (e *Error) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeServiceUnavailable, ErrorTypeInterrupted, ErrorTypeTimeout:
		return true
	default:
		return false
	}
}

// UserMessage returns a user-friendly error message
func (e *Error) UserMessage() string {
	switch e.Type {
	case ErrorTypeServiceUnavailable:
		return "Notifier service unavailable. Please check if the service is running."
	case ErrorTypeBadStatus:
		return fmt.Sprintf("Notifier service refused the run: %s", e.Message)
	case ErrorTypeInterrupted:
		return "Connection to the run was lost before it completed."
	case ErrorTypeTimeout:
		return fmt.Sprintf("The run timed out and was abandoned: %s.", e.Message)
	case ErrorTypeCancelled:
		return "The run stream was cancelled."
	case ErrorTypeInvalidRequest:
		return fmt.Sprintf("Invalid stream request: %s", e.Message)
	default:
		return e.Message
	}
}

func newServiceUnavailableError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeServiceUnavailable,
		Message: "Service not available",
		Cause:   cause,
	}
}

func newBadStatusError(status string) *Error {
	return &Error{
		Type:    ErrorTypeBadStatus,
		Message: status,
	}
}

func newInterruptedError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeInterrupted,
		Message: "Stream ended before the run completed",
		Cause:   cause,
	}
}

func newTimeoutError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeTimeout,
		Message: "the stream did not respond in time",
		Cause:   cause,
	}
}

// NewInactivityError is the failure a watchdog reports for a run that sent
// no event for idle.
func NewInactivityError(idle time.Duration) *Error {
	return &Error{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("no progress reported for %s", idle),
	}
}

func newCancelledError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeCancelled,
		Message: "Operation cancelled",
		Cause:   cause,
	}
}

func newInvalidRequestError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeInvalidRequest,
		Message: message,
		Cause:   cause,
	}
}
