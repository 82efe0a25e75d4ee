package models

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrSuperseded is returned when a newer fetch for the same session replaced this one.
	ErrSuperseded = errors.New("request superseded by a newer one")

	// ErrUnknownMood is returned for a mood the discovery service has no configuration for.
	ErrUnknownMood = errors.New("unknown mood")
)

// LocationError means the client position is missing or unusable.
type LocationError struct {
	Reason string
}

func (e *LocationError) Error() string {
	return "location unavailable: " + e.Reason
}

// NetworkError means the POI service could not be reached.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError is a NetworkError raised when the client-side abort fired.
// errors.As finds both *TimeoutError and the wrapped *NetworkError.
type TimeoutError struct {
	After time.Duration
	err   *NetworkError
}

// NewTimeoutError builds a TimeoutError wrapping context.DeadlineExceeded.
func NewTimeoutError(after time.Duration) *TimeoutError {
	return &TimeoutError{After: after, err: &NetworkError{Err: context.DeadlineExceeded}}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.After)
}

func (e *TimeoutError) Unwrap() error { return e.err }

// APIError is a non-success HTTP status from the POI service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// Retryable reports whether repeating the same request may succeed.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// ErrorType classifies failures for the client.
type ErrorType string

const (
	ErrorTypeLocation ErrorType = "location"
	ErrorTypeAPI      ErrorType = "api"
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError is the client-facing description of a failure.
type AppError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
}

// ToAppError maps any error from the discovery path to an AppError.
func ToAppError(err error) AppError {
	var (
		locErr     *LocationError
		timeoutErr *TimeoutError
		netErr     *NetworkError
		apiErr     *APIError
	)

	switch {
	case errors.As(err, &locErr):
		return AppError{Type: ErrorTypeLocation, Message: locErr.Error(), Retryable: true}
	case errors.As(err, &timeoutErr):
		return AppError{Type: ErrorTypeNetwork, Message: "Request timed out. Please try again.", Retryable: true}
	case errors.As(err, &netErr):
		return AppError{Type: ErrorTypeNetwork, Message: "Could not reach the places service. Please try again.", Retryable: true}
	case errors.As(err, &apiErr):
		return AppError{
			Type:      ErrorTypeAPI,
			Message:   fmt.Sprintf("Places service error (%d %s)", apiErr.StatusCode, http.StatusText(apiErr.StatusCode)),
			Retryable: apiErr.Retryable(),
		}
	case errors.Is(err, ErrSuperseded):
		return AppError{Type: ErrorTypeUnknown, Message: err.Error(), Retryable: false}
	case errors.Is(err, ErrUnknownMood):
		return AppError{Type: ErrorTypeUnknown, Message: err.Error(), Retryable: false}
	default:
		return AppError{Type: ErrorTypeUnknown, Message: "Failed to fetch places", Retryable: true}
	}
}

// HTTPStatus returns the status code the API answers with for err.
func HTTPStatus(err error) int {
	var (
		locErr     *LocationError
		timeoutErr *TimeoutError
		netErr     *NetworkError
		apiErr     *APIError
	)

	switch {
	case errors.As(err, &locErr):
		return http.StatusBadRequest
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &netErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.Is(err, ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownMood):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
