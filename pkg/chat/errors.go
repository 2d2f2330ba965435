package chat

import (
	"errors"
	"fmt"
)

// Sentinel errors for the chat package.
var (
	// ErrMissingAPIKey indicates the API key was not provided.
	ErrMissingAPIKey = errors.New("chat: API key is required")

	// ErrEmptyResponse indicates the upstream returned no choices.
	ErrEmptyResponse = errors.New("chat: upstream returned no choices")
)

// APIError represents an error response from the upstream chat API.
// Failed calls are surfaced directly, never silently retried.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Code is the error code from the API, when present.
	Code string

	// Message is the human-readable error message.
	Message string

	// Type is the error type/category from the API, when present.
	Type string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("chat: API error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("chat: API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// NewAPIError creates a new APIError.
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// IsNotConfigured returns true if the error indicates a missing credential.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrMissingAPIKey)
}
