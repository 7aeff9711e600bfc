package llmclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoAPIKey indicates the API key for a provider is missing.
	ErrNoAPIKey = errors.New("API key is required")

	// ErrUnknownProvider indicates a registry entry carries a provider tag the
	// client factory cannot dispatch. This is a misconfiguration, not a user
	// error.
	ErrUnknownProvider = errors.New("unknown model provider")

	// ErrEmptyResponse indicates the API returned no choices.
	ErrEmptyResponse = errors.New("empty response from API")
)

// APIError represents an error response from a provider API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Code       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error is retryable.
func (e *APIError) IsRetryable() bool {
	if e.StatusCode >= 500 && e.StatusCode < 600 {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests
}

// IsAuthError returns true if this is an authentication error.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.Code == "invalid_api_key"
}
