package search

import (
	"errors"
	"fmt"
)

// Common errors returned by search backends.
var (
	// ErrAuthError indicates missing or rejected credentials.
	ErrAuthError = errors.New("search service authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("search service rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with search service")

	// ErrInvalidResponse indicates an unexpected response body.
	ErrInvalidResponse = errors.New("invalid response from search service")
)

// APIError is a non-success status returned by a search service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Query      string
}

func (e *APIError) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("search API error (status %d, code %s): %s (query: %s)", e.StatusCode, e.Code, e.Message, e.Query)
	}
	return fmt.Sprintf("search API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound returns true if the error indicates the resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404 || apiErr.Code == "not_found"
	}
	return false
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403 || apiErr.Code == "auth_error"
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.Code == "rate_limited"
	}
	return false
}

// CheckStatus maps an HTTP status code to an error, or nil on success.
func CheckStatus(status int, body string) error {
	switch {
	case status == 401 || status == 403:
		return fmt.Errorf("%w: status %d", ErrAuthError, status)
	case status == 429:
		return fmt.Errorf("%w: status %d", ErrRateLimited, status)
	case status == 404:
		return &APIError{StatusCode: status, Code: "not_found", Message: body}
	case status >= 400:
		return &APIError{StatusCode: status, Code: "api_error", Message: fmt.Sprintf("HTTP %d", status)}
	}
	return nil
}
