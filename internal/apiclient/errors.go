package apiclient

import (
	"errors"
	"fmt"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Request failed with status: %d - %s", e.Code, e.Status)
}

// APIError is returned when the API answers 2xx but reports a status other
// than success.
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api reported status %q", e.Status)
}

// MessageOr returns the message reported by the API, or fallback when the
// API did not send one.
func (e *APIError) MessageOr(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// IsAPIError reports whether err carries a non-success API status.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
