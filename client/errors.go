package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a registry document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamDown is returned when the registry keeps failing or the
	// circuit breaker for its host is open.
	ErrUpstreamDown = errors.New("upstream registry unavailable")
)

// HTTPError represents a non-2xx registry response.
type HTTPError struct {
	Method     string
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.StatusCode)
}

// IsNotFound returns true if the error represents a 404 response.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == 404
}

// Unwrap lets errors.Is match ErrNotFound and ErrUpstreamDown.
func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == 404:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrUpstreamDown
	}
	return nil
}

// NotFoundError wraps ErrNotFound with the package that was asked for.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("package %s not found", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// RateLimitError is returned when the registry rate limits requests.
type RateLimitError struct {
	RetryAfter int // seconds
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %d seconds", e.RetryAfter)
}
