// Package upstream defines the error type returned when an external provider
// responds with a non-success status.
package upstream

import "fmt"

// Error carries the provider name, HTTP status code, and the raw response
// body of a failed provider call. The body is kept verbatim so callers can
// surface the provider's own diagnostics.
type Error struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("error from %s API (status %d): %s", e.Provider, e.StatusCode, e.Body)
}
