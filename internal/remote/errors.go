package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable wraps transport failures: refused connections, resets,
	// DNS errors and cancelled requests.
	ErrUnavailable = errors.New("directory service unavailable")

	// ErrLookupTimeout is returned when a single-coach lookup exceeds the
	// lookup deadline. It is never wrapped in ErrUnavailable.
	ErrLookupTimeout = errors.New("coach lookup timed out")
)

// StatusError is a non-2xx response from the directory service.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("directory service %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// ParseError is a response body that does not match the directory schema.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed directory response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
