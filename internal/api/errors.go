package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingAPIKey means no access credential is configured.
	ErrMissingAPIKey = errors.New("scripture API key is not set")

	// ErrUnauthorized matches a StatusError for 401 and 403 responses.
	ErrUnauthorized = errors.New("scripture API key was rejected")
)

// StatusError is a non-success HTTP response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: API returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// TransportError is a failure to reach the service at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// DataError is a response that decoded badly or lacked a required field.
type DataError struct {
	Op    string
	Field string
	Err   error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: response missing %s", e.Op, e.Field)
}

func (e *DataError) Unwrap() error { return e.Err }
