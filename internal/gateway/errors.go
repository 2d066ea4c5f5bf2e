package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransient covers transport failures, timeouts and 5xx answers.
	ErrTransient = errors.New("transient network failure")
	// ErrAuth is returned for 401 and 403 answers. The stored credential is
	// cleared before it is returned.
	ErrAuth = errors.New("authentication failure")
	// ErrMalformed is returned when a body cannot be decoded.
	ErrMalformed = errors.New("malformed response")
	// ErrNotSignedIn is returned before calls that need a stored credential.
	ErrNotSignedIn = errors.New("not signed in")
)

// APIError represents an error response from a remote API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

// Unwrap classifies the status so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrAuth
	case e.Status >= http.StatusInternalServerError:
		return ErrTransient
	default:
		return nil
	}
}

// ValidationError reports the first invalid field of a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
