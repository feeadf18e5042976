package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a failed API call. Message is what the user should see:
// the backend's error text if it sent one, else a per-operation fallback.
type APIError struct {
	Op      string // Operation name, e.g. "minify"
	Status  int    // HTTP status; 0 if no response was received
	Message string
	Err     error // Underlying transport or decode error, if any
}

func (e *APIError) Error() string {
	if e.Status == 0 && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

func newAPIError(op operation, status int, body []byte) *APIError {
	msg := decodeErrorBody(body)
	if msg == "" {
		msg = op.fallback
	}
	return &APIError{Op: op.name, Status: status, Message: msg}
}

// Message returns the user-facing text for err: the APIError message when
// err is one, else err.Error(). A nil err yields "".
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
