package shopify

import (
	"errors"
	"fmt"
	"net/http"
)

// Causes reported by Fetch when the platform did not return a GraphQL error code.
const (
	CauseTransport = "transport"
	CauseDecode    = "decode"
	CauseHTTP      = "http"
	CauseUnknown   = "unknown"
)

// Error is the single failure shape produced by the transport: every
// network, decoding or platform-reported failure surfaces as *Error.
type Error struct {
	Cause   string
	Status  int
	Message string
	Query   string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("shopify: %s (status %d): %s", e.Cause, e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func newError(cause string, status int, message, query string, err error) *Error {
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	if cause == "" {
		cause = CauseUnknown
	}
	if message == "" && err != nil {
		message = err.Error()
	}
	return &Error{Cause: cause, Status: status, Message: message, Query: query, Err: err}
}

// graphQLError is one entry of the platform's "errors" array.
type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

func (g graphQLError) Error() string { return g.Message }
