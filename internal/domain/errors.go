package domain

import "errors"

// ErrNoCart indicates a cart operation was attempted without a cart cookie.
var ErrNoCart = errors.New("no cart")

// UserErrorKind separates platform validation failures from locally synthesized ones.
type UserErrorKind int

const (
	// KindPlatform marks errors reported by the platform alongside a successful response.
	KindPlatform UserErrorKind = iota
	// KindPrecondition marks errors produced before any call was made, e.g. no session.
	KindPrecondition
)

// MsgNotLoggedIn is the message carried by the no-session precondition error.
const MsgNotLoggedIn = "Customer not logged in"

// UserError is a business-rule failure returned as data rather than as a Go error.
type UserError struct {
	Field   []string      `json:"field,omitempty"`
	Message string        `json:"message"`
	Code    string        `json:"code,omitempty"`
	Kind    UserErrorKind `json:"-"`
}

// NotLoggedIn returns the precondition error used when a session is required.
func NotLoggedIn() UserError {
	return UserError{Message: MsgNotLoggedIn, Kind: KindPrecondition}
}

// IsPrecondition reports whether any error in errs was synthesized locally.
func IsPrecondition(errs []UserError) bool {
	for _, e := range errs {
		if e.Kind == KindPrecondition {
			return true
		}
	}
	return false
}
