// Package apierr carries an HTTP status and a stable wire code alongside
// an error, for outcomes that do not fit the sentinel error taxonomy.
package apierr

import "fmt"

// Error pairs the status and code the transport layer should emit with the
// underlying error. The handlers' error responder checks for it before the
// sentinel mapping.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}
