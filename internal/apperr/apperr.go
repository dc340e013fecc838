// Package apperr carries the numeric workflow error codes the mobile client
// keys its error UI on. Validation failures abort the triggering mutation
// and return exactly one of these codes.
package apperr

import "fmt"

// Ride validation (before-save).
const (
	CodeRideDateInPast   = 601
	CodeRideTooFewSeats  = 602
	CodeRideTooManySeats = 603
	CodeRideLookupFailed = 609
	CodeRideDeleteFailed = 701
)

// Request validation (before-save).
const (
	CodeRequestNoSeats      = 801
	CodeRequestTeamMismatch = 802
	CodeRequestTeamOneSided = 803
	CodeRequestLookupFailed = 804
)

// Remote call preconditions.
const (
	CodeGeneric        = 999
	CodeMissingChannel = 9001
	CodeMissingUser    = 9002
)

// Error is a business-rule failure with a client-facing numeric code.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code %d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code %d: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a coded error around an underlying failure, typically a
// dependent store query that could not be answered.
func Wrap(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
