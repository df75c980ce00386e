package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// ValidationError rejects a request before any external call is made, e.g.
// paying with an empty cart or outside the ReadyToPay state.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validation builds a ValidationError.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ExternalError wraps a transport failure or a non-2xx reply from one of the
// external services. It is surfaced to the user and never retried here.
type ExternalError struct {
	Service string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// DeclinedError carries an explicit failure reported by the payment backend.
// The reason is passed through to the user verbatim.
type DeclinedError struct {
	Reason string
}

func (e *DeclinedError) Error() string {
	return e.Reason
}
