// Package errors defines the typed errors used across the Tern runtime.
package errors

import (
	"fmt"
)

// FatalError is an interface for errors that may or may not be fatal.
type FatalError interface {
	Error() string
	IsFatal() bool
}

// TypeError is used to indicate a value of an invalid type was supplied.
type TypeError struct {
	Err error
}

func (t *TypeError) Error() string {
	return t.Err.Error()
}

func (t *TypeError) Unwrap() error {
	return t.Err
}

func (t *TypeError) IsFatal() bool {
	return false
}

func NewTypeError(err error) *TypeError {
	return &TypeError{Err: err}
}

func TypeErrorf(format string, args ...any) *TypeError {
	return NewTypeError(fmt.Errorf(format, args...))
}

// UnsupportedError indicates a language feature that the runtime recognizes
// but does not implement. Unlike a TypeError, there is no input the caller
// could have supplied differently: the feature itself is unavailable.
type UnsupportedError struct {
	Err error
}

func (u *UnsupportedError) Error() string {
	return u.Err.Error()
}

func (u *UnsupportedError) Unwrap() error {
	return u.Err
}

func (u *UnsupportedError) IsFatal() bool {
	return false
}

func NewUnsupportedError(err error) *UnsupportedError {
	return &UnsupportedError{Err: err}
}

func Unsupportedf(format string, args ...any) *UnsupportedError {
	return NewUnsupportedError(fmt.Errorf(format, args...))
}
