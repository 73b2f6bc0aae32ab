// Package errors layers error codes on top of pkg/errors. Codes identify a
// class of failure (schema definition, validation, persistence) and are
// declared next to the package that raises them; callers match with
// errors.Is(err, code) without caring how many times the error was wrapped
// on the way up.
package errors

import (
	"github.com/pkg/errors"
)

// Code is an error code which can be checked against a given error with Is.
type Code string

// Uncoded marks errors created without a meaningful code.
const Uncoded Code = "Uncoded"

// New returns a stack-carrying error tagged with code.
func New(code Code, message string) error {
	return errors.WithStack(codedError{
		Code:    code,
		Message: message,
	})
}

// Newf is New with fmt-style formatting of the message.
func Newf(code Code, format string, args ...any) error {
	return errors.WithStack(codedError{
		Code:    code,
		Message: errors.Errorf(format, args...).Error(),
	})
}

// Errorf returns an uncoded formatted error with a stack.
func Errorf(format string, args ...any) error {
	return errors.Errorf(format, args...)
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, target Code) bool {
	return errors.Is(err, codedError{Code: target})
}

// CodeOf returns the code of err, or Uncoded if err carries none.
func CodeOf(err error) Code {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return Uncoded
}

func As(err error, target any) bool { return errors.As(err, target) }

func Cause(err error) error { return errors.Cause(err) }

func Unwrap(err error) error { return errors.Unwrap(err) }

func Wrap(err error, message string) error { return errors.Wrap(err, message) }

func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}

func WithMessage(err error, message string) error {
	return errors.WithMessage(err, message)
}

func WithStack(err error) error { return errors.WithStack(err) }

// codedError is the fundamental type used by this package to provide coded
// errors.
type codedError struct {
	Code    Code
	Message string
}

func (ce codedError) Error() string { return ce.Message }

// Is matches any codedError with the same code, regardless of message.
func (ce codedError) Is(err error) bool {
	e, ok := err.(codedError)
	return ok && ce.Code == e.Code
}
