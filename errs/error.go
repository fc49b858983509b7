package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Error is the chained-cause error type returned across the onion
// packages. Unlike fmt.Errorf("...: %w", err), it keeps the message
// and the parent causes separately addressable so callers can inspect
// Code() without string matching.
type Error interface {
	error
	Code() CodeError
	Parents() []error
	HasParent() bool
	Add(parents ...error) Error
	Unwrap() error
}

type implError struct {
	code    CodeError
	message string
	parents []error
}

func newError(code CodeError, message string, parents ...error) Error {
	e := &implError{code: code, message: message}
	return e.Add(parents...)
}

func newErrorf(code CodeError, message string, args ...interface{}) Error {
	if strings.Contains(message, "%") && len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	return &implError{code: code, message: message}
}

// New builds an Error with an explicit numeric code and message,
// independent of the registry. Useful for ad-hoc wrapping of
// third-party errors at package boundaries.
func New(code CodeError, message string, parents ...error) Error {
	return newError(code, message, parents...)
}

func (e *implError) Code() CodeError {
	return e.code
}

func (e *implError) Parents() []error {
	return e.parents
}

func (e *implError) HasParent() bool {
	return len(e.parents) > 0
}

func (e *implError) Add(parents ...error) Error {
	for _, p := range parents {
		if p != nil {
			e.parents = append(e.parents, p)
		}
	}
	return e
}

func (e *implError) Unwrap() error {
	if len(e.parents) == 0 {
		return nil
	}
	return e.parents[0]
}

func (e *implError) Error() string {
	if !e.HasParent() {
		return fmt.Sprintf("[%d] %s", e.code, e.message)
	}
	parts := make([]string, 0, len(e.parents))
	for _, p := range e.parents {
		parts = append(parts, p.Error())
	}
	return fmt.Sprintf("[%d] %s: %s", e.code, e.message, strings.Join(parts, "; "))
}

// As is a convenience re-export of errors.As so callers need not
// import the standard errors package alongside this one.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is a convenience re-export of errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
