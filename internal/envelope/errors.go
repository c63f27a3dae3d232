// Package envelope wraps runner actions with error classification, bounded
// retry, failure screenshots and batched response validation.
package envelope

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qaforge/webprobe/internal/locator"
)

// Kind is a failure classification used for retry and reporting decisions.
type Kind string

const (
	KindElementNotFound Kind = "ElementNotFound"
	KindTimeout         Kind = "Timeout"
	KindAPIError        Kind = "ApiError"
	KindValidation      Kind = "ValidationError"
	KindAuthentication  Kind = "AuthenticationError"
	KindNetwork         Kind = "NetworkError"
	KindAssertion       Kind = "AssertionError"
	KindUnknown         Kind = "Unknown"
)

// ClassifiedError is an error tagged with a failure kind. It is created at
// the point of failure and never mutated afterwards.
type ClassifiedError struct {
	Message   string
	Kind      Kind
	Context   string
	Details   []string
	Timestamp time.Time

	cause error
}

// NewClassifiedError tags an error with a kind and context.
func NewClassifiedError(kind Kind, context, message string, details ...string) *ClassifiedError {
	return &ClassifiedError{
		Message:   message,
		Kind:      kind,
		Context:   context,
		Details:   details,
		Timestamp: time.Now(),
	}
}

func (e *ClassifiedError) Error() string {
	return e.Message
}

func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// ClassifyKind determines the failure kind of an arbitrary error. An error
// already carrying a kind keeps it; locator lookup failures are
// ElementNotFound; timeout-looking messages are Timeout; everything else is
// Unknown.
func ClassifyKind(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Kind
	}

	var notFound *locator.NotFoundError
	if errors.As(err, &notFound) {
		return KindElementNotFound
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return KindTimeout
	case strings.Contains(msg, "net::") || strings.Contains(msg, "connection refused"):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// classify wraps err into a ClassifiedError, preserving an existing one.
func classify(err error, context string) *ClassifiedError {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}
	ce := NewClassifiedError(ClassifyKind(err), context, err.Error())
	ce.cause = err
	return ce
}

// apiError builds the batched ApiError raised by ValidateResponse.
func apiError(context string, violations []string) *ClassifiedError {
	return NewClassifiedError(
		KindAPIError,
		context,
		fmt.Sprintf("response validation failed with %d violation(s): %s", len(violations), strings.Join(violations, "; ")),
		violations...,
	)
}
