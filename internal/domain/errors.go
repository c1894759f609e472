package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrQueryFailed signals a non-success response from the document store.
	ErrQueryFailed = errors.New("query failed")
	// ErrInvalidArgument signals a malformed request parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedValue signals a value that has no typed representation.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrSummarizerError signals an excerpt summarizer failure.
	ErrSummarizerError = errors.New("summarizer error")
)

// InvalidArgumentError wraps ErrInvalidArgument with the offending field.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidArgument.Error(), e.Field, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// NewInvalidArgument creates an invalid argument error.
func NewInvalidArgument(field, reason string) error {
	return &InvalidArgumentError{Field: field, Reason: reason}
}
