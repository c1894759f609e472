package firestore

import (
	"errors"
	"fmt"
)

// Sentinel errors for Firestore operations.
var (
	ErrNotFound         = errors.New("firestore: not found")
	ErrQueryFailed      = errors.New("firestore: query failed")
	ErrUnsupportedValue = errors.New("firestore: unsupported value")
)

// Op constants name the REST calls for error context.
const (
	OpRunQuery = "runQuery"
	OpGet      = "get"
	OpPatch    = "patch"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "firestore " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// QueryFailedError reports a non-success response. Status is 0 when no
// response was received (timeout, connection failure).
type QueryFailedError struct {
	Status int
	Body   string
	Err    error
}

func (e *QueryFailedError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", ErrQueryFailed.Error(), e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: status %d: %s", ErrQueryFailed.Error(), e.Status, e.Body)
	}
	return fmt.Sprintf("%s: status %d", ErrQueryFailed.Error(), e.Status)
}

// Is makes errors.Is(err, ErrQueryFailed) match.
func (e *QueryFailedError) Is(target error) bool { return target == ErrQueryFailed }

func (e *QueryFailedError) Unwrap() error { return e.Err }

// Transient reports whether repeating the request may succeed.
func (e *QueryFailedError) Transient() bool {
	switch e.Status {
	case 0, 429, 500, 502, 503, 504:
		return true
	}
	return false
}
