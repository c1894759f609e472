package inkwell

import "github.com/kailas-cloud/inkwell/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrQueryFailed      = domain.ErrQueryFailed
	ErrInvalidArgument  = domain.ErrInvalidArgument
	ErrUnsupportedValue = domain.ErrUnsupportedValue
	ErrSummarizerError  = domain.ErrSummarizerError
)
