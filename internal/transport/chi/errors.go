package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/logger"
)

// ErrorCode is the machine-readable error kind of an API response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest      ErrorCode = "bad_request"
	CodeUnauthorized    ErrorCode = "unauthorized"
	CodeNotFound        ErrorCode = "not_found"
	CodeInvalidArgument ErrorCode = "invalid_argument"
	CodeUpstreamFailed  ErrorCode = "upstream_failed"
	CodeInternalError   ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

var errorHandlers = []errorHandler{
	invalidArgumentHandler,
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrQueryFailed, http.StatusBadGateway, CodeUpstreamFailed),
	sentinelHandler(domain.ErrSummarizerError, http.StatusBadGateway, CodeUpstreamFailed),
	sentinelHandler(domain.ErrUnsupportedValue, http.StatusBadRequest, CodeInvalidArgument),
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// invalidArgumentHandler exposes the offending field, which is safe to show.
func invalidArgumentHandler(w http.ResponseWriter, err error) bool {
	var iae *domain.InvalidArgumentError
	if errors.As(err, &iae) {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, iae.Error())
		return true
	}
	if errors.Is(err, domain.ErrInvalidArgument) {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, domain.ErrInvalidArgument.Error())
		return true
	}
	return false
}

// sentinelHandler answers with the sentinel's message, never the wrapped
// internals.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	for _, h := range errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
