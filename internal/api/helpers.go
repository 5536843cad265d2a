package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"minter/internal/minter"
	"minter/internal/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// statusFor maps service error kinds to HTTP status codes
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, minter.ErrInvalidForm),
		errors.Is(err, minter.ErrIncompleteMetadata),
		errors.Is(err, minter.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, minter.ErrNotContractOwner):
		return http.StatusForbidden
	case errors.Is(err, minter.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, minter.ErrRead),
		errors.Is(err, minter.ErrUpload),
		errors.Is(err, minter.ErrTransaction):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sendError sends a JSON error response
func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}

// sendServiceError logs err and sends it with the status of its kind
func (s *Server) sendServiceError(w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		slog.Error("Request failed",
			"op", op,
			"request_id", w.Header().Get(requestIDHeader),
			"error", err,
		)
	}
	s.sendError(w, err.Error(), code)
}

// sendJSON sends v with the given status code
func (s *Server) sendJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// pagination reads ?limit= and ?offset=, falling back to the defaults on bad input
func pagination(r *http.Request) (limit, offset int) {
	query := r.URL.Query()

	limit = defaultPageSize
	if limitStr := query.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= maxPageSize {
			limit = parsed
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}

// pathIndex parses the {index} path value
func pathIndex(r *http.Request) (uint64, bool) {
	index, err := strconv.ParseUint(r.PathValue("index"), 10, 64)
	return index, err == nil
}

const requestIDHeader = "X-Request-ID"

// withRequestID tags each request with an id and logs it at debug level
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)

		slog.Debug("HTTP request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
