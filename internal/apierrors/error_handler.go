// Package apierrors maps service errors onto HTTP status codes and the JSON error envelope.
package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/service"
	"github.com/javiator/tenant-management/internal/validation"
)

// ErrorCode represents application-specific error codes.
type ErrorCode string

const (
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodeConflict         ErrorCode = "CONFLICT"
	ErrorCodeKeyReused        ErrorCode = "IDEMPOTENCY_KEY_REUSED"
	ErrorCodeRateLimited      ErrorCode = "RATE_LIMITED"
	ErrorCodeTimeout          ErrorCode = "TIMEOUT"
	ErrorCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// RequestIDHeader carries the request id set by the RequestID middleware.
const RequestIDHeader = "X-Request-ID"

// ErrorResponse represents the standard error response format.
type ErrorResponse struct {
	Status    string            `json:"status"`
	ErrorCode ErrorCode         `json:"error_code"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Handler provides error handling functionality.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new error handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

// HandleError classifies err and writes the matching error response.
func (h *Handler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := r.Header.Get(RequestIDHeader)

	var verr *validation.Error
	if errors.As(err, &verr) {
		h.write(w, http.StatusBadRequest, ErrorResponse{
			ErrorCode: ErrorCodeValidationFailed,
			Message:   "validation failed",
			RequestID: requestID,
			Fields:    verr.Fields,
		})
		return
	}

	statusCode := HTTPStatus(err)
	code := Code(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID),
		)
		message = "internal server error"
	}

	h.WriteErrorResponse(w, statusCode, code, message, requestID)
}

// HTTPStatus converts a service error to an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		var verr *validation.Error
		if errors.As(err, &verr) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}

// Code converts a service error to an application error code.
func Code(err error) ErrorCode {
	switch HTTPStatus(err) {
	case http.StatusNotFound:
		return ErrorCodeNotFound
	case http.StatusConflict:
		return ErrorCodeConflict
	case http.StatusBadRequest:
		return ErrorCodeValidationFailed
	case http.StatusGatewayTimeout:
		return ErrorCodeTimeout
	default:
		return ErrorCodeInternalError
	}
}

// WriteErrorResponse writes a formatted error response to the HTTP response writer.
func (h *Handler) WriteErrorResponse(w http.ResponseWriter, statusCode int, errorCode ErrorCode, message string, requestID string) {
	h.write(w, statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		RequestID: requestID,
	})
}

func (h *Handler) write(w http.ResponseWriter, statusCode int, resp ErrorResponse) {
	h.logger.Warn("HTTP error response",
		zap.Int("status_code", statusCode),
		zap.String("error_code", string(resp.ErrorCode)),
		zap.String("message", resp.Message),
		zap.String("request_id", resp.RequestID),
	)

	resp.Status = "error"
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", zap.Error(err))
	}
}

// WriteInvalidRequest writes a 400 for malformed bodies or path parameters.
func (h *Handler) WriteInvalidRequest(w http.ResponseWriter, message string, requestID string) {
	h.WriteErrorResponse(w, http.StatusBadRequest, ErrorCodeInvalidRequest, message, requestID)
}

// WriteInternalError writes an internal error response.
func (h *Handler) WriteInternalError(w http.ResponseWriter, message string, requestID string) {
	h.WriteErrorResponse(w, http.StatusInternalServerError, ErrorCodeInternalError, message, requestID)
}

// WriteRateLimitedError writes a rate limit exceeded response.
func (h *Handler) WriteRateLimitedError(w http.ResponseWriter, requestID string) {
	h.WriteErrorResponse(w, http.StatusTooManyRequests, ErrorCodeRateLimited, "rate limit exceeded", requestID)
}
