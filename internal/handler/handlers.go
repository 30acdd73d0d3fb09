// Package handler provides the HTTP handlers for the /api resources.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/apierrors"
	"github.com/javiator/tenant-management/internal/metrics"
	"github.com/javiator/tenant-management/internal/service"
	"github.com/javiator/tenant-management/internal/validation"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	services     *service.Services
	validator    *validation.Validator
	errorHandler *apierrors.Handler
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewHandlers creates a new Handlers instance. m may be nil.
func NewHandlers(
	services *service.Services,
	errorHandler *apierrors.Handler,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		services:     services,
		validator:    validation.NewValidator(),
		errorHandler: errorHandler,
		metrics:      m,
		logger:       logger,
	}
}

// pathID parses the {id} route variable. On failure a 400 has already been written.
func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		h.errorHandler.WriteInvalidRequest(w, "invalid id: "+strconv.Quote(raw), r.Header.Get(apierrors.RequestIDHeader))
		return 0, false
	}
	return uint(id), true
}

// decode reads the JSON body into v. On failure a 400 has already been written.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.errorHandler.WriteInvalidRequest(w, "malformed request body", r.Header.Get(apierrors.RequestIDHeader))
		return false
	}
	return true
}

// validate runs the create-time checks. On failure a 400 has already been written.
func (h *Handlers) validate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := h.validator.Struct(v); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}

func (h *Handlers) recordWrite(entity, operation string) {
	if h.metrics != nil {
		h.metrics.RecordEntityWrite(entity, operation)
	}
}

// writeJSONResponse writes a JSON response to the HTTP response writer.
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
