package idempotency

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/apierrors"
	"github.com/javiator/tenant-management/internal/metrics"
)

const (
	// HeaderKey is the request header naming the idempotency key.
	HeaderKey = "Idempotency-Key"
	// HeaderReplayed is set on replayed responses.
	HeaderReplayed = "Idempotent-Replayed"
)

// Middleware captures POST responses and replays them for repeated keys.
type Middleware struct {
	store        Store
	ttl          time.Duration
	errorHandler *apierrors.Handler
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewMiddleware creates the replay middleware. m may be nil.
func NewMiddleware(store Store, ttl time.Duration, errorHandler *apierrors.Handler, m *metrics.Metrics, logger *zap.Logger) *Middleware {
	return &Middleware{
		store:        store,
		ttl:          ttl,
		errorHandler: errorHandler,
		metrics:      m,
		logger:       logger,
	}
}

// Handle wraps next.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(HeaderKey)
		if r.Method != http.MethodPost || key == "" {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get(apierrors.RequestIDHeader)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			m.errorHandler.WriteInvalidRequest(w, "unreadable request body", requestID)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		bodyHash := hex.EncodeToString(sum[:])

		storeKey := "idempotency:" + r.URL.Path + ":" + key

		cached, err := m.store.Get(r.Context(), storeKey)
		switch {
		case err == nil && cached.BodyHash != bodyHash:
			m.logger.Debug("idempotency key reused with a different body",
				zap.String("key", key),
				zap.String("path", r.URL.Path),
			)
			m.errorHandler.WriteErrorResponse(w, http.StatusUnprocessableEntity, apierrors.ErrorCodeKeyReused,
				"idempotency key was already used with a different request body", requestID)
			return
		case err == nil:
			m.logger.Debug("replaying idempotent response",
				zap.String("key", key),
				zap.String("path", r.URL.Path),
			)
			if m.metrics != nil {
				m.metrics.RecordIdempotentReplay()
			}
			replay(w, cached)
			return
		case !errors.Is(err, ErrNotFound):
			m.logger.Warn("idempotency lookup failed", zap.Error(err), zap.String("key", key))
		}

		rec := &recorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		// server errors are not cached so the client can retry
		if rec.statusCode >= http.StatusInternalServerError {
			return
		}

		resp := &Response{
			StatusCode: rec.statusCode,
			Header:     w.Header().Clone(),
			Body:       rec.body.Bytes(),
			BodyHash:   bodyHash,
		}
		if err := m.store.Set(r.Context(), storeKey, resp, m.ttl); err != nil {
			m.logger.Warn("failed to store idempotent response", zap.Error(err), zap.String("key", key))
		}
	})
}

func replay(w http.ResponseWriter, resp *Response) {
	for k, values := range resp.Header {
		if k == "X-Request-Id" {
			continue
		}
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set(HeaderReplayed, "true")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// recorder writes through to the client while keeping a copy of the body.
type recorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
