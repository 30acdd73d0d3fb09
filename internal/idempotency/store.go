// Package idempotency replays the first response of a POST carrying an
// Idempotency-Key header for subsequent requests with the same key and path.
//
// The request body is fingerprinted alongside the response. Reusing a key with
// a different body is rejected with 422 instead of replaying the first result.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/config"
)

// ErrNotFound is returned by a Store when no response is cached under a key.
var ErrNotFound = errors.New("idempotency key not found")

// Response is a captured HTTP response.
type Response struct {
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header"`
	Body       []byte      `json:"body"`
	// hex SHA-256 of the request body that produced the response
	BodyHash   string      `json:"body_hash"`
}

// Store keeps captured responses for a bounded time.
type Store interface {
	Get(ctx context.Context, key string) (*Response, error)
	Set(ctx context.Context, key string, resp *Response, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// NewStore builds the backend named in cfg.
func NewStore(cfg config.IdempotencyConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	default:
		return nil, fmt.Errorf("unsupported idempotency backend: %q", cfg.Backend)
	}
}
