// Package server provides the HTTP server for the tenant management API.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/apierrors"
	"github.com/javiator/tenant-management/internal/config"
	"github.com/javiator/tenant-management/internal/handler"
	"github.com/javiator/tenant-management/internal/health"
	"github.com/javiator/tenant-management/internal/idempotency"
	"github.com/javiator/tenant-management/internal/metrics"
	"github.com/javiator/tenant-management/internal/middleware"
	"github.com/javiator/tenant-management/internal/service"
)

// Server represents the HTTP server.
type Server struct {
	router       *mux.Router
	handler      http.Handler
	httpServer   *http.Server
	handlers     *handler.Handlers
	healthCheck  *health.HealthCheck
	errorHandler *apierrors.Handler
	idempotency  idempotency.Store
	metrics      *metrics.Metrics
	logger       *zap.Logger
	cfg          *config.Config
}

// NewServer creates a new HTTP server. store may be nil, which disables
// Idempotency-Key replay.
func NewServer(cfg *config.Config, services *service.Services, database health.Pinger, store idempotency.Store, logger *zap.Logger) *Server {
	router := mux.NewRouter()
	errorHandler := apierrors.NewHandler(logger)
	m := metrics.NewMetrics()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		router:       router,
		handler:      router,
		httpServer:   httpServer,
		handlers:     handler.NewHandlers(services, errorHandler, m, logger),
		healthCheck:  health.NewHealthCheck(database, logger),
		errorHandler: errorHandler,
		idempotency:  store,
		metrics:      m,
		logger:       logger,
		cfg:          cfg,
	}
}

// SetupRoutes configures all HTTP routes.
func (s *Server) SetupRoutes() {
	// wraps the whole router; router.Use skips preflight and unmatched requests
	middlewareChain := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Recovery(s.errorHandler, s.logger),
		middleware.Logging(s.logger),
		middleware.CORS(s.cfg.CORS.AllowedOrigins),
	}

	if s.cfg.RateLimiter.Enabled {
		rateLimiter := middleware.NewRateLimiter(
			s.cfg.RateLimiter.RequestsPerSecond,
			s.cfg.RateLimiter.BurstSize,
			s.errorHandler,
			s.logger,
		)
		middlewareChain = append(middlewareChain, rateLimiter.Limit)
	}

	middlewareChain = append(middlewareChain, middleware.Timeout(s.cfg.Server.RequestTimeout))

	if s.cfg.Idempotency.Enabled && s.idempotency != nil {
		replay := idempotency.NewMiddleware(s.idempotency, s.cfg.Idempotency.TTL, s.errorHandler, s.metrics, s.logger)
		middlewareChain = append(middlewareChain, replay.Handle)
	}

	// route templates are only known once mux has matched
	s.router.Use(metrics.MetricsMiddleware(s.metrics))

	// Health check endpoints
	s.router.HandleFunc("/health", s.healthCheck.LivenessHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", s.healthCheck.ReadinessHandler).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/properties", s.handlers.ListProperties).Methods(http.MethodGet)
	api.HandleFunc("/properties", s.handlers.CreateProperty).Methods(http.MethodPost)
	api.HandleFunc("/properties/{id}", s.handlers.GetProperty).Methods(http.MethodGet)
	api.HandleFunc("/properties/{id}", s.handlers.UpdateProperty).Methods(http.MethodPut)
	api.HandleFunc("/properties/{id}", s.handlers.DeleteProperty).Methods(http.MethodDelete)
	api.HandleFunc("/properties/{id}/transactions", s.handlers.ListPropertyTransactions).Methods(http.MethodGet)

	api.HandleFunc("/tenants", s.handlers.ListTenants).Methods(http.MethodGet)
	api.HandleFunc("/tenants", s.handlers.CreateTenant).Methods(http.MethodPost)
	api.HandleFunc("/tenants/{id}", s.handlers.GetTenant).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{id}", s.handlers.UpdateTenant).Methods(http.MethodPut)
	api.HandleFunc("/tenants/{id}", s.handlers.DeleteTenant).Methods(http.MethodDelete)
	api.HandleFunc("/tenants/{id}/transactions", s.handlers.ListTenantTransactions).Methods(http.MethodGet)

	api.HandleFunc("/transactions", s.handlers.ListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.handlers.CreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id}", s.handlers.GetTransaction).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id}", s.handlers.UpdateTransaction).Methods(http.MethodPut)
	api.HandleFunc("/transactions/{id}", s.handlers.DeleteTransaction).Methods(http.MethodDelete)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(apierrors.RequestIDHeader)
		s.errorHandler.WriteErrorResponse(w, http.StatusNotFound, apierrors.ErrorCodeNotFound, "endpoint not found", requestID)
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(apierrors.RequestIDHeader)
		s.errorHandler.WriteErrorResponse(w, http.StatusMethodNotAllowed, apierrors.ErrorCodeInvalidRequest, "method not allowed", requestID)
	})

	// subrouters do not inherit these from the root router
	for _, rt := range []*mux.Router{s.router, api} {
		rt.NotFoundHandler = notFound
		rt.MethodNotAllowedHandler = methodNotAllowed
	}

	s.handler = middleware.Chain(middlewareChain...)(s.router)
	s.httpServer.Handler = s.handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		zap.Int("port", s.cfg.Server.Port),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Shutdown marks the server not ready and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	s.healthCheck.SetShuttingDown()
	return s.httpServer.Shutdown(ctx)
}

// GetHandler returns the http.Handler for the server, middleware included.
func (s *Server) GetHandler() http.Handler {
	return s.handler
}
