package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/config"
	"github.com/javiator/tenant-management/internal/database"
	"github.com/javiator/tenant-management/internal/idempotency"
	"github.com/javiator/tenant-management/internal/metrics"
	"github.com/javiator/tenant-management/internal/repository"
	"github.com/javiator/tenant-management/internal/server"
	"github.com/javiator/tenant-management/internal/service"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

// serve runs the API until ctx is cancelled or the server fails.
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting tenant management service",
		zap.Int("server_port", cfg.Server.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	db, err := database.Open(cfg.Database, logger.Named("gorm"))
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	var store idempotency.Store
	if cfg.Idempotency.Enabled {
		store, err = idempotency.NewStore(cfg.Idempotency, logger)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	m := metrics.NewMetrics()
	m.SetHealthStatus(true)

	var metricsServer *metrics.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
		logger.Info("metrics server started",
			zap.Int("port", cfg.Metrics.Port),
			zap.String("path", cfg.Metrics.Path),
		)
	}

	repos := repository.New(db, repository.WithActor(cfg.Audit.Actor))
	services := service.New(repos, logger)
	pinger := func(ctx context.Context) error { return database.Ping(ctx, db) }

	httpServer := server.NewServer(cfg, services, pinger, store, logger)
	httpServer.SetupRoutes()

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil {
			errChan <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case runErr = <-errChan:
		logger.Error("server error", zap.Error(runErr))
	}

	logger.Info("initiating graceful shutdown")
	m.SetHealthStatus(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", zap.Error(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}

	logger.Info("tenant management service shutdown complete")
	return runErr
}
