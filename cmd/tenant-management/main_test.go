package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/config"
)

func TestRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "tenant-management", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
}

func TestMigrateDryRun(t *testing.T) {
	t.Setenv("TENANT_MGMT_DATABASE_DRIVER", "sqlite")
	t.Setenv("TENANT_MGMT_DATABASE_URL", "file::memory:")
	t.Setenv("TENANT_MGMT_LOGGING_LEVEL", "error")
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"migrate", "up", "--dry-run"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Pending migrations:")
	assert.Contains(t, out.String(), "create_property")
}

func TestMigrateBadConfig(t *testing.T) {
	t.Setenv("TENANT_MGMT_DATABASE_DRIVER", "oracle")
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "status"})

	assert.Error(t, cmd.Execute())
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:            0,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			URL:         "file::memory:",
			AutoMigrate: true,
			LogLevel:    "silent",
		},
		Audit:       config.AuditConfig{Actor: "system"},
		Idempotency: config.IdempotencyConfig{Enabled: true, Backend: "memory", TTL: time.Hour},
		CORS:        config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(500 * time.Millisecond)
		cancel()
	}()

	assert.NoError(t, serve(ctx, cfg, zap.NewNop()))
}
