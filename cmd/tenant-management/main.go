// Command tenant-management serves the property, tenant and transaction
// bookkeeping API and manages its database schema.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/javiator/tenant-management/internal/config"
	"github.com/javiator/tenant-management/internal/database"
	"github.com/javiator/tenant-management/internal/logging"
	"github.com/javiator/tenant-management/internal/migration/commands"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "tenant-management",
		Short:        "Property, tenant and transaction bookkeeping service",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		commands.NewMigrateCmd(openDatabase(&configPath)),
	)
	return rootCmd
}

// openDatabase returns the opener used by the migrate commands.
func openDatabase(configPath *string) commands.DBOpener {
	return func(cmd *cobra.Command) (*gorm.DB, error) {
		cfg, logger, err := loadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		return database.Open(cfg.Database, logger.Named("migrate"))
	}
}

func loadConfig(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, logger, nil
}
