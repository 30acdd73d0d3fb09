package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// DBOpener opens the database the migration commands operate on.
type DBOpener func(cmd *cobra.Command) (*gorm.DB, error)

func getDB(cmd *cobra.Command, open DBOpener) (*gorm.DB, error) {
	db, err := open(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		db = db.Debug()
	}
	return db.WithContext(cmd.Context()), nil
}

// NewMigrateCmd groups the schema migration subcommands.
func NewMigrateCmd(open DBOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	cmd.PersistentFlags().Bool("debug", false, "Enable debug output")

	cmd.AddCommand(
		InitCmd(open),
		UpCmd(open),
		DownCmd(open),
		StatusCmd(open),
		HistoryCmd(open),
		ValidateCmd(open),
	)
	return cmd
}
