package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiator/tenant-management/internal/migration"
)

func DownCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB(cmd, open)
			if err != nil {
				return err
			}

			reverted, err := migration.NewMigrator(db).Down(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully reverted migration: %s\n", reverted.Name)
			return nil
		},
	}
}
