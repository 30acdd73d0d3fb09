package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiator/tenant-management/internal/migration"
)

func UpCmd(open DBOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out := cmd.OutOrStdout()

			db, err := getDB(cmd, open)
			if err != nil {
				return err
			}

			migrator := migration.NewMigrator(db)
			if err := migrator.Validate(); err != nil {
				return fmt.Errorf("invalid migrations: %w", err)
			}

			pending, err := migrator.Pending(cmd.Context())
			if err != nil {
				return err
			}

			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, "Pending migrations:")
				for _, m := range pending {
					fmt.Fprintf(out, "- %s (%s)\n", m.Name, m.Version)
				}
				return nil
			}

			applied, err := migrator.Up(cmd.Context())
			for _, m := range applied {
				fmt.Fprintf(out, "Successfully applied migration: %s (%s)\n", m.Name, m.Version)
			}
			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending migrations without executing them")

	return cmd
}
