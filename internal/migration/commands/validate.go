package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiator/tenant-management/internal/migration"
	"github.com/javiator/tenant-management/internal/models"
)

func ValidateCmd(open DBOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate all migrations",
		Long:  "Checks migration definitions and, unless --offline is set, compares the models against the live database schema.",
		RunE: func(cmd *cobra.Command, args []string) error {
			offline, _ := cmd.Flags().GetBool("offline")
			out := cmd.OutOrStdout()

			if err := migration.NewMigrator(nil).Validate(); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintln(out, "All migrations are valid")

			if offline {
				return nil
			}

			db, err := getDB(cmd, open)
			if err != nil {
				return err
			}

			drifts, err := migration.DetectDrift(db, models.ModelTypeRegistry)
			if err != nil {
				return fmt.Errorf("failed to inspect schema: %w", err)
			}
			if len(drifts) == 0 {
				fmt.Fprintln(out, "Database schema matches the models")
				return nil
			}

			for _, d := range drifts {
				fmt.Fprintf(out, "- %s\n", d)
			}
			return fmt.Errorf("schema drift detected: %d difference(s)", len(drifts))
		},
	}

	cmd.Flags().Bool("offline", false, "Skip the database schema comparison")

	return cmd
}
