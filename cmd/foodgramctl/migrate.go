package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/foodgram-backend/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTooling(func(t *app.Tooling) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Database schema is up to date (driver %s)\n", t.Cfg.Database.Driver)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
