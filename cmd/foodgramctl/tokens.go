package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/foodgram-backend/internal/app"
)

var pruneTokensCmd = &cobra.Command{
	Use:   "prune-tokens",
	Short: "Delete expired auth tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTooling(func(t *app.Tooling) error {
			n, err := t.Auth.PruneExpiredTokens(cmd.Context())
			if err != nil {
				return fmt.Errorf("prune tokens: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired tokens\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(pruneTokensCmd)
}
