package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/foodgram-backend/internal/app"
)

var rootCmd = &cobra.Command{
	Use:           "foodgramctl",
	Short:         "foodgramctl runs foodgram maintenance tasks",
	Long:          "foodgramctl migrates the database, loads the ingredient catalog and prunes expired auth tokens. It reads the same configuration as the API server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withTooling opens the database and the maintenance services for one
// command run.
func withTooling(fn func(t *app.Tooling) error) error {
	t, err := app.NewTooling()
	if err != nil {
		return err
	}
	defer t.Close()
	return fn(t)
}
