package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/foodgram-backend/internal/app"
	"github.com/yungbote/foodgram-backend/internal/services"
)

var (
	ingredientFile  string
	clearCatalog    bool
	ingredientsFrom string
)

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients",
	Short: "Bulk-load the ingredient catalog from a JSON, CSV or YAML file",
	Long: "load-ingredients reads {name, measurement_unit} rows and inserts the ones not already in the catalog.\n" +
		"Rows with a missing field or repeating an earlier row are skipped. --clear empties the catalog first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ingredientFile == "" {
			return errors.New("--file is required")
		}
		format, err := resolveFormat()
		if err != nil {
			return err
		}
		f, err := os.Open(ingredientFile)
		if err != nil {
			return fmt.Errorf("open %s: %w", ingredientFile, err)
		}
		defer f.Close()

		parsed, err := services.ParseIngredients(f, format)
		if err != nil {
			return fmt.Errorf("parse %s: %w", ingredientFile, err)
		}

		return withTooling(func(t *app.Tooling) error {
			report, err := t.Importer.Import(cmd.Context(), parsed, clearCatalog)
			if err != nil {
				return fmt.Errorf("import ingredients: %w", err)
			}
			out := cmd.OutOrStdout()
			if clearCatalog {
				fmt.Fprintf(out, "Cleared %d ingredients\n", report.Cleared)
			}
			fmt.Fprintf(out, "Created %d ingredients, skipped %d\n", report.Created, report.Skipped)
			return nil
		})
	},
}

func resolveFormat() (services.ImportFormat, error) {
	switch ingredientsFrom {
	case "":
		return services.FormatFromPath(ingredientFile)
	case string(services.ImportJSON), string(services.ImportCSV), string(services.ImportYAML):
		return services.ImportFormat(ingredientsFrom), nil
	default:
		return "", services.ErrUnsupportedFormat
	}
}

func init() {
	loadIngredientsCmd.Flags().StringVar(&ingredientFile, "file", "", "Path to the ingredient file")
	loadIngredientsCmd.Flags().BoolVar(&clearCatalog, "clear", false, "Delete every ingredient before loading")
	loadIngredientsCmd.Flags().StringVar(&ingredientsFrom, "format", "", "Force the file format (json, csv, yaml); defaults to the file extension")
	rootCmd.AddCommand(loadIngredientsCmd)
}
