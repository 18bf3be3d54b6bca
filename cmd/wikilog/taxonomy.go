package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vaibhaw-/wikilog/internal/wikilog/classify"
	"github.com/vaibhaw-/wikilog/internal/wikilog/config"
)

var taxonomyFile string

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect and validate the url taxonomy",
}

var taxonomyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a YAML taxonomy extension file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(taxonomyFile)
		if err != nil {
			return fmt.Errorf("open taxonomy file: %w", err)
		}
		defer f.Close()

		tax, err := config.ValidateTaxonomy(f)
		if err != nil {
			return fmt.Errorf("taxonomy validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "taxonomy validated successfully\n")
		fmt.Fprintf(out, "spaces: %d, pages: %d, labels: %d\n", len(tax.Spaces), len(tax.Pages), len(tax.Labels))
		return nil
	},
}

var taxonomyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the effective action tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := taxonomyFile
		if path == "" {
			path = config.Get().Taxonomy.File
		}
		c, err := loadClassifier(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		tables := c.Tables()
		for _, at := range []string{classify.ActionSpaces, classify.ActionPages, classify.ActionLabels} {
			t := tables[at]
			for _, token := range slices.Sorted(maps.Keys(t)) {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", at, token, t[token].UserAction, t[token].UserSubAction)
			}
		}
		return nil
	},
}

func init() {
	taxonomyCmd.AddCommand(taxonomyValidateCmd)
	taxonomyCmd.AddCommand(taxonomyListCmd)

	taxonomyValidateCmd.Flags().StringVar(&taxonomyFile, "file", "", "Path to taxonomy YAML file")
	taxonomyListCmd.Flags().StringVar(&taxonomyFile, "file", "", "Path to taxonomy YAML file (default taxonomy.file)")

	_ = taxonomyValidateCmd.MarkFlagRequired("file")
}
