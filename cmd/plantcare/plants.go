package main

import (
	"github.com/spf13/cobra"

	"github.com/vbonduro/plantcare/internal/catalog"
)

func newPlantsCmd(_ *app) *cobra.Command {
	var (
		query        string
		category     string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "plants",
		Short: "Search the plant catalog",
		Long: `List catalog plants whose name matches the query, optionally within one category.

Examples:
  plantcare plants
  plantcare plants -q fern
  plantcare plants -c Succulent -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(outputFormat); err != nil {
				return err
			}
			plants := catalog.Filter(catalog.Plants(), query, category)

			out := cmd.OutOrStdout()
			if done, err := writeStructured(out, outputFormat, plants); done {
				return err
			}
			printPlants(out, plants)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Match against name or scientific name")
	cmd.Flags().StringVarP(&category, "category", "c", catalog.CategoryAll, "Category (All, Indoor, Outdoor, Succulent, Fern)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", formatHuman, "Output format (human, json, yaml)")
	return cmd
}
