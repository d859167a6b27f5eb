package main

import (
	"fmt"

	"github.com/aretw0/taxaquery/internal/presentation/render"
	"github.com/aretw0/taxaquery/pkg/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [query]",
	Short: "Check a query and print its canonical form",
	Long:  `Parses the query without contacting any taxonomy backend.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := readQuery(cmd, args)
		if err != nil {
			return err
		}
		maxDepth, _ := cmd.Flags().GetInt("max-depth")

		tree, err := parser.New(parser.WithMaxDepth(maxDepth)).Parse(query)
		if err != nil {
			return &queryError{query: query, err: err}
		}

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Fprint(cmd.OutOrStdout(), render.QueryMermaid(tree))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), tree.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Int("max-depth", parser.DefaultMaxDepth, "Maximum nesting depth")
	parseCmd.Flags().Bool("mermaid", false, "Print the query structure as a Mermaid flowchart")
}
