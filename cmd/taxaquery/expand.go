package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/taxaquery/internal/cli"
	"github.com/aretw0/taxaquery/internal/presentation/render"
	"github.com/aretw0/taxaquery/internal/sanitize"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand [query]",
	Short: "Expand a query against the configured taxonomy",
	Long: `Parses the query and replaces every extension with the taxa it names.
Reads the query from stdin when no argument (or "-") is given.`,
	Example: `  taxaquery expand --taxonomy testdata/tree_of_life.yaml "(Coleoptera, Coleoptera:siblings)"
  echo "(Endopterygota:children)" | taxaquery expand --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := render.ParseFormat(formatName)
		if err != nil {
			return err
		}

		query, err := readQuery(cmd, args)
		if err != nil {
			return err
		}

		opts := globalOptions(cmd)
		cfg, err := cli.LoadConfig(opts)
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cfg, opts.Debug)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		backend, err := cli.OpenBackend(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer backend.Close()

		engine, err := cli.NewEngine(backend, cfg, logger, opts.Debug)
		if err != nil {
			return err
		}

		result, err := engine.Query(ctx, query)
		if err != nil {
			return &queryError{query: query, err: err}
		}
		return render.Write(cmd.OutOrStdout(), format, result)
	},
}

func readQuery(cmd *cobra.Command, args []string) (string, error) {
	var raw string
	if len(args) == 1 && args[0] != "-" {
		raw = args[0]
	} else {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), int64(sanitize.MaxQuerySize())+1))
		if err != nil {
			return "", fmt.Errorf("failed to read query: %w", err)
		}
		raw = strings.TrimSpace(string(data))
	}
	return sanitize.Query(raw)
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringP("format", "f", string(render.FormatText), "Output format: text, inline, json or mermaid")
}
