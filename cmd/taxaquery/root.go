package main

import (
	"errors"
	"os"

	"github.com/aretw0/taxaquery/internal/cli"
	"github.com/aretw0/taxaquery/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taxaquery",
	Short: "taxaquery expands nested taxonomy queries",
	Long: `taxaquery parses queries such as "(Coleoptera:siblings, (Homo, Pan))" and expands the
:children, :parent and :siblings extensions against a taxonomy backend.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// queryError carries the query text so syntax errors can point into it.
type queryError struct {
	query string
	err   error
}

func (e *queryError) Error() string { return e.err.Error() }
func (e *queryError) Unwrap() error { return e.err }

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var qErr *queryError
		if errors.As(err, &qErr) {
			tui.Diagnostic(os.Stderr, qErr.query, qErr.err)
		} else {
			tui.Diagnostic(os.Stderr, "", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "taxaquery.yaml", "Configuration file (YAML or JSON); missing means defaults")
	rootCmd.PersistentFlags().String("taxonomy", "", "Taxonomy definition file for the memory backend (and the seed command)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

func globalOptions(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	taxonomyFile, _ := cmd.Flags().GetString("taxonomy")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{ConfigPath: configPath, TaxonomyFile: taxonomyFile, Debug: debug}
}
