package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/taxaquery/internal/cli"
	"github.com/aretw0/taxaquery/pkg/taxonomy"
	"github.com/spf13/cobra"
)

// seedLockTTL bounds how long a crashed seeder can block others.
const seedLockTTL = 5 * time.Minute

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load a taxonomy file into the configured backend",
	Long: `Registers every taxon of a YAML or JSON taxonomy file, parents first, in the
configured redis or bolt backend. The file defaults to --taxonomy.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := globalOptions(cmd)
		file := opts.TaxonomyFile
		if len(args) == 1 {
			file = args[0]
		}
		if file == "" {
			return errors.New("no taxonomy file given")
		}

		cfg, err := cli.LoadConfig(cli.Options{ConfigPath: opts.ConfigPath, Debug: opts.Debug})
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cfg, opts.Debug)

		f, err := taxonomy.Load(file)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		backend, err := cli.OpenBackend(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer backend.Close()
		if backend.Writer == nil {
			return fmt.Errorf("backend %q is read-only", cfg.Backend.Kind)
		}

		if backend.Locker != nil {
			unlock, err := backend.Locker.Lock(ctx, "seed", seedLockTTL)
			if err != nil {
				return err
			}
			defer func() {
				if err := unlock(context.Background()); err != nil {
					logger.Warn("failed to release seed lock", "err", err)
				}
			}()
		}

		n, err := taxonomy.Seed(ctx, backend.Writer, f)
		if err != nil {
			return fmt.Errorf("seeded %d taxa before failing: %w", n, err)
		}
		logger.Info("taxonomy seeded", "file", file, "backend", cfg.Backend.Kind, "taxa", n)
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d taxa into %s backend\n", n, cfg.Backend.Kind)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
