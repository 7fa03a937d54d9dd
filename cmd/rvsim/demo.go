package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rvsim/benchmarks"
	"github.com/sarchlab/rvsim/config"
)

func newDemoCmd(root *rootOptions) *cobra.Command {
	var (
		configPath string
		format     string
	)

	names := make([]string, 0)
	for _, b := range benchmarks.GetBenchmarks() {
		names = append(names, b.Name)
	}

	cmd := &cobra.Command{
		Use:   "demo <name>",
		Short: "Run a built-in program on the cached core, the uncached core and the emulator.",
		Long: "Run a built-in program on the cached core, the uncached core and the " +
			"emulator and check that all three agree. Available programs: " +
			strings.Join(names, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			bench, ok := benchmarks.ByName(args[0])
			if !ok {
				return fmt.Errorf("unknown demo %q (available: %s)", args[0], strings.Join(names, ", "))
			}

			cfg := config.Default()
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}

			// The cached run always needs a valid geometry, even when the
			// config disables the cache for run.
			if err := cfg.Cache.Config.Validate(); err != nil {
				return fmt.Errorf("cache: %w", err)
			}

			harnessConfig := benchmarks.DefaultConfig()
			harnessConfig.Cache = cfg.Cache.Config
			if cfg.MaxInstructions > 0 {
				harnessConfig.MaxInstructions = cfg.MaxInstructions
			}
			harnessConfig.Output = cmd.OutOrStdout()

			harness := benchmarks.NewHarness(harnessConfig)
			harness.AddBenchmark(bench)

			root.logger.WithField("demo", bench.Name).Info("Running demo")
			results := harness.RunAll()

			switch format {
			case "csv":
				harness.PrintCSV(results)
			case "json":
				if err := harness.PrintJSON(results); err != nil {
					return err
				}
			default:
				harness.PrintResults(results)
			}

			r := results[0]
			if r.Error != "" {
				return fmt.Errorf("demo %s: %s", r.Name, r.Error)
			}
			if !r.Agree {
				return fmt.Errorf("demo %s: cached core, uncached core and emulator disagree", r.Name)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a configuration JSON file")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, csv or json")

	return cmd
}
