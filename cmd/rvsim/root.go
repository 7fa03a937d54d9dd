package main

import (
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
	logger  *logrus.Entry
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "rvsim",
		Short: "rvsim simulates an RV64I core with a direct-mapped write-back data cache.",
		Long: `rvsim runs RV64I programs through a five-stage core ` +
			`(fetch, decode, AGEX, memory, writeback) with an optional ` +
			`direct-mapped, write-back data cache, and reports instruction ` +
			`and cache statistics.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			if opts.verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
			opts.logger = logger.WithField("run", xid.New().String())
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Log every retired instruction and cache event")

	cmd.AddCommand(
		newRunCmd(opts),
		newDemoCmd(opts),
		newConfigCmd(),
	)

	return cmd
}
