package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/rvsim/config"
	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/loader"
	"github.com/sarchlab/rvsim/timing/cache"
	"github.com/sarchlab/rvsim/timing/core"
	"github.com/sarchlab/rvsim/timing/trace"
)

type runOptions struct {
	configPath      string
	cache           bool
	noCache         bool
	blockSize       int
	numSets         int
	maxInstructions uint64
	raw             bool
	base            uint64
	statsOut        string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Run a RISC-V ELF64 executable or a raw binary image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.simConfig(cmd)
			if err != nil {
				return err
			}

			prog, err := opts.load(args[0], cfg)
			if err != nil {
				return err
			}

			return runProgram(cmd.OutOrStdout(), root.logger, args[0], prog, cfg, opts.statsOut)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a configuration JSON file")
	flags.BoolVar(&opts.cache, "cache", true, "Enable the data cache")
	flags.BoolVar(&opts.noCache, "no-cache", false, "Disable the data cache")
	flags.IntVar(&opts.blockSize, "block-size", 0, "Cache block size in bytes")
	flags.IntVar(&opts.numSets, "sets", 0, "Number of cache sets")
	flags.Uint64Var(&opts.maxInstructions, "max-instructions", 0, "Stop after this many instructions (0 = no limit)")
	flags.BoolVar(&opts.raw, "raw", false, "Treat the program as a flat binary image")
	flags.Uint64Var(&opts.base, "base", 0, "Load and entry address of a raw image")
	flags.StringVar(&opts.statsOut, "stats-out", "", "Write statistics as JSON to this file on exit")

	return cmd
}

// simConfig reads the configuration file, if any, and applies flag
// overrides.
func (o *runOptions) simConfig(cmd *cobra.Command) (*config.SimConfig, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("cache") {
		cfg.Cache.Enabled = o.cache
	}
	if o.noCache {
		cfg.Cache.Enabled = false
	}
	if flags.Changed("block-size") {
		cfg.Cache.BlockSize = o.blockSize
	}
	if flags.Changed("sets") {
		cfg.Cache.NumSets = o.numSets
	}
	if flags.Changed("max-instructions") {
		cfg.MaxInstructions = o.maxInstructions
	}
	if flags.Changed("base") {
		cfg.EntryPoint = o.base
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (o *runOptions) load(path string, cfg *config.SimConfig) (*loader.Program, error) {
	if o.raw {
		return loader.LoadRaw(path, cfg.EntryPoint)
	}
	return loader.Load(path)
}

// onExit registers handlers that run when the process exits through
// atexit.Exit.
var onExit = atexit.Register

// statsWriter returns an exit handler that flushes the cache and writes the
// statistics report to statsOut.
func statsWriter(logger logrus.FieldLogger, statsOut, program string, c *core.Core) func() {
	return func() {
		c.Flush()
		if err := writeReport(statsOut, program, c); err != nil {
			logger.WithError(err).Error("Failed to write statistics")
		}
	}
}

// report is the machine-readable summary written by --stats-out.
type report struct {
	Program string            `json:"program"`
	Halted  bool              `json:"halted"`
	PC      uint64            `json:"pc"`
	Core    core.Stats        `json:"core"`
	Cache   *cache.Statistics `json:"cache,omitempty"`
}

func runProgram(
	out io.Writer,
	logger logrus.FieldLogger,
	path string,
	prog *loader.Program,
	cfg *config.SimConfig,
	statsOut string,
) error {
	regFile := &emu.RegFile{}
	memory := emu.NewMemory()
	prog.LoadInto(memory)

	sp := prog.InitialSP
	if cfg.StackPointer != 0 {
		sp = cfg.StackPointer
	}
	regFile.WriteReg(2, sp)

	c := core.NewCore(regFile, memory, cfg.CoreOptions()...)
	c.SetPC(prog.EntryPoint)

	hook := trace.NewLogHook(logger)
	c.AcceptHook(hook)
	if c.Cache() != nil {
		c.Cache().AcceptHook(hook)
	}

	logger.WithFields(logrus.Fields{
		"program":  path,
		"entry":    fmt.Sprintf("0x%x", prog.EntryPoint),
		"segments": len(prog.Segments),
		"cache":    cfg.Cache.Enabled,
	}).Info("Starting simulation")

	if statsOut != "" {
		onExit(statsWriter(logger, statsOut, path, c))
	}

	err := c.Run()
	printReport(out, path, c)

	if err != nil {
		return fmt.Errorf("simulation stopped: %w", err)
	}

	return nil
}

func printReport(out io.Writer, path string, c *core.Core) {
	stats := c.Stats()

	_, _ = fmt.Fprintf(out, "Program: %s\n", path)
	_, _ = fmt.Fprintf(out, "Halted: %v at PC 0x%X\n", c.Halted(), c.PC())
	_, _ = fmt.Fprintf(out, "Instructions: %d\n", stats.Instructions)
	_, _ = fmt.Fprintf(out, "Loads/Stores: %d/%d\n", stats.Loads, stats.Stores)
	_, _ = fmt.Fprintf(out, "Branches: %d (%d taken)\n", stats.Branches, stats.TakenBranches)

	if dc := c.Cache(); dc != nil {
		cfg, cs := dc.Config(), dc.Stats()
		_, _ = fmt.Fprintf(out, "\nD-Cache (%dB x %d sets):\n", cfg.BlockSize, cfg.NumSets)
		_, _ = fmt.Fprintf(out, "  Reads:      %d\n", cs.Reads)
		_, _ = fmt.Fprintf(out, "  Writes:     %d\n", cs.Writes)
		_, _ = fmt.Fprintf(out, "  Hits:       %d\n", cs.Hits)
		_, _ = fmt.Fprintf(out, "  Misses:     %d\n", cs.Misses)
		_, _ = fmt.Fprintf(out, "  Fills:      %d\n", cs.Fills)
		_, _ = fmt.Fprintf(out, "  Writebacks: %d\n", cs.Writebacks)
		_, _ = fmt.Fprintf(out, "  Hit Rate:   %.1f%%\n", cs.HitRate()*100)
	}

	_, _ = fmt.Fprintln(out, "\nRegisters:")
	for i := uint8(1); i < emu.NumRegs; i++ {
		if v := c.RegFile().ReadReg(i); v != 0 {
			_, _ = fmt.Fprintf(out, "  x%-2d = 0x%016x (%d)\n", i, v, int64(v))
		}
	}
}

func writeReport(path, program string, c *core.Core) error {
	r := report{
		Program: program,
		Halted:  c.Halted(),
		PC:      c.PC(),
		Core:    c.Stats(),
	}
	if c.Cache() != nil {
		cs := c.Cache().Stats()
		r.Cache = &cs
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize statistics: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}

	return nil
}
