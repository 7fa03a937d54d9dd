// Package benchmarks runs small RV64I programs on the staged core, with
// and without the data cache, and on the functional emulator, and reports
// whether all three agree.
package benchmarks

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/timing/cache"
	"github.com/sarchlab/rvsim/timing/core"
)

// ProgramBase is where every benchmark program is loaded and started.
const ProgramBase = 0x1000

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark.
	Name string

	// Description explains what the benchmark exercises.
	Description string

	// Setup prepares registers and memory before the run.
	Setup func(regFile *emu.RegFile, memory *emu.Memory)

	// Program is the RV64I machine code to execute.
	Program []byte

	// Check validates the final state. It may be nil.
	Check func(regFile *emu.RegFile, memory *emu.Memory) error
}

// BenchmarkResult holds the results of a single benchmark.
type BenchmarkResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	Instructions  uint64 `json:"instructions"`
	Loads         uint64 `json:"loads"`
	Stores        uint64 `json:"stores"`
	Branches      uint64 `json:"branches"`
	TakenBranches uint64 `json:"taken_branches"`

	CacheHits       uint64  `json:"cache_hits"`
	CacheMisses     uint64  `json:"cache_misses"`
	CacheWritebacks uint64  `json:"cache_writebacks"`
	HitRate         float64 `json:"hit_rate"`

	// Agree is true if the cached core, the uncached core and the
	// emulator finished with identical registers, PC and memory.
	Agree bool `json:"agree"`

	// Error holds a run or check failure.
	Error string `json:"error,omitempty"`

	WallTime time.Duration `json:"wall_time_ns"`
}

// Run is the final state of one execution of a benchmark.
type Run struct {
	RegFile    *emu.RegFile
	Memory     *emu.Memory
	PC         uint64
	Stats      core.Stats
	CacheStats cache.Statistics
}

// Comparison holds the three executions of a benchmark.
type Comparison struct {
	Cached    Run
	Uncached  Run
	Reference Run
}

// Agree reports whether all three runs reached the same state.
func (c Comparison) Agree() bool {
	return sameState(c.Cached, c.Reference) && sameState(c.Uncached, c.Reference)
}

func sameState(a, b Run) bool {
	return a.RegFile.X == b.RegFile.X &&
		a.PC == b.PC &&
		a.Stats.Instructions == b.Stats.Instructions &&
		a.Memory.Equal(b.Memory)
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Cache is the data cache geometry of the cached run.
	Cache cache.Config

	// MaxInstructions bounds every run. 0 means no limit.
	MaxInstructions uint64

	// Output is where to write results (default: os.Stdout).
	Output io.Writer
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Cache:           cache.DefaultConfig(),
		MaxInstructions: 10_000_000,
		Output:          os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{config: config}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	start := time.Now()
	cmp, err := h.Compare(bench)
	result.WallTime = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		return result
	}

	stats := cmp.Cached.Stats
	result.Instructions = stats.Instructions
	result.Loads = stats.Loads
	result.Stores = stats.Stores
	result.Branches = stats.Branches
	result.TakenBranches = stats.TakenBranches

	cs := cmp.Cached.CacheStats
	result.CacheHits = cs.Hits
	result.CacheMisses = cs.Misses
	result.CacheWritebacks = cs.Writebacks
	result.HitRate = cs.HitRate()

	result.Agree = cmp.Agree()

	if bench.Check != nil {
		if err := bench.Check(cmp.Cached.RegFile, cmp.Cached.Memory); err != nil {
			result.Error = err.Error()
		}
	}

	return result
}

// Compare runs bench on a cached core, an uncached core and the emulator,
// each from a fresh state.
func (h *Harness) Compare(bench Benchmark) (Comparison, error) {
	var cmp Comparison
	var err error

	cmp.Cached, err = h.runCore(bench, core.WithCache(h.config.Cache))
	if err != nil {
		return cmp, fmt.Errorf("%s (cached): %w", bench.Name, err)
	}

	cmp.Uncached, err = h.runCore(bench)
	if err != nil {
		return cmp, fmt.Errorf("%s (uncached): %w", bench.Name, err)
	}

	cmp.Reference, err = h.runEmulator(bench)
	if err != nil {
		return cmp, fmt.Errorf("%s (emulator): %w", bench.Name, err)
	}

	return cmp, nil
}

func (h *Harness) setup(bench Benchmark) (*emu.RegFile, *emu.Memory) {
	regFile := &emu.RegFile{}
	memory := emu.NewMemory()

	if bench.Setup != nil {
		bench.Setup(regFile, memory)
	}
	memory.LoadProgram(ProgramBase, bench.Program)

	return regFile, memory
}

func (h *Harness) runCore(bench Benchmark, opts ...core.Option) (Run, error) {
	regFile, memory := h.setup(bench)

	opts = append(opts, core.WithMaxInstructions(h.config.MaxInstructions))
	c := core.NewCore(regFile, memory, opts...)
	c.SetPC(ProgramBase)

	if err := c.Run(); err != nil {
		return Run{}, err
	}

	run := Run{
		RegFile: regFile,
		Memory:  memory,
		PC:      c.PC(),
		Stats:   c.Stats(),
	}
	if c.Cache() != nil {
		run.CacheStats = c.Cache().Stats()
	}

	return run, nil
}

func (h *Harness) runEmulator(bench Benchmark) (Run, error) {
	regFile, memory := h.setup(bench)

	e := emu.NewEmulator(
		emu.WithRegFile(regFile),
		emu.WithMemory(memory),
		emu.WithMaxInstructions(h.config.MaxInstructions),
	)
	e.SetPC(ProgramBase)

	if err := e.Run(); err != nil {
		return Run{}, err
	}

	return Run{
		RegFile: regFile,
		Memory:  memory,
		PC:      e.PC(),
		Stats:   core.Stats{Instructions: e.InstructionCount()},
	}, nil
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	out := h.config.Output

	_, _ = fmt.Fprintln(out, "=== rvsim Benchmark Results ===")
	_, _ = fmt.Fprintln(out, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(out, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(out, "  Description: %s\n", r.Description)
		if r.Error != "" {
			_, _ = fmt.Fprintf(out, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintf(out, "  Instructions: %d\n", r.Instructions)
		_, _ = fmt.Fprintf(out, "  Loads/Stores: %d/%d\n", r.Loads, r.Stores)
		_, _ = fmt.Fprintf(out, "  Branches:     %d (%d taken)\n", r.Branches, r.TakenBranches)
		_, _ = fmt.Fprintln(out, "  --- D-Cache ---")
		_, _ = fmt.Fprintf(out, "  Hits:       %d\n", r.CacheHits)
		_, _ = fmt.Fprintf(out, "  Misses:     %d\n", r.CacheMisses)
		_, _ = fmt.Fprintf(out, "  Writebacks: %d\n", r.CacheWritebacks)
		_, _ = fmt.Fprintf(out, "  Hit Rate:   %.1f%%\n", r.HitRate*100)
		_, _ = fmt.Fprintf(out, "  Agree: %v\n", r.Agree)
		_, _ = fmt.Fprintf(out, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(out, "")
	}
}

// PrintCSV outputs benchmark results in CSV format.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,instructions,loads,stores,branches,taken_branches,cache_hits,cache_misses,cache_writebacks,agree")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%d,%d,%d,%v\n",
			r.Name,
			r.Instructions,
			r.Loads,
			r.Stores,
			r.Branches,
			r.TakenBranches,
			r.CacheHits,
			r.CacheMisses,
			r.CacheWritebacks,
			r.Agree,
		)
	}
}

// PrintJSON outputs benchmark results as an indented JSON array.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// BuildProgram assembles instruction words into a byte slice.
func BuildProgram(instrs ...uint32) []byte {
	program := make([]byte, 4*len(instrs))
	for i, inst := range instrs {
		binary.LittleEndian.PutUint32(program[4*i:], inst)
	}
	return program
}
