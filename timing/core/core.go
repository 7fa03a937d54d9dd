// Package core drives the five pipeline stages one instruction at a time.
// It owns the program counter, the stages and an optional data cache;
// the register file and memory are supplied by the caller.
package core

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
	"github.com/sarchlab/rvsim/timing/cache"
	"github.com/sarchlab/rvsim/timing/pipeline"
)

// ErrMaxInstructions is returned by Tick once the instruction budget is
// spent. It is the same sentinel the emulator uses.
var ErrMaxInstructions = emu.ErrMaxInstructions

// HookPosRetire marks the commit of one instruction. The hook item is a
// Retired.
var HookPosRetire = &sim.HookPos{Name: "Retire"}

// Retired describes a committed instruction.
type Retired struct {
	PC     uint64
	Inst   *insts.Instruction
	NextPC uint64

	Rd      uint8
	Value   uint64
	Written bool
}

// Stats holds performance statistics for the core.
type Stats struct {
	// Instructions is the number of instructions retired.
	Instructions uint64 `json:"instructions"`
	// Loads and Stores count retired memory instructions.
	Loads  uint64 `json:"loads"`
	Stores uint64 `json:"stores"`
	// Branches counts retired branches, TakenBranches those that redirected
	// the PC.
	Branches      uint64 `json:"branches"`
	TakenBranches uint64 `json:"taken_branches"`
}

// Core is a single-issue core that moves exactly one instruction through
// Fetch, Decode, AGEX, Memory and Writeback per Tick.
type Core struct {
	*sim.HookableBase

	regFile *emu.RegFile
	memory  *emu.Memory
	dcache  *cache.Cache

	fetch  *pipeline.FetchStage
	decode *pipeline.DecodeStage
	agex   *pipeline.AgexStage
	mem    *pipeline.MemoryStage
	wb     *pipeline.WritebackStage

	pc              uint64
	halted          bool
	maxInstructions uint64
	stats           Stats
}

type options struct {
	cacheConfig     *cache.Config
	maxInstructions uint64
}

// Option configures a Core.
type Option func(*options)

// WithCache places a direct-mapped data cache of the given geometry between
// the memory stage and memory. Instruction fetch always bypasses it.
func WithCache(config cache.Config) Option {
	return func(o *options) {
		o.cacheConfig = &config
	}
}

// WithMaxInstructions limits the number of instructions the core retires.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) Option {
	return func(o *options) {
		o.maxInstructions = max
	}
}

// NewCore creates a core over the given register file and memory.
func NewCore(regFile *emu.RegFile, memory *emu.Memory, opts ...Option) *Core {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Core{
		HookableBase:    sim.NewHookableBase(),
		regFile:         regFile,
		memory:          memory,
		fetch:           pipeline.NewFetchStage(memory),
		decode:          pipeline.NewDecodeStage(regFile),
		agex:            pipeline.NewAgexStage(),
		wb:              pipeline.NewWritebackStage(regFile),
		maxInstructions: o.maxInstructions,
	}

	if o.cacheConfig != nil {
		c.dcache = cache.New(*o.cacheConfig, memory)
		c.mem = pipeline.NewMemoryStage(memory, pipeline.WithCache(c.dcache))
	} else {
		c.mem = pipeline.NewMemoryStage(memory)
	}

	return c
}

// Cache returns the data cache, or nil if the core runs uncached.
func (c *Core) Cache() *cache.Cache {
	return c.dcache
}

// RegFile returns the register file.
func (c *Core) RegFile() *emu.RegFile {
	return c.regFile
}

// Memory returns the backing memory.
func (c *Core) Memory() *emu.Memory {
	return c.memory
}

// SetPC sets the program counter.
func (c *Core) SetPC(pc uint64) {
	c.pc = pc
}

// PC returns the program counter of the next instruction.
func (c *Core) PC() uint64 {
	return c.pc
}

// Halted returns true once the core has fetched a halt word.
func (c *Core) Halted() bool {
	return c.halted
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// Tick moves one instruction through all five stages and advances the PC.
// An ECALL, EBREAK or all-zero word halts the core without retiring.
// Decode failures leave the PC on the offending instruction.
func (c *Core) Tick() error {
	if c.halted {
		return nil
	}

	if c.maxInstructions > 0 && c.stats.Instructions >= c.maxInstructions {
		return ErrMaxInstructions
	}

	f := c.fetch.Fetch(c.pc)
	if insts.IsHalt(f.Inst) {
		c.halted = true
		return nil
	}

	d, err := c.decode.Decode(f)
	if err != nil {
		return fmt.Errorf("pc 0x%X: %w", c.pc, err)
	}

	a := c.agex.Execute(d)
	m := c.mem.Access(a)
	w := c.wb.Writeback(m)

	c.count(a)
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosRetire,
		Item: Retired{
			PC:      c.pc,
			Inst:    d.Inst,
			NextPC:  w.NextPC,
			Rd:      w.Rd,
			Value:   w.Value,
			Written: w.Committed,
		},
	})

	c.pc = w.NextPC

	return nil
}

func (c *Core) count(a pipeline.AgexOutputs) {
	c.stats.Instructions++

	switch a.Inst.Class {
	case insts.ClassLoad:
		c.stats.Loads++
	case insts.ClassStore:
		c.stats.Stores++
	case insts.ClassBranch:
		c.stats.Branches++
		if a.BranchTaken {
			c.stats.TakenBranches++
		}
	}
}

// Run ticks the core until it halts or an error occurs. The data cache is
// flushed on halt so memory holds the final state.
func (c *Core) Run() error {
	for !c.halted {
		if err := c.Tick(); err != nil {
			return err
		}
	}

	c.Flush()

	return nil
}

// RunCycles ticks the core at most cycles times. It returns true if the
// core is still running.
func (c *Core) RunCycles(cycles uint64) (bool, error) {
	for i := uint64(0); i < cycles && !c.halted; i++ {
		if err := c.Tick(); err != nil {
			return !c.halted, err
		}
	}

	return !c.halted, nil
}

// Flush writes every dirty cache block back to memory.
func (c *Core) Flush() {
	if c.dcache != nil {
		c.dcache.Flush()
	}
}

// Reset invalidates the cache without writeback, clears statistics and
// the halted flag. Registers, memory and the PC are left untouched.
func (c *Core) Reset() {
	if c.dcache != nil {
		c.dcache.Reset()
	}
	c.stats = Stats{}
	c.halted = false
}
