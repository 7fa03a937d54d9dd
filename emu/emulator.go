package emu

import (
	"errors"
	"fmt"

	"github.com/sarchlab/rvsim/insts"
)

// ErrMaxInstructions is returned once the instruction budget is spent.
var ErrMaxInstructions = errors.New("max instructions reached")

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Exited is true if the program reached a halt word.
	Exited bool

	// Err is set if an error occurred during execution.
	Err error
}

// Emulator executes RV64I instructions functionally, one whole
// instruction per Step. It serves as the reference model for the staged
// pipeline.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder
	pc      uint64

	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithRegFile makes the emulator operate on an existing register file.
func WithRegFile(regFile *RegFile) EmulatorOption {
	return func(e *Emulator) {
		e.regFile = regFile
	}
}

// WithMemory makes the emulator operate on an existing memory.
func WithMemory(memory *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = memory
	}
}

// NewEmulator creates a new RV64I emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// PC returns the program counter.
func (e *Emulator) PC() uint64 {
	return e.pc
}

// SetPC sets the program counter.
func (e *Emulator) SetPC(pc uint64) {
	e.pc = pc
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram copies program into memory at entry and sets the PC there.
func (e *Emulator) LoadProgram(entry uint64, program []byte) {
	e.memory.LoadProgram(entry, program)
	e.pc = entry
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	word := e.memory.Read32(e.pc)
	if insts.IsHalt(word) {
		return StepResult{Exited: true}
	}

	inst, err := e.decoder.Decode(word)
	if err != nil {
		return StepResult{Err: fmt.Errorf("pc 0x%X: %w", e.pc, err)}
	}

	next := e.pc + 4
	switch inst.Class {
	case insts.ClassR:
		e.alu.ExecuteR(inst)
	case insts.ClassI:
		e.alu.ExecuteI(inst)
	case insts.ClassLoad:
		e.lsu.LD(inst)
	case insts.ClassStore:
		e.lsu.SD(inst)
	case insts.ClassBranch:
		next = e.branchUnit.Target(inst, e.pc)
	}

	e.pc = next
	e.instructionCount++

	return StepResult{}
}

// Run executes instructions until the program halts or an error occurs.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Exited {
			return nil
		}
		if result.Err != nil {
			return result.Err
		}
	}
}
