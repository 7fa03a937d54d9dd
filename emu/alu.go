package emu

import "github.com/sarchlab/rvsim/insts"

// ALU implements the RV64I integer operations on the register file.
// Arithmetic wraps modulo 2^64.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Compute applies op to x and y.
func (a *ALU) Compute(op insts.ALUOp, x, y uint64) uint64 {
	switch op {
	case insts.ALUOpSUB:
		return x - y
	case insts.ALUOpXOR:
		return x ^ y
	case insts.ALUOpOR:
		return x | y
	case insts.ALUOpAND:
		return x & y
	default:
		return x + y
	}
}

// ExecuteR performs rd = rs1 op rs2.
func (a *ALU) ExecuteR(inst *insts.Instruction) {
	x := a.regFile.ReadReg(inst.Rs1)
	y := a.regFile.ReadReg(inst.Rs2)
	a.regFile.WriteReg(inst.Rd, a.Compute(inst.ALUOp, x, y))
}

// ExecuteI performs rd = rs1 op imm.
func (a *ALU) ExecuteI(inst *insts.Instruction) {
	x := a.regFile.ReadReg(inst.Rs1)
	a.regFile.WriteReg(inst.Rd, a.Compute(inst.ALUOp, x, inst.Imm))
}
