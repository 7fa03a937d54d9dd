package emu

import "github.com/sarchlab/rvsim/insts"

// LoadStoreUnit implements the 64-bit loads and stores. Addresses are
// expected to be 8-byte aligned.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// LD performs rd = mem[rs1 + imm].
func (lsu *LoadStoreUnit) LD(inst *insts.Instruction) {
	addr := lsu.regFile.ReadReg(inst.Rs1) + inst.Imm
	lsu.regFile.WriteReg(inst.Rd, lsu.memory.Read64(addr))
}

// SD performs mem[rs1 + imm] = rs2.
func (lsu *LoadStoreUnit) SD(inst *insts.Instruction) {
	addr := lsu.regFile.ReadReg(inst.Rs1) + inst.Imm
	lsu.memory.Write64(addr, lsu.regFile.ReadReg(inst.Rs2))
}
