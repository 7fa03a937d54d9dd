package emu

import "github.com/sarchlab/rvsim/insts"

// BranchUnit evaluates RV64I conditional branches.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// Taken reports whether cond holds for the operands.
func (b *BranchUnit) Taken(cond insts.BrCond, rs1, rs2 uint64) bool {
	switch cond {
	case insts.BrCondAlways:
		return true
	case insts.BrCondEQ:
		return rs1 == rs2
	case insts.BrCondNEQ:
		return rs1 != rs2
	case insts.BrCondLT:
		return int64(rs1) < int64(rs2)
	case insts.BrCondGE:
		return int64(rs1) >= int64(rs2)
	case insts.BrCondLTU:
		return rs1 < rs2
	case insts.BrCondGEU:
		return rs1 >= rs2
	default:
		return false
	}
}

// Target returns the next PC for the branch at pc.
func (b *BranchUnit) Target(inst *insts.Instruction, pc uint64) uint64 {
	rs1 := b.regFile.ReadReg(inst.Rs1)
	rs2 := b.regFile.ReadReg(inst.Rs2)

	if b.Taken(inst.BrCond, rs1, rs2) {
		return pc + inst.Imm
	}
	return pc + 4
}
