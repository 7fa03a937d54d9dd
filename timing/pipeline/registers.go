package pipeline

import "github.com/sarchlab/rvsim/insts"

// RegisterFile is the architectural register file read by decode and
// written by writeback. Index 0 is conventionally read as zero.
type RegisterFile interface {
	ReadReg(reg uint8) uint64
	WriteReg(reg uint8, value uint64)
}

// FetchOutputs holds state between the Fetch and Decode stages.
type FetchOutputs struct {
	PC   uint64
	Inst uint32
}

// DecodeOutputs is the decoded micro-op passed from Decode to AGEX.
type DecodeOutputs struct {
	PC uint64

	// Inst is the decoded instruction, kept for tracing.
	Inst *insts.Instruction

	Rd     uint8
	Rs1Val uint64
	Rs2Val uint64
	Imm    uint64

	// Control signals.
	ASel     ASel
	BSel     BSel
	ALUOp    insts.ALUOp
	BrCond   insts.BrCond
	WBSel    WBSel
	RegWrite bool
	MemRead  bool
	MemWrite bool
}

// AgexOutputs holds state between AGEX and the Memory stage.
type AgexOutputs struct {
	PC   uint64
	Inst *insts.Instruction

	Rd     uint8
	Rs2Val uint64

	// ALUResult is the computed value, the effective address for memory
	// operations or the branch target for branches.
	ALUResult   uint64
	BranchTaken bool
	PCSel       PCSel

	WBSel    WBSel
	RegWrite bool
	MemRead  bool
	MemWrite bool
}

// MemOutputs holds state between the Memory and Writeback stages. All
// AGEX fields are forwarded unchanged.
type MemOutputs struct {
	AgexOutputs

	// ReadData is the loaded dword, or zero when no read was issued.
	ReadData uint64
}

// WritebackOutputs reports the commit result of one instruction.
type WritebackOutputs struct {
	NextPC uint64

	// Committed is true if Value was written to register Rd.
	Committed bool
	Rd        uint8
	Value     uint64
}
