package pipeline

import (
	"fmt"

	"github.com/sarchlab/rvsim/insts"
	"github.com/sarchlab/rvsim/timing/cache"
)

// FetchStage handles instruction fetch from the backing store.
type FetchStage struct {
	store cache.BackingStore
}

// NewFetchStage creates a new fetch stage.
func NewFetchStage(store cache.BackingStore) *FetchStage {
	return &FetchStage{store: store}
}

// Fetch reads the little-endian instruction word at pc. pc must be 4-byte
// aligned.
func (s *FetchStage) Fetch(pc uint64) FetchOutputs {
	var word uint32
	for i := 0; i < 4; i++ {
		word |= uint32(s.store.Read8(pc+uint64(i))) << (i * 8)
	}

	return FetchOutputs{PC: pc, Inst: word}
}

// DecodeStage handles instruction decode and register read.
type DecodeStage struct {
	regs    RegisterFile
	decoder *insts.Decoder
}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage(regs RegisterFile) *DecodeStage {
	return &DecodeStage{
		regs:    regs,
		decoder: insts.NewDecoder(),
	}
}

// Decode decodes the fetched word, reads its source registers and fills in
// the control signals. Words outside the supported subset return an error
// wrapping insts.ErrUnsupportedInstruction.
func (s *DecodeStage) Decode(in FetchOutputs) (DecodeOutputs, error) {
	inst, err := s.decoder.Decode(in.Inst)
	if err != nil {
		return DecodeOutputs{}, err
	}

	out := DecodeOutputs{
		PC:     in.PC,
		Inst:   inst,
		Rd:     inst.Rd,
		Rs1Val: s.readReg(inst.Rs1),
		Rs2Val: s.readReg(inst.Rs2),
		Imm:    inst.Imm,
		ALUOp:  inst.ALUOp,
		BrCond: inst.BrCond,
	}

	switch inst.Class {
	case insts.ClassR:
		out.ASel, out.BSel = ASelRS1, BSelRS2
		out.WBSel = WBSelALU
		out.RegWrite = true
	case insts.ClassI:
		out.ASel, out.BSel = ASelRS1, BSelIMM
		out.WBSel = WBSelALU
		out.RegWrite = true
	case insts.ClassLoad:
		out.ASel, out.BSel = ASelRS1, BSelIMM
		out.ALUOp = insts.ALUOpADD
		out.WBSel = WBSelMEM
		out.RegWrite = true
		out.MemRead = true
	case insts.ClassStore:
		out.ASel, out.BSel = ASelRS1, BSelIMM
		out.ALUOp = insts.ALUOpADD
		out.MemWrite = true
	case insts.ClassBranch:
		out.ASel, out.BSel = ASelPC, BSelIMM
		out.ALUOp = insts.ALUOpADD
	default:
		// The decoder rejects unknown opcodes first. This catches a class
		// added to insts without a row in the control table.
		return DecodeOutputs{}, fmt.Errorf("%w: opcode 0x%02x",
			insts.ErrUnsupportedInstruction, uint8(inst.Opcode))
	}

	if out.Rd == 0 {
		out.RegWrite = false
	}

	return out, nil
}

// readReg reads x0 as zero without relying on the register file.
func (s *DecodeStage) readReg(reg uint8) uint64 {
	if reg == 0 {
		return 0
	}
	return s.regs.ReadReg(reg)
}

// AgexStage computes the ALU result and resolves branches.
type AgexStage struct{}

// NewAgexStage creates a new AGEX stage.
func NewAgexStage() *AgexStage {
	return &AgexStage{}
}

// Execute selects the operands, runs the ALU with 64-bit wraparound and
// decides the next-PC source.
func (s *AgexStage) Execute(in DecodeOutputs) AgexOutputs {
	a := in.Rs1Val
	if in.ASel == ASelPC {
		a = in.PC
	}

	b := in.Rs2Val
	if in.BSel == BSelIMM {
		b = in.Imm
	}

	out := AgexOutputs{
		PC:          in.PC,
		Inst:        in.Inst,
		Rd:          in.Rd,
		Rs2Val:      in.Rs2Val,
		ALUResult:   compute(in.ALUOp, a, b),
		BranchTaken: taken(in.BrCond, in.Rs1Val, in.Rs2Val),
		WBSel:       in.WBSel,
		RegWrite:    in.RegWrite,
		MemRead:     in.MemRead,
		MemWrite:    in.MemWrite,
	}

	if out.BranchTaken {
		out.PCSel = PCSelALU
	}

	return out
}

func compute(op insts.ALUOp, a, b uint64) uint64 {
	switch op {
	case insts.ALUOpSUB:
		return a - b
	case insts.ALUOpXOR:
		return a ^ b
	case insts.ALUOpOR:
		return a | b
	case insts.ALUOpAND:
		return a & b
	default:
		return a + b
	}
}

func taken(cond insts.BrCond, rs1, rs2 uint64) bool {
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

// MemoryStage performs dword loads and stores, either through a data cache
// or directly on the backing store.
type MemoryStage struct {
	store  cache.BackingStore
	dcache *cache.Cache
}

// MemoryStageOption configures a MemoryStage.
type MemoryStageOption func(*MemoryStage)

// WithCache routes loads and stores through c.
func WithCache(c *cache.Cache) MemoryStageOption {
	return func(s *MemoryStage) {
		s.dcache = c
	}
}

// NewMemoryStage creates a new memory stage over store.
func NewMemoryStage(store cache.BackingStore, opts ...MemoryStageOption) *MemoryStage {
	s := &MemoryStage{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the data cache, or nil if accesses go directly to the
// backing store.
func (s *MemoryStage) Cache() *cache.Cache {
	return s.dcache
}

// Access issues the read and the write the AGEX outputs ask for. The two
// flags are checked independently. Addresses must be 8-byte aligned.
func (s *MemoryStage) Access(in AgexOutputs) MemOutputs {
	out := MemOutputs{AgexOutputs: in}

	if in.MemRead {
		out.ReadData = s.read(in.ALUResult)
	}

	if in.MemWrite {
		s.write(in.ALUResult, in.Rs2Val)
	}

	return out
}

func (s *MemoryStage) read(addr uint64) uint64 {
	if s.dcache != nil {
		return s.dcache.Read(addr)
	}
	return cache.ReadDword(s.store, addr)
}

func (s *MemoryStage) write(addr, value uint64) {
	if s.dcache != nil {
		s.dcache.Write(addr, value)
		return
	}
	cache.WriteDword(s.store, addr, value)
}

// WritebackStage handles register file writeback.
type WritebackStage struct {
	regs RegisterFile
}

// NewWritebackStage creates a new writeback stage.
func NewWritebackStage(regs RegisterFile) *WritebackStage {
	return &WritebackStage{regs: regs}
}

// Writeback commits the selected value to Rd and computes the next PC.
func (s *WritebackStage) Writeback(in MemOutputs) WritebackOutputs {
	value := in.ALUResult
	if in.WBSel == WBSelMEM {
		value = in.ReadData
	}

	out := WritebackOutputs{
		NextPC: in.PC + 4,
		Rd:     in.Rd,
		Value:  value,
	}

	if in.PCSel == PCSelALU {
		out.NextPC = in.ALUResult
	}

	if in.RegWrite && in.Rd != 0 {
		s.regs.WriteReg(in.Rd, value)
		out.Committed = true
	}

	return out
}
