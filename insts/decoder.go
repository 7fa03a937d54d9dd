package insts

import "fmt"

// Opcode is the 7-bit major opcode in bits [6:0].
type Opcode uint8

// RV64I major opcodes.
const (
	OpcodeLoad   Opcode = 0b0000011
	OpcodeOpImm  Opcode = 0b0010011
	OpcodeStore  Opcode = 0b0100011
	OpcodeOp     Opcode = 0b0110011
	OpcodeBranch Opcode = 0b1100011
	OpcodeSystem Opcode = 0b1110011
)

// funct3 and funct7 values.
const (
	Funct3AddSub = 0b000
	Funct3XOR    = 0b100
	Funct3OR     = 0b110
	Funct3AND    = 0b111

	Funct3LD = 0b011
	Funct3SD = 0b011

	Funct3BEQ  = 0b000
	Funct3BNE  = 0b001
	Funct3BLT  = 0b100
	Funct3BGE  = 0b101
	Funct3BLTU = 0b110
	Funct3BGEU = 0b111

	Funct7SUB = 0b0100000
)

// Class groups opcodes that share a control-signal pattern.
type Class uint8

// Instruction classes.
const (
	ClassUnknown Class = iota
	ClassR             // Register-register ALU
	ClassI             // Register-immediate ALU
	ClassLoad          // Load
	ClassStore         // Store
	ClassBranch        // Conditional branch
)

func (c Class) String() string {
	switch c {
	case ClassR:
		return "R"
	case ClassI:
		return "I"
	case ClassLoad:
		return "LOAD"
	case ClassStore:
		return "STORE"
	case ClassBranch:
		return "BRANCH"
	default:
		return "UNKNOWN"
	}
}

// ALUOp selects the operation the AGEX stage performs.
type ALUOp uint8

// ALU operations.
const (
	ALUOpADD ALUOp = iota
	ALUOpSUB
	ALUOpXOR
	ALUOpOR
	ALUOpAND
)

func (op ALUOp) String() string {
	switch op {
	case ALUOpADD:
		return "ADD"
	case ALUOpSUB:
		return "SUB"
	case ALUOpXOR:
		return "XOR"
	case ALUOpOR:
		return "OR"
	case ALUOpAND:
		return "AND"
	default:
		return fmt.Sprintf("ALUOp(%d)", uint8(op))
	}
}

// BrCond is the condition under which a branch is taken.
type BrCond uint8

// Branch conditions. LT and GE compare signed, LTU and GEU unsigned.
const (
	BrCondNever BrCond = iota
	BrCondAlways
	BrCondEQ
	BrCondNEQ
	BrCondLT
	BrCondGE
	BrCondLTU
	BrCondGEU
)

func (c BrCond) String() string {
	switch c {
	case BrCondNever:
		return "NEVER"
	case BrCondAlways:
		return "ALWAYS"
	case BrCondEQ:
		return "EQ"
	case BrCondNEQ:
		return "NEQ"
	case BrCondLT:
		return "LT"
	case BrCondGE:
		return "GE"
	case BrCondLTU:
		return "LTU"
	case BrCondGEU:
		return "GEU"
	default:
		return fmt.Sprintf("BrCond(%d)", uint8(c))
	}
}

// Instruction represents a decoded RV64I instruction.
type Instruction struct {
	Word   uint32 // Raw instruction word
	Opcode Opcode
	Class  Class

	Rd     uint8 // Destination register, bits [11:7]
	Rs1    uint8 // First source register, bits [19:15]
	Rs2    uint8 // Second source register, bits [24:20]
	Funct3 uint8
	Funct7 uint8

	// Imm is the sign-extended immediate. Zero for R-type.
	Imm uint64

	ALUOp  ALUOp
	BrCond BrCond
}

// Decoder decodes RV64I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV64I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word. Words whose opcode is not in
// the supported subset return an error wrapping ErrUnsupportedInstruction.
func (d *Decoder) Decode(word uint32) (*Instruction, error) {
	inst := &Instruction{
		Word:   word,
		Opcode: Opcode(ExtractBits(word, 6, 0)),
		Rd:     uint8(ExtractBits(word, 11, 7)),
		Funct3: uint8(ExtractBits(word, 14, 12)),
		Rs1:    uint8(ExtractBits(word, 19, 15)),
		Rs2:    uint8(ExtractBits(word, 24, 20)),
		Funct7: uint8(ExtractBits(word, 31, 25)),
	}

	imm, err := ExtractImmediate(word)
	if err != nil {
		return nil, err
	}
	inst.Imm = imm

	switch inst.Opcode {
	case OpcodeOp:
		inst.Class = ClassR
	case OpcodeOpImm:
		inst.Class = ClassI
	case OpcodeLoad:
		inst.Class = ClassLoad
	case OpcodeStore:
		inst.Class = ClassStore
	case OpcodeBranch:
		inst.Class = ClassBranch
	}

	inst.ALUOp = d.aluOp(inst)
	inst.BrCond = d.brCond(inst)

	return inst, nil
}

// aluOp decodes the ALU operation. Only R-type distinguishes SUB through
// funct7; unrecognised funct3 values fall back to ADD.
func (d *Decoder) aluOp(inst *Instruction) ALUOp {
	if inst.Class != ClassR && inst.Class != ClassI {
		return ALUOpADD
	}

	switch inst.Funct3 {
	case Funct3AddSub:
		if inst.Class == ClassR && inst.Funct7 == Funct7SUB {
			return ALUOpSUB
		}
		return ALUOpADD
	case Funct3XOR:
		return ALUOpXOR
	case Funct3OR:
		return ALUOpOR
	case Funct3AND:
		return ALUOpAND
	default:
		return ALUOpADD
	}
}

// brCond decodes the branch condition. Non-branches and reserved funct3
// encodings are never taken.
func (d *Decoder) brCond(inst *Instruction) BrCond {
	if inst.Class != ClassBranch {
		return BrCondNever
	}

	switch inst.Funct3 {
	case Funct3BEQ:
		return BrCondEQ
	case Funct3BNE:
		return BrCondNEQ
	case Funct3BLT:
		return BrCondLT
	case Funct3BGE:
		return BrCondGE
	case Funct3BLTU:
		return BrCondLTU
	case Funct3BGEU:
		return BrCondGEU
	default:
		return BrCondNever
	}
}

// IsHalt reports whether word is ECALL, EBREAK or the all-zero word, which
// drivers treat as the end of a program.
func IsHalt(word uint32) bool {
	return word == 0 || word == ecallWord || word == ebreakWord
}

const (
	ecallWord  uint32 = 0x00000073
	ebreakWord uint32 = 0x00100073
)
