package insts

import "fmt"

// Mnemonic returns the assembler mnemonic of the instruction.
func (i *Instruction) Mnemonic() string {
	switch i.Class {
	case ClassR:
		switch i.ALUOp {
		case ALUOpSUB:
			return "sub"
		case ALUOpXOR:
			return "xor"
		case ALUOpOR:
			return "or"
		case ALUOpAND:
			return "and"
		default:
			return "add"
		}
	case ClassI:
		switch i.ALUOp {
		case ALUOpXOR:
			return "xori"
		case ALUOpOR:
			return "ori"
		case ALUOpAND:
			return "andi"
		default:
			return "addi"
		}
	case ClassLoad:
		return "ld"
	case ClassStore:
		return "sd"
	case ClassBranch:
		switch i.BrCond {
		case BrCondEQ:
			return "beq"
		case BrCondNEQ:
			return "bne"
		case BrCondLT:
			return "blt"
		case BrCondGE:
			return "bge"
		case BrCondLTU:
			return "bltu"
		case BrCondGEU:
			return "bgeu"
		default:
			return "b?"
		}
	default:
		return "unknown"
	}
}

// String disassembles the instruction, e.g. "sd x2, 8(x1)".
func (i *Instruction) String() string {
	imm := int64(i.Imm)

	switch i.Class {
	case ClassR:
		return fmt.Sprintf("%s x%d, x%d, x%d", i.Mnemonic(), i.Rd, i.Rs1, i.Rs2)
	case ClassI:
		return fmt.Sprintf("%s x%d, x%d, %d", i.Mnemonic(), i.Rd, i.Rs1, imm)
	case ClassLoad:
		return fmt.Sprintf("%s x%d, %d(x%d)", i.Mnemonic(), i.Rd, imm, i.Rs1)
	case ClassStore:
		return fmt.Sprintf("%s x%d, %d(x%d)", i.Mnemonic(), i.Rs2, imm, i.Rs1)
	case ClassBranch:
		return fmt.Sprintf("%s x%d, x%d, %d", i.Mnemonic(), i.Rs1, i.Rs2, imm)
	default:
		return fmt.Sprintf("unknown 0x%08x", i.Word)
	}
}
