package insts

import (
	"errors"
	"fmt"
)

// ErrUnsupportedInstruction is returned when an instruction word carries an
// opcode outside the supported subset.
var ErrUnsupportedInstruction = errors.New("unsupported instruction")

// ExtractBits returns bits [lsb, msb] of word, inclusive, shifted down and
// zero-extended. The caller guarantees msb >= lsb and msb < 32.
func ExtractBits(word uint32, msb, lsb uint) uint32 {
	width := msb - lsb + 1
	mask := uint32((uint64(1) << width) - 1)

	return (word >> lsb) & mask
}

// SignExtend treats bit as the sign bit of value and extends it through
// bit 63. Bits above the sign bit are expected to be zero.
func SignExtend(value uint64, bit uint) uint64 {
	if value>>bit&1 == 0 {
		return value
	}

	return value | ^uint64(0)<<bit
}

// ExtractImmediate decodes the immediate of word according to its opcode
// and sign-extends it to 64 bits. R-type instructions have no immediate
// and yield 0. Branch immediates are byte offsets with bit 0 always clear.
func ExtractImmediate(word uint32) (uint64, error) {
	opcode := Opcode(ExtractBits(word, 6, 0))

	switch opcode {
	case OpcodeOp:
		return 0, nil

	case OpcodeOpImm, OpcodeLoad:
		imm := uint64(ExtractBits(word, 31, 20))
		return SignExtend(imm, 11), nil

	case OpcodeStore:
		imm := uint64(ExtractBits(word, 31, 25))<<5 |
			uint64(ExtractBits(word, 11, 7))
		return SignExtend(imm, 11), nil

	case OpcodeBranch:
		imm := uint64(ExtractBits(word, 31, 31))<<12 |
			uint64(ExtractBits(word, 7, 7))<<11 |
			uint64(ExtractBits(word, 30, 25))<<5 |
			uint64(ExtractBits(word, 11, 8))<<1
		return SignExtend(imm, 12), nil

	default:
		return 0, fmt.Errorf("%w: no immediate for opcode 0x%02x",
			ErrUnsupportedInstruction, uint32(opcode))
	}
}
