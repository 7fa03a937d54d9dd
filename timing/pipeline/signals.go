// Package pipeline provides the five stages of an in-order RV64I core:
// fetch, decode, address generation/execute (AGEX), memory and writeback.
//
// Each stage is a function of the previous stage's outputs. A driver such
// as timing/core threads one instruction through all five stages per
// cycle.
package pipeline

import "fmt"

// ASel selects ALU operand A.
type ASel uint8

// Operand A sources.
const (
	ASelRS1 ASel = iota
	ASelPC
)

func (s ASel) String() string {
	switch s {
	case ASelRS1:
		return "RS1"
	case ASelPC:
		return "PC"
	default:
		return fmt.Sprintf("ASel(%d)", uint8(s))
	}
}

// BSel selects ALU operand B.
type BSel uint8

// Operand B sources.
const (
	BSelRS2 BSel = iota
	BSelIMM
)

func (s BSel) String() string {
	switch s {
	case BSelRS2:
		return "RS2"
	case BSelIMM:
		return "IMM"
	default:
		return fmt.Sprintf("BSel(%d)", uint8(s))
	}
}

// WBSel selects the value committed by the writeback stage.
type WBSel uint8

// Writeback sources.
const (
	WBSelALU WBSel = iota
	WBSelMEM
)

func (s WBSel) String() string {
	switch s {
	case WBSelALU:
		return "ALU"
	case WBSelMEM:
		return "MEM"
	default:
		return fmt.Sprintf("WBSel(%d)", uint8(s))
	}
}

// PCSel selects the next program counter.
type PCSel uint8

// Next-PC sources.
const (
	PCSelPlus4 PCSel = iota
	PCSelALU
)

func (s PCSel) String() string {
	switch s {
	case PCSelPlus4:
		return "PC+4"
	case PCSelALU:
		return "ALU"
	default:
		return fmt.Sprintf("PCSel(%d)", uint8(s))
	}
}
