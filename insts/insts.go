// Package insts provides RV64I instruction definitions, decoding and
// encoding.
//
// This package implements decoding of RISC-V machine code into structured
// instruction representations. It supports the integer subset the
// pipeline simulates:
//   - Register-register ALU: ADD, SUB, XOR, OR, AND
//   - Register-immediate ALU: ADDI, XORI, ORI, ANDI
//   - Loads and stores: LD, SD
//   - Branches: BEQ, BNE, BLT, BGE, BLTU, BGEU
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode(0x02A00093) // addi x1, x0, 42
//	fmt.Printf("%v rd=%d imm=%d\n", inst.Class, inst.Rd, int64(inst.Imm))
package insts
