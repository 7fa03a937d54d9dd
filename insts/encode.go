package insts

// EncodeR assembles an R-type instruction.
func EncodeR(opcode Opcode, rd, funct3, rs1, rs2, funct7 uint8) uint32 {
	return uint32(funct7&0x7F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeI assembles an I-type instruction. Only the low 12 bits of imm are
// encoded.
func EncodeI(opcode Opcode, rd, funct3, rs1 uint8, imm int64) uint32 {
	return uint32(imm&0xFFF)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeS assembles an S-type instruction.
func EncodeS(opcode Opcode, funct3, rs1, rs2 uint8, imm int64) uint32 {
	u := uint32(imm & 0xFFF)
	return (u>>5)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		(u&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeB assembles a B-type instruction. offset is a byte offset; bit 0 is
// dropped.
func EncodeB(opcode Opcode, funct3, rs1, rs2 uint8, offset int64) uint32 {
	u := uint32(offset & 0x1FFF)
	return (u>>12&0x1)<<31 |
		(u>>5&0x3F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		(u>>1&0xF)<<8 |
		(u>>11&0x1)<<7 |
		uint32(opcode&0x7F)
}

// ADD encodes add rd, rs1, rs2.
func ADD(rd, rs1, rs2 uint8) uint32 {
	return EncodeR(OpcodeOp, rd, Funct3AddSub, rs1, rs2, 0)
}

// SUB encodes sub rd, rs1, rs2.
func SUB(rd, rs1, rs2 uint8) uint32 {
	return EncodeR(OpcodeOp, rd, Funct3AddSub, rs1, rs2, Funct7SUB)
}

// XOR encodes xor rd, rs1, rs2.
func XOR(rd, rs1, rs2 uint8) uint32 {
	return EncodeR(OpcodeOp, rd, Funct3XOR, rs1, rs2, 0)
}

// OR encodes or rd, rs1, rs2.
func OR(rd, rs1, rs2 uint8) uint32 {
	return EncodeR(OpcodeOp, rd, Funct3OR, rs1, rs2, 0)
}

// AND encodes and rd, rs1, rs2.
func AND(rd, rs1, rs2 uint8) uint32 {
	return EncodeR(OpcodeOp, rd, Funct3AND, rs1, rs2, 0)
}

// ADDI encodes addi rd, rs1, imm.
func ADDI(rd, rs1 uint8, imm int64) uint32 {
	return EncodeI(OpcodeOpImm, rd, Funct3AddSub, rs1, imm)
}

// XORI encodes xori rd, rs1, imm.
func XORI(rd, rs1 uint8, imm int64) uint32 {
	return EncodeI(OpcodeOpImm, rd, Funct3XOR, rs1, imm)
}

// ORI encodes ori rd, rs1, imm.
func ORI(rd, rs1 uint8, imm int64) uint32 {
	return EncodeI(OpcodeOpImm, rd, Funct3OR, rs1, imm)
}

// ANDI encodes andi rd, rs1, imm.
func ANDI(rd, rs1 uint8, imm int64) uint32 {
	return EncodeI(OpcodeOpImm, rd, Funct3AND, rs1, imm)
}

// LD encodes ld rd, imm(rs1).
func LD(rd, rs1 uint8, imm int64) uint32 {
	return EncodeI(OpcodeLoad, rd, Funct3LD, rs1, imm)
}

// SD encodes sd rs2, imm(rs1).
func SD(rs2, rs1 uint8, imm int64) uint32 {
	return EncodeS(OpcodeStore, Funct3SD, rs1, rs2, imm)
}

// BEQ encodes beq rs1, rs2, offset.
func BEQ(rs1, rs2 uint8, offset int64) uint32 {
	return EncodeB(OpcodeBranch, Funct3BEQ, rs1, rs2, offset)
}

// BNE encodes bne rs1, rs2, offset.
func BNE(rs1, rs2 uint8, offset int64) uint32 {
	return EncodeB(OpcodeBranch, Funct3BNE, rs1, rs2, offset)
}

// BLT encodes blt rs1, rs2, offset.
func BLT(rs1, rs2 uint8, offset int64) uint32 {
	return EncodeB(OpcodeBranch, Funct3BLT, rs1, rs2, offset)
}

// BGE encodes bge rs1, rs2, offset.
func BGE(rs1, rs2 uint8, offset int64) uint32 {
	return EncodeB(OpcodeBranch, Funct3BGE, rs1, rs2, offset)
}

// BLTU encodes bltu rs1, rs2, offset.
func BLTU(rs1, rs2 uint8, offset int64) uint32 {
	return EncodeB(OpcodeBranch, Funct3BLTU, rs1, rs2, offset)
}

// BGEU encodes bgeu rs1, rs2, offset.
func BGEU(rs1, rs2 uint8, offset int64) uint32 {
	return EncodeB(OpcodeBranch, Funct3BGEU, rs1, rs2, offset)
}

// ECALL encodes ecall.
func ECALL() uint32 {
	return ecallWord
}
