package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("ALU", func() {
	var (
		regFile *emu.RegFile
		alu     *emu.ALU
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		alu = emu.NewALU(regFile)
		decoder = insts.NewDecoder()
	})

	DescribeTable("Compute",
		func(op insts.ALUOp, x, y, want uint64) {
			Expect(alu.Compute(op, x, y)).To(Equal(want))
		},
		Entry("ADD wraps", insts.ALUOpADD, ^uint64(0), uint64(1), uint64(0)),
		Entry("SUB wraps", insts.ALUOpSUB, uint64(0), uint64(1), ^uint64(0)),
		Entry("XOR", insts.ALUOpXOR, uint64(0b1100), uint64(0b1010), uint64(0b0110)),
		Entry("OR", insts.ALUOpOR, uint64(0b1100), uint64(0b1010), uint64(0b1110)),
		Entry("AND", insts.ALUOpAND, uint64(0b1100), uint64(0b1010), uint64(0b1000)),
	)

	It("should execute register-register operations", func() {
		regFile.WriteReg(1, 100)
		regFile.WriteReg(2, 58)
		inst, err := decoder.Decode(insts.SUB(3, 1, 2))
		Expect(err).NotTo(HaveOccurred())

		alu.ExecuteR(inst)

		Expect(regFile.ReadReg(3)).To(Equal(uint64(42)))
	})

	It("should sign-extend immediates", func() {
		regFile.WriteReg(1, 0xFF)
		inst, err := decoder.Decode(insts.ANDI(2, 1, -16))
		Expect(err).NotTo(HaveOccurred())

		alu.ExecuteI(inst)

		Expect(regFile.ReadReg(2)).To(Equal(uint64(0xF0)))
	})
})

var _ = Describe("BranchUnit", func() {
	var (
		regFile *emu.RegFile
		unit    *emu.BranchUnit
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		unit = emu.NewBranchUnit(regFile)
	})

	DescribeTable("Taken",
		func(cond insts.BrCond, rs1, rs2 uint64, want bool) {
			Expect(unit.Taken(cond, rs1, rs2)).To(Equal(want))
		},
		Entry("EQ", insts.BrCondEQ, uint64(3), uint64(3), true),
		Entry("NEQ", insts.BrCondNEQ, uint64(3), uint64(3), false),
		Entry("LT signed", insts.BrCondLT, ^uint64(0), uint64(0), true),
		Entry("LTU unsigned", insts.BrCondLTU, ^uint64(0), uint64(0), false),
		Entry("GE equal", insts.BrCondGE, uint64(5), uint64(5), true),
		Entry("GEU unsigned", insts.BrCondGEU, ^uint64(0), uint64(1), true),
		Entry("never", insts.BrCondNever, uint64(0), uint64(0), false),
	)

	It("should compute a backward target", func() {
		regFile.WriteReg(1, 1)
		inst, err := insts.NewDecoder().Decode(insts.BNE(1, 0, -8))
		Expect(err).NotTo(HaveOccurred())

		Expect(unit.Target(inst, 0x1010)).To(Equal(uint64(0x1008)))

		regFile.WriteReg(1, 0)
		Expect(unit.Target(inst, 0x1010)).To(Equal(uint64(0x1014)))
	})
})
