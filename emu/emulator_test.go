package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("Emulator", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator()
	})

	load := func(words ...uint32) {
		e.Memory().LoadWords(0x1000, words)
		e.SetPC(0x1000)
	}

	Describe("NewEmulator", func() {
		It("should create an emulator with initialized components", func() {
			Expect(e).NotTo(BeNil())
			Expect(e.RegFile()).NotTo(BeNil())
			Expect(e.Memory()).NotTo(BeNil())
		})

		It("should share a provided register file and memory", func() {
			regFile := &emu.RegFile{}
			memory := emu.NewMemory()

			e = emu.NewEmulator(emu.WithRegFile(regFile), emu.WithMemory(memory))

			Expect(e.RegFile()).To(BeIdenticalTo(regFile))
			Expect(e.Memory()).To(BeIdenticalTo(memory))
		})
	})

	Describe("LoadProgram", func() {
		It("should load bytes and set the PC to the entry point", func() {
			e.LoadProgram(0x2000, []byte{0x93, 0x00, 0xA0, 0x02})

			Expect(e.PC()).To(Equal(uint64(0x2000)))
			Expect(e.Memory().Read32(0x2000)).To(Equal(uint32(0x02A00093)))
		})
	})

	Describe("Step", func() {
		It("should execute addi and advance the PC", func() {
			load(insts.ADDI(1, 0, 42))

			result := e.Step()

			Expect(result.Err).ToNot(HaveOccurred())
			Expect(e.RegFile().ReadReg(1)).To(Equal(uint64(42)))
			Expect(e.PC()).To(Equal(uint64(0x1004)))
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
		})

		It("should wrap on overflow", func() {
			e.RegFile().WriteReg(1, ^uint64(0))
			load(insts.ADDI(2, 1, 1))

			e.Step()

			Expect(e.RegFile().ReadReg(2)).To(BeZero())
		})

		It("should store and load dwords", func() {
			e.RegFile().WriteReg(1, 0x8000)
			e.RegFile().WriteReg(2, 0xCAFEBABE12345678)
			load(insts.SD(2, 1, 8), insts.LD(3, 1, 8))

			e.Step()
			e.Step()

			Expect(e.Memory().Read64(0x8008)).To(Equal(uint64(0xCAFEBABE12345678)))
			Expect(e.RegFile().ReadReg(3)).To(Equal(uint64(0xCAFEBABE12345678)))
		})

		It("should take a signed branch", func() {
			e.RegFile().WriteReg(1, ^uint64(0))
			load(insts.BLT(1, 0, 16))

			e.Step()

			Expect(e.PC()).To(Equal(uint64(0x1010)))
		})

		It("should not take the unsigned form of the same comparison", func() {
			e.RegFile().WriteReg(1, ^uint64(0))
			load(insts.BLTU(1, 0, 16))

			e.Step()

			Expect(e.PC()).To(Equal(uint64(0x1004)))
		})

		It("should never write x0", func() {
			load(insts.ADDI(0, 0, 5))

			e.Step()

			Expect(e.RegFile().ReadReg(0)).To(BeZero())
		})

		It("should exit on ecall", func() {
			load(insts.ECALL())

			result := e.Step()

			Expect(result.Exited).To(BeTrue())
			Expect(e.InstructionCount()).To(BeZero())
		})

		It("should report unsupported instructions", func() {
			load(0x123450B7) // lui

			result := e.Step()

			Expect(result.Err).To(MatchError(insts.ErrUnsupportedInstruction))
		})
	})

	Describe("Run", func() {
		It("should run a counting loop to completion", func() {
			// x1 = 5; loop: x2 += 1; x1 -= 1; bne x1, x0, loop
			load(
				insts.ADDI(1, 0, 5),
				insts.ADDI(2, 2, 1),
				insts.ADDI(1, 1, -1),
				insts.BNE(1, 0, -8),
				insts.ECALL(),
			)

			Expect(e.Run()).To(Succeed())
			Expect(e.RegFile().ReadReg(2)).To(Equal(uint64(5)))
			Expect(e.InstructionCount()).To(Equal(uint64(1 + 5*3)))
		})

		It("should stop at the instruction budget", func() {
			e = emu.NewEmulator(emu.WithMaxInstructions(3))
			load(insts.BEQ(0, 0, 0))

			Expect(e.Run()).To(MatchError(emu.ErrMaxInstructions))
			Expect(e.InstructionCount()).To(Equal(uint64(3)))
		})
	})
})
