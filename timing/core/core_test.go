package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
	"github.com/sarchlab/rvsim/timing/cache"
	"github.com/sarchlab/rvsim/timing/core"
)

// sumProgram adds 10+9+...+1 into x2.
var sumProgram = []uint32{
	insts.ADDI(1, 0, 10),
	insts.ADDI(2, 0, 0),
	insts.ADD(2, 2, 1), // loop
	insts.ADDI(1, 1, -1),
	insts.BNE(1, 0, -8),
	insts.ECALL(),
}

// storeLoadProgram stores 77 to 0x100 and loads it back into x3.
var storeLoadProgram = []uint32{
	insts.ADDI(1, 0, 0x100),
	insts.ADDI(2, 0, 77),
	insts.SD(2, 1, 0),
	insts.LD(3, 1, 0),
	insts.ECALL(),
}

var _ = Describe("Core", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		c       *core.Core
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewMemory()
		c = core.NewCore(regFile, memory)
	})

	It("should set and get PC", func() {
		c.SetPC(0x1000)
		Expect(c.PC()).To(Equal(uint64(0x1000)))
	})

	It("should not be halted initially", func() {
		Expect(c.Halted()).To(BeFalse())
		Expect(c.Cache()).To(BeNil())
	})

	It("should execute one instruction per tick", func() {
		memory.LoadWords(0x1000, []uint32{insts.ADDI(1, 0, 42), insts.ECALL()})
		c.SetPC(0x1000)

		Expect(c.Tick()).To(Succeed())

		Expect(regFile.X[1]).To(Equal(uint64(42)))
		Expect(c.PC()).To(Equal(uint64(0x1004)))
		Expect(c.Stats().Instructions).To(Equal(uint64(1)))
		Expect(c.Halted()).To(BeFalse())

		Expect(c.Tick()).To(Succeed())
		Expect(c.Halted()).To(BeTrue())
		Expect(c.Stats().Instructions).To(Equal(uint64(1)))
	})

	It("should halt on an all-zero word", func() {
		c.SetPC(0x4000)

		Expect(c.Run()).To(Succeed())

		Expect(c.Halted()).To(BeTrue())
		Expect(c.Stats().Instructions).To(BeZero())
	})

	It("should run a loop to completion", func() {
		memory.LoadWords(0x1000, sumProgram)
		c.SetPC(0x1000)

		Expect(c.Run()).To(Succeed())

		Expect(regFile.X[2]).To(Equal(uint64(55)))
		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(32)))
		Expect(stats.Branches).To(Equal(uint64(10)))
		Expect(stats.TakenBranches).To(Equal(uint64(9)))
		Expect(c.PC()).To(Equal(uint64(0x1014)))
	})

	It("should run a bounded number of cycles", func() {
		memory.LoadWords(0x1000, sumProgram)
		c.SetPC(0x1000)

		running, err := c.RunCycles(3)
		Expect(err).NotTo(HaveOccurred())
		Expect(running).To(BeTrue())
		Expect(c.Stats().Instructions).To(Equal(uint64(3)))

		running, err = c.RunCycles(100)
		Expect(err).NotTo(HaveOccurred())
		Expect(running).To(BeFalse())
	})

	It("should report unsupported instructions and keep the PC", func() {
		memory.Write32(0x1000, 0x123450B7) // lui
		c.SetPC(0x1000)

		err := c.Tick()

		Expect(err).To(MatchError(insts.ErrUnsupportedInstruction))
		Expect(err.Error()).To(ContainSubstring("pc 0x1000"))
		Expect(c.PC()).To(Equal(uint64(0x1000)))
		Expect(c.Halted()).To(BeFalse())
	})

	It("should stop at the instruction budget", func() {
		memory.Write32(0x1000, insts.BEQ(0, 0, 0))
		c = core.NewCore(regFile, memory, core.WithMaxInstructions(5))
		c.SetPC(0x1000)

		err := c.Run()

		Expect(err).To(MatchError(core.ErrMaxInstructions))
		Expect(err).To(MatchError(emu.ErrMaxInstructions))
		Expect(c.Stats().Instructions).To(Equal(uint64(5)))
	})

	It("should count loads and stores", func() {
		memory.LoadWords(0x1000, storeLoadProgram)
		c.SetPC(0x1000)

		Expect(c.Run()).To(Succeed())

		Expect(regFile.X[3]).To(Equal(uint64(77)))
		Expect(memory.Read64(0x100)).To(Equal(uint64(77)))
		Expect(c.Stats().Loads).To(Equal(uint64(1)))
		Expect(c.Stats().Stores).To(Equal(uint64(1)))
	})

	Context("with a data cache", func() {
		BeforeEach(func() {
			c = core.NewCore(regFile, memory, core.WithCache(cache.DefaultConfig()))
			memory.LoadWords(0x1000, storeLoadProgram)
			c.SetPC(0x1000)
		})

		It("should keep stores in the cache until flushed", func() {
			running, err := c.RunCycles(4)
			Expect(err).NotTo(HaveOccurred())
			Expect(running).To(BeTrue())

			Expect(regFile.X[3]).To(Equal(uint64(77)))
			Expect(memory.Read64(0x100)).To(BeZero())

			c.Flush()
			Expect(memory.Read64(0x100)).To(Equal(uint64(77)))
		})

		It("should flush on halt", func() {
			Expect(c.Run()).To(Succeed())

			Expect(memory.Read64(0x100)).To(Equal(uint64(77)))
			stats := c.Cache().Stats()
			Expect(stats.Writes).To(Equal(uint64(1)))
			Expect(stats.Reads).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(1)))
			Expect(stats.Writebacks).To(Equal(uint64(1)))
		})

		It("should reset cache and statistics but not memory", func() {
			Expect(c.Run()).To(Succeed())

			c.Reset()

			Expect(c.Halted()).To(BeFalse())
			Expect(c.Stats()).To(Equal(core.Stats{}))
			Expect(c.Cache().Stats()).To(Equal(cache.Statistics{}))
			set := int(cache.DefaultConfig().SetIndex(0x100))
			Expect(c.Cache().Block(set).State).To(Equal(cache.StateInvalid))
			Expect(memory.Read64(0x100)).To(Equal(uint64(77)))
			Expect(regFile.X[3]).To(Equal(uint64(77)))
		})
	})

	It("should agree with the emulator", func() {
		program := append([]uint32{}, storeLoadProgram[:4]...)
		program = append(program, sumProgram...)

		memory.LoadWords(0x1000, program)
		c = core.NewCore(regFile, memory, core.WithCache(cache.Config{BlockSize: 8, NumSets: 1}))
		c.SetPC(0x1000)
		Expect(c.Run()).To(Succeed())

		e := emu.NewEmulator()
		e.Memory().LoadWords(0x1000, program)
		e.SetPC(0x1000)
		Expect(e.Run()).To(Succeed())

		Expect(regFile.X).To(Equal(e.RegFile().X))
		Expect(c.PC()).To(Equal(e.PC()))
		Expect(c.Stats().Instructions).To(Equal(e.InstructionCount()))
		Expect(memory.Read64(0x100)).To(Equal(e.Memory().Read64(0x100)))
	})
})

var _ = Describe("Core retire hook", func() {
	var (
		mockCtrl *gomock.Controller
		hook     *MockHook
		memory   *emu.Memory
		c        *core.Core
		retired  []core.Retired
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hook = NewMockHook(mockCtrl)
		memory = emu.NewMemory()
		c = core.NewCore(&emu.RegFile{}, memory)
		c.AcceptHook(hook)
		retired = nil

		hook.EXPECT().Func(gomock.Any()).
			Do(func(ctx sim.HookCtx) {
				Expect(ctx.Pos).To(Equal(core.HookPosRetire))
				retired = append(retired, ctx.Item.(core.Retired))
			}).
			AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should fire once per committed instruction", func() {
		memory.LoadWords(0x1000, []uint32{
			insts.ADDI(1, 0, 42),
			insts.ADDI(0, 0, 1),
			insts.BEQ(0, 0, 8),
			0xFFFFFFFF,
			insts.ECALL(),
		})
		c.SetPC(0x1000)

		Expect(c.Run()).To(Succeed())

		Expect(retired).To(HaveLen(3))

		Expect(retired[0].PC).To(Equal(uint64(0x1000)))
		Expect(retired[0].NextPC).To(Equal(uint64(0x1004)))
		Expect(retired[0].Rd).To(Equal(uint8(1)))
		Expect(retired[0].Value).To(Equal(uint64(42)))
		Expect(retired[0].Written).To(BeTrue())
		Expect(retired[0].Inst.String()).To(Equal("addi x1, x0, 42"))

		Expect(retired[1].Written).To(BeFalse())

		Expect(retired[2].PC).To(Equal(uint64(0x1008)))
		Expect(retired[2].NextPC).To(Equal(uint64(0x1010)))
	})
})
