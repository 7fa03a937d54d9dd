package benchmarks

import (
	"fmt"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
)

// Data addresses used by the built-in programs.
const (
	SrcBase = 0x8000
	DstBase = 0x10000
)

// GetBenchmarks returns the built-in benchmark set.
func GetBenchmarks() []Benchmark {
	return []Benchmark{
		SumArray(64),
		MemCopy(64),
		ConflictStride(32, 512),
	}
}

// ByName returns the built-in benchmark called name.
func ByName(name string) (Benchmark, bool) {
	for _, b := range GetBenchmarks() {
		if b.Name == name {
			return b, true
		}
	}
	return Benchmark{}, false
}

// SumArray sums n dwords holding 1..n into x10.
func SumArray(n int) Benchmark {
	want := uint64(n) * uint64(n+1) / 2

	return Benchmark{
		Name:        "sum",
		Description: fmt.Sprintf("sum of %d sequential dwords - streams through the cache", n),
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			regFile.WriteReg(1, SrcBase)
			regFile.WriteReg(2, uint64(n))
			for i := 0; i < n; i++ {
				memory.Write64(SrcBase+uint64(i)*8, uint64(i+1))
			}
		},
		Program: BuildProgram(
			insts.ADDI(10, 0, 0),
			insts.LD(3, 1, 0), // loop
			insts.ADD(10, 10, 3),
			insts.ADDI(1, 1, 8),
			insts.ADDI(2, 2, -1),
			insts.BNE(2, 0, -16),
			insts.ECALL(),
		),
		Check: func(regFile *emu.RegFile, _ *emu.Memory) error {
			if got := regFile.ReadReg(10); got != want {
				return fmt.Errorf("x10 = %d, want %d", got, want)
			}
			return nil
		},
	}
}

// MemCopy copies n dwords from SrcBase to DstBase.
func MemCopy(n int) Benchmark {
	pattern := func(i int) uint64 {
		return uint64(i)*0x0101010101010101 ^ 0xA5A5A5A5A5A5A5A5
	}

	return Benchmark{
		Name:        "memcpy",
		Description: fmt.Sprintf("copy of %d dwords - dirty blocks written back on eviction", n),
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			regFile.WriteReg(1, SrcBase)
			regFile.WriteReg(2, DstBase)
			regFile.WriteReg(3, uint64(n))
			for i := 0; i < n; i++ {
				memory.Write64(SrcBase+uint64(i)*8, pattern(i))
			}
		},
		Program: BuildProgram(
			insts.LD(4, 1, 0), // loop
			insts.SD(4, 2, 0),
			insts.ADDI(1, 1, 8),
			insts.ADDI(2, 2, 8),
			insts.ADDI(3, 3, -1),
			insts.BNE(3, 0, -20),
			insts.ECALL(),
		),
		Check: func(_ *emu.RegFile, memory *emu.Memory) error {
			for i := 0; i < n; i++ {
				addr := DstBase + uint64(i)*8
				if got := memory.Read64(addr); got != pattern(i) {
					return fmt.Errorf("mem[0x%x] = 0x%x, want 0x%x", addr, got, pattern(i))
				}
			}
			return nil
		},
	}
}

// ConflictStride alternately increments two counters stride bytes apart.
// With stride equal to the cache size both map to the same set, so every
// access after the first evicts the other counter's dirty block.
func ConflictStride(iterations int, stride uint64) Benchmark {
	a, b := uint64(SrcBase), SrcBase+stride

	return Benchmark{
		Name:        "conflict",
		Description: fmt.Sprintf("%d rounds on two counters %d bytes apart - conflict misses", iterations, stride),
		Setup: func(regFile *emu.RegFile, _ *emu.Memory) {
			regFile.WriteReg(1, a)
			regFile.WriteReg(2, b)
			regFile.WriteReg(5, uint64(iterations))
		},
		Program: BuildProgram(
			insts.LD(3, 1, 0), // loop
			insts.ADDI(3, 3, 1),
			insts.SD(3, 1, 0),
			insts.LD(4, 2, 0),
			insts.ADDI(4, 4, 2),
			insts.SD(4, 2, 0),
			insts.ADDI(5, 5, -1),
			insts.BNE(5, 0, -28),
			insts.ECALL(),
		),
		Check: func(_ *emu.RegFile, memory *emu.Memory) error {
			if got := memory.Read64(a); got != uint64(iterations) {
				return fmt.Errorf("mem[0x%x] = %d, want %d", a, got, iterations)
			}
			if got := memory.Read64(b); got != 2*uint64(iterations) {
				return fmt.Errorf("mem[0x%x] = %d, want %d", b, got, 2*iterations)
			}
			return nil
		},
	}
}
