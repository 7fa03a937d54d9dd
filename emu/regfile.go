// Package emu provides the functional RV64I model: backing memory, the
// integer register file and a single-step reference emulator.
package emu

// NumRegs is the number of integer registers.
const NumRegs = 32

// RegFile represents the RV64I integer register file.
// X[0] is hardwired to zero.
type RegFile struct {
	X [NumRegs]uint64
}

// ReadReg reads a register value. Register 0 and out-of-range indices
// return 0.
func (r *RegFile) ReadReg(reg uint8) uint64 {
	if reg == 0 || reg >= NumRegs {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to register 0 and
// out-of-range indices are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint64) {
	if reg == 0 || reg >= NumRegs {
		return
	}
	r.X[reg] = value
}

// Reset clears every register.
func (r *RegFile) Reset() {
	r.X = [NumRegs]uint64{}
}
