package emu

const (
	pageBits = 12
	pageSize = 1 << pageBits
	pageMask = pageSize - 1
)

// Memory is a sparse, byte-addressable backing store. Pages are allocated
// on first write; bytes that were never written read as zero.
type Memory struct {
	pages map[uint64]*[pageSize]byte
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint64]*[pageSize]byte)}
}

// Read8 reads one byte.
func (m *Memory) Read8(addr uint64) uint8 {
	page, ok := m.pages[addr>>pageBits]
	if !ok {
		return 0
	}
	return page[addr&pageMask]
}

// Write8 writes one byte.
func (m *Memory) Write8(addr uint64, value uint8) {
	key := addr >> pageBits
	page, ok := m.pages[key]
	if !ok {
		page = new([pageSize]byte)
		m.pages[key] = page
	}
	page[addr&pageMask] = value
}

// Read32 reads a little-endian 32-bit word.
func (m *Memory) Read32(addr uint64) uint32 {
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(m.Read8(addr+uint64(i))) << (i * 8)
	}
	return v
}

// Write32 writes a little-endian 32-bit word.
func (m *Memory) Write32(addr uint64, value uint32) {
	for i := 0; i < 4; i++ {
		m.Write8(addr+uint64(i), uint8(value>>(i*8)))
	}
}

// Read64 reads a little-endian 64-bit dword.
func (m *Memory) Read64(addr uint64) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(m.Read8(addr+uint64(i))) << (i * 8)
	}
	return v
}

// Write64 writes a little-endian 64-bit dword.
func (m *Memory) Write64(addr uint64, value uint64) {
	for i := 0; i < 8; i++ {
		m.Write8(addr+uint64(i), uint8(value>>(i*8)))
	}
}

// LoadProgram copies program into memory starting at addr.
func (m *Memory) LoadProgram(addr uint64, program []byte) {
	for i, b := range program {
		m.Write8(addr+uint64(i), b)
	}
}

// LoadWords stores instruction words back to back starting at addr.
func (m *Memory) LoadWords(addr uint64, words []uint32) {
	for i, w := range words {
		m.Write32(addr+uint64(i)*4, w)
	}
}

// Equal reports whether m and other hold the same bytes. Pages that were
// never written compare equal to zeroed pages.
func (m *Memory) Equal(other *Memory) bool {
	var zero [pageSize]byte

	for key, page := range m.pages {
		otherPage, ok := other.pages[key]
		if !ok {
			otherPage = &zero
		}
		if *page != *otherPage {
			return false
		}
	}

	for key, page := range other.pages {
		if _, ok := m.pages[key]; !ok && *page != zero {
			return false
		}
	}

	return true
}
