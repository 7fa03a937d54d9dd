package cache

// BackingStore is the byte-addressable memory behind the cache. Range
// checking is the store's concern; it has no failure mode here.
type BackingStore interface {
	// Read8 reads one byte.
	Read8(addr uint64) uint8
	// Write8 writes one byte.
	Write8(addr uint64, value uint8)
}

// ReadDword reads a little-endian 64-bit value directly from the store.
// addr must be 8-byte aligned.
func ReadDword(store BackingStore, addr uint64) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(store.Read8(addr+uint64(i))) << (i * 8)
	}
	return v
}

// WriteDword writes a little-endian 64-bit value directly to the store.
// addr must be 8-byte aligned.
func WriteDword(store BackingStore, addr uint64, value uint64) {
	for i := 0; i < 8; i++ {
		store.Write8(addr+uint64(i), uint8(value>>(i*8)))
	}
}
