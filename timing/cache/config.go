// Package cache provides a direct-mapped, write-back data cache engine.
package cache

import (
	"fmt"
	"math/bits"
)

// Config holds cache geometry. Both fields must be powers of two.
type Config struct {
	// BlockSize is the cache line size in bytes.
	BlockSize int `json:"block_size"`
	// NumSets is the number of sets. Each set holds exactly one block.
	NumSets int `json:"num_sets"`
}

// DefaultConfig returns a 512-byte cache of 16 sets with 32-byte blocks.
func DefaultConfig() Config {
	return Config{
		BlockSize: 32,
		NumSets:   16,
	}
}

// Validate checks that the geometry is usable. Blocks must hold at least
// one dword.
func (c Config) Validate() error {
	if !isPowerOfTwo(c.BlockSize) {
		return fmt.Errorf("block_size must be a power of two, got %d", c.BlockSize)
	}
	if c.BlockSize < 8 {
		return fmt.Errorf("block_size must be at least 8, got %d", c.BlockSize)
	}
	if !isPowerOfTwo(c.NumSets) {
		return fmt.Errorf("num_sets must be a power of two, got %d", c.NumSets)
	}
	return nil
}

// Size returns the total data capacity in bytes.
func (c Config) Size() int {
	return c.BlockSize * c.NumSets
}

// OffsetBits returns the number of address bits that select a byte
// within a block.
func (c Config) OffsetBits() uint {
	return log2(c.BlockSize)
}

// IndexBits returns the number of address bits that select a set.
func (c Config) IndexBits() uint {
	return log2(c.NumSets)
}

// Offset returns the byte offset of addr within its block.
func (c Config) Offset(addr uint64) uint64 {
	return addr & uint64(c.BlockSize-1)
}

// SetIndex returns the set that addr maps to.
func (c Config) SetIndex(addr uint64) uint64 {
	return (addr >> c.OffsetBits()) & uint64(c.NumSets-1)
}

// Tag returns the address bits above the set index.
func (c Config) Tag(addr uint64) uint64 {
	return addr >> (c.OffsetBits() + c.IndexBits())
}

// Reconstruct rebuilds an address from its tag, set index and offset.
func (c Config) Reconstruct(tag, set, offset uint64) uint64 {
	return tag<<(c.OffsetBits()+c.IndexBits()) |
		set<<c.OffsetBits() |
		offset
}

// BlockAddr returns the address of the first byte of the block identified
// by tag and set.
func (c Config) BlockAddr(tag, set uint64) uint64 {
	return c.Reconstruct(tag, set, 0)
}

func isPowerOfTwo(x int) bool {
	return x > 0 && x&(x-1) == 0
}

func log2(x int) uint {
	return uint(bits.TrailingZeros64(uint64(x)))
}
