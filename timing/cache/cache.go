package cache

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// Hook positions invoked by the cache. The hook item is an Event.
var (
	HookPosHit       = &sim.HookPos{Name: "CacheHit"}
	HookPosMiss      = &sim.HookPos{Name: "CacheMiss"}
	HookPosFill      = &sim.HookPos{Name: "CacheFill"}
	HookPosWriteback = &sim.HookPos{Name: "CacheWriteback"}
)

// Event describes a single cache action. For hits and misses Addr is the
// requested address; for fills and writebacks it is the block address
// transferred to or from the backing store.
type Event struct {
	Set  uint64
	Tag  uint64
	Addr uint64
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads      uint64 `json:"reads"`
	Writes     uint64 `json:"writes"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Fills      uint64 `json:"fills"`
	Writebacks uint64 `json:"writebacks"`
}

// HitRate returns hits over total accesses, or 0 before any access.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is a direct-mapped, write-back, write-allocate data cache. It owns
// one Block per set; every set starts Invalid.
//
// Accesses are 8 bytes wide and the caller guarantees 8-byte alignment.
// Misaligned addresses are not detected.
type Cache struct {
	*sim.HookableBase

	config  Config
	sets    []Block
	backing BackingStore
	stats   Statistics
}

// New creates a cache in front of backing. It panics if config is invalid.
func New(config Config, backing BackingStore) *Cache {
	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("cache: %v", err))
	}

	sets := make([]Block, config.NumSets)
	for i := range sets {
		sets[i].Data = make([]byte, config.BlockSize)
	}

	return &Cache{
		HookableBase: sim.NewHookableBase(),
		config:       config,
		sets:         sets,
		backing:      backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// Block returns a copy of the block held by set.
func (c *Cache) Block(set int) Block {
	b := c.sets[set]
	b.Data = append([]byte(nil), b.Data...)
	return b
}

// Read returns the little-endian dword at addr, filling the block and
// writing back a dirty victim first if needed.
func (c *Cache) Read(addr uint64) uint64 {
	c.stats.Reads++

	block := c.access(addr)
	offset := c.config.Offset(addr)

	return binary.LittleEndian.Uint64(block.Data[offset : offset+8])
}

// Write stores value as a little-endian dword at addr and marks the block
// dirty.
func (c *Cache) Write(addr uint64, value uint64) {
	c.stats.Writes++

	block := c.access(addr)
	offset := c.config.Offset(addr)

	binary.LittleEndian.PutUint64(block.Data[offset:offset+8], value)
	block.State = StateDirty
}

// access resolves addr to a resident block. A clean victim is dropped
// without writeback; a dirty victim is written back to the address its
// own tag names before the refill.
func (c *Cache) access(addr uint64) *Block {
	set := c.config.SetIndex(addr)
	tag := c.config.Tag(addr)
	block := &c.sets[set]

	switch block.State {
	case StateInvalid:
		c.miss(set, tag, addr)
		c.fill(block, set, addr)
	case StateClean:
		if block.Tag != tag {
			c.miss(set, tag, addr)
			c.fill(block, set, addr)
			return block
		}
		c.hit(set, tag, addr)
	case StateDirty:
		if block.Tag != tag {
			c.miss(set, tag, addr)
			c.writeback(block, set)
			c.fill(block, set, addr)
			return block
		}
		c.hit(set, tag, addr)
	default:
		panic(fmt.Sprintf("cache: set %d in unknown state %v", set, block.State))
	}

	return block
}

func (c *Cache) hit(set, tag, addr uint64) {
	c.stats.Hits++
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosHit,
		Item:   Event{Set: set, Tag: tag, Addr: addr},
	})
}

func (c *Cache) miss(set, tag, addr uint64) {
	c.stats.Misses++
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosMiss,
		Item:   Event{Set: set, Tag: tag, Addr: addr},
	})
}

// fill copies the block containing addr from the backing store.
func (c *Cache) fill(block *Block, set, addr uint64) {
	base := addr &^ uint64(c.config.BlockSize-1)

	for i := range block.Data {
		block.Data[i] = c.backing.Read8(base + uint64(i))
	}
	block.Tag = c.config.Tag(addr)
	block.State = StateClean

	c.stats.Fills++
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosFill,
		Item:   Event{Set: set, Tag: block.Tag, Addr: base},
	})
}

// writeback copies block to the backing store at the address rebuilt from
// its stored tag and set index.
func (c *Cache) writeback(block *Block, set uint64) {
	base := c.config.BlockAddr(block.Tag, set)

	for i, b := range block.Data {
		c.backing.Write8(base+uint64(i), b)
	}
	block.State = StateClean

	c.stats.Writebacks++
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosWriteback,
		Item:   Event{Set: set, Tag: block.Tag, Addr: base},
	})
}

// Flush writes back every dirty block. Blocks stay resident as Clean.
func (c *Cache) Flush() {
	for i := range c.sets {
		if c.sets[i].State == StateDirty {
			c.writeback(&c.sets[i], uint64(i))
		}
	}
}

// Invalidate drops the block holding addr, if resident, without writeback.
// Other addresses mapping to the same set are not affected.
func (c *Cache) Invalidate(addr uint64) {
	set := c.config.SetIndex(addr)
	block := &c.sets[set]

	if block.State == StateInvalid || block.Tag != c.config.Tag(addr) {
		return
	}

	clear(block.Data)
	block.Tag = 0
	block.State = StateInvalid
}

// Reset invalidates all blocks without writeback and clears statistics.
func (c *Cache) Reset() {
	for i := range c.sets {
		block := &c.sets[i]
		clear(block.Data)
		block.Tag = 0
		block.State = StateInvalid
	}
	c.stats = Statistics{}
}
