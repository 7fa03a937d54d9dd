package cache

import "fmt"

// State is the lifecycle state of a cache block.
type State uint8

// Block states. A block is Invalid until first filled, Clean while it
// matches the backing store and Dirty once written.
const (
	StateInvalid State = iota
	StateClean
	StateDirty
)

func (s State) String() string {
	switch s {
	case StateInvalid:
		return "INVALID"
	case StateClean:
		return "CLEAN"
	case StateDirty:
		return "DIRTY"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Block is one cache line together with its tag and state.
type Block struct {
	Data  []byte
	Tag   uint64
	State State
}
