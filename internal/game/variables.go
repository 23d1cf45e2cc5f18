package game

import (
	"slices"
	"sync"
)

// Variables is the host's integer variable table. Slot 0 is reserved;
// scripts address slots [1, Size()-1].
type Variables struct {
	mu     sync.RWMutex
	values []int
}

// NewVariables creates a table of the given size (including slot 0).
func NewVariables(size int) *Variables {
	if size < 1 {
		size = 1
	}
	return &Variables{values: make([]int, size)}
}

// Size returns the table length.
func (v *Variables) Size() int {
	return len(v.values)
}

// Value returns the value at slot, or 0 for an invalid slot.
func (v *Variables) Value(slot int) int {
	if !v.valid(slot) {
		return 0
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.values[slot]
}

// SetValue stores value at slot. Writes to invalid slots are ignored.
func (v *Variables) SetValue(slot int, value int) {
	if !v.valid(slot) {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[slot] = value
}

func (v *Variables) valid(slot int) bool {
	return slot > 0 && slot < len(v.values)
}

func (v *Variables) snapshot() []int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.values)
}

// restore copies saved values in; a save from a larger table is cut to
// this table's size.
func (v *Variables) restore(values []int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	clear(v.values)
	copy(v.values, values)
}
