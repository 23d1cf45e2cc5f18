package game

import "sync/atomic"

// Interpreter tracks whether a scripted sequence is currently running on
// the map. Steps taken while it runs are not real movement steps.
type Interpreter struct {
	depth atomic.Int32
}

// Begin marks the start of a scripted sequence. Calls nest.
func (i *Interpreter) Begin() {
	i.depth.Add(1)
}

// End marks the end of a scripted sequence. Extra calls are ignored.
func (i *Interpreter) End() {
	for {
		d := i.depth.Load()
		if d == 0 {
			return
		}
		if i.depth.CompareAndSwap(d, d-1) {
			return
		}
	}
}

// IsRunning reports whether any scripted sequence is active.
func (i *Interpreter) IsRunning() bool {
	return i.depth.Load() > 0
}
