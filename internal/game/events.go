package game

import (
	"log/slog"
	"slices"
	"sync"
)

// CommonEvents models the common event table: its size and the queue of
// events reserved to run on the next map update.
type CommonEvents struct {
	mu       sync.Mutex
	count    int
	reserved []int
}

// NewCommonEvents creates a table of count entries (index 0 unused).
func NewCommonEvents(count int) *CommonEvents {
	return &CommonEvents{count: count}
}

// CommonEventCount returns the table length.
func (e *CommonEvents) CommonEventCount() int {
	return e.count
}

// ReserveCommonEvent queues id. Fire-and-forget.
func (e *CommonEvents) ReserveCommonEvent(id int) {
	e.mu.Lock()
	e.reserved = append(e.reserved, id)
	e.mu.Unlock()

	slog.Debug("common event reserved", "id", id)
}

// Reserved returns a copy of the pending queue.
func (e *CommonEvents) Reserved() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.reserved)
}

// Drain returns and clears the pending queue.
func (e *CommonEvents) Drain() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.reserved
	e.reserved = nil
	return out
}
