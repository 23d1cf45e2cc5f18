package save

import (
	"context"
	"sync"
)

// MemoryStore keeps save slots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[int]*Contents
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[int]*Contents{}}
}

func (s *MemoryStore) Save(_ context.Context, slot int, c *Contents) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = c.Clone()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, slot int) (*Contents, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.slots[slot]
	if !ok {
		return nil, false, nil
	}
	return c.Clone(), true, nil
}
