package save

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Contents is the persisted-state container of one save slot. Each
// plugin-like system owns a namespaced section keyed by a fixed
// identifier; sections are opaque JSON to everyone except their owner.
type Contents struct {
	sections map[string]json.RawMessage
}

// NewContents returns an empty container.
func NewContents() *Contents {
	return &Contents{sections: make(map[string]json.RawMessage, 4)}
}

// Section returns the raw section stored under key.
func (c *Contents) Section(key string) (json.RawMessage, bool) {
	raw, ok := c.sections[key]
	return raw, ok
}

// HasSection reports whether key has a section.
func (c *Contents) HasSection(key string) bool {
	_, ok := c.sections[key]
	return ok
}

// PutSection JSON-encodes v and stores it under key, replacing any
// previous section with that key.
func (c *Contents) PutSection(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding section %q: %w", key, err)
	}
	c.PutRaw(key, raw)
	return nil
}

// PutRaw stores an already encoded section.
func (c *Contents) PutRaw(key string, raw json.RawMessage) {
	if c.sections == nil {
		c.sections = make(map[string]json.RawMessage, 4)
	}
	c.sections[key] = slices.Clone(raw)
}

// DeleteSection removes key.
func (c *Contents) DeleteSection(key string) {
	delete(c.sections, key)
}

// Keys returns section keys in sorted order.
func (c *Contents) Keys() []string {
	return slices.Sorted(maps.Keys(c.sections))
}

// Len returns the number of sections.
func (c *Contents) Len() int {
	return len(c.sections)
}

// Clone returns a deep copy.
func (c *Contents) Clone() *Contents {
	out := NewContents()
	for k, v := range c.sections {
		out.sections[k] = slices.Clone(v)
	}
	return out
}

// MarshalJSON encodes the container as a JSON object of sections.
func (c *Contents) MarshalJSON() ([]byte, error) {
	if c.sections == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.sections)
}

// UnmarshalJSON decodes a JSON object of sections.
func (c *Contents) UnmarshalJSON(data []byte) error {
	sections := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &sections); err != nil {
		return fmt.Errorf("decoding save contents: %w", err)
	}
	c.sections = sections
	return nil
}
