package save

import "context"

// Store keeps save slots. Load returns ok=false when the slot was never
// written.
type Store interface {
	Save(ctx context.Context, slot int, c *Contents) error
	Load(ctx context.Context, slot int) (*Contents, bool, error)
}
