package testutil

import (
	"context"
	"testing"
	"time"
)

// DBTimeout bounds a single database test.
const DBTimeout = 30 * time.Second

// ContextWithTimeout returns a context that times out after d and is
// canceled when the test ends.
func ContextWithTimeout(tb testing.TB, d time.Duration) context.Context {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	tb.Cleanup(cancel)

	return ctx
}
