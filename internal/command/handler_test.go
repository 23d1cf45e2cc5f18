package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCmd is a test plugin command.
type mockCmd struct {
	names       []string
	err         error
	handleCalls int
	lastArgs    []string
}

func (c *mockCmd) Names() []string { return c.names }
func (c *mockCmd) Handle(_ context.Context, args []string) error {
	c.handleCalls++
	c.lastArgs = args
	return c.err
}

func TestHandler_RegisterAndCount(t *testing.T) {
	h := NewHandler()
	assert.Equal(t, 0, h.CommandCount())

	h.Register(&mockCmd{names: []string{"Foo", "FooAlias"}})
	assert.Equal(t, 2, h.CommandCount(), "two aliases")
}

func TestHandler_Dispatch(t *testing.T) {
	h := NewHandler()
	cmd := &mockCmd{names: []string{"EncounterControl"}}
	h.Register(cmd)

	ok, err := h.Dispatch(context.Background(), "  EncounterControl   set 2.0 100 ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, cmd.handleCalls)
	assert.Equal(t, []string{"EncounterControl", "set", "2.0", "100"}, cmd.lastArgs)
}

func TestHandler_Dispatch_NameIsCaseSensitive(t *testing.T) {
	h := NewHandler()
	cmd := &mockCmd{names: []string{"EncounterControl"}}
	h.Register(cmd)

	ok, err := h.Dispatch(context.Background(), "encountercontrol clear")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, cmd.handleCalls)
}

func TestHandler_Dispatch_UnknownAndEmpty(t *testing.T) {
	h := NewHandler()

	for _, line := range []string{"", "   ", "OtherPlugin do things"} {
		ok, err := h.Dispatch(context.Background(), line)
		assert.NoError(t, err, "line %q", line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestHandler_Dispatch_ErrorSurfaces(t *testing.T) {
	h := NewHandler()
	sentinel := errors.New("boom")
	h.Register(&mockCmd{names: []string{"Broken"}, err: sentinel})

	ok, err := h.Dispatch(context.Background(), "Broken now")
	assert.True(t, ok)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "Broken")
}
