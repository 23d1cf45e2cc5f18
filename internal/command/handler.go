package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Command is a plugin command invoked from event scripts.
// Each command registers one or more names.
type Command interface {
	// Handle executes the command. args includes command name at [0].
	Handle(ctx context.Context, args []string) error
	// Names returns all registered command names. Names are matched
	// case-sensitively.
	Names() []string
}

// Handler dispatches plugin commands by name.
// Thread-safe: commands are registered once at startup, then read-only.
type Handler struct {
	mu   sync.RWMutex
	cmds map[string]Command
}

// NewHandler creates an empty command handler.
func NewHandler() *Handler {
	return &Handler{cmds: make(map[string]Command, 16)}
}

// Register registers a command under all of its names.
func (h *Handler) Register(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, name := range cmd.Names() {
		h.cmds[name] = cmd
	}
}

// Dispatch runs one command line. It returns false when no command owns
// the line's first word; such lines belong to someone else and are not
// an error. A command error is returned so the calling script can halt.
func (h *Handler) Dispatch(ctx context.Context, text string) (bool, error) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return false, nil
	}

	h.mu.RLock()
	cmd, ok := h.cmds[parts[0]]
	h.mu.RUnlock()

	if !ok {
		return false, nil
	}

	slog.Debug("plugin command", "command", text)

	if err := cmd.Handle(ctx, parts); err != nil {
		slog.Error("plugin command failed",
			"command", text,
			"error", err)
		return true, fmt.Errorf("%s: %w", parts[0], err)
	}

	return true, nil
}

// CommandCount returns number of registered command names.
func (h *Handler) CommandCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.cmds)
}
