package commands

import (
	"io"

	"github.com/udisondev/encounterctl/internal/command"
	"github.com/udisondev/encounterctl/internal/game"
)

// RegisterAll registers the plugin command and the host harness commands
// into the handler. Harness output goes to out.
func RegisterAll(h *command.Handler, session *game.Session, out io.Writer) {
	// Plugin command
	h.Register(NewEncounterControl(session.Encounter))

	// Harness commands
	h.Register(&Step{session: session})
	h.Register(&Event{session: session})
	h.Register(&Terrain{session: session})
	h.Register(&Progress{session: session, out: out})
	h.Register(&Save{session: session})
	h.Register(&Load{session: session})
	h.Register(&Var{session: session, out: out})
	h.Register(&Status{session: session, out: out})
	h.Register(&Update{session: session, out: out})
}
