package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/udisondev/encounterctl/internal/game"
)

// maxStepsPerCommand bounds one Step command.
const maxStepsPerCommand = 1_000_000

// Step handles Step [n]: the player finishes n moves.
type Step struct {
	session *game.Session
}

func (c *Step) Names() []string { return []string{"Step"} }

func (c *Step) Handle(ctx context.Context, args []string) error {
	n := 1
	if len(args) > 1 {
		v, err := parseInt("count", args[1])
		if err != nil {
			return err
		}
		if v < 0 || v > maxStepsPerCommand {
			return fmt.Errorf("count must be between 0 and %d, got %d", maxStepsPerCommand, v)
		}
		n = v
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.session.Player.UpdateNonmoving(true)
	}
	return nil
}

// Event handles Event begin|end: marks a scripted sequence as running.
type Event struct {
	session *game.Session
}

func (c *Event) Names() []string { return []string{"Event"} }

func (c *Event) Handle(_ context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: Event begin|end")
	}
	switch args[1] {
	case "begin":
		c.session.Interpreter.Begin()
	case "end":
		c.session.Interpreter.End()
	default:
		return fmt.Errorf("usage: Event begin|end")
	}
	return nil
}

// Terrain handles Terrain bush|half on|off: host-side progress modifiers.
type Terrain struct {
	session *game.Session
}

func (c *Terrain) Names() []string { return []string{"Terrain"} }

func (c *Terrain) Handle(_ context.Context, args []string) error {
	if len(args) < 3 || (args[2] != "on" && args[2] != "off") {
		return fmt.Errorf("usage: Terrain bush|half on|off")
	}
	on := args[2] == "on"
	switch args[1] {
	case "bush":
		c.session.Player.SetInBush(on)
	case "half":
		c.session.Player.SetEncounterHalf(on)
	default:
		return fmt.Errorf("usage: Terrain bush|half on|off")
	}
	return nil
}

// Progress handles Progress: prints the encounter progress of one step.
type Progress struct {
	session *game.Session
	out     io.Writer
}

func (c *Progress) Names() []string { return []string{"Progress"} }

func (c *Progress) Handle(_ context.Context, _ []string) error {
	_, err := fmt.Fprintf(c.out, "progress %g\n", c.session.Player.EncounterProgressValue())
	return err
}

// Save handles Save <slot>.
type Save struct {
	session *game.Session
}

func (c *Save) Names() []string { return []string{"Save"} }

func (c *Save) Handle(ctx context.Context, args []string) error {
	slot, err := slotArg(args, "Save")
	if err != nil {
		return err
	}
	return c.session.Save(ctx, slot)
}

// Load handles Load <slot>.
type Load struct {
	session *game.Session
}

func (c *Load) Names() []string { return []string{"Load"} }

func (c *Load) Handle(ctx context.Context, args []string) error {
	slot, err := slotArg(args, "Load")
	if err != nil {
		return err
	}
	return c.session.Load(ctx, slot)
}

// Var handles Var <slot>: prints a variable.
type Var struct {
	session *game.Session
	out     io.Writer
}

func (c *Var) Names() []string { return []string{"Var"} }

func (c *Var) Handle(_ context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: Var <slot>")
	}
	slot, err := parseInt("slot", args[1])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "var[%d] = %d\n", slot, c.session.Variables.Value(slot))
	return err
}

// Status handles Status: prints the encounter controller state.
type Status struct {
	session *game.Session
	out     io.Writer
}

func (c *Status) Names() []string { return []string{"Status"} }

func (c *Status) Handle(_ context.Context, _ []string) error {
	st := c.session.Encounter.Snapshot()
	callback := "none"
	if st.OnExpireEventID != 0 {
		callback = fmt.Sprint(st.OnExpireEventID)
	}
	_, err := fmt.Fprintf(c.out, "enabled=%t rate=%.2f remain=%d callback=%s steps=%d\n",
		st.RemainingSteps != 0, st.Rate, st.RemainingSteps, callback, c.session.Player.Steps())
	return err
}

// Update handles Update, one host update. It starts every reserved
// common event.
type Update struct {
	session *game.Session
	out     io.Writer
}

func (c *Update) Names() []string { return []string{"Update"} }

func (c *Update) Handle(_ context.Context, _ []string) error {
	for _, id := range c.session.Events.Drain() {
		if _, err := fmt.Fprintf(c.out, "common event %d started\n", id); err != nil {
			return err
		}
	}
	return nil
}

func slotArg(args []string, name string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: %s <slot>", name)
	}
	return parseInt("slot", args[1])
}
