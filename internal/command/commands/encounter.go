package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/udisondev/encounterctl/internal/encounter"
)

// EncounterController is the part of the encounter controller the
// EncounterControl command drives.
type EncounterController interface {
	Set(rate float64, steps int, callbackID int) error
	Get(target encounter.Target, slot int) error
	Clear()
}

// EncounterControl handles
//
//	EncounterControl set <rate> <steps> [callbackEventId]
//	EncounterControl get <rate|remainstep|callback> <variableSlot>
//	EncounterControl clear
type EncounterControl struct {
	ctrl EncounterController
}

func NewEncounterControl(ctrl EncounterController) *EncounterControl {
	return &EncounterControl{ctrl: ctrl}
}

func (c *EncounterControl) Names() []string { return []string{"EncounterControl"} }

func (c *EncounterControl) Handle(_ context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: EncounterControl set|get|clear: %w", encounter.ErrInvalidArgument)
	}

	switch args[1] {
	case "set":
		return c.set(args[2:])
	case "get":
		return c.get(args[2:])
	case "clear":
		c.ctrl.Clear()
		return nil
	default:
		return fmt.Errorf("unknown subcommand %q: %w", args[1], encounter.ErrInvalidArgument)
	}
}

func (c *EncounterControl) set(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: EncounterControl set <rate> <steps> [callbackEventId]: %w", encounter.ErrInvalidArgument)
	}

	rate, err := parseRate(args[0])
	if err != nil {
		return err
	}
	steps, err := parseSteps(args[1])
	if err != nil {
		return err
	}

	callback := 0
	if len(args) > 2 {
		callback, err = parseInt("callbackEventId", args[2])
		if err != nil {
			return err
		}
	}

	return c.ctrl.Set(rate, steps, callback)
}

func (c *EncounterControl) get(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: EncounterControl get <rate|remainstep|callback> <variableSlot>: %w", encounter.ErrInvalidArgument)
	}

	target, err := encounter.ParseTarget(args[0])
	if err != nil {
		return err
	}
	slot, err := parseInt("variableSlot", args[1])
	if err != nil {
		return err
	}

	return c.ctrl.Get(target, slot)
}

func parseRate(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid rate %q: %w", s, encounter.ErrInvalidArgument)
	}
	return v, nil
}

// parseSteps accepts an integer or a decimal, which is floored. Both
// must fit in 32 bits.
func parseSteps(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err == nil {
		return int(n), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("steps %q out of range: %w", s, encounter.ErrInvalidArgument)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("invalid steps %q: %w", s, encounter.ErrInvalidArgument)
	}
	return int(math.Floor(v)), nil
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, encounter.ErrInvalidArgument)
	}
	return n, nil
}
