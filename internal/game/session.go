package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/encounterctl/internal/config"
	"github.com/udisondev/encounterctl/internal/encounter"
	"github.com/udisondev/encounterctl/internal/save"
)

// Section keys owned by the host itself.
const (
	VariablesSectionKey = "variables"
	PlayerSectionKey    = "player"
)

// ErrSaveNotFound is returned when loading a slot that was never saved.
var ErrSaveNotFound = errors.New("save slot not found")

// Session owns one running game: host collaborators, the encounter
// controller and the save store.
type Session struct {
	Variables   *Variables
	Events      *CommonEvents
	Interpreter *Interpreter
	Encounter   *encounter.Controller
	Player      *Player

	store save.Store
}

// NewSession builds a session from host config.
func NewSession(cfg config.Host, store save.Store, log *slog.Logger) *Session {
	vars := NewVariables(cfg.VariableCount)
	events := NewCommonEvents(cfg.CommonEventCount)
	interp := &Interpreter{}

	ctrl := encounter.New(cfg.Plugin, encounter.Deps{
		Events:    events,
		Table:     events,
		Variables: vars,
		Logger:    log,
	})

	return &Session{
		Variables:   vars,
		Events:      events,
		Interpreter: interp,
		Encounter:   ctrl,
		Player:      NewPlayer(ctrl, interp),
		store:       store,
	}
}

type playerSection struct {
	Steps int `json:"steps"`
}

// Save writes the session into slot.
func (s *Session) Save(ctx context.Context, slot int) error {
	contents := save.NewContents()

	if err := contents.PutSection(VariablesSectionKey, s.Variables.snapshot()); err != nil {
		return err
	}
	if err := contents.PutSection(PlayerSectionKey, playerSection{Steps: s.Player.Steps()}); err != nil {
		return err
	}
	if err := s.Encounter.ExportState(contents); err != nil {
		return err
	}

	if err := s.store.Save(ctx, slot, contents); err != nil {
		return fmt.Errorf("saving slot %d: %w", slot, err)
	}
	slog.Info("game saved", "slot", slot, "sections", contents.Keys())
	return nil
}

// Load restores the session from slot. Pending common events are
// dropped; they belong to the session being replaced.
func (s *Session) Load(ctx context.Context, slot int) error {
	contents, ok, err := s.store.Load(ctx, slot)
	if err != nil {
		return fmt.Errorf("loading slot %d: %w", slot, err)
	}
	if !ok {
		return fmt.Errorf("slot %d: %w", slot, ErrSaveNotFound)
	}

	// Decode everything before touching state so a bad section leaves the
	// running session as it was.
	var values []int
	raw, hasVars := contents.Section(VariablesSectionKey)
	if hasVars {
		if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("decoding variables of slot %d: %w", slot, err)
		}
	}
	var ps playerSection
	raw, hasPlayer := contents.Section(PlayerSectionKey)
	if hasPlayer {
		if err := json.Unmarshal(raw, &ps); err != nil {
			return fmt.Errorf("decoding player of slot %d: %w", slot, err)
		}
	}

	if hasVars {
		s.Variables.restore(values)
	}
	if hasPlayer {
		s.Player.SetSteps(ps.Steps)
	}
	s.Events.Drain()
	s.Encounter.ImportState(contents)

	slog.Info("game loaded", "slot", slot, "sections", contents.Keys())
	return nil
}
