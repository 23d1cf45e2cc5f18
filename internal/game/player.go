package game

import (
	"sync"

	"github.com/udisondev/encounterctl/internal/encounter"
)

// Host-side multipliers applied before the encounter correction.
const (
	bushProgressFactor          = 0.5
	encounterHalfProgressFactor = 0.5
)

// Player is the host's step counter and encounter-progress calculator.
// It calls the encounter controller directly as a named collaborator.
type Player struct {
	mu sync.Mutex

	ctrl   *encounter.Controller
	interp *Interpreter

	steps         int
	inBush        bool
	encounterHalf bool
}

// NewPlayer wires a player to the controller and the interpreter whose
// running state suppresses step counting.
func NewPlayer(ctrl *encounter.Controller, interp *Interpreter) *Player {
	return &Player{ctrl: ctrl, interp: interp}
}

// UpdateNonmoving runs once the player stops after a move. A finished
// move counts as a real step for the encounter controller unless a
// scripted sequence is running.
func (p *Player) UpdateNonmoving(wasMoving bool) {
	if !wasMoving {
		return
	}

	p.mu.Lock()
	p.steps++
	p.mu.Unlock()

	if p.interp.IsRunning() {
		return
	}
	if p.ctrl.IsEnabled() {
		p.ctrl.OnStepTaken()
	}
}

// EncounterProgressValue returns how far one step advances the
// encounter countdown: the host's own modifiers, then the controller's
// correction.
func (p *Player) EncounterProgressValue() float64 {
	p.mu.Lock()
	value := 1.0
	if p.inBush {
		value *= bushProgressFactor
	}
	if p.encounterHalf {
		value *= encounterHalfProgressFactor
	}
	p.mu.Unlock()

	return p.ctrl.CorrectEncounterProgress(value)
}

// Steps returns the number of steps walked, scripted or not.
func (p *Player) Steps() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.steps
}

// SetSteps restores the step counter from save data.
func (p *Player) SetSteps(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = n
}

// SetInBush toggles the bush terrain modifier.
func (p *Player) SetInBush(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inBush = v
}

// SetEncounterHalf toggles the party's encounter-half ability.
func (p *Player) SetEncounterHalf(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.encounterHalf = v
}
