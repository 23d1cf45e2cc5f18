package encounter

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/udisondev/encounterctl/internal/config"
)

// DefaultRate is the multiplier of an inactive controller.
const DefaultRate = 1.0

// InfiniteSteps is the canonical duration of a correction that never
// expires by step count. Any negative value behaves the same.
const InfiniteSteps = -1

// MaxRateHundredths bounds the stored rate in either direction. Every
// integer up to it is exact in a float64, so Rate and RateHundredths
// always agree.
const MaxRateHundredths = 1 << 53

const defaultRateHundredths = 100

// floorTolerance absorbs binary representation error when flooring to
// hundredths, so 0.29 stays 0.29 instead of becoming 0.28.
const floorTolerance = 1e-9

// EventReserver queues a common event to run on the host's next update.
type EventReserver interface {
	ReserveCommonEvent(id int)
}

// EventTable reports the size of the common event table. Index 0 is
// unused, so valid ids are [1, CommonEventCount()-1].
type EventTable interface {
	CommonEventCount() int
}

// VariableStore is the host's integer variable table. Valid slots are
// [1, Size()-1].
type VariableStore interface {
	SetValue(slot int, value int)
	Size() int
}

// Deps bundles the collaborators a Controller talks to.
type Deps struct {
	Events    EventReserver
	Table     EventTable
	Variables VariableStore
	Logger    *slog.Logger
}

// State is a snapshot of the controller's fields.
type State struct {
	Rate           float64
	RemainingSteps int
	// OnExpireEventID is 0 when no callback is configured.
	OnExpireEventID int
}

// DefaultState returns the state of a freshly constructed controller.
func DefaultState() State {
	return State{Rate: DefaultRate}
}

// Controller scales the random-encounter progress for a number of player
// steps and reserves a common event when the effect runs out.
//
// Mutating operations are serialized. The expiry callback is reserved
// after the lock is released and the state already reset, so a reserver
// may call back into the controller.
type Controller struct {
	mu sync.Mutex

	cfg  config.Plugin
	deps Deps
	log  *slog.Logger

	rateHundredths  int64
	remainingSteps  int
	onExpireEventID int
}

// New creates a controller in its default (inactive) state.
func New(cfg config.Plugin, deps Deps) *Controller {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		cfg:  cfg,
		deps: deps,
		log:  log.With("component", "encounter"),

		rateHundredths: defaultRateHundredths,
	}
}

// Set replaces the current correction. rate is floored to hundredths
// and must stay within MaxRateHundredths; steps of 0 disables, negative
// means infinite. callbackID 0 means no callback; an id outside the
// common event table is discarded with a warning. The previous state is
// overwritten unconditionally.
func (c *Controller) Set(rate float64, steps int, callbackID int) error {
	hundredths, err := toHundredths(rate)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.applyLocked(hundredths, steps, callbackID)
	st := c.snapshotLocked()
	c.mu.Unlock()

	c.trace("encounter control set",
		"rate", st.Rate,
		"steps", st.RemainingSteps,
		"callback", st.OnExpireEventID)
	return nil
}

// Get writes the selected value into the variable store at slot. The
// rate is written in hundredths because the store holds integers.
func (c *Controller) Get(target Target, slot int) error {
	vars := c.deps.Variables
	if vars == nil || slot <= 0 || slot >= vars.Size() {
		size := 0
		if vars != nil {
			size = vars.Size()
		}
		return fmt.Errorf("variable slot %d outside [1, %d]: %w", slot, size-1, ErrOutOfRange)
	}

	c.mu.Lock()
	var value int
	switch target {
	case TargetRate:
		value = int(c.rateHundredths)
	case TargetRemainStep:
		value = c.remainingSteps
	case TargetCallback:
		value = c.onExpireEventID
	default:
		c.mu.Unlock()
		return fmt.Errorf("get target %s: %w", target, ErrInvalidArgument)
	}
	c.mu.Unlock()

	vars.SetValue(slot, value)
	c.trace("encounter control get", "target", target.String(), "slot", slot, "value", value)
	return nil
}

// Clear resets to defaults without firing the expiry callback.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()

	c.trace("encounter control clear")
}

// OnStepTaken counts one real player step. The host must not call it
// while a scripted sequence is running.
func (c *Controller) OnStepTaken() {
	c.mu.Lock()
	if c.remainingSteps <= 0 {
		c.mu.Unlock()
		return
	}

	c.remainingSteps--
	if c.remainingSteps != 0 {
		c.mu.Unlock()
		return
	}

	callback := c.onExpireEventID
	c.resetLocked()
	c.mu.Unlock()

	c.trace("encounter control expired", "callback", callback)
	if callback != 0 && c.deps.Events != nil {
		c.deps.Events.ReserveCommonEvent(callback)
	}
}

// CorrectEncounterProgress returns base scaled by the current rate, or
// base unchanged when the correction is inactive.
func (c *Controller) CorrectEncounterProgress(base float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remainingSteps == 0 {
		return base
	}
	return base * hundredthsToRate(c.rateHundredths)
}

// IsEnabled reports whether a correction is active.
func (c *Controller) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingSteps != 0
}

// Rate returns the current multiplier.
func (c *Controller) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return hundredthsToRate(c.rateHundredths)
}

// RateHundredths returns the current multiplier in hundredths, the value
// Get writes for TargetRate.
func (c *Controller) RateHundredths() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rateHundredths
}

// RemainingSteps returns the steps left; negative means infinite.
func (c *Controller) RemainingSteps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingSteps
}

// OnExpireEventID returns the expiry callback, if any.
func (c *Controller) OnExpireEventID() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onExpireEventID, c.onExpireEventID != 0
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	return State{
		Rate:            hundredthsToRate(c.rateHundredths),
		RemainingSteps:  c.remainingSteps,
		OnExpireEventID: c.onExpireEventID,
	}
}

func (c *Controller) applyLocked(hundredths int64, steps int, callbackID int) {
	c.rateHundredths = hundredths
	c.remainingSteps = steps
	c.onExpireEventID = c.validCallback(callbackID)
}

func (c *Controller) resetLocked() {
	c.rateHundredths = defaultRateHundredths
	c.remainingSteps = 0
	c.onExpireEventID = 0
}

// validCallback normalizes an out-of-range common event id to "none".
// Content edits must not make old saves or scripts unusable.
func (c *Controller) validCallback(id int) int {
	if id == 0 {
		return 0
	}
	n := 0
	if c.deps.Table != nil {
		n = c.deps.Table.CommonEventCount()
	}
	if id < 1 || id >= n {
		c.log.Warn("callback common event out of range, discarded",
			"id", id,
			"max", n-1)
		return 0
	}
	return id
}

func (c *Controller) trace(msg string, args ...any) {
	if c.cfg.ShowTrace {
		c.log.Info(msg, args...)
	}
}

// toHundredths floors rate to hundredths. Non-finite rates and rates
// beyond MaxRateHundredths are rejected.
func toHundredths(rate float64) (int64, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("rate %v is not a finite number: %w", rate, ErrInvalidArgument)
	}
	h := math.Floor(rate*100 + floorTolerance)
	if h > MaxRateHundredths || h < -MaxRateHundredths {
		return 0, fmt.Errorf("rate %v exceeds %d hundredths: %w", rate, int64(MaxRateHundredths), ErrInvalidArgument)
	}
	return int64(h), nil
}

func hundredthsToRate(h int64) float64 {
	return float64(h) / 100
}
