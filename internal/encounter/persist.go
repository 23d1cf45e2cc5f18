package encounter

import (
	"encoding/json"
	"fmt"

	"github.com/udisondev/encounterctl/internal/save"
)

// SectionKey is the fixed key of the controller's section in save data.
const SectionKey = "encounterControl"

// SectionVersion is written into every exported section.
const SectionVersion = "1.0.0"

// section is the persisted layout. CallbackCommonEventID is null when
// no callback is configured.
type section struct {
	Version               string   `json:"version"`
	Rate                  *float64 `json:"rate"`
	RemainStep            *int     `json:"remainStep"`
	CallbackCommonEventID *int     `json:"callbackCommonEventId"`

	hundredths int64
}

// ExportState writes the controller's section into contents when
// RemainAcrossSaveLoad is enabled. Otherwise contents is left untouched.
func (c *Controller) ExportState(contents *save.Contents) error {
	if !c.cfg.RemainAcrossSaveLoad {
		return nil
	}

	st := c.Snapshot()
	sec := section{
		Version:    SectionVersion,
		Rate:       &st.Rate,
		RemainStep: &st.RemainingSteps,
	}
	if st.OnExpireEventID != 0 {
		sec.CallbackCommonEventID = &st.OnExpireEventID
	}

	if err := contents.PutSection(SectionKey, sec); err != nil {
		return fmt.Errorf("exporting encounter state: %w", err)
	}

	c.trace("encounter control exported",
		"rate", st.Rate,
		"steps", st.RemainingSteps,
		"callback", st.OnExpireEventID)
	return nil
}

// ImportState resets the controller, then restores its section from
// contents when RemainAcrossSaveLoad is enabled. A corrupt section is
// logged and leaves the defaults in place; it never fails the load.
func (c *Controller) ImportState(contents *save.Contents) {
	c.mu.Lock()
	c.resetLocked()
	if !c.cfg.RemainAcrossSaveLoad || contents == nil {
		c.mu.Unlock()
		return
	}

	raw, ok := contents.Section(SectionKey)
	if !ok {
		c.mu.Unlock()
		return
	}

	sec, err := decodeSection(raw)
	if err != nil {
		c.mu.Unlock()
		c.log.Error("encounter state not restored, using defaults", "error", err)
		return
	}

	callback := 0
	if sec.CallbackCommonEventID != nil {
		callback = *sec.CallbackCommonEventID
	}
	c.applyLocked(sec.hundredths, *sec.RemainStep, callback)
	st := c.snapshotLocked()
	c.mu.Unlock()

	c.trace("encounter control imported",
		"version", sec.Version,
		"rate", st.Rate,
		"steps", st.RemainingSteps,
		"callback", st.OnExpireEventID)
}

func decodeSection(raw json.RawMessage) (section, error) {
	var sec section
	if err := json.Unmarshal(raw, &sec); err != nil {
		return section{}, fmt.Errorf("%w: %v", ErrPersistenceCorruption, err)
	}
	if sec.Rate == nil {
		return section{}, fmt.Errorf("%w: missing rate", ErrPersistenceCorruption)
	}
	if sec.RemainStep == nil {
		return section{}, fmt.Errorf("%w: missing remainStep", ErrPersistenceCorruption)
	}
	h, err := toHundredths(*sec.Rate)
	if err != nil {
		return section{}, fmt.Errorf("%w: %w", ErrPersistenceCorruption, err)
	}
	sec.hundredths = h
	return sec, nil
}
