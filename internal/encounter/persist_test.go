package encounter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/encounterctl/internal/config"
	"github.com/udisondev/encounterctl/internal/save"
)

var persistOn = config.Plugin{RemainAcrossSaveLoad: true}

func TestExportImport_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		rate           float64
		steps          int
		callback       int
		wantCallbackOK bool
	}{
		{"finite with callback", 2.0, 100, 1, true},
		{"infinite zero rate", 0, InfiniteSteps, 0, false},
		{"fractional rate", 0.29, 7, 20, true},
		{"inactive", 1.0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := newFixture(t, persistOn)
			require.NoError(t, src.ctrl.Set(tt.rate, tt.steps, tt.callback))

			contents := save.NewContents()
			require.NoError(t, src.ctrl.ExportState(contents))
			require.True(t, contents.HasSection(SectionKey))

			dst := newFixture(t, persistOn)
			dst.ctrl.ImportState(contents)

			assert.Equal(t, src.ctrl.Snapshot(), dst.ctrl.Snapshot())
			_, ok := dst.ctrl.OnExpireEventID()
			assert.Equal(t, tt.wantCallbackOK, ok)
		})
	}
}

func TestExportState_Layout(t *testing.T) {
	t.Parallel()
	f := newFixture(t, persistOn)

	require.NoError(t, f.ctrl.Set(2.0, 100, 1))
	contents := save.NewContents()
	require.NoError(t, f.ctrl.ExportState(contents))

	raw, ok := contents.Section(SectionKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"version":"1.0.0","rate":2,"remainStep":100,"callbackCommonEventId":1}`, string(raw))

	f.ctrl.Clear()
	require.NoError(t, f.ctrl.ExportState(contents))
	raw, _ = contents.Section(SectionKey)
	assert.JSONEq(t, `{"version":"1.0.0","rate":1,"remainStep":0,"callbackCommonEventId":null}`, string(raw))
}

func TestExportState_KeepsOtherSections(t *testing.T) {
	t.Parallel()
	f := newFixture(t, persistOn)

	contents := save.NewContents()
	require.NoError(t, contents.PutSection("party", []string{"Harold"}))

	require.NoError(t, f.ctrl.ExportState(contents))
	assert.Equal(t, []string{SectionKey, "party"}, contents.Keys())
}

func TestExportState_DisabledWritesNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t, config.Plugin{})
	require.NoError(t, f.ctrl.Set(2.0, 100, 1))

	contents := save.NewContents()
	require.NoError(t, f.ctrl.ExportState(contents))
	assert.Equal(t, 0, contents.Len())
}

func TestImportState_DisabledAlwaysDefaults(t *testing.T) {
	t.Parallel()

	contents := save.NewContents()
	contents.PutRaw(SectionKey, json.RawMessage(`{"version":"1.0.0","rate":3,"remainStep":9,"callbackCommonEventId":2}`))

	f := newFixture(t, config.Plugin{})
	require.NoError(t, f.ctrl.Set(0.5, 40, 0))

	f.ctrl.ImportState(contents)
	assert.Equal(t, DefaultState(), f.ctrl.Snapshot())
}

func TestImportState_ResetsStaleState(t *testing.T) {
	t.Parallel()
	f := newFixture(t, persistOn)
	require.NoError(t, f.ctrl.Set(0.5, 40, 3))

	f.ctrl.ImportState(save.NewContents())
	assert.Equal(t, DefaultState(), f.ctrl.Snapshot())

	require.NoError(t, f.ctrl.Set(0.5, 40, 3))
	f.ctrl.ImportState(nil)
	assert.Equal(t, DefaultState(), f.ctrl.Snapshot())
}

func TestImportState_CorruptSectionFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"not an object", `"hello"`},
		{"null", `null`},
		{"missing rate", `{"version":"1.0.0","remainStep":5}`},
		{"missing steps", `{"version":"1.0.0","rate":2}`},
		{"rate wrong type", `{"rate":"fast","remainStep":5}`},
		{"steps fractional", `{"rate":2,"remainStep":1.5}`},
		{"callback wrong type", `{"rate":2,"remainStep":5,"callbackCommonEventId":"one"}`},
		{"truncated", `{"rate":2,`},
		{"rate beyond bound", `{"rate":1e300,"remainStep":5}`},
		{"rate below bound", `{"rate":-1e300,"remainStep":5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, persistOn)
			require.NoError(t, f.ctrl.Set(3, 10, 1))

			contents := save.NewContents()
			contents.PutRaw(SectionKey, json.RawMessage(tt.raw))

			assert.NotPanics(t, func() { f.ctrl.ImportState(contents) })
			assert.Equal(t, DefaultState(), f.ctrl.Snapshot())
			assert.Contains(t, f.logs.String(), "level=ERROR")
		})
	}
}

func TestImportState_RevalidatesCallback(t *testing.T) {
	t.Parallel()

	contents := save.NewContents()
	contents.PutRaw(SectionKey, json.RawMessage(`{"version":"1.0.0","rate":1.5,"remainStep":12,"callbackCommonEventId":50}`))

	f := newFixture(t, persistOn)
	f.ctrl.ImportState(contents)

	assert.Equal(t, State{Rate: 1.5, RemainingSteps: 12}, f.ctrl.Snapshot())
	assert.Contains(t, f.logs.String(), "level=WARN")
}

func TestImportState_UnknownFieldsAndVersionTolerated(t *testing.T) {
	t.Parallel()

	contents := save.NewContents()
	contents.PutRaw(SectionKey, json.RawMessage(`{"version":"0.3.0","rate":0.999,"remainStep":-1,"extra":true}`))

	f := newFixture(t, persistOn)
	f.ctrl.ImportState(contents)

	assert.Equal(t, State{Rate: 0.99, RemainingSteps: -1}, f.ctrl.Snapshot())
}

func TestDecodeSection(t *testing.T) {
	t.Parallel()

	_, err := decodeSection(json.RawMessage(`{"rate":1}`))
	assert.ErrorIs(t, err, ErrPersistenceCorruption)

	sec, err := decodeSection(json.RawMessage(`{"rate":1,"remainStep":3}`))
	require.NoError(t, err)
	assert.Equal(t, 1.0, *sec.Rate)
	assert.Equal(t, 3, *sec.RemainStep)
	assert.Nil(t, sec.CallbackCommonEventID)
	assert.Equal(t, int64(100), sec.hundredths)

	_, err = decodeSection(json.RawMessage(`{"rate":1e17,"remainStep":3}`))
	assert.ErrorIs(t, err, ErrPersistenceCorruption)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExportImport_LargestRate(t *testing.T) {
	t.Parallel()

	src := newFixture(t, persistOn)
	require.NoError(t, src.ctrl.Set(MaxRateHundredths/100, 5, 0))

	contents := save.NewContents()
	require.NoError(t, src.ctrl.ExportState(contents))

	dst := newFixture(t, persistOn)
	dst.ctrl.ImportState(contents)
	assert.Equal(t, src.ctrl.RateHundredths(), dst.ctrl.RateHundredths())
	assert.Equal(t, 5, dst.ctrl.RemainingSteps())
}
