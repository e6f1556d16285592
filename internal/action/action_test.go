package action

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func boolp(v bool) *bool { return &v }

func TestDescribe(t *testing.T) {
	assert.Equal(t, "click", Action{Type: KindClick}.Describe())
	assert.Equal(t, "Click the submit button",
		Action{Type: KindClick, Description: "Click the submit button"}.Describe())
}

func TestScrollDelta(t *testing.T) {
	tests := []struct {
		name string
		act  Action
		want int
	}{
		{"defaults to 500 down", Action{Type: KindScroll}, 500},
		{"up negates", Action{Type: KindScroll, Direction: "up"}, -500},
		{"up is case-insensitive", Action{Type: KindScroll, Direction: "UP", Amount: intp(120)}, -120},
		{"explicit down", Action{Type: KindScroll, Direction: "down", Amount: intp(42)}, 42},
		{"unknown direction scrolls down", Action{Type: KindScroll, Direction: "sideways"}, 500},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.act.ScrollDelta())
		})
	}
}

func TestWaitDuration(t *testing.T) {
	assert.Equal(t, time.Second, Action{Type: KindWait}.WaitDuration())
	assert.Equal(t, 500*time.Millisecond, Action{Type: KindWait, Seconds: floatp(0.5)}.WaitDuration())
	assert.Equal(t, 2500*time.Millisecond, Action{Type: KindWait, Seconds: floatp(2.5)}.WaitDuration())
}

func TestCollectAll(t *testing.T) {
	assert.True(t, Action{Type: KindExtract}.CollectAll())
	assert.True(t, Action{Type: KindExtract, All: boolp(true)}.CollectAll())
	assert.False(t, Action{Type: KindExtract, All: boolp(false)}.CollectAll())
}

func TestDecodeWireFormat(t *testing.T) {
	data := []byte(`[
  {"type": "open_url", "url": "https://example.com"},
  {"type": "click", "selector": "button.submit", "description": "Click the submit button"},
  {"type": "type", "selector": "#q", "text": "hello"},
  {"type": "keypress", "key": "enter"},
  {"type": "scroll", "direction": "up", "amount": 250},
  {"type": "wait", "seconds": 0.5},
  {"type": "extract", "selector": ".item", "all": true}
]`)

	actions, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, actions, 7)

	assert.Equal(t, KindOpenURL, actions[0].Type)
	assert.Equal(t, "https://example.com", actions[0].URL)
	assert.Equal(t, "Click the submit button", actions[1].Description)
	assert.Equal(t, "hello", actions[2].Text)
	assert.Equal(t, "enter", actions[3].Key)
	require.NotNil(t, actions[4].Amount)
	assert.Equal(t, 250, *actions[4].Amount)
	require.NotNil(t, actions[5].Seconds)
	assert.Equal(t, 0.5, *actions[5].Seconds)
	require.NotNil(t, actions[6].All)
	assert.True(t, *actions[6].All)
}

func TestDecodeRejectsMalformedScenario(t *testing.T) {
	_, err := Decode([]byte(`{"type": "click"}`))
	assert.Error(t, err)
}

// A scenario must survive a save/load cycle field-for-field, so a reloaded
// scenario dispatches identically.
func TestSaveLoadRoundTrip(t *testing.T) {
	actions := []Action{
		{Type: KindOpenURL, URL: "https://example.com", Description: "Open the home page"},
		{Type: KindClick, Selector: "button.submit"},
		{Type: KindType, Selector: "#q", Text: "hello world"},
		{Type: KindKeyPress, Key: "enter"},
		{Type: KindScroll, Direction: "up", Amount: intp(250)},
		{Type: KindWait, Seconds: floatp(1.5)},
		{Type: KindExtract, Selector: ".item", All: boolp(false)},
		{Type: KindScroll}, // all defaults absent, must stay absent
	}

	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, Save(path, actions))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, actions, loaded)
}

func TestSaveOmitsAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, Save(path, []Action{{Type: KindScroll}}))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Nil(t, loaded[0].Amount)
	assert.Nil(t, loaded[0].Seconds)
	assert.Nil(t, loaded[0].All)
	assert.Empty(t, loaded[0].Direction)
}

func TestMarshalUsesWireFieldNames(t *testing.T) {
	data, err := json.Marshal(Action{Type: KindOpenURL, URL: "https://x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "open_url", "url": "https://x"}`, string(data))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
