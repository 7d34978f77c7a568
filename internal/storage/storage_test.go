package storage

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/history"
	"github.com/studiowebux/mqttcmd/internal/types"
)

func newTestManager(t *testing.T) (*Manager, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, err := NewManager(filepath.Join(t.TempDir(), "nested", "mqttcmd.db"), logger)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m, &buf
}

func mustParse(t *testing.T, raw string) types.Document {
	t.Helper()
	doc, err := document.Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func ptr(s string) *string { return &s }

func TestRawConfig_Absent(t *testing.T) {
	m, _ := newTestManager(t)
	if _, ok := m.RawConfig(); ok {
		t.Error("expected no stored config in a fresh database")
	}
}

func TestRawConfig_RoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	doc := mustParse(t, `{"brokers":[{"title":"A","port":1883,"topics":["x"]}],"meta":{"v":1}}`)

	if err := m.SaveRawConfig(doc); err != nil {
		t.Fatalf("SaveRawConfig() error = %v", err)
	}
	got, ok := m.RawConfig()
	if !ok {
		t.Fatal("expected stored config")
	}
	if !document.Equal(got, doc) {
		t.Errorf("stored config changed:\n%s\n%s", document.Canonical(doc), document.Canonical(got))
	}

	// Overwritten wholesale
	other := mustParse(t, `{"brokers":[]}`)
	if err := m.SaveRawConfig(other); err != nil {
		t.Fatalf("SaveRawConfig() error = %v", err)
	}
	got, _ = m.RawConfig()
	if !document.Equal(got, other) {
		t.Errorf("expected overwrite, got %s", document.Canonical(got))
	}
}

func TestRawConfig_Malformed(t *testing.T) {
	m, logs := newTestManager(t)
	if err := m.set(KeyRawConfig, "{not json"); err != nil {
		t.Fatalf("set() error = %v", err)
	}

	if _, ok := m.RawConfig(); ok {
		t.Error("expected malformed config to be ignored")
	}
	if !strings.Contains(logs.String(), "malformed stored config") {
		t.Errorf("expected a warning, logs: %s", logs.String())
	}
}

func TestAppState_RoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	doc := mustParse(t, `{"brokers":[{"title":"A","host":"h"},{"title":"B"}]}`)
	last := doc.Clone()
	log := history.Record(nil, doc, time.Date(2025, 1, 2, 3, 4, 0, 0, time.Local))

	state := types.PersistedAppState{
		ConfigURL:           "https://example.com/c.json",
		LastURLConfig:       &last,
		History:             log,
		ActiveConfigName:    "A, B (02/01/2025 03:04)",
		LeftPanelWidth:      "40%",
		SelectedBrokerTitle: ptr("A"),
		SelectedTopics:      []string{"t/1", "t/2"},
	}
	if err := m.SaveAppState(state); err != nil {
		t.Fatalf("SaveAppState() error = %v", err)
	}

	restored, ok := m.LoadAppState(doc)
	if !ok {
		t.Fatal("expected stored app state")
	}
	if restored.ConfigURL != state.ConfigURL {
		t.Errorf("ConfigURL = %q", restored.ConfigURL)
	}
	if restored.LastURLConfig == nil || !document.Equal(*restored.LastURLConfig, last) {
		t.Error("LastURLConfig not restored")
	}
	if len(restored.History) != 1 || restored.History[0].Name != log[0].Name {
		t.Errorf("History = %+v", restored.History)
	}
	if restored.ActiveConfigName != state.ActiveConfigName {
		t.Errorf("ActiveConfigName = %q", restored.ActiveConfigName)
	}
	if restored.LeftPanelWidth != 40 {
		t.Errorf("LeftPanelWidth = %d, want 40", restored.LeftPanelWidth)
	}
	if restored.Broker == nil || restored.Broker.Host != "h" {
		t.Errorf("Broker = %+v", restored.Broker)
	}
	if strings.Join(restored.Topics, ",") != "t/1,t/2" {
		t.Errorf("Topics = %v", restored.Topics)
	}
}

func TestLoadAppState_DanglingBroker(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.SaveAppState(types.PersistedAppState{
		SelectedBrokerTitle: ptr("Gone"),
		SelectedTopics:      []string{"a"},
	})
	if err != nil {
		t.Fatalf("SaveAppState() error = %v", err)
	}

	restored, ok := m.LoadAppState(mustParse(t, `{"brokers":[{"title":"A"}]}`))
	if !ok {
		t.Fatal("expected stored app state")
	}
	if restored.Broker != nil {
		t.Errorf("expected no broker, got %+v", restored.Broker)
	}
	if len(restored.Topics) != 0 {
		t.Errorf("expected no topics, got %v", restored.Topics)
	}
}

func TestLoadAppState_Malformed(t *testing.T) {
	m, logs := newTestManager(t)
	if err := m.set(KeyAppState, `{"history":"oops"}`); err != nil {
		t.Fatalf("set() error = %v", err)
	}

	restored, ok := m.LoadAppState(types.Document{})
	if ok {
		t.Error("expected malformed app state to be ignored")
	}
	if restored.Broker != nil || restored.History != nil {
		t.Errorf("expected zero value, got %+v", restored)
	}
	if !strings.Contains(logs.String(), "malformed stored app state") {
		t.Errorf("expected a warning, logs: %s", logs.String())
	}
}

func TestSaveAppState_EmptyListsAsArrays(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.SaveAppState(types.PersistedAppState{}); err != nil {
		t.Fatalf("SaveAppState() error = %v", err)
	}

	value, ok := m.get(KeyAppState)
	if !ok {
		t.Fatal("expected stored record")
	}
	if !strings.Contains(value, `"history":[]`) || !strings.Contains(value, `"selectedTopics":[]`) {
		t.Errorf("expected empty arrays, got %s", value)
	}
	if !strings.Contains(value, `"lastUrlConfig":null`) || !strings.Contains(value, `"selectedBrokerTitle":null`) {
		t.Errorf("expected nulls, got %s", value)
	}
}

func TestClear(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.SaveRawConfig(mustParse(t, `{"brokers":[]}`)); err != nil {
		t.Fatalf("SaveRawConfig() error = %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := m.RawConfig(); ok {
		t.Error("expected empty storage after Clear")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mqttcmd.db")

	m, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := m.SaveRawConfig(mustParse(t, `{"brokers":[{"title":"Kept"}]}`)); err != nil {
		t.Fatalf("SaveRawConfig() error = %v", err)
	}
	m.Close()

	m, err = NewManager(path, nil)
	if err != nil {
		t.Fatalf("NewManager() reopen error = %v", err)
	}
	defer m.Close()

	doc, ok := m.RawConfig()
	if !ok || document.DisplayName(doc) != "Kept" {
		t.Errorf("expected persisted config, got %s", document.Canonical(doc))
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"50%", 50},
		{"33", 33},
		{" 62.5% ", 63},
		{"", 0},
		{"abc", 0},
		{"-10%", 0},
		{"120%", 0},
	}

	for _, tt := range tests {
		if got := ParsePercent(tt.input); got != tt.want {
			t.Errorf("ParsePercent(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}

	if FormatPercent(45) != "45%" {
		t.Errorf("FormatPercent(45) = %q", FormatPercent(45))
	}
}
