package keybinds

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitKeys(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"ctrl+s", []string{"ctrl+s"}},
		{"ctrl+s, f5", []string{"ctrl+s", "f5"}},
		{" , ", []string{","}},
		{"", nil},
		{"a,,b", []string{"a", "b"}},
	}

	for _, tt := range tests {
		got := SplitKeys(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.expected, "|") {
			t.Errorf("SplitKeys(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestApplyConfig_ReplacesDefaults(t *testing.T) {
	r := NewDefaultRegistry()
	config := &Config{
		Global: map[string]string{"apply": "f5"},
		Topics: map[string]string{"toggle": "x"},
	}

	if err := ApplyConfig(r, config); err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}

	if action, _ := r.Match(ContextEditor, "f5"); action != ActionApply {
		t.Errorf("f5 = %q, want apply", action)
	}
	if r.HasBinding(ContextEditor, "ctrl+s") {
		t.Error("ctrl+s should no longer apply")
	}
	if action, _ := r.Match(ContextTopics, "x"); action != ActionToggle {
		t.Errorf("x = %q, want toggle", action)
	}
	// enter was a topics toggle key and now falls through to the list select
	if action, _ := r.Match(ContextTopics, "enter"); action != ActionSelect {
		t.Errorf("enter = %q, want select", action)
	}
}

func TestApplyConfig_UnknownAction(t *testing.T) {
	config := &Config{List: map[string]string{"launch_rockets": "x"}}
	if err := ApplyConfig(NewDefaultRegistry(), config); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	r, err := LoadOrDefault(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("LoadOrDefault(missing) error = %v", err)
	}
	if !r.HasBinding(ContextGlobal, "ctrl+s") {
		t.Error("missing file should give defaults")
	}

	valid := filepath.Join(dir, "valid.json")
	if err := os.WriteFile(valid, []byte(`{"version":"1.0","list":{"quit":"Q"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	r, err = LoadOrDefault(valid)
	if err != nil {
		t.Fatalf("LoadOrDefault(valid) error = %v", err)
	}
	if action, _ := r.Match(ContextBrokers, "Q"); action != ActionQuit {
		t.Errorf("Q = %q, want quit", action)
	}

	conflict := filepath.Join(dir, "conflict.json")
	if err := os.WriteFile(conflict, []byte(`{"list":{"quit":"x","select":"x"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(conflict); err == nil {
		t.Error("expected error for conflicting keys")
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(broken); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestExportDefaults_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	if err := SaveConfig(ExportDefaults(), path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Global["apply"] != "ctrl+s" {
		t.Errorf("global apply = %q", config.Global["apply"])
	}
	if config.List["navigate_down"] != "down,j" {
		t.Errorf("list navigate_down = %q", config.List["navigate_down"])
	}

	if result := NewValidator().ValidateConfig(config); result.HasErrors() {
		t.Errorf("exported defaults do not validate:\n%s", result.String())
	}
}
