package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInitialize_CreatesDirectoryAndSettings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	if err := Initialize(dir); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if ConfigDir != dir {
		t.Errorf("ConfigDir = %q, want %q", ConfigDir, dir)
	}
	if DatabasePath != filepath.Join(dir, "mqttcmd.db") {
		t.Errorf("DatabasePath = %q", DatabasePath)
	}
	if _, err := os.Stat(SettingsFile); err != nil {
		t.Fatalf("settings file not created: %v", err)
	}

	// The generated file carries comments and must still load
	settings, err := LoadSettings(SettingsFile)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings != DefaultSettings() {
		t.Errorf("generated settings = %+v, want defaults %+v", settings, DefaultSettings())
	}
}

func TestInitialize_KeepsExistingSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.jsonc")
	if err := os.WriteFile(path, []byte(`{"applyingDelayMs": 10}`), FilePermissions); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := Initialize(dir); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != `{"applyingDelayMs": 10}` {
		t.Errorf("existing settings overwritten: %s", data)
	}
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Settings
		wantErr bool
	}{
		{
			name: "comments and trailing commas",
			content: `{
				// shorter window
				"applyingDelayMs": 200, /* inline */
				"topicsQuery": "topics",
			}`,
			want: Settings{ApplyingDelayMs: 200, RequestTimeoutSec: 15, TopicsQuery: "topics", LogLevel: "info"},
		},
		{
			name:    "invalid values are clamped",
			content: `{"applyingDelayMs": -5, "requestTimeoutSec": 0, "logLevel": "debug"}`,
			want:    Settings{ApplyingDelayMs: 0, RequestTimeoutSec: 15, LogLevel: "debug"},
		},
		{
			name:    "malformed",
			content: `{"applyingDelayMs": "slow"}`,
			want:    DefaultSettings(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.jsonc")
			if err := os.WriteFile(path, []byte(tt.content), FilePermissions); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			got, err := LoadSettings(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("LoadSettings() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadSettings_Missing(t *testing.T) {
	got, err := LoadSettings(filepath.Join(t.TempDir(), "nope.jsonc"))
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if got != DefaultSettings() {
		t.Errorf("LoadSettings() = %+v, want defaults", got)
	}
}

func TestSettingsDurations(t *testing.T) {
	s := Settings{ApplyingDelayMs: 800, RequestTimeoutSec: 3}
	if s.ApplyingDelay() != 800*time.Millisecond {
		t.Errorf("ApplyingDelay() = %v", s.ApplyingDelay())
	}
	if s.RequestTimeout() != 3*time.Second {
		t.Errorf("RequestTimeout() = %v", s.RequestTimeout())
	}
}
