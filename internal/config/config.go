package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DirName is the name of the configuration directory under the home directory
	DirName = ".mqttcmd"
)

var (
	// ConfigDir is the global configuration directory (~/.mqttcmd)
	ConfigDir string

	// DatabasePath is the SQLite database holding the applied config and app state
	DatabasePath string

	// LogFile receives the application log
	LogFile string

	// SettingsFile holds user settings (JSON with comments)
	SettingsFile string

	// KeybindsFile holds keybinding overrides
	KeybindsFile string
)

// Settings are user preferences read from SettingsFile
type Settings struct {
	// ApplyingDelayMs is how long the "applying" indicator stays on
	ApplyingDelayMs int `json:"applyingDelayMs"`

	// RequestTimeoutSec bounds remote configuration loads
	RequestTimeoutSec int `json:"requestTimeoutSec"`

	// TopicsQuery is an optional JMESPath expression listing topics.
	// {{broker}} is replaced by the selected broker title.
	TopicsQuery string `json:"topicsQuery"`

	// DefaultConfigPath replaces the bundled default document when set
	DefaultConfigPath string `json:"defaultConfigPath"`

	LogLevel string `json:"logLevel"`
}

// DefaultSettings returns the built-in settings
func DefaultSettings() Settings {
	return Settings{
		ApplyingDelayMs:   800,
		RequestTimeoutSec: 15,
		LogLevel:          "info",
	}
}

// ApplyingDelay returns ApplyingDelayMs as a duration
func (s Settings) ApplyingDelay() time.Duration {
	return time.Duration(s.ApplyingDelayMs) * time.Millisecond
}

// RequestTimeout returns RequestTimeoutSec as a duration
func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

const defaultSettingsFile = `{
  // How long the "applying" indicator stays visible after a config is applied
  "applyingDelayMs": 800,

  // Timeout for loading a configuration from a URL
  "requestTimeoutSec": 15,

  // Optional JMESPath expression returning the topics offered for a broker.
  // {{broker}} is replaced by the selected broker title, for example:
  //   "brokers[?title=={{broker}}].topics[]"
  "topicsQuery": "",

  // Path to a JSON document used instead of the bundled default config
  "defaultConfigPath": "",

  // error, warn, info, debug
  "logLevel": "info",
}
`

// Initialize sets up the configuration directory and files.
// It creates dir (or ~/.mqttcmd when dir is empty) if it doesn't exist.
func Initialize(dir string) error {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, DirName)
	}
	dir = expandHome(dir)

	// Set global paths
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "mqttcmd.db")
	LogFile = filepath.Join(ConfigDir, "mqttcmd.log")
	SettingsFile = filepath.Join(ConfigDir, "settings.jsonc")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create default settings file if it doesn't exist
	if _, err := os.Stat(SettingsFile); os.IsNotExist(err) {
		if err := os.WriteFile(SettingsFile, []byte(defaultSettingsFile), FilePermissions); err != nil {
			return fmt.Errorf("failed to create settings file: %w", err)
		}
	}

	return nil
}

// LoadSettings reads path on top of the defaults.
// A missing file yields the defaults; a malformed one is an error.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if settings.ApplyingDelayMs < 0 {
		settings.ApplyingDelayMs = 0
	}
	if settings.RequestTimeoutSec <= 0 {
		settings.RequestTimeoutSec = DefaultSettings().RequestTimeoutSec
	}
	settings.DefaultConfigPath = expandHome(settings.DefaultConfigPath)

	return settings, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}
