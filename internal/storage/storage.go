// Package storage persists the applied configuration and the application
// state in a SQLite key-value table.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/history"
	"github.com/studiowebux/mqttcmd/internal/migrations"
	"github.com/studiowebux/mqttcmd/internal/types"
)

// Record keys. Each record is overwritten wholesale on save.
const (
	KeyRawConfig = "mqtt_config_raw"
	KeyAppState  = "mqtt_app_state"
)

// Restored is a persisted app state resolved against the applied document
type Restored struct {
	ConfigURL        string
	LastURLConfig    *types.Document
	History          history.Log
	ActiveConfigName string

	// LeftPanelWidth is a percentage, 0 when absent or unreadable
	LeftPanelWidth int

	// Broker is nil when nothing was selected or the title no longer exists
	Broker *types.Broker
	Topics []string
}

type Manager struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewManager opens (or creates) the database at dbPath and migrates it.
// A nil logger uses slog.Default().
func NewManager(dbPath string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to storage database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db, logger: logger.With("component", "storage")}, nil
}

// SaveRawConfig stores the applied document
func (m *Manager) SaveRawConfig(doc types.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return m.set(KeyRawConfig, string(data))
}

// RawConfig returns the stored document. ok is false when the record is
// absent or unreadable; the latter is logged.
func (m *Manager) RawConfig() (types.Document, bool) {
	value, ok := m.get(KeyRawConfig)
	if !ok {
		return types.Document{}, false
	}

	if !json.Valid([]byte(value)) {
		m.logger.Warn("ignoring malformed stored config", "key", KeyRawConfig)
		return types.Document{}, false
	}

	return document.Normalize(json.RawMessage(value)), true
}

// SaveAppState stores the persisted projection of the application state
func (m *Manager) SaveAppState(s types.PersistedAppState) error {
	if s.History == nil {
		s.History = []types.HistoryEntry{}
	}
	if s.SelectedTopics == nil {
		s.SelectedTopics = []string{}
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal app state: %w", err)
	}
	return m.set(KeyAppState, string(data))
}

// LoadAppState reads the stored app state and resolves the selected broker
// title against doc. A title that no longer exists yields no selection.
// ok is false when the record is absent or unreadable; the latter is logged.
func (m *Manager) LoadAppState(doc types.Document) (Restored, bool) {
	value, ok := m.get(KeyAppState)
	if !ok {
		return Restored{}, false
	}

	var s types.PersistedAppState
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		m.logger.Warn("ignoring malformed stored app state", "key", KeyAppState, "error", err)
		return Restored{}, false
	}

	restored := Restored{
		ConfigURL:        s.ConfigURL,
		LastURLConfig:    s.LastURLConfig,
		History:          history.Log(s.History),
		ActiveConfigName: s.ActiveConfigName,
		LeftPanelWidth:   ParsePercent(s.LeftPanelWidth),
	}

	if s.SelectedBrokerTitle != nil {
		if broker := doc.FindBroker(*s.SelectedBrokerTitle); broker != nil {
			restored.Broker = broker
			restored.Topics = s.SelectedTopics
		} else {
			m.logger.Debug("dropping selection of missing broker", "title", *s.SelectedBrokerTitle)
		}
	}

	if len(restored.History) > history.MaxEntries {
		restored.History = restored.History[:history.MaxEntries]
	}

	return restored, true
}

// Clear removes every stored record
func (m *Manager) Clear() error {
	if _, err := m.db.Exec("DELETE FROM app_storage"); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) set(key, value string) error {
	_, err := m.db.Exec(`
		INSERT INTO app_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (m *Manager) get(key string) (string, bool) {
	var value string
	err := m.db.QueryRow("SELECT value FROM app_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		m.logger.Warn("failed to read stored record", "key", key, "error", err)
		return "", false
	}
	return value, true
}

// FormatPercent renders a panel width the way it is stored, e.g. "50%"
func FormatPercent(pct int) string {
	return strconv.Itoa(pct) + "%"
}

// ParsePercent reads "50%", "50" or "50.5%" as a whole percentage.
// It returns 0 for anything else.
func ParsePercent(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f > 100 {
		return 0
	}
	return int(f + 0.5)
}
