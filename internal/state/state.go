// Package state owns the application state: the live and applied
// configuration, history, selection and the derived dirty signals.
//
// All mutation goes through Store. ApplyUpdate is the only way to replace the
// applied configuration; selection, editor text, URL and panel width have
// plain setters.
package state

import (
	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/history"
	"github.com/studiowebux/mqttcmd/internal/mqtt"
	"github.com/studiowebux/mqttcmd/internal/storage"
	"github.com/studiowebux/mqttcmd/internal/types"
)

// Left panel width bounds, in percent
const (
	MinLeftPanelWidth     = 15
	MaxLeftPanelWidth     = 85
	DefaultLeftPanelWidth = 40
)

// Selection is the chosen broker and topics. Topics keep selection order and
// are only meaningful while Broker is set.
type Selection struct {
	Broker *types.Broker
	Topics []string
}

func (s Selection) clone() Selection {
	out := Selection{}
	if s.Broker != nil {
		b := s.Broker.Clone()
		out.Broker = &b
	}
	if s.Topics != nil {
		out.Topics = append([]string(nil), s.Topics...)
	}
	return out
}

// AppState is a snapshot of the application state
type AppState struct {
	// Config is the live document; valid editor input replaces it as you type
	Config types.Document

	// SavedConfig is the last applied document, the edit dirtiness baseline
	SavedConfig types.Document

	// EditorText is the raw editor content, which may not be valid JSON
	EditorText string

	ConfigURL        string
	LastURLConfig    *types.Document
	ActiveConfigName string
	History          history.Log
	Selection        Selection

	IsApplying    bool
	IsConfigDirty bool

	// LeftPanelWidth is a percentage between MinLeftPanelWidth and MaxLeftPanelWidth
	LeftPanelWidth int
}

// IsURLDirty reports whether the live document diverged from what was last
// fetched from ConfigURL
func (a AppState) IsURLDirty() bool {
	return a.ConfigURL != "" && a.LastURLConfig != nil && !document.Equal(a.Config, *a.LastURLConfig)
}

// BrokerAddress returns the address flags for the selected broker
func (a AppState) BrokerAddress() string {
	return mqtt.BrokerAddress(a.Selection.Broker)
}

// SubscribeCommand returns the full subscribe command for the selection
func (a AppState) SubscribeCommand() string {
	return mqtt.SubscribeCommand(a.BrokerAddress(), a.Selection.Topics)
}

// ExtraArgsWarning warns about shell metacharacters in the selected broker's extra arguments
func (a AppState) ExtraArgsWarning() string {
	return mqtt.ExtraArgsWarning(a.Selection.Broker)
}

// Topics lists the topics offered for the selected broker
func (a AppState) Topics(query string) ([]string, error) {
	return document.Topics(a.Config, a.Selection.Broker, query)
}

// Persisted returns the serializable projection of the state
func (a AppState) Persisted() types.PersistedAppState {
	var title *string
	if a.Selection.Broker != nil {
		t := a.Selection.Broker.Title
		title = &t
	}

	topics := a.Selection.Topics
	if topics == nil {
		topics = []string{}
	}
	entries := []types.HistoryEntry(a.History)
	if entries == nil {
		entries = []types.HistoryEntry{}
	}

	return types.PersistedAppState{
		ConfigURL:           a.ConfigURL,
		LastURLConfig:       a.LastURLConfig,
		History:             entries,
		ActiveConfigName:    a.ActiveConfigName,
		LeftPanelWidth:      storage.FormatPercent(a.LeftPanelWidth),
		SelectedBrokerTitle: title,
		SelectedTopics:      topics,
	}
}

func (a AppState) clone() AppState {
	out := a
	out.Config = a.Config.Clone()
	out.SavedConfig = a.SavedConfig.Clone()
	if a.LastURLConfig != nil {
		last := a.LastURLConfig.Clone()
		out.LastURLConfig = &last
	}
	if a.History != nil {
		out.History = make(history.Log, len(a.History))
		for i, e := range a.History {
			out.History[i] = types.HistoryEntry{Name: e.Name, Config: e.Config.Clone()}
		}
	}
	out.Selection = a.Selection.clone()
	return out
}

func clampWidth(pct int) int {
	if pct < MinLeftPanelWidth {
		return MinLeftPanelWidth
	}
	if pct > MaxLeftPanelWidth {
		return MaxLeftPanelWidth
	}
	return pct
}
