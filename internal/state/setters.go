package state

import (
	"github.com/studiowebux/mqttcmd/internal/document"
)

// Edit sets the editor text and recomputes edit dirtiness. Valid JSON also
// replaces the live document; invalid JSON marks the state dirty and leaves
// it alone.
func (s *Store) Edit(text string) {
	s.mutate(false, func(st *AppState) bool {
		if st.EditorText == text {
			return false
		}
		st.EditorText = text

		doc, err := document.Parse(text)
		if err != nil {
			st.IsConfigDirty = true
			return true
		}
		st.Config = doc
		st.IsConfigDirty = document.Canonical(doc) != document.Canonical(st.SavedConfig)
		return true
	})
}

// SelectBroker selects the broker titled title in the live document.
// An empty or unknown title clears the selection. Topics are kept when
// switching between brokers.
func (s *Store) SelectBroker(title string) {
	s.mutate(true, func(st *AppState) bool {
		broker := st.Config.FindBroker(title)
		if broker == nil {
			if st.Selection.Broker == nil && len(st.Selection.Topics) == 0 {
				return false
			}
			st.Selection = Selection{}
			return true
		}
		st.Selection.Broker = broker
		return true
	})
}

// SelectTopics replaces the selected topics, keeping the given order and
// dropping duplicates. Ignored while no broker is selected.
func (s *Store) SelectTopics(topics []string) {
	s.mutate(true, func(st *AppState) bool {
		if st.Selection.Broker == nil {
			return false
		}
		st.Selection.Topics = dedupe(topics)
		return true
	})
}

// ToggleTopic adds topic to the end of the selection, or removes it
func (s *Store) ToggleTopic(topic string) {
	s.mutate(true, func(st *AppState) bool {
		if st.Selection.Broker == nil || topic == "" {
			return false
		}
		for i, t := range st.Selection.Topics {
			if t == topic {
				st.Selection.Topics = append(st.Selection.Topics[:i:i], st.Selection.Topics[i+1:]...)
				return true
			}
		}
		st.Selection.Topics = append(st.Selection.Topics, topic)
		return true
	})
}

func (s *Store) SetConfigURL(url string) {
	s.mutate(true, func(st *AppState) bool {
		if st.ConfigURL == url {
			return false
		}
		st.ConfigURL = url
		return true
	})
}

// SetLeftPanelWidth sets the left panel width in percent, clamped
func (s *Store) SetLeftPanelWidth(pct int) {
	s.mutate(true, func(st *AppState) bool {
		pct = clampWidth(pct)
		if st.LeftPanelWidth == pct {
			return false
		}
		st.LeftPanelWidth = pct
		return true
	})
}

func dedupe(items []string) []string {
	if items == nil {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
