package state

import (
	"context"
	"fmt"

	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/history"
	"github.com/studiowebux/mqttcmd/internal/types"
)

// Confirmation prompts
const (
	PromptDiscardEdits = "Discard unsaved changes?"
	PromptClearHistory = "Clear history?"
)

// Apply commits the editor text. Invalid JSON returns an error wrapping
// document.ErrInvalidJSON and leaves the state untouched.
func (s *Store) Apply() error {
	s.mu.Lock()
	doc, err := document.Parse(s.state.EditorText)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to apply configuration: %w", err)
	}

	now := s.now()
	s.state.History = history.Record(s.state.History, doc, now)
	s.applyLocked(PrepareNewConfig(doc, "", now))
	snap := s.state.clone()
	s.mu.Unlock()

	s.logger.Info("configuration applied", "name", snap.ActiveConfigName)
	s.notify(snap)
	return nil
}

// LoadURL fetches url and applies the result. An empty url does nothing.
// When there are unsaved edits confirm is asked first; declining returns
// (false, nil). A failed fetch returns the error and changes nothing.
func (s *Store) LoadURL(ctx context.Context, url string, confirm Confirmer) (bool, error) {
	if url == "" {
		return false, nil
	}
	if !s.confirmDiscard(confirm) {
		return false, nil
	}
	if s.fetcher == nil {
		return false, ErrNoFetcher
	}

	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("remote load failed", "url", url, "error", err)
		return false, err
	}

	s.mu.Lock()
	now := s.now()
	s.state.History = history.Record(s.state.History, doc, now)
	s.applyLocked(PrepareNewConfig(doc, url, now))
	snap := s.state.clone()
	s.mu.Unlock()

	s.logger.Info("configuration loaded", "url", url, "name", snap.ActiveConfigName)
	s.notify(snap)
	return true, nil
}

// PickHistory applies the history entry at index, asking confirm first when
// there are unsaved edits. An index outside the log panics.
func (s *Store) PickHistory(index int, confirm Confirmer) bool {
	if !s.confirmDiscard(confirm) {
		return false
	}

	entry := s.historyEntry(index)

	s.mu.Lock()
	s.applyLocked([]UpdateOption{
		WithConfig(entry.Config),
		WithActiveConfigName(entry.Name),
		WithSelection(Selection{}),
	})
	snap := s.state.clone()
	s.mu.Unlock()

	s.logger.Info("history entry applied", "name", entry.Name)
	s.notify(snap)
	return true
}

// ClearHistory empties the history after confirmation
func (s *Store) ClearHistory(confirm Confirmer) bool {
	if confirm == nil || !confirm.Confirm(PromptClearHistory) {
		return false
	}

	return s.mutate(true, func(st *AppState) bool {
		st.History = history.Clear(st.History)
		return true
	})
}

func (s *Store) historyEntry(index int) types.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return history.Select(s.state.History, index)
}

func (s *Store) confirmDiscard(confirm Confirmer) bool {
	s.mu.RLock()
	dirty := s.state.IsConfigDirty
	s.mu.RUnlock()

	if !dirty {
		return true
	}
	return confirm != nil && confirm.Confirm(PromptDiscardEdits)
}
