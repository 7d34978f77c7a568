package state

import (
	"time"

	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/types"
)

// UpdateOption replaces one field during ApplyUpdate
type UpdateOption func(*AppState)

// WithConfig replaces the applied configuration
func WithConfig(doc types.Document) UpdateOption {
	return func(st *AppState) {
		st.Config = doc.Clone()
	}
}

func WithConfigURL(url string) UpdateOption {
	return func(st *AppState) {
		st.ConfigURL = url
	}
}

// WithLastURLConfig sets the URL dirtiness baseline; nil clears it
func WithLastURLConfig(doc *types.Document) UpdateOption {
	return func(st *AppState) {
		if doc == nil {
			st.LastURLConfig = nil
			return
		}
		c := doc.Clone()
		st.LastURLConfig = &c
	}
}

func WithActiveConfigName(name string) UpdateOption {
	return func(st *AppState) {
		st.ActiveConfigName = name
	}
}

func WithSelection(sel Selection) UpdateOption {
	return func(st *AppState) {
		st.Selection = sel.clone()
	}
}

// PrepareNewConfig builds the update applying a freshly obtained document.
// The URL baseline is only kept when the document came from url.
func PrepareNewConfig(doc types.Document, url string, now time.Time) []UpdateOption {
	var last *types.Document
	if url != "" {
		last = &doc
	}
	return []UpdateOption{
		WithConfig(doc),
		WithConfigURL(url),
		WithLastURLConfig(last),
		WithActiveConfigName(document.TimestampedName(doc, now)),
		WithSelection(Selection{}),
	}
}

// ApplyUpdate replaces the applied configuration.
//
// The options are merged, the result becomes the clean baseline and is
// persisted, then IsApplying is raised for the applying delay. A later call
// restarts the window; the earlier timer then does nothing.
func (s *Store) ApplyUpdate(opts ...UpdateOption) {
	s.mu.Lock()
	s.applyLocked(opts)
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) applyLocked(opts []UpdateOption) {
	for _, opt := range opts {
		opt(&s.state)
	}

	s.state.IsConfigDirty = false
	s.state.SavedConfig = s.state.Config.Clone()
	s.state.EditorText = document.Canonical(s.state.Config)

	s.persistRawConfigLocked()
	s.persistAppStateLocked()

	s.state.IsApplying = true
	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.afterFunc(s.applyingDelay, func() {
		s.finishApplying(gen)
	})
}

func (s *Store) finishApplying(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || !s.state.IsApplying {
		s.mu.Unlock()
		return
	}
	s.state.IsApplying = false
	s.timer = nil
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
}
