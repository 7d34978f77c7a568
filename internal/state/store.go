package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/history"
	"github.com/studiowebux/mqttcmd/internal/storage"
	"github.com/studiowebux/mqttcmd/internal/types"
)

// DefaultApplyingDelay is how long IsApplying stays set after an update
const DefaultApplyingDelay = 800 * time.Millisecond

// ErrNoFetcher is returned by LoadURL when the store has no Fetcher
var ErrNoFetcher = errors.New("remote loading is not configured")

// Persister is the durable storage behind the store
type Persister interface {
	RawConfig() (types.Document, bool)
	LoadAppState(doc types.Document) (storage.Restored, bool)
	SaveRawConfig(doc types.Document) error
	SaveAppState(s types.PersistedAppState) error
}

// Fetcher retrieves a remote document
type Fetcher interface {
	Fetch(ctx context.Context, url string) (types.Document, error)
}

// Confirmer asks the user to confirm a destructive action
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Always confirms without asking. Used once the caller has already asked.
var Always Confirmer = ConfirmFunc(func(string) bool { return true })

// Timer is the part of *time.Timer the store uses
type Timer interface {
	Stop() bool
}

// Options configure a Store. Zero values pick the defaults.
type Options struct {
	Persister     Persister
	Fetcher       Fetcher
	ApplyingDelay time.Duration
	Now           func() time.Time
	AfterFunc     func(d time.Duration, f func()) Timer

	// DefaultDocument supplies the document used when storage holds none
	DefaultDocument func() types.Document

	Logger *slog.Logger
}

// Store owns the application state
type Store struct {
	mu    sync.RWMutex
	state AppState

	// generation identifies the latest applying window
	generation uint64
	timer      Timer

	observers    map[int]func(AppState)
	nextObserver int

	persister     Persister
	fetcher       Fetcher
	applyingDelay time.Duration
	now           func() time.Time
	afterFunc     func(d time.Duration, f func()) Timer
	defaultDoc    func() types.Document
	logger        *slog.Logger
}

// New creates a store holding an empty state. Call Hydrate before use.
func New(opts Options) *Store {
	s := &Store{
		persister:     opts.Persister,
		fetcher:       opts.Fetcher,
		applyingDelay: opts.ApplyingDelay,
		now:           opts.Now,
		afterFunc:     opts.AfterFunc,
		defaultDoc:    opts.DefaultDocument,
		logger:        opts.Logger,
		observers:     make(map[int]func(AppState)),
		state: AppState{
			History:        history.Log{},
			LeftPanelWidth: DefaultLeftPanelWidth,
		},
	}

	if s.persister == nil {
		s.persister = nopPersister{}
	}
	if s.applyingDelay <= 0 {
		s.applyingDelay = DefaultApplyingDelay
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.afterFunc == nil {
		s.afterFunc = func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		}
	}
	if s.defaultDoc == nil {
		s.defaultDoc = document.Default
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "state")

	return s
}

// Hydrate loads the applied document and the app state from storage,
// falling back to the default document. Both dirty flags end up false.
func (s *Store) Hydrate() {
	doc, ok := s.persister.RawConfig()
	if !ok {
		s.logger.Debug("no stored config, using default")
		doc = s.defaultDoc()
	}
	restored, restoredOK := s.persister.LoadAppState(doc)

	s.mu.Lock()
	st := AppState{
		Config:         doc,
		SavedConfig:    doc.Clone(),
		EditorText:     document.Canonical(doc),
		History:        history.Log{},
		LeftPanelWidth: DefaultLeftPanelWidth,
	}
	if restoredOK {
		st.ConfigURL = restored.ConfigURL
		st.LastURLConfig = restored.LastURLConfig
		st.ActiveConfigName = restored.ActiveConfigName
		if restored.History != nil {
			st.History = restored.History
		}
		if restored.LeftPanelWidth > 0 {
			st.LeftPanelWidth = clampWidth(restored.LeftPanelWidth)
		}
		if restored.Broker != nil {
			st.Selection = Selection{Broker: restored.Broker, Topics: dedupe(restored.Topics)}
		}
	}
	s.state = st
	snap := s.state.clone()
	s.mu.Unlock()

	s.logger.Info("state hydrated",
		"config", document.DisplayName(doc),
		"history", len(snap.History),
		"restored", restoredOK,
	)
	s.notify(snap)
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn to be called with a snapshot after every state
// transition. fn runs outside the store lock, possibly on a timer goroutine.
func (s *Store) Subscribe(fn func(AppState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(snap AppState) {
	s.mu.RLock()
	observers := make([]func(AppState), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(snap.clone())
	}
}

// persistAppStateLocked writes the app state projection. Failures are logged,
// the in-memory state stays authoritative.
func (s *Store) persistAppStateLocked() {
	if err := s.persister.SaveAppState(s.state.Persisted()); err != nil {
		s.logger.Warn("failed to persist app state", "error", err)
	}
}

func (s *Store) persistRawConfigLocked() {
	if err := s.persister.SaveRawConfig(s.state.Config); err != nil {
		s.logger.Warn("failed to persist config", "error", err)
	}
}

// mutate runs fn under the write lock, persists the app state when asked,
// then notifies observers with the resulting snapshot
func (s *Store) mutate(persist bool, fn func(st *AppState) bool) bool {
	s.mu.Lock()
	changed := fn(&s.state)
	if changed && persist {
		s.persistAppStateLocked()
	}
	snap := s.state.clone()
	s.mu.Unlock()

	if changed {
		s.notify(snap)
	}
	return changed
}

type nopPersister struct{}

func (nopPersister) RawConfig() (types.Document, bool) { return types.Document{}, false }
func (nopPersister) LoadAppState(types.Document) (storage.Restored, bool) {
	return storage.Restored{}, false
}
func (nopPersister) SaveRawConfig(types.Document) error         { return nil }
func (nopPersister) SaveAppState(types.PersistedAppState) error { return nil }
