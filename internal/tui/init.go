package tui

import (
	"context"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mqttcmd/internal/highlight"
	"github.com/studiowebux/mqttcmd/internal/history"
	"github.com/studiowebux/mqttcmd/internal/keybinds"
	"github.com/studiowebux/mqttcmd/internal/state"
)

// New creates a new TUI model over a hydrated store
func New(store *state.Store, opts Options) *Model {
	if opts.Keybinds == nil {
		opts.Keybinds = keybinds.NewDefaultRegistry()
	}
	if opts.Highlighter == nil {
		opts.Highlighter = highlight.New(highlight.DefaultStyle, true)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Placeholder = `{"brokers": []}`

	urlInput := textinput.New()
	urlInput.Prompt = ""
	urlInput.Placeholder = "https://example.com/brokers.json"

	searchInput := textinput.New()
	searchInput.Prompt = "/"

	m := &Model{
		store:       store,
		keybinds:    opts.Keybinds,
		highlighter: opts.Highlighter,
		topicsQuery: opts.TopicsQuery,
		logger:      opts.Logger.With("component", "tui"),
		ctx:         opts.Context,
		clipboard:   opts.Clipboard,
		mode:        ModeNormal,
		editor:      editor,
		urlInput:    urlInput,
		searchInput: searchInput,
		helpView:    viewport.New(80, 20),
		brokers:     NewListState(nil),
		topics:      NewListState(nil),
		history:     NewListState(historySearch),
	}

	m.setFocus(PaneEditor)
	m.sync()
	return m
}

// Run starts the TUI and blocks until it exits
func Run(store *state.Store, opts Options) error {
	m := New(store, opts)

	// Pass pointer since Update uses pointer receiver
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))

	// Observers run inside store calls made from Update, so deliver the
	// notification asynchronously
	unsubscribe := store.Subscribe(func(state.AppState) {
		go p.Send(stateChangedMsg{})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// sync pulls a fresh snapshot from the store into the widgets
func (m *Model) sync() {
	m.snap = m.store.Snapshot()

	if m.editor.Value() != m.snap.EditorText {
		m.editor.SetValue(m.snap.EditorText)
	}
	if m.urlInput.Value() != m.snap.ConfigURL {
		m.urlInput.SetValue(m.snap.ConfigURL)
	}

	m.brokers.SetItems(m.snap.Config.Titles())

	topics, err := m.snap.Topics(m.topicsQuery)
	m.topicsErr = ""
	if err != nil {
		m.topicsErr = err.Error()
	}
	m.topics.SetItems(topics)

	m.history.SetItems(m.snap.History.Names())

	m.layout()
}

// layout sizes the widgets for the window and split
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	m.leftWidth = m.width * m.snap.LeftPanelWidth / 100

	// Border, one column of padding each side
	inner := max(1, m.leftWidth-BorderSize-2)
	m.urlInput.Width = inner
	m.editor.SetWidth(inner)

	// Body minus status bar, URL box, editor border and title
	editorHeight := m.height - StatusBarHeight - URLBoxHeight - BorderSize - 1
	m.editor.SetHeight(max(1, editorHeight))

	m.helpView.Width = max(1, min(ModalMaxWidth, m.width-ModalWidthMargin)-BorderSize-2)
	m.helpView.Height = max(1, m.height-ModalHeightMargin-BorderSize-2)
}

// historySearch filters history names with the history log's own search
func historySearch(items []string, query string) []listMatch {
	log := make(history.Log, len(items))
	for i, name := range items {
		log[i].Name = name
	}

	found := history.Search(log, query)
	out := make([]listMatch, len(found))
	for i, match := range found {
		out[i] = listMatch{index: match.Index, matched: match.MatchedIndexes}
	}
	return out
}
