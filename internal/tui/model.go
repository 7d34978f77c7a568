package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mqttcmd/internal/highlight"
	"github.com/studiowebux/mqttcmd/internal/keybinds"
	"github.com/studiowebux/mqttcmd/internal/state"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeConfirm
	ModeAlert
	ModeHelp
)

// Pane is a focusable area of the main view
type Pane int

const (
	PaneEditor Pane = iota
	PaneURL
	PaneBrokers
	PaneTopics
	PaneHistory
)

// paneOrder is the focus cycle order
var paneOrder = []Pane{PaneURL, PaneEditor, PaneBrokers, PaneTopics, PaneHistory}

func (p Pane) context() keybinds.Context {
	switch p {
	case PaneEditor:
		return keybinds.ContextEditor
	case PaneURL:
		return keybinds.ContextURL
	case PaneBrokers:
		return keybinds.ContextBrokers
	case PaneTopics:
		return keybinds.ContextTopics
	case PaneHistory:
		return keybinds.ContextHistory
	}
	return keybinds.ContextGlobal
}

// Options configure the TUI. Zero values pick the defaults.
type Options struct {
	Keybinds    *keybinds.Registry
	Highlighter *highlight.Highlighter
	TopicsQuery string
	Logger      *slog.Logger

	// Context bounds remote loads started from the TUI
	Context context.Context

	// Clipboard replaces the system clipboard
	Clipboard func(text string) error
}

// Model represents the TUI state
type Model struct {
	// Core state
	store       *state.Store
	snap        state.AppState
	keybinds    *keybinds.Registry
	highlighter *highlight.Highlighter
	topicsQuery string
	logger      *slog.Logger
	ctx         context.Context
	clipboard   func(text string) error

	mode  Mode
	focus Pane

	// Widgets
	editor      textarea.Model
	urlInput    textinput.Model
	searchInput textinput.Model
	helpView    viewport.Model

	// Lists
	brokers   *ListState
	topics    *ListState
	history   *ListState
	topicsErr string

	// Confirm dialog state
	confirmPrompt string
	pendingAction func() tea.Cmd

	// Alert dialog state
	alertTitle   string
	alertMessage string

	loading bool // True while a remote load runs

	// UI state
	width         int
	height        int
	leftWidth     int
	statusMsg     string
	statusIsError bool
	statusSeq     int
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case stateChangedMsg:
		m.sync()

	case loadFinishedMsg:
		cmd = m.handleLoadFinished(msg)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
			m.statusIsError = false
		}

	default:
		// Cursor blink and other widget messages
		if m.focus == PaneEditor {
			m.editor, cmd = m.editor.Update(msg)
		} else if m.focus == PaneURL {
			m.urlInput, cmd = m.urlInput.Update(msg)
		}
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeConfirm:
		return m.renderConfirm()
	case ModeAlert:
		return m.renderAlert()
	default:
		return m.renderMain()
	}
}

// Custom message types

// stateChangedMsg is sent by the store observer
type stateChangedMsg struct{}

type loadFinishedMsg struct {
	url    string
	loaded bool
	err    error
}

type clearStatusMsg struct {
	seq int
}

// setStatusMessage shows msg in the status bar for StatusTimeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	return m.showStatus(msg, false)
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	return m.showStatus(msg, true)
}

func (m *Model) showStatus(msg string, isError bool) tea.Cmd {
	m.statusSeq++
	m.statusMsg = msg
	m.statusIsError = isError

	seq := m.statusSeq
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
