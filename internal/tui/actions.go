package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/state"
	"github.com/studiowebux/mqttcmd/internal/types"
)

// focusedList returns the list state of the focused pane, or nil
func (m *Model) focusedList() *ListState {
	switch m.focus {
	case PaneBrokers:
		return m.brokers
	case PaneTopics:
		return m.topics
	case PaneHistory:
		return m.history
	}
	return nil
}

// setFocus moves keyboard focus to pane
func (m *Model) setFocus(pane Pane) {
	if list := m.focusedList(); list != nil && list.IsSearchActive() {
		list.SetSearchActive(false)
		m.searchInput.Blur()
	}
	m.keybinds.ClearMultiKeyState(m.focus.context())

	m.focus = pane
	m.editor.Blur()
	m.urlInput.Blur()

	switch pane {
	case PaneEditor:
		m.editor.Focus()
	case PaneURL:
		m.urlInput.Focus()
	}
}

func (m *Model) cycleFocus(step int) {
	current := 0
	for i, pane := range paneOrder {
		if pane == m.focus {
			current = i
			break
		}
	}
	next := (current + step + len(paneOrder)) % len(paneOrder)
	m.setFocus(paneOrder[next])
}

// applyConfig commits the editor text
func (m *Model) applyConfig() tea.Cmd {
	if err := m.store.Apply(); err != nil {
		m.showAlert("Invalid configuration", err.Error())
		return nil
	}
	m.sync()
	return m.setStatusMessage(fmt.Sprintf("Applied %s", m.snap.ActiveConfigName))
}

// requestLoad loads the configuration URL, asking first when there are
// unsaved edits
func (m *Model) requestLoad() tea.Cmd {
	url := strings.TrimSpace(m.snap.ConfigURL)
	if url == "" {
		return m.setErrorMessage("Enter a configuration URL first")
	}
	if m.loading {
		return nil
	}

	load := func() tea.Cmd { return m.startLoad(url) }
	if m.snap.IsConfigDirty {
		m.askConfirm(state.PromptDiscardEdits, load)
		return nil
	}
	return load()
}

// startLoad fetches url in the background. The user already agreed to
// drop unsaved edits.
func (m *Model) startLoad(url string) tea.Cmd {
	m.loading = true
	store, ctx := m.store, m.ctx

	return func() tea.Msg {
		loaded, err := store.LoadURL(ctx, url, state.Always)
		return loadFinishedMsg{url: url, loaded: loaded, err: err}
	}
}

func (m *Model) handleLoadFinished(msg loadFinishedMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.logger.Warn("load from url failed", "url", msg.url, "error", msg.err)
		m.showAlert("Failed to load configuration", msg.err.Error())
		return nil
	}

	m.sync()
	if !msg.loaded {
		return nil
	}
	return m.setStatusMessage(fmt.Sprintf("Loaded %s", m.snap.ActiveConfigName))
}

// selectCurrent acts on the item under the cursor of the focused list
func (m *Model) selectCurrent() tea.Cmd {
	switch m.focus {
	case PaneBrokers:
		title, ok := m.brokers.Selected()
		if !ok {
			return nil
		}
		m.store.SelectBroker(title)
		m.sync()
		return nil

	case PaneTopics:
		return m.toggleCurrentTopic()

	case PaneHistory:
		index, ok := m.history.SelectedIndex()
		if !ok {
			return nil
		}
		return m.requestPickHistory(index)
	}
	return nil
}

func (m *Model) toggleCurrentTopic() tea.Cmd {
	if m.focus != PaneTopics {
		return nil
	}
	topic, ok := m.topics.Selected()
	if !ok {
		return nil
	}
	if m.snap.Selection.Broker == nil {
		return m.setErrorMessage("Select a broker first")
	}

	m.store.ToggleTopic(topic)
	m.sync()
	return nil
}

// requestPickHistory applies a history entry, asking first when there are
// unsaved edits
func (m *Model) requestPickHistory(index int) tea.Cmd {
	if index < 0 || index >= len(m.snap.History) {
		return nil
	}
	chosen := m.snap.History[index]

	pick := func() tea.Cmd {
		// The log may have shifted while the dialog was open
		current, ok := findHistoryEntry(m.store.Snapshot().History, chosen)
		if !ok {
			return nil
		}
		m.store.PickHistory(current, state.Always)
		m.history.ClearQuery()
		m.sync()
		return m.setStatusMessage(fmt.Sprintf("Applied %s", m.snap.ActiveConfigName))
	}

	if m.snap.IsConfigDirty {
		m.askConfirm(state.PromptDiscardEdits, pick)
		return nil
	}
	return pick()
}

// findHistoryEntry returns the index of the entry with the same name and config
func findHistoryEntry(entries []types.HistoryEntry, want types.HistoryEntry) (int, bool) {
	for i, e := range entries {
		if e.Name == want.Name && document.Equal(e.Config, want.Config) {
			return i, true
		}
	}
	return 0, false
}

func (m *Model) requestClearHistory() tea.Cmd {
	if len(m.snap.History) == 0 {
		return nil
	}

	m.askConfirm(state.PromptClearHistory, func() tea.Cmd {
		m.store.ClearHistory(state.Always)
		m.history.ClearQuery()
		m.sync()
		return m.setStatusMessage("History cleared")
	})
	return nil
}

func (m *Model) copyAddress() tea.Cmd {
	address := m.snap.BrokerAddress()
	if address == "" {
		return m.setErrorMessage("Select a broker first")
	}
	return m.copyText(address, "Address")
}

func (m *Model) copyCommand() tea.Cmd {
	command := m.snap.SubscribeCommand()
	if command == "" {
		return m.setErrorMessage("Select a broker and at least one topic")
	}
	return m.copyText(command, "Command")
}

func (m *Model) copyText(text, label string) tea.Cmd {
	if err := m.clipboard(text); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		return m.setErrorMessage(fmt.Sprintf("Copy failed: %v", err))
	}
	return m.setStatusMessage(label + " copied to clipboard")
}

// resize moves the split between the panels by delta percent
func (m *Model) resize(delta int) {
	m.store.SetLeftPanelWidth(m.snap.LeftPanelWidth + delta)
	m.sync()
}

// formatEditor pretty-prints the editor document
func (m *Model) formatEditor() tea.Cmd {
	doc, err := document.Parse(m.editor.Value())
	if err != nil {
		return m.setErrorMessage("Cannot format: invalid JSON")
	}
	m.store.Edit(document.Canonical(doc))
	m.sync()
	return nil
}

// revertEditor drops unsaved edits
func (m *Model) revertEditor() tea.Cmd {
	if !m.snap.IsConfigDirty {
		return nil
	}
	m.store.Edit(document.Canonical(m.snap.SavedConfig))
	m.sync()
	return m.setStatusMessage("Reverted to applied configuration")
}

func (m *Model) openSearch() {
	list := m.focusedList()
	if list == nil {
		return
	}
	list.SetSearchActive(true)
	m.searchInput.SetValue(list.Query())
	m.searchInput.CursorEnd()
	m.searchInput.Focus()
}

func (m *Model) openHelp() {
	m.helpView.SetContent(m.helpContent())
	m.helpView.GotoTop()
	m.mode = ModeHelp
}

func (m *Model) askConfirm(prompt string, action func() tea.Cmd) {
	m.confirmPrompt = prompt
	m.pendingAction = action
	m.mode = ModeConfirm
}

func (m *Model) closeConfirm() {
	m.confirmPrompt = ""
	m.pendingAction = nil
	m.mode = ModeNormal
}

func (m *Model) showAlert(title, message string) {
	m.alertTitle = title
	m.alertMessage = message
	m.mode = ModeAlert
}
