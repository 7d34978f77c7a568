package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mqttcmd/internal/keybinds"
)

// keyString names a key the way the keybinding registry does
func keyString(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return "space"
	}
	return msg.String()
}

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	key := keyString(msg)

	// Mode-specific handling
	switch m.mode {
	case ModeConfirm:
		return m.handleConfirmKeys(key)
	case ModeAlert:
		return m.handleAlertKeys(key)
	case ModeHelp:
		return m.handleHelpKeys(msg, key)
	}

	if list := m.focusedList(); list != nil && list.IsSearchActive() {
		return m.handleSearchKeys(msg, key, list)
	}

	switch m.focus {
	case PaneEditor:
		return m.handleEditorKeys(msg, key)
	case PaneURL:
		return m.handleURLKeys(msg, key)
	default:
		return m.handleListKeys(key)
	}
}

// handleEditorKeys gives the editor every key that is not bound
func (m *Model) handleEditorKeys(msg tea.KeyMsg, key string) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextEditor, key); ok {
		return m.runAction(action)
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)

	if text := m.editor.Value(); text != before {
		m.store.Edit(text)
		m.sync()
	}
	return cmd
}

// handleURLKeys gives the URL input every key that is not bound
func (m *Model) handleURLKeys(msg tea.KeyMsg, key string) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextURL, key); ok {
		return m.runAction(action)
	}

	before := m.urlInput.Value()
	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)

	if url := m.urlInput.Value(); url != before {
		m.store.SetConfigURL(url)
		m.sync()
	}
	return cmd
}

// handleListKeys handles the broker, topic and history panes
func (m *Model) handleListKeys(key string) tea.Cmd {
	ctx := m.focus.context()

	action, ok, partial := m.keybinds.MatchMultiKey(ctx, key)
	if partial || !ok {
		return nil
	}

	return m.runAction(action)
}

// handleSearchKeys handles the filter input of a list pane
func (m *Model) handleSearchKeys(msg tea.KeyMsg, key string, list *ListState) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextSearch, key)
	if ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit

		case keybinds.ActionTextSubmit:
			// Keep the filter, give keys back to the list
			list.SetSearchActive(false)
			m.searchInput.Blur()
			return nil

		case keybinds.ActionTextCancel:
			list.ClearQuery()
			m.searchInput.Blur()
			return nil
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if query := m.searchInput.Value(); query != list.Query() {
		list.SetQuery(query)
	}
	return cmd
}

// handleConfirmKeys handles keyboard input in the confirmation dialog
func (m *Model) handleConfirmKeys(key string) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextConfirm, key)
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionQuitForce:
		return tea.Quit

	case keybinds.ActionConfirm:
		pending := m.pendingAction
		m.closeConfirm()
		if pending != nil {
			return pending()
		}

	case keybinds.ActionCancel:
		m.closeConfirm()
	}

	return nil
}

// handleAlertKeys handles keyboard input in the alert dialog
func (m *Model) handleAlertKeys(key string) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextAlert, key)
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionQuitForce:
		return tea.Quit
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal
		m.alertTitle = ""
		m.alertMessage = ""
	}

	return nil
}

// handleHelpKeys closes the help viewer or scrolls it
func (m *Model) handleHelpKeys(msg tea.KeyMsg, key string) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextHelp, key)
	if ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit
		case keybinds.ActionCloseModal:
			m.mode = ModeNormal
			return nil
		}
	}

	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return cmd
}

// runAction performs a bound action from the main view
func (m *Model) runAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		return tea.Quit

	case keybinds.ActionFocusNext:
		m.cycleFocus(1)

	case keybinds.ActionFocusPrev:
		m.cycleFocus(-1)

	case keybinds.ActionApply:
		return m.applyConfig()

	case keybinds.ActionLoadURL:
		return m.requestLoad()

	case keybinds.ActionCopyAddress:
		return m.copyAddress()

	case keybinds.ActionCopyCommand:
		return m.copyCommand()

	case keybinds.ActionWidenLeft:
		m.resize(ResizeStep)

	case keybinds.ActionNarrowLeft:
		m.resize(-ResizeStep)

	case keybinds.ActionOpenHelp:
		m.openHelp()

	case keybinds.ActionFormat:
		return m.formatEditor()

	case keybinds.ActionRevert:
		return m.revertEditor()

	case keybinds.ActionNavigateUp:
		if list := m.focusedList(); list != nil {
			list.MoveUp()
		}

	case keybinds.ActionNavigateDown:
		if list := m.focusedList(); list != nil {
			list.MoveDown()
		}

	case keybinds.ActionGoToTop:
		if list := m.focusedList(); list != nil {
			list.GoToTop()
		}

	case keybinds.ActionGoToBottom:
		if list := m.focusedList(); list != nil {
			list.GoToBottom()
		}

	case keybinds.ActionSelect:
		return m.selectCurrent()

	case keybinds.ActionToggle:
		return m.toggleCurrentTopic()

	case keybinds.ActionOpenSearch:
		m.openSearch()

	case keybinds.ActionClearSearch:
		if list := m.focusedList(); list != nil {
			list.ClearQuery()
		}

	case keybinds.ActionClearHistory:
		return m.requestClearHistory()
	}

	return nil
}
