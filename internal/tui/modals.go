package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/mqttcmd/internal/keybinds"
)

// renderModal centers a bordered dialog on the screen
func (m *Model) renderModal(title, body, footer string, borderColor lipgloss.AdaptiveColor) string {
	width := min(ModalMaxWidth, m.width-ModalWidthMargin)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styleTitle.Render(title),
		"",
		body,
		"",
		styleSubtle.Render(footer),
	)

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(max(1, width-BorderSize)).
		Render(content)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func (m *Model) renderConfirm() string {
	footer := fmt.Sprintf("%s: confirm • %s: cancel",
		m.keybinds.GetBindingString(keybinds.ContextConfirm, keybinds.ActionConfirm),
		m.keybinds.GetBindingString(keybinds.ContextConfirm, keybinds.ActionCancel),
	)
	return m.renderModal("Confirm", m.confirmPrompt, footer, colorYellow)
}

func (m *Model) renderAlert() string {
	footer := fmt.Sprintf("%s: close", m.keybinds.GetBindingString(keybinds.ContextAlert, keybinds.ActionCloseModal))
	return m.renderModal(m.alertTitle, styleError.Render(m.alertMessage), footer, colorRed)
}

func (m *Model) renderHelp() string {
	footer := fmt.Sprintf("↑/↓: scroll • %s: close", m.keybinds.GetBindingString(keybinds.ContextHelp, keybinds.ActionCloseModal))
	return m.renderModal("Keyboard shortcuts", m.helpView.View(), footer, colorCyan)
}

// helpSections lists the contexts shown in help, in display order
var helpSections = []struct {
	context keybinds.Context
	title   string
}{
	{keybinds.ContextGlobal, "Everywhere"},
	{keybinds.ContextEditor, "Editor"},
	{keybinds.ContextURL, "Config URL"},
	{keybinds.ContextList, "Lists"},
	{keybinds.ContextTopics, "Topics"},
	{keybinds.ContextHistory, "History"},
	{keybinds.ContextSearch, "Filter"},
}

// helpContent lists the bindings each context adds, one line per action
func (m *Model) helpContent() string {
	var sb strings.Builder

	for i, section := range helpSections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(styleTitle.Render(section.title) + "\n")

		seen := make(map[keybinds.Action]bool)
		for _, binding := range m.keybinds.ListBindings(section.context) {
			if binding.Context != section.context || seen[binding.Action] {
				continue
			}
			seen[binding.Action] = true

			keys := m.keybinds.GetBindingString(section.context, binding.Action)
			info := keybinds.GetActionInfo(binding.Action)
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", keys, info.Description))
		}
	}

	return sb.String()
}
