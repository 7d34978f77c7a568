package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/keybinds"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"} // Dark green / Bright green
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"} // Dark red / Bright red
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"} // Dark goldenrod / Yellow
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"} // Dark gray / Light gray
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"} // Dark cyan / Cyan
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleTitleUnfocused = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorGray)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleMatch = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// renderMain renders the main view: URL and editor on the left, pickers
// and derived output on the right
func (m *Model) renderMain() string {
	bodyHeight := m.height - StatusBarHeight
	rightWidth := m.width - m.leftWidth

	left := lipgloss.JoinVertical(
		lipgloss.Left,
		m.box(m.renderURL(), m.focus == PaneURL, m.leftWidth, URLBoxHeight),
		m.box(m.renderEditor(), m.focus == PaneEditor, m.leftWidth, bodyHeight-URLBoxHeight),
	)

	addressHeight := AddressBoxLines + BorderSize
	commandHeight := CommandBoxLines + BorderSize
	listsHeight := max(3*(MinListLines+BorderSize), bodyHeight-addressHeight-commandHeight)
	brokersHeight := listsHeight / 3
	topicsHeight := listsHeight / 3
	historyHeight := listsHeight - brokersHeight - topicsHeight

	right := lipgloss.JoinVertical(
		lipgloss.Left,
		m.box(m.renderBrokers(rightWidth, brokersHeight), m.focus == PaneBrokers, rightWidth, brokersHeight),
		m.box(m.renderTopics(rightWidth, topicsHeight), m.focus == PaneTopics, rightWidth, topicsHeight),
		m.box(m.renderHistory(rightWidth, historyHeight), m.focus == PaneHistory, rightWidth, historyHeight),
		m.box(m.renderAddress(), false, rightWidth, addressHeight),
		m.box(m.renderCommand(), false, rightWidth, commandHeight),
	)

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		mainView,
		m.renderStatusBar(),
	)
}

// box draws content in a rounded border of the given outer size,
// highlighting the border when focused
func (m *Model) box(content string, focused bool, width, height int) string {
	borderColor := colorGray
	if focused {
		borderColor = colorGreen
	}

	innerHeight := max(1, height-BorderSize)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(max(1, width-BorderSize)).
		Height(innerHeight).
		MaxHeight(height).
		Render(content)
}

func (m *Model) paneTitle(title string, pane Pane) string {
	if m.focus == pane {
		return styleTitle.Render(title)
	}
	return styleTitleUnfocused.Render(title)
}

func (m *Model) renderURL() string {
	title := m.paneTitle("Config URL", PaneURL)
	switch {
	case m.loading:
		title += " " + styleWarning.Render("loading...")
	case m.snap.IsURLDirty():
		title += " " + styleWarning.Render("(modified)")
	}
	return title + "\n" + m.urlInput.View()
}

func (m *Model) renderEditor() string {
	name := m.snap.ActiveConfigName
	if name == "" {
		name = document.DisplayName(m.snap.SavedConfig)
	}

	title := m.paneTitle("Configuration", PaneEditor) + " " + styleSubtle.Render(name)
	if m.snap.IsConfigDirty {
		title += " " + styleWarning.Render("● unsaved")
	}
	return title + "\n" + m.editor.View()
}

func (m *Model) renderBrokers(width, height int) string {
	var selected string
	if m.snap.Selection.Broker != nil {
		selected = m.snap.Selection.Broker.Title
	}

	title := m.paneTitle("Brokers", PaneBrokers)
	if len(m.brokers.Items()) == 0 {
		return title + "\n" + styleSubtle.Render("No brokers in configuration")
	}

	return title + "\n" + m.renderList(m.brokers, PaneBrokers, width, height, func(item string) string {
		if item == selected {
			return "● "
		}
		return "  "
	})
}

func (m *Model) renderTopics(width, height int) string {
	chosen := make(map[string]bool, len(m.snap.Selection.Topics))
	for _, topic := range m.snap.Selection.Topics {
		chosen[topic] = true
	}

	title := m.paneTitle("Topics", PaneTopics)
	if n := len(chosen); n > 0 {
		title += " " + styleSubtle.Render(fmt.Sprintf("(%d selected)", n))
	}

	switch {
	case m.topicsErr != "":
		return title + "\n" + styleError.Render(m.topicsErr)
	case len(m.topics.Items()) == 0:
		return title + "\n" + styleSubtle.Render("No topics in configuration")
	}

	return title + "\n" + m.renderList(m.topics, PaneTopics, width, height, func(item string) string {
		if chosen[item] {
			return "[x] "
		}
		return "[ ] "
	})
}

func (m *Model) renderHistory(width, height int) string {
	title := m.paneTitle("History", PaneHistory)
	if len(m.history.Items()) == 0 {
		return title + "\n" + styleSubtle.Render("No history yet")
	}

	return title + "\n" + m.renderList(m.history, PaneHistory, width, height, func(string) string {
		return ""
	})
}

// renderList renders the filter line and the rows of a list that fit in a
// box of the given outer size
func (m *Model) renderList(list *ListState, pane Pane, width, height int, marker func(item string) string) string {
	var lines []string

	rows := height - BorderSize - 1
	if list.IsSearchActive() {
		lines = append(lines, m.searchInput.View())
		rows--
	} else if list.Query() != "" {
		lines = append(lines, styleSubtle.Render("/"+list.Query()))
		rows--
	}

	if len(list.Visible()) == 0 {
		lines = append(lines, styleSubtle.Render("No matches"))
		return strings.Join(lines, "\n")
	}

	// Border, padding and cursor column
	textWidth := width - BorderSize - 2 - 2
	window := list.Window(max(1, rows))
	offset := list.Offset()

	for i, match := range window {
		item := list.Item(match.index)
		prefix := marker(item)
		row := highlightMatches(item, match.matched, textWidth-runewidth.StringWidth(prefix))

		isCursor := offset+i == list.Cursor()
		if isCursor {
			row = "> " + prefix + row
			if m.focus == pane {
				row = styleSelected.Render(row)
			}
		} else {
			row = "  " + prefix + row
		}
		lines = append(lines, row)
	}

	return strings.Join(lines, "\n")
}

// highlightMatches truncates text to width cells and emphasizes the bytes
// at the matched offsets
func highlightMatches(text string, matched []int, width int) string {
	if width <= 0 {
		return ""
	}
	truncated := runewidth.Truncate(text, width, "…")
	if len(matched) == 0 {
		return truncated
	}

	hits := make(map[int]bool, len(matched))
	for _, i := range matched {
		hits[i] = true
	}

	// Offsets past the kept prefix belong to the truncated tail
	keep := len(truncated)
	if truncated != text {
		keep -= len("…")
	}

	var sb strings.Builder
	for i, r := range truncated {
		if i < keep && hits[i] {
			sb.WriteString(styleMatch.Render(string(r)))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (m *Model) renderAddress() string {
	title := styleTitleUnfocused.Render("Address")
	address := m.snap.BrokerAddress()
	if address == "" {
		return title + "\n" + styleSubtle.Render("Select a broker")
	}
	return title + "\n" + m.highlighter.Shell(address)
}

func (m *Model) renderCommand() string {
	title := styleTitleUnfocused.Render("Command")
	command := m.snap.SubscribeCommand()

	var body string
	switch {
	case command != "":
		body = m.highlighter.Shell(command)
	case m.snap.Selection.Broker == nil:
		body = styleSubtle.Render("Select a broker and topics")
	default:
		body = styleSubtle.Render("Select at least one topic")
	}

	if warning := m.snap.ExtraArgsWarning(); warning != "" {
		body += "\n" + styleWarning.Render("⚠ "+warning)
	}
	return title + "\n" + body
}

// renderStatusBar renders the bottom line
func (m *Model) renderStatusBar() string {
	// Left side - active configuration
	left := m.snap.ActiveConfigName
	if left == "" {
		left = document.DisplayName(m.snap.SavedConfig)
	}
	if m.snap.IsApplying {
		left += " " + styleSuccess.Render("✓ applied")
	}

	// Right side - messages or hints
	var right string
	switch {
	case m.statusMsg != "" && m.statusIsError:
		right = styleError.Render(m.statusMsg)
	case m.statusMsg != "":
		right = styleSuccess.Render(m.statusMsg)
	default:
		right = styleSubtle.Render(fmt.Sprintf("%s apply | %s help | %s quit",
			m.keybinds.GetBindingString(m.focus.context(), keybinds.ActionApply),
			m.keybinds.GetBindingString(m.focus.context(), keybinds.ActionOpenHelp),
			m.keybinds.GetBindingString(m.focus.context(), keybinds.ActionQuitForce),
		))
	}

	// Center spacing
	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}
