package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/mqttcmd/internal/types"
)

// errPickCancelled is returned when the broker picker is closed without a choice
var errPickCancelled = errors.New("selection cancelled")

var (
	pickerTitleStyle = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	pickerHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

// brokerItem shows a broker with its endpoint underneath
type brokerItem struct {
	broker types.Broker
}

func (i brokerItem) FilterValue() string { return i.broker.Title }
func (i brokerItem) Title() string       { return i.broker.Title }

func (i brokerItem) Description() string {
	if i.broker.Host == "" {
		return "no host"
	}
	return fmt.Sprintf("%s:%s", i.broker.Host, i.broker.Port.String())
}

// brokerPicker is a one-shot program choosing a broker title
type brokerPicker struct {
	list   list.Model
	choice string
	done   bool
}

func newBrokerPicker(brokers []types.Broker) brokerPicker {
	items := make([]list.Item, len(brokers))
	for i, b := range brokers {
		items[i] = brokerItem{broker: b}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("170")).BorderForeground(lipgloss.Color("170"))

	l := list.New(items, delegate, 80, 16)
	l.Title = "Select a broker"
	l.Styles.Title = pickerTitleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	return brokerPicker{list: l}
}

func (m brokerPicker) Init() tea.Cmd {
	return nil
}

func (m brokerPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		// The filter input gets every key while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.done = true
			return m, tea.Quit

		case "enter":
			if item, ok := m.list.SelectedItem().(brokerItem); ok {
				m.choice = item.broker.Title
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m brokerPicker) View() string {
	if m.done {
		return ""
	}
	return m.list.View() + "\n" + pickerHelpStyle.Render("↑/↓ move • / filter • enter select • q cancel")
}

// promptForBroker lets the user pick one of brokers on the terminal
func promptForBroker(brokers []types.Broker) (string, error) {
	final, err := tea.NewProgram(newBrokerPicker(brokers)).Run()
	if err != nil {
		return "", fmt.Errorf("error running broker picker: %w", err)
	}

	choice := final.(brokerPicker).choice
	if choice == "" {
		return "", errPickCancelled
	}
	return choice, nil
}
