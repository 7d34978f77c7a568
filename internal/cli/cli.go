package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/highlight"
	"github.com/studiowebux/mqttcmd/internal/mqtt"
	"github.com/studiowebux/mqttcmd/internal/state"
	"github.com/studiowebux/mqttcmd/internal/types"
	"gopkg.in/yaml.v3"
)

// ErrUnknownBroker is returned when a broker title is not in the applied document
var ErrUnknownBroker = errors.New("unknown broker")

// ErrNoHistoryEntry is returned for a history position outside the log
var ErrNoHistoryEntry = errors.New("no such history entry")

// IsTerminal reports whether f is a character device rather than a pipe or file
func IsTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	return IsTerminal(os.Stdin)
}

// Prompter asks y/N questions on a terminal. It satisfies state.Confirmer.
type Prompter struct {
	In        io.Reader
	Out       io.Writer
	AssumeYes bool
}

// NewPrompter creates a prompter on stdin/stderr
func NewPrompter(assumeYes bool) *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr, AssumeYes: assumeYes}
}

// Confirm prints prompt and reads the answer. Anything but y/yes declines.
func (p *Prompter) Confirm(prompt string) bool {
	if p.AssumeYes {
		return true
	}

	fmt.Fprintf(p.Out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(p.In)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// Summary is what `show` prints
type Summary struct {
	Name      string      `json:"name" yaml:"name"`
	ConfigURL string      `json:"configUrl,omitempty" yaml:"configUrl,omitempty"`
	Brokers   []string    `json:"brokers" yaml:"brokers"`
	Broker    string      `json:"selectedBroker,omitempty" yaml:"selectedBroker,omitempty"`
	Topics    []string    `json:"selectedTopics" yaml:"selectedTopics"`
	Address   string      `json:"address" yaml:"address"`
	Command   string      `json:"command" yaml:"command"`
	Warning   string      `json:"warning,omitempty" yaml:"warning,omitempty"`
	Config    interface{} `json:"config" yaml:"config"`
	History   int         `json:"historyEntries" yaml:"historyEntries"`
}

// NewSummary projects the applied state for printing
func NewSummary(st state.AppState) (Summary, error) {
	config, err := plainValue(st.SavedConfig)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Name:      st.ActiveConfigName,
		ConfigURL: st.ConfigURL,
		Brokers:   st.SavedConfig.Titles(),
		Topics:    st.Selection.Topics,
		Address:   st.BrokerAddress(),
		Command:   st.SubscribeCommand(),
		Warning:   st.ExtraArgsWarning(),
		Config:    config,
		History:   len(st.History),
	}
	if s.Name == "" {
		s.Name = document.DisplayName(st.SavedConfig)
	}
	if st.Selection.Broker != nil {
		s.Broker = st.Selection.Broker.Title
	}
	if s.Brokers == nil {
		s.Brokers = []string{}
	}
	if s.Topics == nil {
		s.Topics = []string{}
	}
	return s, nil
}

// Show prints the applied document and the strings derived from the selection.
// JSON output goes through hl when it is not nil.
func Show(w io.Writer, st state.AppState, format string, hl *highlight.Highlighter) error {
	summary, err := NewSummary(st)
	if err != nil {
		return err
	}

	output, err := formatOutput(summary, format, func(sb *strings.Builder) {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", summary.Name))
		if summary.ConfigURL != "" {
			sb.WriteString(fmt.Sprintf("URL: %s\n", summary.ConfigURL))
		}
		sb.WriteString(fmt.Sprintf("Brokers: %s\n", strings.Join(summary.Brokers, ", ")))
		if summary.Broker != "" {
			sb.WriteString(fmt.Sprintf("Selected: %s\n", summary.Broker))
		}
		if len(summary.Topics) > 0 {
			sb.WriteString(fmt.Sprintf("Topics: %s\n", strings.Join(summary.Topics, ", ")))
		}
		sb.WriteString(fmt.Sprintf("\nAddress:\n%s\n", summary.Address))
		sb.WriteString(fmt.Sprintf("\nCommand:\n%s\n", summary.Command))
		if summary.Warning != "" {
			sb.WriteString(fmt.Sprintf("\n%sWarning: %s%s\n", colorYellow, summary.Warning, colorReset))
		}
	})
	if err != nil {
		return err
	}

	if format == "json" && hl != nil {
		output = hl.JSON(output)
	}
	fmt.Fprint(w, output)
	return nil
}

// Address prints the address flags for a broker of the applied document.
// An empty title opens a picker when stdin is a terminal.
func Address(w io.Writer, st state.AppState, title string) error {
	broker, err := resolveBroker(st.SavedConfig, title)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, mqtt.BrokerAddress(broker))
	warnExtraArgs(broker)
	return nil
}

// Command prints the subscribe command for a broker and topics of the applied
// document. Without topics the stored topic selection is used.
func Command(w io.Writer, st state.AppState, title string, topics []string) error {
	broker, err := resolveBroker(st.SavedConfig, title)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		topics = st.Selection.Topics
	}

	fmt.Fprintln(w, mqtt.SubscribeCommand(mqtt.BrokerAddress(broker), topics))
	warnExtraArgs(broker)
	return nil
}

// Select stores a broker of the applied document and, when given, topics as
// the selection the TUI starts with
func Select(store *state.Store, title string, topics []string) error {
	broker, err := resolveBroker(store.Snapshot().SavedConfig, title)
	if err != nil {
		return err
	}

	store.SelectBroker(broker.Title)
	if len(topics) > 0 {
		store.SelectTopics(topics)
	}
	warnExtraArgs(broker)
	return nil
}

// Reset deletes the stored configuration and application state after
// confirmation. The next start uses the default document.
func Reset(storage interface{ Clear() error }, confirm state.Confirmer) error {
	if confirm == nil || !confirm.Confirm("Delete the stored configuration, selection and history?") {
		return fmt.Errorf("reset cancelled by user")
	}
	if err := storage.Clear(); err != nil {
		return fmt.Errorf("failed to reset storage: %w", err)
	}
	return nil
}

// ApplyText applies a document the same way the editor does
func ApplyText(store *state.Store, text string) error {
	store.Edit(text)
	if err := store.Apply(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Applied %s\n", store.Snapshot().ActiveConfigName)
	return nil
}

// ApplyReader reads a whole document from r and applies it
func ApplyReader(store *state.Store, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}
	return ApplyText(store, string(data))
}

// Load fetches url and applies it
func Load(ctx context.Context, store *state.Store, url string, confirm state.Confirmer) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("a URL is required")
	}

	loaded, err := store.LoadURL(ctx, url, confirm)
	if err != nil {
		return err
	}
	if !loaded {
		return fmt.Errorf("load cancelled by user")
	}

	fmt.Fprintf(os.Stderr, "Loaded %s from %s\n", store.Snapshot().ActiveConfigName, url)
	return nil
}

// HistoryRow is one line of `history list`
type HistoryRow struct {
	Position int      `json:"position" yaml:"position"`
	Name     string   `json:"name" yaml:"name"`
	Brokers  []string `json:"brokers" yaml:"brokers"`
}

// HistoryList prints the history, most recent first, numbered from 1
func HistoryList(w io.Writer, st state.AppState, format string) error {
	rows := make([]HistoryRow, 0, len(st.History))
	for i, entry := range st.History {
		brokers := entry.Config.Titles()
		if brokers == nil {
			brokers = []string{}
		}
		rows = append(rows, HistoryRow{Position: i + 1, Name: entry.Name, Brokers: brokers})
	}

	output, err := formatOutput(rows, format, func(sb *strings.Builder) {
		if len(rows) == 0 {
			sb.WriteString("No history\n")
			return
		}
		for _, row := range rows {
			sb.WriteString(fmt.Sprintf("%2d. %s\n", row.Position, row.Name))
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprint(w, output)
	return nil
}

// HistoryPick applies the entry at a 1-based position
func HistoryPick(store *state.Store, position int, confirm state.Confirmer) error {
	count := len(store.Snapshot().History)
	if position < 1 || position > count {
		return fmt.Errorf("%w: %d (history has %d entries)", ErrNoHistoryEntry, position, count)
	}

	if !store.PickHistory(position-1, confirm) {
		return fmt.Errorf("pick cancelled by user")
	}

	fmt.Fprintf(os.Stderr, "Applied %s\n", store.Snapshot().ActiveConfigName)
	return nil
}

// HistoryClear empties the history after confirmation
func HistoryClear(store *state.Store, confirm state.Confirmer) error {
	if !store.ClearHistory(confirm) {
		return fmt.Errorf("clear cancelled by user")
	}
	fmt.Fprintln(os.Stderr, "History cleared")
	return nil
}

func resolveBroker(doc types.Document, title string) (*types.Broker, error) {
	if title == "" {
		titles := doc.Titles()
		if len(titles) == 0 {
			return nil, fmt.Errorf("%w: the configuration has no brokers", ErrUnknownBroker)
		}
		if !isInteractive() {
			return nil, fmt.Errorf("a broker title is required (-b), one of: %s", strings.Join(titles, ", "))
		}

		picked, err := promptForBroker(doc.Brokers)
		if err != nil {
			return nil, err
		}
		title = picked
	}

	broker := doc.FindBroker(title)
	if broker == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownBroker, title)
	}
	return broker, nil
}

func warnExtraArgs(broker *types.Broker) {
	if warning := mqtt.ExtraArgsWarning(broker); warning != "" {
		fmt.Fprintf(os.Stderr, "%sWarning: %s%s\n", colorYellow, warning, colorReset)
	}
}

// formatOutput formats a value based on the output format
func formatOutput(value interface{}, format string, text func(sb *strings.Builder)) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text", "":
		var sb strings.Builder
		text(&sb)
		return sb.String(), nil

	default:
		return "", fmt.Errorf("unknown output format '%s' (json/yaml/text)", format)
	}
}

// plainValue turns a document into maps and slices so YAML sees its fields
func plainValue(doc types.Document) (interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return value, nil
}

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorYellow = "\x1b[33m"
)
