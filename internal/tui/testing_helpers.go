package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/highlight"
	"github.com/studiowebux/mqttcmd/internal/logging"
	"github.com/studiowebux/mqttcmd/internal/state"
	"github.com/studiowebux/mqttcmd/internal/types"
)

// TestDocument is the document test models start from
const TestDocument = `{
  "brokers": [
    {"title": "Local", "host": "localhost", "port": 1883, "username": "", "password": "", "extraArgs": ""},
    {"title": "Remote", "host": "mq.example.com", "port": "8883", "username": "bob", "password": "pw", "extraArgs": "--protocol-version 5", "topics": ["remote/#"]}
  ],
  "topics": ["sensors/#", "devices/+/status", "alerts"]
}`

// stoppedTimer never fires, so the applying window stays open in tests
type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return true }

// TestModel bundles a model with what it writes to
type TestModel struct {
	*Model
	Store  *state.Store
	Copied []string
}

// CreateTestModel creates a Model instance for testing with minimal dependencies
func CreateTestModel(t *testing.T) *TestModel {
	t.Helper()
	return CreateTestModelWithDocument(t, TestDocument)
}

// CreateTestModelWithDocument creates a Model whose applied configuration is text
func CreateTestModelWithDocument(t *testing.T, text string) *TestModel {
	t.Helper()
	return newTestModel(t, text, nil)
}

// CreateTestModelWithFetcher creates a Model that loads remote documents through fetcher
func CreateTestModelWithFetcher(t *testing.T, fetcher state.Fetcher) *TestModel {
	t.Helper()
	return newTestModel(t, TestDocument, fetcher)
}

func newTestModel(t *testing.T, text string, fetcher state.Fetcher) *TestModel {
	t.Helper()

	doc, err := document.Parse(text)
	if err != nil {
		t.Fatalf("Failed to parse test document: %v", err)
	}

	store := state.New(state.Options{
		Fetcher:         fetcher,
		DefaultDocument: func() types.Document { return doc },
		AfterFunc:       func(time.Duration, func()) state.Timer { return stoppedTimer{} },
		Logger:          logging.Discard(),
	})
	store.Hydrate()

	tm := &TestModel{Store: store}
	tm.Model = New(store, Options{
		Highlighter: highlight.New(highlight.DefaultStyle, false),
		Logger:      logging.Discard(),
		Clipboard: func(text string) error {
			tm.Copied = append(tm.Copied, text)
			return nil
		},
	})

	tm.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return tm
}

// Press sends keys to the model and returns the last command
func (tm *TestModel) Press(keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, key := range keys {
		_, cmd = tm.Update(key)
	}
	return cmd
}

// Type sends each rune of text as a key press
func (tm *TestModel) Type(text string) {
	for _, r := range text {
		tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Key builds a key message from a registry key name
func Key(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	case "alt+a":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}, Alt: true}
	case "alt+c":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}, Alt: true}
	case "alt+right":
		return tea.KeyMsg{Type: tea.KeyRight, Alt: true}
	case "alt+left":
		return tea.KeyMsg{Type: tea.KeyLeft, Alt: true}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// Focus moves focus straight to pane
func (tm *TestModel) Focus(pane Pane) {
	tm.setFocus(pane)
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
