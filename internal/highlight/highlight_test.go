package highlight

import (
	"regexp"
	"strings"
	"testing"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestShell_Colors(t *testing.T) {
	h := New(DefaultStyle, true)
	src := "mqttx sub -h 'localhost' -p '1883' -t 'a/b'"

	out := h.Shell(src)
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("expected ANSI escapes, got %q", out)
	}
	if plain := ansi.ReplaceAllString(out, ""); !strings.Contains(plain, "'localhost'") {
		t.Errorf("highlighted text lost content: %q", plain)
	}
}

func TestJSON_Colors(t *testing.T) {
	h := New("no-such-style", true)
	out := h.JSON(`{"brokers": []}`)

	if plain := ansi.ReplaceAllString(out, ""); !strings.Contains(plain, `"brokers"`) {
		t.Errorf("highlighted text lost content: %q", plain)
	}
}

func TestDisabled(t *testing.T) {
	h := New(DefaultStyle, false)
	src := `{"a": 1}`
	if got := h.JSON(src); got != src {
		t.Errorf("JSON() = %q, want unchanged", got)
	}
	if got := h.Shell(""); got != "" {
		t.Errorf("Shell(\"\") = %q", got)
	}
}
