// Package highlight colors shell commands and JSON for the terminal.
package highlight

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	DefaultStyle = "monokai"

	lexerShell = "bash"
	lexerJSON  = "json"
)

type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
	enabled   bool
}

// New creates a highlighter using the named chroma style.
// Unknown styles fall back to chroma's default. When enabled is false the
// input is returned unchanged.
func New(styleName string, enabled bool) *Highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	return &Highlighter{style: style, formatter: formatter, enabled: enabled}
}

// Shell highlights a shell command line
func (h *Highlighter) Shell(source string) string {
	return h.render(lexerShell, source)
}

// JSON highlights a JSON document
func (h *Highlighter) JSON(source string) string {
	return h.render(lexerJSON, source)
}

func (h *Highlighter) render(language, source string) string {
	if !h.enabled || source == "" {
		return source
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return source
	}
	return buf.String()
}
