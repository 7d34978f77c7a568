// Package document normalizes, compares and names configuration documents.
package document

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/studiowebux/mqttcmd/internal/timefmt"
	"github.com/studiowebux/mqttcmd/internal/types"
)

const (
	// Placeholder is the display name of a document without brokers
	Placeholder = "new configuration"

	displayNameLimit = 30
	ellipsis         = "..."
)

// ErrInvalidJSON is returned when document text is not valid JSON
var ErrInvalidJSON = errors.New("invalid JSON")

//go:embed default_config.json
var bundledDefault []byte

// Normalize turns a JSON value into a Document. It never fails: values that
// are not objects, or objects without brokers, are carried through as-is.
// Bytes that are not JSON at all yield an empty document.
func Normalize(raw json.RawMessage) types.Document {
	var doc types.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return types.Document{}
	}
	return doc
}

// Parse strictly parses document text. Used by apply actions, which must
// refuse malformed input instead of passing it through.
func Parse(text string) (types.Document, error) {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return types.Document{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return Normalize(raw), nil
}

// Canonical returns the canonical JSON text of a document: keys sorted at
// every depth, two-space indentation, numbers kept verbatim.
func Canonical(doc types.Document) string {
	data, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return canonicalize(data)
}

// Equal reports whether two documents have the same canonical text
func Equal(a, b types.Document) bool {
	return Canonical(a) == Canonical(b)
}

func canonicalize(data []byte) string {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return string(data)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return string(data)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// DisplayName joins the broker titles, truncated to 30 characters
func DisplayName(doc types.Document) string {
	if !doc.HasBrokers() || len(doc.Brokers) == 0 {
		return Placeholder
	}

	joined := []rune(strings.Join(doc.Titles(), ", "))
	if len(joined) > displayNameLimit {
		return string(joined[:displayNameLimit-len(ellipsis)]) + ellipsis
	}
	return string(joined)
}

// TimestampedName is the display name followed by the formatted time in parentheses
func TimestampedName(doc types.Document, now time.Time) string {
	return fmt.Sprintf("%s (%s)", DisplayName(doc), timefmt.Format(now))
}

// Default returns the bundled default document
func Default() types.Document {
	if len(bytes.TrimSpace(bundledDefault)) == 0 {
		return types.NewDocument()
	}
	return Normalize(bundledDefault)
}

// DefaultFrom reads a default document from path, falling back to the
// bundled one when path is empty, unreadable or not valid JSON.
func DefaultFrom(path string) types.Document {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}

	doc, err := Parse(string(data))
	if err != nil {
		return Default()
	}
	return doc
}
