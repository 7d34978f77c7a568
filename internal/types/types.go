package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Known broker fields. Anything else on a broker object is kept in Broker.Extra.
const (
	fieldTitle     = "title"
	fieldHost      = "host"
	fieldPort      = "port"
	fieldUsername  = "username"
	fieldPassword  = "password"
	fieldExtraArgs = "extraArgs"

	// fieldBrokers is the only top-level document field that is interpreted
	fieldBrokers = "brokers"
)

var errNotObject = errors.New("value is not a JSON object")

// Broker describes one MQTT broker a subscribing client could connect to.
// Title is the display key and is unique within a document.
type Broker struct {
	Title    string
	Host     string
	Port     Port
	Username string
	Password string

	// ExtraArgs is raw flag text appended verbatim to the address string.
	// nil means the field was absent from the document.
	ExtraArgs *string

	// Extra holds unrecognized broker fields (for example per-broker topics)
	Extra map[string]json.RawMessage

	// raw keeps the original bytes of the known fields present when decoded
	raw map[string]json.RawMessage
}

// ExtraArgsText returns the extra arguments or an empty string
func (b Broker) ExtraArgsText() string {
	if b.ExtraArgs == nil {
		return ""
	}
	return *b.ExtraArgs
}

// Clone returns a deep copy of the broker
func (b Broker) Clone() Broker {
	out := b
	if b.ExtraArgs != nil {
		extra := *b.ExtraArgs
		out.ExtraArgs = &extra
	}
	out.Extra = cloneRawMap(b.Extra)
	out.raw = cloneRawMap(b.raw)
	return out
}

// MarshalJSON writes the broker with known fields first-class and extra fields preserved.
// A decoded broker re-emits the original bytes of every known field whose value
// is unchanged and leaves out known fields it never had while they are empty.
func (b Broker) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(b.Extra)+6)
	for k, v := range b.Extra {
		fields[k] = v
	}

	known := map[string]string{
		fieldTitle:    b.Title,
		fieldHost:     b.Host,
		fieldUsername: b.Username,
		fieldPassword: b.Password,
	}
	for k, v := range known {
		if raw, ok := b.raw[k]; ok && scalarText(raw) == v {
			fields[k] = raw
			continue
		}
		if _, ok := b.raw[k]; !ok && b.decoded() && v == "" {
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal broker %s: %w", k, err)
		}
		fields[k] = data
	}

	if raw, ok := b.raw[fieldPort]; ok && decodePort(raw) == b.Port {
		fields[fieldPort] = raw
	} else if ok || !b.decoded() || b.Port != (Port{}) {
		port, err := b.Port.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to marshal broker port: %w", err)
		}
		fields[fieldPort] = port
	}

	if b.ExtraArgs != nil {
		if raw, ok := b.raw[fieldExtraArgs]; ok && scalarText(raw) == *b.ExtraArgs {
			fields[fieldExtraArgs] = raw
		} else {
			data, err := json.Marshal(*b.ExtraArgs)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal broker extraArgs: %w", err)
			}
			fields[fieldExtraArgs] = data
		}
	}

	return json.Marshal(fields)
}

// UnmarshalJSON decodes a broker object leniently: scalar fields of the
// wrong type are kept as their raw text rather than rejected.
func (b *Broker) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("invalid broker: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("invalid broker: %w", errNotObject)
	}

	*b = Broker{raw: make(map[string]json.RawMessage, 6)}
	b.Title = scalarText(fields[fieldTitle])
	b.Host = scalarText(fields[fieldHost])
	b.Username = scalarText(fields[fieldUsername])
	b.Password = scalarText(fields[fieldPassword])

	if raw, ok := fields[fieldPort]; ok {
		b.Port = decodePort(raw)
	}

	if raw, ok := fields[fieldExtraArgs]; ok {
		extra := scalarText(raw)
		b.ExtraArgs = &extra
	}

	for _, k := range []string{fieldTitle, fieldHost, fieldPort, fieldUsername, fieldPassword, fieldExtraArgs} {
		if raw, ok := fields[k]; ok {
			b.raw[k] = raw
			delete(fields, k)
		}
	}
	if len(fields) > 0 {
		b.Extra = fields
	}

	return nil
}

// decoded reports whether the broker came from JSON rather than being built in code
func (b Broker) decoded() bool {
	return b.raw != nil
}

func decodePort(raw json.RawMessage) Port {
	var p Port
	if err := p.UnmarshalJSON(raw); err != nil {
		return NewPort(string(raw))
	}
	return p
}

// Document is a configuration document: an ordered list of brokers plus
// arbitrary top-level fields carried through untouched.
//
// A value that is not a JSON object is kept verbatim and re-emitted as-is.
// A "brokers" value that is not an array of objects is kept opaquely in Extra
// and the document is treated as having no brokers.
type Document struct {
	Brokers []Broker
	Extra   map[string]json.RawMessage

	hasBrokers bool
	opaque     json.RawMessage
}

// NewDocument creates an object document with the given brokers
func NewDocument(brokers ...Broker) Document {
	if brokers == nil {
		brokers = []Broker{}
	}
	return Document{Brokers: brokers, hasBrokers: true}
}

// HasBrokers reports whether the document carries a brokers array (possibly empty)
func (d Document) HasBrokers() bool {
	return d.opaque == nil && d.hasBrokers
}

// IsObject reports whether the document was a JSON object
func (d Document) IsObject() bool {
	return d.opaque == nil
}

// FindBroker returns a copy of the broker with the given title, or nil
func (d Document) FindBroker(title string) *Broker {
	if !d.HasBrokers() {
		return nil
	}
	for i := range d.Brokers {
		if d.Brokers[i].Title == title {
			b := d.Brokers[i].Clone()
			return &b
		}
	}
	return nil
}

// Titles returns the broker titles in document order
func (d Document) Titles() []string {
	if !d.HasBrokers() {
		return nil
	}
	titles := make([]string, 0, len(d.Brokers))
	for _, b := range d.Brokers {
		titles = append(titles, b.Title)
	}
	return titles
}

// Clone returns a deep copy of the document
func (d Document) Clone() Document {
	out := Document{
		hasBrokers: d.hasBrokers,
		Extra:      cloneRawMap(d.Extra),
	}
	if d.opaque != nil {
		out.opaque = append(json.RawMessage(nil), d.opaque...)
	}
	if d.Brokers != nil {
		out.Brokers = make([]Broker, len(d.Brokers))
		for i, b := range d.Brokers {
			out.Brokers[i] = b.Clone()
		}
	}
	return out
}

// MarshalJSON writes the document back with every pass-through field intact
func (d Document) MarshalJSON() ([]byte, error) {
	if d.opaque != nil {
		return d.opaque, nil
	}

	fields := make(map[string]json.RawMessage, len(d.Extra)+1)
	for k, v := range d.Extra {
		fields[k] = v
	}

	if d.hasBrokers {
		brokers := d.Brokers
		if brokers == nil {
			brokers = []Broker{}
		}
		data, err := json.Marshal(brokers)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal brokers: %w", err)
		}
		fields[fieldBrokers] = data
	}

	return json.Marshal(fields)
}

// UnmarshalJSON never rejects a valid JSON value; see the Document doc comment
func (d *Document) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*d = Document{}

	if len(trimmed) == 0 || trimmed[0] != '{' {
		d.opaque = append(json.RawMessage(nil), trimmed...)
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fmt.Errorf("invalid configuration document: %w", err)
	}

	if raw, ok := fields[fieldBrokers]; ok {
		var brokers []Broker
		if err := json.Unmarshal(raw, &brokers); err == nil && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			if brokers == nil {
				brokers = []Broker{}
			}
			d.Brokers = brokers
			d.hasBrokers = true
			delete(fields, fieldBrokers)
		}
	}

	if len(fields) > 0 {
		d.Extra = fields
	}

	return nil
}

// HistoryEntry is one previously applied configuration
type HistoryEntry struct {
	Name   string   `json:"name"`
	Config Document `json:"config"`
}

// PersistedAppState is the serializable projection of the application state.
// The selected broker is stored by title and re-resolved on load.
type PersistedAppState struct {
	ConfigURL           string         `json:"configUrl"`
	LastURLConfig       *Document      `json:"lastUrlConfig"`
	History             []HistoryEntry `json:"history"`
	ActiveConfigName    string         `json:"activeConfigName"`
	LeftPanelWidth      string         `json:"leftPanelWidth"`
	SelectedBrokerTitle *string        `json:"selectedBrokerTitle"`
	SelectedTopics      []string       `json:"selectedTopics"`
}

// scalarText returns a JSON string's value, "" for null or absent, and the raw
// text for any other JSON value
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	return string(trimmed)
}

func cloneRawMap(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
