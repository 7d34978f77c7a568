package types

import (
	"bytes"
	"encoding/json"
)

// Port is a broker port that may be written either as a JSON string or a
// JSON number. The original form is kept so documents round-trip unchanged.
type Port struct {
	value   string
	numeric bool
}

// NewPort creates a port that serializes as a JSON string
func NewPort(value string) Port {
	return Port{value: value}
}

// NumericPort creates a port that serializes as a JSON number.
// The value must be a valid JSON number literal.
func NumericPort(value string) Port {
	return Port{value: value, numeric: true}
}

// String returns the port text without quotes
func (p Port) String() string {
	return p.value
}

// IsNumeric reports whether the port was written as a JSON number
func (p Port) IsNumeric() bool {
	return p.numeric
}

// MarshalJSON writes the port back in its original form
func (p Port) MarshalJSON() ([]byte, error) {
	if p.numeric && p.value != "" {
		return []byte(p.value), nil
	}
	return json.Marshal(p.value)
}

// UnmarshalJSON accepts a string, a number or null.
// Any other JSON value is kept as its raw text in string form.
func (p *Port) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	// Try to unmarshal as a string first
	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		p.value = str
		p.numeric = false
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		*p = Port{}
		return nil
	}

	// Then as a number, keeping the literal verbatim
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err == nil {
		p.value = num.String()
		p.numeric = true
		return nil
	}

	p.value = string(trimmed)
	p.numeric = false
	return nil
}
