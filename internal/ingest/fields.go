package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a numeric input field that never fails to decode. Numbers and
// numeric strings are accepted; null, empty strings and anything else decode
// to 0, as do NaN and infinities.
type Number float64

// Float returns the value as float64.
func (n Number) Float() float64 { return float64(n) }

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = 0
			return nil //nolint:nilerr // Malformed numeric strings decode to zero.
		}
		*n = Number(looseFloat(s))
		return nil
	}
	*n = Number(looseFloat(string(b)))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		*n = 0
		return nil
	}
	*n = Number(looseFloat(value.Value))
	return nil
}

func looseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "~" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ID is an identifier that may be written as a string or a number.
type ID string

// String returns the identifier.
func (id ID) String() string { return string(id) }

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*id = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*id = ID(strings.TrimSpace(s))
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("decoding id: expected string or number, got %s", b)
	default:
		*id = ID(string(b))
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("decoding id at line %d: expected scalar", value.Line)
	}
	if value.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = ID(strings.TrimSpace(value.Value))
	return nil
}
