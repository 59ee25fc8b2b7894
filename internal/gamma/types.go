package gamma

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Gamma is loose about scalar types: numbers and booleans arrive both bare
// and string-quoted, ids are sometimes numeric, and timestamps come in a
// handful of layouts. The types below absorb that at decode time so the rest
// of the pipeline only sees Go values.

// ID decodes a string or numeric JSON id into a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Number decodes a JSON number or a numeric string.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) Float64() float64 { return float64(n) }

// Flag decodes a JSON bool or a "true"/"false"/"1"/"0" string.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "":
		return nil
	case "true", `"true"`, `"1"`, "1":
		*f = true
		return nil
	case "false", `"false"`, `"0"`, "0":
		*f = false
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*f = Flag(b)
	return nil
}

func (f Flag) Bool() bool { return bool(f) }

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05-07",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp decodes the timestamp layouts Gamma is known to emit.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	// Unknown layout: drop the value rather than failing the document.
	return nil
}

func (t *Timestamp) TimePtr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	out := t.Time
	return &out
}
