package payload

import (
	"bytes"
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// Attribute names the transformer understands inside an entry.
const (
	attrName  = "name"
	attrValue = "value"
)

// Entry is a single JSON object inside a payload cell. Attribute order from
// the source document is preserved on re-encoding, and attributes other than
// name and value are carried through as raw JSON without reinterpretation.
type Entry struct {
	keys   []string
	values map[string]json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler
func (e *Entry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return errors.Errorf("reading entry open: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("payload entry is not a JSON object")
	}

	e.keys = nil
	e.values = make(map[string]json.RawMessage)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Errorf("reading attribute name: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.Errorf("attribute name is not a string: %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.Errorf("reading attribute %q: %w", key, err)
		}

		// Duplicate attributes keep their first position and last value
		if _, seen := e.values[key]; !seen {
			e.keys = append(e.keys, key)
		}
		e.values[key] = raw
	}

	if _, err := dec.Token(); err != nil {
		return errors.Errorf("reading entry close: %w", err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler, writing attributes back in their
// original order without escaping non-ASCII text.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	e.appendTo(&buf)
	return buf.Bytes(), nil
}

func (e Entry) appendTo(buf *bytes.Buffer) {
	buf.WriteByte('{')
	for i, key := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodeString(key))
		buf.WriteByte(':')
		buf.Write(e.values[key])
	}
	buf.WriteByte('}')
}

// Name returns the entry's name attribute. The second return is false when the
// attribute is absent or not a JSON string.
func (e *Entry) Name() (string, bool) {
	return e.stringAttr(attrName)
}

// Value returns the entry's value attribute. The second return is false when
// the attribute is absent or not a JSON string.
func (e *Entry) Value() (string, bool) {
	return e.stringAttr(attrValue)
}

// SetValue replaces the entry's value attribute, keeping its position when the
// attribute already exists.
func (e *Entry) SetValue(s string) {
	if e.values == nil {
		e.values = make(map[string]json.RawMessage)
	}
	if _, ok := e.values[attrValue]; !ok {
		e.keys = append(e.keys, attrValue)
	}
	e.values[attrValue] = json.RawMessage(encodeString(s))
}

func (e *Entry) stringAttr(key string) (string, bool) {
	raw, ok := e.values[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// encodeString renders s as a JSON string without HTML or non-ASCII escaping.
func encodeString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // encoding a plain string cannot fail
	return bytes.TrimRight(buf.Bytes(), "\n")
}
