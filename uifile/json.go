package uifile

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseJSON parses a ProgramUI.json document: a flat object of strings.
// Key order is preserved.
func ParseJSON(data []byte) (*File, error) {
	f := New()
	if err := f.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return f, nil
}

// UnmarshalJSON implements json.Unmarshaler, reading tokens one by one so
// the document's key order survives.
func (f *File) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	t, err := dec.Token()
	if err != nil {
		return err
	}
	if t == nil {
		// JSON null decodes to an empty file.
		f.entries, f.index = nil, make(map[string]int)
		return nil
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected {, got %v", t)
	}

	out := New()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %T", kt)
		}

		vt, err := dec.Token()
		if err != nil {
			return err
		}
		value, ok := vt.(string)
		if !ok {
			return fmt.Errorf("expected string value for key %q, got %T", key, vt)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading closing brace: %w", err)
	}

	f.entries, f.index = out.entries, out.index
	return nil
}

// MarshalJSON implements json.Marshaler, writing keys in document order.
func (f *File) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range f.entriesOrNil() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, e.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, e.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalIndent renders ProgramUI.json with 2-space indentation.
func (f *File) MarshalIndent() ([]byte, error) {
	compact, err := f.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// writeJSONString writes s as a JSON string without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encoder terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
