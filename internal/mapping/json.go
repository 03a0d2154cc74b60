package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roleflow/roleflow/internal/errors"
)

// MarshalJSON encodes the record as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encodedValue, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("encode value for key %q: %w", key, err)
		}
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeJSON renders the record as 2-space indented JSON with a trailing
// newline, the canonical on-disk form.
func EncodeJSON(r *Record) ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// decodeJSON parses a JSON document into a record, preserving top-level key
// order via token streaming. The document must be a single object.
func decodeJSON(path string, data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrapf(errors.CodeMalformedJSON, err, "invalid JSON in %s: %v", path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.Newf(errors.CodeNotAMapping, "file %s must contain an object/map", path)
	}

	record := NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrapf(errors.CodeMalformedJSON, err, "invalid JSON in %s: %v", path, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.Newf(errors.CodeMalformedJSON, "invalid JSON in %s: non-string key", path)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrapf(errors.CodeMalformedJSON, err, "invalid JSON in %s: %v", path, err)
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, errors.Wrapf(errors.CodeMalformedJSON, err, "invalid JSON in %s: %v", path, err)
		}
		record.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrapf(errors.CodeMalformedJSON, err, "invalid JSON in %s: %v", path, err)
	}
	// Anything after the closing brace is a malformed document.
	if dec.More() {
		return nil, errors.Newf(errors.CodeMalformedJSON, "invalid JSON in %s: trailing data", path)
	}
	return record, nil
}
