package mapping

import (
	"encoding/json"
	"strings"

	"github.com/roleflow/roleflow/internal/errors"
)

// fallbackCodec is a minimal line-oriented YAML subset codec. It covers only
// what template files use: top-level `key: scalar` lines and `key: |-` block
// scalars with 2-space continuation. Nested mappings are rejected.
type fallbackCodec struct{}

func (fallbackCodec) unmarshal(path string, data []byte) (*Record, error) {
	record := NewRecord()
	lines := strings.Split(string(data), "\n")
	// Split leaves a phantom empty element after a trailing newline.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		i++
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		if strings.HasPrefix(line, " ") {
			return nil, errors.Newf(errors.CodeMalformedMapping,
				"unsupported YAML indentation in %s (fallback parser)", path)
		}
		key, raw, found := strings.Cut(line, ":")
		if !found {
			return nil, errors.Newf(errors.CodeMalformedMapping, "invalid YAML line in %s: %s", path, line)
		}
		key = strings.TrimSpace(key)
		raw = strings.TrimSpace(raw)
		if key == "" {
			return nil, errors.Newf(errors.CodeMalformedMapping, "invalid YAML key in %s", path)
		}
		if raw == "|" || raw == "|-" {
			var block []string
			for i < len(lines) {
				next := lines[i]
				if strings.HasPrefix(next, "  ") {
					block = append(block, next[2:])
					i++
					continue
				}
				if next == "" {
					block = append(block, "")
					i++
					continue
				}
				break
			}
			record.Set(key, strings.TrimRight(strings.Join(block, "\n"), "\n"))
			continue
		}
		record.Set(key, parseScalar(raw))
	}
	return record, nil
}

// parseScalar interprets a single YAML scalar token from the subset grammar.
func parseScalar(token string) any {
	switch token {
	case "null", "~":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) && len(token) >= 2 {
		var out string
		if err := json.Unmarshal([]byte(token), &out); err == nil {
			return out
		}
		return token[1 : len(token)-1]
	}
	if strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") && len(token) >= 2 {
		return strings.ReplaceAll(token[1:len(token)-1], "''", "'")
	}
	if strings.HasPrefix(token, "[") || strings.HasPrefix(token, "{") {
		var out any
		if err := json.Unmarshal([]byte(token), &out); err == nil {
			return out
		}
		return token
	}
	return token
}

func (fallbackCodec) marshal(record *Record) ([]byte, error) {
	var b strings.Builder
	for _, key := range record.Keys() {
		value, _ := record.Get(key)
		switch v := value.(type) {
		case nil:
			b.WriteString(key + ": null\n")
		case bool:
			if v {
				b.WriteString(key + ": true\n")
			} else {
				b.WriteString(key + ": false\n")
			}
		case string:
			if strings.Contains(v, "\n") {
				b.WriteString(key + ": |-\n")
				for _, line := range strings.Split(v, "\n") {
					b.WriteString("  " + line + "\n")
				}
			} else {
				encoded, err := json.Marshal(v)
				if err != nil {
					return nil, err
				}
				b.WriteString(key + ": " + string(encoded) + "\n")
			}
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			b.WriteString(key + ": " + string(encoded) + "\n")
		}
	}
	return []byte(b.String()), nil
}
