package generate

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/roleflow/roleflow/internal/errors"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSONObject pulls the first JSON object out of runner output. It
// tries a fenced block, then the whole payload, then every `{` offset in
// order.
func ExtractJSONObject(text string) (map[string]any, error) {
	payload := strings.TrimSpace(text)
	if payload == "" {
		return nil, errors.New(errors.CodeMalformedJSON, "runner returned empty output; expected JSON object")
	}
	if match := fencePattern.FindStringSubmatch(payload); match != nil {
		payload = strings.TrimSpace(match[1])
	}

	var direct map[string]any
	if err := json.Unmarshal([]byte(payload), &direct); err == nil {
		return direct, nil
	}

	for idx, ch := range payload {
		if ch != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(payload[idx:]))
		var candidate map[string]any
		if err := dec.Decode(&candidate); err == nil {
			return candidate, nil
		}
	}
	return nil, errors.New(errors.CodeMalformedJSON, "could not parse a JSON object from runner output")
}
