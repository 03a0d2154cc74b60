package output

import (
	"encoding/json"
	"fmt"
)

// FormatJSON renders a value as 2-space indented JSON.
func FormatJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(out), nil
}
