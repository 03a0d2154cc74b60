// Package core defines the role template entity and its validation rules.
package core

import (
	"fmt"
	"strings"
)

// Scope says whether a template applies generally or to a specific target.
type Scope string

const (
	ScopeGeneral  Scope = "general"
	ScopeSpecific Scope = "specific"
)

// Format is a template serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultTemplateFormat is used when neither the name nor the config pick one.
const DefaultTemplateFormat = FormatJSON

// DefaultProfileName names the profile created by init and used when
// normalizing legacy configs.
const DefaultProfileName = "default"

// DefaultRepeatEvery is the run-time cadence applied when a template sets
// repeat_for without repeat_every. It is never persisted.
const DefaultRepeatEvery = "10m"

// KnownExtensions lists template file extensions in resolution order.
var KnownExtensions = []string{".json", ".yaml", ".yml"}

// FormatForExt maps a (lowercased) extension to its format.
func FormatForExt(ext string) (Format, bool) {
	switch ext {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// ExtForFormat maps a format to its canonical extension.
func ExtForFormat(format Format) string {
	if format == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// ParseFormat validates a user-supplied format string.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("template format must be `json` or `yaml`, got %q", raw)
}
