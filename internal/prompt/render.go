// Package prompt renders template text against a variable environment and
// assembles the final runner prompt.
package prompt

import (
	"regexp"
	"sort"
)

// varPattern matches {{ key }} placeholders, optional whitespace inside the
// braces, key limited to [a-zA-Z_][a-zA-Z0-9_.-]*.
var varPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_.-]*)\s*\}\}`)

// Render substitutes placeholders from vars. Unresolved placeholders are
// left verbatim and their keys reported in missing.
func Render(text string, vars map[string]string) (string, map[string]struct{}) {
	missing := make(map[string]struct{})
	rendered := varPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := varPattern.FindStringSubmatch(match)[1]
		if value, ok := vars[key]; ok {
			return value
		}
		missing[key] = struct{}{}
		return match
	})
	return rendered, missing
}

// MissingKeys flattens a missing set into a sorted slice.
func MissingKeys(sets ...map[string]struct{}) []string {
	merged := make(map[string]struct{})
	for _, set := range sets {
		for key := range set {
			merged[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
