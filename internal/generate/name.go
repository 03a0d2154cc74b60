// Package generate builds templates from a natural-language request by
// driving the runner with a generation prompt and parsing its JSON reply.
package generate

import (
	"regexp"
	"strings"
	"unicode"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "for": {}, "from": {}, "i": {}, "is": {},
	"it": {}, "of": {}, "or": {}, "please": {}, "role": {}, "template": {},
	"that": {}, "the": {}, "this": {}, "to": {}, "want": {}, "with": {},
}

// DeriveName turns a free-form request into a template stem: lowercase
// words minus stopwords, at most five words and 48 characters, never
// starting with a digit.
func DeriveName(request string) string {
	words := wordPattern.FindAllString(strings.ToLower(request), -1)
	var filtered []string
	for _, word := range words {
		if _, stop := stopwords[word]; !stop {
			filtered = append(filtered, word)
		}
	}
	chosen := filtered
	if len(chosen) == 0 {
		chosen = words
	}
	if len(chosen) == 0 {
		return "generated-role"
	}
	if len(chosen) > 5 {
		chosen = chosen[:5]
	}
	base := strings.Join(chosen, "-")
	if len(base) > 48 {
		base = base[:48]
	}
	base = strings.Trim(base, "-")
	if base == "" {
		return "generated-role"
	}
	if unicode.IsDigit(rune(base[0])) {
		base = "role-" + base
	}
	return base
}
