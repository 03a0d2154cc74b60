package core

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roleflow/roleflow/internal/errors"
)

// durationChunk matches one <number><unit> chunk of a compound duration.
var durationChunk = regexp.MustCompile(`(\d+(?:\.\d+)?)([smhd])`)

var unitSeconds = map[string]float64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// ParseDurationSeconds parses a compound duration like "1h30m" into total
// seconds. The chunks must cover the whole string; the total must be
// positive. The field name is only used in error messages.
func ParseDurationSeconds(raw, field string) (float64, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return 0, errors.Newf(errors.CodeInvalidDuration, "field `%s` cannot be empty", field)
	}
	chunks := durationChunk.FindAllStringSubmatch(value, -1)
	if len(chunks) == 0 || strings.Join(matchedText(chunks), "") != value {
		return 0, errors.Newf(errors.CodeInvalidDuration,
			"invalid duration `%s` for `%s`. Use values like 30s, 10m, 2h, 1h30m", raw, field)
	}
	var total float64
	for _, chunk := range chunks {
		amount, err := strconv.ParseFloat(chunk[1], 64)
		if err != nil {
			return 0, errors.Newf(errors.CodeInvalidDuration,
				"invalid duration `%s` for `%s`. Use values like 30s, 10m, 2h, 1h30m", raw, field)
		}
		total += amount * unitSeconds[chunk[2]]
	}
	if total <= 0 {
		return 0, errors.Newf(errors.CodeInvalidDuration,
			"duration for `%s` must be greater than zero", field)
	}
	return total, nil
}

func matchedText(chunks [][]string) []string {
	out := make([]string, len(chunks))
	for i, chunk := range chunks {
		out[i] = chunk[0]
	}
	return out
}
