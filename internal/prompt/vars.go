package prompt

import (
	"os"
	"strings"

	"github.com/roleflow/roleflow/internal/errors"
)

// ParseVars parses repeated KEY=VALUE flag values into a variable map.
func ParseVars(items []string) (map[string]string, error) {
	out := make(map[string]string, len(items))
	for _, item := range items {
		key, value, found := strings.Cut(item, "=")
		if !found {
			return nil, errors.Newf(errors.CodeInvalidInput, "invalid --var `%s`. Expected KEY=VALUE", item)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, errors.Newf(errors.CodeInvalidInput, "invalid --var `%s`. Empty key", item)
		}
		out[key] = value
	}
	return out, nil
}

// ReadTextArg returns the flag value itself, or the contents of the file it
// names when the value starts with `@`.
func ReadTextArg(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	path := value[1:]
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Newf(errors.CodeNotFound, "file not found: %s", path)
	}
	return string(data), nil
}
