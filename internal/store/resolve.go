package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/roleflow/roleflow/internal/core"
	"github.com/roleflow/roleflow/internal/errors"
)

// SplitName validates a template name and splits it into a stem and an
// explicit extension. The extension is empty when the name does not carry a
// known template extension.
func SplitName(name string) (stem, ext string, err error) {
	if strings.TrimSpace(name) == "" {
		return "", "", errors.New(errors.CodeInvalidName, "template name cannot be empty")
	}
	if filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", "", errors.New(errors.CodeInvalidName, "template name cannot contain path separators")
	}
	suffix := strings.ToLower(filepath.Ext(name))
	if _, known := core.FormatForExt(suffix); known {
		stem = name[:len(name)-len(suffix)]
		if stem == "" {
			return "", "", errors.New(errors.CodeInvalidName, "template name cannot be empty")
		}
		return stem, suffix, nil
	}
	return name, "", nil
}

// FindByStem returns the existing template files for a stem, one per known
// extension, ordered by extension.
func (s *Store) FindByStem(stem string) []string {
	var out []string
	for _, ext := range core.KnownExtensions {
		candidate := filepath.Join(s.TemplatesDir(), stem+ext)
		if _, err := os.Stat(candidate); err == nil {
			out = append(out, candidate)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return filepath.Ext(out[i]) < filepath.Ext(out[j])
	})
	return out
}

// ListFiles returns every template file under the store, sorted by stem then
// extension.
func (s *Store) ListFiles() ([]string, error) {
	var files []string
	for _, ext := range core.KnownExtensions {
		matches, err := filepath.Glob(filepath.Join(s.TemplatesDir(), "*"+ext))
		if err != nil {
			return nil, errors.Wrap(errors.CodeInvalidInput, err, "cannot scan templates directory")
		}
		files = append(files, matches...)
	}
	sort.Slice(files, func(i, j int) bool {
		si, sj := stemOf(files[i]), stemOf(files[j])
		if si != sj {
			return si < sj
		}
		return filepath.Ext(files[i]) < filepath.Ext(files[j])
	})
	return files, nil
}

// Stems returns the distinct template stems in the store, sorted.
func (s *Store) Stems() ([]string, error) {
	files, err := s.ListFiles()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var stems []string
	for _, file := range files {
		stem := stemOf(file)
		if _, ok := seen[stem]; !ok {
			seen[stem] = struct{}{}
			stems = append(stems, stem)
		}
	}
	return stems, nil
}

// ResolveExisting maps a template name to the single existing file it
// denotes. An explicit extension must match exactly; otherwise the stem must
// identify exactly one file across the known extensions.
func (s *Store) ResolveExisting(name string) (string, error) {
	stem, ext, err := SplitName(name)
	if err != nil {
		return "", err
	}
	if ext != "" {
		path := filepath.Join(s.TemplatesDir(), stem+ext)
		if _, err := os.Stat(path); err != nil {
			return "", errors.Newf(errors.CodeNotFound, "template `%s` not found at %s", name, path)
		}
		return path, nil
	}
	matches := s.FindByStem(stem)
	if len(matches) == 0 {
		return "", errors.Newf(errors.CodeNotFound, "template `%s` not found%s", name, s.suggestion(stem))
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, match := range matches {
			names[i] = filepath.Base(match)
		}
		return "", errors.Newf(errors.CodeAmbiguousName,
			"template name `%s` is ambiguous. Use one of: %s", name, strings.Join(names, ", "))
	}
	return matches[0], nil
}

// ResolveNew picks the target path for a template about to be written.
// Precedence for the extension: explicit extension in the name (which must
// not conflict with an explicitly requested format), then the format
// override, then the caller's preserve-extension hint (rename/copy/convert),
// then the configured default format.
func (s *Store) ResolveNew(name string, format core.Format, preserveExt string, defaultFormat core.Format) (string, error) {
	stem, ext, err := SplitName(name)
	if err != nil {
		return "", err
	}
	if ext != "" {
		implied, _ := core.FormatForExt(ext)
		if format != "" && format != implied {
			return "", errors.Newf(errors.CodeFormatConflict,
				"conflicting format for `%s`. Extension implies %s", name, implied)
		}
		return filepath.Join(s.TemplatesDir(), stem+ext), nil
	}
	switch {
	case format != "":
		ext = core.ExtForFormat(format)
	case preserveExt != "":
		ext = preserveExt
	case defaultFormat != "":
		ext = core.ExtForFormat(defaultFormat)
	default:
		ext = core.ExtForFormat(core.DefaultTemplateFormat)
	}
	return filepath.Join(s.TemplatesDir(), stem+ext), nil
}

// EnsureStemNotAmbiguous enforces the one-file-per-stem invariant before a
// create, rename, or copy: any existing file for the stem other than the
// target itself is a conflict.
func (s *Store) EnsureStemNotAmbiguous(stem, targetPath string) error {
	for _, path := range s.FindByStem(stem) {
		if path != targetPath {
			return errors.Newf(errors.CodeDuplicateStem,
				"template stem `%s` already exists as `%s`. Use a different name, or rename/delete the old template first",
				stem, filepath.Base(path))
		}
	}
	return nil
}

// MaybeResolveExisting resolves a name to an existing file, returning empty
// (not an error) when nothing matches. Ambiguity is still an error.
func (s *Store) MaybeResolveExisting(name string) (string, error) {
	stem, ext, err := SplitName(name)
	if err != nil {
		return "", err
	}
	if ext != "" {
		path := filepath.Join(s.TemplatesDir(), stem+ext)
		if _, err := os.Stat(path); err != nil {
			return "", nil
		}
		return path, nil
	}
	matches := s.FindByStem(stem)
	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, match := range matches {
			names[i] = filepath.Base(match)
		}
		return "", errors.Newf(errors.CodeAmbiguousName,
			"template name `%s` is ambiguous. Use one of: %s", name, strings.Join(names, ", "))
	}
}

// NextAvailableStem appends -2, -3, ... until the stem no longer collides
// with an existing template.
func (s *Store) NextAvailableStem(base string) string {
	candidate := base
	for suffix := 2; len(s.FindByStem(candidate)) > 0; suffix++ {
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
	return candidate
}

// suggestion formats a "did you mean" hint from the closest known stem.
func (s *Store) suggestion(stem string) string {
	stems, err := s.Stems()
	if err != nil || len(stems) == 0 {
		return ""
	}
	matches := fuzzy.Find(stem, stems)
	if len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf(" (did you mean `%s`?)", matches[0].Str)
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
