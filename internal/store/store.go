package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/roleflow/roleflow/internal/core"
	"github.com/roleflow/roleflow/internal/errors"
	"github.com/roleflow/roleflow/internal/mapping"
)

// LoadTemplate resolves a name and loads the normalized template. The file
// stem supplies the name field when the record omits it.
func (s *Store) LoadTemplate(name string) (string, *core.Template, error) {
	path, err := s.ResolveExisting(name)
	if err != nil {
		return "", nil, err
	}
	template, err := s.LoadTemplateFile(path)
	if err != nil {
		return "", nil, err
	}
	return path, template, nil
}

// LoadTemplateFile loads and normalizes the template at a known path.
func (s *Store) LoadTemplateFile(path string) (*core.Template, error) {
	record, err := mapping.Load(path)
	if err != nil {
		return nil, err
	}
	return core.Normalize(record, stemOf(path))
}

// SaveTemplate writes a template to path in the format implied by the
// extension. The record goes through normalization again so nothing invalid
// can reach disk.
func (s *Store) SaveTemplate(path string, template *core.Template) error {
	normalized, err := core.Normalize(template.Record(), "")
	if err != nil {
		return err
	}
	return mapping.Save(path, normalized.Record())
}

// DeleteTemplate removes a template file.
func (s *Store) DeleteTemplate(path string) error {
	if err := os.Remove(path); err != nil {
		return errors.Wrapf(errors.CodePersistFailed, err, "cannot delete %s", path)
	}
	return nil
}

// FormatOf reports the serialization format of a template file path.
func FormatOf(path string) core.Format {
	format, _ := core.FormatForExt(strings.ToLower(filepath.Ext(path)))
	return format
}

// ListTemplates loads every template in the store in listing order.
func (s *Store) ListTemplates() ([]string, []*core.Template, error) {
	files, err := s.ListFiles()
	if err != nil {
		return nil, nil, err
	}
	templates := make([]*core.Template, 0, len(files))
	for _, file := range files {
		template, err := s.LoadTemplateFile(file)
		if err != nil {
			return nil, nil, err
		}
		templates = append(templates, template)
	}
	return files, templates, nil
}
