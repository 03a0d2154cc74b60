// Package store owns the on-disk template library: the directory layout
// under the project root, template name resolution across the known file
// extensions, and template load/save/delete.
package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/roleflow/roleflow/internal/errors"
)

const (
	// ConfigDirName is the per-project configuration directory.
	ConfigDirName = ".roleflow"
	// TemplatesDirName holds template files inside the config directory.
	TemplatesDirName = "templates"
	// ConfigFileName is the runner/profile configuration file.
	ConfigFileName = "config.json"
)

// Store addresses a template library rooted at a project directory.
type Store struct {
	root string
}

// ResolveRoot resolves the effective project root from a flag value; empty
// means the current working directory. The result is absolute with ~
// expanded.
func ResolveRoot(flag string) (string, error) {
	if strings.TrimSpace(flag) == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(errors.CodeInvalidInput, err, "cannot resolve current directory")
		}
		return cwd, nil
	}
	path := flag
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(errors.CodeInvalidInput, err, "cannot expand ~ in root path")
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(errors.CodeInvalidInput, err, "invalid root path %q", flag)
	}
	return abs, nil
}

// New creates a store for the given (already resolved) project root.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the project root directory.
func (s *Store) Root() string { return s.root }

// ConfigDir returns <root>/.roleflow.
func (s *Store) ConfigDir() string { return filepath.Join(s.root, ConfigDirName) }

// TemplatesDir returns <root>/.roleflow/templates.
func (s *Store) TemplatesDir() string { return filepath.Join(s.ConfigDir(), TemplatesDirName) }

// ConfigFile returns <root>/.roleflow/config.json.
func (s *Store) ConfigFile() string { return filepath.Join(s.ConfigDir(), ConfigFileName) }

// EnsureInitialized fails unless the config dir, templates dir, and config
// file all exist, listing whatever is missing.
func (s *Store) EnsureInitialized() error {
	var missing []string
	for _, path := range []string{s.ConfigDir(), s.TemplatesDir(), s.ConfigFile()} {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return errors.Newf(errors.CodeNotInitialized,
			"project is not initialized. Run `roleflow init` first. Missing:\n - %s",
			strings.Join(missing, "\n - "))
	}
	return nil
}

// CreateLayout creates the config and templates directories. Unless force is
// set, an existing config directory is an error.
func (s *Store) CreateLayout(force bool) error {
	if _, err := os.Stat(s.ConfigDir()); err == nil && !force {
		return errors.Newf(errors.CodeAlreadyExists,
			"%s already exists. Use --force to overwrite starter config/templates", s.ConfigDir())
	}
	for _, dir := range []string{s.ConfigDir(), s.TemplatesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(errors.CodePersistFailed, err, "cannot create directory %s", dir)
		}
	}
	return nil
}
