package mapping

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/roleflow/roleflow/internal/errors"
)

// Load reads a flat record from path. The extension (case-insensitive)
// selects the format: .json, .yaml, or .yml.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.CodeNotFound, err, "cannot read %s: %v", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return decodeJSON(path, data)
	case ".yaml", ".yml":
		return activeCodec.unmarshal(path, data)
	default:
		return nil, errors.Newf(errors.CodeUnsupportedFormat, "unsupported file extension: %s", ext)
	}
}

// Save writes a flat record to path in the format implied by its extension.
func Save(path string, record *Record) error {
	var data []byte
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = EncodeJSON(record)
	case ".yaml", ".yml":
		data, err = activeCodec.marshal(record)
	default:
		return errors.Newf(errors.CodeUnsupportedFormat, "unsupported file extension: %s", ext)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(errors.CodePersistFailed, err, "cannot write %s: %v", path, err)
	}
	return nil
}
