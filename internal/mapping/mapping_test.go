package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roleflow/roleflow/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSONPreservesKeyOrder(t *testing.T) {
	path := writeFile(t, "t.json", `{"zeta": 1, "alpha": "two", "mid": true}`)
	record, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"zeta", "alpha", "mid"}, record.Keys())

	value, ok := record.Get("alpha")
	require.True(t, ok)
	require.Equal(t, "two", value)
}

func TestLoadJSONRejectsNonObject(t *testing.T) {
	for _, content := range []string{`[1, 2]`, `"text"`, `42`} {
		path := writeFile(t, "t.json", content)
		_, err := Load(path)
		require.Equal(t, errors.CodeNotAMapping, errors.CodeOf(err), content)
	}
}

func TestLoadJSONRejectsMalformedDocument(t *testing.T) {
	for _, content := range []string{`{"a":`, `{"a": 1} trailing`, ``} {
		path := writeFile(t, "t.json", content)
		_, err := Load(path)
		require.Error(t, err, content)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "t.toml", `a = 1`)
	_, err := Load(path)
	require.Equal(t, errors.CodeUnsupportedFormat, errors.CodeOf(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestSaveThenLoadJSONRoundTrip(t *testing.T) {
	record := NewRecord()
	record.Set("name", "demo")
	record.Set("count", float64(3))
	record.Set("body", "line one\nline two")

	path := filepath.Join(t.TempDir(), "demo.json")
	require.NoError(t, Save(path, record))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, data[len(data)-1] == '\n')

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, record.Keys(), loaded.Keys())
	body, _ := loaded.Get("body")
	require.Equal(t, "line one\nline two", body)
}

func TestSaveThenLoadYAMLRoundTrip(t *testing.T) {
	record := NewRecord()
	record.Set("name", "demo")
	record.Set("role_prompt", "first line\nsecond line")
	record.Set("scope", "general")

	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, Save(path, record))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"name", "role_prompt", "scope"}, loaded.Keys())
	prompt, _ := loaded.Get("role_prompt")
	require.Equal(t, "first line\nsecond line", prompt)
}

func TestYAMLEngineRejectsNonMapping(t *testing.T) {
	path := writeFile(t, "t.yaml", "- one\n- two\n")
	_, err := Load(path)
	require.Equal(t, errors.CodeNotAMapping, errors.CodeOf(err))
}

func TestRecordInsertionSemantics(t *testing.T) {
	record := NewRecord()
	record.Set("a", 1)
	record.Set("b", 2)
	record.Set("a", 3)
	require.Equal(t, []string{"a", "b"}, record.Keys())

	value, _ := record.Get("a")
	require.Equal(t, 3, value)

	record.Delete("a")
	require.False(t, record.Has("a"))
	require.Equal(t, 1, record.Len())
}
