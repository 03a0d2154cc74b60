package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roleflow/roleflow/internal/core"
	"github.com/roleflow/roleflow/internal/errors"
	"github.com/roleflow/roleflow/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(t.TempDir())
	require.NoError(t, s.CreateLayout(false))
	return s
}

func writeConfig(t *testing.T, s *store.Store, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(s.ConfigFile(), []byte(content), 0o644))
}

func TestLoadProfilesConfig(t *testing.T) {
	s := newTestStore(t)
	writeConfig(t, s, `{
  "default_profile": "fast",
  "default_template_format": "yaml",
  "profiles": {
    "fast": {"command": "codex", "args": ["--full-auto"], "prompt_mode": "stdin"},
    "flagged": {"command": "llm", "prompt_mode": "arg", "prompt_flag": "-p"}
  }
}`)

	cfg, err := Load(s)
	require.NoError(t, err)
	require.Equal(t, "fast", cfg.DefaultProfile)
	require.Equal(t, core.FormatYAML, cfg.DefaultTemplateFormat)
	require.Equal(t, []string{"fast", "flagged"}, cfg.ProfileNames())

	fast := cfg.Profiles["fast"]
	require.Equal(t, "codex", fast.Command)
	require.Equal(t, []string{"--full-auto"}, fast.Args)
	require.Equal(t, PromptModeStdin, fast.PromptMode)
	require.Equal(t, DefaultPromptFlag, fast.PromptFlag)

	flagged := cfg.Profiles["flagged"]
	require.Equal(t, PromptModeArg, flagged.PromptMode)
	require.Equal(t, "-p", flagged.PromptFlag)
}

func TestLoadLegacyRunnerConfig(t *testing.T) {
	s := newTestStore(t)
	writeConfig(t, s, `{"runner": {"command": "codex", "args": [], "prompt_mode": "stdin"}}`)

	cfg, err := Load(s)
	require.NoError(t, err)
	require.Equal(t, core.DefaultProfileName, cfg.DefaultProfile)
	require.Equal(t, core.DefaultTemplateFormat, cfg.DefaultTemplateFormat)
	require.Len(t, cfg.Profiles, 1)
	require.Equal(t, "codex", cfg.Profiles[core.DefaultProfileName].Command)
}

func TestLoadConfigErrorCodes(t *testing.T) {
	cases := []struct {
		name    string
		content string
		code    string
	}{
		{"empty default", `{"default_profile": "", "profiles": {"a": {"command": "x"}}}`, errors.CodeEmptyDefaultProfile},
		{"missing default", `{"profiles": {"a": {"command": "x"}}}`, errors.CodeEmptyDefaultProfile},
		{"empty profiles", `{"default_profile": "a", "profiles": {}}`, errors.CodeEmptyProfiles},
		{"profiles not object", `{"default_profile": "a", "profiles": []}`, errors.CodeEmptyProfiles},
		{"unknown default", `{"default_profile": "b", "profiles": {"a": {"command": "x"}}}`, errors.CodeUnknownDefaultProfile},
		{"bad format", `{"default_profile": "a", "default_template_format": "xml", "profiles": {"a": {"command": "x"}}}`, errors.CodeInvalidTemplateFormat},
		{"neither shape", `{"other": 1}`, errors.CodeEmptyProfiles},
		{"empty command", `{"default_profile": "a", "profiles": {"a": {"command": "  "}}}`, errors.CodeInvalidProfile},
		{"args not list", `{"default_profile": "a", "profiles": {"a": {"command": "x", "args": "y"}}}`, errors.CodeInvalidProfile},
		{"bad prompt mode", `{"default_profile": "a", "profiles": {"a": {"command": "x", "prompt_mode": "pipe"}}}`, errors.CodeInvalidProfile},
		{"profile not object", `{"default_profile": "a", "profiles": {"a": "x"}}`, errors.CodeInvalidProfile},
	}
	for _, tc := range cases {
		s := newTestStore(t)
		writeConfig(t, s, tc.content)
		_, err := Load(s)
		require.Equal(t, tc.code, errors.CodeOf(err), tc.name)
	}
}

func TestParseProfileCoercesArgItems(t *testing.T) {
	profile, err := ParseProfile("p", map[string]any{
		"command": "runner",
		"args":    []any{"--count", float64(3), true},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"--count", "3", "true"}, profile.Args)
}

func TestParseProfileDefaults(t *testing.T) {
	profile, err := ParseProfile("p", map[string]any{"command": "runner"})
	require.NoError(t, err)
	require.Empty(t, profile.Args)
	require.Equal(t, PromptModeStdin, profile.PromptMode)
	require.Equal(t, DefaultPromptFlag, profile.PromptFlag)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	cfg := Default()
	cfg.Profiles["fast"] = RunnerProfile{
		Command:    "llm",
		Args:       []string{"-m", "small"},
		PromptMode: PromptModeArg,
		PromptFlag: "-p",
	}
	require.NoError(t, Save(s, cfg))

	loaded, err := Load(s)
	require.NoError(t, err)
	require.Equal(t, cfg.DefaultProfile, loaded.DefaultProfile)
	require.Equal(t, cfg.DefaultTemplateFormat, loaded.DefaultTemplateFormat)
	require.Equal(t, cfg.Profiles["fast"], loaded.Profiles["fast"])
}

func TestResolveProfile(t *testing.T) {
	cfg := Default()

	name, profile, err := ResolveProfile(cfg, "")
	require.NoError(t, err)
	require.Equal(t, core.DefaultProfileName, name)
	require.Equal(t, "codex", profile.Command)

	_, _, err = ResolveProfile(cfg, "absent")
	require.Equal(t, errors.CodeProfileNotFound, errors.CodeOf(err))
}
