// Package config loads and validates the runner configuration and profile
// bindings stored in <root>/.roleflow/config.json.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/roleflow/roleflow/internal/core"
	"github.com/roleflow/roleflow/internal/errors"
	"github.com/roleflow/roleflow/internal/mapping"
	"github.com/roleflow/roleflow/internal/store"
)

// PromptMode says how the rendered prompt reaches the runner command.
type PromptMode string

const (
	PromptModeStdin PromptMode = "stdin"
	PromptModeArg   PromptMode = "arg"
)

// DefaultPromptFlag is used in arg mode when the profile does not set one.
const DefaultPromptFlag = "--prompt"

// RunnerProfile describes how to invoke the external runner command.
type RunnerProfile struct {
	Command    string
	Args       []string
	PromptMode PromptMode
	PromptFlag string
}

// Config is the per-project runner configuration. Loaded per invocation,
// never cached.
type Config struct {
	DefaultProfile        string
	DefaultTemplateFormat core.Format
	Profiles              map[string]RunnerProfile
}

// ProfileNames returns the profile names sorted.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the built-in configuration written by init: a single
// `default` profile invoking `codex` over stdin.
func Default() *Config {
	return &Config{
		DefaultProfile:        core.DefaultProfileName,
		DefaultTemplateFormat: core.DefaultTemplateFormat,
		Profiles: map[string]RunnerProfile{
			core.DefaultProfileName: {
				Command:    "codex",
				Args:       []string{},
				PromptMode: PromptModeStdin,
				PromptFlag: DefaultPromptFlag,
			},
		},
	}
}

// profileFields is the loose shape a raw profile object decodes into before
// validation. Every field stays untyped so validation controls the errors.
type profileFields struct {
	Command    any `mapstructure:"command"`
	Args       any `mapstructure:"args"`
	PromptMode any `mapstructure:"prompt_mode"`
	PromptFlag any `mapstructure:"prompt_flag"`
}

// ParseProfile validates a raw profile object. Any failure is reported as
// INVALID_PROFILE naming the offending profile.
func ParseProfile(name string, raw any) (RunnerProfile, error) {
	object, ok := raw.(map[string]any)
	if !ok {
		return RunnerProfile{}, errors.Newf(errors.CodeInvalidProfile, "profile `%s` must be an object", name)
	}

	var fields profileFields
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &fields})
	if err != nil {
		return RunnerProfile{}, errors.Wrapf(errors.CodeInvalidProfile, err, "profile `%s` cannot be decoded", name)
	}
	if err := decoder.Decode(object); err != nil {
		return RunnerProfile{}, errors.Wrapf(errors.CodeInvalidProfile, err, "profile `%s` cannot be decoded", name)
	}

	command := strings.TrimSpace(coerceString(fields.Command))
	if command == "" {
		return RunnerProfile{}, errors.Newf(errors.CodeInvalidProfile, "profile `%s` has empty command", name)
	}

	args := []string{}
	if fields.Args != nil {
		list, ok := fields.Args.([]any)
		if !ok {
			if typed, isTyped := fields.Args.([]string); isTyped {
				args = append(args, typed...)
			} else {
				return RunnerProfile{}, errors.Newf(errors.CodeInvalidProfile, "profile `%s` args must be a list", name)
			}
		} else {
			for _, item := range list {
				args = append(args, coerceString(item))
			}
		}
	}

	mode := PromptModeStdin
	if fields.PromptMode != nil {
		text := strings.TrimSpace(coerceString(fields.PromptMode))
		if text != "" {
			mode = PromptMode(text)
		}
	}
	if mode != PromptModeStdin && mode != PromptModeArg {
		return RunnerProfile{}, errors.Newf(errors.CodeInvalidProfile,
			"profile `%s` prompt_mode must be `stdin` or `arg`", name)
	}

	flag := strings.TrimSpace(coerceString(fields.PromptFlag))
	if flag == "" {
		flag = DefaultPromptFlag
	}

	return RunnerProfile{Command: command, Args: args, PromptMode: mode, PromptFlag: flag}, nil
}

// Load reads and validates the config file. A legacy config carrying a
// top-level `runner` object is normalized into a single-profile config named
// by the default profile constant.
func Load(s *store.Store) (*Config, error) {
	record, err := mapping.Load(s.ConfigFile())
	if err != nil {
		return nil, err
	}
	return normalize(record)
}

func normalize(record *mapping.Record) (*Config, error) {
	if rawProfiles, ok := record.Get("profiles"); ok {
		defaultProfile := ""
		if value, ok := record.Get("default_profile"); ok {
			defaultProfile = strings.TrimSpace(coerceString(value))
		}
		if defaultProfile == "" {
			return nil, errors.New(errors.CodeEmptyDefaultProfile, "config default_profile cannot be empty")
		}
		profilesObject, ok := rawProfiles.(map[string]any)
		if !ok || len(profilesObject) == 0 {
			return nil, errors.New(errors.CodeEmptyProfiles, "config profiles must be a non-empty object")
		}
		if _, ok := profilesObject[defaultProfile]; !ok {
			return nil, errors.Newf(errors.CodeUnknownDefaultProfile,
				"config default_profile `%s` was not found in profiles", defaultProfile)
		}
		format := core.DefaultTemplateFormat
		if value, ok := record.Get("default_template_format"); ok {
			text := strings.TrimSpace(coerceString(value))
			parsed, err := core.ParseFormat(text)
			if err != nil {
				return nil, errors.New(errors.CodeInvalidTemplateFormat,
					"config default_template_format must be `json` or `yaml`")
			}
			format = parsed
		}

		cfg := &Config{
			DefaultProfile:        defaultProfile,
			DefaultTemplateFormat: format,
			Profiles:              make(map[string]RunnerProfile, len(profilesObject)),
		}
		for name, raw := range profilesObject {
			profile, err := ParseProfile(name, raw)
			if err != nil {
				return nil, err
			}
			cfg.Profiles[name] = profile
		}
		return cfg, nil
	}

	if rawRunner, ok := record.Get("runner"); ok {
		profile, err := ParseProfile(core.DefaultProfileName, rawRunner)
		if err != nil {
			return nil, err
		}
		return &Config{
			DefaultProfile:        core.DefaultProfileName,
			DefaultTemplateFormat: core.DefaultTemplateFormat,
			Profiles:              map[string]RunnerProfile{core.DefaultProfileName: profile},
		}, nil
	}

	return nil, errors.New(errors.CodeEmptyProfiles,
		"config must include either `profiles` (new format) or `runner` (legacy format)")
}

// Save writes the config back in the profiles form, profiles sorted by name.
func Save(s *store.Store, cfg *Config) error {
	record := mapping.NewRecord()
	record.Set("default_profile", cfg.DefaultProfile)
	record.Set("default_template_format", string(cfg.DefaultTemplateFormat))
	profiles := make(map[string]any, len(cfg.Profiles))
	for _, name := range cfg.ProfileNames() {
		profile := cfg.Profiles[name]
		profiles[name] = map[string]any{
			"command":     profile.Command,
			"args":        profile.Args,
			"prompt_mode": string(profile.PromptMode),
			"prompt_flag": profile.PromptFlag,
		}
	}
	record.Set("profiles", profiles)
	return mapping.Save(s.ConfigFile(), record)
}

// ResolveProfile picks the named profile, or the config default when name is
// empty.
func ResolveProfile(cfg *Config, name string) (string, RunnerProfile, error) {
	selected := strings.TrimSpace(name)
	if selected == "" {
		selected = cfg.DefaultProfile
	}
	profile, ok := cfg.Profiles[selected]
	if !ok {
		return "", RunnerProfile{}, errors.Newf(errors.CodeProfileNotFound,
			"profile `%s` not found. Use `roleflow profile list` first", selected)
	}
	return selected, profile, nil
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
