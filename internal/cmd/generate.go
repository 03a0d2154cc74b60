package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roleflow/roleflow/internal/config"
	"github.com/roleflow/roleflow/internal/core"
	"github.com/roleflow/roleflow/internal/errors"
	"github.com/roleflow/roleflow/internal/generate"
	"github.com/roleflow/roleflow/internal/mapping"
	"github.com/roleflow/roleflow/internal/output"
	"github.com/roleflow/roleflow/internal/runner"
	"github.com/roleflow/roleflow/internal/store"
)

var generateFlags struct {
	name          string
	runnerProfile string
	bindProfile   string
	scope         string
	specificTo    string
	repeatFor     string
	repeatEvery   string
	format        string
	dryRun        bool
	printCommand  bool
}

var generateCmd = &cobra.Command{
	Use:     "generate <request>...",
	Aliases: []string{"ai"},
	Short:   "Generate or update a template from a natural-language request",
	Long: `Drive the runner itself with a meta prompt asking for a template
definition as JSON, then validate and save the result. Updating an
existing template feeds its current fields into the meta prompt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}
		request := strings.TrimSpace(strings.Join(args, " "))
		if request == "" {
			return errors.New(errors.CodeInvalidInput, "generation request cannot be empty")
		}

		templateName := strings.TrimSpace(generateFlags.name)
		if templateName == "" {
			templateName = s.NextAvailableStem(generate.DeriveName(request))
		}
		_, profile, err := config.ResolveProfile(cfg, generateFlags.runnerProfile)
		if err != nil {
			return err
		}

		var format core.Format
		if generateFlags.format != "" {
			format, err = core.ParseFormat(generateFlags.format)
			if err != nil {
				return errors.New(errors.CodeInvalidTemplateFormat, "--format must be `json` or `yaml`")
			}
		}

		existingPath, err := s.MaybeResolveExisting(templateName)
		if err != nil {
			return err
		}
		mode := generate.ModeCreate
		var existing *core.Template
		var targetPath string
		targetStem, _, err := store.SplitName(templateName)
		if err != nil {
			return err
		}
		if existingPath == "" {
			targetPath, err = s.ResolveNew(templateName, format, "", cfg.DefaultTemplateFormat)
			if err != nil {
				return err
			}
			if err := s.EnsureStemNotAmbiguous(targetStem, targetPath); err != nil {
				return err
			}
		} else {
			mode = generate.ModeUpdate
			existing, err = s.LoadTemplateFile(existingPath)
			if err != nil {
				return err
			}
			targetPath, err = s.ResolveNew(templateName, format, filepath.Ext(existingPath), "")
			if err != nil {
				return err
			}
			if _, err := os.Stat(targetPath); err == nil && targetPath != existingPath {
				return errors.Newf(errors.CodeAlreadyExists,
					"target file %s already exists. Rename or delete it first", filepath.Base(targetPath))
			}
		}

		overrides := generate.Overrides{
			Scope:       strings.TrimSpace(generateFlags.scope),
			SpecificTo:  strings.TrimSpace(generateFlags.specificTo),
			BindProfile: strings.TrimSpace(generateFlags.bindProfile),
			RepeatFor:   strings.TrimSpace(generateFlags.repeatFor),
			RepeatEvery: strings.TrimSpace(generateFlags.repeatEvery),
		}
		if overrides.Scope == string(core.ScopeGeneral) && overrides.SpecificTo != "" {
			return errors.New(errors.CodeInvalidInput, "--specific-to cannot be used with --scope general")
		}
		if overrides.RepeatEvery != "" && overrides.RepeatFor == "" {
			return errors.New(errors.CodeDanglingRepeatEvery, "--repeat-every requires --repeat-for")
		}
		if overrides.RepeatFor != "" {
			if _, err := core.ParseDurationSeconds(overrides.RepeatFor, "repeat_for"); err != nil {
				return err
			}
		}
		if overrides.RepeatEvery != "" {
			if _, err := core.ParseDurationSeconds(overrides.RepeatEvery, "repeat_every"); err != nil {
				return err
			}
		}

		metaPrompt, err := generate.BuildPrompt(mode, targetStem, request, existing, overrides)
		if err != nil {
			return err
		}

		exec := runner.NewExecRunner()
		if generateFlags.printCommand {
			fmt.Fprintln(os.Stderr, "Executing:", strings.Join(runner.CommandLine(profile, metaPrompt), " "))
		}
		result, err := exec.Run(cmd.Context(), profile, metaPrompt, runner.Options{CaptureOutput: true})
		if err != nil {
			return err
		}
		if result.ExitCode != 0 {
			details := strings.TrimSpace(result.Stderr)
			if details == "" {
				details = strings.TrimSpace(result.Stdout)
			}
			if details == "" {
				details = "(no output)"
			}
			return errors.Newf(errors.CodeRunnerExecFailure,
				"generation failed with exit code %d:\n%s", result.ExitCode, details)
		}

		payload := strings.TrimSpace(result.Stdout)
		if payload == "" {
			payload = strings.TrimSpace(result.Stderr)
		}
		generated, err := generate.ExtractJSONObject(payload)
		if err != nil {
			return err
		}

		template, err := mergeGenerated(cfg, targetStem, generated, overrides)
		if err != nil {
			return err
		}

		if generateFlags.dryRun {
			payload := mapping.NewRecord()
			payload.Set("target_file", targetPath)
			payload.Set("template", template.Record())
			text, err := output.FormatJSON(payload)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		}

		if err := s.SaveTemplate(targetPath, template); err != nil {
			return err
		}
		if mode == generate.ModeUpdate && targetPath != existingPath {
			if err := s.DeleteTemplate(existingPath); err != nil {
				return err
			}
		}
		action := "Created"
		if mode == generate.ModeUpdate {
			action = "Updated"
		}
		fmt.Printf("%s template `%s` at %s\n", action, targetStem, targetPath)
		return nil
	},
}

// mergeGenerated folds the runner's JSON object and the CLI overrides into a
// validated template. Overrides win over generated fields.
func mergeGenerated(cfg *config.Config, stem string, generated map[string]any, overrides generate.Overrides) (*core.Template, error) {
	field := func(key string) string {
		value, ok := generated[key]
		if !ok || value == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprintf("%v", value))
	}

	template := &core.Template{
		Name:         stem,
		Description:  field("description"),
		RolePrompt:   field("role_prompt"),
		Instructions: field("instructions"),
	}

	scope := overrides.Scope
	if scope == "" && overrides.SpecificTo != "" {
		scope = string(core.ScopeSpecific)
	}
	if scope == "" {
		scope = strings.ToLower(field("scope"))
	}
	if scope == "" {
		scope = string(core.ScopeGeneral)
	}
	if scope != string(core.ScopeGeneral) && scope != string(core.ScopeSpecific) {
		return nil, errors.New(errors.CodeInvalidScope,
			"generated template has invalid scope. Expected general or specific")
	}
	template.Scope = core.Scope(scope)

	specificTo := overrides.SpecificTo
	if specificTo == "" {
		specificTo = field("specific_to")
	}
	if template.Scope == core.ScopeSpecific && specificTo == "" {
		return nil, errors.New(errors.CodeMissingSpecificTo,
			"generated template scope is specific but specific_to is empty. Retry with --specific-to")
	}
	if template.Scope == core.ScopeSpecific {
		template.SpecificTo = specificTo
	}

	bindProfile := overrides.BindProfile
	if bindProfile == "" {
		bindProfile = field("profile")
	}
	if bindProfile != "" {
		if _, _, err := config.ResolveProfile(cfg, bindProfile); err != nil {
			return nil, err
		}
		template.Profile = bindProfile
	}

	repeatFor := overrides.RepeatFor
	if repeatFor == "" {
		repeatFor = field("repeat_for")
	}
	if repeatFor != "" {
		if _, err := core.ParseDurationSeconds(repeatFor, "repeat_for"); err != nil {
			return nil, err
		}
		template.RepeatFor = repeatFor
	}
	repeatEvery := overrides.RepeatEvery
	if repeatEvery == "" {
		repeatEvery = field("repeat_every")
	}
	if repeatEvery != "" {
		if _, err := core.ParseDurationSeconds(repeatEvery, "repeat_every"); err != nil {
			return nil, err
		}
		template.RepeatEvery = repeatEvery
	}
	if template.RepeatEvery != "" && template.RepeatFor == "" {
		return nil, errors.New(errors.CodeDanglingRepeatEvery,
			"generated template has repeat_every but repeat_for is missing. Retry with --repeat-for")
	}
	return template, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	flags := generateCmd.Flags()
	flags.StringVar(&generateFlags.name, "name", "", "template name (derived from the request when omitted)")
	flags.StringVar(&generateFlags.runnerProfile, "runner-profile", "", "profile used to drive generation")
	flags.StringVar(&generateFlags.bindProfile, "bind-profile", "", "bind the generated template to this profile")
	flags.StringVar(&generateFlags.scope, "scope", "", "force generated scope: general or specific")
	flags.StringVar(&generateFlags.specificTo, "specific-to", "", "force the specific target")
	flags.StringVar(&generateFlags.repeatFor, "repeat-for", "", "force the default runtime window")
	flags.StringVar(&generateFlags.repeatEvery, "repeat-every", "", "force the default repeat interval")
	flags.StringVar(&generateFlags.format, "format", "", "target serialization format: json or yaml")
	flags.BoolVar(&generateFlags.dryRun, "dry-run", false, "print the generated template without saving")
	flags.BoolVar(&generateFlags.printCommand, "print-command", false, "print the runner command before execution")
}
