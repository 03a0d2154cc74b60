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
	"github.com/roleflow/roleflow/internal/prompt"
	"github.com/roleflow/roleflow/internal/store"
)

var createFlags struct {
	description string
	role        string
	instructions string
	profile     string
	scope       string
	specificTo  string
	repeatFor   string
	repeatEvery string
	format      string
	force       bool
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a template",
	Long: `Create a template from flag values. --role and --instructions accept
either literal text or @path to read a file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}

		profileName := strings.TrimSpace(createFlags.profile)
		if profileName != "" {
			if _, _, err := config.ResolveProfile(cfg, profileName); err != nil {
				return err
			}
		}

		var format core.Format
		if createFlags.format != "" {
			format, err = core.ParseFormat(createFlags.format)
			if err != nil {
				return errors.New(errors.CodeInvalidTemplateFormat, "--format must be `json` or `yaml`")
			}
		}

		name := args[0]
		path, err := s.ResolveNew(name, format, "", cfg.DefaultTemplateFormat)
		if err != nil {
			return err
		}
		stem, _, err := store.SplitName(name)
		if err != nil {
			return err
		}
		if err := s.EnsureStemNotAmbiguous(stem, path); err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !createFlags.force {
			return errors.Newf(errors.CodeAlreadyExists,
				"template `%s` already exists at %s. Use --force to overwrite", name, path)
		}

		scope := core.Scope(strings.ToLower(strings.TrimSpace(createFlags.scope)))
		specificTo := strings.TrimSpace(createFlags.specificTo)
		if scope == core.ScopeSpecific && specificTo == "" {
			return errors.New(errors.CodeMissingSpecificTo, "--specific-to is required when --scope specific")
		}
		if scope == core.ScopeGeneral && specificTo != "" {
			return errors.New(errors.CodeInvalidInput, "--specific-to can only be used with --scope specific")
		}

		repeatFor := strings.TrimSpace(createFlags.repeatFor)
		repeatEvery := strings.TrimSpace(createFlags.repeatEvery)
		if repeatFor != "" {
			if _, err := core.ParseDurationSeconds(repeatFor, "repeat_for"); err != nil {
				return err
			}
		}
		if repeatEvery != "" {
			if _, err := core.ParseDurationSeconds(repeatEvery, "repeat_every"); err != nil {
				return err
			}
			if repeatFor == "" {
				return errors.New(errors.CodeDanglingRepeatEvery, "--repeat-every requires --repeat-for")
			}
		}

		role, err := prompt.ReadTextArg(createFlags.role)
		if err != nil {
			return err
		}
		instructions, err := prompt.ReadTextArg(createFlags.instructions)
		if err != nil {
			return err
		}

		template := &core.Template{
			Name:         stem,
			Description:  strings.TrimSpace(createFlags.description),
			RolePrompt:   strings.TrimSpace(role),
			Instructions: strings.TrimSpace(instructions),
			Profile:      profileName,
			Scope:        scope,
			SpecificTo:   specificTo,
			RepeatFor:    repeatFor,
			RepeatEvery:  repeatEvery,
		}
		if err := s.SaveTemplate(path, template); err != nil {
			return err
		}
		fmt.Printf("Saved template `%s` to %s\n", stem, path)
		return nil
	},
}

var editFlags struct {
	description     string
	role            string
	instructions    string
	profile         string
	clearProfile    bool
	scope           string
	specificTo      string
	clearSpecificTo bool
	repeatFor       string
	repeatEvery     string
	clearRepeat     bool
	clearRepeatEvery bool
}

var templateEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Update template fields",
	Long: `Apply partial field updates to a template. The whole record is
re-validated before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}
		path, template, err := s.LoadTemplate(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if editFlags.clearRepeat && (flags.Changed("repeat-for") || flags.Changed("repeat-every")) {
			return errors.New(errors.CodeInvalidInput, "cannot use --clear-repeat with --repeat-for/--repeat-every")
		}
		if editFlags.profile != "" && editFlags.clearProfile {
			return errors.New(errors.CodeInvalidInput, "cannot use --profile and --clear-profile together")
		}

		changed := false
		if flags.Changed("description") {
			template.Description = strings.TrimSpace(editFlags.description)
			changed = true
		}
		if flags.Changed("role") {
			role, err := prompt.ReadTextArg(editFlags.role)
			if err != nil {
				return err
			}
			template.RolePrompt = strings.TrimSpace(role)
			changed = true
		}
		if flags.Changed("instructions") {
			instructions, err := prompt.ReadTextArg(editFlags.instructions)
			if err != nil {
				return err
			}
			template.Instructions = strings.TrimSpace(instructions)
			changed = true
		}

		if editFlags.profile != "" {
			profileName := strings.TrimSpace(editFlags.profile)
			if _, _, err := config.ResolveProfile(cfg, profileName); err != nil {
				return err
			}
			template.Profile = profileName
			changed = true
		}
		if editFlags.clearProfile && template.Profile != "" {
			template.Profile = ""
			changed = true
		}

		if flags.Changed("scope") {
			scope := core.Scope(strings.ToLower(strings.TrimSpace(editFlags.scope)))
			if scope != core.ScopeGeneral && scope != core.ScopeSpecific {
				return errors.New(errors.CodeInvalidScope, "template scope must be `general` or `specific`")
			}
			template.Scope = scope
			if scope == core.ScopeGeneral {
				template.SpecificTo = ""
			}
			changed = true
		}
		if editFlags.clearSpecificTo {
			template.SpecificTo = ""
			changed = true
		}
		if flags.Changed("specific-to") {
			template.SpecificTo = strings.TrimSpace(editFlags.specificTo)
			changed = true
		}

		if flags.Changed("repeat-for") {
			value := strings.TrimSpace(editFlags.repeatFor)
			if value == "" {
				return errors.New(errors.CodeInvalidInput, "--repeat-for cannot be empty")
			}
			if _, err := core.ParseDurationSeconds(value, "repeat_for"); err != nil {
				return err
			}
			template.RepeatFor = value
			changed = true
		}
		if flags.Changed("repeat-every") {
			value := strings.TrimSpace(editFlags.repeatEvery)
			if value == "" {
				return errors.New(errors.CodeInvalidInput, "--repeat-every cannot be empty")
			}
			if _, err := core.ParseDurationSeconds(value, "repeat_every"); err != nil {
				return err
			}
			template.RepeatEvery = value
			changed = true
		}
		if editFlags.clearRepeat {
			template.RepeatFor = ""
			template.RepeatEvery = ""
			changed = true
		}
		if editFlags.clearRepeatEvery {
			template.RepeatEvery = ""
			changed = true
		}

		if !changed {
			return errors.New(errors.CodeInvalidInput, "no updates provided. Use edit flags to change template fields")
		}

		// SaveTemplate re-normalizes, catching scope/cadence invariants
		// broken by the partial update.
		if err := s.SaveTemplate(path, template); err != nil {
			return err
		}
		fmt.Printf("Updated template `%s` (%s)\n", template.Name, filepath.Base(path))
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateCreateCmd)
	flags := templateCreateCmd.Flags()
	flags.StringVar(&createFlags.description, "description", "", "template description (required)")
	flags.StringVar(&createFlags.role, "role", "", "role prompt text or @file (required)")
	flags.StringVar(&createFlags.instructions, "instructions", "", "execution rules text or @file (required)")
	flags.StringVar(&createFlags.profile, "profile", "", "bind a profile from config")
	flags.StringVar(&createFlags.scope, "scope", "general", "template scope: general or specific")
	flags.StringVar(&createFlags.specificTo, "specific-to", "", "target for specific scope")
	flags.StringVar(&createFlags.repeatFor, "repeat-for", "", "repeat window duration (e.g. 2h)")
	flags.StringVar(&createFlags.repeatEvery, "repeat-every", "", "repeat interval duration (e.g. 30m)")
	flags.StringVar(&createFlags.format, "format", "", "serialization format: json or yaml")
	flags.BoolVar(&createFlags.force, "force", false, "overwrite an existing template")
	_ = templateCreateCmd.MarkFlagRequired("description")
	_ = templateCreateCmd.MarkFlagRequired("role")
	_ = templateCreateCmd.MarkFlagRequired("instructions")

	templateCmd.AddCommand(templateEditCmd)
	eflags := templateEditCmd.Flags()
	eflags.StringVar(&editFlags.description, "description", "", "new description")
	eflags.StringVar(&editFlags.role, "role", "", "new role prompt text or @file")
	eflags.StringVar(&editFlags.instructions, "instructions", "", "new execution rules text or @file")
	eflags.StringVar(&editFlags.profile, "profile", "", "bind a profile from config")
	eflags.BoolVar(&editFlags.clearProfile, "clear-profile", false, "remove the profile binding")
	eflags.StringVar(&editFlags.scope, "scope", "", "new scope: general or specific")
	eflags.StringVar(&editFlags.specificTo, "specific-to", "", "new target for specific scope")
	eflags.BoolVar(&editFlags.clearSpecificTo, "clear-specific-to", false, "remove specific_to")
	eflags.StringVar(&editFlags.repeatFor, "repeat-for", "", "new repeat window duration")
	eflags.StringVar(&editFlags.repeatEvery, "repeat-every", "", "new repeat interval duration")
	eflags.BoolVar(&editFlags.clearRepeat, "clear-repeat", false, "remove the repeat cadence")
	eflags.BoolVar(&editFlags.clearRepeatEvery, "clear-repeat-every", false, "remove repeat_every only")
}
