package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roleflow/roleflow/internal/config"
	"github.com/roleflow/roleflow/internal/core"
	"github.com/roleflow/roleflow/internal/errors"
	"github.com/roleflow/roleflow/internal/output"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage runner profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runner profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}
		rows := make([]output.ProfileRow, 0, len(cfg.Profiles))
		for _, name := range cfg.ProfileNames() {
			profile := cfg.Profiles[name]
			rows = append(rows, output.ProfileRow{
				Name:    name,
				Default: name == cfg.DefaultProfile,
				Command: profile.Command,
				Mode:    string(profile.PromptMode),
				Args:    len(profile.Args),
			})
		}
		formatter := &output.TableFormatter{}
		fmt.Println(formatter.FormatProfiles(rows))
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}
		name := args[0]
		profile, ok := cfg.Profiles[name]
		if !ok {
			return errors.Newf(errors.CodeProfileNotFound, "profile `%s` not found", name)
		}
		text, err := output.FormatJSON(map[string]any{
			"name":        name,
			"default":     name == cfg.DefaultProfile,
			"command":     profile.Command,
			"args":        profile.Args,
			"prompt_mode": string(profile.PromptMode),
			"prompt_flag": profile.PromptFlag,
		})
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

var addFlags struct {
	command    string
	args       []string
	promptMode string
	promptFlag string
	force      bool
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or overwrite a runner profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(args[0])
		if name == "" {
			return errors.New(errors.CodeInvalidInput, "profile name cannot be empty")
		}
		if _, exists := cfg.Profiles[name]; exists && !addFlags.force {
			return errors.Newf(errors.CodeAlreadyExists,
				"profile `%s` already exists. Use --force to overwrite", name)
		}

		raw := map[string]any{
			"command":     strings.TrimSpace(addFlags.command),
			"args":        toAnySlice(addFlags.args),
			"prompt_mode": addFlags.promptMode,
			"prompt_flag": addFlags.promptFlag,
		}
		profile, err := config.ParseProfile(name, raw)
		if err != nil {
			return err
		}
		cfg.Profiles[name] = profile
		if err := config.Save(s, cfg); err != nil {
			return err
		}
		fmt.Printf("Saved profile `%s`\n", name)
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a runner profile",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}
		name := args[0]
		if _, ok := cfg.Profiles[name]; !ok {
			return errors.Newf(errors.CodeProfileNotFound, "profile `%s` not found", name)
		}
		if name == cfg.DefaultProfile {
			return errors.Newf(errors.CodeInvalidInput,
				"profile `%s` is the default profile. Set another default first", name)
		}

		paths, templates, err := s.ListTemplates()
		if err != nil {
			return err
		}
		for i, template := range templates {
			if strings.TrimSpace(template.Profile) == name {
				return errors.Newf(errors.CodeInvalidInput,
					"profile `%s` is used by template `%s` (%s). Reassign or remove that template first",
					name, template.Name, filepath.Base(paths[i]))
			}
		}

		delete(cfg.Profiles, name)
		if err := config.Save(s, cfg); err != nil {
			return err
		}
		fmt.Printf("Removed profile `%s`\n", name)
		return nil
	},
}

var profileDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}
		name := args[0]
		if _, ok := cfg.Profiles[name]; !ok {
			return errors.Newf(errors.CodeProfileNotFound, "profile `%s` not found", name)
		}
		cfg.DefaultProfile = name
		if err := config.Save(s, cfg); err != nil {
			return err
		}
		fmt.Printf("Default profile set to `%s`\n", name)
		return nil
	},
}

var profileFormatCmd = &cobra.Command{
	Use:   "format <json|yaml>",
	Short: "Set the default template format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}
		format, err := core.ParseFormat(args[0])
		if err != nil {
			return errors.New(errors.CodeInvalidTemplateFormat, "template format must be `json` or `yaml`")
		}
		cfg.DefaultTemplateFormat = format
		if err := config.Save(s, cfg); err != nil {
			return err
		}
		fmt.Printf("Default template format set to `%s`\n", format)
		return nil
	},
}

func toAnySlice(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)

	profileCmd.AddCommand(profileAddCmd)
	flags := profileAddCmd.Flags()
	flags.StringVar(&addFlags.command, "command", "", "runner executable (required)")
	flags.StringArrayVar(&addFlags.args, "arg", nil, "base argument, repeatable")
	flags.StringVar(&addFlags.promptMode, "prompt-mode", string(config.PromptModeStdin), "prompt delivery: stdin or arg")
	flags.StringVar(&addFlags.promptFlag, "prompt-flag", config.DefaultPromptFlag, "flag preceding the prompt in arg mode")
	_ = profileAddCmd.MarkFlagRequired("command")

	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileDefaultCmd)
	profileCmd.AddCommand(profileFormatCmd)
}
