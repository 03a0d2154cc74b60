package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roleflow/roleflow/internal/config"
	"github.com/roleflow/roleflow/internal/output"
	"github.com/roleflow/roleflow/internal/store"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage role templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates with format, profile, scope, and cadence",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}
		files, templates, err := s.ListTemplates()
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No templates found.")
			return nil
		}

		rows := make([]output.TemplateRow, 0, len(files))
		for i, file := range files {
			template := templates[i]
			profile := template.Profile
			if profile == "" {
				profile = cfg.DefaultProfile
			}
			rows = append(rows, output.TemplateRow{
				File:        filepath.Base(file),
				Format:      string(store.FormatOf(file)),
				Profile:     profile,
				Scope:       template.ScopeText(),
				Cadence:     template.CadenceText(),
				Description: template.Description,
			})
		}
		formatter := &output.TableFormatter{}
		fmt.Println(formatter.FormatTemplates(rows))
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		path, template, err := s.LoadTemplate(args[0])
		if err != nil {
			return err
		}
		record := template.Record()
		record.Set("file", filepath.Base(path))
		record.Set("format", string(store.FormatOf(path)))
		rendered, err := output.FormatJSON(record)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
}
