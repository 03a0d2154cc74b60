package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roleflow/roleflow/internal/config"
	"github.com/roleflow/roleflow/internal/core"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the template store and default config",
	Long: `Create <root>/.roleflow with a templates directory, a default config
(single "default" profile invoking codex over stdin), and the starter
templates (planning, testing, review).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStoreAnyState()
		if err != nil {
			return err
		}
		if err := s.CreateLayout(initForce); err != nil {
			return err
		}
		if err := config.Save(s, config.Default()); err != nil {
			return err
		}
		for _, starter := range core.StarterTemplates {
			template := starter
			path, err := s.ResolveNew(template.Name, core.DefaultTemplateFormat, "", core.DefaultTemplateFormat)
			if err != nil {
				return err
			}
			if err := s.SaveTemplate(path, &template); err != nil {
				return err
			}
		}
		fmt.Printf("Initialized roleflow in %s\n", s.ConfigDir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing starter config/templates")
}
