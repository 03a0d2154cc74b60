package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roleflow/roleflow/internal/core"
	"github.com/roleflow/roleflow/internal/errors"
	"github.com/roleflow/roleflow/internal/store"
)

var renameFlags struct {
	format string
	force  bool
}

var templateRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a template, optionally converting its format",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		source, template, err := s.LoadTemplate(args[0])
		if err != nil {
			return err
		}
		target, newStem, err := resolveMoveTarget(s, args[1], source, renameFlags.format, renameFlags.force)
		if err != nil {
			return err
		}
		if target == source {
			return errors.New(errors.CodeInvalidInput, "new name matches the current file")
		}

		template.Name = newStem
		if err := s.SaveTemplate(target, template); err != nil {
			return err
		}
		if err := s.DeleteTemplate(source); err != nil {
			return err
		}
		fmt.Printf("Renamed %s -> %s\n", filepath.Base(source), filepath.Base(target))
		return nil
	},
}

var copyFlags struct {
	format string
	force  bool
}

var templateCopyCmd = &cobra.Command{
	Use:   "copy <source> <target>",
	Short: "Copy a template under a new name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		source, template, err := s.LoadTemplate(args[0])
		if err != nil {
			return err
		}
		target, newStem, err := resolveMoveTarget(s, args[1], source, copyFlags.format, copyFlags.force)
		if err != nil {
			return err
		}
		if target == source {
			return errors.New(errors.CodeInvalidInput, "target name matches the source file")
		}

		template.Name = newStem
		if err := s.SaveTemplate(target, template); err != nil {
			return err
		}
		fmt.Printf("Copied %s -> %s\n", filepath.Base(source), filepath.Base(target))
		return nil
	},
}

var deleteYes bool

var templateDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a template",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		path, err := s.ResolveExisting(args[0])
		if err != nil {
			return err
		}
		if !deleteYes {
			fmt.Printf("Delete %s? [y/N] ", filepath.Base(path))
			var answer string
			if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil || (answer != "y" && answer != "Y") {
				fmt.Println("Aborted.")
				return nil
			}
		}
		if err := s.DeleteTemplate(path); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", filepath.Base(path))
		return nil
	},
}

// resolveMoveTarget picks the destination path for rename/copy. The source
// file's extension is preserved unless the new name carries its own or
// --format requests a conversion.
func resolveMoveTarget(s *store.Store, newName, source, formatFlag string, force bool) (string, string, error) {
	var format core.Format
	if formatFlag != "" {
		parsed, err := core.ParseFormat(formatFlag)
		if err != nil {
			return "", "", errors.New(errors.CodeInvalidTemplateFormat, "--format must be `json` or `yaml`")
		}
		format = parsed
	}
	target, err := s.ResolveNew(newName, format, filepath.Ext(source), "")
	if err != nil {
		return "", "", err
	}
	newStem, _, err := store.SplitName(newName)
	if err != nil {
		return "", "", err
	}
	if err := s.EnsureStemNotAmbiguous(newStem, target); err != nil {
		return "", "", err
	}
	if _, err := os.Stat(target); err == nil && target != source && !force {
		return "", "", errors.Newf(errors.CodeAlreadyExists,
			"template file %s already exists. Use --force to overwrite", filepath.Base(target))
	}
	return target, newStem, nil
}

func init() {
	templateCmd.AddCommand(templateRenameCmd)
	templateRenameCmd.Flags().StringVar(&renameFlags.format, "format", "", "convert to json or yaml during rename")
	templateRenameCmd.Flags().BoolVar(&renameFlags.force, "force", false, "overwrite an existing target")

	templateCmd.AddCommand(templateCopyCmd)
	templateCopyCmd.Flags().StringVar(&copyFlags.format, "format", "", "convert to json or yaml in the copy")
	templateCopyCmd.Flags().BoolVar(&copyFlags.force, "force", false, "overwrite an existing target")

	templateCmd.AddCommand(templateDeleteCmd)
	templateDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}
